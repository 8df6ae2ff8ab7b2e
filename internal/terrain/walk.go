package terrain

import (
	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

const (
	minWalkTries = 80
	minWeight    = 0.05
	maxBias      = 0.9
)

// WalkParams configures the self-avoiding route walk over the column grid.
type WalkParams struct {
	Width     int
	Depth     int
	Start     world.Column
	MinLength int
	// EdgeBias discourages stepping onto the outer rings of the grid.
	EdgeBias float64
	// TurnBias discourages straight runs and favours turns.
	TurnBias float64
	Attempts int
}

// WalkPath performs up to max(80, Attempts/2) biased self-avoiding walks
// from Start and returns the first one that reaches MinLength columns and
// ends strictly inside the grid.
func WalkPath(r *rng.Source, p WalkParams) ([]world.Column, bool) {
	dim := world.Dimensions{Width: p.Width, Depth: p.Depth, Height: 1}
	if !dim.ContainsColumn(p.Start) {
		return nil, false
	}
	edgeBias := clampFloat(p.EdgeBias, 0, maxBias)
	turnBias := clampFloat(p.TurnBias, 0, maxBias)
	tries := max(minWalkTries, p.Attempts/2)
	for try := 0; try < tries; try++ {
		if path, ok := walkOnce(r, dim, p.Start, p.MinLength, edgeBias, turnBias); ok {
			return path, true
		}
	}
	return nil, false
}

func walkOnce(r *rng.Source, dim world.Dimensions, start world.Column, minLength int, edgeBias, turnBias float64) ([]world.Column, bool) {
	path := []world.Column{start}
	visited := map[world.Column]bool{start: true}
	candidates := make([]world.Column, 0, 4)
	weights := make([]float64, 0, 4)

	for {
		current := path[len(path)-1]
		if len(path) >= minLength && !dim.OnEdge(current) {
			return path, true
		}

		candidates = candidates[:0]
		for _, offset := range world.Neighbors4 {
			next := world.Column{X: current.X + offset.X, Y: current.Y + offset.Y}
			if dim.ContainsColumn(next) && !visited[next] {
				candidates = append(candidates, next)
			}
		}
		if len(candidates) == 0 {
			return nil, false
		}
		if len(path) > 2 {
			candidates = preferInterior(dim, candidates)
		}

		var last world.Column
		hasLast := len(path) >= 2
		if hasLast {
			prev := path[len(path)-2]
			last = world.Column{X: current.X - prev.X, Y: current.Y - prev.Y}
		}

		weights = weights[:0]
		for _, next := range candidates {
			weights = append(weights, stepWeight(dim, current, next, last, hasLast, edgeBias, turnBias))
		}

		next := candidates[pickWeighted(r, weights)]
		visited[next] = true
		path = append(path, next)
	}
}

// stepWeight scores a candidate step. The outer ring is scaled by
// 1-edgeBias and the ring inside it by 1-edgeBias/2. Once a heading exists,
// going straight is scaled by 1-turnBias and turning by 1+0.4*turnBias. The
// result never drops below minWeight.
func stepWeight(dim world.Dimensions, current, next, last world.Column, hasLast bool, edgeBias, turnBias float64) float64 {
	w := 1.0
	if dim.OnEdge(next) {
		w *= 1 - edgeBias
	} else if dim.NearEdge(next) {
		w *= 1 - edgeBias*0.5
	}
	if hasLast {
		step := world.Column{X: next.X - current.X, Y: next.Y - current.Y}
		if step == last {
			w *= 1 - turnBias
		} else {
			w *= 1 + turnBias*0.4
		}
	}
	return max(w, minWeight)
}

// preferInterior drops edge candidates when at least one interior candidate
// exists.
func preferInterior(dim world.Dimensions, candidates []world.Column) []world.Column {
	interior := candidates[:0:0]
	for _, c := range candidates {
		if !dim.OnEdge(c) {
			interior = append(interior, c)
		}
	}
	if len(interior) == 0 {
		return candidates
	}
	return interior
}

// pickWeighted draws one Float64 scaled by the total weight and returns the
// index whose cumulative weight first exceeds it.
func pickWeighted(r *rng.Source, weights []float64) int {
	total := 0.0
	for _, w := range weights {
		total += w
	}
	target := r.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if target < cumulative {
			return i
		}
	}
	return len(weights) - 1
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
