package pathfinding

import (
	"context"

	"voxelclimb/internal/world"
)

// Move resolves a single climbing step from a cell into a horizontally
// adjacent column. It fails for non-adjacent columns and for columns without
// a standable level.
func Move(t world.Terrain, from world.Cell, to world.Column) (world.Cell, bool) {
	if world.Manhattan(from.Column(), to) != 1 {
		return world.Cell{}, false
	}
	z, ok := world.LandingHeight(t, to, from.Z)
	if !ok {
		return world.Cell{}, false
	}
	return to.At(z), true
}

// CanMove reports whether a single move from the cell into the column is
// legal. Game loops check player input with it.
func CanMove(t world.Terrain, from world.Cell, to world.Column) bool {
	_, ok := Move(t, from, to)
	return ok
}

// Neighbors lists the cells reachable in one move, in Neighbors4 order.
func Neighbors(t world.Terrain, from world.Cell) []world.Cell {
	neighbors := make([]world.Cell, 0, len(world.Neighbors4))
	for _, offset := range world.Neighbors4 {
		col := world.Column{X: from.X + offset.X, Y: from.Y + offset.Y}
		z, ok := world.LandingHeight(t, col, from.Z)
		if !ok {
			continue
		}
		neighbors = append(neighbors, col.At(z))
	}
	return neighbors
}

// Reach is the result of a breadth-first search over the climbing graph.
type Reach struct {
	start  world.Cell
	dist   map[world.Cell]int
	parent map[world.Cell]world.Cell
	order  []world.Cell
}

// Explore runs a breadth-first search from start over every reachable cell.
// A cancelled context stops the search early with the cells visited so far.
func Explore(ctx context.Context, t world.Terrain, start world.Cell) *Reach {
	return explore(ctx, t, start, nil)
}

func explore(ctx context.Context, t world.Terrain, start world.Cell, stop func(world.Cell) bool) *Reach {
	profiler := profilerFromContext(ctx)
	if profiler != nil {
		profiler.RecordSearch()
	}
	r := &Reach{
		start:  start,
		dist:   map[world.Cell]int{start: 0},
		parent: map[world.Cell]world.Cell{},
		order:  []world.Cell{start},
	}
	for head := 0; head < len(r.order); head++ {
		select {
		case <-ctx.Done():
			return r
		default:
		}

		current := r.order[head]
		if profiler != nil {
			profiler.RecordNodeExpanded()
		}
		if stop != nil && stop(current) {
			return r
		}
		neighbors := Neighbors(t, current)
		if profiler != nil {
			profiler.RecordNeighborGeneration(len(neighbors))
		}
		for _, next := range neighbors {
			if _, seen := r.dist[next]; seen {
				continue
			}
			r.dist[next] = r.dist[current] + 1
			r.parent[next] = current
			r.order = append(r.order, next)
		}
	}
	return r
}

// Distance returns the number of moves from the search start to c.
func (r *Reach) Distance(c world.Cell) (int, bool) {
	d, ok := r.dist[c]
	return d, ok
}

// Visited returns the reached cells in breadth-first order.
func (r *Reach) Visited() []world.Cell {
	return r.order
}

// Route reconstructs the shortest move sequence from the search start to
// goal, both ends included. It returns nil when goal was not reached.
func (r *Reach) Route(goal world.Cell) []world.Cell {
	if _, ok := r.dist[goal]; !ok {
		return nil
	}
	route := []world.Cell{goal}
	current := goal
	for current != r.start {
		current = r.parent[current]
		route = append(route, current)
	}
	for i, j := 0, len(route)-1; i < j; i, j = i+1, j-1 {
		route[i], route[j] = route[j], route[i]
	}
	return route
}

// ShortestRoute returns the shortest climbing route between two cells, used
// by hint and auto-solve features.
func ShortestRoute(ctx context.Context, t world.Terrain, start, goal world.Cell) []world.Cell {
	if start == goal {
		return []world.Cell{start}
	}
	r := explore(ctx, t, start, func(c world.Cell) bool { return c == goal })
	return r.Route(goal)
}

// RouteLength counts the cells on the shortest route from start to goal,
// both ends included.
func RouteLength(ctx context.Context, t world.Terrain, start, goal world.Cell) (int, bool) {
	r := explore(ctx, t, start, func(c world.Cell) bool { return c == goal })
	d, ok := r.Distance(goal)
	if !ok {
		return 0, false
	}
	return d + 1, true
}
