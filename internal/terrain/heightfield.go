package terrain

import (
	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

// HeightFieldParams configures the legacy column terrain.
type HeightFieldParams struct {
	Width     int
	Depth     int
	MaxHeight int
	// HoleChance is the probability that an off-route column is left empty.
	HoleChance float64
	// HeightFalloff lowers the ceiling of off-route columns.
	HeightFalloff float64
}

// BuildHeightField raises route columns to their profile heights and fills
// every other column, in row-major order, with a hole or a random height
// below MaxHeight so only the route reaches the summit.
func BuildHeightField(r *rng.Source, p HeightFieldParams, route []world.Column, profile []int) *world.HeightField {
	h := world.NewHeightField(world.Dimensions{Width: p.Width, Depth: p.Depth, Height: p.MaxHeight})
	dim := h.Dimensions()
	onRoute := make(map[world.Column]bool, len(route))
	for i, c := range route {
		h.SetHeight(c.X, c.Y, profile[i])
		onRoute[c] = true
	}

	holeChance := clampFloat(p.HoleChance, 0, 1)
	falloff := clampFloat(p.HeightFalloff, 0, maxHeightFalloff)
	ceiling := max(1, int(float64(dim.Height-1)*(1-falloff)))
	for y := 0; y < dim.Depth; y++ {
		for x := 0; x < dim.Width; x++ {
			if onRoute[world.Column{X: x, Y: y}] {
				continue
			}
			if r.Float64() < holeChance {
				continue
			}
			h.SetHeight(x, y, 1+r.Intn(ceiling))
		}
	}
	return h
}

// RouteCells lifts route columns to the level an actor stands on. Profiles
// built from HeightFieldBase count blocks, so their levels sit one lower
// than the profile value.
func RouteCells(route []world.Column, profile []int, base int) []world.Cell {
	cells := make([]world.Cell, len(route))
	for i, c := range route {
		cells[i] = c.At(profile[i] - base)
	}
	return cells
}
