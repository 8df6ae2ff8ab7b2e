package terrain

import "voxelclimb/internal/world"

// The baseline level is a straight five-step staircase along the middle row
// of a 5x3 grid. It is returned whenever generation exhausts its budget.
const (
	baselineWidth  = 5
	baselineDepth  = 3
	baselineHeight = 6
)

// BaselineRoute returns the staircase route, one level higher per column.
func BaselineRoute() []world.Cell {
	route := make([]world.Cell, baselineWidth)
	for x := range route {
		route[x] = world.Cell{X: x, Y: 1, Z: x}
	}
	return route
}

// BaselineVoxel builds the fallback voxel world.
func BaselineVoxel() (*world.Voxel, []world.Cell) {
	route := BaselineRoute()
	v := world.NewVoxel(world.Dimensions{Width: baselineWidth, Depth: baselineDepth, Height: baselineHeight})
	for _, c := range route {
		v.FillColumn(c.X, c.Y, c.Z)
	}
	return v, route
}

// BaselineHeightField builds the fallback height field, whose summit is the
// top of the staircase.
func BaselineHeightField() (*world.HeightField, []world.Cell) {
	route := BaselineRoute()
	h := world.NewHeightField(world.Dimensions{Width: baselineWidth, Depth: baselineDepth, Height: baselineWidth})
	for _, c := range route {
		h.SetHeight(c.X, c.Y, c.Z+1)
	}
	return h, route
}
