package terrain

import "voxelclimb/internal/world"

// anchorReach is the largest same-layer Manhattan distance a floating block
// may sit from an anchored block and still be kept.
const anchorReach = 2

// AnchorReport summarises an anchoring pass.
type AnchorReport struct {
	Backfilled int
	Cleared    int
}

// Anchor sweeps layers bottom-up. Within a layer the anchored set starts
// from blocks resting on a solid block and grows breadth-first: a floating
// block within anchorReach of an anchored block gets a pillar backfilled
// beneath it and becomes anchored itself. Blocks never reached, and blocks
// whose pillar would cross a protected cell, are removed once the layer is
// settled. After the pass every solid block rests on the ground or on
// another block.
func (b *Builder) Anchor() AnchorReport {
	var report AnchorReport
	dim := b.world.Dimensions()
	anchored := make([]bool, dim.Width*dim.Depth)
	for z := 1; z < dim.Height; z++ {
		b.anchorLayer(z, anchored, &report)
	}
	return report
}

func (b *Builder) anchorLayer(z int, anchored []bool, report *AnchorReport) {
	v := b.world
	dim := v.Dimensions()

	var queue []world.Column
	for y := 0; y < dim.Depth; y++ {
		for x := 0; x < dim.Width; x++ {
			i := y*dim.Width + x
			anchored[i] = v.Solid(x, y, z) && v.Solid(x, y, z-1)
			if anchored[i] {
				queue = append(queue, world.Column{X: x, Y: y})
			}
		}
	}

	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for dy := -anchorReach; dy <= anchorReach; dy++ {
			for dx := -anchorReach; dx <= anchorReach; dx++ {
				if (dx == 0 && dy == 0) || abs(dx)+abs(dy) > anchorReach {
					continue
				}
				nx, ny := c.X+dx, c.Y+dy
				if nx < 0 || ny < 0 || nx >= dim.Width || ny >= dim.Depth {
					continue
				}
				i := ny*dim.Width + nx
				if anchored[i] || !v.Solid(nx, ny, z) {
					continue
				}
				if !b.backfill(nx, ny, z) {
					continue
				}
				anchored[i] = true
				report.Backfilled++
				queue = append(queue, world.Column{X: nx, Y: ny})
			}
		}
	}

	for y := 0; y < dim.Depth; y++ {
		for x := 0; x < dim.Width; x++ {
			if v.Solid(x, y, z) && !anchored[y*dim.Width+x] {
				v.Clear(x, y, z)
				report.Cleared++
			}
		}
	}
}

// backfill fills the empty cells beneath (x, y, z) down to the first solid
// cell or the ground. It refuses, leaving the world untouched, when that
// would fill a protected cell.
func (b *Builder) backfill(x, y, z int) bool {
	bottom := z - 1
	for bottom >= 0 && !b.world.Solid(x, y, bottom) {
		if b.Protected(x, y, bottom) {
			return false
		}
		bottom--
	}
	for k := bottom + 1; k < z; k++ {
		b.world.Set(x, y, k)
	}
	return true
}

// Supported reports whether every solid block of v above the ground rests on
// a solid block.
func Supported(v *world.Voxel) bool {
	dim := v.Dimensions()
	for z := 1; z < dim.Height; z++ {
		for y := 0; y < dim.Depth; y++ {
			for x := 0; x < dim.Width; x++ {
				if v.Solid(x, y, z) && !v.Solid(x, y, z-1) {
					return false
				}
			}
		}
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
