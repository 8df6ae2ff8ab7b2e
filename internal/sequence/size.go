package sequence

import (
	"errors"
	"fmt"

	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

// ErrInfeasible reports a path that cannot fit the requested bounds even
// after auto-expansion.
var ErrInfeasible = errors.New("sequence: path does not fit world bounds")

// RequiredSize returns the minimal width, depth and height holding path.
func RequiredSize(path []world.Cell) world.Dimensions {
	b, ok := world.BoundsOf(path)
	if !ok {
		return world.Dimensions{}
	}
	return b.Size()
}

// Expand grows dim to hold a path of the given box size plus one level of
// headroom above its highest cell. A positive limit caps every axis.
func Expand(dim, box world.Dimensions, limit int) (world.Dimensions, error) {
	out := world.Dimensions{
		Width:  max(dim.Width, box.Width),
		Depth:  max(dim.Depth, box.Depth),
		Height: max(dim.Height, box.Height+1),
	}
	if limit > 0 && (out.Width > limit || out.Depth > limit || out.Height > limit) {
		return world.Dimensions{}, fmt.Errorf("%w: need %dx%dx%d, limit %d",
			ErrInfeasible, out.Width, out.Depth, out.Height, limit)
	}
	return out, nil
}

// Place translates a relative path into dim. The x and y offsets are drawn
// uniformly from every offset keeping the path in bounds; the z offset is 0
// when that leaves headroom above the top cell, otherwise drawn uniformly.
func Place(r *rng.Source, rel []world.Cell, dim world.Dimensions) ([]world.Cell, error) {
	b, ok := world.BoundsOf(rel)
	if !ok {
		return nil, fmt.Errorf("%w: empty path", ErrInfeasible)
	}
	ox, ok := drawOffset(r, -b.Min.X, dim.Width-1-b.Max.X)
	if !ok {
		return nil, fmt.Errorf("%w: width %d", ErrInfeasible, dim.Width)
	}
	oy, ok := drawOffset(r, -b.Min.Y, dim.Depth-1-b.Max.Y)
	if !ok {
		return nil, fmt.Errorf("%w: depth %d", ErrInfeasible, dim.Depth)
	}
	zLo, zHi := -b.Min.Z, dim.Height-2-b.Max.Z
	if zHi < zLo {
		return nil, fmt.Errorf("%w: height %d", ErrInfeasible, dim.Height)
	}
	oz := 0
	if zLo > 0 || zHi < 0 {
		oz, _ = drawOffset(r, zLo, zHi)
	}

	placed := make([]world.Cell, len(rel))
	for i, c := range rel {
		placed[i] = c.Add(ox, oy, oz)
	}
	return placed, nil
}

func drawOffset(r *rng.Source, lo, hi int) (int, bool) {
	if hi < lo {
		return 0, false
	}
	return lo + r.Intn(hi-lo+1), true
}
