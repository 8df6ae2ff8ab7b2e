package terrain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zyedidia/generic/mapset"

	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

func diagonalRoute() []world.Cell {
	return []world.Cell{
		{X: 1, Y: 1, Z: 0},
		{X: 2, Y: 1, Z: 1},
		{X: 3, Y: 1, Z: 1},
		{X: 3, Y: 2, Z: 2},
		{X: 3, Y: 3, Z: 3},
		{X: 4, Y: 3, Z: 3},
	}
}

func TestAddRouteBuildsPillarsAndProtectsTops(t *testing.T) {
	b := NewBuilder(rng.New(1), world.Dimensions{Width: 6, Depth: 6, Height: 6})
	route := diagonalRoute()
	b.AddRoute(route)

	v := b.World()
	for _, c := range route {
		for z := 0; z <= c.Z; z++ {
			assert.True(t, v.Solid(c.X, c.Y, z), "pillar %v missing level %d", c, z)
		}
		assert.True(t, v.Standable(c.X, c.Y, c.Z))
		assert.True(t, b.Protected(c.X, c.Y, c.Z+1))
	}
	assert.False(t, b.Protected(0, 0, 0))
}

func TestDecorateRespectsProtectionAndSupport(t *testing.T) {
	for _, policy := range []SupportPolicy{PairEitherSupported, PairExclusiveSupport} {
		b := NewBuilder(rng.New(42), world.Dimensions{Width: 8, Depth: 8, Height: 6})
		route := diagonalRoute()
		b.AddRoute(route)
		before := b.World().SolidCount()

		placed := b.Decorate(FillParams{FillChance: 0.3, HeightFalloff: 0.5, PairChance: 0.5, Policy: policy})
		v := b.World()
		require.Positive(t, placed)
		assert.Equal(t, before+placed, v.SolidCount())

		for _, c := range route {
			assert.False(t, v.Solid(c.X, c.Y, c.Z+1), "policy %d filled the top of %v", policy, c)
		}

		dim := v.Dimensions()
		for z := 1; z < dim.Height; z++ {
			for y := 0; y < dim.Depth; y++ {
				for x := 0; x < dim.Width; x++ {
					if !v.Solid(x, y, z) || v.Supported(x, y, z) {
						continue
					}
					assert.True(t, hasSolidNeighbour(v, x, y, z), "policy %d left (%d,%d,%d) floating alone", policy, x, y, z)
				}
			}
		}
	}
}

func hasSolidNeighbour(v *world.Voxel, x, y, z int) bool {
	for _, o := range world.Neighbors4 {
		if v.Solid(x+o.X, y+o.Y, z) {
			return true
		}
	}
	return false
}

func TestDecorateSkipsBlockedColumns(t *testing.T) {
	dim := world.Dimensions{Width: 4, Depth: 4, Height: 3}
	blocked := mapset.New[world.Column]()
	for y := 0; y < dim.Depth; y++ {
		for x := 0; x < dim.Width; x++ {
			blocked.Put(world.Column{X: x, Y: y})
		}
	}
	b := NewBuilder(rng.New(7), dim)
	assert.Zero(t, b.Decorate(FillParams{FillChance: 0.45, PairChance: 0.5, Blocked: blocked}))
	assert.Zero(t, b.World().SolidCount())

	b = NewBuilder(rng.New(7), dim)
	assert.Zero(t, b.Decorate(FillParams{}))
}

func TestDecorateIsDeterministic(t *testing.T) {
	build := func() *world.Voxel {
		b := NewBuilder(rng.New(1234), world.Dimensions{Width: 7, Depth: 5, Height: 5})
		b.AddRoute(diagonalRoute())
		b.Decorate(FillParams{FillChance: 0.25, HeightFalloff: 0.3, PairChance: 0.4})
		b.Anchor()
		return b.World()
	}
	assert.True(t, build().Equal(build()))
}

func TestAnchorBackfillsNearbyAndClearsTheRest(t *testing.T) {
	b := NewBuilder(rng.New(1), world.Dimensions{Width: 6, Depth: 6, Height: 5})
	b.AddPillar(world.Cell{X: 1, Y: 1, Z: 2})
	b.AddPillar(world.Cell{X: 2, Y: 3, Z: 3})
	b.Protect(world.Cell{X: 3, Y: 3, Z: 1})

	v := b.World()
	v.Set(2, 1, 2) // next to the first pillar
	v.Set(3, 3, 3) // its pillar would cross a protected cell
	v.Set(5, 5, 3) // out of reach

	report := b.Anchor()
	assert.Equal(t, AnchorReport{Backfilled: 1, Cleared: 2}, report)
	assert.True(t, v.Solid(2, 1, 0))
	assert.True(t, v.Solid(2, 1, 1))
	assert.True(t, v.Solid(2, 1, 2))
	assert.False(t, v.Solid(3, 3, 3))
	assert.False(t, v.Solid(3, 3, 1))
	assert.False(t, v.Solid(5, 5, 3))
	assert.True(t, Supported(v))
}

func TestAnchorIsMirrorSymmetric(t *testing.T) {
	const width = 8
	build := func(mirror bool) (*world.Voxel, AnchorReport) {
		at := func(x int) int {
			if mirror {
				return width - 1 - x
			}
			return x
		}
		b := NewBuilder(rng.New(1), world.Dimensions{Width: width, Depth: 1, Height: 3})
		v := b.World()
		v.Set(at(7), 0, 0)
		v.Set(at(7), 0, 1)
		for _, x := range []int{5, 3, 0} {
			v.Set(at(x), 0, 1)
		}
		return v, b.Anchor()
	}

	v, report := build(false)
	mirrored, mirroredReport := build(true)
	assert.Equal(t, report, mirroredReport)
	assert.Equal(t, AnchorReport{Backfilled: 2, Cleared: 1}, report)
	for x := 0; x < width; x++ {
		assert.Equal(t, v.Solid(x, 0, 1), mirrored.Solid(width-1-x, 0, 1), "x=%d", x)
	}
	assert.True(t, v.Solid(3, 0, 1), "chained block is kept")
	assert.False(t, v.Solid(0, 0, 1), "block out of reach of the chain is cleared")
	assert.True(t, Supported(v))
}

func TestAnchorLeavesEveryBlockSupported(t *testing.T) {
	for seed := uint64(1); seed <= 5; seed++ {
		b := NewBuilder(rng.New(seed), world.Dimensions{Width: 8, Depth: 8, Height: 6})
		b.AddRoute(diagonalRoute())
		b.Decorate(FillParams{FillChance: 0.4, HeightFalloff: 0.2, PairChance: 0.9})
		b.Anchor()
		assert.True(t, Supported(b.World()), "seed %d", seed)
	}
}

func TestBuildHeightField(t *testing.T) {
	route := []world.Column{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 2, Y: 1}, {X: 2, Y: 2}}
	profile := []int{1, 2, 2, 3}
	params := HeightFieldParams{Width: 5, Depth: 4, MaxHeight: 3, HoleChance: 0.2, HeightFalloff: 0.1}

	h := BuildHeightField(rng.New(8), params, route, profile)
	onRoute := make(map[world.Column]bool)
	for i, c := range route {
		onRoute[c] = true
		assert.Equal(t, profile[i], h.Height(c.X, c.Y))
	}
	for y := 0; y < params.Depth; y++ {
		for x := 0; x < params.Width; x++ {
			if !onRoute[world.Column{X: x, Y: y}] {
				assert.Less(t, h.Height(x, y), params.MaxHeight, "filler at (%d,%d) reaches the summit", x, y)
			}
		}
	}
	assert.True(t, h.Equal(BuildHeightField(rng.New(8), params, route, profile)))

	params.HoleChance = 1
	h = BuildHeightField(rng.New(8), params, route, profile)
	assert.Zero(t, h.Height(4, 0))
	assert.Zero(t, h.Height(0, 3))
}

func TestRouteCells(t *testing.T) {
	route := []world.Column{{X: 0, Y: 0}, {X: 1, Y: 0}}
	assert.Equal(t, []world.Cell{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 1}}, RouteCells(route, []int{1, 2}, HeightFieldBase))
	assert.Equal(t, []world.Cell{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 0, Z: 2}}, RouteCells(route, []int{1, 2}, VoxelBase))
}

func TestBaselineLevelsAreClimbable(t *testing.T) {
	ctx := context.Background()

	v, route := BaselineVoxel()
	require.Len(t, route, 5)
	assert.Equal(t, world.Dimensions{Width: 5, Depth: 3, Height: 6}, v.Dimensions())
	assert.True(t, Supported(v))
	assert.True(t, pathfinding.ValidateRoute(ctx, v, route[0], route[len(route)-1], len(route)))

	h, route := BaselineHeightField()
	dim := h.Dimensions()
	assert.Equal(t, 5, dim.Height)
	assert.Equal(t, 5, h.Height(4, 1))
	assert.Zero(t, h.Height(4, 0))
	assert.True(t, pathfinding.ReachesHeight(ctx, h, route[0], dim.Height-1))
}
