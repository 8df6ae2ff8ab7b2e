package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelclimb/internal/rng"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/world"
)

func straightRoute() []world.Cell {
	route := make([]world.Cell, 0, 10)
	for x := 1; x <= 10; x++ {
		route = append(route, world.Cell{X: x, Y: 6, Z: x / 2})
	}
	return route
}

func TestGrowDeadEndsKeepsBranchesApart(t *testing.T) {
	route := straightRoute()
	dim := world.Dimensions{Width: 12, Depth: 13, Height: 9}
	mainCols := make(map[world.Column]bool)
	for _, c := range route {
		mainCols[c.Column()] = true
	}

	grown := 0
	for seed := uint64(1); seed <= 10; seed++ {
		result := GrowDeadEnds(rng.New(seed), DeadEndParams{
			Dimensions:  dim,
			Route:       route,
			Goal:        route[len(route)-1],
			BlockedMain: 1,
			Branches:    2,
			MinLength:   2,
			MaxLength:   4,
		})
		grown += len(result.DeadEnds)

		for _, de := range result.DeadEnds {
			origin := route[de.From]
			switch de.Kind {
			case KindBlockedMain:
				assert.Less(t, de.From, len(route)/3)
				require.NotNil(t, de.Blocker)
				assert.Less(t, de.Blocker.Z, dim.Height)
				assert.True(t, result.Reserved.Has(de.Blocker.Column()))
			case KindBranch:
				assert.GreaterOrEqual(t, de.From, 2)
				assert.Nil(t, de.Blocker)
				assert.GreaterOrEqual(t, len(de.Cells), 2)
			}

			prev := origin
			for _, c := range de.Cells {
				require.True(t, dim.Contains(c))
				assert.False(t, mainCols[c.Column()], "branch enters the main route at %v", c)
				_, err := sequence.CodeOf(sequence.Step(prev, c))
				assert.NoError(t, err)
				for _, o := range world.Neighbors4 {
					n := world.Column{X: c.X + o.X, Y: c.Y + o.Y}
					if mainCols[n] {
						assert.Equal(t, origin.Column(), n, "branch cell %v touches the main route", c)
					}
				}
				assert.True(t, result.Reserved.Has(c.Column()))
				assert.True(t, result.Blocked.Has(c.Column()))
				prev = c
			}
		}
	}
	assert.Positive(t, grown)
}

func TestGrowDeadEndsBranchesFromTheLastCell(t *testing.T) {
	route := []world.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}
	result := GrowDeadEnds(rng.New(1), DeadEndParams{
		Dimensions: world.Dimensions{Width: 6, Depth: 6, Height: 4},
		Route:      route,
		Branches:   3,
		MinLength:  1,
		MaxLength:  2,
	})
	require.NotEmpty(t, result.DeadEnds)
	for _, de := range result.DeadEnds {
		assert.Equal(t, KindBranch, de.Kind)
		assert.Equal(t, len(route)-1, de.From)
	}
}

func TestGrowDeadEndsSkipsShortRoutes(t *testing.T) {
	route := []world.Cell{{X: 1, Y: 1}, {X: 2, Y: 1}}
	result := GrowDeadEnds(rng.New(1), DeadEndParams{
		Dimensions: world.Dimensions{Width: 6, Depth: 6, Height: 4},
		Route:      route,
		Branches:   3,
		MinLength:  1,
		MaxLength:  2,
	})
	assert.Empty(t, result.DeadEnds)
	assert.Zero(t, result.Reserved.Size())
}

func TestBuildDeadEndsRaisesPillarsAndBlockers(t *testing.T) {
	blocker := world.Cell{X: 4, Y: 2, Z: 3}
	de := DeadEnd{
		Kind:    KindBlockedMain,
		Cells:   []world.Cell{{X: 2, Y: 2, Z: 1}, {X: 3, Y: 2, Z: 2}},
		Blocker: &blocker,
	}
	b := NewBuilder(rng.New(1), world.Dimensions{Width: 6, Depth: 6, Height: 5})
	b.BuildDeadEnds([]DeadEnd{de})

	v := b.World()
	assert.True(t, v.Standable(2, 2, 1))
	assert.True(t, v.Standable(3, 2, 2))
	assert.True(t, v.Solid(4, 2, 3))
	assert.False(t, v.Solid(4, 2, 2))
	assert.True(t, b.Protected(3, 2, 3))
	assert.Equal(t, "blocked-main", de.Kind.String())
	assert.Equal(t, "branch", KindBranch.String())
}
