package level

import (
	"context"

	"voxelclimb/internal/config"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

// VariantImported tags levels rebuilt from an imported move sequence.
const VariantImported = "imported"

// Level is a finished level. Exactly one of HeightField and Voxel is set.
type Level struct {
	ID      int
	Variant string
	Seed    uint64

	HeightField *world.HeightField
	Voxel       *world.Voxel

	Start world.Cell
	Goal  world.Cell

	Path     []world.Cell
	Profile  []int
	Sequence []sequence.Code
	DeadEnds []terrain.DeadEnd

	// Attempts is the number of whole-level attempts spent.
	Attempts int
	// Fallback marks the fixed baseline level returned after exhaustion.
	Fallback bool
}

// Terrain returns whichever world representation the level carries.
func (l *Level) Terrain() world.Terrain {
	if l.HeightField != nil {
		return l.HeightField
	}
	return l.Voxel
}

// Dimensions returns the world size. Height is the maximum column height
// for height-field levels.
func (l *Level) Dimensions() world.Dimensions {
	if t := l.Terrain(); t != nil {
		return t.Dimensions()
	}
	return world.Dimensions{}
}

// Equal reports whether two levels carry the same world and endpoints.
func (l *Level) Equal(other *Level) bool {
	if l == nil || other == nil {
		return l == other
	}
	if l.Variant != other.Variant || l.Start != other.Start || l.Goal != other.Goal {
		return false
	}
	switch {
	case l.HeightField != nil:
		return other.HeightField != nil && l.HeightField.Equal(other.HeightField)
	case l.Voxel != nil:
		return other.Voxel != nil && l.Voxel.Equal(other.Voxel)
	default:
		return other.HeightField == nil && other.Voxel == nil
	}
}

// Move resolves a player step from a cell into an adjacent column.
func (l *Level) Move(from world.Cell, to world.Column) (world.Cell, bool) {
	return pathfinding.Move(l.Terrain(), from, to)
}

// Hint returns the shortest climbing route from a cell to the goal, both
// ends included, or nil when the goal cannot be reached from there.
func (l *Level) Hint(ctx context.Context, from world.Cell) []world.Cell {
	return pathfinding.ShortestRoute(ctx, l.Terrain(), from, l.Goal)
}

func baseline(variant string) *Level {
	if variant == config.VariantHeightField {
		h, route := terrain.BaselineHeightField()
		profile := make([]int, len(route))
		for i, c := range route {
			profile[i] = c.Z + terrain.HeightFieldBase
		}
		return finish(&Level{
			Variant:     variant,
			HeightField: h,
			Path:        route,
			Profile:     profile,
			Fallback:    true,
		})
	}

	v, route := terrain.BaselineVoxel()
	profile := make([]int, len(route))
	for i, c := range route {
		profile[i] = c.Z
	}
	return finish(&Level{
		Variant:  variant,
		Voxel:    v,
		Path:     route,
		Profile:  profile,
		Fallback: true,
	})
}

// finish derives the endpoints and move sequence from the route.
func finish(l *Level) *Level {
	if len(l.Path) == 0 {
		return l
	}
	l.Start = l.Path[0]
	l.Goal = l.Path[len(l.Path)-1]
	if seq, err := sequence.Encode(l.Path); err == nil {
		l.Sequence = seq
	}
	return l
}
