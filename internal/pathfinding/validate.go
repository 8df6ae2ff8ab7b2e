package pathfinding

import (
	"context"

	"voxelclimb/internal/world"
)

// ReachesHeight reports whether any cell at or above level is reachable
// from start. Height-field levels are accepted on this check.
func ReachesHeight(ctx context.Context, t world.Terrain, start world.Cell, level int) bool {
	r := explore(ctx, t, start, func(c world.Cell) bool { return c.Z >= level })
	for _, c := range r.order {
		if c.Z >= level {
			return true
		}
	}
	return false
}

// ValidateRoute accepts a voxel level when goal is reachable and its
// shortest route is at least minLength cells long, i.e. the world holds no
// shortcut past the intended path.
func ValidateRoute(ctx context.Context, t world.Terrain, start, goal world.Cell, minLength int) bool {
	if ctx.Err() != nil {
		return false
	}
	length, ok := RouteLength(ctx, t, start, goal)
	if !ok || ctx.Err() != nil {
		return false
	}
	return length >= minLength
}

// SelectGoal picks the highest reachable cell, then the one farthest from
// start by horizontal Manhattan distance, then the smallest y, then the
// smallest x.
func SelectGoal(ctx context.Context, t world.Terrain, start world.Cell) (world.Cell, bool) {
	r := Explore(ctx, t, start)
	if len(r.order) == 0 {
		return world.Cell{}, false
	}
	best := r.order[0]
	bestDist := world.Manhattan(best.Column(), start.Column())
	for _, c := range r.order[1:] {
		d := world.Manhattan(c.Column(), start.Column())
		if betterGoal(c, d, best, bestDist) {
			best, bestDist = c, d
		}
	}
	return best, true
}

func betterGoal(c world.Cell, dist int, best world.Cell, bestDist int) bool {
	if c.Z != best.Z {
		return c.Z > best.Z
	}
	if dist != bestDist {
		return dist > bestDist
	}
	if c.Y != best.Y {
		return c.Y < best.Y
	}
	return c.X < best.X
}
