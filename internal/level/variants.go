package level

import (
	"context"

	"voxelclimb/internal/config"
	"voxelclimb/internal/metrics"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/rng"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

func (g *Generator) dimensions() world.Dimensions {
	return world.Dimensions{Width: g.cfg.Width, Depth: g.cfg.Depth, Height: g.cfg.Height}
}

func (g *Generator) fillParams(policy terrain.SupportPolicy) terrain.FillParams {
	return terrain.FillParams{
		FillChance:    g.cfg.FillChance,
		HeightFalloff: g.cfg.HeightFalloff,
		PairChance:    g.cfg.PairChance,
		Policy:        policy,
	}
}

// buildHeightField raises the legacy column terrain and accepts it when the
// summit is reachable from the route start.
func (g *Generator) buildHeightField(ctx context.Context, r *rng.Source, route []world.Column, profile []int) (*Level, string) {
	h := terrain.BuildHeightField(r, terrain.HeightFieldParams{
		Width:         g.cfg.Width,
		Depth:         g.cfg.Depth,
		MaxHeight:     g.cfg.MaxHeight,
		HoleChance:    g.cfg.HoleChance,
		HeightFalloff: g.cfg.HeightFalloff,
	}, route, profile)
	cells := terrain.RouteCells(route, profile, terrain.HeightFieldBase)
	if !pathfinding.ReachesHeight(ctx, h, cells[0], g.cfg.MaxHeight-1) {
		return nil, metrics.ReasonUnreached
	}
	return finish(&Level{
		Variant:     config.VariantHeightField,
		HeightField: h,
		Path:        cells,
		Profile:     profile,
	}), ""
}

// buildVoxel derives a voxel world from the route's height field, decorates
// it with either-supported pairs and anchors every floating block.
func (g *Generator) buildVoxel(ctx context.Context, r *rng.Source, route []world.Column, profile []int) (*Level, string) {
	dim := g.dimensions()
	cells := terrain.RouteCells(route, profile, terrain.VoxelBase)

	columns := world.NewHeightField(world.Dimensions{Width: dim.Width, Depth: dim.Depth, Height: dim.Height})
	for _, c := range cells {
		columns.SetHeight(c.X, c.Y, c.Z+1)
	}
	b := terrain.NewBuilderFrom(r, columns.ToVoxel(dim.Height))
	for _, c := range cells {
		b.Protect(c.Add(0, 0, 1))
	}
	b.Decorate(g.fillParams(terrain.PairEitherSupported))
	b.Anchor()

	lvl := finish(&Level{
		Variant: config.VariantVoxel,
		Voxel:   b.World(),
		Path:    cells,
		Profile: profile,
	})
	if reason := g.checkRoute(ctx, lvl); reason != "" {
		return nil, reason
	}
	return lvl, ""
}

// buildBranching grows dead ends off the route, keeps decoration away from
// them and pairs blocks only as one-block cantilevers.
func (g *Generator) buildBranching(ctx context.Context, r *rng.Source, route []world.Column, profile []int) (*Level, string) {
	dim := g.dimensions()
	cells := terrain.RouteCells(route, profile, terrain.VoxelBase)

	branches := terrain.GrowDeadEnds(r, terrain.DeadEndParams{
		Dimensions:  dim,
		Route:       cells,
		Goal:        cells[len(cells)-1],
		BlockedMain: g.cfg.MainRoutes - 1,
		Branches:    g.cfg.DeadEnds,
		MinLength:   g.cfg.DeadEndMinLength,
		MaxLength:   g.cfg.DeadEndMaxLength,
	})

	b := terrain.NewBuilder(r, dim)
	b.AddRoute(cells)
	b.BuildDeadEnds(branches.DeadEnds)
	fill := g.fillParams(terrain.PairExclusiveSupport)
	fill.Blocked = branches.Blocked
	b.Decorate(fill)

	lvl := finish(&Level{
		Variant:  config.VariantBranching,
		Voxel:    b.World(),
		Path:     cells,
		Profile:  profile,
		DeadEnds: branches.DeadEnds,
	})
	if reason := g.checkRoute(ctx, lvl); reason != "" {
		return nil, reason
	}
	return lvl, ""
}

// checkRoute accepts a voxel level when its goal is reachable and no route
// to it is shorter than the requested minimum.
func (g *Generator) checkRoute(ctx context.Context, lvl *Level) string {
	return checkRouteLength(ctx, lvl, g.cfg.MinPathLength())
}

func checkRouteLength(ctx context.Context, lvl *Level, minLength int) string {
	length, ok := pathfinding.RouteLength(ctx, lvl.Voxel, lvl.Start, lvl.Goal)
	switch {
	case !ok || ctx.Err() != nil:
		return metrics.ReasonUnreached
	case length < minLength:
		return metrics.ReasonShortcut
	default:
		return ""
	}
}
