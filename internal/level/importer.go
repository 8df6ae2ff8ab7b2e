package level

import (
	"context"
	"errors"
	"fmt"

	"voxelclimb/internal/metrics"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/rng"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

// ErrSequenceRejected reports an imported sequence for which no seed offset
// produced a level without shortcuts.
var ErrSequenceRejected = errors.New("level: imported sequence rejected")

// ImportTriples normalises raw (dx, dy, dz) steps and imports them.
func (g *Generator) ImportTriples(ctx context.Context, id int, triples [][3]int) (*Level, error) {
	codes, err := sequence.Normalize(triples)
	if err != nil {
		return nil, fmt.Errorf("import level %d: %w", id, err)
	}
	return g.ImportSequence(ctx, id, codes)
}

// ImportSequence replays a move sequence into a world sized to hold it and
// decorates around the fixed route. Each attempt uses the configured seed
// plus its offset, so a rejected decoration or placement is retried with
// fresh draws. Decode and sizing errors are returned as is.
func (g *Generator) ImportSequence(ctx context.Context, id int, codes []sequence.Code) (*Level, error) {
	rel, err := sequence.Decode(world.Cell{}, codes, sequence.Options{StrictPredecessor: g.cfg.StrictPredecessor})
	if err != nil {
		return nil, fmt.Errorf("import level %d: %w", id, err)
	}
	dim, err := sequence.Expand(g.dimensions(), sequence.RequiredSize(rel), g.cfg.MaxDimension)
	if err != nil {
		return nil, fmt.Errorf("import level %d: %w", id, err)
	}
	if g.search != nil {
		ctx = pathfinding.ContextWithProfiler(ctx, g.search.Profiler())
	}
	log := g.logger.With("level", id, "variant", VariantImported, "moves", len(codes))

	for offset := 0; offset < g.cfg.ImportAttempts; offset++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		seed := g.cfg.Seed + uint64(offset)
		g.metrics.Attempt(metrics.StageImport)
		lvl, reason, err := g.replay(ctx, rng.New(seed), rel, dim)
		if err != nil {
			return nil, fmt.Errorf("import level %d: %w", id, err)
		}
		if lvl == nil {
			g.metrics.Reject(reason)
			log.Debug("replay rejected", "seed", seed, "reason", reason)
			continue
		}
		lvl.ID = id
		lvl.Seed = seed
		lvl.Attempts = offset + 1
		lvl.Sequence = append([]sequence.Code(nil), codes...)
		g.metrics.Level(VariantImported, lvl.Attempts)
		return lvl, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log.Warn("imported sequence rejected", "attempts", g.cfg.ImportAttempts)
	return nil, fmt.Errorf("import level %d: %w after %d attempts", id, ErrSequenceRejected, g.cfg.ImportAttempts)
}

// replay places the relative route, keeps the standing space above every
// route cell free and decorates around it. Anchoring removes any filler left
// hanging over a route cell, since its pillar would cross the protected cell.
func (g *Generator) replay(ctx context.Context, r *rng.Source, rel []world.Cell, dim world.Dimensions) (*Level, string, error) {
	placed, err := sequence.Place(r, rel, dim)
	if err != nil {
		return nil, "", err
	}

	b := terrain.NewBuilder(r, dim)
	b.AddRoute(placed)
	for _, c := range placed {
		b.Protect(c.Add(0, 0, 1))
	}
	b.Decorate(g.fillParams(terrain.PairEitherSupported))
	b.Anchor()

	lvl := finish(&Level{
		Variant: VariantImported,
		Voxel:   b.World(),
		Path:    placed,
	})
	if reason := checkRouteLength(ctx, lvl, len(placed)); reason != "" {
		return nil, reason, nil
	}
	return lvl, "", nil
}
