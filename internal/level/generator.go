package level

import (
	"context"
	"io"
	"log/slog"

	"voxelclimb/internal/config"
	"voxelclimb/internal/metrics"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/rng"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

// SeedStride separates the seeds of consecutive levels in a batch.
const SeedStride = 1_000_003

// SeedFor derives the seed of the index-th level of a batch.
func SeedFor(base uint64, index int) uint64 {
	return base + uint64(index)*SeedStride
}

// Generator builds levels from a normalised configuration. It holds no
// per-level state, so one Generator may serve concurrent callers as long as
// each call uses its own seed.
type Generator struct {
	cfg     config.GeneratorConfig
	logger  *slog.Logger
	metrics *metrics.Recorder
	search  *pathfinding.SearchMetrics
}

// Option customises a Generator.
type Option func(*Generator)

// WithLogger routes generator logs to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// WithMetrics records attempts, rejections and fallbacks.
func WithMetrics(m *metrics.Recorder) Option {
	return func(g *Generator) {
		g.metrics = m
	}
}

// WithSearchMetrics counts the validator's search work.
func WithSearchMetrics(m *pathfinding.SearchMetrics) Option {
	return func(g *Generator) {
		g.search = m
	}
}

// NewGenerator normalises cfg and applies the options.
func NewGenerator(cfg config.GeneratorConfig, opts ...Option) *Generator {
	g := &Generator{
		cfg:    cfg.Normalize(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Config returns the normalised configuration in use.
func (g *Generator) Config() config.GeneratorConfig {
	return g.cfg
}

// Generate builds one level from seed. When every whole-level attempt is
// rejected the fixed baseline level is returned with Fallback set. The only
// error is a cancelled or expired context.
func (g *Generator) Generate(ctx context.Context, id int, seed uint64) (*Level, error) {
	if g.search != nil {
		ctx = pathfinding.ContextWithProfiler(ctx, g.search.Profiler())
	}
	r := rng.New(seed)
	log := g.logger.With("level", id, "seed", seed, "variant", g.cfg.Variant)

	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		lvl, reason := g.attempt(ctx, r)
		if lvl == nil {
			log.Debug("attempt rejected", "attempt", attempt, "reason", reason)
			continue
		}
		lvl.ID = id
		lvl.Seed = seed
		lvl.Attempts = attempt
		g.metrics.Level(lvl.Variant, attempt)
		log.Debug("level generated", "attempt", attempt, "pathLength", len(lvl.Path))
		return lvl, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lvl := baseline(g.cfg.Variant)
	lvl.ID = id
	lvl.Seed = seed
	lvl.Attempts = g.cfg.MaxAttempts
	g.metrics.Fallback()
	g.metrics.Level(lvl.Variant, lvl.Attempts)
	log.Warn("attempt budget exhausted, using baseline level", "attempts", g.cfg.MaxAttempts)
	return lvl, nil
}

// GenerateBatch builds count levels with ids 0..count-1 and seeds derived by
// SeedFor from the configured seed.
func (g *Generator) GenerateBatch(ctx context.Context, count int) ([]*Level, error) {
	levels := make([]*Level, 0, max(count, 0))
	for i := 0; i < count; i++ {
		lvl, err := g.Generate(ctx, i, SeedFor(g.cfg.Seed, i))
		if err != nil {
			return nil, err
		}
		levels = append(levels, lvl)
	}
	return levels, nil
}

// attempt walks one route and tries up to ProfileAttempts height profiles on
// it. A nil level comes with the reason of the last rejection, which has
// already been counted.
func (g *Generator) attempt(ctx context.Context, r *rng.Source) (*Level, string) {
	cfg := g.cfg
	start := world.Column{X: r.Intn(cfg.Width), Y: r.Intn(cfg.Depth)}

	g.metrics.Attempt(metrics.StagePath)
	route, ok := terrain.WalkPath(r, terrain.WalkParams{
		Width:     cfg.Width,
		Depth:     cfg.Depth,
		Start:     start,
		MinLength: cfg.MinPathLength(),
		EdgeBias:  cfg.EdgeBias,
		TurnBias:  cfg.TurnBias,
		Attempts:  cfg.PathAttempts,
	})
	if !ok {
		g.metrics.Reject(metrics.ReasonNoPath)
		return nil, metrics.ReasonNoPath
	}

	base := terrain.VoxelBase
	if cfg.Variant == config.VariantHeightField {
		base = terrain.HeightFieldBase
	}

	reason := metrics.ReasonNoProfile
	for p := 0; p < cfg.ProfileAttempts; p++ {
		if ctx.Err() != nil {
			return nil, reason
		}
		g.metrics.Attempt(metrics.StageProfile)
		profile, ok := terrain.AssignProfile(r, len(route), cfg.Rise(), base)
		if !ok {
			g.metrics.Reject(metrics.ReasonNoProfile)
			return nil, metrics.ReasonNoProfile
		}

		g.metrics.Attempt(metrics.StageBuild)
		var lvl *Level
		switch cfg.Variant {
		case config.VariantHeightField:
			lvl, reason = g.buildHeightField(ctx, r, route, profile)
		case config.VariantBranching:
			lvl, reason = g.buildBranching(ctx, r, route, profile)
		default:
			lvl, reason = g.buildVoxel(ctx, r, route, profile)
		}
		if lvl != nil {
			return lvl, ""
		}
		g.metrics.Reject(reason)
	}
	return nil, reason
}
