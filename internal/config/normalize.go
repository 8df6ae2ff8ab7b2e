package config

// Limits applied by Normalize.
const (
	MinDimension        = 3
	DefaultMaxDimension = 64

	MaxFillChance    = 0.45
	MaxHeightFalloff = 0.85
	MaxPairChance    = 0.9
	MaxBias          = 0.9

	defaultMaxAttempts     = 40
	defaultPathAttempts    = 200
	defaultProfileAttempts = 6
	defaultImportAttempts  = 16
)

// Normalize returns a copy with every field clamped into its legal range and
// zero budgets replaced by defaults. It never fails.
func (g GeneratorConfig) Normalize() GeneratorConfig {
	switch g.Variant {
	case VariantHeightField, VariantVoxel, VariantBranching:
	default:
		g.Variant = VariantVoxel
	}

	if g.MaxDimension < MinDimension {
		g.MaxDimension = DefaultMaxDimension
	}
	limit := g.MaxDimension
	g.Width = clampInt(g.Width, MinDimension, limit)
	g.Depth = clampInt(g.Depth, MinDimension, limit)
	g.MaxHeight = clampInt(g.MaxHeight, 2, limit)
	g.TargetHeight = clampInt(g.TargetHeight, 1, limit-2)
	g.Height = clampInt(g.Height, g.TargetHeight+2, limit)

	g.FillChance = clampFloat(g.FillChance, 0, MaxFillChance)
	g.HoleChance = clampFloat(g.HoleChance, 0, 1)
	g.HeightFalloff = clampFloat(g.HeightFalloff, 0, MaxHeightFalloff)
	g.PairChance = clampFloat(g.PairChance, 0, MaxPairChance)
	g.PathLengthFactor = clampFloat(g.PathLengthFactor, 0, 1)
	g.EdgeBias = clampFloat(g.EdgeBias, 0, MaxBias)
	g.TurnBias = clampFloat(g.TurnBias, 0, MaxBias)

	g.MaxAttempts = orDefault(g.MaxAttempts, defaultMaxAttempts)
	g.PathAttempts = orDefault(g.PathAttempts, defaultPathAttempts)
	g.ProfileAttempts = orDefault(g.ProfileAttempts, defaultProfileAttempts)
	g.ImportAttempts = orDefault(g.ImportAttempts, defaultImportAttempts)

	g.MainRoutes = max(g.MainRoutes, 1)
	g.DeadEnds = max(g.DeadEnds, 0)
	g.DeadEndMinLength = max(g.DeadEndMinLength, 1)
	g.DeadEndMaxLength = max(g.DeadEndMaxLength, g.DeadEndMinLength)
	return g
}

// Rise is the number of +1 increments the height profile must carry.
func (g GeneratorConfig) Rise() int {
	if g.Variant == VariantHeightField {
		return g.MaxHeight - 1
	}
	return g.TargetHeight
}

// MinPathLength is the shortest acceptable route, counted in cells:
// max(Rise+1, width*depth*PathLengthFactor), capped at the column count.
func (g GeneratorConfig) MinPathLength() int {
	area := g.Width * g.Depth
	n := max(g.Rise()+1, int(float64(area)*g.PathLengthFactor))
	return min(n, area)
}

func clampInt(v, lo, hi int) int {
	if hi < lo {
		hi = lo
	}
	return min(max(v, lo), hi)
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
