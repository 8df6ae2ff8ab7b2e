package terrain

import (
	"github.com/zyedidia/generic/mapset"

	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

const (
	maxFillChance    = 0.45
	maxHeightFalloff = 0.85
	maxPairChance    = 0.9
	minLayerRatio    = 0.1
)

// SupportPolicy decides which decorative pairs are acceptable.
type SupportPolicy int

const (
	// PairEitherSupported rejects a pair only when neither cell is supported.
	PairEitherSupported SupportPolicy = iota
	// PairExclusiveSupport requires exactly one supported cell, producing a
	// one-block cantilever.
	PairExclusiveSupport
)

func (p SupportPolicy) accepts(a, b bool) bool {
	if p == PairExclusiveSupport {
		return a != b
	}
	return a || b
}

// FillParams configures decorative block placement.
type FillParams struct {
	FillChance    float64
	HeightFalloff float64
	PairChance    float64
	Policy        SupportPolicy
	// Blocked columns never receive decorative blocks. The zero value
	// blocks nothing.
	Blocked mapset.Set[world.Column]
}

// Builder materialises a voxel world from route pillars and decoration.
type Builder struct {
	r         *rng.Source
	world     *world.Voxel
	protected []bool
}

// NewBuilder starts an empty world of the given size.
func NewBuilder(r *rng.Source, dim world.Dimensions) *Builder {
	v := world.NewVoxel(dim)
	dim = v.Dimensions()
	return &Builder{
		r:         r,
		world:     v,
		protected: make([]bool, dim.Width*dim.Depth*dim.Height),
	}
}

// NewBuilderFrom continues building on an existing world.
func NewBuilderFrom(r *rng.Source, v *world.Voxel) *Builder {
	dim := v.Dimensions()
	return &Builder{
		r:         r,
		world:     v,
		protected: make([]bool, dim.Width*dim.Depth*dim.Height),
	}
}

// World returns the world under construction.
func (b *Builder) World() *world.Voxel {
	return b.world
}

func (b *Builder) index(x, y, z int) (int, bool) {
	dim := b.world.Dimensions()
	if !dim.Contains(world.Cell{X: x, Y: y, Z: z}) {
		return 0, false
	}
	return (z*dim.Depth+y)*dim.Width + x, true
}

// Protect keeps the cell empty for the rest of the build.
func (b *Builder) Protect(c world.Cell) {
	if idx, ok := b.index(c.X, c.Y, c.Z); ok {
		b.protected[idx] = true
	}
}

// Protected reports whether the cell must stay empty.
func (b *Builder) Protected(x, y, z int) bool {
	idx, ok := b.index(x, y, z)
	return ok && b.protected[idx]
}

// AddPillar fills the column under c up to c.Z and protects the cell above
// so the top stays walkable.
func (b *Builder) AddPillar(c world.Cell) {
	b.world.FillColumn(c.X, c.Y, c.Z)
	b.Protect(c.Add(0, 0, 1))
}

// AddRoute adds a pillar for every route cell.
func (b *Builder) AddRoute(route []world.Cell) {
	for _, c := range route {
		b.AddPillar(c)
	}
}

func (b *Builder) fillable(x, y, z int, blocked mapset.Set[world.Column]) bool {
	idx, ok := b.index(x, y, z)
	if !ok || b.protected[idx] || b.world.Solid(x, y, z) {
		return false
	}
	return !blocked.Has(world.Column{X: x, Y: y})
}

// Decorate scatters single and paired filler blocks layer by layer and
// returns how many blocks were placed. Upper layers receive fewer blocks
// according to HeightFalloff.
func (b *Builder) Decorate(p FillParams) int {
	dim := b.world.Dimensions()
	fill := clampFloat(p.FillChance, 0, maxFillChance)
	falloff := clampFloat(p.HeightFalloff, 0, maxHeightFalloff)
	pairChance := clampFloat(p.PairChance, 0, maxPairChance)
	area := dim.Width * dim.Depth

	total := 0
	for z := 0; z < dim.Height; z++ {
		ratio := 1.0
		if dim.Height > 1 {
			ratio = max(minLayerRatio, 1-(float64(z)/float64(dim.Height-1))*falloff)
		}
		target := int(float64(area) * fill * ratio)
		if target <= 0 {
			continue
		}
		tries := max(area*6, target*10)
		placed := 0
		for try := 0; try < tries && placed < target; try++ {
			pair := b.r.Float64() < pairChance
			if pair && target-placed >= 2 {
				placed += b.tryPair(z, p.Policy, p.Blocked)
				continue
			}
			placed += b.trySingle(z, p.Blocked)
		}
		total += placed
	}
	return total
}

func (b *Builder) tryPair(z int, policy SupportPolicy, blocked mapset.Set[world.Column]) int {
	dim := b.world.Dimensions()
	x, y := b.r.Intn(dim.Width), b.r.Intn(dim.Depth)
	dir := world.Neighbors4[b.r.Intn(len(world.Neighbors4))]
	nx, ny := x+dir.X, y+dir.Y
	if !b.fillable(x, y, z, blocked) || !b.fillable(nx, ny, z, blocked) {
		return 0
	}
	if !policy.accepts(b.world.Supported(x, y, z), b.world.Supported(nx, ny, z)) {
		return 0
	}
	b.world.Set(x, y, z)
	b.world.Set(nx, ny, z)
	return 2
}

func (b *Builder) trySingle(z int, blocked mapset.Set[world.Column]) int {
	dim := b.world.Dimensions()
	x, y := b.r.Intn(dim.Width), b.r.Intn(dim.Depth)
	if !b.fillable(x, y, z, blocked) || !b.world.Supported(x, y, z) {
		return 0
	}
	b.world.Set(x, y, z)
	return 1
}
