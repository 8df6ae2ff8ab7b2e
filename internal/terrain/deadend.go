package terrain

import (
	"github.com/zyedidia/generic/mapset"

	"voxelclimb/internal/rng"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/world"
)

const (
	defaultBranchAttempts = 12
	blockerLift           = 2
)

// Kind tags a dead end.
type Kind int

const (
	// KindBlockedMain looks like the real route and stops just short of the
	// goal behind a blocker block.
	KindBlockedMain Kind = iota
	// KindBranch is a plain blind alley.
	KindBranch
)

func (k Kind) String() string {
	switch k {
	case KindBlockedMain:
		return "blocked-main"
	case KindBranch:
		return "branch"
	default:
		return "unknown"
	}
}

// DeadEnd is a decoy branch grown from a main-route cell.
type DeadEnd struct {
	Kind Kind
	// From is the index of the main-route cell the branch grows from.
	From int
	// Cells excludes the main-route cell.
	Cells   []world.Cell
	Blocker *world.Cell
}

// DeadEndParams configures branch growth.
type DeadEndParams struct {
	Dimensions world.Dimensions
	Route      []world.Cell
	// Goal steers blocked-main branches towards the true goal.
	Goal        world.Cell
	BlockedMain int
	Branches    int
	MinLength   int
	MaxLength   int
	// Attempts bounds the retries per branch.
	Attempts int
}

// DeadEndResult carries the accepted branches and the column sets the filler
// must respect.
type DeadEndResult struct {
	DeadEnds []DeadEnd
	// Reserved holds every branch column and blocker column.
	Reserved mapset.Set[world.Column]
	// Blocked is Reserved grown by Manhattan distance 1.
	Blocked mapset.Set[world.Column]
}

type branchGrower struct {
	r        *rng.Source
	p        DeadEndParams
	main     mapset.Set[world.Column]
	used     mapset.Set[world.Column]
	reserved mapset.Set[world.Column]
}

// GrowDeadEnds grows the requested decoys off the route. Branches that cannot
// be grown within the attempt budget are skipped.
func GrowDeadEnds(r *rng.Source, p DeadEndParams) DeadEndResult {
	p.MinLength = max(p.MinLength, 1)
	p.MaxLength = max(p.MaxLength, p.MinLength)
	if p.Attempts <= 0 {
		p.Attempts = defaultBranchAttempts
	}

	g := &branchGrower{
		r:        r,
		p:        p,
		main:     mapset.New[world.Column](),
		used:     mapset.New[world.Column](),
		reserved: mapset.New[world.Column](),
	}
	for _, c := range p.Route {
		g.main.Put(c.Column())
		g.used.Put(c.Column())
	}

	kinds := make([]Kind, 0, max(p.BlockedMain, 0)+max(p.Branches, 0))
	for i := 0; i < p.BlockedMain; i++ {
		kinds = append(kinds, KindBlockedMain)
	}
	for i := 0; i < p.Branches; i++ {
		kinds = append(kinds, KindBranch)
	}
	r.Shuffle(len(kinds), func(i, j int) { kinds[i], kinds[j] = kinds[j], kinds[i] })

	result := DeadEndResult{Reserved: g.reserved}
	for _, kind := range kinds {
		for attempt := 0; attempt < p.Attempts; attempt++ {
			if de, ok := g.grow(kind); ok {
				g.accept(de)
				result.DeadEnds = append(result.DeadEnds, de)
				break
			}
		}
	}
	result.Blocked = expandColumns(g.reserved, p.Dimensions)
	return result
}

func (g *branchGrower) grow(kind Kind) (DeadEnd, bool) {
	route := g.p.Route
	length := g.p.MinLength + g.r.Intn(g.p.MaxLength-g.p.MinLength+1)

	var from int
	switch kind {
	case KindBlockedMain:
		from = g.r.Intn(max(1, len(route)/3))
		length = max(length, 2)
	default:
		if len(route) <= 2 {
			return DeadEnd{}, false
		}
		from = 2 + g.r.Intn(len(route)-2)
	}
	if from >= len(route) {
		return DeadEnd{}, false
	}

	origin := route[from]
	cells := make([]world.Cell, 0, length)
	local := map[world.Column]bool{origin.Column(): true}
	current := origin
	for len(cells) < length {
		next, ok := g.step(current, origin.Column(), local, kind == KindBlockedMain)
		if !ok {
			break
		}
		cells = append(cells, next)
		local[next.Column()] = true
		current = next
	}
	if len(cells) < g.p.MinLength {
		return DeadEnd{}, false
	}

	de := DeadEnd{Kind: kind, From: from, Cells: cells}
	if kind != KindBlockedMain {
		return de, true
	}
	if len(cells) < 2 {
		return DeadEnd{}, false
	}
	// Cut strictly inside origin..cells[len-1]; cells[cut] is the successor
	// of the last kept cell.
	cut := 1 + g.r.Intn(len(cells)-1)
	successor := cells[cut]
	blocker := successor.Add(0, 0, blockerLift)
	if blocker.Z >= g.p.Dimensions.Height {
		return DeadEnd{}, false
	}
	de.Cells = cells[:cut]
	de.Blocker = &blocker
	return de, true
}

// step lists the in-bounds, unused cells one alphabet vector away from
// current that keep clear of the main route (except the branch origin) and
// of other branches, then draws one of them.
func (g *branchGrower) step(current world.Cell, origin world.Column, local map[world.Column]bool, seekGoal bool) (world.Cell, bool) {
	dim := g.p.Dimensions
	var candidates []world.Cell
	for _, v := range sequence.Vectors() {
		next := v.Apply(current)
		if next.Z < 0 || next.Z > dim.Height-2 || !dim.Contains(next) {
			continue
		}
		col := next.Column()
		if g.used.Has(col) || local[col] {
			continue
		}
		if !g.clearOfStructure(col, origin) {
			continue
		}
		candidates = append(candidates, next)
	}
	if len(candidates) == 0 {
		return world.Cell{}, false
	}
	if !seekGoal {
		return candidates[g.r.Intn(len(candidates))], true
	}

	best := candidates[:0:0]
	bestDist := -1
	for _, c := range candidates {
		d := world.Manhattan3(c, g.p.Goal)
		switch {
		case bestDist < 0 || d < bestDist:
			best = append(best[:0], c)
			bestDist = d
		case d == bestDist:
			best = append(best, c)
		}
	}
	return best[g.r.Intn(len(best))], true
}

func (g *branchGrower) clearOfStructure(col, origin world.Column) bool {
	for _, offset := range world.Neighbors4 {
		n := world.Column{X: col.X + offset.X, Y: col.Y + offset.Y}
		if g.main.Has(n) && n != origin {
			return false
		}
		if g.reserved.Has(n) {
			return false
		}
	}
	return true
}

func (g *branchGrower) accept(de DeadEnd) {
	for _, c := range de.Cells {
		g.used.Put(c.Column())
		g.reserved.Put(c.Column())
	}
	if de.Blocker != nil {
		g.used.Put(de.Blocker.Column())
		g.reserved.Put(de.Blocker.Column())
	}
}

func expandColumns(cols mapset.Set[world.Column], dim world.Dimensions) mapset.Set[world.Column] {
	out := mapset.New[world.Column]()
	cols.Each(func(c world.Column) {
		out.Put(c)
		for _, offset := range world.Neighbors4 {
			n := world.Column{X: c.X + offset.X, Y: c.Y + offset.Y}
			if dim.ContainsColumn(n) {
				out.Put(n)
			}
		}
	})
	return out
}

// BuildDeadEnds raises pillars under every branch cell and places blockers.
func (b *Builder) BuildDeadEnds(deadEnds []DeadEnd) {
	for _, de := range deadEnds {
		b.AddRoute(de.Cells)
		if de.Blocker != nil {
			b.world.Set(de.Blocker.X, de.Blocker.Y, de.Blocker.Z)
		}
	}
}
