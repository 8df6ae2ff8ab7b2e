package terrain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelclimb/internal/rng"
	"voxelclimb/internal/world"
)

func TestWalkPathProducesSimpleInteriorRoute(t *testing.T) {
	params := WalkParams{
		Width:     8,
		Depth:     8,
		Start:     world.Column{X: 0, Y: 0},
		MinLength: 12,
		EdgeBias:  0.4,
		TurnBias:  0.3,
		Attempts:  200,
	}
	for seed := uint64(1); seed <= 20; seed++ {
		path, ok := WalkPath(rng.New(seed), params)
		require.True(t, ok, "seed %d", seed)
		require.GreaterOrEqual(t, len(path), params.MinLength)
		assert.Equal(t, params.Start, path[0])

		dim := world.Dimensions{Width: params.Width, Depth: params.Depth, Height: 1}
		assert.False(t, dim.OnEdge(path[len(path)-1]), "seed %d ends on the edge", seed)

		seen := make(map[world.Column]bool, len(path))
		for i, c := range path {
			require.True(t, dim.ContainsColumn(c))
			require.False(t, seen[c], "seed %d revisits %v", seed, c)
			seen[c] = true
			if i > 0 {
				require.Equal(t, 1, world.Manhattan(path[i-1], c))
			}
		}
	}
}

func TestWalkPathIsDeterministic(t *testing.T) {
	params := WalkParams{Width: 10, Depth: 7, Start: world.Column{X: 4, Y: 3}, MinLength: 15, EdgeBias: 0.5, TurnBias: 0.5}
	a, okA := WalkPath(rng.New(99), params)
	b, okB := WalkPath(rng.New(99), params)
	require.True(t, okA)
	require.True(t, okB)
	assert.Equal(t, a, b)
}

func TestWalkPathFailsWhenGridTooSmall(t *testing.T) {
	_, ok := WalkPath(rng.New(3), WalkParams{Width: 3, Depth: 3, MinLength: 20})
	assert.False(t, ok)

	_, ok = WalkPath(rng.New(3), WalkParams{Width: 4, Depth: 4, Start: world.Column{X: 9, Y: 0}, MinLength: 2})
	assert.False(t, ok)
}

func TestAssignProfile(t *testing.T) {
	for seed := uint64(1); seed <= 10; seed++ {
		profile, ok := AssignProfile(rng.New(seed), 10, 4, VoxelBase)
		require.True(t, ok)
		require.Len(t, profile, 10)
		assert.Equal(t, 0, profile[0])
		assert.Equal(t, 4, profile[9])
		for i := 1; i < len(profile); i++ {
			step := profile[i] - profile[i-1]
			assert.True(t, step == 0 || step == 1, "seed %d step %d rises by %d", seed, i, step)
		}
	}

	profile, ok := AssignProfile(rng.New(1), 5, 4, HeightFieldBase)
	require.True(t, ok)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, profile)

	_, ok = AssignProfile(rng.New(1), 4, 4, VoxelBase)
	assert.False(t, ok)

	profile, ok = AssignProfile(rng.New(1), 3, 0, VoxelBase)
	require.True(t, ok)
	assert.Equal(t, []int{0, 0, 0}, profile)
}

func TestStepWeight(t *testing.T) {
	dim := world.Dimensions{Width: 8, Depth: 8, Height: 1}
	east := world.Column{X: 1, Y: 0}
	tests := []struct {
		name     string
		current  world.Column
		next     world.Column
		hasLast  bool
		edge     float64
		turn     float64
		expected float64
	}{
		{name: "interior without heading", current: world.Column{X: 3, Y: 3}, next: world.Column{X: 3, Y: 4}, edge: 0.4, turn: 0.5, expected: 1},
		{name: "outer ring", current: world.Column{X: 1, Y: 3}, next: world.Column{X: 0, Y: 3}, edge: 0.4, expected: 0.6},
		{name: "one ring in", current: world.Column{X: 2, Y: 3}, next: world.Column{X: 1, Y: 3}, edge: 0.4, expected: 0.8},
		{name: "straight", current: world.Column{X: 3, Y: 3}, next: world.Column{X: 4, Y: 3}, hasLast: true, turn: 0.5, expected: 0.5},
		{name: "turn", current: world.Column{X: 3, Y: 3}, next: world.Column{X: 3, Y: 4}, hasLast: true, turn: 0.5, expected: 1.2},
		{name: "turn onto inner ring", current: world.Column{X: 3, Y: 2}, next: world.Column{X: 3, Y: 1}, hasLast: true, edge: 0.4, turn: 0.5, expected: 0.96},
		{name: "floor", current: world.Column{X: 5, Y: 3}, next: world.Column{X: 6, Y: 3}, hasLast: true, edge: 0.9, turn: 0.99, expected: minWeight},
		{name: "outer ring straight hits floor", current: world.Column{X: 6, Y: 3}, next: world.Column{X: 7, Y: 3}, hasLast: true, edge: 0.9, turn: 0.9, expected: minWeight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := stepWeight(dim, tt.current, tt.next, east, tt.hasLast, tt.edge, tt.turn)
			assert.InDelta(t, tt.expected, got, 1e-9)
		})
	}
}

func TestPickWeighted(t *testing.T) {
	r := rng.New(42)
	for i := 0; i < 200; i++ {
		require.Equal(t, 1, pickWeighted(r, []float64{0, 1, 0}))
	}

	hits := 0
	const draws = 4000
	for i := 0; i < draws; i++ {
		if pickWeighted(r, []float64{1, 3}) == 1 {
			hits++
		}
	}
	assert.InDelta(t, 0.75, float64(hits)/draws, 0.05)

	// One draw per pick keeps the stream aligned with a plain Float64 call.
	a, b := rng.New(7), rng.New(7)
	pickWeighted(a, []float64{0.2, 0.5, 0.3})
	b.Float64()
	assert.Equal(t, b.Uint64(), a.Uint64())
}

func TestWalkPathClampsBiases(t *testing.T) {
	base := WalkParams{
		Width:     9,
		Depth:     9,
		Start:     world.Column{X: 4, Y: 4},
		MinLength: 10,
		Attempts:  100,
	}
	tests := []struct {
		name        string
		edge, turn  float64
		clampedEdge float64
		clampedTurn float64
	}{
		{name: "above ceiling", edge: 5, turn: 1.5, clampedEdge: maxBias, clampedTurn: maxBias},
		{name: "below zero", edge: -1, turn: -0.3, clampedEdge: 0, clampedTurn: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := uint64(1); seed <= 5; seed++ {
				raw := base
				raw.EdgeBias, raw.TurnBias = tt.edge, tt.turn
				clamped := base
				clamped.EdgeBias, clamped.TurnBias = tt.clampedEdge, tt.clampedTurn

				got, ok := WalkPath(rng.New(seed), raw)
				want, wantOK := WalkPath(rng.New(seed), clamped)
				assert.Equal(t, wantOK, ok, "seed %d", seed)
				assert.Equal(t, want, got, "seed %d", seed)
			}
		})
	}
}
