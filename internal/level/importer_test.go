package level

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voxelclimb/internal/config"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

func TestImportTriplesRebuildsTheRoute(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(testConfig(config.VariantVoxel))

	triples := [][3]int{{1, 0, 1}, {1, 0, 1}, {1, 0, 1}, {0, 1, 0}, {1, 0, 0}}
	lvl, err := g.ImportTriples(ctx, 7, triples)
	require.NoError(t, err)

	assert.Equal(t, VariantImported, lvl.Variant)
	assert.Equal(t, 7, lvl.ID)
	assert.Equal(t, 1, lvl.Attempts)
	require.Len(t, lvl.Path, len(triples)+1)
	assert.Equal(t, lvl.Path[0], lvl.Start)
	assert.Equal(t, lvl.Path[len(lvl.Path)-1], lvl.Goal)
	assert.Equal(t, 3, lvl.Goal.Z-lvl.Start.Z)
	assert.True(t, terrain.Supported(lvl.Voxel))

	seq, err := sequence.Encode(lvl.Path)
	require.NoError(t, err)
	assert.Equal(t, lvl.Sequence, seq)

	length, ok := pathfinding.RouteLength(ctx, lvl.Voxel, lvl.Start, lvl.Goal)
	require.True(t, ok)
	assert.Equal(t, len(lvl.Path), length)
}

func TestImportKeepsRouteColumnsClear(t *testing.T) {
	ctx := context.Background()
	g := NewGenerator(testConfig(config.VariantVoxel))

	triples := [][3]int{{1, 0, 1}, {0, 1, 0}, {1, 0, 1}, {0, 1, 1}, {1, 0, 0}, {1, 0, -1}}
	lvl, err := g.ImportTriples(ctx, 0, triples)
	require.NoError(t, err)

	dim := lvl.Voxel.Dimensions()
	for _, c := range lvl.Path {
		require.True(t, lvl.Voxel.Solid(c.X, c.Y, c.Z), "route cell %v is not solid", c)
		for z := c.Z + 1; z < dim.Height; z++ {
			assert.False(t, lvl.Voxel.Solid(c.X, c.Y, z), "block above route cell %v at z=%d", c, z)
		}
	}
	assert.True(t, terrain.Supported(lvl.Voxel))
}

func TestImportExpandsSmallWorlds(t *testing.T) {
	cfg := testConfig(config.VariantVoxel)
	cfg.Width, cfg.Depth, cfg.Height = 3, 3, 3
	cfg.TargetHeight = 1
	g := NewGenerator(cfg)

	up, err := sequence.CodeOf(sequence.Vector{DX: 1, DZ: 1})
	require.NoError(t, err)
	codes := []sequence.Code{up, up, up, up, up}

	lvl, err := g.ImportSequence(context.Background(), 0, codes)
	require.NoError(t, err)
	dim := lvl.Voxel.Dimensions()
	assert.GreaterOrEqual(t, dim.Width, 6)
	assert.GreaterOrEqual(t, dim.Height, 7)
	assert.Equal(t, codes, lvl.Sequence)
}

func TestImportRejectsBadInput(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.VariantVoxel)
	cfg.MaxDimension = 8
	cfg.ImportAttempts = 3
	g := NewGenerator(cfg)

	_, err := g.ImportTriples(ctx, 0, [][3]int{{1, 1, 0}})
	assert.True(t, errors.Is(err, sequence.ErrUnknownVector), "got %v", err)

	_, err = g.ImportSequence(ctx, 0, []sequence.Code{sequence.Alphabet})
	assert.True(t, errors.Is(err, sequence.ErrInvalidCode), "got %v", err)

	_, err = g.ImportTriples(ctx, 0, [][3]int{{1, 0, 0}, {-1, 0, 0}})
	assert.True(t, errors.Is(err, sequence.ErrColumnRevisit), "got %v", err)

	long := make([][3]int, 10)
	for i := range long {
		long[i] = [3]int{1, 0, 0}
	}
	_, err = g.ImportTriples(ctx, 0, long)
	assert.True(t, errors.Is(err, sequence.ErrInfeasible), "got %v", err)

	// The route folds back next to its own start at the same level, so
	// every replay holds a two-cell shortcut.
	_, err = g.ImportTriples(ctx, 0, [][3]int{{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}})
	assert.True(t, errors.Is(err, ErrSequenceRejected), "got %v", err)
}

func TestImportStrictPredecessorRejectsFolds(t *testing.T) {
	cfg := testConfig(config.VariantVoxel)
	cfg.StrictPredecessor = true
	_, err := NewGenerator(cfg).ImportTriples(context.Background(), 0, [][3]int{{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}})
	assert.True(t, errors.Is(err, sequence.ErrAmbiguousStep), "got %v", err)
}

func TestImportFoldedStartIsAdjacent(t *testing.T) {
	codes, err := sequence.Normalize([][3]int{{1, 0, 0}, {0, 1, 0}, {-1, 0, 0}})
	require.NoError(t, err)
	path, err := sequence.Decode(world.Cell{}, codes, sequence.Options{})
	require.NoError(t, err)
	assert.Equal(t, 1, world.Manhattan(path[0].Column(), path[3].Column()))
}
