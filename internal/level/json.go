package level

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"voxelclimb/internal/config"
	"voxelclimb/internal/pathfinding"
	"voxelclimb/internal/sequence"
	"voxelclimb/internal/terrain"
	"voxelclimb/internal/world"
)

// EncodeOptions controls the JSON array-of-Level encoding.
type EncodeOptions struct {
	// Debug adds the route, move sequence, dead ends and fallback flag.
	Debug  bool
	Indent bool
}

// cellJSON is a cell written as [x, y, z].
type cellJSON [3]int

func toCellJSON(c world.Cell) cellJSON {
	return cellJSON{c.X, c.Y, c.Z}
}

func (c cellJSON) cell() world.Cell {
	return world.Cell{X: c[0], Y: c[1], Z: c[2]}
}

// Field order is the wire order.
type levelJSON struct {
	ID       int           `json:"id"`
	Variant  string        `json:"variant"`
	Width    int           `json:"width"`
	Depth    int           `json:"depth"`
	Height   int           `json:"height"`
	Start    cellJSON      `json:"start"`
	Goal     *cellJSON     `json:"goal,omitempty"`
	Heights  [][]int       `json:"heights,omitempty"`
	Layers   [][][]int     `json:"layers,omitempty"`
	Path     []cellJSON    `json:"path,omitempty"`
	Sequence []int         `json:"sequence,omitempty"`
	DeadEnds []deadEndJSON `json:"deadEnds,omitempty"`
	Fallback bool          `json:"fallback,omitempty"`
}

type deadEndJSON struct {
	Kind    string     `json:"kind"`
	From    int        `json:"from"`
	Cells   []cellJSON `json:"cells"`
	Blocker *cellJSON  `json:"blocker,omitempty"`
}

// Encode writes levels as a JSON array with a fixed key order, so equal
// levels always encode to identical bytes.
func Encode(levels []*Level, opts EncodeOptions) ([]byte, error) {
	out := make([]levelJSON, 0, len(levels))
	for i, l := range levels {
		if l == nil || l.Terrain() == nil {
			return nil, fmt.Errorf("encode level %d: no world", i)
		}
		out = append(out, toLevelJSON(l, opts.Debug))
	}
	if opts.Indent {
		return json.MarshalIndent(out, "", "  ")
	}
	return json.Marshal(out)
}

func toLevelJSON(l *Level, debug bool) levelJSON {
	dim := l.Dimensions()
	goal := toCellJSON(l.Goal)
	lj := levelJSON{
		ID:      l.ID,
		Variant: l.Variant,
		Width:   dim.Width,
		Depth:   dim.Depth,
		Height:  dim.Height,
		Start:   toCellJSON(l.Start),
		Goal:    &goal,
	}
	if l.HeightField != nil {
		lj.Heights = l.HeightField.Heights()
	} else {
		lj.Layers = l.Voxel.Layers()
	}
	if !debug {
		return lj
	}

	lj.Fallback = l.Fallback
	for _, c := range l.Path {
		lj.Path = append(lj.Path, toCellJSON(c))
	}
	for _, code := range l.Sequence {
		lj.Sequence = append(lj.Sequence, int(code))
	}
	for _, de := range l.DeadEnds {
		dj := deadEndJSON{Kind: de.Kind.String(), From: de.From}
		for _, c := range de.Cells {
			dj.Cells = append(dj.Cells, toCellJSON(c))
		}
		if de.Blocker != nil {
			b := toCellJSON(*de.Blocker)
			dj.Blocker = &b
		}
		lj.DeadEnds = append(lj.DeadEnds, dj)
	}
	return lj
}

// Decode parses a JSON array of levels. A level without a goal gets the
// highest, farthest reachable cell from its start.
func Decode(data []byte) ([]*Level, error) {
	var raw []levelJSON
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode levels: %w", err)
	}

	levels := make([]*Level, 0, len(raw))
	for i, lj := range raw {
		l, err := fromLevelJSON(lj)
		if err != nil {
			return nil, fmt.Errorf("decode level %d: %w", i, err)
		}
		levels = append(levels, l)
	}
	return levels, nil
}

func fromLevelJSON(lj levelJSON) (*Level, error) {
	l := &Level{
		ID:       lj.ID,
		Variant:  lj.Variant,
		Start:    lj.Start.cell(),
		Fallback: lj.Fallback,
	}

	switch {
	case lj.Heights != nil && lj.Layers != nil:
		return nil, errors.New("both heights and layers present")
	case lj.Heights != nil:
		h, err := world.HeightFieldFromRows(lj.Heights, lj.Height)
		if err != nil {
			return nil, err
		}
		l.HeightField = h
		if l.Variant == "" {
			l.Variant = config.VariantHeightField
		}
	case lj.Layers != nil:
		v, err := world.VoxelFromLayers(lj.Layers)
		if err != nil {
			return nil, err
		}
		l.Voxel = v
		if l.Variant == "" {
			l.Variant = config.VariantVoxel
		}
	default:
		return nil, errors.New("neither heights nor layers present")
	}

	dim := l.Dimensions()
	if dim.Width != lj.Width || dim.Depth != lj.Depth || dim.Height != lj.Height {
		return nil, fmt.Errorf("grid is %dx%dx%d, header says %dx%dx%d",
			dim.Width, dim.Depth, dim.Height, lj.Width, lj.Depth, lj.Height)
	}
	if !dim.Contains(l.Start) {
		return nil, fmt.Errorf("start %v outside the world", l.Start)
	}

	if lj.Goal != nil {
		l.Goal = lj.Goal.cell()
	} else {
		goal, _ := pathfinding.SelectGoal(context.Background(), l.Terrain(), l.Start)
		l.Goal = goal
	}

	for _, c := range lj.Path {
		l.Path = append(l.Path, c.cell())
	}
	for _, code := range lj.Sequence {
		if _, err := sequence.VectorOf(sequence.Code(code)); err != nil {
			return nil, err
		}
		l.Sequence = append(l.Sequence, sequence.Code(code))
	}
	for _, dj := range lj.DeadEnds {
		de, err := fromDeadEndJSON(dj)
		if err != nil {
			return nil, err
		}
		l.DeadEnds = append(l.DeadEnds, de)
	}
	return l, nil
}

func fromDeadEndJSON(dj deadEndJSON) (terrain.DeadEnd, error) {
	de := terrain.DeadEnd{From: dj.From}
	switch dj.Kind {
	case terrain.KindBlockedMain.String():
		de.Kind = terrain.KindBlockedMain
	case terrain.KindBranch.String():
		de.Kind = terrain.KindBranch
	default:
		return terrain.DeadEnd{}, fmt.Errorf("unknown dead end kind %q", dj.Kind)
	}
	for _, c := range dj.Cells {
		de.Cells = append(de.Cells, c.cell())
	}
	if dj.Blocker != nil {
		b := dj.Blocker.cell()
		de.Blocker = &b
	}
	return de, nil
}
