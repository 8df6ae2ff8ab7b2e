package world

import "fmt"

// HeightField is the legacy 2D terrain: each column holds a block count and
// is solid on levels 0..h-1. A zero height is a hole.
type HeightField struct {
	dim     Dimensions
	heights []int
}

// NewHeightField allocates a flat field of holes. dim.Height is the maximum
// column height.
func NewHeightField(dim Dimensions) *HeightField {
	dim.Width = max(dim.Width, 1)
	dim.Depth = max(dim.Depth, 1)
	dim.Height = max(dim.Height, 1)
	return &HeightField{
		dim:     dim,
		heights: make([]int, dim.Width*dim.Depth),
	}
}

func (h *HeightField) Dimensions() Dimensions {
	return h.dim
}

// Height returns the block count of the column, or 0 outside the grid.
func (h *HeightField) Height(x, y int) int {
	if !h.dim.ContainsColumn(Column{X: x, Y: y}) {
		return 0
	}
	return h.heights[y*h.dim.Width+x]
}

// SetHeight stores a block count clamped to [0, maxHeight].
func (h *HeightField) SetHeight(x, y, height int) bool {
	if !h.dim.ContainsColumn(Column{X: x, Y: y}) {
		return false
	}
	h.heights[y*h.dim.Width+x] = min(max(height, 0), h.dim.Height)
	return true
}

func (h *HeightField) Solid(x, y, z int) bool {
	return z >= 0 && z < h.Height(x, y)
}

func (h *HeightField) Standable(x, y, z int) bool {
	height := h.Height(x, y)
	return height > 0 && z == height-1
}

// Heights returns the nested heights[y][x] view used by the JSON encoding.
func (h *HeightField) Heights() [][]int {
	rows := make([][]int, h.dim.Depth)
	for y := range rows {
		row := make([]int, h.dim.Width)
		copy(row, h.heights[y*h.dim.Width:(y+1)*h.dim.Width])
		rows[y] = row
	}
	return rows
}

// Equal reports whether both fields have identical bounds and heights.
func (h *HeightField) Equal(other *HeightField) bool {
	if h == nil || other == nil {
		return h == other
	}
	if h.dim != other.dim {
		return false
	}
	for i := range h.heights {
		if h.heights[i] != other.heights[i] {
			return false
		}
	}
	return true
}

// ToVoxel converts the field into solid stacks in a voxel world of the given
// height (at least the field's maximum height).
func (h *HeightField) ToVoxel(height int) *Voxel {
	dim := h.dim
	dim.Height = max(height, h.dim.Height)
	v := NewVoxel(dim)
	for y := 0; y < h.dim.Depth; y++ {
		for x := 0; x < h.dim.Width; x++ {
			v.FillColumn(x, y, h.Height(x, y)-1)
		}
	}
	return v
}

// HeightFieldFromRows rebuilds a field from heights[y][x].
func HeightFieldFromRows(rows [][]int, maxHeight int) (*HeightField, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("heights must be non-empty")
	}
	dim := Dimensions{Width: len(rows[0]), Depth: len(rows), Height: maxHeight}
	for _, row := range rows {
		for _, v := range row {
			dim.Height = max(dim.Height, v)
		}
	}
	h := NewHeightField(dim)
	for y, row := range rows {
		if len(row) != dim.Width {
			return nil, fmt.Errorf("row %d has %d columns, want %d", y, len(row), dim.Width)
		}
		for x, v := range row {
			if v < 0 {
				return nil, fmt.Errorf("column (%d,%d) has negative height %d", x, y, v)
			}
			h.SetHeight(x, y, v)
		}
	}
	return h, nil
}
