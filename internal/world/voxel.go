package world

import "fmt"

// Voxel stores a dense occupancy grid in a flat arena indexed
// (z*depth + y)*width + x.
type Voxel struct {
	dim   Dimensions
	cells []uint8
}

// NewVoxel allocates an empty world. Non-positive dimensions are raised to 1.
func NewVoxel(dim Dimensions) *Voxel {
	dim.Width = max(dim.Width, 1)
	dim.Depth = max(dim.Depth, 1)
	dim.Height = max(dim.Height, 1)
	return &Voxel{
		dim:   dim,
		cells: make([]uint8, dim.Width*dim.Depth*dim.Height),
	}
}

func (v *Voxel) index(x, y, z int) int {
	return (z*v.dim.Depth+y)*v.dim.Width + x
}

func (v *Voxel) inBounds(x, y, z int) bool {
	return x >= 0 && y >= 0 && z >= 0 &&
		x < v.dim.Width && y < v.dim.Depth && z < v.dim.Height
}

func (v *Voxel) Dimensions() Dimensions {
	return v.dim
}

// Solid reports whether the cell is occupied. Cells outside the world are empty.
func (v *Voxel) Solid(x, y, z int) bool {
	if !v.inBounds(x, y, z) {
		return false
	}
	return v.cells[v.index(x, y, z)] != 0
}

// Standable reports a solid cell with empty space directly above it. The
// level above the top layer counts as open sky.
func (v *Voxel) Standable(x, y, z int) bool {
	return v.Solid(x, y, z) && !v.Solid(x, y, z+1)
}

// Supported reports whether a block at the cell would rest on the ground or
// on a solid cell directly below.
func (v *Voxel) Supported(x, y, z int) bool {
	return z == 0 || v.Solid(x, y, z-1)
}

// Set marks the cell solid. It returns false when the cell is out of bounds.
func (v *Voxel) Set(x, y, z int) bool {
	if !v.inBounds(x, y, z) {
		return false
	}
	v.cells[v.index(x, y, z)] = 1
	return true
}

// Clear empties the cell. It returns false when the cell is out of bounds.
func (v *Voxel) Clear(x, y, z int) bool {
	if !v.inBounds(x, y, z) {
		return false
	}
	v.cells[v.index(x, y, z)] = 0
	return true
}

// FillColumn marks levels 0..top of the column solid.
func (v *Voxel) FillColumn(x, y, top int) {
	for z := 0; z <= top && z < v.dim.Height; z++ {
		v.Set(x, y, z)
	}
}

// SolidCount returns the number of occupied cells.
func (v *Voxel) SolidCount() int {
	n := 0
	for _, c := range v.cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Clone returns an independent copy.
func (v *Voxel) Clone() *Voxel {
	cells := make([]uint8, len(v.cells))
	copy(cells, v.cells)
	return &Voxel{dim: v.dim, cells: cells}
}

// Equal reports whether both worlds have identical bounds and occupancy.
func (v *Voxel) Equal(other *Voxel) bool {
	if v == nil || other == nil {
		return v == other
	}
	if v.dim != other.dim || len(v.cells) != len(other.cells) {
		return false
	}
	for i := range v.cells {
		if v.cells[i] != other.cells[i] {
			return false
		}
	}
	return true
}

// Layers returns the nested layers[z][y][x] view used by the JSON encoding.
func (v *Voxel) Layers() [][][]int {
	layers := make([][][]int, v.dim.Height)
	for z := range layers {
		rows := make([][]int, v.dim.Depth)
		for y := range rows {
			row := make([]int, v.dim.Width)
			for x := range row {
				row[x] = int(v.cells[v.index(x, y, z)])
			}
			rows[y] = row
		}
		layers[z] = rows
	}
	return layers
}

// VoxelFromLayers rebuilds a world from a layers[z][y][x] grid of 0/1 values.
func VoxelFromLayers(layers [][][]int) (*Voxel, error) {
	if len(layers) == 0 || len(layers[0]) == 0 || len(layers[0][0]) == 0 {
		return nil, fmt.Errorf("layers must be non-empty")
	}
	dim := Dimensions{Width: len(layers[0][0]), Depth: len(layers[0]), Height: len(layers)}
	v := NewVoxel(dim)
	for z, rows := range layers {
		if len(rows) != dim.Depth {
			return nil, fmt.Errorf("layer %d has %d rows, want %d", z, len(rows), dim.Depth)
		}
		for y, row := range rows {
			if len(row) != dim.Width {
				return nil, fmt.Errorf("layer %d row %d has %d cells, want %d", z, y, len(row), dim.Width)
			}
			for x, cell := range row {
				switch cell {
				case 0:
				case 1:
					v.Set(x, y, z)
				default:
					return nil, fmt.Errorf("layer %d cell (%d,%d) has value %d", z, x, y, cell)
				}
			}
		}
	}
	return v, nil
}
