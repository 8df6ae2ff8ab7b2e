package world

// Column identifies a vertical stack of cells by its grid position.
type Column struct {
	X int
	Y int
}

// Cell describes a voxel position. Z is the level of the solid block an
// actor stands on.
type Cell struct {
	X int
	Y int
	Z int
}

// Column drops the level component.
func (c Cell) Column() Column {
	return Column{X: c.X, Y: c.Y}
}

// Add offsets the cell by the given deltas.
func (c Cell) Add(dx, dy, dz int) Cell {
	return Cell{X: c.X + dx, Y: c.Y + dy, Z: c.Z + dz}
}

// At lifts the column to the given level.
func (c Column) At(z int) Cell {
	return Cell{X: c.X, Y: c.Y, Z: z}
}

// Dimensions defines the size of a world in cells.
type Dimensions struct {
	Width  int
	Depth  int
	Height int
}

// ContainsColumn reports whether the column lies inside the horizontal bounds.
func (d Dimensions) ContainsColumn(c Column) bool {
	return c.X >= 0 && c.Y >= 0 && c.X < d.Width && c.Y < d.Depth
}

// Contains reports whether the cell lies inside the world bounds.
func (d Dimensions) Contains(c Cell) bool {
	return d.ContainsColumn(c.Column()) && c.Z >= 0 && c.Z < d.Height
}

// Columns is the number of columns in the grid.
func (d Dimensions) Columns() int {
	if d.Width <= 0 || d.Depth <= 0 {
		return 0
	}
	return d.Width * d.Depth
}

// OnEdge reports whether the column sits on the outer ring of the grid.
func (d Dimensions) OnEdge(c Column) bool {
	return c.X == 0 || c.Y == 0 || c.X == d.Width-1 || c.Y == d.Depth-1
}

// NearEdge reports whether the column sits on the ring one step inside the
// outer ring.
func (d Dimensions) NearEdge(c Column) bool {
	if d.OnEdge(c) {
		return false
	}
	return c.X == 1 || c.Y == 1 || c.X == d.Width-2 || c.Y == d.Depth-2
}

// Bounds is an axis-aligned box with inclusive min/max corners.
type Bounds struct {
	Min Cell
	Max Cell
}

// Size returns the box extent along each axis.
func (b Bounds) Size() Dimensions {
	return Dimensions{
		Width:  b.Max.X - b.Min.X + 1,
		Depth:  b.Max.Y - b.Min.Y + 1,
		Height: b.Max.Z - b.Min.Z + 1,
	}
}

// BoundsOf computes the tight bounding box of the given cells. It returns
// false for an empty slice.
func BoundsOf(cells []Cell) (Bounds, bool) {
	if len(cells) == 0 {
		return Bounds{}, false
	}
	b := Bounds{Min: cells[0], Max: cells[0]}
	for _, c := range cells[1:] {
		b.Min.X = min(b.Min.X, c.X)
		b.Min.Y = min(b.Min.Y, c.Y)
		b.Min.Z = min(b.Min.Z, c.Z)
		b.Max.X = max(b.Max.X, c.X)
		b.Max.Y = max(b.Max.Y, c.Y)
		b.Max.Z = max(b.Max.Z, c.Z)
	}
	return b, true
}

// Neighbors4 lists the horizontal unit offsets in the fixed order every
// generator and search iterates them.
var Neighbors4 = [4]Column{{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1}}

// Manhattan returns the horizontal Manhattan distance between two columns.
func Manhattan(a, b Column) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y)
}

// Manhattan3 returns the Manhattan distance between two cells.
func Manhattan3(a, b Cell) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
