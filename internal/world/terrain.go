package world

// Terrain is the capability set shared by the height-field and voxel world
// representations. Movement and validation are written against it only.
type Terrain interface {
	Dimensions() Dimensions
	Solid(x, y, z int) bool
	Standable(x, y, z int) bool
}

// StandableLevels lists the standable levels of a column in ascending order.
func StandableLevels(t Terrain, col Column) []int {
	dim := t.Dimensions()
	if !dim.ContainsColumn(col) {
		return nil
	}
	var levels []int
	for z := 0; z < dim.Height; z++ {
		if t.Standable(col.X, col.Y, z) {
			levels = append(levels, z)
		}
	}
	return levels
}

// LandingHeight resolves the level an actor standing at current ends up on
// after stepping into col. The highest standable level within one climb
// ([current, current+1]) wins; otherwise the actor drops to the highest
// standable level below current. A column with no standable level cannot be
// entered.
func LandingHeight(t Terrain, col Column, current int) (int, bool) {
	dim := t.Dimensions()
	if !dim.ContainsColumn(col) {
		return 0, false
	}
	top := min(current+1, dim.Height-1)
	for z := top; z >= current && z >= 0; z-- {
		if t.Standable(col.X, col.Y, z) {
			return z, true
		}
	}
	for z := min(current-1, dim.Height-1); z >= 0; z-- {
		if t.Standable(col.X, col.Y, z) {
			return z, true
		}
	}
	return 0, false
}
