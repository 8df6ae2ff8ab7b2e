package sequence

import (
	"errors"
	"fmt"

	"voxelclimb/internal/world"
)

var (
	// ErrInvalidCode reports a move code outside the alphabet.
	ErrInvalidCode = errors.New("sequence: invalid move code")
	// ErrUnknownVector reports a displacement that has no code.
	ErrUnknownVector = errors.New("sequence: displacement is not a canonical step")
	// ErrColumnRevisit reports a replay that enters the same column twice.
	ErrColumnRevisit = errors.New("sequence: column revisited")
	// ErrAmbiguousStep reports a step whose destination could also be
	// entered from another already-used column.
	ErrAmbiguousStep = errors.New("sequence: step reachable from another predecessor")
)

// Code identifies one of the 16 canonical step vectors.
type Code int

// Alphabet is the number of codes.
const Alphabet = 16

// Vector is a single step displacement. Exactly one of DX/DY is ±1 and DZ is
// one of 0, 1, -1, -2. DY uses the encoded sign convention: a positive DY
// moves towards smaller grid y.
type Vector struct {
	DX int
	DY int
	DZ int
}

var (
	vectors [Alphabet]Vector
	codes   = make(map[Vector]Code, Alphabet)
)

// The nesting order axis × sign × dz is the wire contract for codes.
func init() {
	dzOptions := [...]int{0, 1, -1, -2}
	signs := [...]int{1, -1}
	next := 0
	for axis := 0; axis < 2; axis++ {
		for _, sign := range signs {
			for _, dz := range dzOptions {
				v := Vector{DZ: dz}
				if axis == 0 {
					v.DX = sign
				} else {
					v.DY = sign
				}
				vectors[next] = v
				codes[v] = Code(next)
				next++
			}
		}
	}
}

// Vectors returns the alphabet in code order.
func Vectors() [Alphabet]Vector {
	return vectors
}

// VectorOf returns the displacement for a code.
func VectorOf(c Code) (Vector, error) {
	if c < 0 || int(c) >= Alphabet {
		return Vector{}, fmt.Errorf("%w: %d", ErrInvalidCode, c)
	}
	return vectors[c], nil
}

// CodeOf returns the code for a displacement given in the encoded sign
// convention.
func CodeOf(v Vector) (Code, error) {
	c, ok := codes[v]
	if !ok {
		return 0, fmt.Errorf("%w: (%d,%d,%d)", ErrUnknownVector, v.DX, v.DY, v.DZ)
	}
	return c, nil
}

// Apply moves a cell by the vector, flipping DY back into grid orientation.
func (v Vector) Apply(c world.Cell) world.Cell {
	return c.Add(v.DX, -v.DY, v.DZ)
}

// Step converts a grid delta between two cells into an encoded vector.
func Step(from, to world.Cell) Vector {
	return Vector{DX: to.X - from.X, DY: -(to.Y - from.Y), DZ: to.Z - from.Z}
}

// Normalize converts raw (dx, dy, dz) triples, already in the encoded sign
// convention, into codes.
func Normalize(triples [][3]int) ([]Code, error) {
	out := make([]Code, 0, len(triples))
	for i, t := range triples {
		c, err := CodeOf(Vector{DX: t[0], DY: t[1], DZ: t[2]})
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Encode converts consecutive path cells into codes.
func Encode(path []world.Cell) ([]Code, error) {
	if len(path) < 2 {
		return nil, nil
	}
	out := make([]Code, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		c, err := CodeOf(Step(path[i-1], path[i]))
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i-1, err)
		}
		out = append(out, c)
	}
	return out, nil
}

// Options tunes replay validation.
type Options struct {
	// StrictPredecessor rejects a step whose destination column is also
	// enterable from a different earlier cell of the path.
	StrictPredecessor bool
}

// Decode replays codes from start. Every column on the result is distinct.
func Decode(start world.Cell, seq []Code, opts Options) ([]world.Cell, error) {
	path := make([]world.Cell, 0, len(seq)+1)
	path = append(path, start)
	used := map[world.Column]int{start.Column(): 0}

	current := start
	for i, c := range seq {
		v, err := VectorOf(c)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		next := v.Apply(current)
		if _, seen := used[next.Column()]; seen {
			return nil, fmt.Errorf("step %d: %w at (%d,%d)", i, ErrColumnRevisit, next.X, next.Y)
		}
		if opts.StrictPredecessor && hasAlternatePredecessor(path, next) {
			return nil, fmt.Errorf("step %d: %w at (%d,%d,%d)", i, ErrAmbiguousStep, next.X, next.Y, next.Z)
		}
		used[next.Column()] = len(path)
		path = append(path, next)
		current = next
	}
	return path, nil
}

// hasAlternatePredecessor reports whether any path cell other than the
// current tail sits in a column adjacent to next at a height from which a
// climbing move would land on next.
func hasAlternatePredecessor(path []world.Cell, next world.Cell) bool {
	tail := len(path) - 1
	for i := 0; i < tail; i++ {
		p := path[i]
		if world.Manhattan(p.Column(), next.Column()) != 1 {
			continue
		}
		if next.Z <= p.Z+1 {
			return true
		}
	}
	return false
}
