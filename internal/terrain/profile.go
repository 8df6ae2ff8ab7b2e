package terrain

import "voxelclimb/internal/rng"

// Profile bases for the two terrain variants.
const (
	HeightFieldBase = 1
	VoxelBase       = 0
)

// AssignProfile spreads rise +1 increments over the steps-1 gaps of a path
// and returns the non-decreasing height of every path cell, starting at
// base. It fails when there are fewer gaps than increments.
func AssignProfile(r *rng.Source, steps, rise, base int) ([]int, bool) {
	if steps <= 0 || rise < 0 || steps-1 < rise {
		return nil, false
	}
	slots := make([]int, steps-1)
	for i := range slots {
		slots[i] = i
	}
	r.Shuffle(len(slots), func(i, j int) { slots[i], slots[j] = slots[j], slots[i] })

	increments := make([]int, steps-1)
	for _, s := range slots[:rise] {
		increments[s] = 1
	}

	profile := make([]int, steps)
	profile[0] = base
	for i := 1; i < steps; i++ {
		profile[i] = profile[i-1] + increments[i-1]
	}
	return profile, true
}
