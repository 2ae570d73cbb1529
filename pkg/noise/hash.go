package noise

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Cell returns a deterministic pseudo-random value in [0, 1) for the
// integer lattice cell containing p. Neighbouring cells are uncorrelated,
// which makes it suitable for scattering sparse points such as stars.
func Cell(seed int64, p math3d.Vec3) (float64, math3d.Vec3) {
	ix := int64(math.Floor(p.X))
	iy := int64(math.Floor(p.Y))
	iz := int64(math.Floor(p.Z))

	h := mix64(uint64(seed) ^ uint64(ix)*0x9E3779B185EBCA87 ^ uint64(iy)*0xC2B2AE3D27D4EB4F ^ uint64(iz)*0x165667B19E3779F9)
	v := float64(h>>11) / (1 << 53)

	// Jittered point inside the cell, from further rounds of the hash.
	h2 := mix64(h)
	h3 := mix64(h2)
	h4 := mix64(h3)
	off := math3d.Vec3{
		X: float64(ix) + float64(h2>>11)/(1<<53),
		Y: float64(iy) + float64(h3>>11)/(1<<53),
		Z: float64(iz) + float64(h4>>11)/(1<<53),
	}
	return v, off
}

// mix64 is the splitmix64 finalizer.
func mix64(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xBF58476D1CE4E5B9
	x ^= x >> 27
	x *= 0x94D049BB133111EB
	x ^= x >> 31
	return x
}
