package models

import "github.com/taigrr/orrery/pkg/math3d"

// NewShip builds a small faceted dart hull with its nose on -Z, the
// direction a default camera faces. It spans roughly two units.
func NewShip() *Mesh {
	nose := math3d.V3(0, 0, -1.2)
	left := math3d.V3(-0.8, -0.05, 0.7)
	right := math3d.V3(0.8, -0.05, 0.7)
	top := math3d.V3(0, 0.3, 0.4)
	bottom := math3d.V3(0, -0.2, 0.5)
	tail := math3d.V3(0, 0.05, 0.8)

	m := NewMesh("ship")
	tris := [][3]math3d.Vec3{
		{nose, top, left},
		{nose, right, top},
		{nose, left, bottom},
		{nose, bottom, right},
		{left, top, tail},
		{top, right, tail},
		{bottom, left, tail},
		{right, bottom, tail},
	}

	// Wind every facet outward from the hull centre.
	var center math3d.Vec3
	for _, p := range []math3d.Vec3{nose, left, right, top, bottom, tail} {
		center = center.Add(p)
	}
	center = center.Scale(1.0 / 6)

	for _, t := range tris {
		a, b, c := t[0], t[1], t[2]
		n := b.Sub(a).Cross(c.Sub(a))
		mid := a.Add(b).Add(c).Scale(1.0 / 3)
		if n.Dot(mid.Sub(center)) < 0 {
			b, c = c, b
		}
		m.AddFlatTriangle(a, b, c)
	}

	m.CalculateBounds()
	return m
}
