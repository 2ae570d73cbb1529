package models

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Minimum tessellation for a UV sphere.
const (
	MinRings    = 3
	MinSegments = 3
)

// NewUVSphere builds a unit sphere from latitude rings and longitude
// segments. Vertices along the seam are duplicated so UV.X runs 0..1
// without wrapping; UV.Y runs 0 at the north pole to 1 at the south.
// Triangles collapsed at the poles are left out.
func NewUVSphere(name string, rings, segments int) *Mesh {
	rings = max(rings, MinRings)
	segments = max(segments, MinSegments)

	m := &Mesh{
		Name:     name,
		Vertices: make([]MeshVertex, 0, (rings+1)*(segments+1)),
		Faces:    make([]Face, 0, 2*rings*segments),
	}

	for r := 0; r <= rings; r++ {
		v := float64(r) / float64(rings)
		phi := v * math.Pi
		sinPhi, cosPhi := math.Sincos(phi)

		for s := 0; s <= segments; s++ {
			u := float64(s) / float64(segments)
			theta := u * 2 * math.Pi
			sinTheta, cosTheta := math.Sincos(theta)

			p := math3d.V3(sinPhi*cosTheta, cosPhi, sinPhi*sinTheta)
			m.Vertices = append(m.Vertices, MeshVertex{
				Position: p,
				Normal:   p,
				UV:       math3d.V2(u, v),
			})
		}
	}

	stride := segments + 1
	for r := range rings {
		for s := range segments {
			cur := r*stride + s
			next := cur + stride
			if r != 0 {
				m.Faces = append(m.Faces, Face{V: [3]int{cur, cur + 1, next}})
			}
			if r != rings-1 {
				m.Faces = append(m.Faces, Face{V: [3]int{cur + 1, next + 1, next}})
			}
		}
	}

	m.CalculateBounds()
	return m
}
