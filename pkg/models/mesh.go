// Package models holds triangle meshes for orrery bodies: generated UV
// spheres and ship hulls, and meshes loaded from glTF binaries.
package models

import (
	"errors"
	"fmt"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// ErrIndexOutOfRange is returned by Validate when a face references a
// vertex the mesh does not have.
var ErrIndexOutOfRange = errors.New("models: face index out of range")

// Mesh is an indexed triangle list. Faces wind counter-clockwise when
// seen from outside, the glTF convention.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes. UV carries the longitude
// fraction in X and the latitude fraction in Y for generated spheres.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	UV       math3d.Vec2
}

// Face is one triangle as three indices into Mesh.Vertices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// Validate checks that every face index refers to an existing vertex.
// Meshes are validated once at load time; the renderer trusts them after.
func (m *Mesh) Validate() error {
	n := len(m.Vertices)
	for fi, f := range m.Faces {
		for _, idx := range f.V {
			if idx < 0 || idx >= n {
				return fmt.Errorf("mesh %q face %d index %d (of %d vertices): %w",
					m.Name, fi, idx, n, ErrIndexOutOfRange)
			}
		}
	}
	return nil
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}
	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// BoundingRadius is the largest distance from the local origin to any
// vertex, used for sphere culling after the model transform.
func (m *Mesh) BoundingRadius() float64 {
	var r2 float64
	for _, v := range m.Vertices {
		r2 = math.Max(r2, v.Position.LenSq())
	}
	return math.Sqrt(r2)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// CalculateSmoothNormals averages area-weighted face normals per vertex.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}
	for _, f := range m.Faces {
		v0 := m.Vertices[f.V[0]].Position
		v1 := m.Vertices[f.V[1]].Position
		v2 := m.Vertices[f.V[2]].Position
		n := v1.Sub(v0).Cross(v2.Sub(v0))
		for _, idx := range f.V {
			m.Vertices[idx].Normal = m.Vertices[idx].Normal.Add(n)
		}
	}
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Recenter translates the mesh so its bounding box is centred on the
// origin and scales it so the bounding radius is r.
func (m *Mesh) Recenter(r float64) {
	m.CalculateBounds()
	c := m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(c)
	}
	if br := m.BoundingRadius(); br > 0 && r > 0 {
		s := r / br
		for i := range m.Vertices {
			m.Vertices[i].Position = m.Vertices[i].Position.Scale(s)
		}
	}
	m.CalculateBounds()
}

// AddFlatTriangle appends a triangle with its own three vertices, all
// carrying the face normal, so it shades as a hard facet.
func (m *Mesh) AddFlatTriangle(a, b, c math3d.Vec3) {
	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	base := len(m.Vertices)
	m.Vertices = append(m.Vertices,
		MeshVertex{Position: a, Normal: n},
		MeshVertex{Position: b, Normal: n},
		MeshVertex{Position: c, Normal: n},
	)
	m.Faces = append(m.Faces, Face{V: [3]int{base, base + 1, base + 2}})
}
