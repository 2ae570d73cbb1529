package models

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		faces   []Face
		wantErr bool
	}{
		{"valid", []Face{{V: [3]int{0, 1, 2}}}, false},
		{"too large", []Face{{V: [3]int{0, 1, 3}}}, true},
		{"negative", []Face{{V: [3]int{-1, 1, 2}}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMesh(tt.name)
			m.Vertices = make([]MeshVertex, 3)
			m.Faces = tt.faces

			err := m.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrIndexOutOfRange) {
				t.Errorf("error %v does not wrap ErrIndexOutOfRange", err)
			}
		})
	}
}

func TestUVSphere(t *testing.T) {
	tests := []struct {
		rings, segments int
	}{
		{8, 12},
		{16, 24},
		{1, 1},
	}
	for _, tt := range tests {
		m := NewUVSphere("s", tt.rings, tt.segments)
		if err := m.Validate(); err != nil {
			t.Fatalf("Validate() = %v", err)
		}

		rings, segs := max(tt.rings, MinRings), max(tt.segments, MinSegments)
		if want := 2*rings*segs - 2*segs; m.TriangleCount() != want {
			t.Errorf("%dx%d: TriangleCount() = %d, want %d", rings, segs, m.TriangleCount(), want)
		}

		for i, v := range m.Vertices {
			if math.Abs(v.Position.Len()-1) > 1e-9 {
				t.Fatalf("vertex %d not on unit sphere: %v", i, v.Position)
			}
			if v.UV.X < 0 || v.UV.X > 1 || v.UV.Y < 0 || v.UV.Y > 1 {
				t.Fatalf("vertex %d UV out of range: %v", i, v.UV)
			}
		}

		// Every face winds counter-clockwise seen from outside.
		for i, f := range m.Faces {
			a := m.Vertices[f.V[0]].Position
			b := m.Vertices[f.V[1]].Position
			c := m.Vertices[f.V[2]].Position
			n := b.Sub(a).Cross(c.Sub(a))
			mid := a.Add(b).Add(c).Scale(1.0 / 3)
			if n.Dot(mid) <= 0 {
				t.Fatalf("face %d winds inward", i)
			}
		}
	}
}

func TestShipOutwardFacets(t *testing.T) {
	m := NewShip()
	if err := m.Validate(); err != nil {
		t.Fatal(err)
	}
	if m.TriangleCount() != 8 {
		t.Errorf("TriangleCount() = %d, want 8", m.TriangleCount())
	}
	if m.BoundsMin.Z >= -1 {
		t.Errorf("nose should point down -Z, bounds min = %v", m.BoundsMin)
	}
	for i, f := range m.Faces {
		n := m.Vertices[f.V[0]].Normal
		a := m.Vertices[f.V[0]].Position
		b := m.Vertices[f.V[1]].Position
		c := m.Vertices[f.V[2]].Position
		if got := b.Sub(a).Cross(c.Sub(a)).Normalize(); !got.ApproxEqual(n, 1e-9) {
			t.Errorf("face %d normal %v does not match winding %v", i, n, got)
		}
	}
}

func TestRecenter(t *testing.T) {
	m := NewMesh("box")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(10, 10, 10)},
		{Position: math3d.V3(14, 10, 10)},
		{Position: math3d.V3(10, 13, 10)},
	}
	m.Recenter(2)

	c := m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
	if !c.ApproxEqual(math3d.Vec3{}, 1e-9) {
		t.Errorf("bounds centre = %v, want origin", c)
	}
	if r := m.BoundingRadius(); math.Abs(r-2) > 1e-9 {
		t.Errorf("BoundingRadius() = %v, want 2", r)
	}
}

func TestCalculateSmoothNormals(t *testing.T) {
	m := NewUVSphere("s", 12, 16)
	want := make([]math3d.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		want[i] = v.Normal
	}
	m.CalculateSmoothNormals()

	// Interior vertices of a sphere get normals close to their position.
	for i, v := range m.Vertices {
		if v.UV.Y == 0 || v.UV.Y == 1 || v.UV.X == 0 || v.UV.X == 1 {
			continue
		}
		if v.Normal.Dot(want[i]) < 0.98 {
			t.Errorf("vertex %d smooth normal %v far from %v", i, v.Normal, want[i])
		}
	}
}
