package models

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
)

func TestLoadGLBInvalidPath(t *testing.T) {
	_, err := LoadGLB("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderDefaults(t *testing.T) {
	loader := NewGLTFLoader()
	if !loader.SmoothNormals {
		t.Error("SmoothNormals should default to true")
	}
	if loader.Radius != 1 {
		t.Errorf("Radius = %v, want 1", loader.Radius)
	}
}

func writeTetrahedron(t *testing.T, indices []uint16) string {
	t.Helper()

	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{
		{0, 0, 0}, {2, 0, 0}, {0, 2, 0}, {0, 0, 2},
	})
	idx := modeler.WriteIndices(doc, indices)
	doc.Meshes = []*gltf.Mesh{{
		Name: "tetra",
		Primitives: []*gltf.Primitive{{
			Indices:    gltf.Index(idx),
			Attributes: map[string]int{gltf.POSITION: pos},
		}},
	}}
	doc.Nodes = []*gltf.Node{{Name: "root", Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, 0)

	path := filepath.Join(t.TempDir(), "tetra.glb")
	if err := gltf.SaveBinary(doc, path); err != nil {
		t.Fatalf("SaveBinary: %v", err)
	}
	return path
}

func TestLoadGLBRoundTrip(t *testing.T) {
	path := writeTetrahedron(t, []uint16{0, 2, 1, 0, 1, 3, 0, 3, 2, 1, 2, 3})

	mesh, err := LoadGLB(path)
	if err != nil {
		t.Fatalf("LoadGLB: %v", err)
	}
	if got := mesh.TriangleCount(); got != 4 {
		t.Errorf("TriangleCount() = %d, want 4", got)
	}
	if got := len(mesh.Vertices); got != 4 {
		t.Errorf("vertex count = %d, want 4", got)
	}
	if r := mesh.BoundingRadius(); math.Abs(r-1) > 1e-6 {
		t.Errorf("BoundingRadius() = %v, want 1 after recentring", r)
	}
	for i, v := range mesh.Vertices {
		if l := v.Normal.Len(); math.Abs(l-1) > 1e-6 {
			t.Errorf("vertex %d normal length = %v, want generated unit normal", i, l)
		}
	}
	if mesh.Faces[0].V != [3]int{0, 2, 1} {
		t.Errorf("winding changed on load: %v", mesh.Faces[0].V)
	}
}

func TestLoadGLBRejectsBadIndex(t *testing.T) {
	path := writeTetrahedron(t, []uint16{0, 1, 9})

	if _, err := LoadGLB(path); err == nil {
		t.Error("expected an error for an out-of-range index")
	}
}
