package models

import (
	"fmt"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/orrery/pkg/math3d"
)

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// SmoothNormals generates averaged normals when the file has none.
	SmoothNormals bool
	// Radius, when positive, recentres the mesh and scales it so its
	// bounding radius matches. Planet and ship meshes are then sized by
	// the body transform alone.
	Radius float64
}

// NewGLTFLoader creates a loader that fills in missing normals and
// normalizes meshes to unit radius.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		SmoothNormals: true,
		Radius:        1,
	}
}

// LoadGLB loads a binary glTF file with the default loader.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads every triangle primitive of every mesh in the document into
// a single Mesh and validates it.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh := NewMesh(filepath.Base(path))
	hasNormals := true
	for _, m := range doc.Meshes {
		ok, err := l.appendMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		hasNormals = hasNormals && ok
	}

	if len(mesh.Faces) == 0 {
		return nil, fmt.Errorf("gltf %s: no triangle primitives", path)
	}
	if err := mesh.Validate(); err != nil {
		return nil, err
	}

	if !hasNormals && l.SmoothNormals {
		mesh.CalculateSmoothNormals()
	}
	if l.Radius > 0 {
		mesh.Recenter(l.Radius)
	} else {
		mesh.CalculateBounds()
	}
	return mesh, nil
}

// appendMesh copies the triangle primitives of m into out. It reports
// whether every primitive carried its own normals.
func (l *GLTFLoader) appendMesh(doc *gltf.Document, m *gltf.Mesh, out *Mesh) (bool, error) {
	hasNormals := true
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}

		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		}
		if len(normals) < len(positions) {
			hasNormals = false
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return false, fmt.Errorf("read uvs: %w", err)
			}
		}

		base := len(out.Vertices)
		for i, p := range positions {
			v := MeshVertex{Position: vec3f(p)}
			if i < len(normals) {
				v.Normal = vec3f(normals[i]).Normalize()
			}
			if i < len(uvs) {
				v.UV = math3d.V2(float64(uvs[i][0]), float64(uvs[i][1]))
			}
			out.Vertices = append(out.Vertices, v)
		}

		if prim.Indices == nil {
			for i := 0; i+2 < len(positions); i += 3 {
				out.Faces = append(out.Faces, Face{V: [3]int{base + i, base + i + 1, base + i + 2}})
			}
			continue
		}

		indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return false, fmt.Errorf("read indices: %w", err)
		}
		for i := 0; i+2 < len(indices); i += 3 {
			out.Faces = append(out.Faces, Face{V: [3]int{
				base + int(indices[i]),
				base + int(indices[i+1]),
				base + int(indices[i+2]),
			}})
		}
	}
	return hasNormals, nil
}

func vec3f(v [3]float32) math3d.Vec3 {
	return math3d.V3(float64(v[0]), float64(v[1]), float64(v[2]))
}
