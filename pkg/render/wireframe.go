package render

import (
	"image/color"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/scene"
)

// WireColor is the line colour of wireframe mode.
var WireColor = color.RGBA{0, 255, 128, 255}

// drawWireframe draws every triangle edge of b instead of filling it.
// Bodies write no depth in this mode, so hidden edges show through. It
// returns the number of edges that reached the screen.
func drawWireframe(fb *Framebuffer, vp math3d.Mat4, f Frustum, b *scene.Body, stats *RenderStats) int {
	stats.Bodies++
	mesh := b.Mesh
	if mesh == nil || len(mesh.Faces) == 0 {
		return 0
	}
	if !f.IntersectsSphere(b.Position(), b.BoundingRadius()) {
		stats.BodiesCulled++
		return 0
	}

	model := b.Model()
	world := make([]math3d.Vec3, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		world[i] = model.MulVec3(v.Position)
	}

	drawn := 0
	seen := make(map[[2]int]struct{}, len(mesh.Faces)*3/2)
	for _, face := range mesh.Faces {
		stats.Triangles++
		for i := range 3 {
			a, c := face.V[i], face.V[(i+1)%3]
			// Neighbouring faces share edges; draw each once.
			key := [2]int{min(a, c), max(a, c)}
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			if drawSegment(fb, vp, world[a], world[c], WireColor, 1, 1) {
				drawn++
			}
		}
	}
	return drawn
}
