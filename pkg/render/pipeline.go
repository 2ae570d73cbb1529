package render

import (
	"image/color"
	"math"

	"go.uber.org/zap"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/scene"
	"github.com/taigrr/orrery/pkg/shading"
)

// RenderStats counts the work done for one frame.
type RenderStats struct {
	Bodies           int // Bodies submitted
	BodiesCulled     int // Bodies rejected by the frustum
	Triangles        int // Triangles submitted
	TrianglesCulled  int // Outside the frustum, back-facing or degenerate
	TrianglesClipped int // Triangles cut by the near or far plane
	Fragments        int // Fragments that passed the depth test
	PathSegments     int // Orbit path segments drawn
	WireEdges        int // Mesh edges drawn in wireframe mode
}

// Pipeline renders a scene into a framebuffer. It keeps scratch buffers
// between frames, so a Pipeline must not render two frames at once.
type Pipeline struct {
	// Background is the clear color, visible only where there is no sky.
	Background color.RGBA
	// Workers is the number of raster goroutines. Values below 2 raster
	// on the calling goroutine.
	Workers int
	// Wireframe draws body edges instead of shaded surfaces.
	Wireframe bool

	log     *zap.Logger
	verts   []clipVertex
	tris    []rasterTri
	draws   []drawCall
	paths   []*scene.OrbitPath
	wires   []*scene.Body
	scratch [2][]clipVertex
}

// drawCall is the per-body state the fragment stage needs.
type drawCall struct {
	shader *shading.Shader
	normal math3d.Mat3
}

// NewPipeline returns a serial pipeline. A nil logger discards output.
func NewPipeline(log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		Background: color.RGBA{A: 255},
		log:        log,
		scratch:    [2][]clipVertex{make([]clipVertex, 0, 8), make([]clipVertex, 0, 8)},
	}
}

// Render draws one frame of sc as seen by cam. The framebuffer is fully
// rewritten: cleared, sky, opaque bodies, then orbit paths.
func (p *Pipeline) Render(fb *Framebuffer, sc *scene.Scene, cam *Camera, u shading.Uniforms) RenderStats {
	var stats RenderStats
	u.CameraPos = cam.Position
	fb.Clear(p.Background)

	vp := cam.ViewProjectionMatrix()
	frustum := NewFrustumFromMatrix(vp)

	p.tris = p.tris[:0]
	p.draws = p.draws[:0]
	p.paths = p.paths[:0]
	p.wires = p.wires[:0]

	var sky *shading.Shader
	for it := range sc.Items() {
		switch it.Kind {
		case scene.ItemSky:
			sky = it.Sky
		case scene.ItemBody:
			if p.Wireframe {
				p.wires = append(p.wires, it.Body)
			} else {
				p.setupBody(it.Body, vp, frustum, fb.Width, fb.Height, &stats)
			}
		case scene.ItemPath:
			p.paths = append(p.paths, it.Path)
		}
	}

	rays, ok := newSkyRays(vp, cam.Position)
	if sky != nil && !ok {
		p.log.Warn("view-projection is singular, sky pass skipped")
		sky = nil
	}

	stats.Fragments = p.forBands(fb.Height, func(y0, y1 int) int {
		if sky != nil {
			drawSky(fb, sky, rays, y0, y1)
		}
		return p.rasterBand(fb, y0, y1, u)
	})

	for _, b := range p.wires {
		stats.WireEdges += drawWireframe(fb, vp, frustum, b, &stats)
	}
	for _, path := range p.paths {
		stats.PathSegments += drawPath(fb, vp, path)
	}
	return stats
}

// setupBody runs the vertex stage for one body and queues its visible
// triangles for the raster stage.
func (p *Pipeline) setupBody(b *scene.Body, vp math3d.Mat4, f Frustum, width, height int, stats *RenderStats) {
	stats.Bodies++
	mesh := b.Mesh
	if mesh == nil || len(mesh.Faces) == 0 {
		return
	}
	model := b.Model()
	if !f.IntersectsSphere(b.Position(), b.BoundingRadius()) ||
		!f.IntersectAABB(NewAABB(mesh.BoundsMin, mesh.BoundsMax).Transform(model)) {
		stats.BodiesCulled++
		return
	}

	call := len(p.draws)
	p.draws = append(p.draws, drawCall{shader: b.Shader, normal: b.NormalMatrix()})
	p.transformVertices(mesh, model, vp.Mul(model), b.NormalMatrix())

	for _, face := range mesh.Faces {
		stats.Triangles++
		tri := [3]clipVertex{p.verts[face.V[0]], p.verts[face.V[1]], p.verts[face.V[2]]}

		c0, c1, c2 := outcode(tri[0].pos), outcode(tri[1].pos), outcode(tri[2].pos)
		if c0&c1&c2 != 0 {
			stats.TrianglesCulled++
			continue
		}
		if (c0|c1|c2)&(outNear|outFar) == 0 {
			if !p.emit(tri, b.DoubleSided, call, width, height) {
				stats.TrianglesCulled++
			}
			continue
		}

		stats.TrianglesClipped++
		poly := clipDepth(tri, &p.scratch)
		for i := 1; i+1 < len(poly); i++ {
			p.emit([3]clipVertex{poly[0], poly[i], poly[i+1]}, b.DoubleSided, call, width, height)
		}
	}
}

func (p *Pipeline) transformVertices(mesh *models.Mesh, model, mvp math3d.Mat4, nm math3d.Mat3) {
	if cap(p.verts) < len(mesh.Vertices) {
		p.verts = make([]clipVertex, len(mesh.Vertices))
	}
	p.verts = p.verts[:len(mesh.Vertices)]
	for i, v := range mesh.Vertices {
		p.verts[i] = clipVertex{
			pos:    mvp.MulVec4(math3d.Point(v.Position)),
			local:  v.Position,
			world:  model.MulVec3(v.Position),
			normal: nm.MulVec3(v.Normal).Normalize(),
			uv:     v.UV,
		}
	}
}

// rasterTri is a screen-space triangle ready for edge-function
// rasterization. Attributes are premultiplied by 1/w.
type rasterTri struct {
	x, y   [3]float64
	invW   [3]float64
	local  [3]math3d.Vec3
	world  [3]math3d.Vec3
	normal [3]math3d.Vec3
	uv     [3]math3d.Vec2

	// Edge i is opposite vertex i: e(x, y) = a*x + b*y + c.
	a, b, c [3]float64
	topLeft [3]bool
	invArea float64

	minX, maxX, minY, maxY int
	call                   int
}

// emit projects a clipped triangle to the screen and queues it. It
// reports false for back-facing and degenerate triangles.
func (p *Pipeline) emit(v [3]clipVertex, doubleSided bool, call, width, height int) bool {
	var t rasterTri
	w, h := float64(width), float64(height)
	for i := range 3 {
		invW := 1 / v[i].pos.W
		t.x[i] = (v[i].pos.X*invW + 1) * 0.5 * w
		t.y[i] = (1 - v[i].pos.Y*invW) * 0.5 * h
		t.invW[i] = invW
		t.local[i] = v[i].local.Scale(invW)
		t.world[i] = v[i].world.Scale(invW)
		t.normal[i] = v[i].normal.Scale(invW)
		t.uv[i] = v[i].uv.Scale(invW)
	}

	// Counter-clockwise faces in NDC turn clockwise once y points down,
	// which gives them a negative area here.
	area := (t.x[1]-t.x[0])*(t.y[2]-t.y[0]) - (t.y[1]-t.y[0])*(t.x[2]-t.x[0])
	if area == 0 || math.IsNaN(area) || math.IsInf(area, 0) {
		return false
	}
	if area < 0 {
		t.swap12()
		area = -area
	} else if !doubleSided {
		return false
	}

	t.minX = max(0, int(math.Floor(min(t.x[0], t.x[1], t.x[2]))))
	t.maxX = min(width-1, int(math.Ceil(max(t.x[0], t.x[1], t.x[2]))))
	t.minY = max(0, int(math.Floor(min(t.y[0], t.y[1], t.y[2]))))
	t.maxY = min(height-1, int(math.Ceil(max(t.y[0], t.y[1], t.y[2]))))
	if t.minX > t.maxX || t.minY > t.maxY {
		return true
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	for i := range 3 {
		j, k := (i+1)%3, (i+2)%3
		t.a[i], t.b[i], t.c[i] = edgeCoeffs(t.x[j], t.y[j], t.x[k], t.y[k])
		t.topLeft[i] = t.a[i] > 0 || (t.a[i] == 0 && t.b[i] > 0)
	}
	t.invArea = 1 / area
	t.call = call
	p.tris = append(p.tris, t)
	return true
}

func (t *rasterTri) swap12() {
	t.x[1], t.x[2] = t.x[2], t.x[1]
	t.y[1], t.y[2] = t.y[2], t.y[1]
	t.invW[1], t.invW[2] = t.invW[2], t.invW[1]
	t.local[1], t.local[2] = t.local[2], t.local[1]
	t.world[1], t.world[2] = t.world[2], t.world[1]
	t.normal[1], t.normal[2] = t.normal[2], t.normal[1]
	t.uv[1], t.uv[2] = t.uv[2], t.uv[1]
}

// edgeCoeffs returns A, B, C for edge(x, y) = A*x + B*y + C, positive on
// the inside of a positive-area triangle.
func edgeCoeffs(x0, y0, x1, y1 float64) (A, B, C float64) {
	A = y0 - y1 // dy
	B = x1 - x0 // -dx
	C = x0*y1 - x1*y0
	return
}
