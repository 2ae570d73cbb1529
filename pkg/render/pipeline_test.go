package render

import (
	"fmt"
	"image/color"
	"math"
	"slices"
	"testing"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/scene"
	"github.com/taigrr/orrery/pkg/shading"
)

var (
	sunShader  = shading.Sun(3).MustCompile()
	moonShader = shading.Moon(5).MustCompile()
	sphere     = models.NewUVSphere("sphere", 16, 24)
)

// testCamera sits at (0, 0, 5) looking down -Z.
func testCamera(width, height int) *Camera {
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 0, 5))
	cam.SetAspectRatio(float64(width) / float64(height))
	return cam
}

func triangleMesh(a, b, c math3d.Vec3) *models.Mesh {
	m := models.NewMesh("tri")
	m.AddFlatTriangle(a, b, c)
	m.CalculateBounds()
	return m
}

func addBody(t testing.TB, sc *scene.Scene, b scene.Body) int {
	t.Helper()
	if b.Orbit == (scene.Orbit{}) {
		b.Orbit.Parent = scene.NoParent
	}
	i, err := sc.AddBody(b)
	if err != nil {
		t.Fatal(err)
	}
	return i
}

func covered(fb *Framebuffer) int {
	n := 0
	for _, d := range fb.Depth {
		if !math.IsInf(d, 1) {
			n++
		}
	}
	return n
}

func TestBackfaceCulling(t *testing.T) {
	// Counter-clockwise as seen from +Z, so it faces the camera.
	a, b, c := math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(0, 1, 0)

	tests := []struct {
		name        string
		mesh        *models.Mesh
		doubleSided bool
		wantDrawn   bool
	}{
		{"front facing", triangleMesh(a, b, c), false, true},
		{"back facing", triangleMesh(a, c, b), false, false},
		{"back facing double sided", triangleMesh(a, c, b), true, true},
		{"front facing double sided", triangleMesh(a, b, c), true, true},
		{"degenerate", triangleMesh(a, b, a.Lerp(b, 0.5)), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := NewFramebuffer(64, 48)
			cam := testCamera(fb.Width, fb.Height)
			sc := scene.New()
			addBody(t, sc, scene.Body{Name: "tri", Mesh: tt.mesh, Shader: sunShader, DoubleSided: tt.doubleSided})

			stats := NewPipeline(nil).Render(fb, sc, cam, shading.DefaultUniforms())

			if drawn := covered(fb) > 0; drawn != tt.wantDrawn {
				t.Errorf("drawn = %v, want %v (stats %+v)", drawn, tt.wantDrawn, stats)
			}
			if stats.Triangles != 1 {
				t.Errorf("Triangles = %d, want 1", stats.Triangles)
			}
			if !tt.wantDrawn && stats.TrianglesCulled != 1 {
				t.Errorf("TrianglesCulled = %d, want 1", stats.TrianglesCulled)
			}
		})
	}
}

func TestDepthOrderIndependence(t *testing.T) {
	near := scene.Body{
		Name:   "near",
		Mesh:   triangleMesh(math3d.V3(-2, -2, 1), math3d.V3(2, -2, 1), math3d.V3(0, 2, 1)),
		Shader: sunShader,
	}
	far := scene.Body{
		Name:   "far",
		Mesh:   triangleMesh(math3d.V3(-3, -1, -1), math3d.V3(3, -1, -1), math3d.V3(0, 3, -1)),
		Shader: moonShader,
	}

	render := func(bodies ...scene.Body) *Framebuffer {
		fb := NewFramebuffer(80, 60)
		sc := scene.New()
		for _, b := range bodies {
			addBody(t, sc, b)
		}
		u := shading.DefaultUniforms()
		u.LightPos = math3d.V3(0, 0, 20)
		NewPipeline(nil).Render(fb, sc, testCamera(fb.Width, fb.Height), u)
		return fb
	}

	nearFirst := render(near, far)
	farFirst := render(far, near)
	nearOnly := render(near)

	if !slices.Equal(nearFirst.Pixels, farFirst.Pixels) {
		t.Error("color differs with submission order")
	}
	if !slices.Equal(nearFirst.Depth, farFirst.Depth) {
		t.Error("depth differs with submission order")
	}

	// Where the near triangle covers, its shading wins.
	cx, cy := 40, 30
	if got, want := nearFirst.GetPixel(cx, cy), nearOnly.GetPixel(cx, cy); got != want {
		t.Errorf("shared pixel = %v, want near triangle's %v", got, want)
	}
	if d := nearFirst.DepthAt(cx, cy); math.Abs(d-4) > 1e-6 {
		t.Errorf("shared pixel depth = %v, want 4", d)
	}
}

func TestDepthRange(t *testing.T) {
	fb := NewFramebuffer(64, 64)
	cam := testCamera(fb.Width, fb.Height)
	cam.SetClipPlanes(0.5, 50)
	sc := scene.New()
	addBody(t, sc, scene.Body{Name: "s", Mesh: sphere, Shader: moonShader, Scale: math3d.V3(2, 2, 2)})

	NewPipeline(nil).Render(fb, sc, cam, shading.DefaultUniforms())

	for i, d := range fb.Depth {
		if math.IsInf(d, 1) {
			continue
		}
		if d < cam.Near || d > cam.Far {
			t.Fatalf("depth[%d] = %v outside [%v, %v]", i, d, cam.Near, cam.Far)
		}
	}
	// The nearest point of the sphere is 3 units away.
	if d := fb.DepthAt(32, 32); math.Abs(d-3) > 0.05 {
		t.Errorf("centre depth = %v, want ~3", d)
	}
}

func TestNearPlaneClipping(t *testing.T) {
	fb := NewFramebuffer(80, 60)
	cam := NewCamera()
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))

	// A floor under the eye that runs from far in front to behind it.
	floor := triangleMesh(math3d.V3(-50, -1, 50), math3d.V3(50, -1, 50), math3d.V3(0, -1, -50))
	sc := scene.New()
	addBody(t, sc, scene.Body{Name: "floor", Mesh: floor, Shader: moonShader})

	stats := NewPipeline(nil).Render(fb, sc, cam, shading.DefaultUniforms())

	if stats.TrianglesClipped != 1 {
		t.Errorf("TrianglesClipped = %d, want 1", stats.TrianglesClipped)
	}
	for i, d := range fb.Depth {
		if !math.IsInf(d, 1) && (d < cam.Near || math.IsNaN(d)) {
			t.Fatalf("depth[%d] = %v is in front of the near plane", i, d)
		}
	}
	// Looking 30 degrees down the bottom row meets the floor about
	// 1/tan(30°) ahead.
	if d := fb.DepthAt(fb.Width/2, fb.Height-1); math.IsInf(d, 1) || math.Abs(d-math.Sqrt(3)) > 0.1 {
		t.Errorf("bottom centre depth = %v, want ~%v", d, math.Sqrt(3))
	}
	if d := fb.DepthAt(fb.Width/2, 0); !math.IsInf(d, 1) {
		t.Errorf("top centre depth = %v, want empty above the horizon", d)
	}
}

func TestBodyCulling(t *testing.T) {
	fb := NewFramebuffer(32, 32)
	cam := testCamera(fb.Width, fb.Height)
	sc := scene.New()
	addBody(t, sc, scene.Body{Name: "visible", Mesh: sphere, Shader: moonShader})
	addBody(t, sc, scene.Body{Name: "behind", Mesh: sphere, Shader: moonShader,
		Orbit: scene.Orbit{Parent: scene.NoParent, Center: math3d.V3(0, 0, 20)}})

	stats := NewPipeline(nil).Render(fb, sc, cam, shading.DefaultUniforms())

	if stats.Bodies != 2 || stats.BodiesCulled != 1 {
		t.Errorf("stats = %+v, want 2 bodies with 1 culled", stats)
	}
	if stats.Triangles != sphere.TriangleCount() {
		t.Errorf("Triangles = %d, want %d", stats.Triangles, sphere.TriangleCount())
	}
}

// solarScene is a sun at the origin and a planet on a circular orbit.
func solarScene(t testing.TB, radius, speed, at float64) (*scene.Scene, int) {
	t.Helper()
	sc := scene.New()
	sc.SetSky(shading.Starfield(9).MustCompile())
	sun := addBody(t, sc, scene.Body{Name: "sun", Mesh: sphere, Shader: sunShader, Scale: math3d.V3(4, 4, 4)})
	planet := addBody(t, sc, scene.Body{
		Name:   "planet",
		Mesh:   sphere,
		Shader: shading.Rocky(2, []string{"#553322", "#aa8866"}).MustCompile(),
		Orbit:  scene.Orbit{Parent: sun, Radius: radius, Speed: speed},
		Scale:  math3d.V3(2.5, 2.5, 2.5),
	})
	if _, err := sc.AddOrbitPath(planet, scene.DefaultPathSegments, math3d.V3(0.5, 0.5, 0.5), 0.5); err != nil {
		t.Fatal(err)
	}
	sc.Advance(at)
	return sc, planet
}

func TestPlanetCentroidMatchesProjection(t *testing.T) {
	const radius, speed, at = 20.0, 0.5, 1.3
	sc, planet := solarScene(t, radius, speed, at)

	fb := NewFramebuffer(160, 120)
	cam := NewCamera()
	cam.SetAspectRatio(float64(fb.Width) / float64(fb.Height))
	cam.SetPosition(math3d.V3(0, 30, 60))
	cam.LookAt(math3d.Vec3{})

	NewPipeline(nil).Render(fb, sc, cam, shading.DefaultUniforms())

	theta := speed * at
	want := math3d.V3(radius*math.Cos(theta), 0, radius*math.Sin(theta))
	if got := sc.Body(planet).Position(); !got.ApproxEqual(want, 1e-9) {
		t.Fatalf("planet at %v, want %v", got, want)
	}
	px, py, depth, ok := cam.Project(want, fb.Width, fb.Height)
	if !ok {
		t.Fatal("planet is behind the camera")
	}

	// Planet pixels lie within its radius of the centre's depth; the sun
	// sits several units further back.
	var sx, sy, n float64
	for y := range fb.Height {
		for x := range fb.Width {
			if d := fb.DepthAt(x, y); math.Abs(d-depth) < 3 {
				sx += float64(x) + 0.5
				sy += float64(y) + 0.5
				n++
			}
		}
	}
	if n == 0 {
		t.Fatal("planet not drawn")
	}
	cx, cy := sx/n, sy/n
	if math.Abs(cx-px) > 1 || math.Abs(cy-py) > 1 {
		t.Errorf("planet centroid (%.2f, %.2f), projected centre (%.2f, %.2f)", cx, cy, px, py)
	}
}

func TestRenderIdempotent(t *testing.T) {
	sc, _ := solarScene(t, 25, 0.3, 4)
	cam := NewCamera()
	cam.SetPosition(math3d.V3(10, 20, 70))
	cam.LookAt(math3d.Vec3{})

	p := NewPipeline(nil)
	a := NewFramebuffer(120, 80)
	b := NewFramebuffer(120, 80)
	s1 := p.Render(a, sc, cam, shading.DefaultUniforms())
	s2 := p.Render(b, sc, cam, shading.DefaultUniforms())

	if !slices.Equal(a.Pixels, b.Pixels) || !slices.Equal(a.Depth, b.Depth) {
		t.Error("two renders of a frozen scene differ")
	}
	if s1 != s2 {
		t.Errorf("stats differ: %+v vs %+v", s1, s2)
	}
	if s1.PathSegments == 0 {
		t.Error("orbit path was not drawn")
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	sc, _ := solarScene(t, 18, 0.7, 2.2)
	cam := NewCamera()
	cam.SetPosition(math3d.V3(-5, 12, 40))
	cam.LookAt(math3d.V3(0, 0, 0))
	u := shading.DefaultUniforms()
	u.Time = 2.2

	serial := NewFramebuffer(97, 61)
	NewPipeline(nil).Render(serial, sc, cam, u)

	for _, workers := range []int{2, 3, 8, 200} {
		p := NewPipeline(nil)
		p.Workers = workers
		fb := NewFramebuffer(97, 61)
		p.Render(fb, sc, cam, u)
		if !slices.Equal(serial.Pixels, fb.Pixels) || !slices.Equal(serial.Depth, fb.Depth) {
			t.Errorf("workers=%d: frame differs from serial render", workers)
		}
	}
}

func TestOrbitPathBlending(t *testing.T) {
	cam := NewCamera()
	cam.SetAspectRatio(1)
	cam.SetPosition(math3d.V3(0, 40, 0.001))
	cam.LookAt(math3d.Vec3{})

	// ringScene has a circular path of radius 10 around the origin and,
	// optionally, an opaque ball of radius 15 swallowing it.
	ringScene := func(width int, ball bool) (*scene.Scene, *scene.OrbitPath) {
		sc := scene.New()
		hub := addBody(t, sc, scene.Body{Name: "hub", Mesh: sphere, Shader: moonShader,
			Scale: math3d.V3(15, 15, 15), Hidden: !ball})
		ring := addBody(t, sc, scene.Body{Name: "ring", Mesh: sphere, Shader: moonShader, Hidden: true,
			Orbit: scene.Orbit{Parent: hub, Radius: 10, Speed: 1}})
		path, err := sc.AddOrbitPath(ring, 64, math3d.V3(1, 1, 1), 0.5)
		if err != nil {
			t.Fatal(err)
		}
		path.Width = width
		return sc, path
	}

	lit := func(fb *Framebuffer) int {
		n := 0
		for _, c := range fb.Pixels {
			if c.R != 0 {
				n++
			}
		}
		return n
	}

	p := NewPipeline(nil)
	thin := NewFramebuffer(100, 100)
	sc, _ := ringScene(1, false)
	stats := p.Render(thin, sc, cam, shading.DefaultUniforms())
	if stats.PathSegments != 64 {
		t.Errorf("PathSegments = %d, want 64", stats.PathSegments)
	}
	for i, c := range thin.Pixels {
		// Half of white over black, blended exactly once.
		if c.R != 0 && c.R != 128 {
			t.Fatalf("pixel %d = %v, want a single 50%% blend", i, c)
		}
		if !math.IsInf(thin.Depth[i], 1) {
			t.Fatalf("orbit path wrote depth at %d", i)
		}
	}
	if lit(thin) == 0 {
		t.Fatal("no path pixels drawn")
	}

	thick := NewFramebuffer(100, 100)
	sc, _ = ringScene(3, false)
	p.Render(thick, sc, cam, shading.DefaultUniforms())
	if lit(thick) <= lit(thin) {
		t.Errorf("width 3 lit %d pixels, width 1 lit %d", lit(thick), lit(thin))
	}

	// Inside an opaque body the path is hidden entirely.
	hidden := NewFramebuffer(100, 100)
	sc, path := ringScene(1, true)
	p.Render(hidden, sc, cam, shading.DefaultUniforms())
	plain := NewFramebuffer(100, 100)
	path.Hidden = true
	p.Render(plain, sc, cam, shading.DefaultUniforms())
	if !slices.Equal(hidden.Pixels, plain.Pixels) {
		t.Error("orbit path inside an opaque body should be hidden")
	}
}

func TestWireframe(t *testing.T) {
	fb := NewFramebuffer(64, 48)
	cam := testCamera(fb.Width, fb.Height)
	sc := scene.New()
	// Back facing: wireframe mode does not cull.
	addBody(t, sc, scene.Body{
		Name:   "tri",
		Mesh:   triangleMesh(math3d.V3(-1, -1, 0), math3d.V3(0, 1, 0), math3d.V3(1, -1, 0)),
		Shader: sunShader,
	})

	p := NewPipeline(nil)
	p.Wireframe = true
	stats := p.Render(fb, sc, cam, shading.DefaultUniforms())
	if stats.WireEdges != 3 {
		t.Errorf("WireEdges = %d, want 3", stats.WireEdges)
	}
	if stats.Fragments != 0 {
		t.Errorf("Fragments = %d, want 0", stats.Fragments)
	}
	if n := covered(fb); n != 0 {
		t.Errorf("%d depth writes in wireframe mode", n)
	}
	lit := 0
	for _, c := range fb.Pixels {
		if c == WireColor {
			lit++
		}
	}
	if lit == 0 {
		t.Error("no wire pixels drawn")
	}

	// A quad's diagonal is shared by both triangles and drawn once.
	quad := models.NewMesh("quad")
	for _, v := range []math3d.Vec3{math3d.V3(-1, -1, 0), math3d.V3(1, -1, 0), math3d.V3(1, 1, 0), math3d.V3(-1, 1, 0)} {
		quad.Vertices = append(quad.Vertices, models.MeshVertex{Position: v, Normal: math3d.V3(0, 0, 1)})
	}
	quad.Faces = []models.Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}
	quad.CalculateBounds()

	sc = scene.New()
	addBody(t, sc, scene.Body{Name: "quad", Mesh: quad, Shader: moonShader})
	stats = p.Render(fb, sc, cam, shading.DefaultUniforms())
	if stats.WireEdges != 5 {
		t.Errorf("quad WireEdges = %d, want 5", stats.WireEdges)
	}
}

func TestFramebufferClear(t *testing.T) {
	fb := NewFramebuffer(4, 3)
	fb.Pixels[5] = color.RGBA{1, 2, 3, 255}
	fb.Depth[5] = 2
	grey := color.RGBA{9, 9, 9, 255}
	fb.Clear(grey)
	for i := range fb.Pixels {
		if fb.Pixels[i] != grey || !math.IsInf(fb.Depth[i], 1) {
			t.Fatalf("entry %d = %v / %v after Clear", i, fb.Pixels[i], fb.Depth[i])
		}
	}
	fb.Resize(8, 2)
	if len(fb.Pixels) != 16 || len(fb.Depth) != 16 {
		t.Errorf("Resize gave %d pixels, %d depths", len(fb.Pixels), len(fb.Depth))
	}
	if img := fb.Scaled(3); img.Bounds().Dx() != 24 || img.Bounds().Dy() != 6 {
		t.Errorf("Scaled(3) bounds = %v", img.Bounds())
	}
}

func BenchmarkRender(b *testing.B) {
	sc, _ := solarScene(b, 20, 0.5, 1)
	cam := NewCamera()
	cam.SetPosition(math3d.V3(0, 30, 60))
	cam.LookAt(math3d.Vec3{})
	u := shading.DefaultUniforms()

	for _, workers := range []int{1, 4} {
		b.Run(fmt.Sprintf("workers=%d", workers), func(b *testing.B) {
			p := NewPipeline(nil)
			p.Workers = workers
			fb := NewFramebuffer(160, 90)
			for b.Loop() {
				p.Render(fb, sc, cam, u)
			}
		})
	}
}
