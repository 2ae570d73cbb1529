package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shading"
)

// rasterBand draws every queued triangle restricted to rows [y0, y1).
// Edge values are evaluated per row from the triangle's own bounding
// box, so a pixel gets the same arithmetic whichever band it falls in.
func (p *Pipeline) rasterBand(fb *Framebuffer, y0, y1 int, u shading.Uniforms) int {
	fragments := 0
	width := fb.Width
	for i := range p.tris {
		t := &p.tris[i]
		ys, ye := max(t.minY, y0), min(t.maxY, y1-1)
		if ys > ye {
			continue
		}
		call := p.draws[t.call]
		px := float64(t.minX) + 0.5

		for y := ys; y <= ye; y++ {
			py := float64(y) + 0.5
			w0 := t.a[0]*px + t.b[0]*py + t.c[0]
			w1 := t.a[1]*px + t.b[1]*py + t.c[1]
			w2 := t.a[2]*px + t.b[2]*py + t.c[2]
			row := y * width

			for x := t.minX; x <= t.maxX; x++ {
				if covers(w0, t.topLeft[0]) && covers(w1, t.topLeft[1]) && covers(w2, t.topLeft[2]) {
					if p.fragment(fb, t, call, row+x, w0, w1, w2, u) {
						fragments++
					}
				}
				w0 += t.a[0]
				w1 += t.a[1]
				w2 += t.a[2]
			}
		}
	}
	return fragments
}

// covers applies the top-left rule: pixels exactly on an edge belong to
// the triangle only if the edge is a top or left edge.
func covers(w float64, topLeft bool) bool {
	return w > 0 || (w == 0 && topLeft)
}

// fragment interpolates, depth tests and shades one covered pixel.
func (p *Pipeline) fragment(fb *Framebuffer, t *rasterTri, call drawCall, idx int, w0, w1, w2 float64, u shading.Uniforms) bool {
	bc := math3d.V3(w0*t.invArea, w1*t.invArea, w2*t.invArea)
	s := math3d.InterpolateScalar(t.invW[0], t.invW[1], t.invW[2], bc)
	if s <= 0 {
		return false
	}
	depth := 1 / s
	if !(depth < fb.Depth[idx]) {
		return false
	}

	// Undo the 1/w premultiplication.
	bc = bc.Scale(depth)
	world := math3d.Interpolate3(t.world[0], t.world[1], t.world[2], bc)
	frag := shading.Fragment{
		Local:        math3d.Interpolate3(t.local[0], t.local[1], t.local[2], bc),
		World:        world,
		Normal:       math3d.Interpolate3(t.normal[0], t.normal[1], t.normal[2], bc).Normalize(),
		UV:           math3d.Interpolate2(t.uv[0], t.uv[1], t.uv[2], bc),
		ViewDir:      u.CameraPos.Sub(world).Normalize(),
		NormalMatrix: call.normal,
		Depth:        depth,
	}
	fb.Pixels[idx] = shading.ToRGBA(call.shader.Shade(frag, u))
	fb.Depth[idx] = depth
	return true
}

// skyRays maps NDC x/y to the world-space point on the far plane, which
// is affine in x and y for a perspective projection.
type skyRays struct {
	eye    math3d.Vec3
	origin math3d.Vec3
	dx, dy math3d.Vec3
}

func newSkyRays(vp math3d.Mat4, eye math3d.Vec3) (skyRays, bool) {
	inv, err := vp.Inverse()
	if err != nil {
		return skyRays{}, false
	}
	o := inv.MulVec3(math3d.V3(0, 0, 1))
	return skyRays{
		eye:    eye,
		origin: o,
		dx:     inv.MulVec3(math3d.V3(1, 0, 1)).Sub(o),
		dy:     inv.MulVec3(math3d.V3(0, 1, 1)).Sub(o),
	}, true
}

// dir returns the unit view ray through the given NDC position.
func (r skyRays) dir(ndcX, ndcY float64) math3d.Vec3 {
	far := r.origin.Add(r.dx.Scale(ndcX)).Add(r.dy.Scale(ndcY))
	return far.Sub(r.eye).Normalize()
}

// drawSky shades rows [y0, y1) with the sky. Depth stays at +Inf.
func drawSky(fb *Framebuffer, sky *shading.Shader, rays skyRays, y0, y1 int) {
	w, h := float64(fb.Width), float64(fb.Height)
	for y := y0; y < y1; y++ {
		ndcY := 1 - (float64(y)+0.5)/h*2
		row := y * fb.Width
		for x := 0; x < fb.Width; x++ {
			ndcX := (float64(x)+0.5)/w*2 - 1
			fb.Pixels[row+x] = shading.ToRGBA(sky.Sky(rays.dir(ndcX, ndcY)))
		}
	}
}
