package render

import (
	"image/color"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/scene"
	"github.com/taigrr/orrery/pkg/shading"
)

// drawPath draws a closed orbit path. Lines are depth tested against
// the bodies but never write depth, and blend over what is already
// there. It returns the number of segments that reached the screen.
func drawPath(fb *Framebuffer, vp math3d.Mat4, path *scene.OrbitPath) int {
	c := shading.ToRGBA(path.Color)
	width := max(path.Width, 1)
	drawn := 0
	for i := range path.Segments() {
		a, b := path.Segment(i)
		if drawSegment(fb, vp, a, b, c, path.Alpha, width) {
			drawn++
		}
	}
	return drawn
}

// drawSegment clips a world-space segment to the depth range, projects
// it and steps it with Bresenham, interpolating 1/w linearly in screen
// space. The last pixel is left to the next segment of the path so
// joints are blended once.
func drawSegment(fb *Framebuffer, vp math3d.Mat4, a, b math3d.Vec3, c color.RGBA, alpha float64, width int) bool {
	ca := vp.MulVec4(math3d.Point(a))
	cb := vp.MulVec4(math3d.Point(b))
	var ok bool
	if ca, cb, ok = clipLine(ca, cb, nearDist); !ok {
		return false
	}
	if ca, cb, ok = clipLine(ca, cb, farDist); !ok {
		return false
	}

	w, h := float64(fb.Width), float64(fb.Height)
	project := func(p math3d.Vec4) (float64, float64, float64) {
		inv := 1 / p.W
		return (p.X*inv + 1) * 0.5 * w, (1 - p.Y*inv) * 0.5 * h, inv
	}
	x0, y0, iw0 := project(ca)
	x1, y1, iw1 := project(cb)

	// Keep the stepping bounded when an endpoint projects far off screen.
	t0, t1, ok := clipRect(x0, y0, x1, y1, -1, -1, w+1, h+1)
	if !ok {
		return false
	}
	// Unclipped endpoints are kept bit-exact so neighbouring segments
	// meet on the same pixel.
	ox, oy, ow := x0, y0, iw0
	if t0 > 0 {
		x0, y0, iw0 = ox+(x1-ox)*t0, oy+(y1-oy)*t0, math3d.Mix(ow, iw1, t0)
	}
	if t1 < 1 {
		x1, y1, iw1 = ox+(x1-ox)*t1, oy+(y1-oy)*t1, math3d.Mix(ow, iw1, t1)
	}

	ix0, iy0 := int(math.Floor(x0)), int(math.Floor(y0))
	ix1, iy1 := int(math.Floor(x1)), int(math.Floor(y1))

	dx := abs(ix1 - ix0)
	dy := -abs(iy1 - iy0)
	sx := 1
	if ix0 > ix1 {
		sx = -1
	}
	sy := 1
	if iy0 > iy1 {
		sy = -1
	}
	err := dx + dy
	steps := max(dx, -dy)
	horizontal := dx >= -dy

	for k := range steps {
		s := math3d.Mix(iw0, iw1, float64(k)/float64(steps))
		if s > 0 {
			stamp(fb, ix0, iy0, 1/s, c, alpha, width, horizontal)
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			ix0 += sx
		}
		if e2 <= dx {
			err += dx
			iy0 += sy
		}
	}
	return steps > 0
}

// stamp blends a line pixel, thickened across the minor axis.
func stamp(fb *Framebuffer, x, y int, depth float64, c color.RGBA, alpha float64, width int, horizontal bool) {
	for o := range width {
		off := o - width/2
		px, py := x, y+off
		if !horizontal {
			px, py = x+off, y
		}
		if px < 0 || px >= fb.Width || py < 0 || py >= fb.Height {
			continue
		}
		if depth < fb.Depth[py*fb.Width+px] {
			fb.Blend(px, py, c, alpha)
		}
	}
}

// clipLine clips a clip-space segment against one plane.
func clipLine(a, b math3d.Vec4, dist func(math3d.Vec4) float64) (math3d.Vec4, math3d.Vec4, bool) {
	da, db := dist(a), dist(b)
	switch {
	case da < 0 && db < 0:
		return a, b, false
	case da < 0:
		a = a.Lerp(b, da/(da-db))
	case db < 0:
		b = a.Lerp(b, da/(da-db))
	}
	return a, b, true
}

// clipRect is Liang-Barsky: it returns the parameter range of the
// segment inside the rectangle.
func clipRect(x0, y0, x1, y1, minX, minY, maxX, maxY float64) (float64, float64, bool) {
	t0, t1 := 0.0, 1.0
	dx, dy := x1-x0, y1-y0
	edges := [4][2]float64{
		{-dx, x0 - minX},
		{dx, maxX - x0},
		{-dy, y0 - minY},
		{dy, maxY - y0},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			t0 = max(t0, r)
		} else {
			t1 = min(t1, r)
		}
	}
	return t0, t1, t0 <= t1
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
