package render

import (
	"github.com/taigrr/orrery/pkg/math3d"
)

// clipVertex is a vertex after the vertex stage: clip-space position
// plus the attributes the fragment stage interpolates.
type clipVertex struct {
	pos    math3d.Vec4
	local  math3d.Vec3
	world  math3d.Vec3
	normal math3d.Vec3
	uv     math3d.Vec2
}

func (a clipVertex) lerp(b clipVertex, t float64) clipVertex {
	return clipVertex{
		pos:    a.pos.Lerp(b.pos, t),
		local:  a.local.Lerp(b.local, t),
		world:  a.world.Lerp(b.world, t),
		normal: a.normal.Lerp(b.normal, t),
		uv:     a.uv.Add(b.uv.Sub(a.uv).Scale(t)),
	}
}

// Outcode bits, one per clip-space half space.
const (
	outLeft = 1 << iota
	outRight
	outBottom
	outTop
	outNear
	outFar
)

func outcode(p math3d.Vec4) int {
	var code int
	if p.X < -p.W {
		code |= outLeft
	}
	if p.X > p.W {
		code |= outRight
	}
	if p.Y < -p.W {
		code |= outBottom
	}
	if p.Y > p.W {
		code |= outTop
	}
	if p.Z < -p.W {
		code |= outNear
	}
	if p.Z > p.W {
		code |= outFar
	}
	return code
}

// nearDist and farDist are positive inside the depth range. In OpenGL
// clip space z+w = 0 is exactly view depth == near.
func nearDist(p math3d.Vec4) float64 { return p.Z + p.W }
func farDist(p math3d.Vec4) float64  { return p.W - p.Z }

// clipPolygon clips a convex polygon against one plane with
// Sutherland-Hodgman, appending the result to out.
func clipPolygon(in []clipVertex, dist func(math3d.Vec4) float64, out []clipVertex) []clipVertex {
	out = out[:0]
	if len(in) == 0 {
		return out
	}
	prev := in[len(in)-1]
	dPrev := dist(prev.pos)
	for _, cur := range in {
		dCur := dist(cur.pos)
		switch {
		case dCur >= 0 && dPrev >= 0:
			out = append(out, cur)
		case dCur >= 0:
			out = append(out, prev.lerp(cur, dPrev/(dPrev-dCur)), cur)
		case dPrev >= 0:
			out = append(out, prev.lerp(cur, dPrev/(dPrev-dCur)))
		}
		prev, dPrev = cur, dCur
	}
	return out
}

// clipDepth clips a triangle to the near and far planes. The result is
// a convex polygon of up to five vertices, empty when nothing survives.
// scratch must hold two buffers of capacity >= 5.
func clipDepth(tri [3]clipVertex, scratch *[2][]clipVertex) []clipVertex {
	a := append(scratch[0][:0], tri[:]...)
	b := clipPolygon(a, nearDist, scratch[1])
	a = clipPolygon(b, farDist, a)
	scratch[0], scratch[1] = a, b
	return a
}
