package math3d

// Vec2 is a 2D vector, used for screen positions and texture coordinates.
type Vec2 struct {
	X, Y float64
}

// V2 creates a new Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{x, y}
}

// Add returns a + b.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns a - b.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale multiplies both components by s.
func (a Vec2) Scale(s float64) Vec2 {
	return Vec2{a.X * s, a.Y * s}
}

// Cross returns the z component of the 3D cross product of a and b.
func (a Vec2) Cross(b Vec2) float64 {
	return a.X*b.Y - a.Y*b.X
}

// SignedArea returns twice the signed area of triangle abc. In screen
// space (y down) a positive value means the vertices wind clockwise.
func SignedArea(a, b, c Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// Barycentric returns the weights of p relative to triangle abc. The
// weights sum to one; all three are non-negative iff p lies inside.
// A degenerate triangle yields (-1, -1, -1).
func Barycentric(a, b, c, p Vec2) Vec3 {
	area := SignedArea(a, b, c)
	if area == 0 {
		return Vec3{-1, -1, -1}
	}
	inv := 1 / area
	w0 := SignedArea(b, c, p) * inv
	w1 := SignedArea(c, a, p) * inv
	return Vec3{w0, w1, 1 - w0 - w1}
}

// Interpolate3 weights three attributes by barycentric weights w.
func Interpolate3(a, b, c Vec3, w Vec3) Vec3 {
	return Vec3{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
		a.Z*w.X + b.Z*w.Y + c.Z*w.Z,
	}
}

// Interpolate2 weights three 2D attributes by barycentric weights w.
func Interpolate2(a, b, c Vec2, w Vec3) Vec2 {
	return Vec2{
		a.X*w.X + b.X*w.Y + c.X*w.Z,
		a.Y*w.X + b.Y*w.Y + c.Y*w.Z,
	}
}

// InterpolateScalar weights three scalars by barycentric weights w.
func InterpolateScalar(a, b, c float64, w Vec3) float64 {
	return a*w.X + b*w.Y + c*w.Z
}
