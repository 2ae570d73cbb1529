package render

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// Camera is a free-flying eye described by a position and yaw/pitch
// Euler angles. The view matrix is the inverse of the camera's world
// transform T(Position) · Ry(Yaw) · Rx(Pitch).
type Camera struct {
	// Position in world space
	Position math3d.Vec3

	// Orientation (Euler angles in radians)
	Pitch float64 // Rotation around X axis (look up/down)
	Yaw   float64 // Rotation around Y axis (look left/right)

	// Projection parameters
	FOV         float64 // Vertical field of view in radians
	AspectRatio float64 // Width / Height
	Near        float64 // Near clipping plane
	Far         float64 // Far clipping plane

	// ZoomTarget is the FOV the lens is easing towards and zoomVel its
	// spring velocity.
	ZoomTarget float64
	zoomVel    float64

	viewMatrix math3d.Mat4
	projMatrix math3d.Mat4
	viewDirty  bool
	projDirty  bool
}

// NewCamera creates a camera at the origin looking down -Z with a 60
// degree field of view.
func NewCamera() *Camera {
	return &Camera{
		FOV:         math.Pi / 3,
		ZoomTarget:  math.Pi / 3,
		AspectRatio: 16.0 / 9.0,
		Near:        0.1,
		Far:         1000,
		viewMatrix:  math3d.Identity(),
		viewDirty:   true,
		projDirty:   true,
	}
}

// SetPosition moves the camera.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

// SetRotation sets pitch and yaw in radians.
func (c *Camera) SetRotation(pitch, yaw float64) {
	c.Pitch = pitch
	c.Yaw = yaw
	c.viewDirty = true
}

// SetFOV sets the field of view and the zoom target together.
func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.ZoomTarget = fov
	c.zoomVel = 0
	c.projDirty = true
}

// SetAspectRatio sets the aspect ratio.
func (c *Camera) SetAspectRatio(aspect float64) {
	if aspect <= 0 {
		return
	}
	c.AspectRatio = aspect
	c.projDirty = true
}

// SetClipPlanes sets the near and far clipping planes.
func (c *Camera) SetClipPlanes(near, far float64) {
	c.Near = near
	c.Far = far
	c.projDirty = true
}

// Forward returns the unit viewing direction.
func (c *Camera) Forward() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	sp, cp := math.Sincos(c.Pitch)
	return math3d.V3(-sy*cp, sp, -cy*cp)
}

// Right returns the unit right vector, always horizontal.
func (c *Camera) Right() math3d.Vec3 {
	sy, cy := math.Sincos(c.Yaw)
	return math3d.V3(cy, 0, -sy)
}

// Up returns the unit up vector of the camera frame.
func (c *Camera) Up() math3d.Vec3 {
	return c.Right().Cross(c.Forward())
}

// World returns the camera's world transform.
func (c *Camera) World() math3d.Mat4 {
	return math3d.Translate(c.Position).
		Mul(math3d.RotateY(c.Yaw)).
		Mul(math3d.RotateX(c.Pitch))
}

// ViewMatrix returns the inverse of World. Pitch is kept away from the
// poles by the controller, so the inverse always exists; should it not,
// the previous view is kept.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		if v, err := c.World().Inverse(); err == nil {
			c.viewMatrix = v
		}
		c.viewDirty = false
	}
	return c.viewMatrix
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.projMatrix = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
	}
	return c.projMatrix
}

// ViewProjectionMatrix returns projection · view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.ProjectionMatrix().Mul(c.ViewMatrix())
}

// Frustum returns the current view frustum.
func (c *Camera) Frustum() Frustum {
	return NewFrustumFromMatrix(c.ViewProjectionMatrix())
}

// MoveForward moves along the view direction.
func (c *Camera) MoveForward(distance float64) {
	c.SetPosition(c.Position.Add(c.Forward().Scale(distance)))
}

// MoveRight strafes along the right vector.
func (c *Camera) MoveRight(distance float64) {
	c.SetPosition(c.Position.Add(c.Right().Scale(distance)))
}

// MoveUp moves along the camera's up vector.
func (c *Camera) MoveUp(distance float64) {
	c.SetPosition(c.Position.Add(c.Up().Scale(distance)))
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	if dir == (math3d.Vec3{}) {
		return
	}
	c.SetRotation(math.Asin(math3d.Clamp(dir.Y, -1, 1)), math.Atan2(-dir.X, -dir.Z))
}

// Project maps a world point to pixel coordinates on a width x height
// buffer. depth is the view-space distance; ok is false for points
// behind the near plane.
func (c *Camera) Project(p math3d.Vec3, width, height int) (x, y, depth float64, ok bool) {
	clip := c.ViewProjectionMatrix().MulVec4(math3d.Point(p))
	if clip.W < c.Near {
		return 0, 0, 0, false
	}
	ndc := clip.PerspectiveDivide()
	x = (ndc.X + 1) * 0.5 * float64(width)
	y = (1 - ndc.Y) * 0.5 * float64(height)
	return x, y, clip.W, true
}
