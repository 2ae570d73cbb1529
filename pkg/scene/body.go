// Package scene owns the bodies of the orrery and advances their
// kinematic orbits and spins with simulation time.
package scene

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/models"
	"github.com/taigrr/orrery/pkg/shading"
)

// NoParent marks a body that orbits a fixed point rather than another body.
const NoParent = -1

// Orbit is a circular kinematic orbit. The angle at time t is
// Phase + Speed*t, the offset Radius*(cos θ, 0, sin θ) rotated about X
// by Inclination, and the centre is Parent's position, or Center when
// Parent is NoParent.
type Orbit struct {
	Parent      int
	Center      math3d.Vec3
	Radius      float64
	Speed       float64
	Phase       float64
	Inclination float64
}

// Period returns the time for one revolution, or +Inf for a static orbit.
func (o Orbit) Period() float64 {
	if o.Speed == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi / math.Abs(o.Speed)
}

// Offset returns the position relative to the orbit centre at time t.
func (o Orbit) Offset(t float64) math3d.Vec3 {
	return o.offsetAt(o.Phase + o.Speed*t)
}

func (o Orbit) offsetAt(theta float64) math3d.Vec3 {
	s, c := math.Sincos(theta)
	p := math3d.V3(o.Radius*c, 0, o.Radius*s)
	if o.Inclination == 0 {
		return p
	}
	si, ci := math.Sincos(o.Inclination)
	return math3d.V3(p.X, -si*p.Z, ci*p.Z)
}

// Spin turns a body about its own (tilted) Y axis.
type Spin struct {
	Rate  float64
	Phase float64
	// Tilt leans the spin axis over, about the body's Z axis.
	Tilt float64
}

// Transform is the affine placement of a body. Its matrix is
//
//	T · Ry(Rotation.Y) · Rx(Rotation.X) · Rz(Rotation.Z) · Ry(Spin) · S
//
// so heading is yaw, then pitch, then roll, and the spin turns the body
// about its own axis inside that frame.
type Transform struct {
	Translation math3d.Vec3
	Rotation    math3d.Vec3
	Spin        float64
	Scale       math3d.Vec3
}

// Matrix composes the model matrix.
func (t Transform) Matrix() math3d.Mat4 {
	return math3d.Translate(t.Translation).
		Mul(math3d.RotateY(t.Rotation.Y)).
		Mul(math3d.RotateX(t.Rotation.X)).
		Mul(math3d.RotateZ(t.Rotation.Z)).
		Mul(math3d.RotateY(t.Spin)).
		Mul(math3d.Scale(t.Scale))
}

// Body is one renderable object.
type Body struct {
	Name   string
	Mesh   *models.Mesh
	Shader *shading.Shader
	Orbit  Orbit
	Spin   Spin
	// Scale sizes the mesh; a zero vector means unit scale.
	Scale math3d.Vec3
	// DoubleSided disables backface culling.
	DoubleSided bool
	// Manual bodies are placed with Scene.Place instead of by Advance.
	Manual bool
	Hidden bool

	transform Transform
	model     math3d.Mat4
	normal    math3d.Mat3
	radius    float64
}

// Transform returns the current placement.
func (b *Body) Transform() Transform {
	return b.transform
}

// Position returns the world-space centre.
func (b *Body) Position() math3d.Vec3 {
	return b.transform.Translation
}

// Model returns the model matrix.
func (b *Body) Model() math3d.Mat4 {
	return b.model
}

// NormalMatrix returns the inverse-transpose of the model's upper 3x3.
func (b *Body) NormalMatrix() math3d.Mat3 {
	return b.normal
}

// BoundingRadius returns the world-space bounding sphere radius.
func (b *Body) BoundingRadius() float64 {
	return b.radius
}

func (b *Body) setTransform(t Transform) error {
	model := t.Matrix()
	nm, err := model.NormalMatrix()
	if err != nil {
		return err
	}
	b.transform = t
	b.model = model
	b.normal = nm

	s := math.Max(math.Abs(t.Scale.X), math.Max(math.Abs(t.Scale.Y), math.Abs(t.Scale.Z)))
	b.radius = s
	if b.Mesh != nil {
		b.radius = b.Mesh.BoundingRadius() * s
	}
	return nil
}
