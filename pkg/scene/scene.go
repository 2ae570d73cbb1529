package scene

import (
	"errors"
	"fmt"
	"iter"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/shading"
)

var (
	// ErrInvalidParent is returned when an orbit names a body that does
	// not exist, or the body itself.
	ErrInvalidParent = errors.New("scene: invalid orbit parent")
	// ErrOrbitCycle is returned when an orbit would make a body circle one
	// of its own satellites.
	ErrOrbitCycle = errors.New("scene: orbit cycle")
	// ErrNoShader is returned for a visible body without a shader.
	ErrNoShader = errors.New("scene: body has no shader")
	// ErrUnknownBody is returned for an out-of-range body index.
	ErrUnknownBody = errors.New("scene: unknown body")
)

// Scene is the registry of bodies and orbit paths. Orbits form a strict
// tree over body indices; bodies are evaluated parents first.
type Scene struct {
	bodies []*Body
	paths  []*OrbitPath
	sky    *shading.Shader
	order  []int
	time   float64
}

// New returns an empty scene.
func New() *Scene {
	return &Scene{}
}

// SetSky installs the background shader, drawn before every body.
func (s *Scene) SetSky(sh *shading.Shader) {
	s.sky = sh
}

// Sky returns the background shader, or nil.
func (s *Scene) Sky() *shading.Shader {
	return s.sky
}

// AddBody registers b and returns its index. A parent must already be
// registered, which keeps the orbit graph a tree.
func (s *Scene) AddBody(b Body) (int, error) {
	idx := len(s.bodies)
	p := b.Orbit.Parent
	if p != NoParent && (p < 0 || p >= idx) {
		return -1, fmt.Errorf("body %q parent %d: %w", b.Name, p, ErrInvalidParent)
	}
	if b.Shader == nil {
		return -1, fmt.Errorf("body %q: %w", b.Name, ErrNoShader)
	}
	if b.Scale == (math3d.Vec3{}) {
		b.Scale = math3d.V3(1, 1, 1)
	}

	body := &b
	t := Transform{
		Translation: b.Orbit.Center,
		Rotation:    math3d.V3(0, 0, b.Spin.Tilt),
		Spin:        b.Spin.Phase,
		Scale:       b.Scale,
	}
	if err := body.setTransform(t); err != nil {
		return -1, fmt.Errorf("body %q: %w", b.Name, err)
	}

	s.bodies = append(s.bodies, body)
	s.order = append(s.order, idx)
	s.place(idx, s.time)
	return idx, nil
}

// Reparent moves body i into orbit around parent. It refuses to make a
// body orbit itself or any of its descendants.
func (s *Scene) Reparent(i, parent int) error {
	if i < 0 || i >= len(s.bodies) {
		return fmt.Errorf("reparent %d: %w", i, ErrUnknownBody)
	}
	if parent == NoParent {
		s.bodies[i].Orbit.Parent = NoParent
		s.rebuildOrder()
		return nil
	}
	if parent < 0 || parent >= len(s.bodies) || parent == i {
		return fmt.Errorf("reparent %q to %d: %w", s.bodies[i].Name, parent, ErrInvalidParent)
	}
	for a := parent; a != NoParent; a = s.bodies[a].Orbit.Parent {
		if a == i {
			return fmt.Errorf("reparent %q to %q: %w", s.bodies[i].Name, s.bodies[parent].Name, ErrOrbitCycle)
		}
	}
	s.bodies[i].Orbit.Parent = parent
	s.rebuildOrder()
	return nil
}

// rebuildOrder lists bodies so that every parent precedes its children.
func (s *Scene) rebuildOrder() {
	children := make([][]int, len(s.bodies))
	var roots []int
	for i, b := range s.bodies {
		if b.Orbit.Parent == NoParent {
			roots = append(roots, i)
		} else {
			children[b.Orbit.Parent] = append(children[b.Orbit.Parent], i)
		}
	}

	s.order = s.order[:0]
	stack := make([]int, 0, len(s.bodies))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		s.order = append(s.order, n)
		for i := len(children[n]) - 1; i >= 0; i-- {
			stack = append(stack, children[n][i])
		}
	}
}

// Len returns the number of bodies.
func (s *Scene) Len() int {
	return len(s.bodies)
}

// Body returns body i.
func (s *Scene) Body(i int) *Body {
	return s.bodies[i]
}

// Find returns the index of the first body called name.
func (s *Scene) Find(name string) (int, bool) {
	for i, b := range s.bodies {
		if b.Name == name {
			return i, true
		}
	}
	return -1, false
}

// Time returns the simulation time of the last Advance.
func (s *Scene) Time() float64 {
	return s.time
}

// Advance places every body at absolute simulation time t. The result
// depends only on t, so orbits are exactly periodic.
func (s *Scene) Advance(t float64) {
	s.time = t
	for _, i := range s.order {
		s.place(i, t)
	}
	for _, p := range s.paths {
		p.Center = s.orbitCenter(s.bodies[p.Body].Orbit)
	}
}

func (s *Scene) place(i int, t float64) {
	b := s.bodies[i]
	if b.Manual {
		return
	}
	tr := b.transform
	tr.Translation = s.orbitCenter(b.Orbit).Add(b.Orbit.Offset(t))
	tr.Spin = b.Spin.Phase + b.Spin.Rate*t
	// Scale was validated when the body was added.
	_ = b.setTransform(tr)
}

func (s *Scene) orbitCenter(o Orbit) math3d.Vec3 {
	if o.Parent == NoParent {
		return o.Center
	}
	return s.bodies[o.Parent].Position()
}

// OrbitCenter returns the current centre of body i's orbit.
func (s *Scene) OrbitCenter(i int) math3d.Vec3 {
	return s.orbitCenter(s.bodies[i].Orbit)
}

// Place sets the transform of a manual body directly.
func (s *Scene) Place(i int, t Transform) error {
	if i < 0 || i >= len(s.bodies) {
		return fmt.Errorf("place %d: %w", i, ErrUnknownBody)
	}
	return s.bodies[i].setTransform(t)
}

// ItemKind says what a traversal item holds.
type ItemKind int

const (
	ItemSky ItemKind = iota
	ItemBody
	ItemPath
)

// Item is one step of a traversal.
type Item struct {
	Kind  ItemKind
	Sky   *shading.Shader
	Body  *Body
	Index int
	Path  *OrbitPath
}

// Items yields the draw order: the sky, then visible bodies, then
// visible orbit paths. Bodies are opaque and depth tested, so their
// relative order does not matter; paths blend and go last.
func (s *Scene) Items() iter.Seq[Item] {
	return func(yield func(Item) bool) {
		if s.sky != nil {
			if !yield(Item{Kind: ItemSky, Sky: s.sky, Index: -1}) {
				return
			}
		}
		for i, b := range s.bodies {
			if b.Hidden {
				continue
			}
			if !yield(Item{Kind: ItemBody, Body: b, Index: i}) {
				return
			}
		}
		for _, p := range s.paths {
			if p.Hidden {
				continue
			}
			if !yield(Item{Kind: ItemPath, Path: p, Index: p.Body}) {
				return
			}
		}
	}
}
