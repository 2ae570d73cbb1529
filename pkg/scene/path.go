package scene

import (
	"fmt"
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
)

// DefaultPathSegments is the number of segments in a sampled orbit path.
const DefaultPathSegments = 150

// OrbitPath is the closed polyline of a body's orbit. Points are stored
// relative to the orbit centre; Center follows the parent each Advance,
// so a moon's path travels with its planet without being resampled.
type OrbitPath struct {
	Body   int
	Points []math3d.Vec3
	Center math3d.Vec3
	Radius float64
	Color  math3d.Vec3
	Alpha  float64
	// Width is the line thickness in pixels.
	Width  int
	Hidden bool
}

// Segments returns the number of line segments, equal to len(Points)
// because the path is closed.
func (p *OrbitPath) Segments() int {
	return len(p.Points)
}

// Segment returns the world-space endpoints of segment i.
func (p *OrbitPath) Segment(i int) (math3d.Vec3, math3d.Vec3) {
	a := p.Points[i]
	b := p.Points[(i+1)%len(p.Points)]
	return p.Center.Add(a), p.Center.Add(b)
}

// AddOrbitPath samples the orbit of body into segments points. Fewer
// than three segments are raised to three.
func (s *Scene) AddOrbitPath(body, segments int, color math3d.Vec3, alpha float64) (*OrbitPath, error) {
	if body < 0 || body >= len(s.bodies) {
		return nil, fmt.Errorf("orbit path for %d: %w", body, ErrUnknownBody)
	}
	segments = max(segments, 3)

	o := s.bodies[body].Orbit
	pts := make([]math3d.Vec3, segments)
	for k := range segments {
		pts[k] = o.offsetAt(2 * math.Pi * float64(k) / float64(segments))
	}

	p := &OrbitPath{
		Body:   body,
		Points: pts,
		Center: s.orbitCenter(o),
		Radius: o.Radius,
		Color:  color,
		Alpha:  math3d.Clamp(alpha, 0, 1),
		Width:  1,
	}
	s.paths = append(s.paths, p)
	return p, nil
}

// Paths returns the orbit paths in insertion order.
func (s *Scene) Paths() []*OrbitPath {
	return s.paths
}
