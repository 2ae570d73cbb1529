package shading

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/taigrr/orrery/pkg/math3d"
)

const gradientSize = 256

// Gradient is a palette of evenly spaced colour stops blended in CIE Lab
// space and baked into a lookup table, so sampling per fragment is a
// table read and a lerp.
type Gradient struct {
	lut [gradientSize]math3d.Vec3
}

// NewGradient builds a gradient from hex colour stops, low to high.
func NewGradient(stops ...string) (*Gradient, error) {
	if len(stops) == 0 {
		return nil, fmt.Errorf("gradient: no colour stops")
	}
	cols := make([]colorful.Color, len(stops))
	for i, s := range stops {
		c, err := colorful.Hex(s)
		if err != nil {
			return nil, fmt.Errorf("gradient stop %d: %w", i, err)
		}
		cols[i] = c
	}

	g := &Gradient{}
	for i := range gradientSize {
		t := float64(i) / (gradientSize - 1)
		g.lut[i] = toVec(blendStops(cols, t))
	}
	return g, nil
}

func blendStops(cols []colorful.Color, t float64) colorful.Color {
	if len(cols) == 1 {
		return cols[0]
	}
	pos := t * float64(len(cols)-1)
	i := int(math.Floor(pos))
	if i >= len(cols)-1 {
		return cols[len(cols)-1]
	}
	return cols[i].BlendLab(cols[i+1], pos-float64(i)).Clamped()
}

// At samples the gradient at t in [0, 1]; t is clamped.
func (g *Gradient) At(t float64) math3d.Vec3 {
	f := math3d.Clamp(t, 0, 1) * (gradientSize - 1)
	i := int(f)
	if i >= gradientSize-1 {
		return g.lut[gradientSize-1]
	}
	return g.lut[i].Lerp(g.lut[i+1], f-float64(i))
}

func toVec(c colorful.Color) math3d.Vec3 {
	return math3d.V3(c.R, c.G, c.B)
}

// Hex parses a single hex colour into an RGB vector.
func Hex(s string) (math3d.Vec3, error) {
	c, err := colorful.Hex(s)
	if err != nil {
		return math3d.Vec3{}, err
	}
	return toVec(c), nil
}

// ToRGBA converts an RGB vector in [0, 1] to an opaque 8-bit colour.
func ToRGBA(c math3d.Vec3) color.RGBA {
	cc := colorful.Color{R: c.X, G: c.Y, B: c.Z}.Clamped()
	r, g, b := cc.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// FromRGBA converts an 8-bit colour to an RGB vector.
func FromRGBA(c color.RGBA) math3d.Vec3 {
	return math3d.V3(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255)
}
