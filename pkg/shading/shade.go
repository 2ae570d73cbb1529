package shading

import (
	"math"

	"github.com/taigrr/orrery/pkg/math3d"
	"github.com/taigrr/orrery/pkg/noise"
)

const gradientStep = 1e-3

var sunDrift = math3d.V3(0.31, 0.17, -0.23)

// Shade computes the colour of one fragment. The result is RGB in [0, 1].
func (s *Shader) Shade(f Fragment, u Uniforms) math3d.Vec3 {
	var c math3d.Vec3
	switch s.mat.Kind {
	case KindSun:
		c = s.shadeSun(f, u)
	case KindGasGiant:
		c = s.shadeGasGiant(f, u)
	case KindRocky:
		c = s.shadeRocky(f, u)
	case KindCold:
		c = s.shadeCold(f, u)
	case KindMoon:
		c = s.shadeMoon(f, u)
	case KindStarfield:
		c = s.Sky(f.ViewDir)
	case KindShip:
		c = s.shadeShip(f, u)
	}
	return c.Clamp(0, 1)
}

// lambert returns the ambient plus diffuse factor from the light at
// u.LightPos, and the unit light direction.
func lambert(n, world math3d.Vec3, u Uniforms) (float64, math3d.Vec3) {
	l := u.LightPos.Sub(world).Normalize()
	diff := math.Max(0, n.Dot(l))
	return u.Ambient + (1-u.Ambient)*diff, l
}

// specular is a Blinn-Phong highlight.
func specular(n, l, v math3d.Vec3, power float64) float64 {
	h := l.Add(v).Normalize()
	return math.Pow(math.Max(0, n.Dot(h)), power)
}

// bump tilts n against the noise gradient at p. The object-space
// gradient transforms to world space like a normal does.
func bump(field *noise.Field, p, n math3d.Vec3, nm math3d.Mat3, strength float64) math3d.Vec3 {
	if strength == 0 {
		return n
	}
	g := nm.MulVec3(field.Gradient(p, gradientStep))
	tangential := g.Sub(n.Scale(g.Dot(n)))
	return n.Sub(tangential.Scale(strength * 0.1)).Normalize()
}

func (s *Shader) shadeSun(f Fragment, u Uniforms) math3d.Vec3 {
	t := u.Time * s.mat.Rate
	p := f.Local

	// Granulation: the boiling base pattern.
	g := s.surface.Animated(p, sunDrift, t)
	base := s.palette.At(0.55 + 0.45*g)

	// Spots: slow blotches that darken the surface, with bright faculae
	// around their rims.
	spot := s.detail.Animated(p, sunDrift.Negate(), t*0.5)
	dark := math3d.Smoothstep(0.35, 0.6, spot)
	rim := math3d.Smoothstep(0.15, 0.3, spot) * (1 - dark)
	c := base.Lerp(s.accent.At(0), dark*0.75)
	c = c.Lerp(s.accent.At(1), rim*0.35)

	pulse := 1 + 0.04*math.Sin(u.Time*1.3)
	return c.Scale(pulse)
}

func (s *Shader) shadeGasGiant(f Fragment, u Uniforms) math3d.Vec3 {
	p := f.Local
	drift := math3d.V3(u.Time*s.mat.Rate, 0, 0)

	warp := s.surface.At(p.Add(drift))
	lat := p.Y + warp*0.12
	band := 0.5 + 0.5*math.Sin(lat*s.mat.Bands*math.Pi)
	fine := s.detail.At(math3d.V3(p.X*0.5, p.Y*8, p.Z*0.5))
	c := s.palette.At(band*0.85 + fine*0.15)

	storm := math3d.Smoothstep(0.45, 0.7, s.detail.At(p.Scale(0.6).Add(drift.Scale(2))))
	c = c.Lerp(s.accent.At(band), storm*0.6)

	light, l := lambert(f.Normal, f.World, u)
	c = c.Scale(light)
	if s.mat.Specular > 0 {
		c = c.Add(math3d.V3(1, 1, 1).Scale(s.mat.Specular * specular(f.Normal, l, f.ViewDir, 24)))
	}
	return c
}

func (s *Shader) shadeRocky(f Fragment, u Uniforms) math3d.Vec3 {
	p := f.Local
	h := s.surface.Unit(p)
	d := s.detail.At(p)
	c := s.palette.At(h + d*0.08)

	n := bump(s.surface, p, f.Normal, f.NormalMatrix, s.mat.Bump)
	light, _ := lambert(n, f.World, u)
	return c.Scale(light)
}

func (s *Shader) shadeCold(f Fragment, u Uniforms) math3d.Vec3 {
	p := f.Local
	h := s.surface.Unit(p)
	c := s.palette.At(h)

	edge := s.mat.IceCap - 0.08*s.detail.At(p)
	ice := math3d.Smoothstep(edge, edge+0.06, math.Abs(p.Y))
	c = c.Lerp(s.accent.At(h), ice)

	n := bump(s.surface, p, f.Normal, f.NormalMatrix, s.mat.Bump*(1-ice))
	light, l := lambert(n, f.World, u)
	c = c.Scale(light)
	if s.mat.Specular > 0 {
		gloss := s.mat.Specular * (0.4 + 0.6*ice)
		c = c.Add(math3d.V3(1, 1, 1).Scale(gloss * specular(n, l, f.ViewDir, 32)))
	}
	return c
}

func (s *Shader) shadeMoon(f Fragment, u Uniforms) math3d.Vec3 {
	p := f.Local
	h := s.surface.Unit(p)
	crater := s.detail.Ridged(p)
	rim := math3d.Smoothstep(0.82, 0.97, crater)
	c := s.palette.At(h*0.8 + rim*0.2)
	c = c.Scale(1 - 0.25*math3d.Smoothstep(0.5, 0.8, 1-crater))

	n := bump(s.detail, p, f.Normal, f.NormalMatrix, s.mat.Bump)
	light, _ := lambert(n, f.World, u)
	return c.Scale(light)
}

func (s *Shader) shadeShip(f Fragment, u Uniforms) math3d.Vec3 {
	c := s.palette.At(0.5 + f.Local.Y)

	light, l := lambert(f.Normal, f.World, u)
	c = c.Scale(math.Max(light, 0.35))

	rim := 1 - math.Max(0, f.Normal.Dot(f.ViewDir))
	c = c.Add(s.accent.At(0).Scale(0.3 * rim * rim))
	if s.mat.Specular > 0 {
		c = c.Add(math3d.V3(1, 1, 1).Scale(s.mat.Specular * specular(f.Normal, l, f.ViewDir, 48)))
	}
	return c
}

// Sky returns the background colour seen along the unit direction dir.
// It ignores depth entirely: the sky sits behind everything.
func (s *Shader) Sky(dir math3d.Vec3) math3d.Vec3 {
	if s.sky != nil {
		return s.sky.Sample(dir)
	}
	base := s.palette.At(0.5 + 0.5*dir.Y)

	neb := s.detail.Unit(dir)
	base = base.Add(s.accent.At(neb).Scale(math3d.Smoothstep(0.55, 0.85, neb) * 0.5))

	scale := s.mat.StarScale
	if scale <= 0 {
		scale = 150
	}
	p := dir.Scale(scale)
	v, center := noise.Cell(s.mat.Surface.Seed, p)
	if v < 1-s.mat.Density {
		return base
	}
	// Brightness and tint vary per star with the cell value.
	k := (v - (1 - s.mat.Density)) / s.mat.Density
	glow := 1 - math3d.Smoothstep(0.35, 0.85, p.Distance(center))
	tint := math3d.V3(0.8, 0.85, 1).Lerp(math3d.V3(1, 0.9, 0.75), k)
	return base.Add(tint.Scale(glow * (0.45 + 0.55*k)))
}
