package shading

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/taigrr/orrery/pkg/math3d"
)

// MaxSkyWidth bounds the resolution a sky image is resampled to on load.
// The sky is sampled once per pixel per frame, so larger images only
// cost memory.
const MaxSkyWidth = 2048

// SkyTexture is an equirectangular panorama sampled by view direction.
// Longitude wraps horizontally; latitude clamps at the poles.
type SkyTexture struct {
	Width  int
	Height int
	Pixels []math3d.Vec3
}

// LoadSkyTexture decodes a PNG or JPEG panorama.
func LoadSkyTexture(path string) (*SkyTexture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open sky texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode sky texture: %w", err)
	}
	return SkyFromImage(img), nil
}

// SkyFromImage converts img, downsampling it first if it is wider than
// MaxSkyWidth.
func SkyFromImage(img image.Image) *SkyTexture {
	b := img.Bounds()
	if b.Dx() > MaxSkyWidth {
		h := max(1, b.Dy()*MaxSkyWidth/b.Dx())
		dst := image.NewRGBA(image.Rect(0, 0, MaxSkyWidth, h))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
		img, b = dst, dst.Bounds()
	}

	t := &SkyTexture{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pixels: make([]math3d.Vec3, b.Dx()*b.Dy()),
	}
	for y := range t.Height {
		for x := range t.Width {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			t.Pixels[y*t.Width+x] = math3d.V3(float64(r)/0xffff, float64(g)/0xffff, float64(bl)/0xffff)
		}
	}
	return t
}

// Sample returns the bilinearly filtered colour seen along unit dir.
func (t *SkyTexture) Sample(dir math3d.Vec3) math3d.Vec3 {
	if t.Width == 0 || t.Height == 0 {
		return math3d.Vec3{}
	}
	u := math.Atan2(dir.Z, dir.X)/(2*math.Pi) + 0.5
	v := math.Acos(math3d.Clamp(dir.Y, -1, 1)) / math.Pi

	fx := u*float64(t.Width) - 0.5
	fy := v*float64(t.Height) - 0.5
	x0 := int(math.Floor(fx))
	y0 := int(math.Floor(fy))
	tx := fx - float64(x0)
	ty := fy - float64(y0)

	c00 := t.at(x0, y0)
	c10 := t.at(x0+1, y0)
	c01 := t.at(x0, y0+1)
	c11 := t.at(x0+1, y0+1)
	return c00.Lerp(c10, tx).Lerp(c01.Lerp(c11, tx), ty)
}

func (t *SkyTexture) at(x, y int) math3d.Vec3 {
	x %= t.Width
	if x < 0 {
		x += t.Width
	}
	y = min(max(y, 0), t.Height-1)
	return t.Pixels[y*t.Width+x]
}
