package main

import (
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/input"
	"github.com/taigrr/orrery/pkg/orrery"
	"github.com/taigrr/orrery/pkg/render"
)

// windowKeys maps binding names to ebiten keys.
var windowKeys = map[string]ebiten.Key{
	"a": ebiten.KeyA, "b": ebiten.KeyB, "c": ebiten.KeyC, "d": ebiten.KeyD,
	"e": ebiten.KeyE, "f": ebiten.KeyF, "g": ebiten.KeyG, "h": ebiten.KeyH,
	"i": ebiten.KeyI, "j": ebiten.KeyJ, "k": ebiten.KeyK, "l": ebiten.KeyL,
	"m": ebiten.KeyM, "n": ebiten.KeyN, "o": ebiten.KeyO, "p": ebiten.KeyP,
	"q": ebiten.KeyQ, "r": ebiten.KeyR, "s": ebiten.KeyS, "t": ebiten.KeyT,
	"u": ebiten.KeyU, "v": ebiten.KeyV, "w": ebiten.KeyW, "x": ebiten.KeyX,
	"y": ebiten.KeyY, "z": ebiten.KeyZ,

	"left":   ebiten.KeyArrowLeft,
	"right":  ebiten.KeyArrowRight,
	"up":     ebiten.KeyArrowUp,
	"down":   ebiten.KeyArrowDown,
	"space":  ebiten.KeySpace,
	"enter":  ebiten.KeyEnter,
	"tab":    ebiten.KeyTab,
	"shift":  ebiten.KeyShift,
	"pgup":   ebiten.KeyPageUp,
	"pgdown": ebiten.KeyPageDown,
	"home":   ebiten.KeyHome,
	"end":    ebiten.KeyEnd,
	"esc":    ebiten.KeyEscape,
	"escape": ebiten.KeyEscape,
}

// windowGame drives the system from ebiten's fixed-rate update loop.
type windowGame struct {
	sys   *orrery.System
	keys  map[string]ebiten.Key
	bind  input.Bindings
	scale int
	dt    float64

	fb    *render.Framebuffer
	img   *image.RGBA
	fbImg *ebiten.Image
}

func runWindow(cfg *config.Config, sys *orrery.System, bindings input.Bindings, log *zap.Logger) error {
	keys := make(map[string]ebiten.Key)
	for name := range bindings {
		if k, ok := windowKeys[name]; ok {
			keys[name] = k
		} else {
			log.Warn("key has no window binding", zap.String("key", name))
		}
	}

	w := cfg.Window
	g := &windowGame{
		sys:   sys,
		keys:  keys,
		bind:  bindings,
		scale: w.Scale,
		dt:    1 / float64(cfg.FPS),
		fb:    render.NewFramebuffer(w.Width/w.Scale, w.Height/w.Scale),
	}
	ebiten.SetWindowTitle(w.Title)
	ebiten.SetWindowSize(w.Width, w.Height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(cfg.FPS)

	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (g *windowGame) Update() error {
	var pressed []string
	for name, k := range g.keys {
		if ebiten.IsKeyPressed(k) {
			pressed = append(pressed, name)
		}
	}
	g.sys.Step(g.bind.Resolve(pressed), g.dt)
	if g.sys.Exit() {
		return ebiten.Termination
	}
	return nil
}

func (g *windowGame) Draw(screen *ebiten.Image) {
	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	if g.fbImg == nil || g.fb.Width != w || g.fb.Height != h {
		g.fb.Resize(w, h)
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(g.fb.Width, g.fb.Height)
	}

	g.sys.Render(g.fb)
	g.img = g.fb.ToImage()
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

// Layout renders at the window size divided by the pixel scale; ebiten
// stretches the result to fill the window.
func (g *windowGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return max(outsideWidth/g.scale, 1), max(outsideHeight/g.scale, 1)
}
