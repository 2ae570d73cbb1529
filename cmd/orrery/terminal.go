package main

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"go.uber.org/zap"

	"github.com/taigrr/orrery/internal/config"
	"github.com/taigrr/orrery/pkg/input"
	"github.com/taigrr/orrery/pkg/orrery"
	"github.com/taigrr/orrery/pkg/render"
)

// Most terminals only report key presses. A key counts as held until
// its autorepeat stops: the first press waits out the repeat delay, later
// repeats only a short gap.
const (
	firstHold  = 550 * time.Millisecond
	repeatHold = 120 * time.Millisecond
	maxFrameDt = 0.1
)

type keyState struct {
	last      time.Time
	repeating bool
}

// heldKeys turns press, repeat and release events into the set of keys
// held at a given instant. It is shared by the event and render
// goroutines.
type heldKeys struct {
	mu   sync.Mutex
	keys map[string]keyState
}

func newHeldKeys() *heldKeys {
	return &heldKeys{keys: make(map[string]keyState)}
}

func (h *heldKeys) press(name string, now time.Time) {
	h.mu.Lock()
	defer h.mu.Unlock()
	st, ok := h.keys[name]
	h.keys[name] = keyState{last: now, repeating: ok && now.Sub(st.last) <= firstHold}
}

func (h *heldKeys) release(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.keys, name)
}

// held returns the names held at now, sorted, and forgets the rest.
func (h *heldKeys) held(now time.Time) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	names := make([]string, 0, len(h.keys))
	for name, st := range h.keys {
		window := firstHold
		if st.repeating {
			window = repeatHold
		}
		if now.Sub(st.last) > window {
			delete(h.keys, name)
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// bindingNames lists the bound key names, longest first, so "escape"
// is tried before "esc".
func bindingNames(b input.Bindings) []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		return cmp.Or(cmp.Compare(len(b), len(a)), cmp.Compare(a, b))
	})
	return names
}

func runTerminal(ctx context.Context, cfg *config.Config, sys *orrery.System, bindings input.Bindings, log *zap.Logger) error {
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		_ = term.Shutdown(context.Background())
	}
	defer cleanup()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fb := render.NewFramebuffer(render.TerminalSize(cols, rows))
	keys := newHeldKeys()
	names := bindingNames(bindings)
	resize := make(chan [2]int, 1)

	go func() {
		for ev := range term.Events() {
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				// Only the latest size matters.
				select {
				case <-resize:
				default:
				}
				resize <- [2]int{ev.Width, ev.Height}
			case uv.KeyPressEvent:
				if ev.MatchString("ctrl+c") {
					cancel()
					return
				}
				for _, name := range names {
					if ev.MatchString(name) {
						keys.press(name, time.Now())
						break
					}
				}
			case uv.KeyReleaseEvent:
				for _, name := range names {
					if ev.MatchString(name) {
						keys.release(name)
						break
					}
				}
			}
		}
	}()

	frame := time.Second / time.Duration(cfg.FPS)
	ticker := time.NewTicker(frame)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return nil
		case size := <-resize:
			cols, rows = size[0], size[1]
			term.Erase()
			term.Resize(cols, rows)
			fb.Resize(render.TerminalSize(cols, rows))
			log.Debug("terminal resized", zap.Int("cols", cols), zap.Int("rows", rows))
			continue
		case <-ticker.C:
		}

		now := time.Now()
		dt := min(now.Sub(last).Seconds(), maxFrameDt)
		last = now

		sys.Step(bindings.Resolve(keys.held(now)), dt)
		if sys.Exit() {
			return nil
		}
		sys.Render(fb)
		fb.Draw(term, uv.Rect(0, 0, cols, rows))
		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}
	}
}
