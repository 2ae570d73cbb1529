package main

import (
	"slices"
	"testing"
	"time"

	"github.com/taigrr/orrery/pkg/input"
)

func TestHeldKeys(t *testing.T) {
	t0 := time.Unix(1000, 0)
	ms := func(n int) time.Time { return t0.Add(time.Duration(n) * time.Millisecond) }

	tests := []struct {
		name    string
		presses []int // press times of "w" in ms
		release bool
		at      int
		want    []string
	}{
		{"single press held through the repeat delay", []int{0}, false, 400, []string{"w"}},
		{"single press expires", []int{0}, false, 600, nil},
		{"repeating key held between repeats", []int{0, 500, 533}, false, 600, []string{"w"}},
		{"repeating key drops soon after repeats stop", []int{0, 500, 533}, false, 700, nil},
		{"release clears at once", []int{0}, true, 10, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHeldKeys()
			for _, p := range tt.presses {
				h.press("w", ms(p))
			}
			if tt.release {
				h.release("w")
			}
			got := h.held(ms(tt.at))
			if !slices.Equal(got, tt.want) {
				t.Errorf("held = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHeldKeysSorted(t *testing.T) {
	h := newHeldKeys()
	now := time.Now()
	for _, k := range []string{"w", "left", "d"} {
		h.press(k, now)
	}
	got := h.held(now)
	if want := []string{"d", "left", "w"}; !slices.Equal(got, want) {
		t.Errorf("held = %v, want %v", got, want)
	}

	keys := input.DefaultBindings().Resolve(got)
	for _, a := range []input.Action{input.Forward, input.Right, input.YawLeft} {
		if !keys.Has(a) {
			t.Errorf("resolved set lacks %v", a)
		}
	}
}

func TestBindingNamesLongestFirst(t *testing.T) {
	names := bindingNames(input.DefaultBindings())
	esc := slices.Index(names, "esc")
	escape := slices.Index(names, "escape")
	if esc < 0 || escape < 0 {
		t.Fatalf("names = %v", names)
	}
	if escape > esc {
		t.Errorf("escape (%d) should come before esc (%d)", escape, esc)
	}
}
