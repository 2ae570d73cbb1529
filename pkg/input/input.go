// Package input maps key names from any front end onto the abstract
// actions the camera understands.
package input

import (
	"fmt"
	"strings"
)

// Action is one thing the user can ask for in a frame.
type Action uint8

const (
	Forward Action = iota
	Back
	Left
	Right
	Up
	Down
	YawLeft
	YawRight
	PitchUp
	PitchDown
	ZoomIn
	ZoomOut
	Exit

	numActions
)

var actionNames = [numActions]string{
	"forward", "back", "left", "right", "up", "down",
	"yaw-left", "yaw-right", "pitch-up", "pitch-down",
	"zoom-in", "zoom-out", "exit",
}

func (a Action) String() string {
	if a < numActions {
		return actionNames[a]
	}
	return fmt.Sprintf("action(%d)", a)
}

// ParseAction returns the action called name.
func ParseAction(name string) (Action, error) {
	for i, n := range actionNames {
		if n == name {
			return Action(i), nil
		}
	}
	return 0, fmt.Errorf("unknown action %q", name)
}

// KeySet is the set of actions held during a frame.
type KeySet uint16

// Set adds a.
func (k *KeySet) Set(a Action) {
	*k |= 1 << a
}

// Has reports whether a is held.
func (k KeySet) Has(a Action) bool {
	return k&(1<<a) != 0
}

// Clear removes a.
func (k *KeySet) Clear(a Action) {
	*k &^= 1 << a
}

// Axis returns +1 when pos is held, -1 when neg is held, 0 for both or
// neither.
func (k KeySet) Axis(pos, neg Action) float64 {
	var v float64
	if k.Has(pos) {
		v++
	}
	if k.Has(neg) {
		v--
	}
	return v
}

// Bindings maps lower-case key names to actions.
type Bindings map[string]Action

// DefaultBindings returns WASD to move, R/F to rise and sink, arrows
// to turn, Q/E to zoom and Escape to quit.
func DefaultBindings() Bindings {
	return Bindings{
		"w":      Forward,
		"s":      Back,
		"a":      Left,
		"d":      Right,
		"r":      Up,
		"f":      Down,
		"left":   YawLeft,
		"right":  YawRight,
		"up":     PitchUp,
		"down":   PitchDown,
		"q":      ZoomIn,
		"e":      ZoomOut,
		"esc":    Exit,
		"escape": Exit,
	}
}

// Resolve folds the pressed key names into a KeySet. Unknown keys are
// ignored.
func (b Bindings) Resolve(names []string) KeySet {
	var k KeySet
	for _, n := range names {
		if a, ok := b[strings.ToLower(n)]; ok {
			k.Set(a)
		}
	}
	return k
}

// Merge returns a copy of b with overrides applied. Override values are
// action names; an unknown action is an error.
func (b Bindings) Merge(overrides map[string]string) (Bindings, error) {
	out := make(Bindings, len(b)+len(overrides))
	for k, a := range b {
		out[k] = a
	}
	for key, name := range overrides {
		a, err := ParseAction(name)
		if err != nil {
			return nil, fmt.Errorf("binding %q: %w", key, err)
		}
		out[strings.ToLower(key)] = a
	}
	return out, nil
}
