// Package inputstate tracks keyboard modifier state derived from decoded
// Skey events, independent of the screen and VT interpreter.
package inputstate

import "github.com/vkot/vkotcore/internal/wire"

// Modifier records which modifier keys are currently held.
type Modifier struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Modifier numbers carried by wire.SkModifier events. The engine reads
// Shift to gate history paging and handles Alt (3) itself as an ESC prefix
// for the next character; Ctrl is tracked but nothing reads it.
const (
	modShift = 1
	modCtrl  = 2
	modAlt   = wire.ModifierAlt
)

// Update applies a decoded Skey modifier event to m, setting the field on
// key-down and clearing it on key-up.
func (m *Modifier) Update(s wire.Skey) {
	if s.Type != wire.SkModifier {
		return
	}
	switch s.Value {
	case modShift:
		m.Shift = s.Down
	case modCtrl:
		m.Ctrl = s.Down
	case modAlt:
		m.Alt = s.Down
	}
}
