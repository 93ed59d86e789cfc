package inputstate

import (
	"testing"

	"github.com/vkot/vkotcore/internal/wire"
)

func TestModifierUpdate(t *testing.T) {
	var m Modifier
	m.Update(wire.Skey{Type: wire.SkModifier, Value: wire.ModifierAlt, Down: true})
	if !m.Alt {
		t.Fatal("expected Alt set after modifier down")
	}
	m.Update(wire.Skey{Type: wire.SkModifier, Value: wire.ModifierAlt, Down: false})
	if m.Alt {
		t.Fatal("expected Alt cleared after modifier up")
	}
	m.Update(wire.Skey{Type: wire.SkDirection, Value: 1, Down: true})
	if m.Shift || m.Ctrl || m.Alt {
		t.Fatal("direction events must not affect modifier state")
	}
}
