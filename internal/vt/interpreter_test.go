package vt

import (
	"testing"

	"github.com/cliofy/govte"

	"github.com/vkot/vkotcore/internal/colortable"
	"github.com/vkot/vkotcore/internal/screen"
)

func newTestInterpreter(cols, rows int16) (*Interpreter, *screen.Screen) {
	scr := screen.New()
	scr.Resize(cols, rows)
	scr.ResetDamage()
	return New(scr, colortable.Default()), scr
}

func feedBytes(interp *Interpreter, scr *screen.Screen, seq string) {
	p := govte.NewParser()
	p.Advance(interp, []byte(seq))
}

// CSI cursor positioning followed by printable text.
func TestScenarioCursorMotion(t *testing.T) {
	interp, scr := newTestInterpreter(10, 3)
	feedBytes(interp, scr, "\x1b[3;5Habc")

	x, y := scr.Cursor()
	if x != 7 || y != 2 {
		t.Fatalf("cursor = (%d,%d), want (7,2)", x, y)
	}
	for i, want := range []rune{'a', 'b', 'c'} {
		got := rune(scr.CellAt(int16(4+i), 2).Rune)
		if got != want {
			t.Errorf("cell (%d,2) = %q, want %q", 4+i, got, want)
		}
	}
}

// SGR color followed by a full reset and line erase.
func TestScenarioSGRAndErase(t *testing.T) {
	interp, scr := newTestInterpreter(10, 3)
	palette := colortable.Default()

	feedBytes(interp, scr, "\x1b[31mfoo")
	for x, want := range []rune{'f', 'o', 'o'} {
		c := scr.CellAt(int16(x), 0)
		if rune(c.Rune) != want {
			t.Fatalf("cell (%d,0) rune = %q, want %q", x, rune(c.Rune), want)
		}
		if c.Fg != palette.RGBA(1) {
			t.Fatalf("cell (%d,0) fg = %#x, want palette[1] %#x", x, c.Fg, palette.RGBA(1))
		}
	}

	feedBytes(interp, scr, "\x1b[0m\x1b[2K")
	// After the full-row erase, every cell reverts to the post-reset
	// default template, not the red foreground the "foo" run was printed
	// with.
	cleared := scr.CellAt(0, 0)
	if cleared.Fg != screen.DefaultFg || cleared.Bg != screen.DefaultBg {
		t.Fatalf("cleared cell fg/bg = %#x/%#x, want defaults", cleared.Fg, cleared.Bg)
	}
	x, y := scr.Cursor()
	if x != 3 || y != 0 {
		t.Fatalf("cursor should be unaffected by erase, got (%d,%d)", x, y)
	}
}

func TestExecuteC0Controls(t *testing.T) {
	interp, scr := newTestInterpreter(10, 3)
	feedBytes(interp, scr, "ab\nc")
	if rune(scr.CellAt(0, 1).Rune) != 'c' {
		t.Fatalf("LF should move to next row")
	}
	feedBytes(interp, scr, "\rZ")
	if rune(scr.CellAt(0, 1).Rune) != 'Z' {
		t.Fatalf("CR should return to column 0 of the current row")
	}
}

func TestEscReverseIndex(t *testing.T) {
	interp, scr := newTestInterpreter(10, 3)
	feedBytes(interp, scr, "x\n\n")
	scr.ResetDamage()
	feedBytes(interp, scr, "\x1bM")
	if scr.Damage() != screen.SizeBox(10, 3) {
		t.Fatalf("reverse index should damage the full screen")
	}
}
