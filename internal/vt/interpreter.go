// Package vt translates govte.Performer callbacks — the decoded actions of
// an external ANSI/VT state machine — into mutations on a screen.Screen.
package vt

import (
	"log"

	"github.com/cliofy/govte"

	"github.com/vkot/vkotcore/internal/screen"
)

// Palette resolves an 8-bit color index to a packed RGBA value. Both
// *colortable.Table and *colortable.Watched satisfy it, so an Interpreter
// can be built against a hot-reloadable palette without caring which.
type Palette interface {
	RGBA(index uint8) uint32
}

// Interpreter implements govte.Performer, wiring print/execute/csi/esc
// callbacks to screen mutations. It holds no state of its own beyond the
// screen and palette it was built with.
type Interpreter struct {
	scr     *screen.Screen
	palette Palette
}

// New returns an Interpreter driving scr using palette for SGR color
// lookups.
func New(scr *screen.Screen, palette Palette) *Interpreter {
	return &Interpreter{scr: scr, palette: palette}
}

var _ govte.Performer = (*Interpreter)(nil)

// Print implements govte.Performer.
func (i *Interpreter) Print(c rune) {
	i.scr.Put(c)
}

// Execute implements govte.Performer for C0 control bytes.
func (i *Interpreter) Execute(b byte) {
	switch b {
	case 0x0A: // LF
		i.scr.Newline()
	case 0x0D: // CR
		i.scr.CarriageReturn()
	case 0x08: // BS
		i.scr.Backspace()
	case 0x09: // HT
		i.scr.Tab()
	case 0x07: // BEL
		// ignored
	case 0x00:
		// ignored
	default:
		log.Printf("[vt] unknown C0 0x%02x", b)
	}
}

// Hook implements govte.Performer; device control strings are not
// interpreted.
func (i *Interpreter) Hook(params *govte.Params, intermediates []byte, ignore bool, action rune) {
}

// Put implements govte.Performer; device control string bytes are dropped.
func (i *Interpreter) Put(b byte) {}

// Unhook implements govte.Performer.
func (i *Interpreter) Unhook() {}

// OscDispatch implements govte.Performer; operating system commands are not
// interpreted.
func (i *Interpreter) OscDispatch(params [][]byte, bellTerminated bool) {}

func flatten(p *govte.Params) params {
	iter := p.Iter()
	out := make(params, len(iter))
	for idx, group := range iter {
		if len(group) > 0 {
			out[idx] = group[0]
		}
	}
	return out
}

// CsiDispatch implements govte.Performer.
func (i *Interpreter) CsiDispatch(raw *govte.Params, intermediates []byte, ignore bool, action rune) {
	p := flatten(raw)
	switch action {
	case 'A':
		i.scr.MoveCursorBy(0, -int16(p.gv(0)))
	case 'B':
		i.scr.MoveCursorBy(0, int16(p.gv(0)))
	case 'C':
		i.scr.MoveCursorBy(int16(p.gv(0)), 0)
	case 'D':
		i.scr.MoveCursorBy(-int16(p.gv(0)), 0)
	case 'H', 'f':
		i.scr.MoveCursorTo(int16(p.gv(1)-1), int16(p.gv(0)-1))
	case 'J':
		i.scr.EraseDisplay(p.gv0(0))
	case 'K':
		i.scr.EraseLine(p.gv0(0))
	case 'X':
		i.scr.Ech(p.gv(0))
	case 'm':
		i.sgr(p)
	case 'h', 'l':
		switch p.gv0(0) {
		case 1, 2004:
			// application cursor keys / bracketed paste: ignored
		default:
			log.Printf("[vt] unhandled CSI %c %v", action, []uint16(p))
		}
	default:
		log.Printf("[vt] unhandled CSI %c %v", action, []uint16(p))
	}
}

// EscDispatch implements govte.Performer.
func (i *Interpreter) EscDispatch(intermediates []byte, ignore bool, b byte) {
	switch b {
	case 'M': // RI, reverse index
		i.scr.Scroll(false)
	case '=', '>':
		// keypad modes: ignored
	default:
		log.Printf("[vt] unhandled ESC %c", b)
	}
}
