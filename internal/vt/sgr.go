package vt

import (
	"log"

	"github.com/vkot/vkotcore/internal/screen"
)

// sgr walks a flattened CSI `m` parameter list, applying each code to the
// screen's empty-cell template and reversed flag. An empty list is
// equivalent to a single code-0 reset.
func (i *Interpreter) sgr(p params) {
	if p.len() == 0 {
		i.scr.ResetSGR()
		return
	}
	for idx := 0; idx < p.len(); idx++ {
		code := p.gv0(idx)
		switch {
		case code == 0:
			i.scr.ResetSGR()
		case code == 1:
			// bold: no effect, palette does not split bold/normal
		case code == 4:
			i.scr.SetUnderline(true)
		case code == 7:
			i.scr.SetReversed(true)
		case code == 24:
			i.scr.SetUnderline(false)
		case code == 27:
			i.scr.SetReversed(false)
		case code >= 30 && code <= 37:
			i.scr.SetFg(i.palette.RGBA(uint8(code - 30)))
		case code == 38:
			n, ok := i.sgrIndexed(p, idx)
			if !ok {
				return
			}
			i.scr.SetFg(i.palette.RGBA(n))
			idx += 2
		case code == 39:
			i.scr.SetFg(screen.DefaultFg)
		case code >= 40 && code <= 47:
			i.scr.SetBg(i.palette.RGBA(uint8(code - 40)))
		case code == 48:
			n, ok := i.sgrIndexed(p, idx)
			if !ok {
				return
			}
			i.scr.SetBg(i.palette.RGBA(n))
			idx += 2
		case code == 49:
			i.scr.SetBg(screen.DefaultBg)
		case code >= 90 && code <= 97:
			i.scr.SetFg(i.palette.RGBA(uint8(code - 82)))
		case code >= 100 && code <= 107:
			i.scr.SetBg(i.palette.RGBA(uint8(code - 92)))
		default:
			log.Printf("[vt] unhandled SGR code %d", code)
			return
		}
	}
}

// sgrIndexed reads the "5, n" indexed-color form following a 38/48 code at
// idx, returning the palette index and whether the form matched.
func (i *Interpreter) sgrIndexed(p params, idx int) (uint8, bool) {
	if idx+2 >= p.len() || p.gv0(idx+1) != 5 {
		log.Printf("[vt] unsupported SGR 38/48 form at param %d", idx)
		return 0, false
	}
	return uint8(p.gv0(idx + 2)), true
}
