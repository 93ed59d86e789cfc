package screen

import "github.com/mattn/go-runewidth"

// Screen owns the live grid, the scrollback history, the cursor, and the
// damage region the event loop flushes to the display server. It is driven
// exclusively by the VT interpreter and the event loop; it never reads from
// the PTY or the wire itself.
type Screen struct {
	buffer   []Row
	history  *History
	histCur  int
	size     [2]int16 // [cols, rows]
	cursor   [2]int16 // [x, y]
	eol      bool
	ecell    Cell
	reversed bool
	damage   Region
}

// New returns a screen with the provisional 80x24 buffer the lifecycle
// requires before the first Resized message arrives.
func New() *Screen {
	s := &Screen{
		size:    [2]int16{80, 24},
		ecell:   EmptyCell(),
		history: NewHistory(),
	}
	s.buffer = make([]Row, s.size[1])
	for y := range s.buffer {
		s.buffer[y] = newRow(s.size[0], EmptyCell())
	}
	return s
}

// Size returns (cols, rows).
func (s *Screen) Size() (int16, int16) {
	return s.size[0], s.size[1]
}

// Cursor returns (x, y) in buffer coordinates.
func (s *Screen) Cursor() (int16, int16) {
	return s.cursor[0], s.cursor[1]
}

// Damage returns the union of uncommitted changes since the last flush.
func (s *Screen) Damage() Region {
	return s.damage
}

// ResetDamage clears the damage region; called after a flush commits it.
func (s *Screen) ResetDamage() {
	s.damage = Region{}
}

// HistCur returns the number of history rows currently scrolled into view.
func (s *Screen) HistCur() int {
	return s.histCur
}

// IncludeDamage unions r, clipped to the live screen, into the damage
// region.
func (s *Screen) IncludeDamage(r Region) {
	clipped := r.Intersect(SizeBox(s.size[0], s.size[1]))
	s.damage = s.damage.Union(clipped)
}

// Resize replaces the buffer with a cols x rows grid, preserving top-left
// content via row-level resize and bottom/right-padding with empty cells.
func (s *Screen) Resize(cols, rows int16) {
	newBuf := make([]Row, rows)
	for y := int16(0); y < rows; y++ {
		if int(y) < len(s.buffer) {
			old := s.buffer[y]
			r := make(Row, cols)
			copy(r, old)
			for x := len(old); x < int(cols); x++ {
				r[x] = EmptyCell()
			}
			newBuf[y] = r
		} else {
			newBuf[y] = newRow(cols, EmptyCell())
		}
	}
	s.buffer = newBuf
	s.size = [2]int16{cols, rows}
	s.limitCursor()
	s.IncludeDamage(SizeBox(cols, rows))
}

func (s *Screen) limitCursor() {
	s.cursor[0] = clamp16(s.cursor[0], 0, s.size[0]-1)
	s.cursor[1] = clamp16(s.cursor[1], 0, s.size[1]-1)
}

// LimitCursor clamps the cursor into bounds; called after any visual cursor
// move.
func (s *Screen) LimitCursor() {
	s.limitCursor()
}

func clamp16(v, lo, hi int16) int16 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Newline advances to the next line, scrolling if already on the last row,
// and resets to column 0.
func (s *Screen) Newline() {
	if s.cursor[1] == s.size[1]-1 {
		s.Scroll(true)
	} else {
		s.cursor[1]++
	}
	s.cursor[0] = 0
	s.eol = false
}

// CarriageReturn resets the cursor to column 0 without moving rows.
func (s *Screen) CarriageReturn() {
	s.cursor[0] = 0
	s.eol = false
}

// Scroll shifts the live buffer one row. down=true pushes the top row into
// history and appends an empty row at the bottom; down=false (reverse
// index) prepends an empty row at top and drops the bottom row without
// touching history. Both damage the entire live screen.
func (s *Screen) Scroll(down bool) {
	n := len(s.buffer)
	if down {
		s.history.PushFront(s.buffer[0])
		copy(s.buffer, s.buffer[1:])
		s.buffer[n-1] = newRow(s.size[0], EmptyCell())
	} else {
		copy(s.buffer[1:], s.buffer[:n-1])
		s.buffer[0] = newRow(s.size[0], EmptyCell())
	}
	s.IncludeDamage(SizeBox(s.size[0], s.size[1]))
}

// ScrollHistoryPage moves the history viewport by half a screen. down=true
// moves towards the live view.
func (s *Screen) ScrollHistoryPage(down bool) {
	half := int(s.size[1] / 2)
	if down {
		s.histCur -= half
	} else {
		s.histCur += half
	}
	if s.histCur < 0 {
		s.histCur = 0
	}
	if max := s.history.Len(); s.histCur > max {
		s.histCur = max
	}
	s.IncludeDamage(SizeBox(s.size[0], s.size[1]))
}

// charWidth reports the terminal cell width of ch: 2 for East-Asian wide
// codepoints (a zero-width measurement is treated as wide, matching the
// "width unknown, assume wide" convention), 1 otherwise.
func charWidth(ch rune) int16 {
	switch w := runewidth.RuneWidth(ch); w {
	case 1:
		return 1
	default:
		return 2
	}
}

// Put prints a single non-control codepoint at the cursor, handling
// deferred end-of-line wrap and wide-character margin splitting.
func (s *Screen) Put(ch rune) {
	w := charWidth(ch)

	if s.eol {
		s.eol = false
		s.Newline()
	}
	if w == 2 && s.cursor[0] == s.size[0]-1 {
		s.Newline()
	}

	newEol := s.cursor[0] == s.size[0]-w
	s.buffer[s.cursor[1]][s.cursor[0]] = s.styledCell(ch)
	s.IncludeDamage(Region{
		X0: s.cursor[0], Y0: s.cursor[1],
		X1: s.cursor[0] + 1, Y1: s.cursor[1] + 1,
	})

	if w == 2 && s.cursor[0]+1 < s.size[0] {
		// Overwrite the trailing half of the wide glyph so a later reflow
		// or narrower overwrite never leaves a stale codepoint behind.
		s.buffer[s.cursor[1]][s.cursor[0]+1] = s.styledCell(' ')
	}

	if !newEol {
		s.cursor[0] += w
	} else {
		s.eol = true
	}
}

// styledCell applies the current ecell template and reversed flag to a
// freshly printed codepoint.
func (s *Screen) styledCell(ch rune) Cell {
	fg, bg := s.ecell.Fg, s.ecell.Bg
	if s.reversed {
		fg, bg = bg, fg
	}
	return Cell{Rune: uint32(ch), Fg: fg, Bg: bg, Decoration: s.ecell.Decoration}
}

func (s *Screen) clearRow(y int16) {
	row := s.buffer[y]
	for i := range row {
		row[i] = s.ecell
	}
}

func (s *Screen) eraseRange(y, x0, x1 int16) {
	row := s.buffer[y]
	for x := x0; x < x1; x++ {
		row[x] = s.ecell
	}
}

// EraseDisplay implements CSI J. mode=0 clears cursor to end of screen,
// mode=1 clears start of screen to cursor (inclusive), anything else clears
// the whole screen.
func (s *Screen) EraseDisplay(mode int) {
	switch mode {
	case 0:
		s.eraseRange(s.cursor[1], s.cursor[0], s.size[0])
		for y := s.cursor[1] + 1; y < s.size[1]; y++ {
			s.clearRow(y)
		}
		s.IncludeDamage(Region{X0: 0, Y0: s.cursor[1], X1: s.size[0], Y1: s.size[1]})
	case 1:
		s.eraseRange(s.cursor[1], 0, s.cursor[0]+1)
		for y := int16(0); y < s.cursor[1]; y++ {
			s.clearRow(y)
		}
		s.IncludeDamage(Region{X0: 0, Y0: 0, X1: s.size[0], Y1: s.cursor[1] + 1})
	default:
		for y := int16(0); y < s.size[1]; y++ {
			s.clearRow(y)
		}
		s.IncludeDamage(SizeBox(s.size[0], s.size[1]))
	}
}

// EraseLine implements CSI K. mode=0 clears cursor to end of row, mode=1
// clears start of row to cursor (inclusive), anything else clears the whole
// row.
func (s *Screen) EraseLine(mode int) {
	y := s.cursor[1]
	switch mode {
	case 0:
		s.eraseRange(y, s.cursor[0], s.size[0])
		s.IncludeDamage(Region{X0: s.cursor[0], Y0: y, X1: s.size[0], Y1: y + 1})
	case 1:
		s.eraseRange(y, 0, s.cursor[0]+1)
		s.IncludeDamage(Region{X0: 0, Y0: y, X1: s.cursor[0] + 1, Y1: y + 1})
	default:
		s.eraseRange(y, 0, s.size[0])
		s.IncludeDamage(Region{X0: 0, Y0: y, X1: s.size[0], Y1: y + 1})
	}
}

// Tab implements HT: advances to the next multiple-of-8 column, clearing
// intervening cells. Does not wrap if the target would fall off the row.
func (s *Screen) Tab() {
	target := (s.cursor[0]/8 + 1) * 8
	if target >= s.size[0] {
		return
	}
	s.eraseRange(s.cursor[1], s.cursor[0], target)
	s.IncludeDamage(Region{X0: s.cursor[0], Y0: s.cursor[1], X1: target, Y1: s.cursor[1] + 1})
	s.cursor[0] = target
}

// Ech implements CSI X: erases n cells starting at the cursor without
// moving it.
func (s *Screen) Ech(n int) {
	y := s.cursor[1]
	x0 := s.cursor[0]
	x1 := min16(s.size[0], x0+int16(n))
	s.eraseRange(y, x0, x1)
	s.IncludeDamage(Region{X0: x0, Y0: y, X1: x1, Y1: y + 1})
}

// MoveCursorTo sets the cursor to absolute buffer coordinates, clamping.
func (s *Screen) MoveCursorTo(x, y int16) {
	s.cursor[0] = x
	s.cursor[1] = y
	s.limitCursor()
}

// MoveCursorBy offsets the cursor by (dx, dy), clamping.
func (s *Screen) MoveCursorBy(dx, dy int16) {
	s.cursor[0] += dx
	s.cursor[1] += dy
	s.limitCursor()
}

// Backspace moves the cursor left one column, clamping at the margin.
func (s *Screen) Backspace() {
	s.MoveCursorBy(-1, 0)
}

// ResetSGR restores the empty-cell template and reversed flag to defaults
// (SGR code 0).
func (s *Screen) ResetSGR() {
	s.ecell = Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
	s.reversed = false
}

// SetFg sets the template foreground used for subsequently printed cells.
func (s *Screen) SetFg(v uint32) {
	s.ecell.Fg = v
}

// SetBg sets the template background used for subsequently printed cells.
func (s *Screen) SetBg(v uint32) {
	s.ecell.Bg = v
}

// SetUnderline sets or clears the underline decoration bit on the template.
func (s *Screen) SetUnderline(on bool) {
	if on {
		s.ecell.Decoration |= DecorationUnderline
	} else {
		s.ecell.Decoration &^= DecorationUnderline
	}
}

// SetReversed sets or clears the fg/bg-swap-on-print flag.
func (s *Screen) SetReversed(v bool) {
	s.reversed = v
}

// Reversed reports the current fg/bg-swap-on-print flag.
func (s *Screen) Reversed() bool {
	return s.reversed
}

// CellAt returns the cell that should be emitted for live output coordinate
// (x, y), accounting for the current history scroll position. Out-of-range
// lookups (either axis) yield a default empty cell.
func (s *Screen) CellAt(x, y int16) Cell {
	if int(y) < s.histCur {
		row := s.history.Get(s.histCur - int(y) - 1)
		if row == nil || int(x) >= len(row) {
			return EmptyCell()
		}
		return row[x]
	}
	by := int(y) - s.histCur
	if by < 0 || by >= len(s.buffer) {
		return EmptyCell()
	}
	row := s.buffer[by]
	if int(x) >= len(row) {
		return EmptyCell()
	}
	return row[x]
}
