// Package screen implements the grid-of-styled-cells terminal buffer: the
// cell/region value types, the scrollback history ring, and the Screen
// mutation primitives that the VT interpreter drives.
package screen

// DecorationUnderline is bit 2 of Cell.Decoration.
const DecorationUnderline uint32 = 1 << 2

// DefaultFg is the sentinel meaning "terminal default foreground".
const DefaultFg uint32 = 0xFFFFFFFF

// DefaultBg is the sentinel meaning "terminal default background".
const DefaultBg uint32 = 0

// Cell is a single styled grid position. It is a plain value: two cells are
// equal iff all four fields match, so callers can compare with ==.
type Cell struct {
	Rune       uint32
	Fg         uint32
	Bg         uint32
	Decoration uint32
}

// EmptyCell is a space with default colors and no decoration.
func EmptyCell() Cell {
	return Cell{Rune: ' ', Fg: DefaultFg, Bg: DefaultBg}
}

// WithRune returns a copy of c with only the codepoint replaced.
func (c Cell) WithRune(r rune) Cell {
	c.Rune = uint32(r)
	return c
}

// HasUnderline reports whether the underline decoration bit is set.
func (c Cell) HasUnderline() bool {
	return c.Decoration&DecorationUnderline != 0
}

// Row is one row of cells, row-major left to right.
type Row []Cell

// newRow returns a row of n empty cells.
func newRow(n int16, template Cell) Row {
	r := make(Row, n)
	for i := range r {
		r[i] = template
	}
	return r
}
