package screen

import "testing"

func rowText(r Row) string {
	b := make([]rune, len(r))
	for i, c := range r {
		b[i] = rune(c.Rune)
	}
	return string(b)
}

func newTestScreen(cols, rows int16) *Screen {
	s := New()
	s.Resize(cols, rows)
	s.ResetDamage()
	return s
}

func feed(s *Screen, text string) {
	for _, r := range text {
		switch r {
		case '\n':
			s.Newline()
		case '\r':
			s.CarriageReturn()
		default:
			s.Put(r)
		}
	}
}

// Buffer shape and cursor bounds should hold after every mutation.
func TestInvariantBufferShape(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "hello world\nabc\rZ")
	cols, rows := s.Size()
	if int16(len(s.buffer)) != rows {
		t.Fatalf("buffer has %d rows, want %d", len(s.buffer), rows)
	}
	for i, row := range s.buffer {
		if int16(len(row)) != cols {
			t.Fatalf("row %d has %d cells, want %d", i, len(row), cols)
		}
	}
	x, y := s.Cursor()
	if x < 0 || x >= cols || y < 0 || y >= rows {
		t.Fatalf("cursor (%d,%d) out of bounds for %dx%d", x, y, cols, rows)
	}
	if s.history.Len() > MaxHistory {
		t.Fatalf("history length %d exceeds cap", s.history.Len())
	}
}

// Region union/intersect should behave like set algebra.
func TestRegionAlgebra(t *testing.T) {
	a := Region{X0: 1, Y0: 1, X1: 4, Y1: 4}
	b := Region{X0: 2, Y0: 2, X1: 6, Y1: 6}
	if a.Union(b) != b.Union(a) {
		t.Fatal("union not commutative")
	}
	c := Region{X0: 0, Y0: 0, X1: 2, Y1: 2}
	if a.Union(b).Union(c) != a.Union(b.Union(c)) {
		t.Fatal("union not associative")
	}
	if a.Union(Region{}) != a {
		t.Fatal("union does not absorb empty")
	}
	box := SizeBox(10, 3)
	outside := Region{X0: 20, Y0: 20, X1: 25, Y1: 25}
	inter := outside.Intersect(box)
	if !inter.Empty() {
		t.Fatalf("expected empty intersect, got %+v", inter)
	}
}

// IncludeDamage should be idempotent.
func TestIncludeDamageIdempotent(t *testing.T) {
	s := newTestScreen(10, 3)
	r := Region{X0: 1, Y0: 1, X1: 3, Y1: 2}
	s.IncludeDamage(r)
	once := s.Damage()
	s.IncludeDamage(r)
	if s.Damage() != once {
		t.Fatalf("damage changed on repeated include: %+v vs %+v", once, s.Damage())
	}
}

// Single-column overflow sets eol; the next char wraps.
func TestDeferredWrapBoundary(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "0123456789")
	x, y := s.Cursor()
	if x != 9 || y != 0 {
		t.Fatalf("cursor after 10 chars = (%d,%d), want (9,0)", x, y)
	}
	if !s.eol {
		t.Fatal("expected eol after filling row")
	}
	s.Put('X')
	x, y = s.Cursor()
	if x != 1 || y != 1 {
		t.Fatalf("cursor after overflow char = (%d,%d), want (1,1)", x, y)
	}
	if s.eol {
		t.Fatal("eol should be cleared after the wrap")
	}
}

// A wide character that wouldn't fit at the margin wraps before printing.
func TestWideCharMarginNewline(t *testing.T) {
	s := newTestScreen(10, 3)
	s.MoveCursorTo(9, 0)
	s.Put('中')
	x, y := s.Cursor()
	if y != 1 {
		t.Fatalf("wide char at margin should newline, cursor y=%d", y)
	}
	if x != 2 {
		t.Fatalf("wide char occupies 2 cells, cursor x=%d, want 2", x)
	}
}

// A tab whose target column would land at size.x does not move.
func TestTabNoWrap(t *testing.T) {
	s := newTestScreen(80, 24)
	s.MoveCursorTo(77, 0)
	s.Tab()
	x, _ := s.Cursor()
	if x != 77 {
		t.Fatalf("tab moved cursor to %d, want unchanged 77", x)
	}
}

// Plain text wraps mid-word at the right margin.
func TestScenarioPlainTextWrap(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "hello world")
	if got := rowText(s.buffer[0]); got != "hello worl" {
		t.Fatalf("row 0 = %q, want %q", got, "hello worl")
	}
	x, y := s.Cursor()
	if x != 1 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", x, y)
	}
	if s.buffer[1][0].Rune != 'd' {
		t.Fatalf("row 1 should start with 'd', got %q", rune(s.buffer[1][0].Rune))
	}
}

// LF moves to the start of the next row.
func TestScenarioLF(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "ab\nc")
	if got := rowText(s.buffer[0])[:2]; got != "ab" {
		t.Fatalf("row 0 = %q, want prefix 'ab'", got)
	}
	if s.buffer[1][0].Rune != 'c' {
		t.Fatalf("row 1 should start with 'c'")
	}
	x, y := s.Cursor()
	if x != 1 || y != 1 {
		t.Fatalf("cursor = (%d,%d), want (1,1)", x, y)
	}
}

// CR returns to column 0 without advancing rows.
func TestScenarioCR(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "abc\rZ")
	if got := rowText(s.buffer[0])[:3]; got != "Zbc" {
		t.Fatalf("row 0 = %q, want prefix 'Zbc'", got)
	}
	x, y := s.Cursor()
	if x != 1 || y != 0 {
		t.Fatalf("cursor = (%d,%d), want (1,0)", x, y)
	}
}

// Scrolling the history viewport back surfaces rows pushed out of the
// live buffer.
func TestScenarioScrollback(t *testing.T) {
	s := newTestScreen(10, 3)
	feed(s, "row0\nrow1\nrow2\nrow3\nrow4")
	if s.history.Len() == 0 {
		t.Fatal("expected rows pushed into history")
	}
	s.ScrollHistoryPage(false)
	if s.histCur != 1 {
		t.Fatalf("histCur = %d, want 1 (size.y/2 with size.y=3)", s.histCur)
	}
	top := s.CellAt(0, 0)
	newest := s.history.Get(s.histCur - 1)
	if newest == nil || top != newest[0] {
		t.Fatalf("viewport top should surface the scrolled-off row")
	}
}

func TestHistoryCapEviction(t *testing.T) {
	h := NewHistory()
	for i := 0; i < MaxHistory+10; i++ {
		h.PushFront(Row{Cell{Rune: uint32(i)}})
	}
	if h.Len() != MaxHistory {
		t.Fatalf("history len = %d, want cap %d", h.Len(), MaxHistory)
	}
	newest := h.Get(0)
	if newest[0].Rune != uint32(MaxHistory+9) {
		t.Fatalf("newest row rune = %d, want %d", newest[0].Rune, MaxHistory+9)
	}
}
