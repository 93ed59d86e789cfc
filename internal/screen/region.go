package screen

import "encoding/binary"

// Region is an axis-aligned rectangle of grid cells, half-open on the high
// edge: columns [X0,X1) and rows [Y0,Y1).
type Region struct {
	X0, Y0, X1, Y1 int16
}

// SizeBox returns the full-grid region for a w x h screen.
func SizeBox(w, h int16) Region {
	return Region{X0: 0, Y0: 0, X1: w, Y1: h}
}

// Empty reports whether the region covers no cells.
func (r Region) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Intersect returns the overlap of r and o. The result may be empty.
func (r Region) Intersect(o Region) Region {
	return Region{
		X0: max16(r.X0, o.X0),
		Y0: max16(r.Y0, o.Y0),
		X1: min16(r.X1, o.X1),
		Y1: min16(r.Y1, o.Y1),
	}
}

// Union returns the smallest region covering both r and o. An empty operand
// is absorbed rather than widening the result.
func (r Region) Union(o Region) Region {
	if r.Empty() {
		return o
	}
	if o.Empty() {
		return r
	}
	return Region{
		X0: min16(r.X0, o.X0),
		Y0: min16(r.Y0, o.Y0),
		X1: max16(r.X1, o.X1),
		Y1: max16(r.Y1, o.Y1),
	}
}

// WriteLE encodes the region as four little-endian int16 fields into buf,
// which must be at least 8 bytes.
func (r Region) WriteLE(buf []byte) {
	binary.LittleEndian.PutUint16(buf[0:2], uint16(r.X0))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(r.Y0))
	binary.LittleEndian.PutUint16(buf[4:6], uint16(r.X1))
	binary.LittleEndian.PutUint16(buf[6:8], uint16(r.Y1))
}

func max16(a, b int16) int16 {
	if a > b {
		return a
	}
	return b
}

func min16(a, b int16) int16 {
	if a < b {
		return a
	}
	return b
}
