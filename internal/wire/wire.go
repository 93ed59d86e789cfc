// Package wire implements the binary protocol between the engine and the
// display server: a tag-byte-prefixed outgoing command stream and a
// tag-byte-prefixed incoming message stream, all integers little-endian.
package wire

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/vkot/vkotcore/internal/screen"
)

// Outgoing command tags.
const (
	tagCursor byte = 0x00
	tagArea   byte = 0x02
)

// Incoming message tags.
const (
	tagGetch   byte = 0x00
	tagResized byte = 0x01
	tagSkey    byte = 0x02
)

// WriteCursor encodes a cursor-position command.
func WriteCursor(w io.Writer, x, y int16) error {
	buf := make([]byte, 1+4)
	buf[0] = tagCursor
	binary.LittleEndian.PutUint16(buf[1:3], uint16(x))
	binary.LittleEndian.PutUint16(buf[3:5], uint16(y))
	_, err := w.Write(buf)
	return err
}

// WriteArea encodes an area-blit command: the rectangle r followed by
// (x1-x0)*(y1-y0) cells in row-major order, each fetched from get.
func WriteArea(w io.Writer, r screen.Region, get func(x, y int16) screen.Cell) error {
	if r.Empty() {
		return nil
	}
	width := int(r.X1 - r.X0)
	height := int(r.Y1 - r.Y0)
	buf := make([]byte, 1+8+width*height*16)
	buf[0] = tagArea
	r.WriteLE(buf[1:9])

	off := 9
	for y := r.Y0; y < r.Y1; y++ {
		for x := r.X0; x < r.X1; x++ {
			c := get(x, y)
			binary.LittleEndian.PutUint32(buf[off:off+4], c.Rune)
			binary.LittleEndian.PutUint32(buf[off+4:off+8], c.Fg)
			binary.LittleEndian.PutUint32(buf[off+8:off+12], c.Bg)
			binary.LittleEndian.PutUint32(buf[off+12:off+16], c.Decoration)
			off += 16
		}
	}
	_, err := w.Write(buf)
	return err
}

// ServerMsg is a decoded incoming message. Exactly one of the typed fields
// is meaningful, selected by Tag.
type ServerMsg struct {
	Tag      byte
	Getch    uint32
	Width    int16
	Height   int16
	SkeyByte [2]byte
}

// ErrUnknownTag indicates an undecodable message tag: per the protocol this
// is a fatal, session-terminating error.
type ErrUnknownTag struct {
	Tag byte
}

func (e ErrUnknownTag) Error() string {
	return fmt.Sprintf("wire: unknown server message tag 0x%02x", e.Tag)
}

// Decode reads exactly one ServerMsg from r. An unrecognized tag returns
// ErrUnknownTag.
func Decode(r io.Reader) (ServerMsg, error) {
	var tagBuf [1]byte
	if _, err := io.ReadFull(r, tagBuf[:]); err != nil {
		return ServerMsg{}, err
	}
	switch tagBuf[0] {
	case tagGetch:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return ServerMsg{}, err
		}
		return ServerMsg{Tag: tagGetch, Getch: binary.LittleEndian.Uint32(buf[:])}, nil
	case tagResized:
		var buf [4]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return ServerMsg{}, err
		}
		return ServerMsg{
			Tag:    tagResized,
			Width:  int16(binary.LittleEndian.Uint16(buf[0:2])),
			Height: int16(binary.LittleEndian.Uint16(buf[2:4])),
		}, nil
	case tagSkey:
		var buf [2]byte
		if _, err := io.ReadFull(r, buf[:]); err != nil {
			return ServerMsg{}, err
		}
		return ServerMsg{Tag: tagSkey, SkeyByte: [2]byte{buf[0], buf[1]}}, nil
	default:
		return ServerMsg{}, ErrUnknownTag{Tag: tagBuf[0]}
	}
}

// Encode serializes m back into wire form, the inverse of Decode. It exists
// primarily to support round-trip testing of the codec.
func Encode(w io.Writer, m ServerMsg) error {
	switch m.Tag {
	case tagGetch:
		buf := make([]byte, 5)
		buf[0] = tagGetch
		binary.LittleEndian.PutUint32(buf[1:], m.Getch)
		_, err := w.Write(buf)
		return err
	case tagResized:
		buf := make([]byte, 5)
		buf[0] = tagResized
		binary.LittleEndian.PutUint16(buf[1:3], uint16(m.Width))
		binary.LittleEndian.PutUint16(buf[3:5], uint16(m.Height))
		_, err := w.Write(buf)
		return err
	case tagSkey:
		buf := []byte{tagSkey, m.SkeyByte[0], m.SkeyByte[1]}
		_, err := w.Write(buf)
		return err
	default:
		return ErrUnknownTag{Tag: m.Tag}
	}
}
