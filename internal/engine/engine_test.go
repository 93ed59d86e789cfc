package engine

import (
	"bytes"
	"testing"

	"github.com/vkot/vkotcore/internal/colortable"
	"github.com/vkot/vkotcore/internal/screen"
	"github.com/vkot/vkotcore/internal/vt"
	"github.com/vkot/vkotcore/internal/wire"
)

type fakeSizer struct {
	cols, rows int16
	calls      int
}

func (f *fakeSizer) SetSize(cols, rows int16) error {
	f.cols, f.rows = cols, rows
	f.calls++
	return nil
}

func newTestEngine() (*Engine, *bytes.Buffer, *fakeSizer) {
	scr := screen.New()
	interp := vt.New(scr, colortable.Default())
	var pty bytes.Buffer
	var transport bytes.Buffer
	sizer := &fakeSizer{}
	e := New(scr, interp, &pty, sizer, &transport, nil)
	return e, &pty, sizer
}

func TestGetchNoAltWritesRawByte(t *testing.T) {
	e, pty, _ := newTestEngine()
	e.handleGetch('a')
	if got := pty.Bytes(); !bytes.Equal(got, []byte{0x61}) {
		t.Fatalf("got %x, want 61", got)
	}
}

func TestGetchWithAltPrependsEscAndClears(t *testing.T) {
	e, pty, _ := newTestEngine()
	e.altOn = true
	e.handleGetch('a')
	if got := pty.Bytes(); !bytes.Equal(got, []byte{0x1B, 0x61}) {
		t.Fatalf("got %x, want 1B 61", got)
	}
	if e.altOn {
		t.Fatal("altOn should be cleared after use")
	}
}

func TestSkeyDirectionUpWritesEscSeq(t *testing.T) {
	e, pty, _ := newTestEngine()
	b := wire.EncodeSkey(wire.Skey{Down: true, Type: wire.SkDirection, Value: 1})
	e.handleSkey(b)
	if got := pty.Bytes(); !bytes.Equal(got, []byte{0x1B, 0x5B, 0x41}) {
		t.Fatalf("got %x, want 1B 5B 41", got)
	}
}

func TestResizedResizesScreenAndPTY(t *testing.T) {
	e, _, sizer := newTestEngine()
	e.handleServerMsg(wire.ServerMsg{Tag: 0x01, Width: 40, Height: 12})
	cols, rows := e.scr.Size()
	if cols != 40 || rows != 12 {
		t.Fatalf("screen size = %dx%d, want 40x12", cols, rows)
	}
	if sizer.cols != 40 || sizer.rows != 12 || sizer.calls != 1 {
		t.Fatalf("ptySizer not called with the resized dimensions: %+v", sizer)
	}
}

func TestRunExitsOnExitMessage(t *testing.T) {
	e, _, _ := newTestEngine()
	ch := make(chan Msg, 4)
	ch <- cmdReadMsg([]byte("hi"))
	ch <- exitMsg()
	done := make(chan struct{})
	go func() {
		e.Run(ch)
		close(done)
	}()
	<-done
}

func TestRunDrivesVTInterpreter(t *testing.T) {
	e, _, _ := newTestEngine()
	ch := make(chan Msg, 4)
	ch <- cmdReadMsg([]byte("ab"))
	ch <- exitMsg()
	e.Run(ch)
	if rune(e.scr.CellAt(0, 0).Rune) != 'a' || rune(e.scr.CellAt(1, 0).Rune) != 'b' {
		t.Fatalf("expected 'ab' printed to row 0")
	}
}

func TestFlushWritesAreaAndCursor(t *testing.T) {
	e, _, _ := newTestEngine()
	e.scr.Put('z')
	var transport bytes.Buffer
	e.transport = &transport
	e.flush()
	if transport.Len() == 0 {
		t.Fatal("expected flush to write wire commands")
	}
	if !e.scr.Damage().Empty() {
		t.Fatal("flush should reset damage")
	}
}
