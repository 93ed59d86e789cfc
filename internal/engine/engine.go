// Package engine implements the single-consumer event loop that fans in
// PTY output and display-server messages, drives the VT interpreter, and
// flushes damage to the display server under a frame-lock policy.
package engine

import (
	"io"
	"log"
	"time"

	"github.com/cliofy/govte"

	"github.com/vkot/vkotcore/internal/debugrec"
	"github.com/vkot/vkotcore/internal/inputstate"
	"github.com/vkot/vkotcore/internal/screen"
	"github.com/vkot/vkotcore/internal/vt"
	"github.com/vkot/vkotcore/internal/wire"
)

// FTIME is the frame-lock window: damage is flushed at most this often
// under sustained load.
const FTIME = 10 * time.Millisecond

// flushThreshold is the message count at which the nonblocking drain
// flushes, provided more than FTIME has passed since the last flush, so a
// long, very chatty burst still gets updates on screen.
const flushThreshold = 100

// msgKind discriminates the three message shapes fanned into the loop.
type msgKind int

const (
	msgCmdRead msgKind = iota
	msgVtc
	msgExit
)

// Msg is the unified envelope carried over the fan-in channel.
type Msg struct {
	kind  msgKind
	bytes []byte
	vtc   wire.ServerMsg
}

func cmdReadMsg(b []byte) Msg      { return Msg{kind: msgCmdRead, bytes: b} }
func vtcMsg(m wire.ServerMsg) Msg  { return Msg{kind: msgVtc, vtc: m} }
func exitMsg() Msg                 { return Msg{kind: msgExit} }

// PTYSizer sets the PTY master's window size; satisfied by the launcher's
// wrapper around the PTY master *os.File (kept out of this package so engine
// has no platform-specific syscall surface of its own).
type PTYSizer interface {
	SetSize(cols, rows int16) error
}

// Engine owns the screen, the VT decoder, and the write halves of the PTY
// master and the display-server transport. It is constructed once per
// session and run to completion by Run.
type Engine struct {
	scr      *screen.Screen
	interp   *vt.Interpreter
	parser   *govte.Parser
	modifier inputstate.Modifier

	ptyWriter io.Writer
	ptySizer  PTYSizer
	transport io.Writer

	recorder *debugrec.Recorder

	altOn bool

	lastFlush   time.Time
	sendCounter int
}

// New builds an Engine bound to scr (already palette-aware via the
// interpreter), writing PTY input to ptyWriter, resizing via ptySizer, and
// emitting wire commands to transport.
func New(scr *screen.Screen, interp *vt.Interpreter, ptyWriter io.Writer, ptySizer PTYSizer, transport io.Writer, recorder *debugrec.Recorder) *Engine {
	return &Engine{
		scr:       scr,
		interp:    interp,
		parser:    govte.NewParser(),
		ptyWriter: ptyWriter,
		ptySizer:  ptySizer,
		transport: transport,
		recorder:  recorder,
		lastFlush: time.Time{},
	}
}

type recvMode int

const (
	modeBlock recvMode = iota
	modeNonblock
	modeTimeout
)

// Run consumes the fan-in channel until Exit or the channel closes. It
// never spawns goroutines itself; callers wire PTY and server readers
// separately (see PTYReader and ServerReader in readers.go) and pass their
// shared channel in.
//
// The three receive modes mirror the frame-lock policy: Nonblock drains the
// channel as fast as messages arrive, counting towards a flush; once the
// channel runs dry it falls through to Timeout (if still inside the current
// frame window) or flushes and goes to Block (if not). Block waits indefinitely for
// the next message and always hands back to Nonblock, so a burst after an
// idle period gets drained rather than processed one message at a time.
func (e *Engine) Run(ch <-chan Msg) {
	mode := modeBlock
	for {
		switch mode {
		case modeBlock:
			msg, ok := <-ch
			if !ok {
				return
			}
			if e.handle(msg) {
				return
			}
			mode = modeNonblock

		case modeNonblock:
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if e.handle(msg) {
					return
				}
				e.sendCounter++
				if e.sendCounter >= flushThreshold && time.Since(e.lastFlush) > FTIME {
					e.flush()
				}
			default:
				if time.Since(e.lastFlush) <= FTIME {
					mode = modeTimeout
				} else {
					e.flush()
					mode = modeBlock
				}
			}

		case modeTimeout:
			remaining := FTIME - time.Since(e.lastFlush) + time.Millisecond
			if remaining < 0 {
				remaining = time.Millisecond
			}
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				if e.handle(msg) {
					return
				}
				mode = modeNonblock
			case <-time.After(remaining):
				e.flush()
				mode = modeBlock
			}
		}
	}
}

// handle processes one message; it returns true when the loop should
// terminate.
func (e *Engine) handle(m Msg) bool {
	switch m.kind {
	case msgCmdRead:
		if e.recorder != nil {
			for _, b := range m.bytes {
				e.parser.Advance(e.interp, []byte{b})
				e.recorder.Trace(b, e.flush)
			}
			return false
		}
		e.parser.Advance(e.interp, m.bytes)
		return false
	case msgVtc:
		e.handleServerMsg(m.vtc)
		return false
	case msgExit:
		return true
	default:
		return false
	}
}

func (e *Engine) handleServerMsg(m wire.ServerMsg) {
	switch m.Tag {
	case 0x00: // Getch
		e.handleGetch(m.Getch)
	case 0x01: // Resized
		e.scr.Resize(m.Width, m.Height)
		if e.ptySizer != nil {
			if err := e.ptySizer.SetSize(m.Width, m.Height); err != nil {
				log.Printf("[engine] resizing PTY: %v", err)
			}
		}
	case 0x02: // Skey
		e.handleSkey(m.SkeyByte)
	}
}

func (e *Engine) handleGetch(c uint32) {
	if c >= 127 {
		return
	}
	b := byte(c)
	if e.altOn {
		e.writePTY([]byte{0x1B, b})
		e.altOn = false
		return
	}
	e.writePTY([]byte{b})
}

func (e *Engine) writePTY(b []byte) {
	if _, err := e.ptyWriter.Write(b); err != nil {
		log.Printf("[engine] writing PTY: %v", err)
	}
}

var directionBytes = map[int][]byte{
	0: {0x1B, '[', 'D'}, // left
	1: {0x1B, '[', 'A'}, // up
	2: {0x1B, '[', 'C'}, // right
	3: {0x1B, '[', 'B'}, // down
}

func (e *Engine) handleSkey(raw [2]byte) {
	s, ok := wire.DecodeSkey(raw)
	if !ok {
		return
	}
	if !s.Down {
		e.modifier.Update(s)
		if s.Type == wire.SkModifier && s.Value == wire.ModifierAlt {
			e.altOn = false
		}
		return
	}
	switch s.Type {
	case wire.SkDirection:
		if b, found := directionBytes[s.Value]; found {
			e.writePTY(b)
			return
		}
		if (s.Value == 6 || s.Value == 7) && e.modifier.Shift {
			e.scr.ScrollHistoryPage(s.Value == 7)
		}
	case wire.SkModifier:
		if s.Value == wire.ModifierAlt {
			e.altOn = true
			return
		}
		e.modifier.Update(s)
	}
}

// flush emits the accumulated damage and cursor position, then resets the
// frame-lock bookkeeping.
func (e *Engine) flush() {
	damage := e.scr.Damage()
	if !damage.Empty() {
		if err := wire.WriteArea(e.transport, damage, e.scr.CellAt); err != nil {
			log.Printf("[engine] writing area command: %v", err)
		}
		e.scr.ResetDamage()
	}
	x, y := e.scr.Cursor()
	if err := wire.WriteCursor(e.transport, x, y); err != nil {
		log.Printf("[engine] writing cursor command: %v", err)
	}
	if f, ok := e.transport.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil {
			log.Printf("[engine] flushing transport: %v", err)
		}
	}
	e.lastFlush = time.Now()
	e.sendCounter = 0
}
