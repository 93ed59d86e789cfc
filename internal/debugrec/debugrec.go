// Package debugrec implements the byte-by-byte slow-motion PTY trace
// gated by VKOT_SYNC_DEBUG: every byte is appended to a file, echoed to
// stderr with escape-sequence-friendly highlighting, and followed by a
// configurable sleep and a forced damage flush so an operator can watch
// parsing happen in near real time.
package debugrec

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/muesli/termenv"
)

// DefaultTracePath is where the raw byte trace is appended.
const DefaultTracePath = "/tmp/vkot_debug.txt"

// Sink receives a copy of every traced byte, in addition to the file and
// stderr output. internal/debugapi's websocket hub implements this to
// stream the same trace to external subscribers.
type Sink interface {
	Publish(b byte)
}

// Recorder traces every byte decoded from a PTY read to a file and to
// stderr (and to any subscribed sinks), slowing each byte down so a
// human can watch the stream in real time. A nil *Recorder is valid and
// Trace on it is a no-op, so callers can hold one unconditionally and only
// pay for tracing when VKOT_SYNC_DEBUG is set.
type Recorder struct {
	sleep   time.Duration
	file    io.WriteCloser
	sinks   []Sink
	profile termenv.Profile
	toggle  bool
}

// New opens the trace file at DefaultTracePath and returns a Recorder that
// sleeps sleepMS milliseconds after every byte. Call Close when the
// session ends.
func New(sleepMS int) (*Recorder, error) {
	return NewAt(DefaultTracePath, sleepMS)
}

// NewAt is New with an explicit trace path, for tests and alternate
// deployments.
func NewAt(path string, sleepMS int) (*Recorder, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("debugrec: opening %s: %w", path, err)
	}
	return &Recorder{
		sleep:   time.Duration(sleepMS) * time.Millisecond,
		file:    f,
		profile: termenv.ColorProfile(),
	}, nil
}

// AddSink registers an additional destination for traced bytes, e.g. the
// debug/introspection websocket hub.
func (r *Recorder) AddSink(s Sink) {
	if r == nil {
		return
	}
	r.sinks = append(r.sinks, s)
}

// Close releases the trace file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	return r.file.Close()
}

// Trace records one traced byte: appended to the file, printed to stderr
// with alternating highlight colors and backslash-escaped control bytes,
// then sleeps and calls forceFlush so the display server redraws before
// the next byte is processed.
func (r *Recorder) Trace(b byte, forceFlush func()) {
	if r == nil {
		return
	}
	if _, err := r.file.Write([]byte{b}); err != nil {
		log.Printf("[debugrec] writing trace file: %v", err)
	}
	for _, s := range r.sinks {
		s.Publish(b)
	}
	r.printStderr(b)
	if r.sleep > 0 {
		time.Sleep(r.sleep)
	}
	if forceFlush != nil {
		forceFlush()
	}
}

func (r *Recorder) printStderr(b byte) {
	r.toggle = !r.toggle
	bg := termenv.ANSIBrightBlack
	if r.toggle {
		bg = termenv.ANSIBlack
	}
	text := escapeByte(b)
	styled := r.profile.String(text).Background(bg).Foreground(termenv.ANSIWhite)
	fmt.Fprint(os.Stderr, styled.String())
}

func escapeByte(b byte) string {
	switch {
	case b == '\\':
		return `\\`
	case b >= 0x20 && b < 0x7F:
		return string(b)
	default:
		return fmt.Sprintf(`\x%02x`, b)
	}
}
