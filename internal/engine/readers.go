package engine

import (
	"errors"
	"io"

	"github.com/vkot/vkotcore/internal/wire"
)

// readBufSize is the PTY read chunk size.
const readBufSize = 1024

// PTYReader blocks reading r in readBufSize chunks, sending a CmdRead
// message per successful read and an Exit message on EOF or error before
// returning. It is meant to run in its own goroutine for the lifetime of
// the session.
func PTYReader(r io.Reader, ch chan<- Msg) {
	buf := make([]byte, readBufSize)
	for {
		n, err := r.Read(buf)
		if n > 0 {
			cp := make([]byte, n)
			copy(cp, buf[:n])
			ch <- cmdReadMsg(cp)
		}
		if err != nil {
			ch <- exitMsg()
			return
		}
	}
}

// ServerReader blocks decoding wire.ServerMsg records from r, sending a Vtc
// message per decoded message. A dropped server connection (a read error)
// stops the reader without sending Exit; it is observed as PTY EOF instead.
// An undecodable tag is a fatal protocol error: the reader sends Exit, which
// ends the event loop, and returns.
func ServerReader(r io.Reader, ch chan<- Msg) {
	for {
		m, err := wire.Decode(r)
		if err != nil {
			var unk wire.ErrUnknownTag
			if errors.As(err, &unk) {
				ch <- exitMsg()
			}
			return
		}
		ch <- vtcMsg(m)
	}
}
