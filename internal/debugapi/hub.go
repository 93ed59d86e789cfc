// Package debugapi exposes the event loop's state for external inspection:
// a liveness endpoint and a websocket that streams the same byte-by-byte
// trace the debug recorder writes to disk. It only runs when a listen
// address is configured; by default vkotcore opens no ports.
package debugapi

import (
	"sync"
	"time"
)

// debounceWindow batches fast producers into fewer websocket frames.
const debounceWindow = 50 * time.Millisecond

// subscriber buffers traced bytes and flushes them to its channel on a
// debounce timer, so a fast producer doesn't force one websocket frame per
// byte.
type subscriber struct {
	mu      sync.Mutex
	pending []byte
	timer   *time.Timer
	send    chan []byte
	done    chan struct{}
}

// Hub fans traced bytes out to websocket subscribers. It implements
// debugrec.Sink.
type Hub struct {
	mu   sync.RWMutex
	subs map[*subscriber]struct{}
}

// NewHub returns an empty Hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish implements debugrec.Sink.
func (h *Hub) Publish(b byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.subs {
		s.push(b)
	}
}

func (s *subscriber) push(b byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = append(s.pending, b)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(debounceWindow, s.flush)
}

func (s *subscriber) flush() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.pending) == 0 {
		return
	}
	batch := s.pending
	s.pending = nil
	select {
	case s.send <- batch:
	case <-s.done:
	}
}

// subscribe registers a new subscriber and returns it along with an
// unsubscribe function.
func (h *Hub) subscribe() (*subscriber, func()) {
	s := &subscriber{
		send: make(chan []byte, 16),
		done: make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	return s, func() {
		h.mu.Lock()
		delete(h.subs, s)
		h.mu.Unlock()
		close(s.done)
		s.mu.Lock()
		if s.timer != nil {
			s.timer.Stop()
		}
		s.mu.Unlock()
	}
}
