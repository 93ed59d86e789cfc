package debugapi

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Server is the debug/introspection HTTP server: /healthz for liveness and
// /ws for a live trace feed.
type Server struct {
	runID     string
	startedAt time.Time
	hub       *Hub
	http      *http.Server
}

// NewServer builds a Server listening on addr. Call Serve to run it.
func NewServer(addr, runID string, hub *Hub) *Server {
	s := &Server{runID: runID, startedAt: time.Now(), hub: hub}
	r := mux.NewRouter()
	r.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.handleWS).Methods(http.MethodGet)
	s.http = &http.Server{Addr: addr, Handler: r}
	return s
}

// Serve blocks running the HTTP server until it errors or is shut down.
func (s *Server) Serve() error {
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.http.Addr
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"run_id":      s.runID,
		"uptime_secs": time.Since(s.startedAt).Seconds(),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[debugapi] upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	sub, unsubscribe := s.hub.subscribe()
	defer unsubscribe()

	go s.discardIncoming(conn, sub.done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case batch, ok := <-sub.send:
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.BinaryMessage, batch); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-sub.done:
			return
		}
	}
}

// discardIncoming drains client frames so the read deadline keeps getting
// reset by pong handling; the trace stream is one-directional.
func (s *Server) discardIncoming(conn *websocket.Conn, done chan struct{}) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		select {
		case <-done:
			return
		default:
		}
	}
}
