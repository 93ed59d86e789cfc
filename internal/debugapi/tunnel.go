package debugapi

import (
	"context"
	"log"
	"net/http"

	"golang.ngrok.com/ngrok"
	"golang.ngrok.com/ngrok/config"
)

// ServeTunneled runs the debug server behind an ngrok HTTP tunnel in
// addition to its local listener, so the trace feed can be reached off the
// host. Tunnel setup failures are logged and non-fatal: the local listener
// returned by Serve still works.
func (s *Server) ServeTunneled(ctx context.Context, authtoken string) {
	ln, err := ngrok.Listen(ctx,
		config.HTTPEndpoint(),
		ngrok.WithAuthtoken(authtoken),
	)
	if err != nil {
		log.Printf("[debugapi] ngrok tunnel unavailable, continuing with local listener only: %v", err)
		return
	}
	log.Printf("[debugapi] debug trace tunneled at %s", ln.Addr())

	if err := http.Serve(ln, s.http.Handler); err != nil {
		log.Printf("[debugapi] ngrok tunnel closed: %v", err)
	}
}
