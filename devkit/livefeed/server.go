package livefeed

import (
	"context"
	"crypto/tls"
	"log"
	"net/http"

	"github.com/quic-go/quic-go/http3"
	"github.com/quic-go/webtransport-go"
)

// Server accepts WebTransport connections on one path and bridges each
// session into the Hub as a DatagramSender subscriber.
type Server struct {
	hub    *Hub
	wt     *webtransport.Server
	cancel context.CancelFunc
}

// sessionAdapter adapts *webtransport.Session to the Hub's DatagramSender.
type sessionAdapter struct {
	sess *webtransport.Session
}

func (a sessionAdapter) SendDatagram(b []byte) error {
	return a.sess.SendDatagram(b)
}

// NewServer returns a livefeed Server listening on addr at path "/live",
// using tlsConfig for the QUIC transport (a devkit-only endpoint: no
// certificate management is implemented here, matching spec §6's framing
// of the devkit surface as introspection tooling, not a hardened service).
func NewServer(hub *Hub, addr string, tlsConfig *tls.Config) *Server {
	mux := http.NewServeMux()
	wt := &webtransport.Server{
		H3: http3.Server{
			Addr:      addr,
			TLSConfig: tlsConfig,
			Handler:   mux,
		},
	}
	s := &Server{hub: hub, wt: wt}

	mux.HandleFunc("/live", func(w http.ResponseWriter, r *http.Request) {
		sess, err := wt.Upgrade(w, r)
		if err != nil {
			log.Printf("[livefeed] upgrade failed: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		s.serveSession(sess)
	})

	return s
}

// serveSession registers sess with the Hub and keeps it subscribed until
// the session's context is done.
func (s *Server) serveSession(sess *webtransport.Session) {
	id := s.hub.Subscribe(sessionAdapter{sess: sess})
	log.Printf("[livefeed] session %d connected", id)
	go func() {
		<-sess.Context().Done()
		s.hub.Unsubscribe(id)
		log.Printf("[livefeed] session %d disconnected", id)
	}()
}

// Run starts the underlying HTTP/3 listener and blocks until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.wt.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		_ = s.wt.Close()
		return nil
	case err := <-errCh:
		return err
	}
}

// Close shuts the server down.
func (s *Server) Close() error {
	if s.cancel != nil {
		s.cancel()
	}
	return s.wt.Close()
}
