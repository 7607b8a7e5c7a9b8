package mpd

import (
	"context"
	"net"

	"github.com/rs/zerolog"
)

// Server owns the resources shared by every connected session: the
// backend adapter, the polled state cache, and the path mapper. It has no
// opinion on how those are constructed; callers wire concrete
// implementations in cmd/mpdrelay.
type Server struct {
	handler    Handler
	cache      *StateCache
	pathMapper *PathMapper
	log        zerolog.Logger
}

// NewServer builds a Server ready to accept connections.
func NewServer(handler Handler, cache *StateCache, pathMapper *PathMapper, log zerolog.Logger) *Server {
	if pathMapper == nil {
		pathMapper = NewPathMapper(nil)
	}
	return &Server{
		handler:    handler,
		cache:      cache,
		pathMapper: pathMapper,
		log:        log.With().Str("component", "mpd").Logger(),
	}
}

// Serve accepts connections on ln until ctx is cancelled or Accept
// returns an error; Accept errors are not retried. Each connection is served on its own
// goroutine and is closed by Session.Serve before that goroutine exits.
func (srv *Server) Serve(ctx context.Context, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			select {
			case <-ctx.Done():
				return nil
			default:
			}
			return err
		}
		srv.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client connected")
		sess := newSession(conn, srv)
		go func() {
			sess.Serve()
			srv.log.Debug().Str("remote", conn.RemoteAddr().String()).Msg("client disconnected")
		}()
	}
}
