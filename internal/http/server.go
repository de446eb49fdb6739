package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jaekwang-park/plantcare-api/internal/middleware"
)

type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer wraps the router in recovery, logging and, when auth is non-nil,
// authentication, in that order from the outside in.
func NewServer(port string, logger *slog.Logger, svcs Services, auth *middleware.Auth) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", port),
			Handler:           Handler(logger, svcs, auth),
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			// catalog fetches run inside the request
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Handler builds the full middleware chain around the router.
func Handler(logger *slog.Logger, svcs Services, auth *middleware.Auth) http.Handler {
	var h http.Handler = NewRouter(svcs)
	if auth != nil {
		h = auth.Middleware(h)
	}
	h = middleware.Recovery(logger)(h)
	return middleware.Logging(logger)(h)
}

func (s *Server) Start() error {
	s.logger.Info("starting server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down server")
	return s.httpServer.Shutdown(ctx)
}
