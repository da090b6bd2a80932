package assets

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"igengage/internal/server"
	"igengage/pkg/config"
	"igengage/pkg/logger"
)

const shutdownTimeout = 5 * time.Second

// Server serves the front-end over HTTP
type Server struct {
	httpServer *http.Server
	logger     logger.Logger
}

// NewServer builds the asset server from the web configuration
func NewServer(cfg config.WebConfig, log logger.Logger) (*Server, error) {
	if log == nil {
		log = logger.GetLogger()
	}
	log = log.WithField("component", "web")

	h, err := Handler(cfg.Dir, cfg.APIURL)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(server.RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Mount("/", h)

	return &Server{
		httpServer: &http.Server{
			Addr:              cfg.Address(),
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
		logger: log,
	}, nil
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Run listens on the configured address and serves until ctx is cancelled
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.LogComponentStart(s.logger, "web", map[string]interface{}{
			"addr": ln.Addr().String(),
		})
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("web server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	return s.Shutdown(context.Background())
}

// Shutdown stops the server, waiting for in-flight requests
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down web server: %w", err)
	}
	logger.LogComponentStop(s.logger, "web", "shutdown")
	return nil
}
