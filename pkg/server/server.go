package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/seqmux/seqmux/pkg/router"
	"go.uber.org/zap"
)

// Server wires a router to an http.Server and manages its lifecycle.
// Timeouts and socket concerns live here, not in the dispatch core.
type Server struct {
	config     Config
	router     *router.Router
	logger     *zap.Logger
	httpServer *http.Server
}

// New creates a Server for the given router.
func New(config Config, r *router.Router, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	addr := net.JoinHostPort(config.Hostname, strconv.Itoa(config.Port))
	return &Server{
		config: config,
		router: r,
		logger: logger,
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until the context is canceled, then drains gracefully: first the
// listener stops accepting, then the router waits for in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server starting",
			zap.String("addr", s.httpServer.Addr),
			zap.Bool("development_mode", s.config.DevelopmentMode),
		)
		if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Server shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown failed", zap.Error(err))
		return err
	}
	if err := s.router.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("Router drain failed", zap.Error(err))
		return err
	}

	s.logger.Info("Server stopped")
	return nil
}
