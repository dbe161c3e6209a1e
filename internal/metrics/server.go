package metrics

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"realm-warp/internal/config"
	"realm-warp/internal/middleware"

	"github.com/rs/zerolog"
)

// Server exposes /metrics and /healthz. It is inert when no address is
// configured.
type Server struct {
	addr     string
	srv      *http.Server
	listener net.Listener
	logger   zerolog.Logger
}

func NewServer(cfg *config.Config, m *Metrics, logger zerolog.Logger) *Server {
	logger = logger.With().Str("component", "metrics_server").Logger()

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", m.Handler())
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return &Server{
		addr: cfg.Metrics.Addr,
		srv: &http.Server{
			Addr:    cfg.Metrics.Addr,
			Handler: middleware.RequestID(logger)(mux),
		},
		logger: logger,
	}
}

func (s *Server) Enabled() bool {
	return s.addr != ""
}

// Addr is the bound address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) Start() error {
	if !s.Enabled() {
		s.logger.Debug().Msg("metrics server disabled")
		return nil
	}

	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = ln

	go func() {
		s.logger.Info().Str("addr", ln.Addr().String()).Msg("metrics server starting")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("metrics server failed")
		}
	}()
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	if s.listener == nil {
		return nil
	}
	if err := s.srv.Shutdown(ctx); err != nil {
		s.logger.Error().Err(err).Msg("metrics server shutdown failed")
		return err
	}
	s.logger.Info().Msg("metrics server stopped")
	return nil
}
