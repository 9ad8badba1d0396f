package devbackend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/louisbranch/gymmanager/internal/platform/timeouts"
	"github.com/louisbranch/gymmanager/internal/services/devbackend/storage/sqlite"
	"github.com/rs/zerolog"
)

// Config defines the inputs for the development backend server.
type Config struct {
	HTTPAddr string
	DBPath   string
	// Seed loads the default plans and classes into an empty store.
	Seed   bool
	Logger zerolog.Logger
}

// Server hosts the development backend over HTTP.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
	logger     zerolog.Logger
}

// NewServer opens the store and builds a configured server.
func NewServer(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	store, err := sqlite.Open(strings.TrimSpace(config.DBPath))
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if config.Seed {
		if err := store.SeedDefaults(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("seed store: %w", err)
		}
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           NewHandler(store, config.Logger),
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:  store,
		logger: logging.ForComponent(config.Logger, "server"),
	}, nil
}

// Handler exposes the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe serves HTTP until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("devbackend server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.httpAddr).Msg("devbackend listening")
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		s.logger.Warn().Err(err).Msg("close store")
	}
}
