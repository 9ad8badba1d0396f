package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/gymmanager/internal/client/gateway"
	"github.com/louisbranch/gymmanager/internal/client/session"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/louisbranch/gymmanager/internal/platform/timeouts"
	"github.com/rs/zerolog"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr   string
	BackendURL string
	// RequestTimeout caps each backend exchange.
	RequestTimeout time.Duration
	Locale         string
	// SessionTTL expires idle visitor sessions.
	SessionTTL time.Duration
	Logger     zerolog.Logger
}

// Server hosts the dashboard over HTTP.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	logger     zerolog.Logger
}

// NewServer builds a configured web server. Each visitor gets its own
// session over a shared gateway client.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if config.RequestTimeout <= 0 {
		config.RequestTimeout = timeouts.BackendRequest
	}

	client, err := gateway.New(config.BackendURL,
		gateway.WithHTTPClient(&http.Client{Timeout: config.RequestTimeout}),
		gateway.WithLogger(config.Logger),
	)
	if err != nil {
		return nil, fmt.Errorf("build gateway: %w", err)
	}
	handler, err := NewHandler(Dependencies{
		NewSession: func(notifier session.Notifier) *session.Controller {
			return session.NewController(client,
				session.WithNotifier(notifier),
				session.WithLocale(config.Locale),
				session.WithLogger(config.Logger),
			)
		},
		SessionTTL: config.SessionTTL,
		APIBaseURL: client.BaseURL(),
		Locale:     config.Locale,
		Logger:     config.Logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
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
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	s.logger.Info().Str("addr", s.httpAddr).Msg("web listening")
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
