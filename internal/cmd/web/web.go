// Package web parses web service flags and launches the dashboard.
package web

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/gymmanager/internal/platform/cmd"
	"github.com/louisbranch/gymmanager/internal/services/web"
)

// Config holds the web command configuration.
type Config struct {
	HTTPAddr       string        `env:"GYM_MANAGER_WEB_HTTP_ADDR" envDefault:"localhost:8086"`
	BackendURL     string        `env:"GYM_MANAGER_BACKEND_URL" envDefault:"http://localhost:8000"`
	RequestTimeout time.Duration `env:"GYM_MANAGER_WEB_REQUEST_TIMEOUT" envDefault:"10s"`
	Locale         string        `env:"GYM_MANAGER_WEB_LOCALE" envDefault:"en-US"`
	SessionTTL     time.Duration `env:"GYM_MANAGER_WEB_SESSION_TTL" envDefault:"12h"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.BackendURL, "backend-url", cfg.BackendURL, "Gym backend base URL")
	fs.DurationVar(&cfg.RequestTimeout, "request-timeout", cfg.RequestTimeout, "Timeout for each backend exchange")
	fs.StringVar(&cfg.Locale, "locale", cfg.Locale, "Locale for page and notice text")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "Idle time before a visitor session expires")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web dashboard server.
func Run(ctx context.Context, cfg Config) error {
	logger, err := entrypoint.NewLogger(entrypoint.ServiceWeb)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceWeb, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:       cfg.HTTPAddr,
			BackendURL:     cfg.BackendURL,
			RequestTimeout: cfg.RequestTimeout,
			Locale:         cfg.Locale,
			SessionTTL:     cfg.SessionTTL,
			Logger:         logger,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}
