// Package devbackend parses development backend flags and launches it.
package devbackend

import (
	"context"
	"flag"
	"fmt"

	entrypoint "github.com/louisbranch/gymmanager/internal/platform/cmd"
	"github.com/louisbranch/gymmanager/internal/services/devbackend"
)

// Config holds the devbackend command configuration.
type Config struct {
	HTTPAddr string `env:"GYM_MANAGER_DEVBACKEND_HTTP_ADDR" envDefault:"localhost:8000"`
	DBPath   string `env:"GYM_MANAGER_DEVBACKEND_DB_PATH" envDefault:"data/devbackend.db"`
	Seed     bool   `env:"GYM_MANAGER_DEVBACKEND_SEED" envDefault:"true"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database path")
	fs.BoolVar(&cfg.Seed, "seed", cfg.Seed, "Load sample plans and classes into an empty store")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the development backend.
func Run(ctx context.Context, cfg Config) error {
	logger, err := entrypoint.NewLogger(entrypoint.ServiceDevBackend)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	return entrypoint.RunWithTelemetryAndOptions(ctx, entrypoint.ServiceDevBackend, entrypoint.RunOptions{Logger: &logger}, func(ctx context.Context) error {
		server, err := devbackend.NewServer(ctx, devbackend.Config{
			HTTPAddr: cfg.HTTPAddr,
			DBPath:   cfg.DBPath,
			Seed:     cfg.Seed,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("init devbackend server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve devbackend: %w", err)
		}
		return nil
	})
}
