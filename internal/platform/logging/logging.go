// Package logging builds the structured loggers shared by every service.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger field names.
const (
	Service   = "svc"
	Component = "component"
	Event     = "event"
	Code      = "code"
	State     = "state"
	Kind      = "kind"
	MemberID  = "member_id"
)

// Options control logger output.
type Options struct {
	// Level is a zerolog level name; unknown values fall back to info.
	Level string `env:"GYM_MANAGER_LOG_LEVEL" envDefault:"info"`
	// Format is "json" or "console".
	Format string `env:"GYM_MANAGER_LOG_FORMAT" envDefault:"json"`
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
}

// New returns a logger tagged with the service name writing to stderr.
func New(service string, opts Options) zerolog.Logger {
	return NewWithWriter(os.Stderr, service, opts)
}

// NewWithWriter returns a logger tagged with the service name writing to w.
func NewWithWriter(w io.Writer, service string, opts Options) zerolog.Logger {
	if w == nil {
		w = os.Stderr
	}
	if strings.EqualFold(strings.TrimSpace(opts.Format), "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).
		Level(parseLevel(opts.Level)).
		With().
		Timestamp().
		Str(Service, service).
		Logger()
}

// ForComponent derives a child logger for one component.
func ForComponent(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str(Component, component).Logger()
}

// Nop returns a logger that discards everything.
func Nop() zerolog.Logger {
	return zerolog.Nop()
}

func parseLevel(value string) zerolog.Level {
	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(value)))
	if err != nil || level == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return level
}
