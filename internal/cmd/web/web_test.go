package web

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8086" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8086")
	}
	if cfg.BackendURL != "http://localhost:8000" {
		t.Fatalf("BackendURL = %q, want %q", cfg.BackendURL, "http://localhost:8000")
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Fatalf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("Locale = %q, want en-US", cfg.Locale)
	}
	if cfg.SessionTTL != 12*time.Hour {
		t.Fatalf("SessionTTL = %v, want 12h", cfg.SessionTTL)
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Setenv("GYM_MANAGER_BACKEND_URL", "http://backend:9000")
	t.Setenv("GYM_MANAGER_WEB_LOCALE", "pt-BR")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.BackendURL != "http://backend:9000" || cfg.Locale != "pt-BR" {
		t.Fatalf("cfg = %+v, want env overrides", cfg)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("GYM_MANAGER_BACKEND_URL", "http://backend:9000")

	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-backend-url", "http://other:8000", "-http-addr", "127.0.0.1:9002", "-session-ttl", "30m"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.BackendURL != "http://other:8000" {
		t.Fatalf("BackendURL = %q, want flag value", cfg.BackendURL)
	}
	if cfg.HTTPAddr != "127.0.0.1:9002" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "127.0.0.1:9002")
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Fatalf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
}

func TestParseConfigRejectsBadTimeout(t *testing.T) {
	t.Setenv("GYM_MANAGER_WEB_REQUEST_TIMEOUT", "soon")
	fs := flag.NewFlagSet("web", flag.ContinueOnError)
	if _, err := ParseConfig(fs, nil); err == nil {
		t.Fatal("expected error for invalid timeout")
	}
}

func TestRunRejectsInvalidBackendURL(t *testing.T) {
	err := Run(context.Background(), Config{HTTPAddr: "127.0.0.1:0", BackendURL: "ftp://backend"})
	if err == nil {
		t.Fatal("expected error")
	}
}
