// Package fakebackend runs the development backend behind an httptest server
// for client tests. It records every request and can inject failures per
// route.
package fakebackend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/louisbranch/gymmanager/internal/gym"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/louisbranch/gymmanager/internal/services/devbackend"
	"github.com/louisbranch/gymmanager/internal/services/devbackend/storage/sqlite"
)

// Request is one recorded exchange.
type Request struct {
	Method string
	Path   string
	Query  string
	Body   []byte
}

type failure struct {
	status int
	detail string
	// remaining counts injected failures left; negative means forever.
	remaining int
}

// Backend is a running fake.
type Backend struct {
	t      testing.TB
	server *httptest.Server
	store  *sqlite.Store

	mu       sync.Mutex
	requests []Request
	failures map[string]*failure
}

// New starts a fake backend over an empty temporary store. It is closed when
// the test ends.
func New(t testing.TB) *Backend {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "fakebackend.db"))
	if err != nil {
		t.Fatalf("open fake backend store: %v", err)
	}
	b := &Backend{t: t, store: store, failures: make(map[string]*failure)}
	b.server = httptest.NewServer(b.intercept(devbackend.NewHandler(store, logging.Nop())))
	t.Cleanup(func() {
		b.server.Close()
		_ = store.Close()
	})
	return b
}

// URL returns the base URL of the fake.
func (b *Backend) URL() string {
	return b.server.URL
}

// Client returns an HTTP client wired to the fake.
func (b *Backend) Client() *http.Client {
	return b.server.Client()
}

// Store exposes the backing store for direct assertions.
func (b *Backend) Store() *sqlite.Store {
	return b.store
}

// SeedDefaults loads the default plans and classes.
func (b *Backend) SeedDefaults() {
	b.t.Helper()
	if err := b.store.SeedDefaults(context.Background()); err != nil {
		b.t.Fatalf("seed defaults: %v", err)
	}
}

// SeedPlans stores plans in order.
func (b *Backend) SeedPlans(plans ...gym.Plan) {
	b.t.Helper()
	for _, plan := range plans {
		if _, err := b.store.PutPlan(context.Background(), plan); err != nil {
			b.t.Fatalf("seed plan %q: %v", plan.Title, err)
		}
	}
}

// SeedClasses stores classes in order.
func (b *Backend) SeedClasses(classes ...gym.Class) {
	b.t.Helper()
	for _, class := range classes {
		if _, err := b.store.PutClass(context.Background(), class); err != nil {
			b.t.Fatalf("seed class %q: %v", class.Title, err)
		}
	}
}

// Fail makes every request to route answer status with detail. Route is
// "METHOD /path", for example "GET /plans". An empty detail produces a body
// without one.
func (b *Backend) Fail(route string, status int, detail string) {
	b.setFailure(route, &failure{status: status, detail: detail, remaining: -1})
}

// FailNext fails only the next request to route.
func (b *Backend) FailNext(route string, status int, detail string) {
	b.setFailure(route, &failure{status: status, detail: detail, remaining: 1})
}

// Recover removes any failure injected for route.
func (b *Backend) Recover(route string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.failures, route)
}

func (b *Backend) setFailure(route string, f *failure) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[route] = f
}

// Requests returns a copy of every recorded request in arrival order.
func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Request, len(b.requests))
	copy(out, b.requests)
	return out
}

// Count returns how many requests hit method and path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	count := 0
	for _, req := range b.requests {
		if req.Method == method && req.Path == path {
			count++
		}
	}
	return count
}

func (b *Backend) intercept(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Body:   body,
		})
		injected := b.takeFailure(r.Method + " " + r.URL.Path)
		b.mu.Unlock()

		if injected != nil {
			writeFailure(w, injected)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// takeFailure must be called with mu held.
func (b *Backend) takeFailure(route string) *failure {
	f, ok := b.failures[route]
	if !ok {
		return nil
	}
	if f.remaining > 0 {
		f.remaining--
		if f.remaining == 0 {
			delete(b.failures, route)
		}
	}
	return f
}

func writeFailure(w http.ResponseWriter, f *failure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.status)
	payload := map[string]string{}
	if f.detail != "" {
		payload["detail"] = f.detail
	}
	_ = json.NewEncoder(w).Encode(payload)
}
