package fakebackend

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/louisbranch/gymmanager/internal/gym"
)

func get(t *testing.T, b *Backend, path string) (int, string) {
	t.Helper()
	resp, err := b.Client().Get(b.URL() + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(body)
}

func TestServesSeededCollections(t *testing.T) {
	b := New(t)
	b.SeedPlans(gym.Plan{ID: "p1", Title: "Basic", Price: 20, DurationMonths: 1})
	status, body := get(t, b, "/plans")
	if status != http.StatusOK {
		t.Fatalf("status = %d, want %d", status, http.StatusOK)
	}
	if !strings.Contains(body, `"_id":"p1"`) {
		t.Fatalf("body = %s, want plan p1", body)
	}
}

func TestFailNextAppliesOnce(t *testing.T) {
	b := New(t)
	b.FailNext("GET /classes", http.StatusServiceUnavailable, "down")

	status, body := get(t, b, "/classes")
	if status != http.StatusServiceUnavailable || !strings.Contains(body, "down") {
		t.Fatalf("first = %d %s, want injected failure", status, body)
	}
	if status, _ := get(t, b, "/classes"); status != http.StatusOK {
		t.Fatalf("second status = %d, want %d", status, http.StatusOK)
	}
	if got := b.Count(http.MethodGet, "/classes"); got != 2 {
		t.Fatalf("Count = %d, want 2", got)
	}
}

func TestFailPersistsUntilRecover(t *testing.T) {
	b := New(t)
	b.Fail("GET /plans", http.StatusInternalServerError, "")
	for range 2 {
		if status, body := get(t, b, "/plans"); status != http.StatusInternalServerError || strings.Contains(body, "detail") {
			t.Fatalf("got %d %s, want bare 500", status, body)
		}
	}
	b.Recover("GET /plans")
	if status, _ := get(t, b, "/plans"); status != http.StatusOK {
		t.Fatalf("status = %d after recover, want %d", status, http.StatusOK)
	}
}

func TestRecordsQueryAndBody(t *testing.T) {
	b := New(t)
	get(t, b, "/workouts?member_id=m1")
	resp, err := b.Client().Post(b.URL()+"/auth/login", "application/json", strings.NewReader(`{"email":"a@x.com","full_name":"Ann"}`))
	if err != nil {
		t.Fatalf("POST: %v", err)
	}
	resp.Body.Close()

	reqs := b.Requests()
	if len(reqs) != 2 {
		t.Fatalf("len(requests) = %d, want 2", len(reqs))
	}
	if reqs[0].Query != "member_id=m1" {
		t.Fatalf("query = %q, want member_id=m1", reqs[0].Query)
	}
	if !strings.Contains(string(reqs[1].Body), "a@x.com") {
		t.Fatalf("body = %s, want login payload", reqs[1].Body)
	}
}
