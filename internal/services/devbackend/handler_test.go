package devbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/louisbranch/gymmanager/internal/gym"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/louisbranch/gymmanager/internal/services/devbackend/storage/sqlite"
)

func newTestHandler(t *testing.T) (http.Handler, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "devbackend.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewHandler(store, logging.Nop()), store
}

func serve(t *testing.T, handler http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func decodeDetail(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var payload struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode detail from %q: %v", w.Body.String(), err)
	}
	return payload.Detail
}

func login(t *testing.T, handler http.Handler, email, name string) gym.Member {
	t.Helper()
	w := serve(t, handler, http.MethodPost, "/auth/login", `{"email":"`+email+`","full_name":"`+name+`"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("login status = %d, body %s", w.Code, w.Body.String())
	}
	var payload struct {
		Member gym.Member `json:"member"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode member: %v", err)
	}
	return payload.Member
}

func TestHealthz(t *testing.T) {
	handler, _ := newTestHandler(t)
	w := serve(t, handler, http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestListPlansWrapsCollection(t *testing.T) {
	handler, store := newTestHandler(t)
	if err := store.SeedDefaults(context.Background()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	w := serve(t, handler, http.MethodGet, "/plans", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	var payload struct {
		Plans []gym.Plan `json:"plans"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Plans) != len(sqlite.DefaultPlans) {
		t.Fatalf("len(plans) = %d, want %d", len(payload.Plans), len(sqlite.DefaultPlans))
	}
	if payload.Plans[0].Title != "Basic" || payload.Plans[0].ID == "" {
		t.Fatalf("plans[0] = %+v, want identified Basic plan", payload.Plans[0])
	}
	if !strings.Contains(w.Body.String(), `"_id"`) {
		t.Fatalf("body %s does not use _id keys", w.Body.String())
	}
}

func TestListClassesEmptyStoreIsEmptyArray(t *testing.T) {
	handler, _ := newTestHandler(t)
	w := serve(t, handler, http.MethodGet, "/classes", "")
	if got := strings.TrimSpace(w.Body.String()); got != `{"classes":[]}` {
		t.Fatalf("body = %s, want empty classes array", got)
	}
}

func TestLoginIsIdempotentPerEmail(t *testing.T) {
	handler, _ := newTestHandler(t)
	first := login(t, handler, "A@X.com ", "Ann")
	second := login(t, handler, "a@x.com", "Someone Else")
	if first.ID != second.ID {
		t.Fatalf("ids = %q and %q, want same member", first.ID, second.ID)
	}
	if second.Email != "a@x.com" || second.FullName != "Ann" {
		t.Fatalf("member = %+v, want normalized email and original name", second)
	}
}

func TestLoginRejectsInvalidInput(t *testing.T) {
	handler, _ := newTestHandler(t)
	tests := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "blank email", body: `{"email":"","full_name":"Ann"}`, detail: "Invalid email address"},
		{name: "no at sign", body: `{"email":"ann.example.com","full_name":"Ann"}`, detail: "Invalid email address"},
		{name: "malformed json", body: `{"email":`, detail: "Invalid request body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, handler, http.MethodPost, "/auth/login", tt.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if got := decodeDetail(t, w); got != tt.detail {
				t.Fatalf("detail = %q, want %q", got, tt.detail)
			}
		})
	}
}

func TestWorkoutsAreScopedByMember(t *testing.T) {
	handler, _ := newTestHandler(t)
	ann := login(t, handler, "a@x.com", "Ann")
	bob := login(t, handler, "b@x.com", "Bob")

	body := `{"member_id":"` + ann.ID + `","date":"2026-10-19","workout_name":"Full Body","duration_minutes":45}`
	w := serve(t, handler, http.MethodPost, "/workouts", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", w.Code, w.Body.String())
	}

	for _, tt := range []struct {
		memberID string
		want     int
	}{{ann.ID, 1}, {bob.ID, 0}} {
		w := serve(t, handler, http.MethodGet, "/workouts?member_id="+tt.memberID, "")
		var payload struct {
			Workouts []gym.Workout `json:"workouts"`
		}
		if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if len(payload.Workouts) != tt.want {
			t.Fatalf("workouts for %s = %d, want %d", tt.memberID, len(payload.Workouts), tt.want)
		}
	}
}

func TestCreateWorkoutValidation(t *testing.T) {
	handler, _ := newTestHandler(t)
	ann := login(t, handler, "a@x.com", "Ann")
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{name: "unknown member", body: `{"member_id":"ghost","date":"2026-10-19","workout_name":"Run","duration_minutes":30}`, status: http.StatusNotFound},
		{name: "bad date", body: `{"member_id":"` + ann.ID + `","date":"19/10/2026","workout_name":"Run","duration_minutes":30}`, status: http.StatusBadRequest},
		{name: "no name", body: `{"member_id":"` + ann.ID + `","date":"2026-10-19","workout_name":" ","duration_minutes":30}`, status: http.StatusBadRequest},
		{name: "zero duration", body: `{"member_id":"` + ann.ID + `","date":"2026-10-19","workout_name":"Run","duration_minutes":0}`, status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(t, handler, http.MethodPost, "/workouts", tt.body)
			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.status, w.Body.String())
			}
			if decodeDetail(t, w) == "" {
				t.Fatal("expected a detail message")
			}
		})
	}
}

func TestCreateBookingRequiresKnownClass(t *testing.T) {
	handler, store := newTestHandler(t)
	ann := login(t, handler, "a@x.com", "Ann")
	class, err := store.PutClass(context.Background(), gym.Class{ID: "c1", Title: "Yoga"})
	if err != nil {
		t.Fatalf("put class: %v", err)
	}

	w := serve(t, handler, http.MethodPost, "/bookings", `{"member_id":"`+ann.ID+`","class_id":"missing"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if got := decodeDetail(t, w); got != "Class not found" {
		t.Fatalf("detail = %q, want %q", got, "Class not found")
	}

	for range 2 {
		w = serve(t, handler, http.MethodPost, "/bookings", `{"member_id":"`+ann.ID+`","class_id":"`+class.ID+`"}`)
		if w.Code != http.StatusCreated {
			t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
		}
	}
	w = serve(t, handler, http.MethodGet, "/bookings?member_id="+ann.ID, "")
	var payload struct {
		Bookings []gym.Booking `json:"bookings"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(payload.Bookings) != 2 {
		t.Fatalf("len(bookings) = %d, want duplicates kept", len(payload.Bookings))
	}
}

func TestCreateBookingRequiresIDs(t *testing.T) {
	handler, _ := newTestHandler(t)
	w := serve(t, handler, http.MethodPost, "/bookings", `{"member_id":""}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestUnsupportedMethodIsRejected(t *testing.T) {
	handler, _ := newTestHandler(t)
	w := serve(t, handler, http.MethodDelete, "/plans", "")
	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusMethodNotAllowed)
	}
}
