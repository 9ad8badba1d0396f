package devbackend

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/rs/zerolog"
)

// maxRequestBytes bounds decoded request bodies.
const maxRequestBytes = 1 << 20

// Store is the persistence the handler needs.
type Store interface {
	UpsertMember(ctx context.Context, email, fullName string) (gym.Member, error)
	GetMember(ctx context.Context, memberID string) (gym.Member, error)
	ListPlans(ctx context.Context) ([]gym.Plan, error)
	ListClasses(ctx context.Context) ([]gym.Class, error)
	GetClass(ctx context.Context, classID string) (gym.Class, error)
	ListWorkouts(ctx context.Context, memberID string) ([]gym.Workout, error)
	CreateWorkout(ctx context.Context, input gym.NewWorkout) (gym.Workout, error)
	ListBookings(ctx context.Context, memberID string) ([]gym.Booking, error)
	CreateBooking(ctx context.Context, input gym.NewBooking) (gym.Booking, error)
}

type handler struct {
	store  Store
	logger zerolog.Logger
}

// NewHandler returns the HTTP handler serving the backend contract.
func NewHandler(store Store, logger zerolog.Logger) http.Handler {
	h := &handler{store: store, logger: logging.ForComponent(logger, "devbackend")}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.health)
	mux.HandleFunc("GET /plans", h.listPlans)
	mux.HandleFunc("GET /classes", h.listClasses)
	mux.HandleFunc("POST /auth/login", h.login)
	mux.HandleFunc("GET /workouts", h.listWorkouts)
	mux.HandleFunc("POST /workouts", h.createWorkout)
	mux.HandleFunc("GET /bookings", h.listBookings)
	mux.HandleFunc("POST /bookings", h.createBooking)
	return h.logRequests(mux)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handler) listPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.store.ListPlans(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gym.Plan{"plans": plans})
}

func (h *handler) listClasses(w http.ResponseWriter, r *http.Request) {
	classes, err := h.store.ListClasses(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gym.Class{"classes": classes})
}

type loginRequest struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	email, err := normalizeEmail(req.Email)
	if err != nil {
		h.writeError(w, err)
		return
	}
	member, err := h.store.UpsertMember(r.Context(), email, strings.TrimSpace(req.FullName))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]gym.Member{"member": member})
}

func (h *handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	workouts, err := h.store.ListWorkouts(r.Context(), r.URL.Query().Get(gym.FieldMemberID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gym.Workout{"workouts": workouts})
}

func (h *handler) createWorkout(w http.ResponseWriter, r *http.Request) {
	var req gym.NewWorkout
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := validateWorkout(req); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.store.GetMember(r.Context(), req.MemberID); err != nil {
		h.writeError(w, err)
		return
	}
	workout, err := h.store.CreateWorkout(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, workout)
}

func (h *handler) listBookings(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.store.ListBookings(r.Context(), r.URL.Query().Get(gym.FieldMemberID))
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]gym.Booking{"bookings": bookings})
}

func (h *handler) createBooking(w http.ResponseWriter, r *http.Request) {
	var req gym.NewBooking
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if strings.TrimSpace(req.MemberID) == "" || strings.TrimSpace(req.ClassID) == "" {
		h.writeError(w, apperrors.New(apperrors.CodeInvalidArgument, "member_id and class_id are required"))
		return
	}
	if _, err := h.store.GetMember(r.Context(), req.MemberID); err != nil {
		h.writeError(w, err)
		return
	}
	if _, err := h.store.GetClass(r.Context(), req.ClassID); err != nil {
		h.writeError(w, err)
		return
	}
	booking, err := h.store.CreateBooking(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" || domain == "" || strings.Contains(domain, "@") {
		return "", apperrors.New(apperrors.CodeInvalidArgument, "Invalid email address")
	}
	return email, nil
}

func validateWorkout(req gym.NewWorkout) error {
	switch {
	case strings.TrimSpace(req.MemberID) == "":
		return apperrors.New(apperrors.CodeInvalidArgument, "member_id is required")
	case strings.TrimSpace(req.WorkoutName) == "":
		return apperrors.New(apperrors.CodeInvalidArgument, "workout_name is required")
	case req.DurationMinutes <= 0:
		return apperrors.New(apperrors.CodeInvalidArgument, "duration_minutes must be positive")
	}
	if _, err := time.Parse(gym.DateLayout, req.Date); err != nil {
		return apperrors.New(apperrors.CodeInvalidArgument, "date must be YYYY-MM-DD")
	}
	return nil
}

func decodeBody(w http.ResponseWriter, r *http.Request, target any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(target); err != nil {
		return apperrors.Wrap(apperrors.CodeInvalidArgument, "Invalid request body", err)
	}
	return nil
}

func (h *handler) writeError(w http.ResponseWriter, err error) {
	derr, ok := apperrors.As(err)
	if !ok || derr.Code == apperrors.CodeUnknown {
		h.logger.Error().Err(err).Msg("unhandled backend error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "Internal server error"})
		return
	}
	writeJSON(w, derr.Code.HTTPStatus(), map[string]string{"detail": derr.Message})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
