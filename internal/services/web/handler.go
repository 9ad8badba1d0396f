package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/louisbranch/gymmanager/internal/client/session"
	"github.com/louisbranch/gymmanager/internal/platform/i18n"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	platformotel "github.com/louisbranch/gymmanager/internal/platform/otel"
	"github.com/louisbranch/gymmanager/internal/services/web/templates"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/message"
)

// maxFormBytes bounds posted form bodies.
const maxFormBytes = 64 << 10

// SessionFactory builds the controller for a new visitor. Outcomes are
// posted to the given notifier.
type SessionFactory func(notifier session.Notifier) *session.Controller

// Dependencies wires the handler to its session factory.
type Dependencies struct {
	NewSession SessionFactory
	APIBaseURL string
	Locale     string
	Logger     zerolog.Logger
	// SessionTTL expires idle visitors. Zero uses defaultSessionTTL.
	SessionTTL time.Duration
}

type handler struct {
	newSession SessionFactory
	visitors   *visitorStore
	apiBaseURL string
	lang       string
	loc        *message.Printer
	logger     zerolog.Logger
	tracer     trace.Tracer
}

// NewHandler creates the dashboard HTTP handler.
func NewHandler(deps Dependencies) (http.Handler, error) {
	if deps.NewSession == nil {
		return nil, errors.New("session factory is required")
	}
	h := &handler{
		newSession: deps.NewSession,
		visitors:   newVisitorStore(deps.SessionTTL),
		apiBaseURL: deps.APIBaseURL,
		lang:       i18n.ParseLocale(deps.Locale).String(),
		loc:        i18n.Printer(deps.Locale),
		logger:     logging.ForComponent(deps.Logger, "web"),
		tracer:     platformotel.Tracer("web"),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.handleHealth)
	mux.HandleFunc("GET /{$}", h.handleDashboard)
	mux.HandleFunc("POST "+templates.LoginPath, h.handleLogin)
	mux.HandleFunc("POST "+templates.WorkoutsPath, h.handleAddWorkout)
	mux.HandleFunc("POST "+templates.BookingsPath, h.handleBookClass)
	return h.instrument(mux), nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument opens a server span per request and logs the outcome.
func (h *handler) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := h.tracer.Start(ctx, "web "+r.Method+" "+r.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		h.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", rec.status).
			Dur("elapsed", time.Since(started)).
			Msg("request")
	})
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// visitor returns the caller's session, starting a new Anonymous one when
// the request carries no valid session cookie.
func (h *handler) visitor(w http.ResponseWriter, r *http.Request) (*visitor, bool) {
	if v := visitorFromRequest(r, h.visitors); v != nil {
		return v, true
	}
	inbox := &session.Inbox{}
	v := &visitor{controller: h.newSession(inbox), inbox: inbox}
	visitorID, err := h.visitors.create(v)
	if err != nil {
		h.logger.Error().Err(err).Msg("create visitor session")
		http.Error(w, "session unavailable", http.StatusInternalServerError)
		return nil, false
	}
	setSessionCookie(w, visitorID)
	return v, true
}

func (h *handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	// Bootstrap outlives the first request so a dropped connection does not
	// leave the session without plans and classes.
	_ = v.controller.Bootstrap(context.WithoutCancel(r.Context()))

	view := v.controller.State()
	data := templates.PageData{
		Lang:       h.lang,
		Loc:        h.loc,
		APIBaseURL: h.apiBaseURL,
		Notices:    toTemplateNotices(v.inbox.Drain()),
		Plans:      view.Plans,
		Classes:    view.Classes,
		Workouts:   view.Workouts,
		Bookings:   view.Bookings,
	}
	if view.Identified() {
		member := view.Member
		data.Member = &member
	}
	w.Header().Set("Cache-Control", "no-store")
	templ.Handler(templates.Page(data)).ServeHTTP(w, r)
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	_ = v.controller.Login(r.Context(), r.PostFormValue("email"), r.PostFormValue("full_name"))
	redirectHome(w, r)
}

func (h *handler) handleAddWorkout(w http.ResponseWriter, r *http.Request) {
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	_ = v.controller.AddWorkout(r.Context())
	redirectHome(w, r)
}

func (h *handler) handleBookClass(w http.ResponseWriter, r *http.Request) {
	v, ok := h.visitor(w, r)
	if !ok {
		return
	}
	_ = v.controller.BookClass(r.Context())
	redirectHome(w, r)
}

// redirectHome finishes a form post. Outcomes were already posted to the
// inbox and render on the next dashboard load.
func redirectHome(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func toTemplateNotices(notices []session.Notice) []templates.Notice {
	if len(notices) == 0 {
		return nil
	}
	out := make([]templates.Notice, 0, len(notices))
	for _, notice := range notices {
		out = append(out, templates.Notice{Level: string(notice.Level), Message: notice.Message})
	}
	return out
}
