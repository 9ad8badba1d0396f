package templates

import (
	"context"
	"strconv"

	"github.com/a-h/templ"
	"github.com/louisbranch/gymmanager/internal/gym"
)

// Route paths rendered into forms.
const (
	LoginPath    = "/login"
	WorkoutsPath = "/workouts"
	BookingsPath = "/bookings"
)

// Notice is a flash message shown above the page sections.
type Notice struct {
	Level   string
	Message string
}

// PageData is everything the dashboard renders.
type PageData struct {
	Lang       string
	Loc        Localizer
	APIBaseURL string
	Notices    []Notice
	// Member is nil until the visitor is identified.
	Member   *gym.Member
	Plans    []gym.Plan
	Classes  []gym.Class
	Workouts []gym.Workout
	Bookings []gym.Booking
}

// Page renders the full dashboard document.
func Page(data PageData) templ.Component {
	return component(func(ctx context.Context, h *htmlWriter) {
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", data.Lang)
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(T(data.Loc, "web.title"))
		h.raw(`</title></head><body class="min-h-screen bg-base-200"><div class="max-w-6xl mx-auto p-6 space-y-6">`)
		h.raw(`<header class="flex items-center justify-between py-4"><h1 class="text-2xl md:text-3xl font-bold">`)
		h.text(T(data.Loc, "web.title"))
		h.raw(`</h1><span id="api-base" class="text-xs opacity-70">`)
		h.text(T(data.Loc, "web.api", data.APIBaseURL))
		h.raw(`</span></header>`)
		h.component(ctx, Notices(data.Notices))
		h.raw(`<div class="grid md:grid-cols-2 gap-6">`)
		h.component(ctx, LoginSection(data.Loc, data.Member))
		h.component(ctx, PlansSection(data.Loc, data.Plans))
		h.raw(`</div><div class="grid md:grid-cols-2 gap-6">`)
		h.component(ctx, ClassesSection(data.Loc, data.Classes, len(data.Bookings)))
		h.component(ctx, WorkoutsSection(data.Loc, data.Workouts))
		h.raw(`</div></div></body></html>`)
	})
}

// Notices renders the flash banner. Nothing is written when empty.
func Notices(notices []Notice) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		if len(notices) == 0 {
			return
		}
		h.raw(`<div id="notices" class="space-y-2">`)
		for _, notice := range notices {
			h.raw(`<div role="alert"`)
			h.attr("class", "alert "+alertClass(notice.Level))
			h.attr("data-level", notice.Level)
			h.raw(`>`)
			h.text(notice.Message)
			h.raw(`</div>`)
		}
		h.raw(`</div>`)
	})
}

func alertClass(level string) string {
	switch level {
	case "warning":
		return "alert-warning"
	case "error":
		return "alert-error"
	default:
		return "alert-info"
	}
}

func section(id, title string, body func(h *htmlWriter)) templ.Component {
	return component(func(_ context.Context, h *htmlWriter) {
		h.raw(`<section`)
		h.attr("id", id)
		h.raw(` class="card bg-base-100 shadow-sm p-5"><h2 class="text-xl font-semibold mb-3">`)
		h.text(title)
		h.raw(`</h2><div class="space-y-3">`)
		body(h)
		h.raw(`</div></section>`)
	})
}

func postButton(h *htmlWriter, action, class, label string) {
	h.raw(`<form method="post"`)
	h.attr("action", action)
	h.raw(`><button type="submit"`)
	h.attr("class", "btn "+class)
	h.raw(`>`)
	h.text(label)
	h.raw(`</button></form>`)
}

func empty(h *htmlWriter, label string) {
	h.raw(`<div class="empty opacity-60">`)
	h.text(label)
	h.raw(`</div>`)
}

// LoginSection renders the login form and, once identified, the member name.
func LoginSection(loc Localizer, member *gym.Member) templ.Component {
	return section("login", T(loc, "web.login.title"), func(h *htmlWriter) {
		h.raw(`<form method="post"`)
		h.attr("action", LoginPath)
		h.raw(` class="space-y-3"><input type="email" name="email" class="input input-bordered w-full"`)
		h.attr("placeholder", T(loc, "web.login.email"))
		h.raw(`><input type="text" name="full_name" class="input input-bordered w-full"`)
		h.attr("placeholder", T(loc, "web.login.full_name"))
		h.raw(`><button type="submit" class="btn btn-primary">`)
		h.text(T(loc, "web.login.submit"))
		h.raw(`</button></form>`)
		if member != nil {
			h.raw(`<div id="member" class="text-sm">`)
			h.text(T(loc, "web.login.as"))
			h.raw(` <span class="font-medium">`)
			h.text(member.FullName)
			h.raw(`</span></div>`)
		}
	})
}

// PlansSection lists plans in backend order.
func PlansSection(loc Localizer, plans []gym.Plan) templ.Component {
	return section("plans", T(loc, "web.plans.title"), func(h *htmlWriter) {
		if len(plans) == 0 {
			empty(h, T(loc, "web.plans.empty"))
			return
		}
		for _, plan := range plans {
			h.raw(`<div class="plan p-3 rounded border flex items-center justify-between"`)
			h.attr("data-id", plan.ID)
			h.raw(`><div><div class="font-medium">`)
			h.text(plan.Title)
			h.raw(`</div><div class="price text-sm opacity-70">`)
			h.text(T(loc, "web.plans.price", FormatPrice(plan.Price), plan.DurationMonths))
			h.raw(`</div></div><span class="badge">`)
			h.text(plan.AccessLevel)
			h.raw(`</span></div>`)
		}
	})
}

// ClassesSection lists classes with the booking action and the booking count.
func ClassesSection(loc Localizer, classes []gym.Class, bookings int) templ.Component {
	return section("classes", T(loc, "web.classes.title"), func(h *htmlWriter) {
		if len(classes) == 0 {
			empty(h, T(loc, "web.classes.empty"))
		}
		for _, class := range classes {
			h.raw(`<div class="class p-3 rounded border"`)
			h.attr("data-id", class.ID)
			h.raw(`><div class="font-medium">`)
			h.text(class.Title)
			h.raw(`</div><div class="schedule text-xs opacity-70">`)
			h.text(class.StartTime + " → " + class.EndTime)
			h.raw(`</div></div>`)
		}
		postButton(h, BookingsPath, "btn-success", T(loc, "web.classes.book"))
		if bookings > 0 {
			h.raw(`<div id="bookings-count" class="text-sm">`)
			h.text(T(loc, "web.classes.bookings", bookings))
			h.raw(`</div>`)
		}
	})
}

// WorkoutsSection renders the workout log.
func WorkoutsSection(loc Localizer, workouts []gym.Workout) templ.Component {
	return section("workouts", T(loc, "web.workouts.title"), func(h *htmlWriter) {
		postButton(h, WorkoutsPath, "btn-secondary", T(loc, "web.workouts.add"))
		h.raw(`<div class="space-y-2 max-h-56 overflow-auto pr-2">`)
		if len(workouts) == 0 {
			empty(h, T(loc, "web.workouts.empty"))
		}
		for _, workout := range workouts {
			h.raw(`<div class="workout p-3 rounded border"`)
			h.attr("data-id", workout.ID)
			h.raw(`><div class="font-medium">`)
			h.text(workout.WorkoutName)
			h.raw(`</div><div class="meta text-xs opacity-70">`)
			h.text(T(loc, "web.workouts.meta", workout.Date, workout.DurationMinutes))
			h.raw(`</div></div>`)
		}
		h.raw(`</div>`)
	})
}

// FormatPrice renders a price without trailing zeros.
func FormatPrice(price float64) string {
	return strconv.FormatFloat(price, 'f', -1, 64)
}
