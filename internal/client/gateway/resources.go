package gateway

import (
	"context"
	"net/http"

	"github.com/louisbranch/gymmanager/internal/gym"
)

// Fallback messages used when a failed response carries no detail.
const (
	FallbackLogin        = "Login failed"
	FallbackAddWorkout   = "Failed to add workout"
	FallbackBook         = "Failed to book"
	FallbackLoadPlans    = "Failed to load plans"
	FallbackLoadClasses  = "Failed to load classes"
	FallbackLoadWorkouts = "Failed to load workouts"
	FallbackLoadBookings = "Failed to load bookings"
)

// ListPlans fetches every membership plan.
func (c *Client) ListPlans(ctx context.Context) ([]gym.Plan, error) {
	var body struct {
		Plans []gym.Plan `json:"plans"`
	}
	err := c.do(ctx, exchange{op: "list_plans", method: http.MethodGet, path: "/plans", fallback: FallbackLoadPlans}, &body)
	if err != nil {
		return nil, err
	}
	return nonNil(body.Plans), nil
}

// ListClasses fetches every scheduled class.
func (c *Client) ListClasses(ctx context.Context) ([]gym.Class, error) {
	var body struct {
		Classes []gym.Class `json:"classes"`
	}
	err := c.do(ctx, exchange{op: "list_classes", method: http.MethodGet, path: "/classes", fallback: FallbackLoadClasses}, &body)
	if err != nil {
		return nil, err
	}
	return nonNil(body.Classes), nil
}

// Login resolves an identity by email, creating the member when absent.
func (c *Client) Login(ctx context.Context, email, fullName string) (gym.Member, error) {
	request := struct {
		Email    string `json:"email"`
		FullName string `json:"full_name"`
	}{Email: email, FullName: fullName}
	var body struct {
		Member gym.Member `json:"member"`
	}
	err := c.do(ctx, exchange{op: "login", method: http.MethodPost, path: "/auth/login", body: request, fallback: FallbackLogin}, &body)
	if err != nil {
		return gym.Member{}, err
	}
	return body.Member, nil
}

// ListWorkouts fetches workouts matching filter.
func (c *Client) ListWorkouts(ctx context.Context, filter gym.Filter) ([]gym.Workout, error) {
	var body struct {
		Workouts []gym.Workout `json:"workouts"`
	}
	err := c.do(ctx, exchange{op: "list_workouts", method: http.MethodGet, path: "/workouts", filter: filter, fallback: FallbackLoadWorkouts}, &body)
	if err != nil {
		return nil, err
	}
	return nonNil(body.Workouts), nil
}

// CreateWorkout logs a workout and returns the stored record.
func (c *Client) CreateWorkout(ctx context.Context, payload gym.NewWorkout) (gym.Workout, error) {
	var created gym.Workout
	err := c.do(ctx, exchange{op: "create_workout", method: http.MethodPost, path: "/workouts", body: payload, fallback: FallbackAddWorkout}, &created)
	if err != nil {
		return gym.Workout{}, err
	}
	return created, nil
}

// ListBookings fetches bookings matching filter.
func (c *Client) ListBookings(ctx context.Context, filter gym.Filter) ([]gym.Booking, error) {
	var body struct {
		Bookings []gym.Booking `json:"bookings"`
	}
	err := c.do(ctx, exchange{op: "list_bookings", method: http.MethodGet, path: "/bookings", filter: filter, fallback: FallbackLoadBookings}, &body)
	if err != nil {
		return nil, err
	}
	return nonNil(body.Bookings), nil
}

// CreateBooking reserves a class for a member and returns the stored record.
func (c *Client) CreateBooking(ctx context.Context, payload gym.NewBooking) (gym.Booking, error) {
	var created gym.Booking
	err := c.do(ctx, exchange{op: "create_booking", method: http.MethodPost, path: "/bookings", body: payload, fallback: FallbackBook}, &created)
	if err != nil {
		return gym.Booking{}, err
	}
	return created, nil
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
