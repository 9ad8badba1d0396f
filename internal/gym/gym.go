// Package gym defines the records exchanged with the gym-management backend.
//
// Identifiers follow the backend's `_id` convention. Decoding also accepts a
// plain `id` key so records from backends without the underscore still carry
// their identity.
package gym

import (
	"encoding/json"
	"strings"
)

// Kind names one of the resource collections the client keeps in sync.
type Kind string

const (
	KindPlans    Kind = "plans"
	KindClasses  Kind = "classes"
	KindWorkouts Kind = "workouts"
	KindBookings Kind = "bookings"
)

// Kinds lists every collection kind in display order.
func Kinds() []Kind {
	return []Kind{KindPlans, KindClasses, KindWorkouts, KindBookings}
}

// FieldMemberID is the filter field used to scope member-owned collections.
const FieldMemberID = "member_id"

// Filter is an optional equality predicate on a single field.
// The zero value matches everything.
type Filter struct {
	Field string
	Value string
}

// MemberFilter scopes a list call to one member.
func MemberFilter(memberID string) Filter {
	return Filter{Field: FieldMemberID, Value: memberID}
}

// IsZero reports whether the filter is empty.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Field) == ""
}

// Member is a resolved identity, keyed by email.
type Member struct {
	ID       string `json:"_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// Plan is a read-only membership plan.
type Plan struct {
	ID             string  `json:"_id"`
	Title          string  `json:"title"`
	Price          float64 `json:"price"`
	DurationMonths int     `json:"duration_months"`
	AccessLevel    string  `json:"access_level"`
}

// Class is a read-only scheduled class.
type Class struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
}

// Workout is a logged workout owned by a member.
type Workout struct {
	ID              string `json:"_id"`
	MemberID        string `json:"member_id"`
	Date            string `json:"date"`
	WorkoutName     string `json:"workout_name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// Booking reserves a class slot for a member.
type Booking struct {
	ID       string `json:"_id"`
	MemberID string `json:"member_id"`
	ClassID  string `json:"class_id"`
}

// NewWorkout is the creatable subset of a Workout.
type NewWorkout struct {
	MemberID        string `json:"member_id"`
	Date            string `json:"date"`
	WorkoutName     string `json:"workout_name"`
	DurationMinutes int    `json:"duration_minutes"`
}

// NewBooking is the creatable subset of a Booking.
type NewBooking struct {
	MemberID string `json:"member_id"`
	ClassID  string `json:"class_id"`
}

// DateLayout is the calendar date format used for workout dates.
const DateLayout = "2006-01-02"

type altID struct {
	ID string `json:"id"`
}

// fallbackID returns primary when set, otherwise the plain `id` key from data.
func fallbackID(primary string, data []byte) string {
	if primary != "" {
		return primary
	}
	var alt altID
	if err := json.Unmarshal(data, &alt); err != nil {
		return ""
	}
	return alt.ID
}

// UnmarshalJSON decodes a member, accepting `id` when `_id` is absent.
func (m *Member) UnmarshalJSON(data []byte) error {
	type plain Member
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	out.ID = fallbackID(out.ID, data)
	*m = Member(out)
	return nil
}

// UnmarshalJSON decodes a plan, accepting `id` when `_id` is absent.
func (p *Plan) UnmarshalJSON(data []byte) error {
	type plain Plan
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	out.ID = fallbackID(out.ID, data)
	*p = Plan(out)
	return nil
}

// UnmarshalJSON decodes a class, accepting `id` when `_id` is absent.
func (c *Class) UnmarshalJSON(data []byte) error {
	type plain Class
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	out.ID = fallbackID(out.ID, data)
	*c = Class(out)
	return nil
}

// UnmarshalJSON decodes a workout, accepting `id` when `_id` is absent.
func (w *Workout) UnmarshalJSON(data []byte) error {
	type plain Workout
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	out.ID = fallbackID(out.ID, data)
	*w = Workout(out)
	return nil
}

// UnmarshalJSON decodes a booking, accepting `id` when `_id` is absent.
func (b *Booking) UnmarshalJSON(data []byte) error {
	type plain Booking
	var out plain
	if err := json.Unmarshal(data, &out); err != nil {
		return err
	}
	out.ID = fallbackID(out.ID, data)
	*b = Booking(out)
	return nil
}
