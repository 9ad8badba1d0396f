package collections

import (
	"context"

	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/rs/zerolog"
)

// Gateway lists the backend collections.
type Gateway interface {
	ListPlans(ctx context.Context) ([]gym.Plan, error)
	ListClasses(ctx context.Context) ([]gym.Class, error)
	ListWorkouts(ctx context.Context, filter gym.Filter) ([]gym.Workout, error)
	ListBookings(ctx context.Context, filter gym.Filter) ([]gym.Booking, error)
}

// Snapshot is a point-in-time copy of all four collections.
type Snapshot struct {
	Plans    []gym.Plan
	Classes  []gym.Class
	Workouts []gym.Workout
	Bookings []gym.Booking
}

// Synchronizer refreshes local collections from the backend.
type Synchronizer struct {
	gateway Gateway
	logger  zerolog.Logger

	Plans    Collection[gym.Plan]
	Classes  Collection[gym.Class]
	Workouts Collection[gym.Workout]
	Bookings Collection[gym.Booking]
}

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithLogger sets the synchronizer logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(s *Synchronizer) {
		s.logger = logging.ForComponent(logger, "collections")
	}
}

// NewSynchronizer creates a Synchronizer with empty collections.
func NewSynchronizer(gw Gateway, opts ...Option) *Synchronizer {
	s := &Synchronizer{gateway: gw, logger: logging.Nop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Refresh reloads the collection named by kind and replaces it on success.
// The filter is ignored for plans and classes.
func (s *Synchronizer) Refresh(ctx context.Context, kind gym.Kind, filter gym.Filter) error {
	var err error
	switch kind {
	case gym.KindPlans:
		err = refresh(ctx, &s.Plans, func(ctx context.Context) ([]gym.Plan, error) {
			return s.gateway.ListPlans(ctx)
		})
	case gym.KindClasses:
		err = refresh(ctx, &s.Classes, func(ctx context.Context) ([]gym.Class, error) {
			return s.gateway.ListClasses(ctx)
		})
	case gym.KindWorkouts:
		err = refresh(ctx, &s.Workouts, func(ctx context.Context) ([]gym.Workout, error) {
			return s.gateway.ListWorkouts(ctx, filter)
		})
	case gym.KindBookings:
		err = refresh(ctx, &s.Bookings, func(ctx context.Context) ([]gym.Booking, error) {
			return s.gateway.ListBookings(ctx, filter)
		})
	default:
		return apperrors.WithMetadata(
			apperrors.CodeUnknownCollection,
			"Unknown collection",
			map[string]string{apperrors.MetaKind: string(kind)},
		)
	}
	if err != nil {
		s.logger.Warn().Err(err).Str(logging.Kind, string(kind)).Msg("refresh failed, keeping previous list")
		return err
	}
	s.logger.Debug().Str(logging.Kind, string(kind)).Msg("refreshed")
	return nil
}

func refresh[T any](ctx context.Context, into *Collection[T], list func(context.Context) ([]T, error)) error {
	items, err := list(ctx)
	if err != nil {
		return err
	}
	into.Replace(items)
	return nil
}

// RefreshPlans reloads every plan.
func (s *Synchronizer) RefreshPlans(ctx context.Context) error {
	return s.Refresh(ctx, gym.KindPlans, gym.Filter{})
}

// RefreshClasses reloads every class.
func (s *Synchronizer) RefreshClasses(ctx context.Context) error {
	return s.Refresh(ctx, gym.KindClasses, gym.Filter{})
}

// RefreshWorkouts reloads the workouts owned by memberID.
func (s *Synchronizer) RefreshWorkouts(ctx context.Context, memberID string) error {
	return s.Refresh(ctx, gym.KindWorkouts, gym.MemberFilter(memberID))
}

// RefreshBookings reloads the bookings owned by memberID.
func (s *Synchronizer) RefreshBookings(ctx context.Context, memberID string) error {
	return s.Refresh(ctx, gym.KindBookings, gym.MemberFilter(memberID))
}

// Snapshot copies all four collections.
func (s *Synchronizer) Snapshot() Snapshot {
	return Snapshot{
		Plans:    s.Plans.Items(),
		Classes:  s.Classes.Items(),
		Workouts: s.Workouts.Items(),
		Bookings: s.Bookings.Items(),
	}
}
