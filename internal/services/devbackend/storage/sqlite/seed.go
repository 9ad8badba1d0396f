package sqlite

import (
	"context"
	"fmt"

	"github.com/louisbranch/gymmanager/internal/gym"
)

// DefaultPlans are inserted by SeedDefaults.
var DefaultPlans = []gym.Plan{
	{Title: "Basic", Price: 20, DurationMonths: 1, AccessLevel: "basic"},
	{Title: "Plus", Price: 50, DurationMonths: 3, AccessLevel: "standard"},
	{Title: "Premium", Price: 180, DurationMonths: 12, AccessLevel: "premium"},
}

// DefaultClasses are inserted by SeedDefaults.
var DefaultClasses = []gym.Class{
	{Title: "Morning Yoga", StartTime: "2026-10-20T07:00:00", EndTime: "2026-10-20T08:00:00"},
	{Title: "HIIT", StartTime: "2026-10-20T18:00:00", EndTime: "2026-10-20T18:45:00"},
	{Title: "Spin", StartTime: "2026-10-21T12:00:00", EndTime: "2026-10-21T12:50:00"},
}

// SeedDefaults inserts the sample plans and classes into an empty store.
// A store that already has plans is left alone.
func (s *Store) SeedDefaults(ctx context.Context) error {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM plans`).Scan(&count); err != nil {
		return fmt.Errorf("count plans: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, plan := range DefaultPlans {
		if _, err := s.PutPlan(ctx, plan); err != nil {
			return err
		}
	}
	for _, class := range DefaultClasses {
		if _, err := s.PutClass(ctx, class); err != nil {
			return err
		}
	}
	return nil
}
