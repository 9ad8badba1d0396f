package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/platform/id"
	"github.com/louisbranch/gymmanager/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/gymmanager/internal/services/devbackend/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store implements dev backend persistence over SQLite.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() (string, error)
}

// Open opens the store at path and applies bundled migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := "file:" + filepath.Clean(path) +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if err := sqlitemigrate.Apply(context.Background(), db, migrations.FS); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now, newID: id.NewID}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) nextID(kind string) (string, error) {
	value, err := s.newID()
	if err != nil {
		return "", fmt.Errorf("generate %s id: %w", kind, err)
	}
	return value, nil
}

// UpsertMember returns the member stored under email, creating it with
// fullName when absent. An existing member's name is never changed.
func (s *Store) UpsertMember(ctx context.Context, email, fullName string) (gym.Member, error) {
	memberID, err := s.nextID("member")
	if err != nil {
		return gym.Member{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO members (id, email, full_name, created_at) VALUES (?, ?, ?, ?)
         ON CONFLICT(email) DO NOTHING`,
		memberID, email, fullName, s.now().UTC().UnixMilli(),
	); err != nil {
		return gym.Member{}, fmt.Errorf("upsert member: %w", err)
	}
	var member gym.Member
	err = s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name FROM members WHERE email = ?`, email,
	).Scan(&member.ID, &member.Email, &member.FullName)
	if err != nil {
		return gym.Member{}, fmt.Errorf("load member: %w", err)
	}
	return member, nil
}

// GetMember loads a member by id.
func (s *Store) GetMember(ctx context.Context, memberID string) (gym.Member, error) {
	var member gym.Member
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name FROM members WHERE id = ?`, memberID,
	).Scan(&member.ID, &member.Email, &member.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return gym.Member{}, apperrors.New(apperrors.CodeNotFound, "Member not found")
	}
	if err != nil {
		return gym.Member{}, fmt.Errorf("get member: %w", err)
	}
	return member, nil
}

// PutPlan inserts or replaces a plan. A plan without an id gets one.
func (s *Store) PutPlan(ctx context.Context, plan gym.Plan) (gym.Plan, error) {
	if plan.ID == "" {
		generated, err := s.nextID("plan")
		if err != nil {
			return gym.Plan{}, err
		}
		plan.ID = generated
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO plans (id, title, price, duration_months, access_level) VALUES (?, ?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET title = excluded.title, price = excluded.price,
             duration_months = excluded.duration_months, access_level = excluded.access_level`,
		plan.ID, plan.Title, plan.Price, plan.DurationMonths, plan.AccessLevel,
	); err != nil {
		return gym.Plan{}, fmt.Errorf("put plan: %w", err)
	}
	return plan, nil
}

// ListPlans returns every plan in insertion order.
func (s *Store) ListPlans(ctx context.Context) ([]gym.Plan, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, price, duration_months, access_level FROM plans ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()
	plans := []gym.Plan{}
	for rows.Next() {
		var plan gym.Plan
		if err := rows.Scan(&plan.ID, &plan.Title, &plan.Price, &plan.DurationMonths, &plan.AccessLevel); err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// PutClass inserts or replaces a class. A class without an id gets one.
func (s *Store) PutClass(ctx context.Context, class gym.Class) (gym.Class, error) {
	if class.ID == "" {
		generated, err := s.nextID("class")
		if err != nil {
			return gym.Class{}, err
		}
		class.ID = generated
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO classes (id, title, start_time, end_time) VALUES (?, ?, ?, ?)
         ON CONFLICT(id) DO UPDATE SET title = excluded.title,
             start_time = excluded.start_time, end_time = excluded.end_time`,
		class.ID, class.Title, class.StartTime, class.EndTime,
	); err != nil {
		return gym.Class{}, fmt.Errorf("put class: %w", err)
	}
	return class, nil
}

// GetClass loads a class by id.
func (s *Store) GetClass(ctx context.Context, classID string) (gym.Class, error) {
	var class gym.Class
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, start_time, end_time FROM classes WHERE id = ?`, classID,
	).Scan(&class.ID, &class.Title, &class.StartTime, &class.EndTime)
	if errors.Is(err, sql.ErrNoRows) {
		return gym.Class{}, apperrors.New(apperrors.CodeNotFound, "Class not found")
	}
	if err != nil {
		return gym.Class{}, fmt.Errorf("get class: %w", err)
	}
	return class, nil
}

// ListClasses returns every class in insertion order.
func (s *Store) ListClasses(ctx context.Context) ([]gym.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, start_time, end_time FROM classes ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	defer rows.Close()
	classes := []gym.Class{}
	for rows.Next() {
		var class gym.Class
		if err := rows.Scan(&class.ID, &class.Title, &class.StartTime, &class.EndTime); err != nil {
			return nil, fmt.Errorf("scan class: %w", err)
		}
		classes = append(classes, class)
	}
	return classes, rows.Err()
}

// CreateWorkout stores a workout for an existing member.
func (s *Store) CreateWorkout(ctx context.Context, input gym.NewWorkout) (gym.Workout, error) {
	workoutID, err := s.nextID("workout")
	if err != nil {
		return gym.Workout{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO workouts (id, member_id, date, workout_name, duration_minutes, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		workoutID, input.MemberID, input.Date, input.WorkoutName, input.DurationMinutes, s.now().UTC().UnixMilli(),
	); err != nil {
		return gym.Workout{}, fmt.Errorf("create workout: %w", err)
	}
	return gym.Workout{
		ID:              workoutID,
		MemberID:        input.MemberID,
		Date:            input.Date,
		WorkoutName:     input.WorkoutName,
		DurationMinutes: input.DurationMinutes,
	}, nil
}

// ListWorkouts returns workouts in insertion order, scoped to memberID when set.
func (s *Store) ListWorkouts(ctx context.Context, memberID string) ([]gym.Workout, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, date, workout_name, duration_minutes FROM workouts
         WHERE (?1 = '' OR member_id = ?1) ORDER BY seq`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()
	workouts := []gym.Workout{}
	for rows.Next() {
		var workout gym.Workout
		if err := rows.Scan(&workout.ID, &workout.MemberID, &workout.Date, &workout.WorkoutName, &workout.DurationMinutes); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		workouts = append(workouts, workout)
	}
	return workouts, rows.Err()
}

// CreateBooking stores a booking. Duplicate bookings are accepted.
func (s *Store) CreateBooking(ctx context.Context, input gym.NewBooking) (gym.Booking, error) {
	bookingID, err := s.nextID("booking")
	if err != nil {
		return gym.Booking{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO bookings (id, member_id, class_id, created_at) VALUES (?, ?, ?, ?)`,
		bookingID, input.MemberID, input.ClassID, s.now().UTC().UnixMilli(),
	); err != nil {
		return gym.Booking{}, fmt.Errorf("create booking: %w", err)
	}
	return gym.Booking{ID: bookingID, MemberID: input.MemberID, ClassID: input.ClassID}, nil
}

// ListBookings returns bookings in insertion order, scoped to memberID when set.
func (s *Store) ListBookings(ctx context.Context, memberID string) ([]gym.Booking, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, member_id, class_id FROM bookings
         WHERE (?1 = '' OR member_id = ?1) ORDER BY seq`, memberID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	bookings := []gym.Booking{}
	for rows.Next() {
		var booking gym.Booking
		if err := rows.Scan(&booking.ID, &booking.MemberID, &booking.ClassID); err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}
