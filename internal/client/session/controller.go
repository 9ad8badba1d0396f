package session

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/gymmanager/internal/client/collections"
	"github.com/louisbranch/gymmanager/internal/client/gateway"
	"github.com/louisbranch/gymmanager/internal/client/identity"
	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/platform/i18n"
	"github.com/louisbranch/gymmanager/internal/platform/logging"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/message"
)

// Sample workout logged by AddWorkout.
const (
	SampleWorkoutName     = "Full Body"
	SampleWorkoutDuration = 45
)

// State is the identity state of a session.
type State string

const (
	StateAnonymous  State = "anonymous"
	StateIdentified State = "identified"
)

// Gateway is the backend surface the controller drives.
type Gateway interface {
	collections.Gateway
	identity.LoginGateway
	CreateWorkout(ctx context.Context, payload gym.NewWorkout) (gym.Workout, error)
	CreateBooking(ctx context.Context, payload gym.NewBooking) (gym.Booking, error)
}

// View is the session state handed to the presentation layer.
type View struct {
	State    State
	Member   gym.Member
	Plans    []gym.Plan
	Classes  []gym.Class
	Workouts []gym.Workout
	Bookings []gym.Booking
}

// Identified reports whether a member has been resolved.
func (v View) Identified() bool {
	return v.State == StateIdentified
}

// Controller owns the session state and the synchronized collections.
type Controller struct {
	gateway  Gateway
	resolver *identity.Resolver
	sync     *collections.Synchronizer
	notifier Notifier
	printer  *message.Printer
	now      func() time.Time
	logger   zerolog.Logger

	bootstrapOnce sync.Once
	bootstrapErr  error

	mu     sync.Mutex
	state  State
	member gym.Member
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where notices are posted.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) {
		if n != nil {
			c.notifier = n
		}
	}
}

// WithLocale sets the locale used for notice wording.
func WithLocale(locale string) Option {
	return func(c *Controller) {
		c.printer = i18n.Printer(locale)
	}
}

// WithClock sets the clock used to date workouts.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the controller logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// NewController creates an Anonymous controller over gw.
func NewController(gw Gateway, opts ...Option) *Controller {
	c := &Controller{
		gateway:  gw,
		resolver: identity.NewResolver(gw),
		notifier: discardNotifier{},
		printer:  i18n.Printer(i18n.BaseLocale),
		now:      time.Now,
		logger:   logging.Nop(),
		state:    StateAnonymous,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.ForComponent(c.logger, "session")
	c.sync = collections.NewSynchronizer(gw, collections.WithLogger(c.logger))
	return c
}

// State returns a consistent copy of the session.
func (c *Controller) State() View {
	c.mu.Lock()
	state, member := c.state, c.member
	c.mu.Unlock()
	snap := c.sync.Snapshot()
	return View{
		State:    state,
		Member:   member,
		Plans:    snap.Plans,
		Classes:  snap.Classes,
		Workouts: snap.Workouts,
		Bookings: snap.Bookings,
	}
}

// Bootstrap loads plans and classes concurrently. A failure in one does not
// stop the other; every failure is reported and the errors are joined. Only
// the first call does any work.
func (c *Controller) Bootstrap(ctx context.Context) error {
	c.bootstrapOnce.Do(func() {
		var plansErr, classesErr error
		var g errgroup.Group
		g.Go(func() error {
			plansErr = c.sync.RefreshPlans(ctx)
			return nil
		})
		g.Go(func() error {
			classesErr = c.sync.RefreshClasses(ctx)
			return nil
		})
		_ = g.Wait()

		if plansErr != nil {
			c.fail(plansErr, gateway.FallbackLoadPlans)
		}
		if classesErr != nil {
			c.fail(classesErr, gateway.FallbackLoadClasses)
		}
		c.bootstrapErr = errors.Join(plansErr, classesErr)
	})
	return c.bootstrapErr
}

// Login resolves the visitor by email and moves the session to Identified.
// An Identified session keeps its member and issues no request.
func (c *Controller) Login(ctx context.Context, email, fullName string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return c.warn(apperrors.CodeEmailRequired, "notice.email_required")
	}

	if member, ok := c.identified(); ok {
		c.info("notice.logged_in", member.FullName)
		return nil
	}

	member, err := c.resolver.Resolve(ctx, email, fullName)
	if err != nil {
		return c.fail(err, gateway.FallbackLogin)
	}

	c.mu.Lock()
	if c.state == StateIdentified {
		member = c.member
	} else {
		c.member = member
		c.state = StateIdentified
	}
	c.mu.Unlock()

	c.logger.Info().
		Str(logging.State, string(StateIdentified)).
		Str(logging.MemberID, member.ID).
		Msg("session identified")
	c.info("notice.logged_in", member.FullName)
	return nil
}

// AddWorkout logs the sample workout for today and reloads the member's
// workouts.
func (c *Controller) AddWorkout(ctx context.Context) error {
	member, ok := c.identified()
	if !ok {
		return c.warn(apperrors.CodeNotIdentified, "notice.not_identified")
	}

	payload := gym.NewWorkout{
		MemberID:        member.ID,
		Date:            c.now().UTC().Format(gym.DateLayout),
		WorkoutName:     SampleWorkoutName,
		DurationMinutes: SampleWorkoutDuration,
	}
	if _, err := c.gateway.CreateWorkout(ctx, payload); err != nil {
		return c.fail(err, gateway.FallbackAddWorkout)
	}
	if err := c.sync.RefreshWorkouts(ctx, member.ID); err != nil {
		return c.fail(err, gateway.FallbackLoadWorkouts)
	}
	c.info("notice.workout_added")
	return nil
}

// BookClass books the first loaded class and reloads the member's bookings.
func (c *Controller) BookClass(ctx context.Context) error {
	member, ok := c.identified()
	if !ok {
		return c.warn(apperrors.CodeNotIdentified, "notice.not_identified")
	}
	class, ok := c.sync.Classes.First()
	if !ok {
		return c.warn(apperrors.CodeNoClasses, "notice.no_classes")
	}

	payload := gym.NewBooking{MemberID: member.ID, ClassID: class.ID}
	if _, err := c.gateway.CreateBooking(ctx, payload); err != nil {
		return c.fail(err, gateway.FallbackBook)
	}
	if err := c.sync.RefreshBookings(ctx, member.ID); err != nil {
		return c.fail(err, gateway.FallbackLoadBookings)
	}
	c.info("notice.class_booked")
	return nil
}

func (c *Controller) identified() (gym.Member, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.member, c.state == StateIdentified
}

func (c *Controller) info(key string, args ...any) {
	c.notifier.Notify(Notice{Level: LevelInfo, Message: c.printer.Sprintf(key, args...)})
}

// warn posts a localized guard warning and returns it as an error.
func (c *Controller) warn(code apperrors.Code, key string) error {
	msg := c.printer.Sprintf(key)
	c.logger.Debug().Str(logging.Code, string(code)).Msg(msg)
	c.notifier.Notify(Notice{Level: LevelWarning, Message: msg})
	return apperrors.New(code, msg)
}

// fail posts err with its backend detail, or fallback when it has none.
func (c *Controller) fail(err error, fallback string) error {
	code := apperrors.CodeOf(err)
	msg := apperrors.UserMessage(err, fallback)
	c.logger.Warn().Err(err).Str(logging.Code, string(code)).Msg("action failed")
	c.notifier.Notify(Notice{Level: levelFor(code), Message: msg})
	return err
}
