package collections

import (
	"context"
	"net/http"
	"testing"

	"github.com/louisbranch/gymmanager/internal/client/gateway"
	"github.com/louisbranch/gymmanager/internal/gym"
	apperrors "github.com/louisbranch/gymmanager/internal/platform/errors"
	"github.com/louisbranch/gymmanager/internal/testkit/fakebackend"
)

type stubGateway struct {
	plans      []gym.Plan
	plansErr   error
	classes    []gym.Class
	classesErr error
	workouts   []gym.Workout
	bookings   []gym.Booking
	filters    []gym.Filter
}

func (s *stubGateway) ListPlans(context.Context) ([]gym.Plan, error) {
	return s.plans, s.plansErr
}

func (s *stubGateway) ListClasses(context.Context) ([]gym.Class, error) {
	return s.classes, s.classesErr
}

func (s *stubGateway) ListWorkouts(_ context.Context, filter gym.Filter) ([]gym.Workout, error) {
	s.filters = append(s.filters, filter)
	return s.workouts, nil
}

func (s *stubGateway) ListBookings(_ context.Context, filter gym.Filter) ([]gym.Booking, error) {
	s.filters = append(s.filters, filter)
	return s.bookings, nil
}

func TestRefreshReplacesCollection(t *testing.T) {
	gw := &stubGateway{plans: []gym.Plan{{ID: "p1"}, {ID: "p2"}}}
	syncer := NewSynchronizer(gw)

	if err := syncer.RefreshPlans(context.Background()); err != nil {
		t.Fatalf("RefreshPlans: %v", err)
	}
	gw.plans = []gym.Plan{{ID: "p3"}}
	if err := syncer.RefreshPlans(context.Background()); err != nil {
		t.Fatalf("RefreshPlans: %v", err)
	}
	plans := syncer.Plans.Items()
	if len(plans) != 1 || plans[0].ID != "p3" {
		t.Fatalf("plans = %+v, want only p3", plans)
	}
}

func TestFailedRefreshKeepsPreviousList(t *testing.T) {
	gw := &stubGateway{classes: []gym.Class{{ID: "c1"}}}
	syncer := NewSynchronizer(gw)
	if err := syncer.RefreshClasses(context.Background()); err != nil {
		t.Fatalf("RefreshClasses: %v", err)
	}

	gw.classesErr = apperrors.New(apperrors.CodeRemoteFailure, "down")
	err := syncer.RefreshClasses(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeRemoteFailure {
		t.Fatalf("code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeRemoteFailure)
	}
	classes := syncer.Classes.Items()
	if len(classes) != 1 || classes[0].ID != "c1" {
		t.Fatalf("classes = %+v, want previous c1", classes)
	}
}

func TestFailedFirstRefreshStaysUnloaded(t *testing.T) {
	gw := &stubGateway{plansErr: apperrors.New(apperrors.CodeTransportFailure, "offline")}
	syncer := NewSynchronizer(gw)
	if err := syncer.RefreshPlans(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if syncer.Plans.Loaded() {
		t.Fatal("expected plans to stay unloaded")
	}
}

func TestMemberRefreshesSendMemberFilter(t *testing.T) {
	gw := &stubGateway{}
	syncer := NewSynchronizer(gw)
	if err := syncer.RefreshWorkouts(context.Background(), "m1"); err != nil {
		t.Fatalf("RefreshWorkouts: %v", err)
	}
	if err := syncer.RefreshBookings(context.Background(), "m1"); err != nil {
		t.Fatalf("RefreshBookings: %v", err)
	}
	want := gym.MemberFilter("m1")
	if len(gw.filters) != 2 || gw.filters[0] != want || gw.filters[1] != want {
		t.Fatalf("filters = %+v, want two %+v", gw.filters, want)
	}
}

func TestRefreshUnknownKind(t *testing.T) {
	syncer := NewSynchronizer(&stubGateway{})
	err := syncer.Refresh(context.Background(), gym.Kind("trainers"), gym.Filter{})
	derr, ok := apperrors.As(err)
	if !ok || derr.Code != apperrors.CodeUnknownCollection {
		t.Fatalf("err = %v, want %s", err, apperrors.CodeUnknownCollection)
	}
	if derr.Metadata[apperrors.MetaKind] != "trainers" {
		t.Fatalf("kind metadata = %q, want trainers", derr.Metadata[apperrors.MetaKind])
	}
}

func TestSnapshotCopiesEveryCollection(t *testing.T) {
	gw := &stubGateway{
		plans:    []gym.Plan{{ID: "p1"}},
		classes:  []gym.Class{{ID: "c1"}},
		workouts: []gym.Workout{{ID: "w1"}},
		bookings: []gym.Booking{{ID: "b1"}},
	}
	syncer := NewSynchronizer(gw)
	for _, kind := range gym.Kinds() {
		if err := syncer.Refresh(context.Background(), kind, gym.MemberFilter("m1")); err != nil {
			t.Fatalf("Refresh(%s): %v", kind, err)
		}
	}
	snap := syncer.Snapshot()
	if len(snap.Plans) != 1 || len(snap.Classes) != 1 || len(snap.Workouts) != 1 || len(snap.Bookings) != 1 {
		t.Fatalf("snapshot = %+v, want one of each", snap)
	}
}

// Backend answers plans then fails classes: plans are shown, classes stay
// empty, and the class failure is reported.
func TestPartialBootstrapAgainstBackend(t *testing.T) {
	backend := fakebackend.New(t)
	backend.SeedPlans(gym.Plan{ID: "p1", Title: "Basic", Price: 20, DurationMonths: 1, AccessLevel: "basic"})
	backend.Fail("GET /classes", http.StatusInternalServerError, "")

	client, err := gateway.New(backend.URL(), gateway.WithHTTPClient(backend.Client()))
	if err != nil {
		t.Fatalf("gateway: %v", err)
	}
	syncer := NewSynchronizer(client)

	if err := syncer.RefreshPlans(context.Background()); err != nil {
		t.Fatalf("RefreshPlans: %v", err)
	}
	err = syncer.RefreshClasses(context.Background())
	if apperrors.CodeOf(err) != apperrors.CodeRemoteFailure {
		t.Fatalf("classes code = %q, want %q", apperrors.CodeOf(err), apperrors.CodeRemoteFailure)
	}
	if got := apperrors.UserMessage(err, ""); got != gateway.FallbackLoadClasses {
		t.Fatalf("message = %q, want %q", got, gateway.FallbackLoadClasses)
	}
	if plans := syncer.Plans.Items(); len(plans) != 1 || plans[0].Title != "Basic" {
		t.Fatalf("plans = %+v, want Basic", plans)
	}
	if syncer.Classes.Len() != 0 {
		t.Fatalf("classes = %d, want empty", syncer.Classes.Len())
	}
}
