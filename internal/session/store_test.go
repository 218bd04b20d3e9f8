package session

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
)

func newTestStore(ttl time.Duration) (*Store, *time.Time) {
	logger, _ := test.NewNullLogger()
	s := NewStore(Options{MapsAPIKey: "key", TTL: ttl, Logger: logger})
	clock := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return clock }
	return s, &clock
}

func TestGetOrCreate(t *testing.T) {
	s, _ := newTestStore(time.Hour)

	first, created := s.GetOrCreate("")
	if !created || first.ID == "" || first.Controller == nil {
		t.Fatalf("expected a new session, got %+v", first)
	}

	again, created := s.GetOrCreate(first.ID)
	if created || again != first {
		t.Error("expected the existing session")
	}

	other, created := s.GetOrCreate("unknown-id")
	if !created || other.ID == first.ID {
		t.Error("an unknown id should start a new session")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	s, _ := newTestStore(time.Hour)
	a := s.Create()
	b := s.Create()

	a.Controller.AddWaypoint("Boston")
	if got := len(b.Controller.Snapshot().Waypoints); got != 0 {
		t.Errorf("second session sees %d waypoints", got)
	}
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)
	idle := s.Create()

	*clock = clock.Add(5 * time.Minute)
	active := s.Create()

	*clock = clock.Add(6 * time.Minute)
	if n := s.Sweep(); n != 1 {
		t.Fatalf("Sweep() = %d, want 1", n)
	}
	if _, ok := s.Get(idle.ID); ok {
		t.Error("idle session should be gone")
	}
	if _, ok := s.Get(active.ID); !ok {
		t.Error("active session should survive")
	}
}

func TestGetRefreshesLastSeen(t *testing.T) {
	s, clock := newTestStore(10 * time.Minute)
	sess := s.Create()

	*clock = clock.Add(8 * time.Minute)
	if _, ok := s.Get(sess.ID); !ok {
		t.Fatal("session should still be live")
	}

	*clock = clock.Add(8 * time.Minute)
	if _, ok := s.Get(sess.ID); !ok {
		t.Error("Get should have extended the session")
	}

	*clock = clock.Add(11 * time.Minute)
	if _, ok := s.Get(sess.ID); ok {
		t.Error("expired session returned")
	}
}
