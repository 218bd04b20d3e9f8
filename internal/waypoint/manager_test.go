package waypoint

import (
	"testing"
	"time"
)

// manualScheduler records callbacks so tests decide when time passes.
type manualScheduler struct {
	delays  []time.Duration
	pending []func()
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) {
	s.delays = append(s.delays, d)
	s.pending = append(s.pending, f)
}

func (s *manualScheduler) fire() {
	pending := s.pending
	s.pending = nil
	for _, f := range pending {
		f()
	}
}

func TestAddAssignsSequentialIDs(t *testing.T) {
	m := NewManager(&manualScheduler{})

	a := m.Add("")
	b := m.Add("Boston")
	if a.ID != "waypoint-0" || b.ID != "waypoint-1" {
		t.Fatalf("ids = %q, %q", a.ID, b.ID)
	}
	if a.Placeholder != "Enter stop 1" || b.Placeholder != "Enter stop 2" {
		t.Errorf("placeholders = %q, %q", a.Placeholder, b.Placeholder)
	}
	if b.Value != "Boston" || !b.Autocomplete {
		t.Errorf("field = %+v", b)
	}
}

func TestRemoveFadesThenDeletes(t *testing.T) {
	sched := &manualScheduler{}
	m := NewManager(sched)
	first := m.Add("A")
	m.Add("B")

	if !m.Remove(first.ID) {
		t.Fatal("Remove returned false for a known id")
	}
	fields := m.Fields()
	if len(fields) != 2 || !fields[0].Fading {
		t.Fatalf("row should still be present while fading: %+v", fields)
	}
	if len(sched.delays) != 1 || sched.delays[0] != FadeDuration {
		t.Fatalf("delays = %v", sched.delays)
	}

	sched.fire()
	fields = m.Fields()
	if len(fields) != 1 || fields[0].Value != "B" {
		t.Fatalf("fields after fade = %+v", fields)
	}

	if m.Remove("waypoint-99") {
		t.Error("Remove of unknown id should report false")
	}
}

func TestIDsNeverReused(t *testing.T) {
	sched := &manualScheduler{}
	m := NewManager(sched)

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		f := m.Add("")
		if seen[f.ID] {
			t.Fatalf("id %q reused", f.ID)
		}
		seen[f.ID] = true
		m.Remove(f.ID)
		sched.fire()
	}
	m.Reset()
	if f := m.Add(""); seen[f.ID] {
		t.Fatalf("id %q reused after reset", f.ID)
	}
}

func TestCollectSkipsBlankAndTrims(t *testing.T) {
	m := NewManager(&manualScheduler{})
	a := m.Add("")
	b := m.Add("")
	c := m.Add("")

	m.SetValues(map[string]string{
		a.ID: "  Hartford ",
		b.ID: "   ",
		c.ID: "Providence",
	})

	got := m.Collect()
	if len(got) != 2 {
		t.Fatalf("Collect() = %+v", got)
	}
	if got[0].Location != "Hartford" || got[1].Location != "Providence" {
		t.Errorf("locations = %q, %q", got[0].Location, got[1].Location)
	}
	for _, wp := range got {
		if !wp.Stopover {
			t.Errorf("waypoint %q is not a stopover", wp.Location)
		}
	}
}

func TestCollectEmptyIsNotNil(t *testing.T) {
	m := NewManager(&manualScheduler{})
	if got := m.Collect(); got == nil {
		t.Error("Collect() should return an empty slice, not nil")
	}
}
