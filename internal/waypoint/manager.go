package waypoint

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"eco-route-go/internal/model"
)

// FadeDuration is how long a removed row stays visible while fading out.
const FadeDuration = 300 * time.Millisecond

// Scheduler runs f once after d. time.AfterFunc satisfies it through SchedulerFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, f func())
}

// SchedulerFunc adapts a function to Scheduler.
type SchedulerFunc func(d time.Duration, f func())

// AfterFunc calls fn(d, f).
func (fn SchedulerFunc) AfterFunc(d time.Duration, f func()) { fn(d, f) }

// RealTime schedules on the wall clock.
var RealTime = SchedulerFunc(func(d time.Duration, f func()) { time.AfterFunc(d, f) })

// Field is one intermediate-stop input row.
type Field struct {
	ID           string
	Number       int
	Placeholder  string
	Value        string
	Autocomplete bool
	Fading       bool
}

// Manager keeps the ordered list of waypoint inputs for one form.
// Identifiers come from a counter that only grows, so they are never reused.
type Manager struct {
	mu        sync.Mutex
	fields    []*Field
	counter   int
	scheduler Scheduler
}

// NewManager creates an empty manager using the given scheduler for fade-outs.
func NewManager(scheduler Scheduler) *Manager {
	if scheduler == nil {
		scheduler = RealTime
	}
	return &Manager{scheduler: scheduler}
}

// Add appends a new field with location suggestions enabled.
func (m *Manager) Add(initial string) Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	f := &Field{
		ID:           fmt.Sprintf("waypoint-%d", m.counter),
		Number:       m.counter + 1,
		Placeholder:  fmt.Sprintf("Enter stop %d", m.counter+1),
		Value:        initial,
		Autocomplete: true,
	}
	m.fields = append(m.fields, f)
	m.counter++
	return *f
}

// Remove fades the row out and deletes it once FadeDuration has passed.
// It reports false for unknown identifiers.
func (m *Manager) Remove(id string) bool {
	m.mu.Lock()
	f := m.find(id)
	if f == nil || f.Fading {
		m.mu.Unlock()
		return f != nil
	}
	f.Fading = true
	m.mu.Unlock()

	m.scheduler.AfterFunc(FadeDuration, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, field := range m.fields {
			if field == f {
				m.fields = append(m.fields[:i], m.fields[i+1:]...)
				return
			}
		}
	})
	return true
}

// SetValues copies posted input values into the matching fields.
func (m *Manager) SetValues(values map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, f := range m.fields {
		if v, ok := values[f.ID]; ok {
			f.Value = v
		}
	}
}

// Fields returns a snapshot of the current rows in order.
func (m *Manager) Fields() []Field {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Field, len(m.fields))
	for i, f := range m.fields {
		out[i] = *f
	}
	return out
}

// Collect returns the non-blank inputs, trimmed, as stopover waypoints.
func (m *Manager) Collect() []model.Waypoint {
	m.mu.Lock()
	defer m.mu.Unlock()

	waypoints := []model.Waypoint{}
	for _, f := range m.fields {
		location := strings.TrimSpace(f.Value)
		if location == "" {
			continue
		}
		waypoints = append(waypoints, model.Waypoint{Location: location, Stopover: true})
	}
	return waypoints
}

// Reset drops every row. The identifier counter keeps counting.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fields = nil
}

func (m *Manager) find(id string) *Field {
	for _, f := range m.fields {
		if f.ID == id {
			return f
		}
	}
	return nil
}
