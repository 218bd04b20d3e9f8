package session

import (
	"context"
	"sync"
	"time"

	"eco-route-go/internal/mapview"
	"eco-route-go/internal/ui"
	"eco-route-go/internal/waypoint"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// CookieName is the cookie that carries the session id.
const CookieName = "eco_route_session"

// Session is the page state of one browser.
type Session struct {
	ID         string
	Controller *ui.Controller
	Alerts     *ui.Alerts

	lastSeen time.Time
}

// Options configures new sessions.
type Options struct {
	API        ui.RouteAPI
	MapsAPIKey string
	TTL        time.Duration
	// Scheduler drives the waypoint fade and detail button timers; nil uses
	// real time.
	Scheduler waypoint.Scheduler
	Logger    *logrus.Logger
}

// Store keeps sessions in memory and expires idle ones.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	opts Options
	now  func() time.Time
}

// NewStore creates an empty store.
func NewStore(opts Options) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts,
		now:      time.Now,
	}
}

// Get returns the live session with the given id and marks it as used.
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess) {
		delete(s.sessions, id)
		return nil, false
	}
	sess.lastSeen = s.now()
	return sess, true
}

// GetOrCreate returns the session for id, creating a fresh one when the id
// is unknown or expired. The boolean reports whether a session was created.
func (s *Store) GetOrCreate(id string) (*Session, bool) {
	if id != "" {
		if sess, ok := s.Get(id); ok {
			return sess, false
		}
	}
	return s.Create(), true
}

// Create starts a new session with its own map and controller.
func (s *Store) Create() *Session {
	alerts := &ui.Alerts{}
	display := mapview.New(s.opts.MapsAPIKey, s.opts.Logger)

	sess := &Session{
		ID: uuid.New().String(),
		Controller: ui.NewController(ui.Deps{
			API:       s.opts.API,
			Map:       display,
			Notifier:  alerts,
			Scheduler: s.opts.Scheduler,
			Logger:    s.opts.Logger,
		}),
		Alerts:   alerts,
		lastSeen: s.now(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()

	s.opts.Logger.WithField("session_id", sess.ID).Debug("Session created")
	return sess
}

// Len returns the number of stored sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Sweep drops sessions idle for longer than the TTL.
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if s.expired(sess) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps every interval until ctx is cancelled.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.Sweep(); n > 0 {
				s.opts.Logger.WithFields(logrus.Fields{
					"expired":   n,
					"remaining": s.Len(),
				}).Info("Expired idle sessions")
			}
		}
	}
}

func (s *Store) expired(sess *Session) bool {
	return s.opts.TTL > 0 && s.now().Sub(sess.lastSeen) > s.opts.TTL
}
