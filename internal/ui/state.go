package ui

import (
	"sync"

	"eco-route-go/internal/mapview"
	"eco-route-go/internal/model"
	"eco-route-go/internal/waypoint"
)

// ButtonState is the state of the "detailed environmental impact" button.
type ButtonState int

const (
	ButtonHidden ButtonState = iota
	ButtonIdle
	ButtonLoading
	ButtonFailed
)

// Label returns the text the button shows in this state.
func (s ButtonState) Label() string {
	switch s {
	case ButtonLoading:
		return "Loading detailed report..."
	case ButtonFailed:
		return "Failed to load detailed report"
	default:
		return "Show Detailed Environmental Impact"
	}
}

// Disabled reports whether clicks are ignored. A failed button stays
// disabled until it reverts to idle.
func (s ButtonState) Disabled() bool {
	return s == ButtonLoading || s == ButtonFailed
}

// Snapshot is a copy of the page state taken under the controller lock.
type Snapshot struct {
	Form           Form
	Routes         []model.Route
	Selected       int
	Mode           string
	Expanded       map[int]bool
	Report         *model.DetailedEmissionsReport
	DetailsVisible bool
	Button         ButtonState
	// Loading is set while a route search is in flight.
	Loading      bool
	Map          mapview.State
	MapAPIKey    string
	TrafficLabel string
	Waypoints    []waypoint.Field
}

// SelectedRoute returns the selected route, if any.
func (s Snapshot) SelectedRoute() (model.Route, bool) {
	if s.Selected < 0 || s.Selected >= len(s.Routes) {
		return model.Route{}, false
	}
	return s.Routes[s.Selected], true
}

// Alerts queues messages until the next response carries them to the page.
type Alerts struct {
	mu       sync.Mutex
	messages []string
}

// Alert queues a message.
func (a *Alerts) Alert(message string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.messages = append(a.messages, message)
}

// Drain returns and clears the queued messages.
func (a *Alerts) Drain() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := a.messages
	a.messages = nil
	return out
}

// Indicator tracks whether the loading indicator is visible.
type Indicator struct {
	mu      sync.Mutex
	visible bool
}

func (i *Indicator) Show() {
	i.mu.Lock()
	i.visible = true
	i.mu.Unlock()
}

func (i *Indicator) Hide() {
	i.mu.Lock()
	i.visible = false
	i.mu.Unlock()
}

// Visible reports the current indicator state.
func (i *Indicator) Visible() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.visible
}
