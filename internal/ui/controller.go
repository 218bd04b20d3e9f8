package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"eco-route-go/internal/mapview"
	"eco-route-go/internal/model"
	"eco-route-go/internal/waypoint"

	"github.com/sirupsen/logrus"
)

// User-facing messages.
const (
	MsgMissingEndpoints = "Please enter both origin and destination"
	MsgNoRoutes         = "No routes found. Please try different locations or transportation mode."
	MsgFetchFailed      = "Failed to fetch routes: "
)

// FailedLabelDuration is how long the detail button shows its failure label.
const FailedLabelDuration = 3 * time.Second

// DetailVehicleTypeNonDriving is sent as vehicle type for every mode but driving.
const DetailVehicleTypeNonDriving = "bus"

var (
	ErrInvalidRouteIndex = errors.New("route index out of range")
	ErrNoRoutes          = errors.New("no routes to report on")
)

// RouteAPI is the routing backend the page submits to.
type RouteAPI interface {
	FindRoutes(ctx context.Context, req model.RouteRequest) (*model.RoutesResponse, error)
	EmissionsDetails(ctx context.Context, req model.EmissionsDetailsRequest) (*model.DetailedEmissionsReport, error)
}

// MapDisplay is the map area of the page.
type MapDisplay interface {
	ShowRoute(route model.Route)
	Fail(cause error)
	ToggleTraffic() string
	TrafficLabel() string
	State() mapview.State
	APIKey() string
}

// Notifier surfaces blocking messages to the user.
type Notifier interface {
	Alert(message string)
}

// LoadingIndicator is shown while a route search is in flight.
type LoadingIndicator interface {
	Show()
	Hide()
	Visible() bool
}

// Form is the submitted search form.
type Form struct {
	Origin            string
	Destination       string
	Mode              string
	VehicleType       string
	OptimizeWaypoints bool
	// Waypoints holds the raw waypoint inputs keyed by field id.
	Waypoints map[string]string
}

// Deps wires a controller. Nil Notifier, Loading and Scheduler get defaults.
type Deps struct {
	API       RouteAPI
	Map       MapDisplay
	Notifier  Notifier
	Loading   LoadingIndicator
	Scheduler waypoint.Scheduler
	Logger    *logrus.Logger
}

// Controller owns the page state of one browser session: the route list,
// the selected route, the waypoint inputs and the detail panel. Events are
// serialised by mu, which is released while the backend is called.
type Controller struct {
	mu sync.Mutex

	api       RouteAPI
	display   MapDisplay
	notifier  Notifier
	loading   LoadingIndicator
	scheduler waypoint.Scheduler
	waypoints *waypoint.Manager
	logger    *logrus.Logger

	form     Form
	routes   []model.Route
	selected int
	mode     string
	expanded map[int]bool

	report         *model.DetailedEmissionsReport
	detailsVisible bool
	button         ButtonState
	// buttonGen changes whenever the detail button is rebound or pressed,
	// so completions and timers from an earlier binding leave it alone.
	buttonGen int
}

// NewController builds a controller with an empty route list.
func NewController(deps Deps) *Controller {
	if deps.Notifier == nil {
		deps.Notifier = &Alerts{}
	}
	if deps.Loading == nil {
		deps.Loading = &Indicator{}
	}
	if deps.Scheduler == nil {
		deps.Scheduler = waypoint.RealTime
	}

	return &Controller{
		api:       deps.API,
		display:   deps.Map,
		notifier:  deps.Notifier,
		loading:   deps.Loading,
		scheduler: deps.Scheduler,
		waypoints: waypoint.NewManager(deps.Scheduler),
		logger:    deps.Logger,
		form:      Form{Mode: model.ModeDriving},
		selected:  -1,
		expanded:  make(map[int]bool),
		button:    ButtonHidden,
	}
}

// Submit validates the form, asks the backend for routes and replaces the
// route list on success. Failures are alerted and logged; the previous
// routes stay on screen. The loading indicator is hidden on every path.
func (c *Controller) Submit(ctx context.Context, form Form) {
	req, ok := c.prepare(form)
	if !ok {
		return
	}

	c.loading.Show()
	defer c.loading.Hide()

	c.logger.WithFields(logrus.Fields{
		"origin":      req.Origin,
		"destination": req.Destination,
		"mode":        req.Mode,
		"waypoints":   len(req.Waypoints),
	}).Info("Submitting route search")

	resp, err := c.api.FindRoutes(ctx, req)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).Error("Error fetching routes")
		c.notifier.Alert(MsgFetchFailed + err.Error())
		return
	}
	if resp.Status != model.StatusOK {
		c.logger.WithField("status", resp.Status).Error("Routing API returned an error status")
		c.notifier.Alert(MsgFetchFailed + resp.Status)
		return
	}
	if len(resp.Routes) == 0 {
		c.logger.Info("Route search returned no routes")
		c.notifier.Alert(MsgNoRoutes)
		return
	}

	c.routes = resp.Routes
	c.mode = req.Mode
	c.selected = 0
	c.expanded = make(map[int]bool)
	c.display.ShowRoute(c.routes[0])

	// A new list rebinds the detail button and hides the previous report.
	c.report = nil
	c.detailsVisible = false
	c.button = ButtonIdle
	c.buttonGen++

	c.logger.Infof("Displaying %d routes", len(c.routes))
}

func (c *Controller) prepare(form Form) (model.RouteRequest, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waypoints.SetValues(form.Waypoints)
	if form.Mode == "" {
		form.Mode = model.ModeDriving
	}
	c.form = form

	if strings.TrimSpace(form.Origin) == "" || strings.TrimSpace(form.Destination) == "" {
		c.notifier.Alert(MsgMissingEndpoints)
		return model.RouteRequest{}, false
	}

	collected := c.waypoints.Collect()
	locations := make([]string, 0, len(collected))
	for _, wp := range collected {
		locations = append(locations, wp.Location)
	}

	return model.RouteRequest{
		Origin:            form.Origin,
		Destination:       form.Destination,
		Mode:              form.Mode,
		Waypoints:         locations,
		OptimizeWaypoints: form.OptimizeWaypoints,
	}, true
}

// Select makes route i the selected one and redraws the map.
func (c *Controller) Select(i int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.routes) {
		return fmt.Errorf("select route %d of %d: %w", i, len(c.routes), ErrInvalidRouteIndex)
	}
	c.selected = i
	c.display.ShowRoute(c.routes[i])
	return nil
}

// ToggleLegs expands or collapses the per-stop list of route i without
// touching the selection. Single-leg routes have no list.
func (c *Controller) ToggleLegs(i int) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.routes) {
		return false, fmt.Errorf("toggle legs of route %d of %d: %w", i, len(c.routes), ErrInvalidRouteIndex)
	}
	if len(c.routes[i].Legs) <= 1 {
		return false, nil
	}
	c.expanded[i] = !c.expanded[i]
	return c.expanded[i], nil
}

// RequestDetails fetches the detailed report for the selected route. The
// route is captured when the request starts; the report is shown when it
// arrives even if the selection changed meanwhile.
func (c *Controller) RequestDetails(ctx context.Context, vehicleType string) error {
	c.mu.Lock()
	if len(c.routes) == 0 {
		c.mu.Unlock()
		return ErrNoRoutes
	}
	if c.button.Disabled() {
		c.mu.Unlock()
		return nil
	}

	route := c.routes[c.selected]
	mode := c.mode
	if mode != model.ModeDriving {
		vehicleType = DetailVehicleTypeNonDriving
	}
	c.button = ButtonLoading
	c.buttonGen++
	gen := c.buttonGen
	c.mu.Unlock()

	report, err := c.api.EmissionsDetails(ctx, model.EmissionsDetailsRequest{
		Route:       route,
		VehicleType: vehicleType,
		Mode:        mode,
	})

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.logger.WithError(err).Error("Error fetching detailed emissions")
		if c.buttonGen == gen {
			c.button = ButtonFailed
			c.scheduler.AfterFunc(FailedLabelDuration, func() { c.revertButton(gen) })
		}
		return err
	}

	c.report = report
	c.detailsVisible = true
	if c.buttonGen == gen {
		c.button = ButtonIdle
	}
	return nil
}

func (c *Controller) revertButton(gen int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.buttonGen == gen && c.button == ButtonFailed {
		c.button = ButtonIdle
	}
}

// AddWaypoint appends an empty stop input.
func (c *Controller) AddWaypoint(initial string) waypoint.Field {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waypoints.Add(initial)
}

// RemoveWaypoint fades out and deletes a stop input.
func (c *Controller) RemoveWaypoint(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.waypoints.Remove(id)
}

// ToggleTraffic flips the map's traffic layer.
func (c *Controller) ToggleTraffic() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.display.ToggleTraffic()
}

// MapFailed is the global failure hook of the map widget.
func (c *Controller) MapFailed(cause error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.display.Fail(cause)
}

// Snapshot returns a consistent copy of the page state for rendering.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	expanded := make(map[int]bool, len(c.expanded))
	for k, v := range c.expanded {
		expanded[k] = v
	}
	waypoints := make(map[string]string, len(c.form.Waypoints))
	for k, v := range c.form.Waypoints {
		waypoints[k] = v
	}
	form := c.form
	form.Waypoints = waypoints

	return Snapshot{
		Form:           form,
		Routes:         append([]model.Route(nil), c.routes...),
		Selected:       c.selected,
		Mode:           c.mode,
		Expanded:       expanded,
		Report:         c.report,
		DetailsVisible: c.detailsVisible,
		Button:         c.button,
		Loading:        c.loading.Visible(),
		Map:            c.display.State(),
		MapAPIKey:      c.display.APIKey(),
		TrafficLabel:   c.display.TrafficLabel(),
		Waypoints:      c.waypoints.Fields(),
	}
}
