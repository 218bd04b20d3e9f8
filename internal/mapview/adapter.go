package mapview

import (
	"errors"
	"math"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/model"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

// ErrorMessage replaces the map area whenever the widget cannot be used.
const ErrorMessage = "Error loading Google Maps. Please check your API key and try again."

// Traffic toggle labels.
const (
	TrafficShowLabel = "Show Traffic"
	TrafficHideLabel = "Hide Traffic"
)

// ErrMissingAPIKey is reported when the page is served without a maps key.
var ErrMissingAPIKey = errors.New("maps API key is not configured")

var defaultCenter = model.LatLng{Lat: 40.7128, Lng: -74.0060}

const defaultZoom = 12

// Stroke describes how the route line is drawn.
type Stroke struct {
	Color   string  `json:"strokeColor"`
	Weight  int     `json:"strokeWeight"`
	Opacity float64 `json:"strokeOpacity"`
}

// Viewport is the rectangle the map should fit.
type Viewport struct {
	SouthWest model.LatLng `json:"southwest"`
	NorthEast model.LatLng `json:"northeast"`
}

// State is everything the page script needs to draw the map.
type State struct {
	Failed  bool                       `json:"failed"`
	Center  model.LatLng               `json:"center"`
	Zoom    int                        `json:"zoom"`
	Styles  []StyleRule                `json:"styles"`
	Traffic bool                       `json:"traffic"`
	Stroke  *Stroke                    `json:"stroke,omitempty"`
	Overlay *geojson.FeatureCollection `json:"overlay,omitempty"`
	View    *Viewport                  `json:"viewport,omitempty"`
}

// Adapter owns the map widget state for one page. It is not safe for
// concurrent use; the UI controller serialises access.
type Adapter struct {
	state  State
	apiKey string
	logger *logrus.Logger
}

// New initialises the map with the custom style and the traffic layer
// switched off. A missing API key leaves the adapter in the failed state.
func New(apiKey string, logger *logrus.Logger) *Adapter {
	a := &Adapter{
		apiKey: apiKey,
		logger: logger,
		state: State{
			Center: defaultCenter,
			Zoom:   defaultZoom,
			Styles: CustomStyle,
		},
	}
	if apiKey == "" {
		a.Fail(ErrMissingAPIKey)
	}
	return a
}

// APIKey returns the key the widget script is loaded with.
func (a *Adapter) APIKey() string {
	return a.apiKey
}

// Fail switches the map area to the static error message. It backs both
// the widget's authentication failure hook and init exceptions.
func (a *Adapter) Fail(cause error) {
	a.state.Failed = true
	a.state.Overlay = nil
	a.state.View = nil
	a.state.Stroke = nil
	a.logger.WithError(cause).Error("Map widget unavailable, showing fallback")
}

// Failed reports whether the fallback message is shown instead of the map.
func (a *Adapter) Failed() bool {
	return a.state.Failed
}

// ToggleTraffic flips the traffic overlay and returns the new button label.
func (a *Adapter) ToggleTraffic() string {
	a.state.Traffic = !a.state.Traffic
	return a.TrafficLabel()
}

// TrafficLabel is the label the traffic control shows right now.
func (a *Adapter) TrafficLabel() string {
	if a.state.Traffic {
		return TrafficHideLabel
	}
	return TrafficShowLabel
}

// ShowRoute draws the route coloured by its emissions and fits the viewport.
func (a *Adapter) ShowRoute(route model.Route) {
	if a.state.Failed {
		a.logger.Debug("Map unavailable, route not drawn")
		return
	}

	a.state.Stroke = &Stroke{
		Color:   emissions.MapStroke.Classify(route.CarbonEmissions),
		Weight:  6,
		Opacity: 0.8,
	}
	a.state.Overlay = a.overlay(route)
	a.state.View = viewportFor(route)
	if a.state.View == nil {
		a.logger.Warn("Route has neither bounds nor legs, viewport left unchanged")
	}
}

// State returns a copy of the current map state.
func (a *Adapter) State() State {
	return a.state
}

func (a *Adapter) overlay(route model.Route) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := a.routeLine(route)
	if len(line) >= 2 {
		f := geojson.NewFeature(line)
		f.Properties["kind"] = "route"
		f.Properties["strokeColor"] = a.state.Stroke.Color
		f.Properties["strokeWeight"] = a.state.Stroke.Weight
		f.Properties["strokeOpacity"] = a.state.Stroke.Opacity
		fc.Append(f)
	}

	if n := len(route.Legs); n > 0 {
		start := geojson.NewFeature(toPoint(route.Legs[0].StartLocation))
		start.Properties["kind"] = "start"
		start.Properties["title"] = route.Legs[0].StartAddress
		fc.Append(start)

		end := geojson.NewFeature(toPoint(route.Legs[n-1].EndLocation))
		end.Properties["kind"] = "end"
		end.Properties["title"] = route.Legs[n-1].EndAddress
		fc.Append(end)
	}
	return fc
}

// routeLine decodes the overview polyline, falling back to the leg endpoints.
func (a *Adapter) routeLine(route model.Route) orb.LineString {
	if route.OverviewPolyline != nil && route.OverviewPolyline.Points != "" {
		points, err := maps.DecodePolyline(route.OverviewPolyline.Points)
		if err == nil && len(points) >= 2 {
			line := make(orb.LineString, 0, len(points))
			for _, p := range points {
				line = append(line, orb.Point{p.Lng, p.Lat})
			}
			return line
		}
		a.logger.WithError(err).Warn("Failed to decode overview polyline, using leg endpoints")
	}

	var line orb.LineString
	for i, leg := range route.Legs {
		if i == 0 {
			line = append(line, toPoint(leg.StartLocation))
		}
		line = append(line, toPoint(leg.EndLocation))
	}
	return line
}

// viewportFor prefers the route bounds and falls back to the first leg's
// endpoints when the bounds are absent or invalid.
func viewportFor(route model.Route) *Viewport {
	if b := route.Bounds; b != nil && b.SouthWest != nil && b.NorthEast != nil &&
		validLatLng(*b.SouthWest) && validLatLng(*b.NorthEast) && b.SouthWest.Lat <= b.NorthEast.Lat {
		return &Viewport{SouthWest: *b.SouthWest, NorthEast: *b.NorthEast}
	}

	if len(route.Legs) == 0 {
		return nil
	}
	leg := route.Legs[0]
	bound := orb.MultiPoint{toPoint(leg.StartLocation), toPoint(leg.EndLocation)}.Bound()
	return &Viewport{
		SouthWest: model.LatLng{Lat: bound.Min.Lat(), Lng: bound.Min.Lon()},
		NorthEast: model.LatLng{Lat: bound.Max.Lat(), Lng: bound.Max.Lon()},
	}
}

func validLatLng(p model.LatLng) bool {
	if math.IsNaN(p.Lat) || math.IsNaN(p.Lng) || math.IsInf(p.Lat, 0) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

func toPoint(p model.LatLng) orb.Point {
	return orb.Point{p.Lng, p.Lat}
}
