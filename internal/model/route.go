package model

// LatLng is a geographic point as returned by the directions service.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TextValue pairs a raw value with its display text,
// e.g. {"value": 1520, "text": "1.5 km"}.
type TextValue struct {
	Value int    `json:"value"`
	Text  string `json:"text"`
}

// Bounds is the optional viewport of a route. Either corner may be missing.
type Bounds struct {
	SouthWest *LatLng `json:"southwest,omitempty"`
	NorthEast *LatLng `json:"northeast,omitempty"`
}

// Polyline holds an encoded polyline.
type Polyline struct {
	Points string `json:"points"`
}

// Leg is one origin-to-destination segment of a route.
type Leg struct {
	StartAddress  string    `json:"start_address"`
	EndAddress    string    `json:"end_address"`
	StartLocation LatLng    `json:"start_location"`
	EndLocation   LatLng    `json:"end_location"`
	Duration      TextValue `json:"duration"`
	Distance      TextValue `json:"distance"`
	// DurationInTraffic is only reported for driving with a departure time.
	DurationInTraffic *TextValue `json:"duration_in_traffic,omitempty"`
}

// Route is one alternative returned for a route request.
type Route struct {
	Summary              string    `json:"summary,omitempty"`
	Legs                 []Leg     `json:"legs"`
	Bounds               *Bounds   `json:"bounds,omitempty"`
	OverviewPolyline     *Polyline `json:"overview_polyline,omitempty"`
	WaypointOrder        []int     `json:"waypoint_order,omitempty"`
	CarbonEmissions      float64   `json:"carbon_emissions"`
	TotalDistanceMeters  int       `json:"total_distance_meters"`
	TotalDurationSeconds int       `json:"total_duration_seconds"`
}

// Totals sums duration (seconds) and distance (meters) over all legs.
func (r Route) Totals() (durationSeconds, distanceMeters int) {
	for _, leg := range r.Legs {
		durationSeconds += leg.Duration.Value
		distanceMeters += leg.Distance.Value
	}
	return durationSeconds, distanceMeters
}

// Waypoint is an intermediate stop between origin and destination.
type Waypoint struct {
	Location string `json:"location"`
	Stopover bool   `json:"stopover"`
}

// Travel modes understood by the routing API.
const (
	ModeDriving   = "driving"
	ModeWalking   = "walking"
	ModeBicycling = "bicycling"
	ModeTransit   = "transit"
)

// StatusOK is the routing API status for a successful search.
const StatusOK = "OK"

// RouteRequest is the body of POST /api/routes.
type RouteRequest struct {
	Origin            string   `json:"origin"`
	Destination       string   `json:"destination"`
	Mode              string   `json:"mode"`
	Waypoints         []string `json:"waypoints"`
	OptimizeWaypoints bool     `json:"optimizeWaypoints"`
	VehicleType       string   `json:"vehicleType,omitempty"`
}

// RoutesResponse is the body returned by POST /api/routes.
type RoutesResponse struct {
	Status       string  `json:"status"`
	Routes       []Route `json:"routes"`
	ErrorMessage string  `json:"error_message,omitempty"`
}
