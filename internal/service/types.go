package service

import (
	"time"
)

// SearchRouteResponse summarises one stored alternative
type SearchRouteResponse struct {
	RouteIndex           int     `json:"route_index"`
	Summary              string  `json:"summary,omitempty"`
	LegCount             int     `json:"leg_count"`
	TotalDistanceMeters  int     `json:"total_distance_meters"`
	TotalDurationSeconds int     `json:"total_duration_seconds"`
	CarbonEmissionsKg    float64 `json:"carbon_emissions_kg"`
}

// SearchResponse is a stored search as returned by the history API
type SearchResponse struct {
	ID                string                `json:"id"`
	Origin            string                `json:"origin"`
	Destination       string                `json:"destination"`
	Mode              string                `json:"mode"`
	VehicleType       string                `json:"vehicle_type,omitempty"`
	Waypoints         []string              `json:"waypoints"`
	OptimizeWaypoints bool                  `json:"optimize_waypoints"`
	RouteCount        int                   `json:"route_count"`
	LowestEmissionsKg float64               `json:"lowest_emissions_kg"`
	Routes            []SearchRouteResponse `json:"routes"`
	CreatedAt         time.Time             `json:"created_at"`
}

// ListSearchesResponse is one page of the search history
type ListSearchesResponse struct {
	Searches []SearchResponse `json:"searches"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Size     int              `json:"size"`
}

// RouteCSVRow is one line of the route list export
type RouteCSVRow struct {
	Route            int     `csv:"route"`
	Summary          string  `csv:"summary"`
	Duration         string  `csv:"duration"`
	DurationSeconds  int     `csv:"duration_seconds"`
	Distance         string  `csv:"distance"`
	DistanceMeters   int     `csv:"distance_meters"`
	CarbonEmissionKg float64 `csv:"carbon_emissions_kg"`
	Band             string  `csv:"band"`
	Selected         bool    `csv:"selected"`
}
