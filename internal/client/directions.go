package client

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eco-route-go/internal/model"

	"github.com/kr/pretty"
	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

// StatusZeroResults is reported when no route connects the locations.
const StatusZeroResults = "ZERO_RESULTS"

// StatusError is a non-OK status reported by the Directions API,
// e.g. ZERO_RESULTS or NOT_FOUND.
type StatusError struct {
	Status  string
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return "directions status " + e.Status
	}
	return fmt.Sprintf("directions status %s: %s", e.Status, e.Message)
}

// DirectionsClient asks the Google Directions API for route alternatives.
type DirectionsClient struct {
	maps   *maps.Client
	logger *logrus.Logger
}

// NewDirectionsClient creates a client. baseURL overrides the Google
// endpoint and is empty in production.
func NewDirectionsClient(apiKey, baseURL string, timeout time.Duration, logger *logrus.Logger) (*DirectionsClient, error) {
	opts := []maps.ClientOption{
		maps.WithAPIKey(apiKey),
		maps.WithHTTPClient(&http.Client{Timeout: timeout}),
	}
	if baseURL != "" {
		opts = append(opts, maps.WithBaseURL(baseURL))
	}

	c, err := maps.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create directions client: %w", err)
	}
	return &DirectionsClient{maps: c, logger: logger}, nil
}

// Directions requests alternatives departing now. Waypoints are passed in
// order and optionally reordered by the API.
func (c *DirectionsClient) Directions(ctx context.Context, request model.RouteRequest) ([]maps.Route, error) {
	r := &maps.DirectionsRequest{
		Origin:        request.Origin,
		Destination:   request.Destination,
		Mode:          maps.Mode(request.Mode),
		DepartureTime: "now",
		Alternatives:  true,
		Waypoints:     request.Waypoints,
		Optimize:      request.OptimizeWaypoints && len(request.Waypoints) > 0,
	}
	if c.logger.IsLevelEnabled(logrus.DebugLevel) {
		c.logger.Debugf("Directions request: %# v", pretty.Formatter(r))
	}

	routes, _, err := c.maps.Directions(ctx, r)
	if err != nil {
		if se := parseStatusError(err); se != nil {
			c.logger.WithField("status", se.Status).Warnf("Directions API returned a non-OK status for %# v", pretty.Formatter(r))
			return nil, se
		}
		c.logger.WithError(err).Errorf("Directions request failed: %# v", pretty.Formatter(r))
		return nil, fmt.Errorf("directions request failed: %w", err)
	}

	// The maps client reports ZERO_RESULTS as an empty success.
	if len(routes) == 0 {
		c.logger.WithField("status", StatusZeroResults).Warnf("Directions API found no routes for %# v", pretty.Formatter(r))
		return nil, &StatusError{Status: StatusZeroResults}
	}

	c.logger.WithField("routes", len(routes)).Info("Directions API returned routes")
	return routes, nil
}

// parseStatusError recognises the "maps: STATUS - message" errors the maps
// client builds from non-OK responses.
func parseStatusError(err error) *StatusError {
	rest, ok := strings.CutPrefix(err.Error(), "maps: ")
	if !ok {
		return nil
	}
	status, message, ok := strings.Cut(rest, " - ")
	if !ok || status == "" {
		return nil
	}
	for _, r := range status {
		if (r < 'A' || r > 'Z') && r != '_' {
			return nil
		}
	}
	return &StatusError{Status: status, Message: message}
}
