package service

import (
	"context"
	"encoding/json"
	"fmt"

	"eco-route-go/internal/model"
)

// LocalAPI serves the page controller from the services in this process,
// without an HTTP round trip.
type LocalAPI struct {
	routes    *RouteService
	emissions *EmissionsService
}

// NewLocalAPI creates the in-process routing API.
func NewLocalAPI(routes *RouteService, emissions *EmissionsService) *LocalAPI {
	return &LocalAPI{
		routes:    routes,
		emissions: emissions,
	}
}

// FindRoutes runs the route search.
func (a *LocalAPI) FindRoutes(ctx context.Context, request model.RouteRequest) (*model.RoutesResponse, error) {
	return a.routes.FindRoutes(ctx, request)
}

// EmissionsDetails fetches and decodes the detailed report.
func (a *LocalAPI) EmissionsDetails(ctx context.Context, request model.EmissionsDetailsRequest) (*model.DetailedEmissionsReport, error) {
	raw, err := a.emissions.Details(ctx, request)
	if err != nil {
		return nil, err
	}

	var report model.DetailedEmissionsReport
	if err := json.Unmarshal(raw, &report); err != nil {
		return nil, fmt.Errorf("failed to parse emissions report: %w", err)
	}
	return &report, nil
}
