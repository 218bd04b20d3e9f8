package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"eco-route-go/internal/model"
	"eco-route-go/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrHistoryDisabled is returned when no history database is configured.
var ErrHistoryDisabled = errors.New("search history is disabled")

// HistoryService records searches and serves them back.
type HistoryService struct {
	repo   repository.SearchRepository
	logger *logrus.Logger
}

// NewHistoryService creates the service. A nil repo disables history.
func NewHistoryService(repo repository.SearchRepository, logger *logrus.Logger) *HistoryService {
	return &HistoryService{
		repo:   repo,
		logger: logger,
	}
}

// Enabled reports whether searches are stored.
func (s *HistoryService) Enabled() bool {
	return s.repo != nil
}

// Record stores a search with its alternatives and returns the new id.
func (s *HistoryService) Record(request model.RouteRequest, routes []model.Route) (string, error) {
	if !s.Enabled() {
		return "", ErrHistoryDisabled
	}

	waypoints, err := json.Marshal(request.Waypoints)
	if err != nil {
		return "", fmt.Errorf("failed to encode waypoints: %w", err)
	}

	search := &model.Search{
		ID:                uuid.New().String(),
		Origin:            request.Origin,
		Destination:       request.Destination,
		Mode:              request.Mode,
		VehicleType:       request.VehicleType,
		Waypoints:         string(waypoints),
		OptimizeWaypoints: request.OptimizeWaypoints,
		RouteCount:        len(routes),
	}

	for i, route := range routes {
		if i == 0 || route.CarbonEmissions < search.LowestEmissionsKg {
			search.LowestEmissionsKg = route.CarbonEmissions
		}
		search.Routes = append(search.Routes, model.SearchRoute{
			RouteIndex:           i,
			Summary:              route.Summary,
			LegCount:             len(route.Legs),
			TotalDistanceMeters:  route.TotalDistanceMeters,
			TotalDurationSeconds: route.TotalDurationSeconds,
			CarbonEmissionsKg:    route.CarbonEmissions,
		})
	}

	if err := s.repo.Create(search); err != nil {
		return "", fmt.Errorf("failed to save search: %w", err)
	}
	return search.ID, nil
}

// List returns one page of searches, newest first.
func (s *HistoryService) List(page, pageSize int) ([]SearchResponse, int64, error) {
	if !s.Enabled() {
		return nil, 0, ErrHistoryDisabled
	}

	s.logger.Debugf("Listing searches: page %d, size %d", page, pageSize)

	searches, total, err := s.repo.List(page, pageSize)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list searches: %w", err)
	}

	responses := make([]SearchResponse, len(searches))
	for i, search := range searches {
		responses[i] = s.toResponse(search)
	}
	return responses, total, nil
}

// Get returns one stored search.
func (s *HistoryService) Get(id string) (*SearchResponse, error) {
	if !s.Enabled() {
		return nil, ErrHistoryDisabled
	}

	search, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	response := s.toResponse(search)
	return &response, nil
}

// Delete removes one stored search.
func (s *HistoryService) Delete(id string) error {
	if !s.Enabled() {
		return ErrHistoryDisabled
	}

	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("search_id", id).Info("Search deleted")
	return nil
}

func (s *HistoryService) toResponse(search *model.Search) SearchResponse {
	response := SearchResponse{
		ID:                search.ID,
		Origin:            search.Origin,
		Destination:       search.Destination,
		Mode:              search.Mode,
		VehicleType:       search.VehicleType,
		Waypoints:         []string{},
		OptimizeWaypoints: search.OptimizeWaypoints,
		RouteCount:        search.RouteCount,
		LowestEmissionsKg: search.LowestEmissionsKg,
		Routes:            make([]SearchRouteResponse, 0, len(search.Routes)),
		CreatedAt:         search.CreatedAt,
	}

	if search.Waypoints != "" {
		if err := json.Unmarshal([]byte(search.Waypoints), &response.Waypoints); err != nil {
			s.logger.WithError(err).WithField("search_id", search.ID).Warn("Stored waypoints are not valid JSON")
		}
	}

	for _, r := range search.Routes {
		response.Routes = append(response.Routes, SearchRouteResponse{
			RouteIndex:           r.RouteIndex,
			Summary:              r.Summary,
			LegCount:             r.LegCount,
			TotalDistanceMeters:  r.TotalDistanceMeters,
			TotalDurationSeconds: r.TotalDurationSeconds,
			CarbonEmissionsKg:    r.CarbonEmissionsKg,
		})
	}
	return response
}
