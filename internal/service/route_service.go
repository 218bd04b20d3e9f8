package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eco-route-go/internal/client"
	"eco-route-go/internal/emissions"
	"eco-route-go/internal/format"
	"eco-route-go/internal/model"

	"github.com/sirupsen/logrus"
	"googlemaps.github.io/maps"
)

// StatusInvalidRequest mirrors the directions status for a malformed request.
const StatusInvalidRequest = "INVALID_REQUEST"

// Directions finds route alternatives.
type Directions interface {
	Directions(ctx context.Context, request model.RouteRequest) ([]maps.Route, error)
}

// HistoryRecorder stores a successful search.
type HistoryRecorder interface {
	Record(request model.RouteRequest, routes []model.Route) (string, error)
}

// RouteService answers route requests with emission estimates attached.
type RouteService struct {
	directions Directions
	factors    *emissions.FactorTable
	history    HistoryRecorder
	logger     *logrus.Logger
}

// NewRouteService creates the service. history may be nil.
func NewRouteService(directions Directions, factors *emissions.FactorTable, history HistoryRecorder, logger *logrus.Logger) *RouteService {
	return &RouteService{
		directions: directions,
		factors:    factors,
		history:    history,
		logger:     logger,
	}
}

// FindRoutes asks for directions and sets carbon_emissions and the totals on
// every route. A non-OK directions status is returned as the response status
// with an empty list; only transport failures are errors.
func (s *RouteService) FindRoutes(ctx context.Context, request model.RouteRequest) (*model.RoutesResponse, error) {
	request = normalize(request)

	if strings.TrimSpace(request.Origin) == "" || strings.TrimSpace(request.Destination) == "" {
		return &model.RoutesResponse{
			Status:       StatusInvalidRequest,
			Routes:       []model.Route{},
			ErrorMessage: "origin and destination are required",
		}, nil
	}

	s.logger.WithFields(logrus.Fields{
		"mode":         request.Mode,
		"vehicle_type": request.VehicleType,
		"waypoints":    len(request.Waypoints),
		"optimize":     request.OptimizeWaypoints,
	}).Info("Finding routes")

	found, err := s.directions.Directions(ctx, request)
	if err != nil {
		var statusErr *client.StatusError
		if errors.As(err, &statusErr) {
			return &model.RoutesResponse{
				Status:       statusErr.Status,
				Routes:       []model.Route{},
				ErrorMessage: statusErr.Message,
			}, nil
		}
		s.logger.WithError(err).Error("Directions request failed")
		return nil, fmt.Errorf("failed to get directions: %w", err)
	}

	routes := make([]model.Route, 0, len(found))
	for _, r := range found {
		route := convertRoute(r)
		route.CarbonEmissions = s.factors.Estimate(request.Mode, route.TotalDistanceMeters, request.VehicleType)
		routes = append(routes, route)
	}

	if s.history != nil && len(routes) > 0 {
		id, err := s.history.Record(request, routes)
		switch {
		case errors.Is(err, ErrHistoryDisabled):
		case err != nil:
			s.logger.WithError(err).Warn("Failed to store search history")
		default:
			s.logger.WithField("search_id", id).Debug("Search stored")
		}
	}

	s.logger.Infof("Found %d routes", len(routes))
	return &model.RoutesResponse{Status: model.StatusOK, Routes: routes}, nil
}

func normalize(request model.RouteRequest) model.RouteRequest {
	if request.Mode == "" {
		request.Mode = model.ModeDriving
	}
	if request.VehicleType == "" {
		request.VehicleType = emissions.DefaultVehicleType
	}
	if request.Waypoints == nil {
		request.Waypoints = []string{}
	}
	return request
}

// convertRoute maps a directions route onto the wire model and fills the totals.
func convertRoute(r maps.Route) model.Route {
	route := model.Route{
		Summary:       r.Summary,
		WaypointOrder: r.WaypointOrder,
		Legs:          make([]model.Leg, 0, len(r.Legs)),
	}
	if r.OverviewPolyline.Points != "" {
		route.OverviewPolyline = &model.Polyline{Points: r.OverviewPolyline.Points}
	}
	if r.Bounds != (maps.LatLngBounds{}) {
		route.Bounds = &model.Bounds{
			SouthWest: &model.LatLng{Lat: r.Bounds.SouthWest.Lat, Lng: r.Bounds.SouthWest.Lng},
			NorthEast: &model.LatLng{Lat: r.Bounds.NorthEast.Lat, Lng: r.Bounds.NorthEast.Lng},
		}
	}

	for _, leg := range r.Legs {
		if leg == nil {
			continue
		}
		distanceText := leg.HumanReadable
		if distanceText == "" {
			distanceText = format.Distance(leg.Meters)
		}
		l := model.Leg{
			StartAddress:  leg.StartAddress,
			EndAddress:    leg.EndAddress,
			StartLocation: model.LatLng{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
			EndLocation:   model.LatLng{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
			Duration:      seconds(leg.Duration),
			Distance:      model.TextValue{Value: leg.Meters, Text: distanceText},
		}
		if leg.DurationInTraffic > 0 {
			traffic := seconds(leg.DurationInTraffic)
			l.DurationInTraffic = &traffic
		}
		route.Legs = append(route.Legs, l)
	}

	route.TotalDurationSeconds, route.TotalDistanceMeters = route.Totals()
	return route
}

func seconds(d time.Duration) model.TextValue {
	s := int(d / time.Second)
	return model.TextValue{Value: s, Text: format.Duration(s)}
}
