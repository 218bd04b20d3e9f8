package service

import (
	"context"
	"encoding/json"
	"fmt"

	"eco-route-go/internal/emissions"
	"eco-route-go/internal/model"

	"github.com/sirupsen/logrus"
)

// EmissionsFunction computes the detailed report remotely.
type EmissionsFunction interface {
	Configured() bool
	Details(ctx context.Context, request model.EmissionsDetailsRequest) (json.RawMessage, error)
}

// EmissionsService proxies detail requests to the emissions function.
type EmissionsService struct {
	function EmissionsFunction
	logger   *logrus.Logger
}

// NewEmissionsService creates the service.
func NewEmissionsService(function EmissionsFunction, logger *logrus.Logger) *EmissionsService {
	return &EmissionsService{
		function: function,
		logger:   logger,
	}
}

// Configured reports whether a function URL is set.
func (s *EmissionsService) Configured() bool {
	return s.function.Configured()
}

// Details returns the function's report unchanged. Missing vehicle type and
// mode default to midsize and driving.
func (s *EmissionsService) Details(ctx context.Context, request model.EmissionsDetailsRequest) (json.RawMessage, error) {
	if request.VehicleType == "" {
		request.VehicleType = emissions.DefaultVehicleType
	}
	if request.Mode == "" {
		request.Mode = model.ModeDriving
	}

	s.logger.WithFields(logrus.Fields{
		"vehicle_type": request.VehicleType,
		"mode":         request.Mode,
	}).Info("Requesting detailed emissions")

	report, err := s.function.Details(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("failed to get detailed emissions: %w", err)
	}
	return report, nil
}
