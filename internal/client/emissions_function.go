package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"eco-route-go/internal/model"

	"github.com/sirupsen/logrus"
)

// ErrEmissionsNotConfigured is returned when no emissions function URL is set.
var ErrEmissionsNotConfigured = errors.New("emissions function URL not configured")

// UpstreamError is a non-200 answer from the emissions function.
type UpstreamError struct {
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Error from emissions service: %s", e.Body)
}

// EmissionsFunctionClient calls the remote function that computes the
// detailed emissions report.
type EmissionsFunctionClient struct {
	url        string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewEmissionsFunctionClient creates a client for the function at url.
func NewEmissionsFunctionClient(url string, timeout time.Duration, logger *logrus.Logger) *EmissionsFunctionClient {
	return &EmissionsFunctionClient{
		url: url,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// Configured reports whether a function URL is set.
func (c *EmissionsFunctionClient) Configured() bool {
	return c.url != ""
}

// Details posts the request to the function and returns its JSON body unchanged.
func (c *EmissionsFunctionClient) Details(ctx context.Context, request model.EmissionsDetailsRequest) (json.RawMessage, error) {
	if !c.Configured() {
		return nil, ErrEmissionsNotConfigured
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("failed to encode emissions request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.WithFields(logrus.Fields{
		"vehicle_type": request.VehicleType,
		"mode":         request.Mode,
		"legs":         len(request.Route.Legs),
	}).Debug("Sending detailed emissions request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &UpstreamError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}
	if !json.Valid(respBody) {
		return nil, fmt.Errorf("emissions function returned invalid JSON")
	}

	c.logger.Info("Received detailed emissions report")
	return json.RawMessage(respBody), nil
}
