package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"eco-route-go/internal/model"

	"github.com/sirupsen/logrus"
)

// HTTPStatusError is a non-200 answer from the routing API.
type HTTPStatusError struct {
	StatusCode int
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP error! status: %d", e.StatusCode)
}

// RoutesAPIClient talks to a routing API served by another instance of
// this service.
type RoutesAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewRoutesAPIClient creates a client for the API at baseURL.
func NewRoutesAPIClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *RoutesAPIClient {
	return &RoutesAPIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// FindRoutes posts a route request to /api/routes.
func (c *RoutesAPIClient) FindRoutes(ctx context.Context, request model.RouteRequest) (*model.RoutesResponse, error) {
	var resp model.RoutesResponse
	if err := c.postJSON(ctx, "/api/routes", request, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EmissionsDetails posts a detail request to /api/emissions-details.
func (c *RoutesAPIClient) EmissionsDetails(ctx context.Context, request model.EmissionsDetailsRequest) (*model.DetailedEmissionsReport, error) {
	var report model.DetailedEmissionsReport
	if err := c.postJSON(ctx, "/api/emissions-details", request, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *RoutesAPIClient) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	c.logger.Debugf("Sending POST request to %s", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send HTTP request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.logger.WithFields(logrus.Fields{"url": url, "status": resp.StatusCode}).Warn("Routing API returned an error")
		return &HTTPStatusError{StatusCode: resp.StatusCode}
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse JSON response: %w", err)
	}
	return nil
}
