package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"eco-route-go/internal/client"
	"eco-route-go/internal/emissions"
	"eco-route-go/internal/health"
	"eco-route-go/internal/model"
	"eco-route-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus/hooks/test"
	"googlemaps.github.io/maps"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubDirections struct {
	routes []maps.Route
	err    error
}

func (s *stubDirections) Directions(context.Context, model.RouteRequest) ([]maps.Route, error) {
	return s.routes, s.err
}

type apiFixture struct {
	router   *gin.Engine
	function *httptest.Server
	received []map[string]any
	status   int
	body     string
}

func newAPIFixture(t *testing.T, directions service.Directions, withFunction bool) *apiFixture {
	t.Helper()
	logger, _ := test.NewNullLogger()
	f := &apiFixture{status: http.StatusOK, body: `{"total_emissions_kg": 1.5, "custom_field": "kept"}`}

	url := ""
	if withFunction {
		f.function = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var got map[string]any
			_ = json.NewDecoder(r.Body).Decode(&got)
			f.received = append(f.received, got)
			w.WriteHeader(f.status)
			_, _ = io.WriteString(w, f.body)
		}))
		t.Cleanup(f.function.Close)
		url = f.function.URL
	}

	routes := service.NewRouteService(directions, emissions.DefaultFactors(), nil, logger)
	details := service.NewEmissionsService(client.NewEmissionsFunctionClient(url, 5*time.Second, logger), logger)
	history := service.NewHistoryService(nil, logger)
	monitor := health.NewMonitor(logger)

	f.router = gin.New()
	NewAPIHandler(routes, details, history, monitor, logger).RegisterRoutes(f.router)
	return f
}

func (f *apiFixture) do(method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", w.Body.String(), err)
	}
	return out
}

func TestFindRoutesEndpoint(t *testing.T) {
	directions := &stubDirections{routes: []maps.Route{{
		Summary: "I-95",
		Legs: []*maps.Leg{{
			Distance: maps.Distance{Meters: 10000, HumanReadable: "10 km"},
			Duration: 15 * time.Minute,
		}},
	}}}
	f := newAPIFixture(t, directions, false)

	w := f.do(http.MethodPost, "/api/routes", `{"origin":"A","destination":"B","mode":"driving","waypoints":[],"optimizeWaypoints":false}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp model.RoutesResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != model.StatusOK || len(resp.Routes) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	r := resp.Routes[0]
	if r.TotalDistanceMeters != 10000 || r.TotalDurationSeconds != 900 || r.CarbonEmissions <= 0 {
		t.Errorf("route = %+v", r)
	}
}

func TestFindRoutesEndpointErrors(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{err: errors.New("dial tcp: timeout")}, false)

	if w := f.do(http.MethodPost, "/api/routes", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body status = %d", w.Code)
	}
	if w := f.do(http.MethodPost, "/api/routes", `{"origin":"A","destination":"B"}`); w.Code != http.StatusInternalServerError {
		t.Errorf("transport failure status = %d", w.Code)
	}

	f = newAPIFixture(t, &stubDirections{err: &client.StatusError{Status: "NOT_FOUND"}}, false)
	w := f.do(http.MethodPost, "/api/routes", `{"origin":"A","destination":"B"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status error should still be 200, got %d", w.Code)
	}
	if got := decode(t, w)["status"]; got != "NOT_FOUND" {
		t.Errorf("status = %v", got)
	}
}

func TestEmissionsDetailsNotConfigured(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, false)

	w := f.do(http.MethodPost, "/api/emissions-details", `{"route":{"legs":[]}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["error"]; got != "Emissions function URL not configured" {
		t.Errorf("error = %v", got)
	}
}

func TestEmissionsDetailsPassThrough(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, true)

	w := f.do(http.MethodPost, "/api/emissions-details", `{"route":{"legs":[]},"vehicleType":"suv","mode":"driving"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if got := decode(t, w)["custom_field"]; got != "kept" {
		t.Errorf("unknown fields should pass through, got %v", got)
	}
	if got := f.received[0]["vehicle_type"]; got != "suv" {
		t.Errorf("forwarded vehicle_type = %v", got)
	}

	f.do(http.MethodPost, "/api/emissions-details", `{"route":{"legs":[]}}`)
	if got := f.received[1]["vehicle_type"]; got != "midsize" {
		t.Errorf("default vehicle_type = %v", got)
	}
	if got := f.received[1]["mode"]; got != "driving" {
		t.Errorf("default mode = %v", got)
	}
}

func TestEmissionsDetailsUpstreamError(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, true)
	f.status = http.StatusBadGateway
	f.body = "function crashed"

	w := f.do(http.MethodPost, "/api/emissions-details", `{"route":{"legs":[]},"vehicle_type":"economy"}`)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", w.Code)
	}
	body := decode(t, w)
	if body["error"] != "Error from emissions service: function crashed" {
		t.Errorf("error = %v", body["error"])
	}
	if body["status_code"] != float64(http.StatusBadGateway) {
		t.Errorf("status_code = %v", body["status_code"])
	}
}

func TestEmissionsDetailsTransportFailure(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, true)
	f.function.Close()

	w := f.do(http.MethodPost, "/api/emissions-details", `{"route":{"legs":[]}}`)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	msg, _ := decode(t, w)["error"].(string)
	if !strings.HasPrefix(msg, "Failed to get detailed emissions: ") {
		t.Errorf("error = %q", msg)
	}
}

func TestSearchesDisabled(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, false)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/searches"},
		{http.MethodGet, "/api/searches/abc"},
		{http.MethodDelete, "/api/searches/abc"},
	} {
		if w := f.do(tc.method, tc.path, ""); w.Code != http.StatusServiceUnavailable {
			t.Errorf("%s %s = %d, want 503", tc.method, tc.path, w.Code)
		}
	}
}

func TestHealthEndpoint(t *testing.T) {
	f := newAPIFixture(t, &stubDirections{}, false)

	w := f.do(http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if got := decode(t, w)["status"]; got != health.StatusHealthy {
		t.Errorf("status = %v", got)
	}
}
