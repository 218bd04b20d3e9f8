package health

import (
	"context"
	"net"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Status values reported over HTTP.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
)

// CheckFunc returns an error when a component is unavailable.
type CheckFunc func(ctx context.Context) error

// ComponentStatus is the last result of one check.
type ComponentStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Report is the JSON body of the HTTP health endpoint.
type Report struct {
	Status     string                     `json:"status"`
	Components map[string]ComponentStatus `json:"components"`
	CheckedAt  time.Time                  `json:"checked_at"`
}

type check struct {
	name string
	fn   CheckFunc
}

// Monitor runs component checks and mirrors the results into a gRPC
// health server. The empty service name carries the overall status.
type Monitor struct {
	mu     sync.Mutex
	checks []check
	server *health.Server
	logger *logrus.Logger
}

// NewMonitor creates a monitor with no checks; it reports healthy until
// checks are added.
func NewMonitor(logger *logrus.Logger) *Monitor {
	m := &Monitor{
		server: health.NewServer(),
		logger: logger,
	}
	m.server.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	return m
}

// Register adds a named check.
func (m *Monitor) Register(name string, fn CheckFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.checks = append(m.checks, check{name: name, fn: fn})
	m.server.SetServingStatus(name, healthpb.HealthCheckResponse_SERVICE_UNKNOWN)
}

// Check runs every check and updates the gRPC serving status.
func (m *Monitor) Check(ctx context.Context) Report {
	m.mu.Lock()
	checks := append([]check(nil), m.checks...)
	m.mu.Unlock()

	report := Report{
		Status:     StatusHealthy,
		Components: make(map[string]ComponentStatus, len(checks)),
		CheckedAt:  time.Now().UTC(),
	}

	for _, c := range checks {
		status := ComponentStatus{Status: StatusHealthy}
		serving := healthpb.HealthCheckResponse_SERVING
		if err := c.fn(ctx); err != nil {
			status = ComponentStatus{Status: StatusUnhealthy, Error: err.Error()}
			serving = healthpb.HealthCheckResponse_NOT_SERVING
			report.Status = StatusUnhealthy
			m.logger.WithError(err).WithField("component", c.name).Warn("Health check failed")
		}
		report.Components[c.name] = status
		m.server.SetServingStatus(c.name, serving)
	}

	overall := healthpb.HealthCheckResponse_SERVING
	if report.Status != StatusHealthy {
		overall = healthpb.HealthCheckResponse_NOT_SERVING
	}
	m.server.SetServingStatus("", overall)
	return report
}

// Names lists the registered checks in order.
func (m *Monitor) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.checks))
	for _, c := range m.checks {
		names = append(names, c.name)
	}
	sort.Strings(names)
	return names
}

// Run refreshes the statuses every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	m.Check(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Check(ctx)
		}
	}
}

// Serve exposes the standard gRPC health service on lis until ctx is
// cancelled.
func (m *Monitor) Serve(ctx context.Context, lis net.Listener) error {
	srv := grpc.NewServer()
	healthpb.RegisterHealthServer(srv, m.server)

	go func() {
		<-ctx.Done()
		m.server.Shutdown()
		srv.GracefulStop()
	}()

	m.logger.WithField("addr", lis.Addr().String()).Info("gRPC health server listening")
	return srv.Serve(lis)
}
