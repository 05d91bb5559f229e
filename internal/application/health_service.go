package application

import (
	"context"

	"github.com/alorle/tvtube-proxy/internal/port/driven"
	"github.com/alorle/tvtube-proxy/metrics"
)

// HealthService orchestrates health checks for the application and its dependencies.
type HealthService struct {
	upstream driven.Upstream
	branding driven.BrandingService
}

// NewHealthService creates a new health check service.
func NewHealthService(upstream driven.Upstream, branding driven.BrandingService) *HealthService {
	return &HealthService{
		upstream: upstream,
		branding: branding,
	}
}

// ComponentHealth represents the health status of a single component.
type ComponentHealth struct {
	Status string // "ok" or "error"
	Error  string // empty if status is "ok", otherwise contains error message
}

// HealthStatus represents the overall health status of the application.
type HealthStatus struct {
	Status   string          // "ok" if all components are healthy, "degraded" otherwise
	Upstream ComponentHealth // TV-client API reachability
	Branding ComponentHealth // crowd branding API circuit
}

// Check performs health checks on all dependencies.
// Returns the overall health status and individual component statuses.
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status: "ok",
	}

	status.Upstream = check(ctx, s.upstream)
	status.Branding = check(ctx, s.branding)

	if status.Upstream.Status != "ok" || status.Branding.Status != "ok" {
		status.Status = "degraded"
		metrics.RecordHealthCheckFailure()
	}

	return status
}

type pinger interface {
	Ping(ctx context.Context) error
}

func check(ctx context.Context, p pinger) ComponentHealth {
	if err := p.Ping(ctx); err != nil {
		return ComponentHealth{
			Status: "error",
			Error:  err.Error(),
		}
	}
	return ComponentHealth{Status: "ok"}
}
