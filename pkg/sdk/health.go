package localmaps

import (
	"context"

	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
)

// HealthStatus represents the aggregated client health.
type HealthStatus struct {
	Status               string            // "ok" or "degraded"
	Checks               map[string]string // component -> "ok"/"error"
	PlacesConfigured     bool
	ClassifierConfigured bool
}

// Health pings the classification cache, when one is configured, and reports
// which provider keys are set.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status:               string(report.Status),
		Checks:               checks,
		PlacesConfigured:     report.PlacesConfigured,
		ClassifierConfigured: report.ClassifierConfigured,
	}
}

// healthUseCase is the internal interface for health checks.
type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}
