package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status               Status
	Checks               map[string]CheckResult
	PlacesConfigured     bool
	ClassifierConfigured bool
}

// Service coordinates health checks.
type Service struct {
	storage    StoragePinger
	places     Provider
	classifier Provider
}

// New creates a Service. Any argument can be nil; a nil storage is not checked.
func New(storage StoragePinger, places, classifier Provider) *Service {
	return &Service{storage: storage, places: places, classifier: classifier}
}

// Check pings storage and reports provider configuration. Missing provider
// keys do not degrade the status: search still answers with a provider error.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.storage != nil {
		if err := s.storage.Ping(ctx); err != nil {
			checks["storage"] = CheckError
		} else {
			checks["storage"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{
		Status:               status,
		Checks:               checks,
		PlacesConfigured:     s.places != nil && s.places.Configured(),
		ClassifierConfigured: s.classifier != nil && s.classifier.Configured(),
	}
}
