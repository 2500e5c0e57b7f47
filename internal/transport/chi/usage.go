package chi

import (
	"net/http"
	"time"

	domusage "github.com/kailas-cloud/localmaps/internal/domain/usage"
)

// Usage handles GET /api/usage?period=day|month.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := queryParam(r, "period", &raw); err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	period, err := domusage.ParsePeriod(raw)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	report := s.usage.GetReport(r.Context(), period)
	b := report.Budget()
	writeJSON(w, http.StatusOK, usageResponse{
		Period:        string(report.Period()),
		PeriodStartAt: time.UnixMilli(report.PeriodStart()).UTC(),
		PeriodEndAt:   time.UnixMilli(report.PeriodEnd()).UTC(),
		TokensUsed:    report.TokensUsed(),
		Budget: budgetResponse{
			TokensLimit:     b.TokensLimit(),
			TokensRemaining: b.TokensRemaining(),
			IsExhausted:     b.IsExhausted(),
			ResetsAt:        time.UnixMilli(b.ResetsAt()).UTC(),
		},
	})
}
