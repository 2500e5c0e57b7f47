package chi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/geo"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
)

// Search handles POST /api/search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	req, err := s.searchRequestFromBody(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	res, err := s.search.Run(r.Context(), req)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	places := res.Places()
	items := make([]placeResponse, len(places))
	for i, p := range places {
		items[i] = placeToResponse(p)
	}
	resp := searchResponse{
		Success:        true,
		Results:        items,
		Count:          res.Count(),
		Candidates:     res.CandidateCount(),
		Classification: string(res.Classification()),
	}
	if res.IsEmpty() {
		resp.Message = emptySearchMessage
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) searchRequestFromBody(body searchRequest) (request.Request, error) {
	var origin *geo.Coordinates
	if body.Location != nil && body.Location.Lat != nil && body.Location.Lng != nil {
		origin = &geo.Coordinates{Latitude: *body.Location.Lat, Longitude: *body.Location.Lng}
	}

	radius := s.defaultRadius
	if body.Radius != nil {
		if *body.Radius <= 0 {
			return request.Request{}, domain.NewValidationError("radius", "must be positive")
		}
		radius = *body.Radius
	}

	return request.New(body.Query, origin, radius, body.MinRating, body.OpenNow)
}

// Place handles GET /api/place/{place_id}.
func (s *Server) Place(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathParam(r, "place_id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	details, err := s.search.Place(r.Context(), placeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, detailsToResponse(details))
}

// Health handles GET /api/health.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	message := "Server is running"
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
		message = "Storage is unavailable"
	}

	writeJSON(w, httpStatus, healthResponse{
		Status:                  string(report.Status),
		Message:                 message,
		Checks:                  checks,
		PlacesAPIConfigured:     report.PlacesConfigured,
		ClassifierAPIConfigured: report.ClassifierConfigured,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}
