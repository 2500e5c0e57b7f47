package search

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	"github.com/kailas-cloud/localmaps/internal/domain/search/result"
	"github.com/kailas-cloud/localmaps/internal/logger"
	"github.com/kailas-cloud/localmaps/internal/metrics"
)

// Timeouts bound the two outbound calls of a run. Zero disables the bound.
type Timeouts struct {
	Search   time.Duration
	Classify time.Duration
}

// Service runs the search-then-classify pipeline. It holds no per-request
// state and is safe for concurrent use.
type Service struct {
	places     PlaceSearcher
	classifier Classifier
	timeouts   Timeouts
}

// New creates a search service.
func New(places PlaceSearcher, classifier Classifier, timeouts Timeouts) *Service {
	return &Service{places: places, classifier: classifier, timeouts: timeouts}
}

// Run searches, classifies, and filters. It fails only on invalid input,
// a places provider failure, or caller cancellation. Classifier failures
// fall back to the unfiltered candidate list.
func (s *Service) Run(ctx context.Context, req request.Request) (result.Result, error) {
	if req.Text() == "" {
		return result.Result{}, domain.NewValidationError("query", "is required")
	}

	candidates, err := s.search(ctx, req)
	if err != nil {
		metrics.SearchRunsTotal.WithLabelValues("error").Inc()
		return result.Result{}, fmt.Errorf("search places: %w", err)
	}
	if len(candidates) == 0 {
		metrics.SearchRunsTotal.WithLabelValues(string(result.Skipped)).Inc()
		metrics.SearchResultSize.Observe(0)
		return result.Empty(), nil
	}

	working, path, err := s.classify(ctx, req.Text(), candidates)
	if err != nil {
		metrics.SearchRunsTotal.WithLabelValues("error").Inc()
		return result.Result{}, err
	}

	if minRating, ok := req.MinRating(); ok {
		working = filter(working, func(c place.Candidate) bool { return c.MeetsRating(minRating) })
	}
	if req.OpenNowOnly() {
		working = filter(working, place.Candidate.IsOpen)
	}

	metrics.SearchRunsTotal.WithLabelValues(string(path)).Inc()
	metrics.SearchResultSize.Observe(float64(len(working)))
	return result.New(working, path, len(candidates)), nil
}

// Place fetches details for a single place.
func (s *Service) Place(ctx context.Context, placeID string) (place.Details, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return place.Details{}, domain.NewValidationError("place_id", "is required")
	}
	ctx, cancel := withTimeout(ctx, s.timeouts.Search)
	defer cancel()

	d, err := s.places.Details(ctx, placeID)
	if err != nil {
		return place.Details{}, fmt.Errorf("place details: %w", err)
	}
	return d, nil
}

func (s *Service) search(ctx context.Context, req request.Request) ([]place.Candidate, error) {
	ctx, cancel := withTimeout(ctx, s.timeouts.Search)
	defer cancel()
	return s.places.TextSearch(ctx, req)
}

// classify returns the working set and the path taken. It errors only when
// the caller's context is done; classifier failures of its own become Fallback.
func (s *Service) classify(
	ctx context.Context, query string, candidates []place.Candidate,
) ([]place.Candidate, result.Classification, error) {
	cctx, cancel := withTimeout(ctx, s.timeouts.Classify)
	defer cancel()

	res, err := s.classifier.Classify(cctx, query, candidates)
	if err == nil {
		return res.Select(candidates), result.Filtered, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, "", fmt.Errorf("classify: %w", ctxErr)
	}

	logger.FromContext(ctx).Warn("classifier unavailable, returning unfiltered candidates",
		zap.Int("candidates", len(candidates)),
		zap.Error(err),
	)
	return candidates, result.Fallback, nil
}

func filter(in []place.Candidate, keep func(place.Candidate) bool) []place.Candidate {
	out := make([]place.Candidate, 0, len(in))
	for _, c := range in {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
