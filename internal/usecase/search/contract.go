package search

import (
	"context"

	"github.com/kailas-cloud/localmaps/internal/domain/classification"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
)

// PlaceSearcher queries the places provider. Failures are fatal for the run.
type PlaceSearcher interface {
	TextSearch(ctx context.Context, req request.Request) ([]place.Candidate, error)
	Details(ctx context.Context, placeID string) (place.Details, error)
}

// Classifier judges which candidates are independent businesses.
// Any error means the classifier is unavailable for this run.
type Classifier interface {
	Classify(ctx context.Context, query string, candidates []place.Candidate) (classification.Result, error)
}
