package result

import (
	"slices"

	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

// Classification records which path the classifier stage took.
type Classification string

// Classification outcomes.
const (
	// Filtered means the classifier answered and its accepted set was applied.
	Filtered Classification = "filtered"
	// Fallback means the classifier was unavailable and all candidates were kept.
	Fallback Classification = "fallback"
	// Skipped means there was nothing to classify.
	Skipped Classification = "skipped"
)

// Result is the ordered outcome of one search run.
type Result struct {
	places         []place.Candidate
	classification Classification
	candidateCount int
}

// New creates a search result.
func New(places []place.Candidate, classification Classification, candidateCount int) Result {
	return Result{
		places:         places,
		classification: classification,
		candidateCount: candidateCount,
	}
}

// Empty creates a result for a search that produced no candidates.
func Empty() Result {
	return Result{places: []place.Candidate{}, classification: Skipped}
}

// Places returns the filtered candidates in provider order.
func (r *Result) Places() []place.Candidate { return slices.Clone(r.places) }

// Count returns the number of places in the result.
func (r *Result) Count() int { return len(r.places) }

// Classification returns the classifier path taken.
func (r *Result) Classification() Classification { return r.classification }

// CandidateCount returns how many candidates the provider returned before narrowing.
func (r *Result) CandidateCount() int { return r.candidateCount }

// IsEmpty reports a normal zero-match outcome.
func (r *Result) IsEmpty() bool { return len(r.places) == 0 }
