package classification

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"slices"

	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

var (
	// ErrNoIndexArray signals a reply without any integer-array literal.
	ErrNoIndexArray = errors.New("no index array in classifier reply")
	// ErrMalformedIndexArray signals an array-shaped substring that does not decode.
	ErrMalformedIndexArray = errors.New("malformed index array in classifier reply")
)

var indexArrayRegex = regexp.MustCompile(`\[[\d,\s]*\]`)

// Result is the set of local indices the classifier accepted. An empty Result
// is a confident "nothing qualifies" answer.
type Result struct {
	accepted map[int]struct{}
}

// NewResult creates a result from accepted indices. Duplicates collapse.
func NewResult(indices ...int) Result {
	accepted := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		accepted[i] = struct{}{}
	}
	return Result{accepted: accepted}
}

// Parse extracts the first integer-array literal anywhere in text.
// Only that substring is decoded; surrounding prose is ignored.
func Parse(text string) (Result, error) {
	match := indexArrayRegex.FindString(text)
	if match == "" {
		return Result{}, ErrNoIndexArray
	}
	var indices []int
	if err := json.Unmarshal([]byte(match), &indices); err != nil {
		return Result{}, fmt.Errorf("%w: %q: %w", ErrMalformedIndexArray, match, err)
	}
	return NewResult(indices...), nil
}

// Accepts reports whether local index i was accepted.
func (r Result) Accepts(i int) bool {
	_, ok := r.accepted[i]
	return ok
}

// Indices returns the accepted indices in ascending order.
func (r Result) Indices() []int {
	out := make([]int, 0, len(r.accepted))
	for i := range r.accepted {
		out = append(out, i)
	}
	slices.Sort(out)
	return out
}

// Len returns the number of distinct accepted indices, including out-of-range ones.
func (r Result) Len() int { return len(r.accepted) }

// Select keeps the candidates whose local index was accepted, in their original order.
// Indices outside the candidate range are dropped silently.
func (r Result) Select(candidates []place.Candidate) []place.Candidate {
	out := make([]place.Candidate, 0, min(len(r.accepted), len(candidates)))
	for i, c := range candidates {
		if r.Accepts(i) {
			out = append(out, c)
		}
	}
	return out
}
