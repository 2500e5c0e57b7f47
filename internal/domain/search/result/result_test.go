package result

import (
	"testing"

	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

func TestNew(t *testing.T) {
	places := []place.Candidate{
		place.New("a", "A", "", nil),
		place.New("b", "B", "", nil),
	}
	r := New(places, Filtered, 5)

	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
	if r.Classification() != Filtered {
		t.Errorf("Classification() = %q", r.Classification())
	}
	if r.CandidateCount() != 5 {
		t.Errorf("CandidateCount() = %d, want 5", r.CandidateCount())
	}
	if r.IsEmpty() {
		t.Error("IsEmpty() = true")
	}
	if got := r.Places(); got[0].ExternalID() != "a" || got[1].ExternalID() != "b" {
		t.Errorf("Places() order changed: %v", got)
	}
}

func TestEmpty(t *testing.T) {
	r := Empty()
	if !r.IsEmpty() || r.Count() != 0 {
		t.Fatalf("expected empty result, got %d", r.Count())
	}
	if r.Classification() != Skipped {
		t.Errorf("Classification() = %q, want skipped", r.Classification())
	}
	if r.Places() == nil {
		t.Error("Places() should be an empty slice, not nil")
	}
}
