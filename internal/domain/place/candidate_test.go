package place

import (
	"testing"

	"github.com/kailas-cloud/localmaps/internal/domain/geo"
)

func TestNew_RequiredFields(t *testing.T) {
	c := New("p1", "Bean There", "1 Main St", []string{"cafe", "food"})

	if c.ExternalID() != "p1" || c.Name() != "Bean There" || c.Address() != "1 Main St" {
		t.Fatalf("unexpected candidate: %+v", c)
	}
	if len(c.Types()) != 2 || c.Types()[0] != "cafe" {
		t.Fatalf("unexpected types: %v", c.Types())
	}
	if _, ok := c.Rating(); ok {
		t.Error("rating should be absent")
	}
	if _, ok := c.RatingCount(); ok {
		t.Error("rating count should be absent")
	}
	if _, ok := c.OpenNow(); ok {
		t.Error("open now should be absent")
	}
	if _, ok := c.Position(); ok {
		t.Error("position should be absent")
	}
}

func TestCandidate_Immutable(t *testing.T) {
	types := []string{"cafe"}
	base := New("p1", "Bean There", "1 Main St", types)
	types[0] = "mutated"

	if base.Types()[0] != "cafe" {
		t.Fatal("constructor must copy types")
	}

	got := base.Types()
	got[0] = "mutated"
	if base.Types()[0] != "cafe" {
		t.Fatal("Types must return a copy")
	}

	rated := base.WithRating(4.5, 120)
	if _, ok := base.Rating(); ok {
		t.Fatal("WithRating must not modify the receiver")
	}
	if r, ok := rated.Rating(); !ok || r != 4.5 {
		t.Fatalf("expected rating 4.5, got %v %v", r, ok)
	}
	if n, ok := rated.RatingCount(); !ok || n != 120 {
		t.Fatalf("expected count 120, got %v %v", n, ok)
	}
}

func TestWithRating_NegativeCountAbsent(t *testing.T) {
	c := New("p1", "n", "a", nil).WithRating(3.9, -1)
	if _, ok := c.RatingCount(); ok {
		t.Fatal("negative count should mean absent")
	}
}

func TestWithPositionAndOpenNow(t *testing.T) {
	c := New("p1", "n", "a", nil).
		WithOpenNow(true).
		WithPosition(geo.Coordinates{Latitude: 1, Longitude: 2})

	if open, ok := c.OpenNow(); !ok || !open {
		t.Fatal("expected open")
	}
	if pos, ok := c.Position(); !ok || pos.Latitude != 1 || pos.Longitude != 2 {
		t.Fatalf("unexpected position %+v", pos)
	}
}

func TestMeetsRating(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		min  float64
		want bool
	}{
		{"missing rating", New("a", "a", "", nil), 0, false},
		{"below", New("a", "a", "", nil).WithRating(3.0, 10), 4, false},
		{"equal", New("a", "a", "", nil).WithRating(4.0, 10), 4, true},
		{"above", New("a", "a", "", nil).WithRating(4.8, 10), 4, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.c.MeetsRating(tc.min); got != tc.want {
				t.Errorf("MeetsRating(%v) = %v, want %v", tc.min, got, tc.want)
			}
		})
	}
}

func TestIsOpen(t *testing.T) {
	if New("a", "a", "", nil).IsOpen() {
		t.Error("unknown hours must not count as open")
	}
	if New("a", "a", "", nil).WithOpenNow(false).IsOpen() {
		t.Error("closed must not count as open")
	}
	if !New("a", "a", "", nil).WithOpenNow(true).IsOpen() {
		t.Error("open must count as open")
	}
}
