// Package place models businesses returned by the places-search provider.
package place

import (
	"slices"

	"github.com/kailas-cloud/localmaps/internal/domain/geo"
)

// Candidate is one unfiltered place returned by the search provider.
// Values are immutable: With* methods return modified copies.
type Candidate struct {
	externalID  string
	name        string
	address     string
	types       []string
	rating      *float64
	ratingCount *int
	openNow     *bool
	position    *geo.Coordinates
}

// New creates a candidate with the required descriptive fields.
func New(externalID, name, address string, types []string) Candidate {
	return Candidate{
		externalID: externalID,
		name:       name,
		address:    address,
		types:      slices.Clone(types),
	}
}

// WithRating returns a copy carrying the provider rating and its review count.
// A negative count means the provider did not report one.
func (c Candidate) WithRating(rating float64, count int) Candidate {
	c.rating = &rating
	if count >= 0 {
		c.ratingCount = &count
	}
	return c
}

// WithOpenNow returns a copy carrying the current open state.
func (c Candidate) WithOpenNow(open bool) Candidate {
	c.openNow = &open
	return c
}

// WithPosition returns a copy carrying the place location.
func (c Candidate) WithPosition(pos geo.Coordinates) Candidate {
	c.position = &pos
	return c
}

// ExternalID returns the provider's stable identifier.
func (c Candidate) ExternalID() string { return c.externalID }

// Name returns the business name.
func (c Candidate) Name() string { return c.name }

// Address returns the formatted address.
func (c Candidate) Address() string { return c.address }

// Types returns a copy of the provider category tags.
func (c Candidate) Types() []string { return slices.Clone(c.types) }

// Rating returns the average rating and whether the provider reported one.
func (c Candidate) Rating() (float64, bool) {
	if c.rating == nil {
		return 0, false
	}
	return *c.rating, true
}

// RatingCount returns the number of ratings and whether the provider reported it.
func (c Candidate) RatingCount() (int, bool) {
	if c.ratingCount == nil {
		return 0, false
	}
	return *c.ratingCount, true
}

// OpenNow returns the open state and whether opening hours are known.
func (c Candidate) OpenNow() (bool, bool) {
	if c.openNow == nil {
		return false, false
	}
	return *c.openNow, true
}

// Position returns the place location and whether it is known.
func (c Candidate) Position() (geo.Coordinates, bool) {
	if c.position == nil {
		return geo.Coordinates{}, false
	}
	return *c.position, true
}

// MeetsRating reports whether the candidate has a rating of at least minRating.
// Candidates without a rating never meet a threshold.
func (c Candidate) MeetsRating(minRating float64) bool {
	r, ok := c.Rating()
	return ok && r >= minRating
}

// IsOpen reports whether the candidate is known to be open right now.
func (c Candidate) IsOpen() bool {
	open, ok := c.OpenNow()
	return ok && open
}
