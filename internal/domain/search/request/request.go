package request

import (
	"fmt"
	"math"
	"strings"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/geo"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search text length.
	MaxQueryLength = 512
	MinRating      = 0.0
	MaxRating      = 5.0
)

// Request is a validated search query.
type Request struct {
	text         string
	origin       geo.Coordinates
	radiusMeters int
	minRating    *float64
	openNowOnly  bool
}

// New validates and normalizes search parameters.
// A zero radius selects domain.DefaultRadiusMeters; a nil minRating disables the rating filter.
func New(
	text string,
	origin *geo.Coordinates,
	radiusMeters int,
	minRating *float64,
	openNowOnly bool,
) (Request, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, domain.NewValidationError("query", "is required")
	}
	if len(text) > MaxQueryLength {
		return Request{}, domain.NewValidationError("query", fmt.Sprintf("too long (max %d chars)", MaxQueryLength))
	}
	if origin == nil {
		return Request{}, domain.NewValidationError("location", "is required")
	}
	if err := origin.Validate(); err != nil {
		return Request{}, domain.NewValidationError("location", err.Error())
	}
	if radiusMeters == 0 {
		radiusMeters = domain.DefaultRadiusMeters
	}
	if radiusMeters < 0 || radiusMeters > domain.MaxRadiusMeters {
		return Request{}, domain.NewValidationError("radius",
			fmt.Sprintf("must be between 1 and %d meters", domain.MaxRadiusMeters))
	}

	var rating *float64
	if minRating != nil {
		v := *minRating
		if math.IsNaN(v) || v < MinRating || v > MaxRating {
			return Request{}, domain.NewValidationError("min_rating",
				fmt.Sprintf("must be between %v and %v", MinRating, MaxRating))
		}
		rating = &v
	}

	return Request{
		text:         text,
		origin:       *origin,
		radiusMeters: radiusMeters,
		minRating:    rating,
		openNowOnly:  openNowOnly,
	}, nil
}

// Text returns the free-text search term.
func (r *Request) Text() string { return r.text }

// Origin returns the point the search is centered on.
func (r *Request) Origin() geo.Coordinates { return r.origin }

// RadiusMeters returns the search radius.
func (r *Request) RadiusMeters() int { return r.radiusMeters }

// MinRating returns the rating threshold and whether one was requested.
func (r *Request) MinRating() (float64, bool) {
	if r.minRating == nil {
		return 0, false
	}
	return *r.minRating, true
}

// OpenNowOnly reports whether closed places and places without hours are dropped.
func (r *Request) OpenNowOnly() bool { return r.openNowOnly }
