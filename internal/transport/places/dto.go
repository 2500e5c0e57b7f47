package places

import (
	"github.com/kailas-cloud/localmaps/internal/domain/geo"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

// Provider statuses with special handling.
const (
	statusOK             = "OK"
	statusZeroResults    = "ZERO_RESULTS"
	statusNotFound       = "NOT_FOUND"
	statusInvalidRequest = "INVALID_REQUEST"
)

type textSearchResponse struct {
	Results      []placeResult `json:"results"`
	Status       string        `json:"status"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

type detailsResponse struct {
	Result       placeResult `json:"result"`
	Status       string      `json:"status"`
	ErrorMessage string      `json:"error_message,omitempty"`
}

type placeResult struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Vicinity         string        `json:"vicinity"`
	Types            []string      `json:"types"`
	Rating           *float64      `json:"rating"`
	UserRatingsTotal *int          `json:"user_ratings_total"`
	OpeningHours     *openingHours `json:"opening_hours"`
	Geometry         *geometry     `json:"geometry"`

	// Details endpoint only.
	FormattedPhoneNumber string `json:"formatted_phone_number"`
	Website              string `json:"website"`
	URL                  string `json:"url"`
}

type openingHours struct {
	OpenNow     *bool    `json:"open_now"`
	WeekdayText []string `json:"weekday_text"`
}

type geometry struct {
	Location latLng `json:"location"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// toCandidate normalizes a provider record. Absent fields stay absent.
func (p placeResult) toCandidate() place.Candidate {
	address := p.FormattedAddress
	if address == "" {
		address = p.Vicinity
	}
	c := place.New(p.PlaceID, p.Name, address, p.Types)
	if p.Rating != nil {
		count := -1
		if p.UserRatingsTotal != nil {
			count = *p.UserRatingsTotal
		}
		c = c.WithRating(*p.Rating, count)
	}
	if p.OpeningHours != nil && p.OpeningHours.OpenNow != nil {
		c = c.WithOpenNow(*p.OpeningHours.OpenNow)
	}
	if p.Geometry != nil {
		if pos, err := geo.New(p.Geometry.Location.Lat, p.Geometry.Location.Lng); err == nil {
			c = c.WithPosition(pos)
		}
	}
	return c
}

func (p placeResult) toDetails() place.Details {
	d := place.Details{
		Candidate: p.toCandidate(),
		Phone:     p.FormattedPhoneNumber,
		Website:   p.Website,
		MapsURL:   p.URL,
	}
	if p.OpeningHours != nil {
		d.WeekdayText = p.OpeningHours.WeekdayText
	}
	return d
}
