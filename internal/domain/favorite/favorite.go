// Package favorite models businesses a user saved from search results.
package favorite

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/kailas-cloud/localmaps/internal/domain"
)

// Favorite is a saved business snapshot, keyed by the provider's place id.
type Favorite struct {
	PlaceID   string
	Name      string
	Address   string
	Rating    *float64
	Data      json.RawMessage // original business payload as sent by the client
	CreatedAt time.Time
}

// New validates and creates a favorite.
func New(placeID, name, address string, rating *float64, data json.RawMessage) (Favorite, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return Favorite{}, domain.NewValidationError("place_id", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return Favorite{}, domain.NewValidationError("name", "is required")
	}
	if len(data) > 0 && !json.Valid(data) {
		return Favorite{}, domain.NewValidationError("place_data", "must be valid JSON")
	}
	if rating != nil {
		v := *rating
		rating = &v
	}
	return Favorite{
		PlaceID: placeID,
		Name:    name,
		Address: strings.TrimSpace(address),
		Rating:  rating,
		Data:    data,
	}, nil
}
