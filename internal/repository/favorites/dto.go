package favorites

import (
	"encoding/json"
	"time"

	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

// favoriteDTO is the stored JSON form of a favorite in the hash backend.
type favoriteDTO struct {
	PlaceID   string          `json:"place_id"`
	Name      string          `json:"name"`
	Address   string          `json:"address,omitempty"`
	Rating    *float64        `json:"rating,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	CreatedAt int64           `json:"created_at"` // unix millis
}

func toDTO(f favorite.Favorite) favoriteDTO {
	return favoriteDTO{
		PlaceID:   f.PlaceID,
		Name:      f.Name,
		Address:   f.Address,
		Rating:    f.Rating,
		Data:      f.Data,
		CreatedAt: f.CreatedAt.UnixMilli(),
	}
}

func (d favoriteDTO) toDomain() favorite.Favorite {
	return favorite.Favorite{
		PlaceID:   d.PlaceID,
		Name:      d.Name,
		Address:   d.Address,
		Rating:    d.Rating,
		Data:      d.Data,
		CreatedAt: time.UnixMilli(d.CreatedAt),
	}
}
