package favorites

import (
	"context"

	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

// Repository defines the storage contract for a user's favorites.
type Repository interface {
	Add(ctx context.Context, userID string, f favorite.Favorite) error
	Remove(ctx context.Context, userID, placeID string) error
	Exists(ctx context.Context, userID, placeID string) (bool, error)
	List(ctx context.Context, userID string) ([]favorite.Favorite, error)
}
