// Package favorites persists a user's saved businesses in either backend.
package favorites

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

var favoritesKeyPrefix = domain.KeyPrefix + "favorites:"

// store is the consumer interface for favorites (ISP).
type store interface {
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HDel(ctx context.Context, key string, fields ...string) (int64, error)
	HExists(ctx context.Context, key, field string) (bool, error)
}

// RedisRepo implements usecase/favorites.Repository with one hash per user,
// keyed by place id.
type RedisRepo struct {
	store store
}

// NewRedis creates a Valkey/Redis-backed favorites repository.
func NewRedis(s store) *RedisRepo {
	return &RedisRepo{store: s}
}

func favoritesKey(userID string) string { return favoritesKeyPrefix + userID }

// Add stores a favorite. An existing place id yields domain.ErrAlreadyExists.
func (r *RedisRepo) Add(ctx context.Context, userID string, f favorite.Favorite) error {
	data, err := json.Marshal(toDTO(f))
	if err != nil {
		return fmt.Errorf("marshal favorite: %w", err)
	}
	ok, err := r.store.HSetNX(ctx, favoritesKey(userID), f.PlaceID, string(data))
	if err != nil {
		return fmt.Errorf("store favorite: %w", err)
	}
	if !ok {
		return fmt.Errorf("favorite %q: %w", f.PlaceID, domain.ErrAlreadyExists)
	}
	return nil
}

// Remove deletes a favorite. A missing place id yields domain.ErrNotFound.
func (r *RedisRepo) Remove(ctx context.Context, userID, placeID string) error {
	n, err := r.store.HDel(ctx, favoritesKey(userID), placeID)
	if err != nil {
		return fmt.Errorf("remove favorite: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("favorite %q: %w", placeID, domain.ErrNotFound)
	}
	return nil
}

// Exists reports whether the user saved the place.
func (r *RedisRepo) Exists(ctx context.Context, userID, placeID string) (bool, error) {
	ok, err := r.store.HExists(ctx, favoritesKey(userID), placeID)
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return ok, nil
}

// List returns the user's favorites, newest first.
func (r *RedisRepo) List(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	m, err := r.store.HGetAll(ctx, favoritesKey(userID))
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}

	out := make([]favorite.Favorite, 0, len(m))
	for placeID, raw := range m {
		var dto favoriteDTO
		if err := json.Unmarshal([]byte(raw), &dto); err != nil {
			return nil, fmt.Errorf("unmarshal favorite %q: %w", placeID, err)
		}
		out = append(out, dto.toDomain())
	}
	slices.SortFunc(out, func(a, b favorite.Favorite) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.PlaceID, b.PlaceID)
	})
	return out, nil
}
