package favorites

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/localmaps/internal/db/sqlite"
	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

type repository interface {
	Add(ctx context.Context, userID string, f favorite.Favorite) error
	Remove(ctx context.Context, userID, placeID string) error
	Exists(ctx context.Context, userID, placeID string) (bool, error)
	List(ctx context.Context, userID string) ([]favorite.Favorite, error)
}

// memHashStore is an in-memory implementation of the consumer interface.
type memHashStore struct {
	mu     sync.Mutex
	hashes map[string]map[string]string
}

func newMemHashStore() *memHashStore {
	return &memHashStore{hashes: map[string]map[string]string{}}
}

func (m *memHashStore) HSetNX(_ context.Context, key, field, value string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	if _, exists := h[field]; exists {
		return false, nil
	}
	h[field] = value
	return true, nil
}

func (m *memHashStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memHashStore) HDel(_ context.Context, key string, fields ...string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, f := range fields {
		if _, ok := m.hashes[key][f]; ok {
			delete(m.hashes[key], f)
			n++
		}
	}
	return n, nil
}

func (m *memHashStore) HExists(_ context.Context, key, field string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.hashes[key][field]
	return ok, nil
}

func backends(t *testing.T, users ...string) map[string]repository {
	t.Helper()
	s, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	for _, u := range users {
		_, err := s.DB().Exec(
			`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, 'x', 0)`,
			u, u, u+"@example.com")
		require.NoError(t, err)
	}

	return map[string]repository{
		"redis":  NewRedis(newMemHashStore()),
		"sqlite": NewSQLite(s.DB()),
	}
}

func fav(t *testing.T, placeID string, rating *float64, at time.Time) favorite.Favorite {
	t.Helper()
	data, err := json.Marshal(map[string]any{"place_id": placeID, "name": "Name " + placeID})
	require.NoError(t, err)
	f, err := favorite.New(placeID, "Name "+placeID, placeID+" Main St", rating, data)
	require.NoError(t, err)
	f.CreatedAt = at
	return f
}
