package account

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/localmaps/internal/db"
	"github.com/kailas-cloud/localmaps/internal/db/sqlite"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

// repository is the behavior both backends share.
type repository interface {
	CreateUser(ctx context.Context, u domacc.User) error
	UserByUsername(ctx context.Context, username string) (domacc.User, error)
	UserByID(ctx context.Context, id string) (domacc.User, error)
	CreateSession(ctx context.Context, s domacc.Session) error
	Session(ctx context.Context, token string) (domacc.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// memStore is an in-memory implementation of the consumer interface.
type memStore struct {
	mu     sync.Mutex
	kv     map[string][]byte
	hashes map[string]map[string]string
	ttls   map[string]time.Duration
	hsetFn func(key string) error
}

func newMemStore() *memStore {
	return &memStore{
		kv:     map[string][]byte{},
		hashes: map[string]map[string]string{},
		ttls:   map[string]time.Duration{},
	}
}

func (m *memStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.kv[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *memStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.kv[key] = value
	m.ttls[key] = ttl
	return nil
}

func (m *memStore) SetNX(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.kv[key]; ok {
		return false, nil
	}
	m.kv[key] = value
	if ttl > 0 {
		m.ttls[key] = ttl
	}
	return true, nil
}

func (m *memStore) Del(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.kv, key)
	delete(m.hashes, key)
	return nil
}

func (m *memStore) HSet(_ context.Context, key string, fields map[string]string) error {
	if m.hsetFn != nil {
		if err := m.hsetFn(key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.hashes[key]
	if !ok {
		h = map[string]string{}
		m.hashes[key] = h
	}
	for k, v := range fields {
		h[k] = v
	}
	return nil
}

func (m *memStore) HGetAll(_ context.Context, key string) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.hashes[key] {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) keysWithPrefix(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for k := range m.kv {
		if strings.HasPrefix(k, prefix) {
			n++
		}
	}
	return n
}

var errBoom = errors.New("boom")

// backends returns a fresh repository per backend.
func backends(t *testing.T) map[string]repository {
	t.Helper()
	s, err := sqlite.Open(context.Background(), sqlite.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(s.Close)

	return map[string]repository{
		"redis":  NewRedis(newMemStore()),
		"sqlite": NewSQLite(s.DB()),
	}
}

func testUser(id, username, email string) domacc.User {
	return domacc.User{
		ID:           id,
		Username:     username,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.UnixMilli(1_700_000_000_000),
	}
}
