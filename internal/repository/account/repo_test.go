package account

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

func TestRepo_CreateAndLookupUser(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := testUser("u1", "Alice", "alice@example.com")
			require.NoError(t, repo.CreateUser(ctx, u))

			got, err := repo.UserByUsername(ctx, "alice")
			require.NoError(t, err)
			assert.Equal(t, u.ID, got.ID)
			assert.Equal(t, "Alice", got.Username)
			assert.Equal(t, u.Email, got.Email)
			assert.Equal(t, u.PasswordHash, got.PasswordHash)
			assert.True(t, u.CreatedAt.Equal(got.CreatedAt))

			byID, err := repo.UserByID(ctx, "u1")
			require.NoError(t, err)
			assert.Equal(t, "Alice", byID.Username)
		})
	}
}

func TestRepo_DuplicateUser(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreateUser(ctx, testUser("u1", "alice", "alice@example.com")))

			err := repo.CreateUser(ctx, testUser("u2", "ALICE", "other@example.com"))
			assert.ErrorIs(t, err, domain.ErrAlreadyExists)

			err = repo.CreateUser(ctx, testUser("u3", "bob", "alice@example.com"))
			assert.ErrorIs(t, err, domain.ErrAlreadyExists)

			// The failed attempts must not block the username they briefly claimed.
			require.NoError(t, repo.CreateUser(ctx, testUser("u4", "bob", "bob@example.com")))
		})
	}
}

func TestRepo_UserNotFound(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, err := repo.UserByUsername(context.Background(), "ghost")
			assert.ErrorIs(t, err, domain.ErrNotFound)
			_, err = repo.UserByID(context.Background(), "ghost")
			assert.ErrorIs(t, err, domain.ErrNotFound)
		})
	}
}

func TestRepo_SessionLifecycle(t *testing.T) {
	for name, repo := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.CreateUser(ctx, testUser("u1", "alice", "alice@example.com")))

			expires := time.Now().Add(time.Hour).Truncate(time.Millisecond)
			require.NoError(t, repo.CreateSession(ctx, domacc.Session{Token: "tok", UserID: "u1", ExpiresAt: expires}))

			s, err := repo.Session(ctx, "tok")
			require.NoError(t, err)
			assert.Equal(t, "u1", s.UserID)
			assert.True(t, expires.Equal(s.ExpiresAt))

			require.NoError(t, repo.DeleteSession(ctx, "tok"))
			_, err = repo.Session(ctx, "tok")
			assert.ErrorIs(t, err, domain.ErrNotFound)

			// Deleting twice is fine.
			require.NoError(t, repo.DeleteSession(ctx, "tok"))
		})
	}
}

func TestRedisRepo_SessionTTL(t *testing.T) {
	ms := newMemStore()
	repo := NewRedis(ms)

	err := repo.CreateSession(context.Background(), domacc.Session{
		Token: "tok", UserID: "u1", ExpiresAt: time.Now().Add(2 * time.Hour),
	})
	require.NoError(t, err)

	ttl := ms.ttls[sessionKeyPrefix+"tok"]
	assert.InDelta(t, (2 * time.Hour).Seconds(), ttl.Seconds(), 5)

	err = repo.CreateSession(context.Background(), domacc.Session{
		Token: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Minute),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRedisRepo_CreateUserReleasesClaimsOnFailure(t *testing.T) {
	ms := newMemStore()
	ms.hsetFn = func(string) error { return errBoom }
	repo := NewRedis(ms)

	err := repo.CreateUser(context.Background(), testUser("u1", "alice", "alice@example.com"))
	require.ErrorIs(t, err, errBoom)
	assert.Zero(t, ms.keysWithPrefix(usernameKeyPrefix))
	assert.Zero(t, ms.keysWithPrefix(emailKeyPrefix))
}

func TestSQLiteRepo_PurgesExpiredSessions(t *testing.T) {
	repo, ok := backends(t)["sqlite"].(*SQLiteRepo)
	require.True(t, ok)
	ctx := context.Background()
	require.NoError(t, repo.CreateUser(ctx, testUser("u1", "alice", "alice@example.com")))

	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ('stale', 'u1', ?)`,
		time.Now().Add(-time.Hour).UnixMilli())
	require.NoError(t, err)

	require.NoError(t, repo.CreateSession(ctx, domacc.Session{Token: "fresh", UserID: "u1", ExpiresAt: time.Now().Add(time.Hour)}))

	_, err = repo.Session(ctx, "stale")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Session(ctx, "fresh")
	assert.NoError(t, err)
}
