package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_Memory(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))

	var n int
	err = s.DB().QueryRow(`SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'sessions', 'favorites')`).Scan(&n)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestOpen_FileCreatesDirAndIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "localmaps.db")

	s, err := Open(context.Background(), path)
	require.NoError(t, err)
	s.Close()

	s, err = Open(context.Background(), path)
	require.NoError(t, err)
	s.Close()
}

func TestIsUniqueViolation(t *testing.T) {
	s, err := Open(context.Background(), MemoryPath)
	require.NoError(t, err)
	defer s.Close()

	insert := `INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, 'x', 0)`
	_, err = s.DB().Exec(insert, "u1", "alice", "a@example.com")
	require.NoError(t, err)

	_, err = s.DB().Exec(insert, "u2", "ALICE", "b@example.com")
	assert.True(t, IsUniqueViolation(err), "username is case-insensitive unique: %v", err)

	assert.False(t, IsUniqueViolation(nil))
	assert.False(t, IsUniqueViolation(errors.New("disk I/O error")))
}

func TestIsNoRows(t *testing.T) {
	assert.True(t, IsNoRows(sql.ErrNoRows))
	assert.False(t, IsNoRows(errors.New("other")))
}
