// Package account stores users and login sessions in either backend.
package account

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/localmaps/internal/db"
	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

var (
	userKeyPrefix     = domain.KeyPrefix + "user:"
	usernameKeyPrefix = domain.KeyPrefix + "username:"
	emailKeyPrefix    = domain.KeyPrefix + "email:"
	sessionKeyPrefix  = domain.KeyPrefix + "session:"
)

// store is the consumer interface for accounts (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	SetNX(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	Del(ctx context.Context, key string) error
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

// RedisRepo implements usecase/account.Repository on Valkey/Redis.
// Username and email uniqueness is claimed with SET NX index keys.
type RedisRepo struct {
	store store
}

// NewRedis creates a Valkey/Redis-backed account repository.
func NewRedis(s store) *RedisRepo {
	return &RedisRepo{store: s}
}

// CreateUser claims the username and email, then writes the user hash.
// Claims are released if a later step fails.
func (r *RedisRepo) CreateUser(ctx context.Context, u domacc.User) error {
	unameKey := usernameKeyPrefix + strings.ToLower(u.Username)
	ok, err := r.store.SetNX(ctx, unameKey, []byte(u.ID), 0)
	if err != nil {
		return fmt.Errorf("claim username: %w", err)
	}
	if !ok {
		return fmt.Errorf("username %q: %w", u.Username, domain.ErrAlreadyExists)
	}

	emailKey := emailKeyPrefix + u.Email
	ok, err = r.store.SetNX(ctx, emailKey, []byte(u.ID), 0)
	if err != nil || !ok {
		r.release(ctx, unameKey)
		if err != nil {
			return fmt.Errorf("claim email: %w", err)
		}
		return fmt.Errorf("email %q: %w", u.Email, domain.ErrAlreadyExists)
	}

	if err := r.store.HSet(ctx, userKeyPrefix+u.ID, userToHash(u)); err != nil {
		r.release(ctx, unameKey, emailKey)
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

// UserByUsername resolves the username index, then loads the user.
func (r *RedisRepo) UserByUsername(ctx context.Context, username string) (domacc.User, error) {
	id, err := r.store.Get(ctx, usernameKeyPrefix+strings.ToLower(username))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domacc.User{}, fmt.Errorf("user %q: %w", username, domain.ErrNotFound)
		}
		return domacc.User{}, fmt.Errorf("lookup username: %w", err)
	}
	return r.UserByID(ctx, string(id))
}

// UserByID loads a user hash.
func (r *RedisRepo) UserByID(ctx context.Context, id string) (domacc.User, error) {
	m, err := r.store.HGetAll(ctx, userKeyPrefix+id)
	if err != nil {
		return domacc.User{}, fmt.Errorf("get user: %w", err)
	}
	if len(m) == 0 {
		return domacc.User{}, fmt.Errorf("user %s: %w", id, domain.ErrNotFound)
	}
	return hashToUser(m)
}

type sessionDTO struct {
	UserID    string `json:"user_id"`
	ExpiresAt int64  `json:"expires_at"` // unix millis
}

// CreateSession stores the session with a TTL matching its expiry.
func (r *RedisRepo) CreateSession(ctx context.Context, s domacc.Session) error {
	ttl := time.Until(s.ExpiresAt)
	if ttl <= 0 {
		return domain.NewValidationError("session", "already expired")
	}
	data, err := json.Marshal(sessionDTO{UserID: s.UserID, ExpiresAt: s.ExpiresAt.UnixMilli()})
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := r.store.SetWithTTL(ctx, sessionKeyPrefix+s.Token, data, ttl); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}

// Session loads a session by token. Expired keys are evicted by the server.
func (r *RedisRepo) Session(ctx context.Context, token string) (domacc.Session, error) {
	data, err := r.store.Get(ctx, sessionKeyPrefix+token)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domacc.Session{}, fmt.Errorf("session: %w", domain.ErrNotFound)
		}
		return domacc.Session{}, fmt.Errorf("get session: %w", err)
	}
	var dto sessionDTO
	if err := json.Unmarshal(data, &dto); err != nil {
		return domacc.Session{}, fmt.Errorf("unmarshal session: %w", err)
	}
	return domacc.Session{Token: token, UserID: dto.UserID, ExpiresAt: time.UnixMilli(dto.ExpiresAt)}, nil
}

// DeleteSession removes a session. Missing tokens are not an error.
func (r *RedisRepo) DeleteSession(ctx context.Context, token string) error {
	if err := r.store.Del(ctx, sessionKeyPrefix+token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (r *RedisRepo) release(ctx context.Context, keys ...string) {
	for _, k := range keys {
		_ = r.store.Del(ctx, k)
	}
}

func userToHash(u domacc.User) map[string]string {
	return map[string]string{
		"id":            u.ID,
		"username":      u.Username,
		"email":         u.Email,
		"password_hash": u.PasswordHash,
		"created_at":    strconv.FormatInt(u.CreatedAt.UnixMilli(), 10),
	}
}

func hashToUser(m map[string]string) (domacc.User, error) {
	createdAt, err := strconv.ParseInt(m["created_at"], 10, 64)
	if err != nil {
		return domacc.User{}, fmt.Errorf("parse created_at: %w", err)
	}
	return domacc.User{
		ID:           m["id"],
		Username:     m["username"],
		Email:        m["email"],
		PasswordHash: m["password_hash"],
		CreatedAt:    time.UnixMilli(createdAt),
	}, nil
}
