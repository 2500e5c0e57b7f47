package account

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/localmaps/internal/db/sqlite"
	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

// SQLiteRepo implements usecase/account.Repository on SQLite.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed account repository.
func NewSQLite(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

// CreateUser inserts a user. UNIQUE violations map to domain.ErrAlreadyExists.
func (r *SQLiteRepo) CreateUser(ctx context.Context, u domacc.User) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, password_hash, created_at) VALUES (?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.PasswordHash, u.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("username or email: %w", domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// UserByUsername looks a user up case-insensitively.
func (r *SQLiteRepo) UserByUsername(ctx context.Context, username string) (domacc.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE username = ?`, username)
	return scanUser(row, username)
}

// UserByID loads a user by id.
func (r *SQLiteRepo) UserByID(ctx context.Context, id string) (domacc.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, username, email, password_hash, created_at FROM users WHERE id = ?`, id)
	return scanUser(row, id)
}

// CreateSession stores a session and purges expired ones.
func (r *SQLiteRepo) CreateSession(ctx context.Context, s domacc.Session) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= ?`, time.Now().UnixMilli()); err != nil {
		return fmt.Errorf("purge sessions: %w", err)
	}
	if _, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES (?, ?, ?)`,
		s.Token, s.UserID, s.ExpiresAt.UnixMilli(),
	); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// Session loads a session by token. The caller checks expiry.
func (r *SQLiteRepo) Session(ctx context.Context, token string) (domacc.Session, error) {
	var (
		s         = domacc.Session{Token: token}
		expiresAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT user_id, expires_at FROM sessions WHERE token = ?`, token,
	).Scan(&s.UserID, &expiresAt)
	if err != nil {
		if sqlite.IsNoRows(err) {
			return domacc.Session{}, fmt.Errorf("session: %w", domain.ErrNotFound)
		}
		return domacc.Session{}, fmt.Errorf("get session: %w", err)
	}
	s.ExpiresAt = time.UnixMilli(expiresAt)
	return s, nil
}

// DeleteSession removes a session. Missing tokens are not an error.
func (r *SQLiteRepo) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func scanUser(row *sql.Row, ref string) (domacc.User, error) {
	var (
		u         domacc.User
		createdAt int64
	)
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		if sqlite.IsNoRows(err) {
			return domacc.User{}, fmt.Errorf("user %q: %w", ref, domain.ErrNotFound)
		}
		return domacc.User{}, fmt.Errorf("scan user: %w", err)
	}
	u.CreatedAt = time.UnixMilli(createdAt)
	return u, nil
}
