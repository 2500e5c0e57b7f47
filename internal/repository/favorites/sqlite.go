package favorites

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/kailas-cloud/localmaps/internal/db/sqlite"
	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
)

// SQLiteRepo implements usecase/favorites.Repository on SQLite.
type SQLiteRepo struct {
	db *sql.DB
}

// NewSQLite creates a SQLite-backed favorites repository.
func NewSQLite(db *sql.DB) *SQLiteRepo {
	return &SQLiteRepo{db: db}
}

// Add inserts a favorite. UNIQUE(user_id, place_id) maps to domain.ErrAlreadyExists.
func (r *SQLiteRepo) Add(ctx context.Context, userID string, f favorite.Favorite) error {
	var data sql.NullString
	if len(f.Data) > 0 {
		data = sql.NullString{String: string(f.Data), Valid: true}
	}
	var rating sql.NullFloat64
	if f.Rating != nil {
		rating = sql.NullFloat64{Float64: *f.Rating, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO favorites (user_id, place_id, place_name, place_address, place_rating, place_data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, f.PlaceID, f.Name, f.Address, rating, data, f.CreatedAt.UnixMilli(),
	)
	if err != nil {
		if sqlite.IsUniqueViolation(err) {
			return fmt.Errorf("favorite %q: %w", f.PlaceID, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// Remove deletes a favorite. A missing row yields domain.ErrNotFound.
func (r *SQLiteRepo) Remove(ctx context.Context, userID, placeID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND place_id = ?`, userID, placeID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("favorite %q: %w", placeID, domain.ErrNotFound)
	}
	return nil
}

// Exists reports whether the user saved the place.
func (r *SQLiteRepo) Exists(ctx context.Context, userID, placeID string) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx,
		`SELECT 1 FROM favorites WHERE user_id = ? AND place_id = ?`, userID, placeID).Scan(&one)
	if err != nil {
		if sqlite.IsNoRows(err) {
			return false, nil
		}
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return true, nil
}

// List returns the user's favorites, newest first.
func (r *SQLiteRepo) List(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT place_id, place_name, place_address, place_rating, place_data, created_at
		 FROM favorites WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := []favorite.Favorite{}
	for rows.Next() {
		var (
			f         favorite.Favorite
			rating    sql.NullFloat64
			data      sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&f.PlaceID, &f.Name, &f.Address, &rating, &data, &createdAt); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		if rating.Valid {
			v := rating.Float64
			f.Rating = &v
		}
		if data.Valid {
			f.Data = []byte(data.String)
		}
		f.CreatedAt = time.UnixMilli(createdAt)
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return out, nil
}
