package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
	"github.com/kailas-cloud/localmaps/internal/export"
)

// AddRequest is a business snapshot to save.
type AddRequest struct {
	PlaceID string
	Name    string
	Address string
	Rating  *float64
	Data    json.RawMessage
}

// Service manages a user's saved businesses.
type Service struct {
	repo Repository
	now  func() time.Time
}

// New creates a favorites service.
func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Add saves a business. Saving the same place twice returns ErrAlreadyExists.
func (s *Service) Add(ctx context.Context, userID string, req AddRequest) (favorite.Favorite, error) {
	f, err := favorite.New(req.PlaceID, req.Name, req.Address, req.Rating, req.Data)
	if err != nil {
		return favorite.Favorite{}, err
	}
	f.CreatedAt = s.now().UTC()
	if err := s.repo.Add(ctx, userID, f); err != nil {
		return favorite.Favorite{}, fmt.Errorf("add favorite %s: %w", f.PlaceID, err)
	}
	return f, nil
}

// Remove deletes a saved business.
func (s *Service) Remove(ctx context.Context, userID, placeID string) error {
	placeID, err := requirePlaceID(placeID)
	if err != nil {
		return err
	}
	if err := s.repo.Remove(ctx, userID, placeID); err != nil {
		return fmt.Errorf("remove favorite %s: %w", placeID, err)
	}
	return nil
}

// Check reports whether the place is saved.
func (s *Service) Check(ctx context.Context, userID, placeID string) (bool, error) {
	placeID, err := requirePlaceID(placeID)
	if err != nil {
		return false, err
	}
	ok, err := s.repo.Exists(ctx, userID, placeID)
	if err != nil {
		return false, fmt.Errorf("check favorite %s: %w", placeID, err)
	}
	return ok, nil
}

// List returns saved businesses, newest first.
func (s *Service) List(ctx context.Context, userID string) ([]favorite.Favorite, error) {
	favs, err := s.repo.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favs, nil
}

// Export writes the user's favorites as an XLSX workbook.
func (s *Service) Export(ctx context.Context, userID string, w io.Writer) error {
	favs, err := s.List(ctx, userID)
	if err != nil {
		return err
	}
	if err := export.WriteFavorites(w, favs); err != nil {
		return fmt.Errorf("export favorites: %w", err)
	}
	return nil
}

func requirePlaceID(placeID string) (string, error) {
	placeID = strings.TrimSpace(placeID)
	if placeID == "" {
		return "", domain.NewValidationError("place_id", "is required")
	}
	return placeID, nil
}
