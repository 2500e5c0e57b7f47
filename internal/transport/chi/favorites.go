package chi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/export"
	"github.com/kailas-cloud/localmaps/internal/logger"
	favoritesuc "github.com/kailas-cloud/localmaps/internal/usecase/favorites"
)

// AddFavorite handles POST /api/auth/favorites. Requires a session.
func (s *Server) AddFavorite(w http.ResponseWriter, r *http.Request) {
	var body favoriteRequest
	if !decodeJSON(w, r, &body) {
		return
	}

	req, err := addRequestFromBody(body)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	u, _ := UserFromContext(r.Context())
	if _, err := s.favorites.Add(r.Context(), u.ID, req); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{Success: true, Message: "Added to favorites"})
}

func addRequestFromBody(body favoriteRequest) (favoritesuc.AddRequest, error) {
	trimmed := bytes.TrimSpace(body.PlaceData)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return favoritesuc.AddRequest{}, domain.NewValidationError("place_data", "is required")
	}

	var p favoritePlace
	if err := json.Unmarshal(trimmed, &p); err != nil {
		return favoritesuc.AddRequest{}, domain.NewValidationError("place_data", "must be a JSON object")
	}

	address := p.FormattedAddress
	if strings.TrimSpace(address) == "" {
		address = p.Vicinity
	}
	return favoritesuc.AddRequest{
		PlaceID: p.PlaceID,
		Name:    p.Name,
		Address: address,
		Rating:  p.Rating,
		Data:    json.RawMessage(trimmed),
	}, nil
}

// RemoveFavorite handles DELETE /api/auth/favorites/{place_id}. Requires a session.
func (s *Server) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	placeID, err := pathParam(r, "place_id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	u, _ := UserFromContext(r.Context())
	if err := s.favorites.Remove(r.Context(), u.ID, placeID); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Removed from favorites"})
}

// ListFavorites handles GET /api/auth/favorites. Requires a session.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	favs, err := s.favorites.List(r.Context(), u.ID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	items := make([]favoriteResponse, len(favs))
	for i, f := range favs {
		items[i] = favoriteToResponse(f)
	}
	writeJSON(w, http.StatusOK, favoritesResponse{Success: true, Favorites: items})
}

// CheckFavorite handles GET /api/auth/favorites/check/{place_id}.
// Anonymous callers get false instead of 401.
func (s *Server) CheckFavorite(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, checkResponse{IsFavorite: false})
		return
	}

	placeID, err := pathParam(r, "place_id")
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	saved, err := s.favorites.Check(r.Context(), u.ID, placeID)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, checkResponse{IsFavorite: saved})
}

// ExportFavorites handles GET /api/auth/favorites/export. Requires a session.
// The workbook is built in memory so failures still produce a JSON error.
func (s *Server) ExportFavorites(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())

	var buf bytes.Buffer
	if err := s.favorites.Export(r.Context(), u.ID, &buf); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="favorites.xlsx"`)
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Warn("write export", zap.Error(err))
	}
}
