package chi

import (
	"encoding/json"
	"time"

	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
	"github.com/kailas-cloud/localmaps/internal/domain/favorite"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

// Error codes returned in errorResponse.Code.
const (
	codeBadRequest          = "bad_request"
	codeValidationFailed    = "validation_failed"
	codeUnauthorized        = "unauthorized"
	codeNotFound            = "not_found"
	codeAlreadyExists       = "already_exists"
	codeRateLimited         = "rate_limited"
	codeSearchProviderError = "search_provider_error"
	codeInternalError       = "internal_error"
)

const emptySearchMessage = "No small businesses found matching your filters. Try adjusting them."

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type latLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type locationRequest struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type searchRequest struct {
	Query     string           `json:"query"`
	Location  *locationRequest `json:"location"`
	Radius    *int             `json:"radius,omitempty"`
	MinRating *float64         `json:"min_rating,omitempty"`
	OpenNow   bool             `json:"open_now,omitempty"`
}

type placeResponse struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Types            []string `json:"types"`
	Rating           *float64 `json:"rating,omitempty"`
	UserRatingsTotal *int     `json:"user_ratings_total,omitempty"`
	OpenNow          *bool    `json:"open_now,omitempty"`
	Location         *latLng  `json:"location,omitempty"`
}

type searchResponse struct {
	Success        bool            `json:"success"`
	Results        []placeResponse `json:"results"`
	Count          int             `json:"count"`
	Candidates     int             `json:"candidates"`
	Classification string          `json:"classification"`
	Message        string          `json:"message,omitempty"`
}

type placeDetailsResponse struct {
	placeResponse
	Phone       string   `json:"formatted_phone_number,omitempty"`
	Website     string   `json:"website,omitempty"`
	URL         string   `json:"url,omitempty"`
	WeekdayText []string `json:"weekday_text,omitempty"`
}

type healthResponse struct {
	Status                  string            `json:"status"`
	Message                 string            `json:"message"`
	Checks                  map[string]string `json:"checks"`
	PlacesAPIConfigured     bool              `json:"places_api_configured"`
	ClassifierAPIConfigured bool              `json:"classifier_api_configured"`
}

type usageResponse struct {
	Period        string         `json:"period"`
	PeriodStartAt time.Time      `json:"period_start_at"`
	PeriodEndAt   time.Time      `json:"period_end_at"`
	TokensUsed    int64          `json:"tokens_used"`
	Budget        budgetResponse `json:"budget"`
}

type budgetResponse struct {
	TokensLimit     int64     `json:"tokens_limit"`
	TokensRemaining int64     `json:"tokens_remaining"`
	IsExhausted     bool      `json:"is_exhausted"`
	ResetsAt        time.Time `json:"resets_at"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type authResponse struct {
	Success   bool         `json:"success"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

type meResponse struct {
	Success bool         `json:"success"`
	User    userResponse `json:"user"`
}

type favoriteRequest struct {
	PlaceData json.RawMessage `json:"place_data"`
}

// favoritePlace is the subset of a search result read from place_data.
type favoritePlace struct {
	PlaceID          string   `json:"place_id"`
	Name             string   `json:"name"`
	FormattedAddress string   `json:"formatted_address"`
	Vicinity         string   `json:"vicinity"`
	Rating           *float64 `json:"rating"`
}

type favoriteResponse struct {
	PlaceID      string          `json:"place_id"`
	PlaceName    string          `json:"place_name"`
	PlaceAddress string          `json:"place_address"`
	PlaceRating  *float64        `json:"place_rating"`
	PlaceData    json.RawMessage `json:"place_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type favoritesResponse struct {
	Success   bool               `json:"success"`
	Favorites []favoriteResponse `json:"favorites"`
}

type checkResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func placeToResponse(c place.Candidate) placeResponse {
	resp := placeResponse{
		PlaceID:          c.ExternalID(),
		Name:             c.Name(),
		FormattedAddress: c.Address(),
		Types:            c.Types(),
	}
	if resp.Types == nil {
		resp.Types = []string{}
	}
	if r, ok := c.Rating(); ok {
		resp.Rating = &r
	}
	if n, ok := c.RatingCount(); ok {
		resp.UserRatingsTotal = &n
	}
	if open, ok := c.OpenNow(); ok {
		resp.OpenNow = &open
	}
	if pos, ok := c.Position(); ok {
		resp.Location = &latLng{Lat: pos.Latitude, Lng: pos.Longitude}
	}
	return resp
}

func detailsToResponse(d place.Details) placeDetailsResponse {
	return placeDetailsResponse{
		placeResponse: placeToResponse(d.Candidate),
		Phone:         d.Phone,
		Website:       d.Website,
		URL:           d.MapsURL,
		WeekdayText:   d.WeekdayText,
	}
}

func userToResponse(u domacc.User) userResponse {
	return userResponse{ID: u.ID, Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func favoriteToResponse(f favorite.Favorite) favoriteResponse {
	return favoriteResponse{
		PlaceID:      f.PlaceID,
		PlaceName:    f.Name,
		PlaceAddress: f.Address,
		PlaceRating:  f.Rating,
		PlaceData:    f.Data,
		CreatedAt:    f.CreatedAt,
	}
}
