// Package places is the outbound client for the Google Places web service.
package places

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/place"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
	"github.com/kailas-cloud/localmaps/internal/metrics"
)

const (
	endpointTextSearch = "textsearch"
	endpointDetails    = "details"

	maxErrorBody = 4 << 10
)

var detailsFields = strings.Join([]string{
	"place_id", "name", "formatted_address", "vicinity", "types", "rating",
	"user_ratings_total", "opening_hours", "geometry", "formatted_phone_number",
	"website", "url",
}, ",")

// Config holds client settings.
type Config struct {
	APIKey  string
	BaseURL string // e.g. https://maps.googleapis.com/maps/api/place
	Timeout time.Duration
}

// Client queries the places provider. Safe for concurrent use.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// New creates a places client.
func New(cfg Config) *Client {
	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c.apiKey != "" }

// TextSearch issues one "<text> near <lat>,<lng>" query. ZERO_RESULTS yields an empty slice.
// Rating and open-now filters are not applied here.
func (c *Client) TextSearch(ctx context.Context, req request.Request) ([]place.Candidate, error) {
	params := url.Values{}
	params.Set("query", fmt.Sprintf("%s near %s", req.Text(), req.Origin().String()))
	params.Set("radius", strconv.Itoa(req.RadiusMeters()))

	var resp textSearchResponse
	if err := c.get(ctx, endpointTextSearch, params, &resp); err != nil {
		return nil, err
	}
	metrics.PlacesRequestsTotal.WithLabelValues(endpointTextSearch, resp.Status).Inc()

	switch resp.Status {
	case statusOK, statusZeroResults:
	default:
		return nil, domain.NewSearchProviderError(resp.Status, resp.ErrorMessage)
	}

	out := make([]place.Candidate, 0, len(resp.Results))
	for _, r := range resp.Results {
		if r.PlaceID == "" {
			continue
		}
		out = append(out, r.toCandidate())
	}
	return out, nil
}

// Details fetches contact data and opening hours for one place.
func (c *Client) Details(ctx context.Context, placeID string) (place.Details, error) {
	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", detailsFields)

	var resp detailsResponse
	if err := c.get(ctx, endpointDetails, params, &resp); err != nil {
		return place.Details{}, err
	}
	metrics.PlacesRequestsTotal.WithLabelValues(endpointDetails, resp.Status).Inc()

	switch resp.Status {
	case statusOK:
		return resp.Result.toDetails(), nil
	case statusNotFound, statusInvalidRequest, statusZeroResults:
		return place.Details{}, fmt.Errorf("place %q: %w", placeID, domain.ErrNotFound)
	default:
		return place.Details{}, domain.NewSearchProviderError(resp.Status, resp.ErrorMessage)
	}
}

// get performs one GET {base}/{endpoint}/json and decodes the body into out.
// Failures before a provider status is available become SearchProviderError
// with a synthesized status; caller cancellation is returned as is.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	if !c.Configured() {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, "REQUEST_DENIED").Inc()
		return domain.NewSearchProviderError("REQUEST_DENIED", "places api key is not configured")
	}
	params.Set("key", c.apiKey)
	u := c.baseURL + "/" + endpoint + "/json?" + params.Encode()

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	metrics.PlacesRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		return c.transportError(ctx, endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		status := "HTTP_" + strconv.Itoa(resp.StatusCode)
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, status).Inc()
		return domain.NewSearchProviderError(status, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		metrics.PlacesRequestsTotal.WithLabelValues(endpoint, domain.StatusMalformed).Inc()
		return domain.NewSearchProviderError(domain.StatusMalformed, err.Error())
	}
	return nil
}

func (c *Client) transportError(ctx context.Context, endpoint string, err error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return fmt.Errorf("places %s: %w", endpoint, ctx.Err())
	}
	status := domain.StatusTransport
	// url.Error embeds the request URL, which carries the API key.
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			status = domain.StatusTimeout
		}
		err = ue.Err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		status = domain.StatusTimeout
	}
	metrics.PlacesRequestsTotal.WithLabelValues(endpoint, status).Inc()
	return domain.NewSearchProviderError(status, err.Error())
}
