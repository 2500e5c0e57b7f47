package places

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/domain/geo"
	"github.com/kailas-cloud/localmaps/internal/domain/search/request"
)

const textSearchBody = `{
  "status": "OK",
  "results": [
    {
      "place_id": "p1",
      "name": "Pilot Coffee",
      "formatted_address": "983 Queen St E, Toronto",
      "types": ["cafe", "food"],
      "rating": 4.6,
      "user_ratings_total": 812,
      "opening_hours": {"open_now": true},
      "geometry": {"location": {"lat": 43.6606, "lng": -79.3406}}
    },
    {
      "place_id": "p2",
      "name": "Starbucks",
      "vicinity": "200 Bay St",
      "types": ["cafe"]
    }
  ]
}`

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(Config{APIKey: "test-key", BaseURL: srv.URL + "/", Timeout: 2 * time.Second})
}

func coffeeRequest(t *testing.T) request.Request {
	t.Helper()
	req, err := request.New("coffee shop", &geo.Coordinates{Latitude: 43.65, Longitude: -79.38}, 0, nil, false)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

func TestTextSearch_BuildsQueryAndNormalizes(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/textsearch/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("query"); got != "coffee shop near 43.65,-79.38" {
			t.Errorf("query = %q", got)
		}
		if got := q.Get("radius"); got != "5000" {
			t.Errorf("radius = %q", got)
		}
		if got := q.Get("key"); got != "test-key" {
			t.Errorf("key = %q", got)
		}
		_, _ = w.Write([]byte(textSearchBody))
	})

	got, err := c.TextSearch(context.Background(), coffeeRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(got))
	}

	first := got[0]
	if first.ExternalID() != "p1" || first.Name() != "Pilot Coffee" || first.Address() != "983 Queen St E, Toronto" {
		t.Errorf("unexpected first candidate: %+v", first)
	}
	if r, ok := first.Rating(); !ok || r != 4.6 {
		t.Errorf("rating = %v, %v", r, ok)
	}
	if n, ok := first.RatingCount(); !ok || n != 812 {
		t.Errorf("rating count = %v, %v", n, ok)
	}
	if !first.IsOpen() {
		t.Error("expected open")
	}
	if _, ok := first.Position(); !ok {
		t.Error("expected position")
	}

	second := got[1]
	if second.Address() != "200 Bay St" {
		t.Errorf("expected vicinity fallback, got %q", second.Address())
	}
	if _, ok := second.Rating(); ok {
		t.Error("rating should be absent")
	}
	if _, ok := second.OpenNow(); ok {
		t.Error("open_now should be absent")
	}
}

func TestTextSearch_ZeroResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
	})

	got, err := c.TextSearch(context.Background(), coffeeRequest(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", got)
	}
}

func TestTextSearch_ProviderStatusIsFatal(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","error_message":"The provided API key is invalid.","results":[]}`))
	})

	_, err := c.TextSearch(context.Background(), coffeeRequest(t))
	var pe *domain.SearchProviderError
	if !errors.As(err, &pe) {
		t.Fatalf("expected SearchProviderError, got %v", err)
	}
	if pe.Status != "REQUEST_DENIED" {
		t.Errorf("status = %q", pe.Status)
	}
}

func TestTextSearch_HTTPError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := c.TextSearch(context.Background(), coffeeRequest(t))
	var pe *domain.SearchProviderError
	if !errors.As(err, &pe) || pe.Status != "HTTP_503" {
		t.Fatalf("expected HTTP_503 provider error, got %v", err)
	}
}

func TestTextSearch_MalformedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	})

	_, err := c.TextSearch(context.Background(), coffeeRequest(t))
	var pe *domain.SearchProviderError
	if !errors.As(err, &pe) || pe.Status != domain.StatusMalformed {
		t.Fatalf("expected malformed provider error, got %v", err)
	}
}

func TestTextSearch_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.TextSearch(ctx, coffeeRequest(t))
	var pe *domain.SearchProviderError
	if !errors.As(err, &pe) || pe.Status != domain.StatusTimeout {
		t.Fatalf("expected TIMEOUT provider error, got %v", err)
	}
	if strings.Contains(err.Error(), "test-key") {
		t.Errorf("error leaks the api key: %v", err)
	}
}

func TestTextSearch_CallerCancel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := c.TextSearch(ctx, coffeeRequest(t))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if errors.Is(err, domain.ErrSearchProvider) {
		t.Error("caller cancel should not be reported as a provider failure")
	}
}

func TestTextSearch_NotConfigured(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL})
	if c.Configured() {
		t.Fatal("expected unconfigured client")
	}
	_, err := c.TextSearch(context.Background(), coffeeRequest(t))
	if !errors.Is(err, domain.ErrSearchProvider) {
		t.Fatalf("expected provider error, got %v", err)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no outbound call, got %d", calls.Load())
	}
}

func TestDetails_OK(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/details/json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("place_id") != "p1" {
			t.Errorf("place_id = %q", r.URL.Query().Get("place_id"))
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":{
			"place_id":"p1","name":"Pilot Coffee","formatted_address":"983 Queen St E",
			"formatted_phone_number":"(416) 555-0100","website":"https://pilotcoffeeroasters.com",
			"url":"https://maps.google.com/?cid=1",
			"opening_hours":{"open_now":false,"weekday_text":["Monday: 7:00 AM – 6:00 PM"]}
		}}`))
	})

	d, err := c.Details(context.Background(), "p1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Name() != "Pilot Coffee" || d.Phone != "(416) 555-0100" || d.Website == "" || d.MapsURL == "" {
		t.Errorf("unexpected details: %+v", d)
	}
	if len(d.WeekdayText) != 1 {
		t.Errorf("weekday text = %v", d.WeekdayText)
	}
	if open, ok := d.OpenNow(); !ok || open {
		t.Errorf("open_now = %v, %v", open, ok)
	}
}

func TestDetails_NotFound(t *testing.T) {
	for _, status := range []string{"NOT_FOUND", "INVALID_REQUEST"} {
		t.Run(status, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"status":"` + status + `"}`))
			})
			_, err := c.Details(context.Background(), "missing")
			if !errors.Is(err, domain.ErrNotFound) {
				t.Fatalf("expected ErrNotFound, got %v", err)
			}
		})
	}
}

func TestDetails_ProviderError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OVER_QUERY_LIMIT"}`))
	})
	_, err := c.Details(context.Background(), "p1")
	var pe *domain.SearchProviderError
	if !errors.As(err, &pe) || pe.Status != "OVER_QUERY_LIMIT" {
		t.Fatalf("expected OVER_QUERY_LIMIT, got %v", err)
	}
}
