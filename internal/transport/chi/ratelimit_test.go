package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func fixedClock(l *RateLimiter, start time.Time) *time.Time {
	now := start
	l.now = func() time.Time { return now }
	return &now
}

func TestRateLimiter_Burst(t *testing.T) {
	l := NewRateLimiter(60, 2)
	now := fixedClock(l, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	if !l.Allow("1.2.3.4") || !l.Allow("1.2.3.4") {
		t.Fatal("burst of 2 should be allowed")
	}
	if l.Allow("1.2.3.4") {
		t.Fatal("third request should be limited")
	}
	if !l.Allow("5.6.7.8") {
		t.Fatal("clients are limited independently")
	}

	*now = now.Add(time.Second)
	if !l.Allow("1.2.3.4") {
		t.Fatal("one token refills per second at 60/min")
	}
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	l := NewRateLimiter(60, 1)
	now := fixedClock(l, time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	l.Allow("a")
	l.Allow("b")
	if len(l.clients) != 2 {
		t.Fatalf("expected 2 clients, got %d", len(l.clients))
	}

	*now = now.Add(idleClientTTL + time.Minute)
	l.Allow("c")
	if len(l.clients) != 1 {
		t.Fatalf("idle clients should be evicted, got %d", len(l.clients))
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	l := NewRateLimiter(0, 10)
	if l != nil {
		t.Fatal("non-positive rate should disable the limiter")
	}
	for range 100 {
		if !l.Allow("x") {
			t.Fatal("nil limiter must allow everything")
		}
	}

	h := l.Middleware()(okHandler())
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("POST", "/api/search", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("got %d", rr.Code)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	l := NewRateLimiter(30, 1)
	h := l.Middleware()(okHandler())

	send := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/search", http.NoBody)
		req.RemoteAddr = remote
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr
	}

	if rr := send("10.0.0.1:1111"); rr.Code != http.StatusOK {
		t.Fatalf("first: got %d", rr.Code)
	}
	// Same IP, different port shares the bucket.
	rr := send("10.0.0.1:2222")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("second: got %d, want 429", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "2" {
		t.Errorf("Retry-After: got %q, want 2", rr.Header().Get("Retry-After"))
	}
	if rr := send("10.0.0.2:1111"); rr.Code != http.StatusOK {
		t.Fatalf("other client: got %d", rr.Code)
	}
}

func TestClientIP(t *testing.T) {
	tests := map[string]string{
		"192.0.2.1:1234":   "192.0.2.1",
		"[2001:db8::1]:80": "2001:db8::1",
		"no-port":          "no-port",
	}
	for remote, want := range tests {
		req := httptest.NewRequest("GET", "/", http.NoBody)
		req.RemoteAddr = remote
		if got := clientIP(req); got != want {
			t.Errorf("clientIP(%q) = %q, want %q", remote, got, want)
		}
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}
