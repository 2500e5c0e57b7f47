package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

type mockAuthenticator struct {
	users map[string]domacc.User
	err   error
	calls int
}

func (m *mockAuthenticator) Authenticate(_ context.Context, token string) (domacc.User, error) {
	m.calls++
	if m.err != nil {
		return domacc.User{}, m.err
	}
	u, ok := m.users[token]
	if !ok {
		return domacc.User{}, fmt.Errorf("token: %w", domain.ErrUnauthorized)
	}
	return u, nil
}

// userEcho writes the resolved username, or "anonymous".
func userEcho() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := UserFromContext(r.Context())
		if !ok {
			_, _ = w.Write([]byte("anonymous"))
			return
		}
		token, _ := tokenFromContext(r.Context())
		_, _ = w.Write([]byte(u.Username + ":" + token))
	})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/api/auth/me", http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestSessionMiddleware_NoHeader_Anonymous(t *testing.T) {
	auth := &mockAuthenticator{}
	rr := serve(SessionMiddleware(auth)(userEcho()), "")

	if rr.Body.String() != "anonymous" {
		t.Errorf("got %q, want anonymous", rr.Body.String())
	}
	if auth.calls != 0 {
		t.Error("no lookup expected without a token")
	}
}

func TestSessionMiddleware_BasicScheme_Anonymous(t *testing.T) {
	auth := &mockAuthenticator{}
	rr := serve(SessionMiddleware(auth)(userEcho()), "Basic dXNlcjpwYXNz")

	if rr.Body.String() != "anonymous" {
		t.Errorf("got %q, want anonymous", rr.Body.String())
	}
}

func TestSessionMiddleware_ValidToken(t *testing.T) {
	auth := &mockAuthenticator{users: map[string]domacc.User{"tok": {ID: "u1", Username: "alice"}}}
	rr := serve(SessionMiddleware(auth)(userEcho()), "Bearer tok")

	if rr.Body.String() != "alice:tok" {
		t.Errorf("got %q, want alice:tok", rr.Body.String())
	}
}

func TestSessionMiddleware_InvalidToken_Anonymous(t *testing.T) {
	auth := &mockAuthenticator{users: map[string]domacc.User{}}
	rr := serve(SessionMiddleware(auth)(userEcho()), "Bearer stale")

	if rr.Code != http.StatusOK || rr.Body.String() != "anonymous" {
		t.Errorf("got %d %q, want anonymous", rr.Code, rr.Body.String())
	}
}

func TestSessionMiddleware_StoreError_500(t *testing.T) {
	auth := &mockAuthenticator{err: errors.New("conn refused")}
	rr := serve(SessionMiddleware(auth)(userEcho()), "Bearer tok")

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	var resp errorResponse
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Code != codeInternalError {
		t.Errorf("code: got %q", resp.Code)
	}
}

func TestRequireUser(t *testing.T) {
	auth := &mockAuthenticator{users: map[string]domacc.User{"tok": {ID: "u1", Username: "alice"}}}
	h := SessionMiddleware(auth)(RequireUser(userEcho()))

	tests := []struct {
		header  string
		status  int
		message string
	}{
		{"", http.StatusUnauthorized, "missing authorization header"},
		{"Basic dXNlcjpwYXNz", http.StatusUnauthorized, "authorization header must use Bearer scheme"},
		{"Bearer wrong", http.StatusUnauthorized, "invalid or expired token"},
		{"Bearer tok", http.StatusOK, ""},
	}
	for _, tc := range tests {
		rr := serve(h, tc.header)
		if rr.Code != tc.status {
			t.Errorf("header %q: got %d, want %d", tc.header, rr.Code, tc.status)
			continue
		}
		if tc.status != http.StatusUnauthorized {
			continue
		}
		var resp errorResponse
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Code != codeUnauthorized || resp.Message != tc.message {
			t.Errorf("header %q: got %+v", tc.header, resp)
		}
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		token  string
		ok     bool
	}{
		{"", "", false},
		{"Bearer ", "", false},
		{"Bearer   ", "", false},
		{"bearer abc", "", false},
		{"Bearer abc", "abc", true},
	}
	for _, tc := range tests {
		req := httptest.NewRequest("GET", "/", http.NoBody)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		token, ok := bearerToken(req)
		if token != tc.token || ok != tc.ok {
			t.Errorf("%q: got (%q, %v), want (%q, %v)", tc.header, token, ok, tc.token, tc.ok)
		}
	}
}
