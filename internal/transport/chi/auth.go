package chi

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/domain"
	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
	"github.com/kailas-cloud/localmaps/internal/logger"
)

const bearerPrefix = "Bearer "

// Authenticator resolves a bearer token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domacc.User, error)
}

type userCtxKey struct{}

type tokenCtxKey struct{}

// UserFromContext returns the user resolved by SessionMiddleware.
func UserFromContext(ctx context.Context) (domacc.User, bool) {
	u, ok := ctx.Value(userCtxKey{}).(domacc.User)
	return u, ok
}

func tokenFromContext(ctx context.Context) (string, bool) {
	t, ok := ctx.Value(tokenCtxKey{}).(string)
	return t, ok
}

// SessionMiddleware resolves the Bearer token into a user stored in the context.
// Missing, malformed or expired tokens leave the request anonymous; RequireUser
// rejects anonymous requests on protected routes.
func SessionMiddleware(auth Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			u, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					next.ServeHTTP(w, r)
					return
				}
				logger.FromContext(r.Context()).Error("session lookup failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
				return
			}

			ctx := context.WithValue(r.Context(), userCtxKey{}, u)
			ctx = context.WithValue(ctx, tokenCtxKey{}, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireUser rejects requests without a resolved session.
func RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserFromContext(r.Context()); ok {
			next.ServeHTTP(w, r)
			return
		}

		auth := r.Header.Get("Authorization")
		switch {
		case auth == "":
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "missing authorization header")
		case !strings.HasPrefix(auth, bearerPrefix):
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "authorization header must use Bearer scheme")
		default:
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "invalid or expired token")
		}
	})
}

func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(auth[len(bearerPrefix):])
	return token, token != ""
}
