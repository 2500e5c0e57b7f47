package chi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/kailas-cloud/localmaps/internal/metrics"
)

// NewRouter wires the API routes. searchLimiter may be nil.
func NewRouter(s *Server, searchLimiter *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(jsonRecoverer(s.logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(s.logger))
	r.Use(metrics.Middleware())

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, codeNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, codeBadRequest, "method not allowed")
	})

	r.Get("/metrics", s.Metrics)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.Health)
		r.Get("/usage", s.Usage)
		r.With(searchLimiter.Middleware()).Post("/search", s.Search)
		r.Get("/place/{place_id}", s.Place)

		r.Route("/auth", func(r chi.Router) {
			r.Use(SessionMiddleware(s.accounts))

			r.Post("/register", s.Register)
			r.Post("/login", s.Login)
			r.Get("/favorites/check/{place_id}", s.CheckFavorite)

			r.Group(func(r chi.Router) {
				r.Use(RequireUser)
				r.Post("/logout", s.Logout)
				r.Get("/me", s.Me)
				r.Get("/favorites", s.ListFavorites)
				r.Post("/favorites", s.AddFavorite)
				r.Get("/favorites/export", s.ExportFavorites)
				r.Delete("/favorites/{place_id}", s.RemoveFavorite)
			})
		})
	})

	return r
}
