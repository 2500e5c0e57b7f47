package chi

import (
	"net/http"

	domacc "github.com/kailas-cloud/localmaps/internal/domain/account"
)

// Register handles POST /api/auth/register.
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, sess, err := s.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, authToResponse(u, sess))
}

// Login handles POST /api/auth/login.
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	u, sess, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, authToResponse(u, sess))
}

// Logout handles POST /api/auth/logout. Requires a session.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	token, _ := tokenFromContext(r.Context())
	if err := s.accounts.Logout(r.Context(), token); err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{Success: true, Message: "Logged out"})
}

// Me handles GET /api/auth/me. Requires a session.
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	u, _ := UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, meResponse{Success: true, User: userToResponse(u)})
}

func authToResponse(u domacc.User, sess domacc.Session) authResponse {
	return authResponse{
		Success:   true,
		Token:     sess.Token,
		ExpiresAt: sess.ExpiresAt.UTC(),
		User:      userToResponse(u),
	}
}
