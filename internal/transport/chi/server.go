package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"go.uber.org/zap"

	"github.com/kailas-cloud/localmaps/internal/domain"
	"github.com/kailas-cloud/localmaps/internal/logger"
	accountuc "github.com/kailas-cloud/localmaps/internal/usecase/account"
	favoritesuc "github.com/kailas-cloud/localmaps/internal/usecase/favorites"
	healthuc "github.com/kailas-cloud/localmaps/internal/usecase/health"
	searchuc "github.com/kailas-cloud/localmaps/internal/usecase/search"
	usageuc "github.com/kailas-cloud/localmaps/internal/usecase/usage"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Options tune request defaults.
type Options struct {
	// DefaultRadiusMeters applies when a search omits radius.
	DefaultRadiusMeters int
}

// Server holds the HTTP handlers of the API.
type Server struct {
	search        *searchuc.Service
	accounts      *accountuc.Service
	favorites     *favoritesuc.Service
	health        *healthuc.Service
	usage         *usageuc.Service
	logger        *zap.Logger
	defaultRadius int
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	search *searchuc.Service,
	accounts *accountuc.Service,
	favorites *favoritesuc.Service,
	health *healthuc.Service,
	usage *usageuc.Service,
	logger *zap.Logger,
	opts Options,
) *Server {
	if opts.DefaultRadiusMeters <= 0 {
		opts.DefaultRadiusMeters = domain.DefaultRadiusMeters
	}
	s := &Server{
		search:        search,
		accounts:      accounts,
		favorites:     favorites,
		health:        health,
		usage:         usage,
		logger:        logger,
		defaultRadius: opts.DefaultRadiusMeters,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrValidation, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrUnauthorized, http.StatusUnauthorized, codeUnauthorized),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrAlreadyExists, http.StatusConflict, codeAlreadyExists),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrSearchProvider, http.StatusBadGateway, codeSearchProviderError),
	}
	return s
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// pathParam binds a required simple-style path parameter.
func pathParam(r *http.Request, name string) (string, error) {
	var v string
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &v,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return "", domain.NewValidationError(name, err.Error())
	}
	return v, nil
}

// queryParam binds an optional form-style query parameter. Missing leaves v unchanged.
func queryParam(r *http.Request, name string, v *string) error {
	if err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), v); err != nil {
		return domain.NewValidationError(name, err.Error())
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a client-facing message without exposing internals.
// Validation errors carry their field. Provider errors carry only the upstream
// status; the upstream body stays in the log.
func safeDomainMessage(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	var pe *domain.SearchProviderError
	if errors.As(err, &pe) {
		return fmt.Sprintf("%s: status %s", domain.ErrSearchProvider.Error(), pe.Status)
	}
	sentinels := []error{
		domain.ErrValidation,
		domain.ErrUnauthorized,
		domain.ErrNotFound,
		domain.ErrAlreadyExists,
		domain.ErrRateLimited,
		domain.ErrSearchProvider,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())
	log.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
