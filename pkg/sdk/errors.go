package localmaps

import "github.com/kailas-cloud/localmaps/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrValidation     = domain.ErrValidation
	ErrSearchProvider = domain.ErrSearchProvider
	ErrNotFound       = domain.ErrNotFound
)

// ProviderError carries the upstream status of a places provider failure.
// Use errors.As() to extract it.
type ProviderError = domain.SearchProviderError
