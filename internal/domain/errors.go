package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals bad or missing client input. No network I/O is performed.
	ErrValidation = errors.New("validation failed")
	// ErrSearchProvider signals a fatal places-search provider failure.
	ErrSearchProvider = errors.New("search provider error")
	// ErrClassifierUnavailable signals a classifier transport, status or parse failure.
	// It never crosses the search use case boundary.
	ErrClassifierUnavailable = errors.New("classifier unavailable")
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnauthorized signals missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrRateLimited signals a rate limit hit.
	ErrRateLimited = errors.New("rate limited")
	// ErrBudgetExhausted signals a spent classifier token budget.
	ErrBudgetExhausted = errors.New("classifier token budget exhausted")
)

// ValidationError wraps ErrValidation with the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation.Error(), e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// Provider statuses synthesized for failures that never reached a provider status field.
const (
	StatusTransport = "TRANSPORT"
	StatusTimeout   = "TIMEOUT"
	StatusMalformed = "MALFORMED_RESPONSE"
)

// SearchProviderError wraps ErrSearchProvider with the upstream status.
type SearchProviderError struct {
	Status string
	Detail string
}

func (e *SearchProviderError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: status %s", ErrSearchProvider.Error(), e.Status)
	}
	return fmt.Sprintf("%s: status %s: %s", ErrSearchProvider.Error(), e.Status, e.Detail)
}

func (e *SearchProviderError) Unwrap() error { return ErrSearchProvider }

// NewSearchProviderError creates a provider error carrying the upstream status.
func NewSearchProviderError(status, detail string) error {
	return &SearchProviderError{Status: status, Detail: detail}
}
