package health

import "context"

// StoragePinger checks storage availability.
type StoragePinger interface {
	Ping(ctx context.Context) error
}

// Provider reports whether an upstream provider has credentials.
type Provider interface {
	Configured() bool
}
