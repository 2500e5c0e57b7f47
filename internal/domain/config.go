package domain

// KeyPrefix namespaces every key written to the key-value store.
const KeyPrefix = "localmaps:"

// DefaultRadiusMeters is the search radius used when the client omits one.
const DefaultRadiusMeters = 5000

// MaxRadiusMeters is the largest radius the places provider accepts.
const MaxRadiusMeters = 50000
