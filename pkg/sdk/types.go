package localmaps

// Classification values reported on SearchResult.
const (
	ClassificationFiltered = "filtered"
	ClassificationFallback = "fallback"
	ClassificationSkipped  = "skipped"
)

// Place is one search hit in provider order.
type Place struct {
	ID          string
	Name        string
	Address     string
	Types       []string
	Rating      *float64
	RatingCount *int
	OpenNow     *bool
	Lat         *float64
	Lng         *float64
}

// PlaceDetails extends Place with contact data.
type PlaceDetails struct {
	Place
	Phone       string
	Website     string
	MapsURL     string
	WeekdayText []string
}

// SearchResult is the outcome of one search run.
type SearchResult struct {
	Places []Place
	// Candidates is how many places the provider returned before filtering.
	Candidates     int
	Classification string
}

// SearchOption tunes a single Search call.
type SearchOption func(*searchParams)

type searchParams struct {
	radiusMeters int
	minRating    *float64
	openNow      bool
}

// WithRadius sets the search radius in meters. Zero keeps the default.
func WithRadius(meters int) SearchOption {
	return func(p *searchParams) { p.radiusMeters = meters }
}

// WithMinRating drops places rated below r or without a rating.
func WithMinRating(r float64) SearchOption {
	return func(p *searchParams) { p.minRating = &r }
}

// OpenNowOnly keeps only places reported open.
func OpenNowOnly() SearchOption {
	return func(p *searchParams) { p.openNow = true }
}
