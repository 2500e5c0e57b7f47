// Package classification builds classifier requests from candidates and
// reconciles classifier answers back to them through local indices.
package classification

import (
	"github.com/kailas-cloud/localmaps/internal/domain/place"
)

// Item is the minimal descriptor of a candidate sent to the classifier.
// Geometry and opening hours are left out on purpose.
type Item struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Address     string   `json:"address"`
	Types       []string `json:"types"`
	Rating      *float64 `json:"rating,omitempty"`
	RatingCount *int     `json:"user_ratings_total,omitempty"`
}

// Request pairs the user's query with indexed candidate descriptors.
// Item.ID is the 0-based local index and the only key back to the candidate.
type Request struct {
	Query string
	Items []Item
}

// NewRequest assigns local indices in candidate order.
func NewRequest(query string, candidates []place.Candidate) Request {
	items := make([]Item, len(candidates))
	for i, c := range candidates {
		item := Item{
			ID:      i,
			Name:    c.Name(),
			Address: c.Address(),
			Types:   c.Types(),
		}
		if item.Types == nil {
			item.Types = []string{}
		}
		if r, ok := c.Rating(); ok {
			item.Rating = &r
		}
		if n, ok := c.RatingCount(); ok {
			item.RatingCount = &n
		}
		items[i] = item
	}
	return Request{Query: query, Items: items}
}

// Len returns the number of indexed candidates.
func (r Request) Len() int { return len(r.Items) }
