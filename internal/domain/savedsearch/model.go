// internal/domain/savedsearch/model.go

package savedsearch

import (
	"strings"
	"time"
)

// SavedSearch is a named, persisted set of filter criteria owned by a user.
// Optional criteria are pointers so that absent and zero values stay
// distinguishable.
type SavedSearch struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	Query     string    `json:"q,omitempty"`
	MinPrice  *int64    `json:"min_price,omitempty"`
	MaxPrice  *int64    `json:"max_price,omitempty"`
	BedsMin   *int      `json:"beds_min,omitempty"`
	BathsMin  *int      `json:"baths_min,omitempty"`
	CenterLat *float64  `json:"center_lat,omitempty"`
	CenterLng *float64  `json:"center_lng,omitempty"`
	RadiusKm  *float64  `json:"radius_km,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ValidationError describes a rejected input value
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks the invariants that hold for every saved search: a
// non-blank name and min_price <= max_price when both are present.
func (s *SavedSearch) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return &ValidationError{Field: "name", Message: "name is required"}
	}

	if s.MinPrice != nil && *s.MinPrice < 0 {
		return &ValidationError{Field: "min_price", Message: "minimum price must not be negative"}
	}
	if s.MaxPrice != nil && *s.MaxPrice < 0 {
		return &ValidationError{Field: "max_price", Message: "maximum price must not be negative"}
	}

	if s.MinPrice != nil && s.MaxPrice != nil && *s.MinPrice > *s.MaxPrice {
		return &ValidationError{
			Field:   "min_price",
			Message: "minimum price must be less than or equal to maximum price",
		}
	}

	return nil
}
