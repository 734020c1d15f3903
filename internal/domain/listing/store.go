// internal/domain/listing/store.go

package listing

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a listing does not exist in the store
var ErrNotFound = errors.New("listing not found")

// Store defines the storage interface for listings
type Store interface {
	// Query returns the listings matching the filter, ordered by
	// updated_at descending and sliced to the filter's page, plus the
	// total match count ignoring pagination
	Query(ctx context.Context, f Filter) ([]Listing, int, error)

	// All returns every listing in the store's natural insertion order
	All(ctx context.Context) ([]Listing, error)

	// GetByID returns a single listing, or ErrNotFound
	GetByID(ctx context.Context, id string) (*Listing, error)

	// Insert adds a new listing
	Insert(ctx context.Context, l Listing) error
}
