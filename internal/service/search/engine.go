// internal/service/search/engine.go

package search

import (
	"context"
	"fmt"
	"sort"

	"propstream/internal/domain/listing"
	"propstream/internal/service/geo"
)

// Result is a page of structural search results plus the total match count
// ignoring pagination
type Result struct {
	Items []listing.Listing `json:"items"`
	Total int               `json:"total"`
}

// NearbyListing is a listing annotated with its great-circle distance in
// kilometers from the query center
type NearbyListing struct {
	listing.Listing
	Distance float64 `json:"distance"`
}

// Engine answers listing search queries. It holds no state of its own
// beyond the store reference; inputs are validated at the HTTP boundary
// before they reach the engine.
type Engine struct {
	store listing.Store
}

// NewEngine creates a new search engine
func NewEngine(store listing.Store) *Engine {
	return &Engine{store: store}
}

// Search applies the filter's structural predicates and returns the
// requested page ordered by updated_at descending, plus the total count.
func (e *Engine) Search(ctx context.Context, f listing.Filter) (Result, error) {
	items, total, err := e.store.Query(ctx, f)
	if err != nil {
		return Result{}, fmt.Errorf("error querying listings: %w", err)
	}

	if items == nil {
		items = []listing.Listing{}
	}

	return Result{Items: items, Total: total}, nil
}

// Nearby computes the distance from the center to every listing, keeps
// those within radiusKm, and returns at most limit results sorted nearest
// first. Ties in distance keep the store's natural order.
func (e *Engine) Nearby(ctx context.Context, lat, lng, radiusKm float64, limit int) ([]NearbyListing, error) {
	all, err := e.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading listings: %w", err)
	}

	nearby := []NearbyListing{}
	for _, l := range all {
		d := geo.Distance(lat, lng, l.Lat, l.Lng)
		if d <= radiusKm {
			nearby = append(nearby, NearbyListing{Listing: l, Distance: d})
		}
	}

	sort.SliceStable(nearby, func(i, j int) bool {
		return nearby[i].Distance < nearby[j].Distance
	})

	if len(nearby) > limit {
		nearby = nearby[:limit]
	}

	return nearby, nil
}

// GetListing returns a single listing by id
func (e *Engine) GetListing(ctx context.Context, id string) (*listing.Listing, error) {
	return e.store.GetByID(ctx, id)
}
