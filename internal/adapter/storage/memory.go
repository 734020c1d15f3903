// internal/adapter/storage/memory.go

package storage

import (
	"context"
	"sort"
	"sync"

	"propstream/internal/domain/listing"
	"propstream/internal/domain/savedsearch"
)

// MemoryListingStore implements listing.Store in process memory. It
// evaluates the same predicate list the Postgres store compiles to SQL,
// and is used for tests and for running the server without a database.
type MemoryListingStore struct {
	mu       sync.RWMutex
	listings []listing.Listing
}

// NewMemoryListingStore creates a memory store pre-populated with the
// given listings, kept in insertion order
func NewMemoryListingStore(seed []listing.Listing) *MemoryListingStore {
	s := &MemoryListingStore{}
	s.listings = append(s.listings, seed...)
	return s
}

// Query applies the filter's predicates, orders by updated_at descending
// and slices to the requested page
func (s *MemoryListingStore) Query(ctx context.Context, f listing.Filter) ([]listing.Listing, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	preds := f.Predicates()

	matched := []listing.Listing{}
	for _, l := range s.listings {
		ok := true
		for _, p := range preds {
			if !p.Match(l) {
				ok = false
				break
			}
		}
		if ok {
			matched = append(matched, l)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].UpdatedAt.After(matched[j].UpdatedAt)
	})

	total := len(matched)

	start := f.Offset()
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

// All returns a copy of every listing in insertion order
func (s *MemoryListingStore) All(ctx context.Context) ([]listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]listing.Listing, len(s.listings))
	copy(all, s.listings)
	return all, nil
}

// GetByID returns a listing by id, or listing.ErrNotFound
func (s *MemoryListingStore) GetByID(ctx context.Context, id string) (*listing.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, l := range s.listings {
		if l.ID == id {
			found := l
			return &found, nil
		}
	}
	return nil, listing.ErrNotFound
}

// Insert adds a listing, replacing the full record when the id exists
func (s *MemoryListingStore) Insert(ctx context.Context, l listing.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.listings {
		if existing.ID == l.ID {
			s.listings[i] = l
			return nil
		}
	}
	s.listings = append(s.listings, l)
	return nil
}

// MemorySavedSearchStore implements savedsearch.Store in process memory
type MemorySavedSearchStore struct {
	mu       sync.RWMutex
	searches []savedsearch.SavedSearch
}

// NewMemorySavedSearchStore creates an empty in-memory saved search store
func NewMemorySavedSearchStore() *MemorySavedSearchStore {
	return &MemorySavedSearchStore{}
}

// Create persists a new saved search
func (s *MemorySavedSearchStore) Create(ctx context.Context, search *savedsearch.SavedSearch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.searches = append(s.searches, *search)
	return nil
}

// ListByUser returns the user's saved searches, newest-created first
func (s *MemorySavedSearchStore) ListByUser(ctx context.Context, userID string) ([]savedsearch.SavedSearch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []savedsearch.SavedSearch{}
	for _, search := range s.searches {
		if search.UserID == userID {
			out = append(out, search)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
