// internal/domain/savedsearch/store.go

package savedsearch

import "context"

// Store defines the storage interface for saved searches. The owner id is
// always an explicit parameter so multi-user support stays a non-breaking
// extension.
type Store interface {
	// Create persists a new saved search
	Create(ctx context.Context, s *SavedSearch) error

	// ListByUser returns the user's saved searches, newest-created first
	ListByUser(ctx context.Context, userID string) ([]SavedSearch, error)
}
