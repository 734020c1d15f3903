// internal/adapter/storage/saved_search_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"propstream/internal/domain/savedsearch"
)

// SavedSearchStore implements savedsearch.Store on Postgres
type SavedSearchStore struct {
	db *pgxpool.Pool
}

// NewSavedSearchStore creates a new saved search store
func NewSavedSearchStore(db *pgxpool.Pool) *SavedSearchStore {
	return &SavedSearchStore{db: db}
}

// Create persists a new saved search
func (s *SavedSearchStore) Create(ctx context.Context, search *savedsearch.SavedSearch) error {
	query := `
		INSERT INTO saved_search (
			id, user_id, name, q, min_price, max_price,
			beds_min, baths_min, center_lat, center_lng,
			radius_km, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`

	var q *string
	if search.Query != "" {
		q = &search.Query
	}

	_, err := s.db.Exec(ctx, query,
		search.ID,
		search.UserID,
		search.Name,
		q,
		search.MinPrice,
		search.MaxPrice,
		search.BedsMin,
		search.BathsMin,
		search.CenterLat,
		search.CenterLng,
		search.RadiusKm,
		search.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting saved search: %w", err)
	}

	return nil
}

// ListByUser returns the user's saved searches, newest-created first
func (s *SavedSearchStore) ListByUser(ctx context.Context, userID string) ([]savedsearch.SavedSearch, error) {
	query := `
		SELECT id, user_id, name, q, min_price, max_price,
		       beds_min, baths_min, center_lat, center_lng,
		       radius_km, created_at
		FROM saved_search
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying saved searches: %w", err)
	}
	defer rows.Close()

	searches := []savedsearch.SavedSearch{}
	for rows.Next() {
		var search savedsearch.SavedSearch
		var q *string
		err := rows.Scan(
			&search.ID,
			&search.UserID,
			&search.Name,
			&q,
			&search.MinPrice,
			&search.MaxPrice,
			&search.BedsMin,
			&search.BathsMin,
			&search.CenterLat,
			&search.CenterLng,
			&search.RadiusKm,
			&search.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning saved search: %w", err)
		}
		if q != nil {
			search.Query = *q
		}
		searches = append(searches, search)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating saved searches: %w", err)
	}

	return searches, nil
}
