// internal/adapter/storage/listing_store.go

package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"propstream/internal/domain/listing"
)

const listingColumns = "id, address, city, lat, lng, price, beds, baths, status, updated_at"

// ListingStore implements listing.Store on Postgres
type ListingStore struct {
	db *pgxpool.Pool
}

// NewListingStore creates a new listing store
func NewListingStore(db *pgxpool.Pool) *ListingStore {
	return &ListingStore{db: db}
}

// compilePredicates turns a predicate list into a parameterized WHERE
// clause and its arguments. Substring containment compiles to ILIKE so the
// SQL and in-memory backends agree on case-insensitivity.
func compilePredicates(preds []listing.Predicate) (string, []interface{}) {
	if len(preds) == 0 {
		return "", nil
	}

	var conds []string
	var args []interface{}

	for _, p := range preds {
		switch p.Op {
		case listing.OpContains:
			args = append(args, "%"+fmt.Sprint(p.Value)+"%")
			conds = append(conds, fmt.Sprintf("%s ILIKE $%d", p.Column, len(args)))
		case listing.OpGTE, listing.OpLTE:
			args = append(args, p.Value)
			conds = append(conds, fmt.Sprintf("%s %s $%d", p.Column, p.Op, len(args)))
		}
	}

	return " WHERE " + strings.Join(conds, " AND "), args
}

// Query returns the page of listings matching the filter, newest-updated
// first, plus the total match count ignoring pagination
func (s *ListingStore) Query(ctx context.Context, f listing.Filter) ([]listing.Listing, int, error) {
	where, args := compilePredicates(f.Predicates())

	countQuery := "SELECT COUNT(*) FROM listing" + where

	var total int
	if err := s.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting listings: %w", err)
	}

	itemsQuery := fmt.Sprintf(
		"SELECT %s FROM listing%s ORDER BY updated_at DESC LIMIT $%d OFFSET $%d",
		listingColumns, where, len(args)+1, len(args)+2,
	)
	args = append(args, f.Limit, f.Offset())

	rows, err := s.db.Query(ctx, itemsQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error querying listings: %w", err)
	}
	defer rows.Close()

	items, err := scanListings(rows)
	if err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

// All returns every listing in insertion order
func (s *ListingStore) All(ctx context.Context) ([]listing.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listing ORDER BY inserted_seq", listingColumns)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying listings: %w", err)
	}
	defer rows.Close()

	return scanListings(rows)
}

// GetByID retrieves a listing by id
func (s *ListingStore) GetByID(ctx context.Context, id string) (*listing.Listing, error) {
	query := fmt.Sprintf("SELECT %s FROM listing WHERE id = $1", listingColumns)

	var l listing.Listing
	var status string
	err := s.db.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.Address, &l.City, &l.Lat, &l.Lng,
		&l.Price, &l.Beds, &l.Baths, &status, &l.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, listing.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("error getting listing: %w", err)
	}
	l.Status = listing.Status(status)

	return &l, nil
}

// Insert adds a listing, replacing the full record when the id already
// exists (listings are only ever mutated by whole-record replacement)
func (s *ListingStore) Insert(ctx context.Context, l listing.Listing) error {
	query := `
		INSERT INTO listing (id, address, city, lat, lng, price, beds, baths, status, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE
		SET
			address = $2,
			city = $3,
			lat = $4,
			lng = $5,
			price = $6,
			beds = $7,
			baths = $8,
			status = $9,
			updated_at = $10
	`

	_, err := s.db.Exec(ctx, query,
		l.ID, l.Address, l.City, l.Lat, l.Lng,
		l.Price, l.Beds, l.Baths, string(l.Status), l.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("error inserting listing: %w", err)
	}

	return nil
}

func scanListings(rows pgx.Rows) ([]listing.Listing, error) {
	items := []listing.Listing{}
	for rows.Next() {
		var l listing.Listing
		var status string
		err := rows.Scan(
			&l.ID, &l.Address, &l.City, &l.Lat, &l.Lng,
			&l.Price, &l.Beds, &l.Baths, &status, &l.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning listing: %w", err)
		}
		l.Status = listing.Status(status)
		items = append(items, l)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating listings: %w", err)
	}

	return items, nil
}
