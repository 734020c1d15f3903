// internal/adapter/storage/schema.go

package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"propstream/internal/domain/listing"
)

const schema = `
	CREATE TABLE IF NOT EXISTS listing (
		inserted_seq BIGSERIAL,
		id TEXT PRIMARY KEY,
		address TEXT NOT NULL,
		city TEXT NOT NULL,
		lat DOUBLE PRECISION NOT NULL,
		lng DOUBLE PRECISION NOT NULL,
		price BIGINT NOT NULL,
		beds INTEGER NOT NULL,
		baths INTEGER NOT NULL,
		status TEXT NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	);

	CREATE TABLE IF NOT EXISTS saved_search (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		q TEXT,
		min_price BIGINT,
		max_price BIGINT,
		beds_min INTEGER,
		baths_min INTEGER,
		center_lat DOUBLE PRECISION,
		center_lng DOUBLE PRECISION,
		radius_km DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_listing_updated_at ON listing (updated_at DESC);
	CREATE INDEX IF NOT EXISTS idx_saved_search_user ON saved_search (user_id, created_at DESC);
`

// EnsureSchema creates the listing and saved_search tables if they do not
// exist. The inserted_seq column preserves the store's natural insertion
// order, which proximity search uses as its tie-break.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("error creating schema: %w", err)
	}
	return nil
}

// Seed inserts the sample listings when the listing table is empty
func Seed(ctx context.Context, db *pgxpool.Pool) error {
	var count int
	if err := db.QueryRow(ctx, "SELECT COUNT(*) FROM listing").Scan(&count); err != nil {
		return fmt.Errorf("error counting listings: %w", err)
	}
	if count > 0 {
		return nil
	}

	store := NewListingStore(db)
	for _, l := range SampleListings() {
		if err := store.Insert(ctx, l); err != nil {
			return fmt.Errorf("error seeding listing %s: %w", l.ID, err)
		}
	}

	log.Printf("Seeded %d sample listings", len(SampleListings()))
	return nil
}

// SampleListings returns the demo data set. The same records seed the
// in-memory store when the server runs without a database.
func SampleListings() []listing.Listing {
	at := func(daysAgo int) time.Time {
		return time.Now().UTC().Add(-time.Duration(daysAgo) * 24 * time.Hour).Truncate(time.Second)
	}

	return []listing.Listing{
		{
			ID: "listing-001", Address: "Marina Tower, Dubai Marina", City: "Dubai",
			Lat: 25.0805, Lng: 55.1403, Price: 1250000, Beds: 2, Baths: 2,
			Status: listing.StatusForSale, UpdatedAt: at(1),
		},
		{
			ID: "listing-002", Address: "Burj Vista, Downtown Dubai", City: "Dubai",
			Lat: 25.1951, Lng: 55.2770, Price: 3400000, Beds: 3, Baths: 4,
			Status: listing.StatusForSale, UpdatedAt: at(2),
		},
		{
			ID: "listing-003", Address: "Shoreline Apartments, Palm Jumeirah", City: "Dubai",
			Lat: 25.1096, Lng: 55.1441, Price: 2100000, Beds: 2, Baths: 3,
			Status: listing.StatusForSale, UpdatedAt: at(3),
		},
		{
			ID: "listing-004", Address: "Lake Terrace, Jumeirah Lake Towers", City: "Dubai",
			Lat: 25.0693, Lng: 55.1430, Price: 95000, Beds: 1, Baths: 1,
			Status: listing.StatusForRent, UpdatedAt: at(4),
		},
		{
			ID: "listing-005", Address: "The Greens, Emirates Living", City: "Dubai",
			Lat: 25.0960, Lng: 55.1706, Price: 140000, Beds: 2, Baths: 2,
			Status: listing.StatusForRent, UpdatedAt: at(5),
		},
		{
			ID: "listing-006", Address: "City Walk Residence, Al Wasl", City: "Dubai",
			Lat: 25.2050, Lng: 55.2630, Price: 2850000, Beds: 3, Baths: 3,
			Status: listing.StatusForSale, UpdatedAt: at(6),
		},
		{
			ID: "listing-007", Address: "Creek Horizon, Dubai Creek Harbour", City: "Dubai",
			Lat: 25.2010, Lng: 55.3430, Price: 1780000, Beds: 2, Baths: 2,
			Status: listing.StatusForSale, UpdatedAt: at(7),
		},
		{
			ID: "listing-008", Address: "Mudon Views, Dubailand", City: "Dubai",
			Lat: 25.0270, Lng: 55.2800, Price: 1150000, Beds: 4, Baths: 5,
			Status: listing.StatusForSale, UpdatedAt: at(8),
		},
	}
}
