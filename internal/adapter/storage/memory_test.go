// internal/adapter/storage/memory_test.go

package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propstream/internal/domain/listing"
	"propstream/internal/domain/savedsearch"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func scenarioStore() *MemoryListingStore {
	return NewMemoryListingStore([]listing.Listing{
		{
			ID: "L1", Address: "Marina Tower", City: "Dubai",
			Lat: 25.08, Lng: 55.14, Price: 1000000, Beds: 2, Baths: 2,
			Status: listing.StatusForSale, UpdatedAt: time.Now(),
		},
	})
}

func TestMemoryListingStore_Query_PriceAndBedsFilter(t *testing.T) {
	store := scenarioStore()

	items, total, err := store.Query(context.Background(), listing.Filter{
		MinPrice: int64Ptr(900000),
		MaxPrice: int64Ptr(1100000),
		BedsMin:  intPtr(2),
		Page:     1,
		Limit:    20,
	})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Equal(t, "L1", items[0].ID)
}

func TestMemoryListingStore_Query_NoMatches(t *testing.T) {
	store := scenarioStore()

	items, total, err := store.Query(context.Background(), listing.Filter{
		BedsMin: intPtr(5),
		Page:    1,
		Limit:   20,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, total)
	assert.Empty(t, items)
}

func TestMemoryListingStore_Query_OrderedByUpdatedAtDescending(t *testing.T) {
	now := time.Now()
	store := NewMemoryListingStore([]listing.Listing{
		{ID: "old", UpdatedAt: now.Add(-2 * time.Hour)},
		{ID: "newest", UpdatedAt: now},
		{ID: "middle", UpdatedAt: now.Add(-1 * time.Hour)},
	})

	items, total, err := store.Query(context.Background(), listing.Filter{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, items, 3)
	assert.Equal(t, "newest", items[0].ID)
	assert.Equal(t, "middle", items[1].ID)
	assert.Equal(t, "old", items[2].ID)
}

func TestMemoryListingStore_Query_PagesAreContiguousAndNonOverlapping(t *testing.T) {
	now := time.Now()
	var seed []listing.Listing
	for i := 0; i < 5; i++ {
		seed = append(seed, listing.Listing{
			ID:        string(rune('a' + i)),
			UpdatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}
	store := NewMemoryListingStore(seed)

	page1, total, err := store.Query(context.Background(), listing.Filter{Page: 1, Limit: 2})
	require.NoError(t, err)
	page2, _, err := store.Query(context.Background(), listing.Filter{Page: 2, Limit: 2})
	require.NoError(t, err)
	page3, _, err := store.Query(context.Background(), listing.Filter{Page: 3, Limit: 2})
	require.NoError(t, err)

	assert.Equal(t, 5, total)

	var ids []string
	for _, page := range [][]listing.Listing{page1, page2, page3} {
		for _, l := range page {
			ids = append(ids, l.ID)
		}
	}
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, ids)
}

func TestMemoryListingStore_Query_PageBeyondEnd(t *testing.T) {
	store := scenarioStore()

	items, total, err := store.Query(context.Background(), listing.Filter{Page: 4, Limit: 20})

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Empty(t, items)
}

func TestMemoryListingStore_GetByID(t *testing.T) {
	store := scenarioStore()

	found, err := store.GetByID(context.Background(), "L1")
	require.NoError(t, err)
	assert.Equal(t, "Marina Tower", found.Address)

	_, err = store.GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, listing.ErrNotFound)
}

func TestMemoryListingStore_Insert_ReplacesFullRecord(t *testing.T) {
	store := scenarioStore()
	ctx := context.Background()

	updated := listing.Listing{ID: "L1", Address: "Marina Tower", Price: 1200000, Beds: 2, Baths: 2}
	require.NoError(t, store.Insert(ctx, updated))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, int64(1200000), all[0].Price)
}

func TestMemoryListingStore_All_PreservesInsertionOrder(t *testing.T) {
	store := NewMemoryListingStore(nil)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, listing.Listing{ID: "first"}))
	require.NoError(t, store.Insert(ctx, listing.Listing{ID: "second"}))
	require.NoError(t, store.Insert(ctx, listing.Listing{ID: "third"}))

	all, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "first", all[0].ID)
	assert.Equal(t, "third", all[2].ID)
}

func TestMemorySavedSearchStore_ListByUser_NewestFirst(t *testing.T) {
	store := NewMemorySavedSearchStore()
	ctx := context.Background()
	now := time.Now()

	for i, name := range []string{"oldest", "middle", "newest"} {
		err := store.Create(ctx, &savedsearch.SavedSearch{
			ID:        name,
			UserID:    "guest",
			Name:      name,
			CreatedAt: now.Add(time.Duration(i) * time.Minute),
		})
		require.NoError(t, err)
	}

	// A different owner's searches must not leak in
	require.NoError(t, store.Create(ctx, &savedsearch.SavedSearch{
		ID: "other", UserID: "someone-else", Name: "other", CreatedAt: now,
	}))

	searches, err := store.ListByUser(ctx, "guest")
	require.NoError(t, err)
	require.Len(t, searches, 3)
	assert.Equal(t, "newest", searches[0].Name)
	assert.Equal(t, "oldest", searches[2].Name)
}
