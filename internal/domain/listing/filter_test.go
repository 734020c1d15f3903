// internal/domain/listing/filter_test.go

package listing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }
func intPtr(v int) *int       { return &v }

func sampleListing() Listing {
	return Listing{
		ID:        "L1",
		Address:   "Marina Tower",
		City:      "Dubai",
		Lat:       25.08,
		Lng:       55.14,
		Price:     1000000,
		Beds:      2,
		Baths:     2,
		Status:    StatusForSale,
		UpdatedAt: time.Now(),
	}
}

func TestFilter_Predicates_EmptyFilter(t *testing.T) {
	assert.Empty(t, Filter{}.Predicates())
}

func TestFilter_Predicates_AllFields(t *testing.T) {
	f := Filter{
		Query:    "marina",
		MinPrice: int64Ptr(900000),
		MaxPrice: int64Ptr(1100000),
		BedsMin:  intPtr(2),
		BathsMin: intPtr(1),
	}

	preds := f.Predicates()
	require.Len(t, preds, 5)

	assert.Equal(t, Predicate{Column: "address", Op: OpContains, Value: "marina"}, preds[0])
	assert.Equal(t, Predicate{Column: "price", Op: OpGTE, Value: int64(900000)}, preds[1])
	assert.Equal(t, Predicate{Column: "price", Op: OpLTE, Value: int64(1100000)}, preds[2])
	assert.Equal(t, Predicate{Column: "beds", Op: OpGTE, Value: 2}, preds[3])
	assert.Equal(t, Predicate{Column: "baths", Op: OpGTE, Value: 1}, preds[4])
}

func TestPredicate_Match(t *testing.T) {
	l := sampleListing()

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"substring match is case-insensitive", Filter{Query: "MARINA"}, true},
		{"substring mismatch", Filter{Query: "downtown"}, false},
		{"min price inclusive", Filter{MinPrice: int64Ptr(1000000)}, true},
		{"min price above", Filter{MinPrice: int64Ptr(1000001)}, false},
		{"max price inclusive", Filter{MaxPrice: int64Ptr(1000000)}, true},
		{"max price below", Filter{MaxPrice: int64Ptr(999999)}, false},
		{"beds min inclusive", Filter{BedsMin: intPtr(2)}, true},
		{"beds min above", Filter{BedsMin: intPtr(3)}, false},
		{"baths min inclusive", Filter{BathsMin: intPtr(2)}, true},
		{"baths min above", Filter{BathsMin: intPtr(3)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			preds := tt.filter.Predicates()
			require.Len(t, preds, 1)
			assert.Equal(t, tt.want, preds[0].Match(l))
		})
	}
}

func TestFilter_Offset(t *testing.T) {
	f := Filter{Page: 3, Limit: 20}
	assert.Equal(t, 40, f.Offset())

	first := Filter{Page: 1, Limit: 50}
	assert.Equal(t, 0, first.Offset())
}
