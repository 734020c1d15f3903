// internal/service/geo/distance_test.go

package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistance_ZeroForIdenticalCoordinates(t *testing.T) {
	d := Distance(25.08, 55.14, 25.08, 55.14)
	assert.Equal(t, 0.0, d)
}

func TestDistance_Symmetric(t *testing.T) {
	// Dubai Marina -> Downtown Dubai and back
	ab := Distance(25.0805, 55.1403, 25.1972, 55.2744)
	ba := Distance(25.1972, 55.2744, 25.0805, 55.1403)
	assert.Equal(t, ab, ba)
}

func TestDistance_KnownPairs(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
		wantKm                 float64
		tolerance              float64
	}{
		{
			name: "Dubai Marina to Downtown Dubai",
			lat1: 25.0805, lng1: 55.1403,
			lat2: 25.1972, lng2: 55.2744,
			wantKm:    18.7,
			tolerance: 0.5,
		},
		{
			name: "London to Paris",
			lat1: 51.5074, lng1: -0.1278,
			lat2: 48.8566, lng2: 2.3522,
			wantKm:    343.5,
			tolerance: 1.0,
		},
		{
			name: "one degree of latitude at the equator",
			lat1: 0, lng1: 0,
			lat2: 1, lng2: 0,
			wantKm:    111.2,
			tolerance: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Distance(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			assert.InDelta(t, tt.wantKm, got, tt.tolerance)
		})
	}
}
