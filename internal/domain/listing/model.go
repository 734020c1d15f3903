// internal/domain/listing/model.go

package listing

import "time"

// Status is the market status of a listing
type Status string

// Known listing statuses
const (
	StatusForSale Status = "for_sale"
	StatusForRent Status = "for_rent"
)

// Listing represents a single property record
type Listing struct {
	ID        string    `json:"id"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	Lat       float64   `json:"lat"`
	Lng       float64   `json:"lng"`
	Price     int64     `json:"price"`
	Beds      int       `json:"beds"`
	Baths     int       `json:"baths"`
	Status    Status    `json:"status"`
	UpdatedAt time.Time `json:"updated_at"`
}
