// internal/domain/stream/event.go

package stream

import "propstream/internal/domain/listing"

// EventKind distinguishes the frame forms on the push channel
type EventKind string

// Event kinds
const (
	// KindData carries a listing snapshot
	KindData EventKind = "data"

	// KindKeepAlive is a payload-less marker that keeps the channel open
	// through intermediaries
	KindKeepAlive EventKind = "keepalive"
)

// Event is an ephemeral message on the push channel: a point-in-time
// listing snapshot for data events, or an empty keep-alive marker. Events
// are delivered to a given client in emission order; there is no
// cross-client ordering guarantee.
type Event struct {
	Kind    EventKind
	Listing *listing.Listing
}
