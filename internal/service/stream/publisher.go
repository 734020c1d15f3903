// internal/service/stream/publisher.go

package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"

	"propstream/internal/domain/stream"
)

// Publisher fans simulated data events out to a side channel for external
// observers, independent of any client connection
type Publisher interface {
	Publish(ctx context.Context, ev stream.Event) error
}

// msgSender is the subset of *nats.Conn the publisher needs
type msgSender interface {
	Publish(subject string, data []byte) error
}

// NATSPublisher publishes data events to a NATS subject as JSON-encoded
// listings. Keep-alives are not published.
type NATSPublisher struct {
	sender  msgSender
	subject string
}

// NewNATSPublisher creates a publisher on the given connection and subject
func NewNATSPublisher(conn *nats.Conn, subject string) *NATSPublisher {
	return &NATSPublisher{sender: conn, subject: subject}
}

// Publish sends the event's listing to the configured subject
func (p *NATSPublisher) Publish(ctx context.Context, ev stream.Event) error {
	if ev.Kind != stream.KindData || ev.Listing == nil {
		return nil
	}

	payload, err := json.Marshal(ev.Listing)
	if err != nil {
		return fmt.Errorf("error marshaling listing: %w", err)
	}

	if err := p.sender.Publish(p.subject, payload); err != nil {
		return fmt.Errorf("error publishing to %s: %w", p.subject, err)
	}

	return nil
}
