// internal/client/consumer.go

package client

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"propstream/internal/domain/listing"
)

// Status is the consumer's connection state
type Status string

// Connection states. After an error the consumer waits the reconnect delay
// and transitions back to connecting; the loop only ends on teardown.
const (
	StatusConnecting Status = "connecting"
	StatusConnected  Status = "connected"
	StatusError      Status = "error"
)

// Config holds the consumer's connection and merge parameters
type Config struct {
	// URL of the listing stream endpoint
	URL string

	// ReconnectDelay is the fixed wait between a transport error and the
	// next connection attempt
	ReconnectDelay time.Duration

	// NewWindow is how long a received listing keeps its "new" marker
	NewWindow time.Duration

	// MaxListings caps the retained sequence; the oldest entries are
	// evicted beyond it
	MaxListings int

	// HTTPClient overrides the transport, mainly for tests
	HTTPClient *http.Client
}

// Consumer maintains a client-local copy of the listing set fed by the
// server's event stream. Incoming listings are prepended most-recent-first
// and flagged "new" for a fixed display window; the set is reconciled only
// by append, never by server-initiated delete.
type Consumer struct {
	cfg        Config
	httpClient *http.Client
	onEvent    func(listing.Listing)

	mu       sync.Mutex
	status   Status
	listings []listing.Listing
	newIDs   map[string]struct{}
	timers   map[*time.Timer]struct{}

	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a consumer. Call Start to open the stream.
func New(cfg Config) *Consumer {
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Consumer{
		cfg:        cfg,
		httpClient: httpClient,
		status:     StatusConnecting,
		newIDs:     make(map[string]struct{}),
		timers:     make(map[*time.Timer]struct{}),
		done:       make(chan struct{}),
	}
}

// OnEvent registers a hook invoked for every merged listing. Must be set
// before Start.
func (c *Consumer) OnEvent(fn func(listing.Listing)) {
	c.onEvent = fn
}

// Start opens the stream and keeps it open until ctx is cancelled or Stop
// is called, reconnecting after errors
func (c *Consumer) Start(ctx context.Context) {
	ctx, c.cancel = context.WithCancel(ctx)

	go func() {
		defer close(c.done)
		c.run(ctx)
	}()
}

// Stop tears the consumer down: it closes the transport and stops every
// pending new-marker timer so none leak past teardown
func (c *Consumer) Stop() {
	if c.cancel != nil {
		c.cancel()
	}
	<-c.done

	c.mu.Lock()
	defer c.mu.Unlock()
	for t := range c.timers {
		t.Stop()
		delete(c.timers, t)
	}
}

// Status returns the current connection state
func (c *Consumer) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Listings returns a snapshot of the retained sequence, most recent first
func (c *Consumer) Listings() []listing.Listing {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]listing.Listing, len(c.listings))
	copy(out, c.listings)
	return out
}

// IsNew reports whether the listing id is still inside its display window
func (c *Consumer) IsNew(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	_, ok := c.newIDs[id]
	return ok
}

// run is the reconnection loop: connecting -> connected -> error, then
// back to connecting after the fixed delay. Reconnection is deterministic;
// the delayed transition itself re-opens the channel.
func (c *Consumer) run(ctx context.Context) {
	for {
		c.setStatus(StatusConnecting)

		err := c.consume(ctx)
		if ctx.Err() != nil {
			return
		}

		c.setStatus(StatusError)
		log.Printf("Consumer: stream error: %v, reconnecting in %s", err, c.cfg.ReconnectDelay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.cfg.ReconnectDelay):
		}
	}
}

// consume holds one stream connection open and merges its frames until the
// transport fails or ctx is cancelled
func (c *Consumer) consume(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return fmt.Errorf("error building request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error connecting: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	c.setStatus(StatusConnected)

	scanner := bufio.NewScanner(resp.Body)
	var dataLines []string

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case line == "":
			// Blank line terminates a frame
			if len(dataLines) > 0 {
				c.merge(strings.Join(dataLines, "\n"))
				dataLines = nil
			}

		case strings.HasPrefix(line, ":"):
			// Comment / keep-alive frame: no state change

		case strings.HasPrefix(line, "data:"):
			dataLines = append(dataLines, strings.TrimPrefix(strings.TrimPrefix(line, "data:"), " "))
		}
	}

	if err := scanner.Err(); err != nil {
		return err
	}
	return errors.New("stream closed by server")
}

// merge parses a data frame and prepends the listing to the local
// sequence, marking it "new" for the display window. Malformed frames are
// logged and ignored.
func (c *Consumer) merge(payload string) {
	var l listing.Listing
	if err := json.Unmarshal([]byte(payload), &l); err != nil {
		log.Printf("Consumer: ignoring malformed data frame: %v", err)
		return
	}

	c.mu.Lock()

	c.listings = append([]listing.Listing{l}, c.listings...)
	if c.cfg.MaxListings > 0 && len(c.listings) > c.cfg.MaxListings {
		c.listings = c.listings[:c.cfg.MaxListings]
	}

	c.newIDs[l.ID] = struct{}{}

	// One timer per event, never cancelled by later events for the same id
	var timer *time.Timer
	timer = time.AfterFunc(c.cfg.NewWindow, func() {
		c.clearNew(l.ID, timer)
	})
	c.timers[timer] = struct{}{}

	c.mu.Unlock()

	if c.onEvent != nil {
		c.onEvent(l)
	}
}

func (c *Consumer) clearNew(id string, timer *time.Timer) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.newIDs, id)
	delete(c.timers, timer)
}

func (c *Consumer) setStatus(s Status) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}
