// internal/service/stream/simulator.go

package stream

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"propstream/internal/domain/listing"
	"propstream/internal/domain/stream"
)

// Config holds the simulator's scheduling parameters. Tests compress the
// intervals to milliseconds.
type Config struct {
	// MinEmitInterval and MaxEmitInterval bound the uniformly random
	// inter-arrival time between data events
	MinEmitInterval time.Duration
	MaxEmitInterval time.Duration

	// KeepAliveInterval is the fixed keep-alive period
	KeepAliveInterval time.Duration

	// MaxPriceDelta bounds the uniformly random signed price perturbation
	MaxPriceDelta int64

	// BufferSize caps buffered-but-unsent events per connection; events
	// beyond the cap are dropped rather than blocking the schedule
	BufferSize int
}

// Simulator emulates a live feed of new listings. On a randomized schedule
// it picks a random listing from the store and emits a derived copy as a
// data event; on a fixed period it emits keep-alives. Derived records are
// never written back to the store. Each connection runs its own Simulator,
// so two clients receive independently randomized events.
type Simulator struct {
	store     listing.Store
	cfg       Config
	publisher Publisher
	rng       *rand.Rand
}

// NewSimulator creates a simulator over the given store. publisher may be
// nil; when set, every emitted data event is also fanned out through it.
func NewSimulator(store listing.Store, cfg Config, publisher Publisher) *Simulator {
	return &Simulator{
		store:     store,
		cfg:       cfg,
		publisher: publisher,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run starts the simulator's two independent schedules and returns its
// event channel. Both schedules stop and the channel closes when ctx is
// cancelled. Sends never block: events that would overflow the buffer are
// dropped with a log line.
func (s *Simulator) Run(ctx context.Context) <-chan stream.Event {
	events := make(chan stream.Event, s.cfg.BufferSize)

	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		s.emitLoop(ctx, events)
	}()
	go func() {
		defer wg.Done()
		s.keepAliveLoop(ctx, events)
	}()
	go func() {
		wg.Wait()
		close(events)
	}()

	return events
}

// emitLoop produces data events on uniformly random intervals. A failed or
// empty tick is skipped; the schedule continues unaffected.
func (s *Simulator) emitLoop(ctx context.Context, events chan<- stream.Event) {
	timer := time.NewTimer(s.nextInterval())
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
			if ev, ok := s.nextEvent(ctx); ok {
				s.send(events, ev)
			}
			timer.Reset(s.nextInterval())
		}
	}
}

func (s *Simulator) keepAliveLoop(ctx context.Context, events chan<- stream.Event) {
	ticker := time.NewTicker(s.cfg.KeepAliveInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.send(events, stream.Event{Kind: stream.KindKeepAlive})
		}
	}
}

// nextEvent builds the next data event, or reports false when the tick is
// skipped (empty store or read error)
func (s *Simulator) nextEvent(ctx context.Context) (stream.Event, bool) {
	all, err := s.store.All(ctx)
	if err != nil {
		log.Printf("Simulator: error reading listings: %v", err)
		return stream.Event{}, false
	}
	if len(all) == 0 {
		return stream.Event{}, false
	}

	derived := s.derive(all[s.rng.Intn(len(all))])
	ev := stream.Event{Kind: stream.KindData, Listing: &derived}

	if s.publisher != nil {
		if err := s.publisher.Publish(ctx, ev); err != nil {
			log.Printf("Simulator: error publishing event: %v", err)
		}
	}

	return ev, true
}

// derive clones a listing under a new unique id with a perturbed price and
// a refreshed timestamp
func (s *Simulator) derive(src listing.Listing) listing.Listing {
	derived := src
	derived.ID = fmt.Sprintf("%s-new-%s", src.ID, uuid.NewString()[:8])
	derived.UpdatedAt = time.Now().UTC()

	delta := s.rng.Int63n(2*s.cfg.MaxPriceDelta+1) - s.cfg.MaxPriceDelta
	derived.Price = src.Price + delta
	if derived.Price < 0 {
		derived.Price = 0
	}

	return derived
}

func (s *Simulator) nextInterval() time.Duration {
	min, max := s.cfg.MinEmitInterval, s.cfg.MaxEmitInterval
	if max <= min {
		return min
	}
	return min + time.Duration(s.rng.Int63n(int64(max-min)))
}

func (s *Simulator) send(events chan<- stream.Event, ev stream.Event) {
	select {
	case events <- ev:
	default:
		log.Printf("Simulator: dropping %s event, consumer is not keeping up", ev.Kind)
	}
}
