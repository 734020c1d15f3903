// internal/server/handlers/stream.go

package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"propstream/internal/domain/listing"
	"propstream/internal/domain/stream"
	streamService "propstream/internal/service/stream"
)

// ListingStreamHandler serves the Server-Sent Events channel. Every
// connection runs its own simulator instance, so two clients receive
// independently randomized events. The simulator's timers stop with the
// request context; there is no buffering or replay across connections.
func ListingStreamHandler(store listing.Store, cfg streamService.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)

		// Connection acknowledgment frame
		fmt.Fprint(w, ": connected\n\n")
		flusher.Flush()

		sim := streamService.NewSimulator(store, cfg, nil)
		events := sim.Run(r.Context())

		for ev := range events {
			if err := writeFrame(w, ev); err != nil {
				// Fatal to this connection only; the request context
				// tears down the simulator
				log.Printf("Stream: error writing frame: %v", err)
				return
			}
			flusher.Flush()
		}
	}
}

// writeFrame renders one event as an SSE frame: a comment frame for
// keep-alives, a data frame with the JSON-encoded listing otherwise
func writeFrame(w io.Writer, ev stream.Event) error {
	switch ev.Kind {
	case stream.KindKeepAlive:
		_, err := fmt.Fprint(w, ": heartbeat\n\n")
		return err

	case stream.KindData:
		payload, err := json.Marshal(ev.Listing)
		if err != nil {
			// Skip the frame, keep the connection
			log.Printf("Stream: error encoding listing: %v", err)
			return nil
		}
		_, err = fmt.Fprintf(w, "data: %s\n\n", payload)
		return err
	}

	return nil
}
