// internal/client/consumer_test.go

package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propstream/internal/domain/listing"
)

// fakeStream serves scripted SSE connections. Each connection invokes the
// script with a flush-on-write frame writer; when the script returns the
// connection closes.
func fakeStream(t *testing.T, script func(conn int, send func(frame string))) *httptest.Server {
	t.Helper()

	var conns int32
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		require.True(t, ok)

		w.Header().Set("Content-Type", "text/event-stream")
		w.WriteHeader(http.StatusOK)

		send := func(frame string) {
			fmt.Fprintf(w, "%s\n\n", frame)
			flusher.Flush()
		}
		send(": connected")

		script(int(atomic.AddInt32(&conns, 1)), send)
	}))
}

func dataFrame(t *testing.T, l listing.Listing) string {
	t.Helper()
	payload, err := json.Marshal(l)
	require.NoError(t, err)
	return "data: " + string(payload)
}

func testConfig(url string) Config {
	return Config{
		URL:            url,
		ReconnectDelay: 20 * time.Millisecond,
		NewWindow:      60 * time.Millisecond,
		MaxListings:    200,
	}
}

// eventually polls cond until it holds or the deadline passes
func eventually(t *testing.T, cond func() bool, msg string) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 5*time.Millisecond, msg)
}

func TestConsumer_MergesPrependAndMarksNew(t *testing.T) {
	hold := make(chan struct{})
	srv := fakeStream(t, func(conn int, send func(string)) {
		send(dataFrame(t, listing.Listing{ID: "L1-new-a", Address: "First", Price: 100}))
		send(": heartbeat")
		send(dataFrame(t, listing.Listing{ID: "L1-new-b", Address: "Second", Price: 200}))
		<-hold
	})
	defer srv.Close()
	defer close(hold)

	var mu sync.Mutex
	var received []string

	c := New(testConfig(srv.URL))
	c.OnEvent(func(l listing.Listing) {
		mu.Lock()
		received = append(received, l.ID)
		mu.Unlock()
	})

	c.Start(context.Background())
	defer c.Stop()

	eventually(t, func() bool { return len(c.Listings()) == 2 }, "expected both listings merged")

	assert.Equal(t, StatusConnected, c.Status())

	got := c.Listings()
	require.Len(t, got, 2)
	assert.Equal(t, "L1-new-b", got[0].ID, "most recent listing is prepended")
	assert.Equal(t, "L1-new-a", got[1].ID)

	mu.Lock()
	assert.Equal(t, []string{"L1-new-a", "L1-new-b"}, received)
	mu.Unlock()

	// Both are inside the display window, then the markers expire
	assert.True(t, c.IsNew("L1-new-a"))
	assert.True(t, c.IsNew("L1-new-b"))

	eventually(t, func() bool {
		return !c.IsNew("L1-new-a") && !c.IsNew("L1-new-b")
	}, "new markers should expire after the display window")

	// Expiry only clears the marker, never the listing itself
	assert.Len(t, c.Listings(), 2)
}

func TestConsumer_IgnoresMalformedFrames(t *testing.T) {
	hold := make(chan struct{})
	srv := fakeStream(t, func(conn int, send func(string)) {
		send("data: {not json")
		send(dataFrame(t, listing.Listing{ID: "ok", Address: "Valid"}))
		<-hold
	})
	defer srv.Close()
	defer close(hold)

	c := New(testConfig(srv.URL))
	c.Start(context.Background())
	defer c.Stop()

	eventually(t, func() bool { return len(c.Listings()) == 1 }, "valid frame should still merge")
	assert.Equal(t, "ok", c.Listings()[0].ID)
}

func TestConsumer_EvictsBeyondCap(t *testing.T) {
	hold := make(chan struct{})
	srv := fakeStream(t, func(conn int, send func(string)) {
		for i := 1; i <= 5; i++ {
			send(dataFrame(t, listing.Listing{ID: fmt.Sprintf("e%d", i)}))
		}
		<-hold
	})
	defer srv.Close()
	defer close(hold)

	cfg := testConfig(srv.URL)
	cfg.MaxListings = 3

	c := New(cfg)
	c.Start(context.Background())
	defer c.Stop()

	eventually(t, func() bool {
		got := c.Listings()
		return len(got) == 3 && got[0].ID == "e5"
	}, "cap should retain only the newest entries")

	got := c.Listings()
	assert.Equal(t, []string{"e5", "e4", "e3"}, []string{got[0].ID, got[1].ID, got[2].ID})
}

func TestConsumer_ReconnectsAfterServerClose(t *testing.T) {
	hold := make(chan struct{})
	srv := fakeStream(t, func(conn int, send func(string)) {
		send(dataFrame(t, listing.Listing{ID: fmt.Sprintf("conn%d", conn)}))
		if conn == 1 {
			return // drop the first connection after one frame
		}
		<-hold
	})
	defer srv.Close()
	defer close(hold)

	c := New(testConfig(srv.URL))
	c.Start(context.Background())
	defer c.Stop()

	eventually(t, func() bool { return len(c.Listings()) >= 2 }, "expected a frame from the reconnected stream")

	ids := make(map[string]bool)
	for _, l := range c.Listings() {
		ids[l.ID] = true
	}
	assert.True(t, ids["conn1"], "frame from the first connection survives the reconnect")
	assert.True(t, ids["conn2"], "second connection delivered after the fixed delay")
	assert.Equal(t, StatusConnected, c.Status())
}

func TestConsumer_ErrorStatusWhileDisconnected(t *testing.T) {
	// Point at a server that immediately refuses the stream
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.ReconnectDelay = time.Hour // park the loop in the error state

	c := New(cfg)
	c.Start(context.Background())
	defer c.Stop()

	eventually(t, func() bool { return c.Status() == StatusError }, "failed connection should surface as error status")
	assert.Empty(t, c.Listings())
}

func TestConsumer_StopTerminatesPromptly(t *testing.T) {
	hold := make(chan struct{})
	srv := fakeStream(t, func(conn int, send func(string)) {
		send(dataFrame(t, listing.Listing{ID: "x"}))
		<-hold
	})
	defer srv.Close()
	defer close(hold)

	cfg := testConfig(srv.URL)
	cfg.NewWindow = time.Hour // marker timers outlive the test unless Stop clears them

	c := New(cfg)
	c.Start(context.Background())

	eventually(t, func() bool { return len(c.Listings()) == 1 }, "expected the frame before teardown")

	done := make(chan struct{})
	go func() {
		c.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
