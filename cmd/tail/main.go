// cmd/tail/main.go

// tail follows the listing stream from a running server and prints every
// simulated listing as it arrives, with its "new" window and the current
// connection state. It exercises the same consumer the tests use.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"propstream/internal/client"
	"propstream/internal/config"
	"propstream/internal/domain/listing"
)

func main() {
	godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	url := os.Getenv("STREAM_URL")
	if url == "" {
		url = "http://localhost:8080/api/v1/stream/listings"
	}

	consumer := client.New(client.Config{
		URL:            url,
		ReconnectDelay: cfg.Client.ReconnectDelay,
		NewWindow:      cfg.Client.NewWindow,
		MaxListings:    cfg.Client.MaxListings,
	})

	consumer.OnEvent(func(l listing.Listing) {
		log.Printf("[%s] %s: %s, %s (%d beds, %d baths) %d", consumer.Status(), l.ID, l.Address, l.City, l.Beds, l.Baths, l.Price)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	log.Printf("Following %s", url)
	consumer.Start(ctx)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	consumer.Stop()
	log.Printf("Stopped with %d listings retained", len(consumer.Listings()))
}
