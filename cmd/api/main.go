// cmd/api/main.go

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"

	"propstream/internal/adapter/storage"
	"propstream/internal/config"
	"propstream/internal/domain/listing"
	"propstream/internal/domain/savedsearch"
	"propstream/internal/server"
	"propstream/internal/service/search"
	streamService "propstream/internal/service/stream"
)

func main() {
	godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Initialize stores: Postgres when configured, otherwise the seeded
	// in-memory store
	listings, searches, dbClose, err := initStores(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}
	defer dbClose()

	// Optional search response cache
	var cache *storage.SearchCache
	if cfg.Redis.URL != "" {
		redisClient, err := storage.NewRedisClient(ctx, cfg.Redis.URL)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer redisClient.Close()
		cache = storage.NewSearchCache(redisClient, cfg.Redis.CacheTTL)
		log.Printf("Search response cache enabled (TTL %s)", cfg.Redis.CacheTTL)
	}

	simCfg := streamService.Config{
		MinEmitInterval:   cfg.Stream.MinEmitInterval,
		MaxEmitInterval:   cfg.Stream.MaxEmitInterval,
		KeepAliveInterval: cfg.Stream.KeepAliveInterval,
		MaxPriceDelta:     cfg.Stream.MaxPriceDelta,
		BufferSize:        cfg.Stream.BufferSize,
	}

	// Optional NATS fan-out: one background simulator publishes every
	// simulated listing for external observers, independent of the
	// per-connection stream schedules
	if cfg.NATS.URL != "" {
		natsConn, err := initNATS(cfg.NATS)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsConn.Close()

		publisher := streamService.NewNATSPublisher(natsConn, cfg.NATS.Subject)
		fanout := streamService.NewSimulator(listings, simCfg, publisher)
		go func() {
			for range fanout.Run(ctx) {
				// Drain; the publisher already saw every data event
			}
		}()
		log.Printf("Event fan-out enabled on subject %s", cfg.NATS.Subject)
	}

	// Initialize the search engine
	engine := search.NewEngine(listings)

	// Initialize HTTP server
	httpServer := server.NewServer(
		cfg.Server,
		cfg.Search,
		simCfg,
		engine,
		listings,
		searches,
		cache,
		cfg.GuestUserID,
	)

	// Start HTTP server
	go func() {
		log.Printf("Starting HTTP server on %s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	<-shutdown
	log.Println("Shutdown signal received")

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	// Graceful shutdown
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Shutdown complete")
}

// initStores wires the listing and saved-search stores. With a database
// URL it connects, ensures the schema and seeds the sample data; without
// one it falls back to in-memory stores so the server runs standalone.
func initStores(ctx context.Context, cfg config.DatabaseConfig) (listing.Store, savedsearch.Store, func(), error) {
	if cfg.URL == "" {
		log.Println("DATABASE_URL not set, using in-memory storage with sample data")
		return storage.NewMemoryListingStore(storage.SampleListings()),
			storage.NewMemorySavedSearchStore(),
			func() {}, nil
	}

	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, nil, nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxLifetime

	db, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, nil, err
	}

	// Test connection
	if err := db.Ping(ctx); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	if err := storage.EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}
	if err := storage.Seed(ctx, db); err != nil {
		db.Close()
		return nil, nil, nil, err
	}

	return storage.NewListingStore(db), storage.NewSavedSearchStore(db), db.Close, nil
}

// Initialize NATS connection
func initNATS(cfg config.NATSConfig) (*nats.Conn, error) {
	options := []nats.Option{
		nats.MaxReconnects(cfg.MaxReconnects),
		nats.ReconnectWait(cfg.ReconnectWait),
		nats.Timeout(cfg.ConnectTimeout),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Printf("NATS disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("NATS reconnected to %s", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Printf("NATS connection closed")
		}),
	}

	return nats.Connect(cfg.URL, options...)
}
