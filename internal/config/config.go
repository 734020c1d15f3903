// internal/config/config.go

package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Environment string

	// GuestUserID is the fixed owner identity used for saved searches in
	// place of authenticated accounts. It is threaded through handlers as
	// an explicit parameter, never read from here by the stores.
	GuestUserID string

	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	NATS     NATSConfig
	Stream   StreamConfig
	Search   SearchConfig
	Client   ClientConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
	CorsOrigins     []string
}

// DatabaseConfig holds database configuration. An empty URL selects the
// in-memory store seeded with the sample listings.
type DatabaseConfig struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxLifetime time.Duration
}

// RedisConfig holds the search response cache configuration. An empty URL
// disables caching.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// NATSConfig holds the event fan-out configuration. An empty URL disables
// the fan-out publisher.
type NATSConfig struct {
	URL            string
	Subject        string
	MaxReconnects  int
	ReconnectWait  time.Duration
	ConnectTimeout time.Duration
}

// StreamConfig holds the event simulator and transport configuration
type StreamConfig struct {
	MinEmitInterval   time.Duration
	MaxEmitInterval   time.Duration
	KeepAliveInterval time.Duration
	MaxPriceDelta     int64
	BufferSize        int
}

// SearchConfig holds search engine bounds and defaults
type SearchConfig struct {
	DefaultLimit       int
	MaxLimit           int
	DefaultRadiusKm    float64
	NearbyDefaultLimit int
}

// ClientConfig holds the stream consumer configuration
type ClientConfig struct {
	ReconnectDelay time.Duration
	NewWindow      time.Duration
	MaxListings    int
}

// Load loads configuration from environment variables
func Load() (Config, error) {
	config := Config{
		Environment: getEnv("APP_ENV", "development"),
		GuestUserID: getEnv("GUEST_USER_ID", "guest"),
		Server: ServerConfig{
			Host:        getEnv("SERVER_HOST", "0.0.0.0"),
			Port:        getEnvAsInt("SERVER_PORT", 8080),
			ReadTimeout: getEnvAsDuration("SERVER_READ_TIMEOUT", 10*time.Second),
			// Zero disables the write deadline; the listing stream holds
			// its response open indefinitely
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 0),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			CorsOrigins:     getEnvAsSlice("SERVER_CORS_ORIGINS", []string{"*"}),
		},
		Database: DatabaseConfig{
			URL:         getEnv("DATABASE_URL", ""),
			MaxConns:    getEnvAsInt("DB_MAX_CONNS", 10),
			MinConns:    getEnvAsInt("DB_MIN_CONNS", 2),
			MaxLifetime: getEnvAsDuration("DB_MAX_LIFETIME", 5*time.Minute),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", ""),
			CacheTTL: getEnvAsDuration("REDIS_CACHE_TTL", 30*time.Second),
		},
		NATS: NATSConfig{
			URL:            getEnv("NATS_URL", ""),
			Subject:        getEnv("NATS_SUBJECT", "listings.simulated"),
			MaxReconnects:  getEnvAsInt("NATS_MAX_RECONNECTS", 10),
			ReconnectWait:  getEnvAsDuration("NATS_RECONNECT_WAIT", 1*time.Second),
			ConnectTimeout: getEnvAsDuration("NATS_CONNECT_TIMEOUT", 2*time.Second),
		},
		Stream: StreamConfig{
			MinEmitInterval:   getEnvAsDuration("STREAM_MIN_EMIT_INTERVAL", 8*time.Second),
			MaxEmitInterval:   getEnvAsDuration("STREAM_MAX_EMIT_INTERVAL", 15*time.Second),
			KeepAliveInterval: getEnvAsDuration("STREAM_KEEPALIVE_INTERVAL", 15*time.Second),
			MaxPriceDelta:     int64(getEnvAsInt("STREAM_MAX_PRICE_DELTA", 50000)),
			BufferSize:        getEnvAsInt("STREAM_BUFFER_SIZE", 16),
		},
		Search: SearchConfig{
			DefaultLimit:       getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:           getEnvAsInt("SEARCH_MAX_LIMIT", 50),
			DefaultRadiusKm:    getEnvAsFloat("SEARCH_DEFAULT_RADIUS_KM", 5.0),
			NearbyDefaultLimit: getEnvAsInt("SEARCH_NEARBY_DEFAULT_LIMIT", 10),
		},
		Client: ClientConfig{
			ReconnectDelay: getEnvAsDuration("CLIENT_RECONNECT_DELAY", 5*time.Second),
			NewWindow:      getEnvAsDuration("CLIENT_NEW_WINDOW", 10*time.Second),
			MaxListings:    getEnvAsInt("CLIENT_MAX_LISTINGS", 200),
		},
	}

	return config, validate(config)
}

// validate checks if config is valid
func validate(config Config) error {
	if config.Stream.MinEmitInterval <= 0 || config.Stream.MaxEmitInterval < config.Stream.MinEmitInterval {
		return fmt.Errorf("stream emit interval window is invalid")
	}

	if config.Stream.KeepAliveInterval <= 0 {
		return fmt.Errorf("stream keep-alive interval must be positive")
	}

	if config.Search.DefaultLimit <= 0 || config.Search.MaxLimit < config.Search.DefaultLimit {
		return fmt.Errorf("search limits are invalid")
	}

	if config.GuestUserID == "" {
		return fmt.Errorf("guest user id must not be empty")
	}

	return nil
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseFloat(valueStr, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	return strings.Split(valueStr, ",")
}
