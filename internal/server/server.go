// internal/server/server.go

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"propstream/internal/adapter/storage"
	"propstream/internal/config"
	"propstream/internal/domain/listing"
	"propstream/internal/domain/savedsearch"
	"propstream/internal/server/handlers"
	"propstream/internal/service/search"
	streamService "propstream/internal/service/stream"
)

// Server represents the HTTP server
type Server struct {
	server *http.Server
	router *chi.Mux
}

// NewServer creates a new HTTP server
func NewServer(
	cfg config.ServerConfig,
	searchCfg config.SearchConfig,
	simCfg streamService.Config,
	engine *search.Engine,
	listings listing.Store,
	searches savedsearch.Store,
	cache *storage.SearchCache,
	guestUserID string,
) *Server {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	// CORS configuration
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CorsOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Create handler dependencies
	listingHandler := handlers.NewListingHandler(engine, cache, searchCfg)
	savedSearchHandler := handlers.NewSavedSearchHandler(searches, guestUserID)

	// Routes
	router.Route("/api", func(r chi.Router) {
		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("OK"))
		})

		// API version
		r.Route("/v1", func(r chi.Router) {
			// The request timeout applies to the query endpoints only;
			// the listing stream stays open until the client disconnects
			r.Group(func(r chi.Router) {
				r.Use(middleware.Timeout(60 * time.Second))

				// Listings API
				r.Route("/listings", func(r chi.Router) {
					r.Get("/", listingHandler.SearchListings)
					r.Get("/nearby", listingHandler.NearbyListings)
					r.Get("/{id}", listingHandler.GetListing)
				})

				// Saved searches API
				r.Route("/saved-searches", func(r chi.Router) {
					r.Get("/", savedSearchHandler.List)
					r.Post("/", savedSearchHandler.Create)
				})
			})

			// Event stream (Server-Sent Events)
			r.Get("/stream/listings", handlers.ListingStreamHandler(listings, simCfg))
		})
	})

	// Create HTTP server
	httpServer := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		server: httpServer,
		router: router,
	}
}

// ListenAndServe starts the HTTP server
func (s *Server) ListenAndServe() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Router exposes the chi mux, mainly for handler tests
func (s *Server) Router() *chi.Mux {
	return s.router
}
