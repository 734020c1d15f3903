// internal/server/handlers/listing.go

package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"propstream/internal/adapter/storage"
	"propstream/internal/config"
	"propstream/internal/domain/listing"
	"propstream/internal/service/search"
)

// ListingHandler handles listing search HTTP requests. All parameter
// validation happens here; the engine only ever sees valid input.
type ListingHandler struct {
	engine *search.Engine
	cache  *storage.SearchCache
	cfg    config.SearchConfig
}

// NewListingHandler creates a new listing handler. cache may be nil.
func NewListingHandler(engine *search.Engine, cache *storage.SearchCache, cfg config.SearchConfig) *ListingHandler {
	return &ListingHandler{
		engine: engine,
		cache:  cache,
		cfg:    cfg,
	}
}

// SearchListings returns the page of listings matching the structural
// filters, as { items, total }
func (h *ListingHandler) SearchListings(w http.ResponseWriter, r *http.Request) {
	cacheKey := h.cache.Key("listings", r.URL.RawQuery)
	if body, ok := h.cache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	filter, err := h.parseFilter(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	result, err := h.engine.Search(r.Context(), filter)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to search listings", err)
		return
	}

	respondWithCachedJSON(w, r, h.cache, cacheKey, result)
}

// NearbyListings returns the listings within radius_km of the given
// center, nearest first, each annotated with its distance
func (h *ListingHandler) NearbyListings(w http.ResponseWriter, r *http.Request) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr == "" || lngStr == "" {
		respondWithError(w, http.StatusBadRequest, "lat and lng are required", nil)
		return
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lat must be a number", nil)
		return
	}

	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "lng must be a number", nil)
		return
	}

	radius := h.cfg.DefaultRadiusKm
	if radiusStr := r.URL.Query().Get("radius_km"); radiusStr != "" {
		radius, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radius < 0 {
			respondWithError(w, http.StatusBadRequest, "radius_km must be a non-negative number", nil)
			return
		}
	}

	limit, err := h.parseLimit(r, h.cfg.NearbyDefaultLimit)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error(), nil)
		return
	}

	cacheKey := h.cache.Key("listings/nearby", r.URL.RawQuery)
	if body, ok := h.cache.Get(r.Context(), cacheKey); ok {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
		return
	}

	nearby, err := h.engine.Nearby(r.Context(), lat, lng, radius, limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to find nearby listings", err)
		return
	}

	respondWithCachedJSON(w, r, h.cache, cacheKey, nearby)
}

// GetListing returns a single listing by id
func (h *ListingHandler) GetListing(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		respondWithError(w, http.StatusBadRequest, "Missing listing ID", nil)
		return
	}

	l, err := h.engine.GetListing(r.Context(), id)
	if err != nil {
		if errors.Is(err, listing.ErrNotFound) {
			respondWithError(w, http.StatusNotFound, "Listing not found", nil)
		} else {
			respondWithError(w, http.StatusInternalServerError, "Failed to get listing", err)
		}
		return
	}

	respondWithJSON(w, http.StatusOK, l)
}

// parseFilter validates and builds the structural search filter
func (h *ListingHandler) parseFilter(r *http.Request) (listing.Filter, error) {
	filter := listing.Filter{
		Query: r.URL.Query().Get("q"),
		Page:  1,
	}

	var err error
	if filter.MinPrice, err = parseOptionalInt64(r, "min_price"); err != nil {
		return listing.Filter{}, err
	}
	if filter.MaxPrice, err = parseOptionalInt64(r, "max_price"); err != nil {
		return listing.Filter{}, err
	}
	if filter.BedsMin, err = parseOptionalInt(r, "beds_min"); err != nil {
		return listing.Filter{}, err
	}
	if filter.BathsMin, err = parseOptionalInt(r, "baths_min"); err != nil {
		return listing.Filter{}, err
	}

	if pageStr := r.URL.Query().Get("page"); pageStr != "" {
		page, err := strconv.Atoi(pageStr)
		if err != nil || page < 1 {
			return listing.Filter{}, fmt.Errorf("page must be an integer greater than or equal to 1")
		}
		filter.Page = page
	}

	if filter.Limit, err = h.parseLimit(r, h.cfg.DefaultLimit); err != nil {
		return listing.Filter{}, err
	}

	return filter, nil
}

func (h *ListingHandler) parseLimit(r *http.Request, defaultLimit int) (int, error) {
	limitStr := r.URL.Query().Get("limit")
	if limitStr == "" {
		return defaultLimit, nil
	}

	limit, err := strconv.Atoi(limitStr)
	if err != nil || limit < 1 || limit > h.cfg.MaxLimit {
		return 0, fmt.Errorf("limit must be an integer between 1 and %d", h.cfg.MaxLimit)
	}
	return limit, nil
}

func parseOptionalInt64(r *http.Request, name string) (*int64, error) {
	valueStr := r.URL.Query().Get(name)
	if valueStr == "" {
		return nil, nil
	}

	value, err := strconv.ParseInt(valueStr, 10, 64)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%s must be a non-negative number", name)
	}
	return &value, nil
}

func parseOptionalInt(r *http.Request, name string) (*int, error) {
	valueStr := r.URL.Query().Get(name)
	if valueStr == "" {
		return nil, nil
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil || value < 0 {
		return nil, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return &value, nil
}
