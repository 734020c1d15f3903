// internal/server/handlers/saved_search.go

package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"propstream/internal/domain/savedsearch"
)

// SavedSearchHandler handles saved-search HTTP requests. The owner id is
// fixed per deployment and passed in explicitly.
type SavedSearchHandler struct {
	store   savedsearch.Store
	ownerID string
}

// NewSavedSearchHandler creates a new saved search handler
func NewSavedSearchHandler(store savedsearch.Store, ownerID string) *SavedSearchHandler {
	return &SavedSearchHandler{
		store:   store,
		ownerID: ownerID,
	}
}

// List returns the owner's saved searches, newest-created first
func (h *SavedSearchHandler) List(w http.ResponseWriter, r *http.Request) {
	searches, err := h.store.ListByUser(r.Context(), h.ownerID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list saved searches", err)
		return
	}

	respondWithJSON(w, http.StatusOK, searches)
}

// Create validates and persists a new saved search
func (h *SavedSearchHandler) Create(w http.ResponseWriter, r *http.Request) {
	type createRequest struct {
		Name      string   `json:"name"`
		Query     string   `json:"q"`
		MinPrice  *int64   `json:"min_price"`
		MaxPrice  *int64   `json:"max_price"`
		BedsMin   *int     `json:"beds_min"`
		BathsMin  *int     `json:"baths_min"`
		CenterLat *float64 `json:"center_lat"`
		CenterLng *float64 `json:"center_lng"`
		RadiusKm  *float64 `json:"radius_km"`
	}

	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	search := savedsearch.SavedSearch{
		ID:        "search-" + uuid.NewString(),
		UserID:    h.ownerID,
		Name:      req.Name,
		Query:     req.Query,
		MinPrice:  req.MinPrice,
		MaxPrice:  req.MaxPrice,
		BedsMin:   req.BedsMin,
		BathsMin:  req.BathsMin,
		CenterLat: req.CenterLat,
		CenterLng: req.CenterLng,
		RadiusKm:  req.RadiusKm,
		CreatedAt: time.Now().UTC(),
	}

	if err := search.Validate(); err != nil {
		var verr *savedsearch.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, http.StatusBadRequest, verr.Error(), nil)
		} else {
			respondWithError(w, http.StatusBadRequest, "Invalid saved search", nil)
		}
		return
	}

	if err := h.store.Create(r.Context(), &search); err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to create saved search", err)
		return
	}

	respondWithJSON(w, http.StatusCreated, search)
}
