// internal/server/handlers/respond.go

package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"propstream/internal/adapter/storage"
)

// Helper for JSON responses
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Failed to marshal response"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Like respondWithJSON, but also stores the rendered body in the search
// cache so the next identical query is served without touching the store
func respondWithCachedJSON(w http.ResponseWriter, r *http.Request, cache *storage.SearchCache, key string, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to render response", err)
		return
	}

	cache.Set(r.Context(), key, response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(response)
}

// Helper for error responses. Server errors are logged with their cause;
// the caller only ever sees the message.
func respondWithError(w http.ResponseWriter, code int, message string, err error) {
	if err != nil && code >= 500 {
		log.Printf("HTTP %d: %s: %v", code, message, err)
	}

	response := map[string]string{"error": message}

	jsonResponse, _ := json.Marshal(response)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(jsonResponse)
}
