package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shubh-37/ideaforge/internal/ideaerr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to encode response: %v", err)
	}
}

// writeError maps an error to a JSON body with a human-readable message.
// Coded errors keep their status; everything else is a 500.
func writeError(w http.ResponseWriter, err error) {
	var e *ideaerr.Error
	if errors.As(err, &e) {
		writeJSON(w, e.Status, map[string]string{"message": e.Message})
		return
	}
	log.Printf("Unexpected error: %v", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
}
