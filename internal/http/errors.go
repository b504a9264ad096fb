// Package httpapi exposes the HTTP API layer of the simulator.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/fairyhunter13/supply-chain-pipeline-simulator/internal/pipeline"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Kind    string `json:"kind,omitempty"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSONError(w, status, jsonError{Error: message, Details: details})
}

func writeJSONError(w http.ResponseWriter, status int, payload jsonError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeRunError maps pipeline error kinds onto HTTP statuses.
func writeRunError(w http.ResponseWriter, err error) {
	kind := pipeline.KindOf(err)
	status, message := http.StatusInternalServerError, "internal_error"
	switch {
	case errors.Is(err, pipeline.ErrConfiguration):
		status, message = http.StatusUnprocessableEntity, "configuration_error"
	case errors.Is(err, pipeline.ErrInvalidInput):
		status, message = http.StatusBadRequest, "validation_error"
	case kind == "canceled":
		status, message = http.StatusServiceUnavailable, "canceled"
	}
	writeJSONError(w, status, jsonError{Error: message, Kind: kind, Details: err.Error()})
}
