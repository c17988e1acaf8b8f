// Package httpapi exposes the HTTP API layer of the service.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/printloom/designer-gateway/internal/nonce"
)

// jsonError represents a generic JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(jsonError{Error: message, Details: details})
}

// nonceErrorBody is the caller-facing shape for rejected nonce requests:
// a short error label, the stable kind, a self-correction message, and for
// invalid products the set of valid alternatives.
type nonceErrorBody struct {
	Error         string            `json:"error"`
	Kind          string            `json:"kind"`
	Message       string            `json:"message,omitempty"`
	ValidProducts map[string]string `json:"validProducts,omitempty"`
	Details       json.RawMessage   `json:"details,omitempty"`
}

// WriteNonceFailure maps a nonce failure onto its transport status and body.
func WriteNonceFailure(w http.ResponseWriter, f *nonce.Failure) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(f.Kind.HTTPStatus())
	_ = json.NewEncoder(w).Encode(nonceErrorBody{
		Error:         f.Kind.Label(),
		Kind:          string(f.Kind),
		Message:       f.Message,
		ValidProducts: f.ValidProducts,
		Details:       f.Details,
	})
}
