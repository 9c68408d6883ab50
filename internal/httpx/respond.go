// Package httpx holds the small response helpers shared by all handlers:
// JSON encoding and the mapping from the error taxonomy to HTTP status
// codes.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"ai-care-backend/internal/schema"
	"ai-care-backend/internal/tabular"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error      string              `json:"error"`
	Violations []tabular.Violation `json:"violations,omitempty"`
}

// Error maps a domain error to its HTTP status. Validation failures carry
// the full violation list so clients see every rejected field at once.
func Error(w http.ResponseWriter, err error) {
	var verr *tabular.ValidationError
	var qerr *tabular.QuotaError
	var uerr *tabular.UnavailableError

	switch {
	case errors.As(err, &verr):
		JSON(w, http.StatusUnprocessableEntity, errorBody{
			Error:      "validation failed",
			Violations: verr.Violations,
		})
	case errors.Is(err, tabular.ErrImmutableRecord):
		JSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, schema.ErrUnknownTable):
		JSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	case errors.As(err, &qerr):
		JSON(w, http.StatusTooManyRequests, errorBody{Error: err.Error()})
	case errors.As(err, &uerr):
		JSON(w, http.StatusServiceUnavailable, errorBody{Error: err.Error()})
	default:
		JSON(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
	}
}

// BadRequest reports a malformed request body or query string.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorBody{Error: msg})
}
