package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"altd/internal/captioner"
	"altd/pkg/types"
)

// HTTPError allows services to provide an HTTP status code for an error.
type HTTPError interface {
	error
	StatusCode() int
}

// writeJSONError writes a consistent JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg, Detail: msg, Code: status})
}

// statusForError maps well-known service errors to HTTP status codes.
func statusForError(err error) int {
	var he HTTPError
	switch {
	case captioner.IsInvalidModel(err), captioner.IsInvalidImage(err):
		return http.StatusBadRequest
	case captioner.IsModelNotFound(err):
		return http.StatusNotFound
	case captioner.IsTooBusy(err):
		return http.StatusTooManyRequests
	case captioner.IsDependencyUnavailable(err):
		return http.StatusServiceUnavailable
	case errors.As(err, &he):
		return he.StatusCode()
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError writes err with its mapped status and returns the status.
func writeServiceError(w http.ResponseWriter, err error) int {
	status := statusForError(err)
	if status == http.StatusTooManyRequests {
		IncrementBackpressure("queue")
	}
	writeJSONError(w, status, err.Error())
	return status
}
