package captioner

import (
	"errors"
	"strings"
)

// invalidModelError reports a model id outside the catalog (HTTP 400).
type invalidModelError struct {
	id        string
	available []string
}

func (e invalidModelError) Error() string {
	return "Invalid model: " + e.id + ". Available models: " + strings.Join(e.available, ", ")
}

// ErrInvalidModel constructs an invalid-model error listing the valid ids.
func ErrInvalidModel(id string, available []string) error {
	return invalidModelError{id: id, available: available}
}

// IsInvalidModel reports whether err names an unknown model in a request.
func IsInvalidModel(err error) bool {
	var e invalidModelError
	return errors.As(err, &e)
}

// invalidImageError reports an upload that could not be decoded (HTTP 400).
type invalidImageError struct{ msg string }

func (e invalidImageError) Error() string { return "invalid image: " + e.msg }

// ErrInvalidImage constructs an invalid-image error.
func ErrInvalidImage(msg string) error { return invalidImageError{msg: msg} }

// IsInvalidImage reports whether err indicates an undecodable upload.
func IsInvalidImage(err error) bool {
	var e invalidImageError
	return errors.As(err, &e)
}

type modelNotFoundError struct{ id string }

func (e modelNotFoundError) Error() string { return "model not found: " + e.id }

// ErrModelNotFound returns an error when a model id is not present (or not loaded, for Unload).
func ErrModelNotFound(id string) error { return modelNotFoundError{id: id} }

// IsModelNotFound reports whether the error indicates a missing model id.
func IsModelNotFound(err error) bool {
	var e modelNotFoundError
	return errors.As(err, &e)
}

// tooBusyError signals queue timeout/overflow for 429 mapping.
type tooBusyError struct{ modelID string }

func (e tooBusyError) Error() string { return "too busy: " + e.modelID }

// ErrTooBusy constructs a backpressure error for modelID.
func ErrTooBusy(modelID string) error { return tooBusyError{modelID: modelID} }

// IsTooBusy reports whether err indicates backpressure (return 429).
func IsTooBusy(err error) bool {
	var e tooBusyError
	return errors.As(err, &e)
}

// dependencyUnavailableError signals an unreachable or unconfigured inference
// backend so the HTTP layer can return 503 instead of 500.
type dependencyUnavailableError struct{ msg string }

func (e dependencyUnavailableError) Error() string { return e.msg }

// ErrDependencyUnavailable constructs a dependencyUnavailableError.
func ErrDependencyUnavailable(msg string) error { return dependencyUnavailableError{msg: msg} }

// IsDependencyUnavailable reports whether err indicates a missing/failed backend.
func IsDependencyUnavailable(err error) bool {
	var e dependencyUnavailableError
	return errors.As(err, &e)
}
