package dto

import "errors"

var (
	// ErrValidation marks request payloads the service refuses.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound is returned when a watchlist does not exist.
	ErrNotFound = errors.New("not found")
)

// ErrorResponse represents a generic error response body.
type ErrorResponse struct {
	Error string `json:"error"`
}
