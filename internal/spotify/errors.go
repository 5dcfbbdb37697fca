package spotify

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnauthorized is returned when the API rejects the access token.
	ErrUnauthorized = errors.New("spotify: unauthorized")
	// ErrNotQueueable is returned when an item kind cannot be added to the
	// playback queue.
	ErrNotQueueable = errors.New("this item can't be added to the queue")
)

// APIError is a non-2xx response from the Web API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("spotify: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("spotify: %d %s", e.Status, e.Message)
}

// Is matches ErrUnauthorized for 401 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Temporary reports whether the request may succeed when retried.
func (e *APIError) Temporary() bool {
	return e.Status == http.StatusTooManyRequests || e.Status >= http.StatusInternalServerError
}

// errorBody is the Web API error envelope: {"error":{"status":401,"message":"..."}}.
type errorBody struct {
	Error struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
	} `json:"error"`
}
