package api

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound marks a 404 response, e.g. an insight that has not been
	// generated yet. Callers that treat absence as an empty state match on
	// this with errors.Is.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized marks a 401 response from any endpoint.
	ErrUnauthorized = errors.New("unauthorized")
)

// RequestError is the uniform failure shape for any non-2xx backend
// response. Message carries the backend-provided detail when one was
// present, else a generic fallback.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("request failed (%d): %s", e.Status, e.Message)
}

func (e *RequestError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.Status == 404
	case ErrUnauthorized:
		return e.Status == 401
	}
	return false
}
