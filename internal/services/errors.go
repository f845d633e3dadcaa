package services

import (
	"errors"
	"fmt"

	"pguncle/internal/storage"
)

var (
	ErrValidation    = errors.New("validation failed")
	ErrNotFound      = errors.New("not found")
	ErrNotConfigured = errors.New("not configured")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrRateLimited   = errors.New("too many requests")
)

// Error is a classified failure whose Message is safe to show a client.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }
func (e *Error) Unwrap() error { return e.Kind }

func newError(kind error, format string, args ...interface{}) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
