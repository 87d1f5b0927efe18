package client

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dukerupert/smartfood/internal/model"
)

var (
	// ErrTransport wraps network failures and unreadable responses.
	ErrTransport = errors.New("transport error")
	// ErrRejected matches every *APIError.
	ErrRejected = errors.New("request rejected by server")
	// ErrInvalid matches drafts and patches that failed validation before
	// any request was sent.
	ErrInvalid = model.ErrInvalid

	ErrNotCached        = errors.New("item not in cache")
	ErrAlreadyCompleted = errors.New("item already completed")
	ErrMissingToken     = errors.New("authorization token required")
)

// APIError is a non-2xx answer from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Is(target error) bool {
	return target == ErrRejected
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}
