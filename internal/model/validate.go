package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is wrapped by every validation failure so callers can tell a
// rejected draft apart from storage or transport errors.
var ErrInvalid = errors.New("invalid input")

// FieldError reports a single field that failed validation.
type FieldError struct {
	Field   string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *FieldError) Unwrap() error {
	return ErrInvalid
}

func fieldErr(field, msg string) error {
	return &FieldError{Field: field, Message: msg}
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fieldErr(field, "is required")
	}
	return nil
}

func optionalText(field string, v *string) error {
	if v != nil && strings.TrimSpace(*v) == "" {
		return fieldErr(field, "cannot be empty")
	}
	return nil
}

func nonNegativePrice(v *int64) error {
	if v != nil && *v < 0 {
		return fieldErr("price", "must not be negative")
	}
	return nil
}
