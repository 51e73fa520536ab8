package domain

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownContentType indicates a content type name not present in the schema registry
	ErrUnknownContentType = errors.New("unknown content type")

	// ErrUnknownSection indicates a settings section key not present in the schema registry
	ErrUnknownSection = errors.New("unknown section")

	// ErrRecordNotFound indicates a record identifier that is not stored
	ErrRecordNotFound = errors.New("record not found")

	// ErrMissingID indicates an operation that needs an identifier received none
	ErrMissingID = errors.New("record id is required")
)

// ValidationError lists required fields left empty in a form submission.
type ValidationError struct {
	ContentType string
	Missing     []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: required fields empty: %s", e.ContentType, strings.Join(e.Missing, ", "))
}

// StoreError wraps a failed storage operation with the collection and record it targeted.
type StoreError struct {
	Op         string
	Collection string
	ID         string
	Err        error
}

func (e *StoreError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Collection, e.Err)
	}
	return fmt.Sprintf("%s %s/%s: %v", e.Op, e.Collection, e.ID, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}
