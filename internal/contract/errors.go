package contract

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors for the error taxonomy. Typed errors below unwrap to these.
var (
	ErrValidation  = errors.New("validation error")
	ErrUpstream    = errors.New("upstream error")
	ErrPartialItem = errors.New("partial item error")
	ErrPersistence = errors.New("persistence error")
)

// ValidationError rejects a request before any I/O happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError builds a ValidationError for field.
func NewValidationError(field, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// UpstreamErrorKind classifies hosting API failures.
type UpstreamErrorKind string

// Upstream error kinds.
const (
	UpstreamNotFound    UpstreamErrorKind = "not_found"
	UpstreamAuthFailed  UpstreamErrorKind = "auth_failed"
	UpstreamRateLimited UpstreamErrorKind = "rate_limited"
	UpstreamGeneric     UpstreamErrorKind = "generic"
)

// UpstreamError is a fatal failure talking to the hosting API.
// Status is zero for transport failures.
type UpstreamError struct {
	Status  int
	Kind    UpstreamErrorKind
	Message string
	Err     error
}

func (e *UpstreamError) Error() string {
	switch e.Kind {
	case UpstreamNotFound:
		return "repository not found"
	case UpstreamAuthFailed:
		return "authentication failed"
	case UpstreamRateLimited:
		return "rate limit exceeded"
	}
	if e.Status == 0 {
		return fmt.Sprintf("upstream error: %s", e.Message)
	}
	return fmt.Sprintf("upstream error (status %d): %s", e.Status, e.Message)
}

// Unwrap lets errors.Is match ErrUpstream.
func (e *UpstreamError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUpstream, e.Err}
	}
	return []error{ErrUpstream}
}

// Fatal reports whether the error must abort the whole fetch even when it
// happens on a single pull request detail request.
func (e *UpstreamError) Fatal() bool {
	return e.Kind == UpstreamAuthFailed || e.Kind == UpstreamRateLimited
}

// ClassifyUpstream maps an HTTP status and message to an UpstreamError.
func ClassifyUpstream(status int, message string) *UpstreamError {
	e := &UpstreamError{Status: status, Message: message, Kind: UpstreamGeneric}
	switch {
	case status == http.StatusNotFound:
		e.Kind = UpstreamNotFound
	case status == http.StatusUnauthorized:
		e.Kind = UpstreamAuthFailed
	case status == http.StatusForbidden, status == http.StatusTooManyRequests,
		strings.Contains(strings.ToLower(message), "rate limit"):
		e.Kind = UpstreamRateLimited
	}
	return e
}

// PartialItemError records a single pull request whose detail fetch failed.
// It is recovered locally by skipping the item.
type PartialItemError struct {
	Number int
	Err    error
}

func (e *PartialItemError) Error() string {
	return fmt.Sprintf("pull request #%d skipped: %v", e.Number, e.Err)
}

// Unwrap lets errors.Is match ErrPartialItem and the cause.
func (e *PartialItemError) Unwrap() []error {
	return []error{ErrPartialItem, e.Err}
}

// PersistenceError wraps a cache read or write failure.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("cache %s failed: %v", e.Op, e.Err)
}

// Unwrap lets errors.Is match ErrPersistence and the cause.
func (e *PersistenceError) Unwrap() []error {
	return []error{ErrPersistence, e.Err}
}
