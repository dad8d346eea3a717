package content

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound is returned when a slug or category has no matching record.
var ErrNotFound = errors.New("content: not found")

// ErrValidation is wrapped by every ValidationError.
var ErrValidation = errors.New("content: invalid query")

// ValidationError reports malformed query input. Callers treat it as absence.
type ValidationError struct {
	Field string
	Value string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("content: invalid %s %q", e.Field, e.Value)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// AuthError is returned when a preview token is missing, wrong, or rejected
// upstream. It is the only client error that maps to a client-visible status.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return "content: unauthorized: " + e.Message
}

// StatusCode returns the HTTP status the data API answers with.
func (e *AuthError) StatusCode() int { return http.StatusUnauthorized }

// UpstreamError wraps any transport, status, timeout or decode failure while
// talking to the content API.
type UpstreamError struct {
	Op     string
	Status int
	Err    error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.Status != 0 && e.Err != nil:
		return fmt.Sprintf("content: %s: status %d: %v", e.Op, e.Status, e.Err)
	case e.Status != 0:
		return fmt.Sprintf("content: %s: status %d", e.Op, e.Status)
	default:
		return fmt.Sprintf("content: %s: %v", e.Op, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsAuth reports whether err is (or wraps) an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsUpstream reports whether err is (or wraps) an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
