package chat

import (
	"errors"
	"fmt"
)

// ValidationError is a request rejected locally before any network call.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// AuthError means the session has no usable identity or the backend refused
// its token. It is fatal until the caller re-authenticates.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "unauthenticated: " + e.Reason
}

// TransientNetworkError wraps failures worth retrying: connection errors,
// rate limiting and server errors.
type TransientNetworkError struct {
	Op  string
	Err error
}

func (e *TransientNetworkError) Error() string {
	return fmt.Sprintf("%s: transient network error: %v", e.Op, e.Err)
}

func (e *TransientNetworkError) Unwrap() error {
	return e.Err
}

// ConflictError reports an id that already exists. It is absorbed by the
// idempotent merge path.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("message %q already exists", e.ID)
}

// ErrNoIdentity is returned by identity providers without a signed-in user.
var ErrNoIdentity = &AuthError{Reason: "no signed-in user"}

// IsAuth reports whether err is, or wraps, an AuthError.
func IsAuth(err error) bool {
	var ae *AuthError
	return errors.As(err, &ae)
}

// IsTransient reports whether err is, or wraps, a TransientNetworkError.
func IsTransient(err error) bool {
	var te *TransientNetworkError
	return errors.As(err, &te)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsConflict reports whether err is, or wraps, a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}
