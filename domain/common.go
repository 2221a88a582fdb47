package domain

import (
	"context"
	"errors"
	"fmt"
)

var (
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageFailedProcessRequest = "failed to process request"
	MessageFailedGetToken       = "failed to get token"
	MessageFailedTokenInvalid   = "failed to token invalid"
	MessageSuccessSync          = "data synchronized successfully"
	MessageFailedSync           = "failed to synchronize data"

	ErrParseUUID      = errors.New("failed to parse UUID")
	ErrUserNotAllowed = errors.New("user not allowed")
	ErrTokenNotFound  = errors.New("failed to token not found")
	ErrTokenInvalid   = errors.New("token invalid")
	ErrTokenExpired   = errors.New("token expired")

	ErrNotFound       = errors.New("record not found")
	ErrNoActiveUser   = errors.New("no active user")
	ErrRemoteTimeout  = errors.New("remote call timed out")
	ErrRemoteFailure  = errors.New("remote call failed")
	ErrStorageMissing = errors.New("image storage is not configured")
)

// ValidationError is returned before any remote call is made. Message is
// safe to show to the user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// RemoteError wraps a failed call against the backing store.
type RemoteError struct {
	Op  string
	Err error
}

func NewRemoteError(op string, err error) *RemoteError {
	return &RemoteError{Op: op, Err: err}
}

func (e *RemoteError) Error() string {
	if e.Retryable() {
		return fmt.Sprintf("%s: %v: %v", e.Op, ErrRemoteTimeout, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}

// Is lets callers match on ErrRemoteFailure for every remote error and on
// ErrRemoteTimeout for the retryable ones.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemoteFailure:
		return true
	case ErrRemoteTimeout:
		return e.Retryable()
	}
	return false
}

// Retryable reports whether the call ran out of time rather than being refused.
func (e *RemoteError) Retryable() bool {
	return errors.Is(e.Err, context.DeadlineExceeded)
}
