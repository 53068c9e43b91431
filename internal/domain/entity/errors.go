package entity

import (
	"errors"
	"fmt"
)

// Standard domain errors
var (
	ErrRateLimitExceeded = errors.New("rate limit exceeded: too many requests")
	ErrNotConfigured     = errors.New("missing service credentials")
	ErrInvalidNonce      = errors.New("invalid or expired nonce")
	ErrLogNotFound       = errors.New("chat log entry not found")
)

// ValidationError reports a user-correctable input problem. Its message is
// safe to show to the client as-is.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// UpstreamError wraps a failed call to one of the hosted services. The
// wrapped detail is logged server-side only; UserMessage is the single fixed
// string a client ever sees.
type UpstreamError struct {
	Service     string
	UserMessage string
	Err         error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s call failed: %v", e.Service, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}
