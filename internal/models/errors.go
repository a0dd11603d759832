package models

import (
	"errors"
	"fmt"
)

var (
	// ErrConfigMissing means a required secret is unconfigured. Fatal
	// misconfiguration, surfaced as HTTP 500, never retried.
	ErrConfigMissing = errors.New("server secret is not configured")

	// ErrBadSignature means a webhook body failed the HMAC check.
	// The request is dropped with 401 before any parsing or side effect.
	ErrBadSignature = errors.New("invalid webhook signature")

	// ErrDuplicateReference means a payment row for the reference already
	// exists. Treated as success by callers, never surfaced as an error.
	ErrDuplicateReference = errors.New("payment reference already recorded")
)

// GatewayError means the payment provider rejected a call or reported a
// transaction as anything other than success. Terminal for the request,
// not retried.
type GatewayError struct {
	Op     string // initialize, verify
	Status string // provider-reported transaction status, if any
	Err    error
}

func (e *GatewayError) Error() string {
	if e.Status != "" {
		return fmt.Sprintf("gateway %s: transaction status %q", e.Op, e.Status)
	}
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// RecordingError means the payment insert itself failed. This is the one
// failure that must be surfaced loudly: an unrecorded successful charge is
// silent revenue loss.
type RecordingError struct {
	Reference string
	Err       error
}

func (e *RecordingError) Error() string {
	return fmt.Sprintf("failed to record payment %s: %v", e.Reference, e.Err)
}

func (e *RecordingError) Unwrap() error { return e.Err }

// DegradedError wraps a non-critical step failure (identity linkage,
// entitlement grant, notification). It is logged at the point the caller
// decides to continue, and never changes the request outcome.
type DegradedError struct {
	Step string
	Err  error
}

func (e *DegradedError) Error() string {
	return fmt.Sprintf("degraded: %s: %v", e.Step, e.Err)
}

func (e *DegradedError) Unwrap() error { return e.Err }
