package utils

import "errors"

var ErrorRecordNotFound = errors.New("record not found")

// Ledger mutation failures.
var (
	ErrorInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrorUnknownServiceItem = errors.New("service item not found in catalog")
	ErrorIndexOutOfRange    = errors.New("line item index out of range")
	ErrorRecordClosed       = errors.New("service record is closed")
)

// Lifecycle failures.
var (
	ErrorInvalidTransition = errors.New("status transition not allowed")
	ErrorEmptyLedger       = errors.New("service record has no line items")
)

var ErrorForbidden = errors.New("action not permitted for role")

// ErrorBusy is the only error class a caller should retry (with backoff).
// It covers both lock contention and stale-version persistence conflicts.
var ErrorBusy = errors.New("record busy, retry later")

// ErrorStaleRecord signals an optimistic-concurrency conflict on save.
// The workflow surfaces it to callers as ErrorBusy.
var ErrorStaleRecord = errors.New("record version is stale")

// ErrorInvariantViolation should be unreachable given the workflow checks.
// It is logged as a defect and the mutation rolled back, never persisted.
var ErrorInvariantViolation = errors.New("record invariant violated")

// IsRetryable reports whether the caller may retry the operation unchanged.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrorBusy)
}
