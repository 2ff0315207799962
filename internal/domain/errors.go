package domain

import "fmt"

// Error types for consistent error handling across the BFF.

// ErrNotFound indicates a resource was not found.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrExternalService indicates a failure in a remote service call.
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrCircuitOpen indicates the circuit breaker is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrValidation indicates bad input, caught before any remote call.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrUnauthorized indicates a missing, malformed or expired session token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}

// ErrForbidden indicates a valid session whose role is not allowed here.
type ErrForbidden struct {
	Action string
}

func (e *ErrForbidden) Error() string {
	return fmt.Sprintf("forbidden: %s", e.Action)
}

// ErrConflict indicates the operation is not valid in the entity's current
// state, e.g. editing a quote that is no longer editable.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrPaymentFailed indicates the payment provider declined the charge.
// The approve step has already run and must not be repeated; the caller
// may retry the payment alone.
type ErrPaymentFailed struct {
	QuoteID string
	Reason  string
}

func (e *ErrPaymentFailed) Error() string {
	return fmt.Sprintf("payment failed for quote %s: %s", e.QuoteID, e.Reason)
}

// ErrDepositUnrecorded is the "money moved, state did not" case: the
// provider confirmed the charge but the follow-up call recording the
// deposit failed. Requires manual support intervention; never retried
// automatically.
type ErrDepositUnrecorded struct {
	QuoteID         string
	PaymentIntentID string
	Err             error
}

func (e *ErrDepositUnrecorded) Error() string {
	return fmt.Sprintf("payment succeeded but deposit was not recorded for quote %s (intent %s): %v",
		e.QuoteID, e.PaymentIntentID, e.Err)
}

func (e *ErrDepositUnrecorded) Unwrap() error {
	return e.Err
}
