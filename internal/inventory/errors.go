package inventory

import "errors"

// Sentinel errors shared by the inventory ledger, the reservation engine and
// the booking workflows. Handlers translate these into HTTP status codes.
var (
	ErrNotFound          = errors.New("not found")
	ErrNotAuthorized     = errors.New("not authorized")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidInput      = errors.New("invalid input")
	ErrAlreadyConfirmed  = errors.New("booking already confirmed")
	ErrIncompleteRange   = errors.New("incomplete day range")
	ErrOutOfRange        = errors.New("date range out of availability")
)
