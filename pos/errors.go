package pos

import (
	"errors"
	"fmt"
)

// Checkout validation errors. None of them ever reaches the network layer.
var (
	ErrNoLocation     = errors.New("please select a warehouse")
	ErrNoCounterparty = errors.New("please select a customer")
	ErrNoCurrency     = errors.New("please select a currency")
	ErrEmptyCart      = errors.New("please add items to the cart")
)

// Payment dialog errors
var (
	ErrPaymentClosed          = errors.New("payment dialog is not open")
	ErrPaymentIncomplete      = errors.New("payment details are incomplete")
	ErrUnknownPaymentStatus   = errors.New("unknown payment status")
	ErrUnknownDisposition     = errors.New("unknown stock disposition")
	ErrPaidAmountLocked       = errors.New("paid amount is fixed by the payment status")
	ErrNegativePaidAmount     = errors.New("paid amount cannot be negative")
	ErrPaidAmountExceedsTotal = errors.New("paid amount cannot be greater than the total")
	ErrAccountMismatch        = errors.New("account does not settle this mode of payment")
)

// Cart and catalog errors
var (
	ErrNegativeQuantity = errors.New("quantity cannot be negative")
	ErrNegativePrice    = errors.New("price cannot be negative")
	ErrLineNotFound     = errors.New("item is not in the cart")
	ErrItemNotListed    = errors.New("item is not in the catalog")
)

// ErrSubmissionInFlight is returned when confirm is pressed while a previous
// submission of the same terminal is still pending.
var ErrSubmissionInFlight = errors.New("a submission is already in progress")

// ValidationError wraps a sentinel error with human-readable details
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Err.Error(), e.Details)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, format string, args ...any) error {
	return &ValidationError{Err: err, Details: fmt.Sprintf(format, args...)}
}
