package gridbill

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure scenarios.
var (
	// General errors
	ErrNotFound      = errors.New("gridbill: not found")
	ErrAlreadyExists = errors.New("gridbill: already exists")
	ErrInvalidInput  = errors.New("gridbill: invalid input")

	// Routing errors
	ErrOutOfRange = errors.New("gridbill: id outside partitioned capacity")

	// Account errors
	ErrAgentNotFound    = errors.New("gridbill: agent not found")
	ErrCustomerNotFound = errors.New("gridbill: customer not found")
	ErrAdminNotFound    = errors.New("gridbill: admin not found")
	ErrCompanyNotFound  = errors.New("gridbill: company not found")

	// Meter errors
	ErrMeterNotFound  = errors.New("gridbill: meter not found")
	ErrMeterExhausted = errors.New("gridbill: meter allocation retries exhausted")

	// Ledger errors
	ErrBillNotFound        = errors.New("gridbill: bill not found")
	ErrBillSuperseded      = errors.New("gridbill: bill is no longer unpaid")
	ErrNoTarget            = errors.New("gridbill: no payment target found")
	ErrInsufficientPayment = errors.New("gridbill: tendered amount does not cover the bill")

	// Store errors
	ErrPartitionUnavailable = errors.New("gridbill: partition unavailable")
	ErrStoreClosed          = errors.New("gridbill: store is closed")
)

// ValidationError represents a validation failure with details.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("gridbill: validation failed for %s: %s", e.Field, e.Message)
}

// Unwrap makes every validation failure match ErrInvalidInput.
func (e ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// IsNotFound returns true if the error is any of the not-found class.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrAgentNotFound) ||
		errors.Is(err, ErrCustomerNotFound) ||
		errors.Is(err, ErrAdminNotFound) ||
		errors.Is(err, ErrCompanyNotFound) ||
		errors.Is(err, ErrMeterNotFound) ||
		errors.Is(err, ErrBillNotFound)
}

// IsUnavailable returns true if the error means the partition could not be
// reached. Aggregate readers use this to degrade instead of failing.
func IsUnavailable(err error) bool {
	return errors.Is(err, ErrPartitionUnavailable) ||
		errors.Is(err, ErrStoreClosed)
}
