package domain

import (
	"errors"
	"fmt"
)

// Error categories. Callers match on these with errors.Is; the specific
// errors below wrap exactly one category.
var (
	ErrValidation           = errors.New("validation error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidState         = errors.New("invalid state")
	ErrOpeningNotAuthorized = errors.New("cash box opening not authorized")
	ErrBoxNotOpen           = errors.New("cash box is not open")
	ErrDuplicateRequest     = errors.New("duplicate cash box request")
	ErrDuplicateBox         = errors.New("duplicate cash box")
	ErrPersistence          = errors.New("persistence error")
)

var (
	// Request errors
	ErrRequestNotFound   = fmt.Errorf("cash box request %w", ErrNotFound)
	ErrRequestNotPending = fmt.Errorf("%w: cash box request is not pending", ErrInvalidState)
	ErrNotRequestOwner   = fmt.Errorf("%w: only the requesting collector may cancel", ErrInvalidState)
	ErrEmptyRejection    = fmt.Errorf("%w: rejection reason is required", ErrValidation)
	ErrMissingCollector  = fmt.Errorf("%w: collector id is required", ErrValidation)
	ErrMissingWorkDate   = fmt.Errorf("%w: work date is required", ErrValidation)
	ErrMissingApprover   = fmt.Errorf("%w: processing supervisor is required", ErrValidation)

	// Cash box errors
	ErrBoxNotFound       = fmt.Errorf("cash box %w", ErrNotFound)
	ErrInvalidAmount     = fmt.Errorf("%w: amount must be positive", ErrValidation)
	ErrNegativeAmount    = fmt.Errorf("%w: amounts must not be negative", ErrValidation)
	ErrInvalidChannel    = fmt.Errorf("%w: unknown payment channel", ErrValidation)
	ErrAmountPrecision   = fmt.Errorf("%w: amounts carry at most two decimal places", ErrValidation)
	ErrAmountTooLarge    = fmt.Errorf("%w: amount exceeds the storable range", ErrValidation)
	ErrSupervisorNeeded  = fmt.Errorf("%w: supervisor identity required", ErrOpeningNotAuthorized)
	ErrNotesRequired     = fmt.Errorf("%w: closing notes are required for a critical variance", ErrValidation)
	ErrVersionConflict   = fmt.Errorf("%w: cash box was modified concurrently", ErrPersistence)
	ErrPaymentNotFound   = fmt.Errorf("payment %w", ErrNotFound)
	ErrPaymentNotPayable = fmt.Errorf("%w: payment is already collected", ErrInvalidState)
)

// Persistence wraps a storage failure so it matches ErrPersistence while
// keeping the cause available to errors.Is/As.
func Persistence(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrPersistence) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrPersistence, err)
}
