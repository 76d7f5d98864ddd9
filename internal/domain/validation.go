package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	MaxCollectorIDLength = 64
	MaxConceptLength     = 255
	MaxNotesLength       = 2000
	MaxEntryAmount       = "1000000000" // 1 billion
	MinEntryAmount       = "0.01"

	// MoneyScale matches the NUMERIC(20,2) money columns.
	MoneyScale = 2
)

// moneyLimit is the first magnitude a NUMERIC(20,2) column cannot hold.
var moneyLimit = decimal.New(1, 18)

// ValidateMoney checks that an amount fits the money columns: no more than
// two decimal places and a magnitude below 10^18.
func ValidateMoney(name string, amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(MoneyScale)) {
		return fmt.Errorf("%w: %s is %s", ErrAmountPrecision, name, amount)
	}
	if amount.Abs().GreaterThanOrEqual(moneyLimit) {
		return fmt.Errorf("%w: %s is %s", ErrAmountTooLarge, name, amount)
	}
	return nil
}

// ValidateCollectorID validates a collector identifier. Dashes are allowed;
// box ids are parsed by locating the date.
func ValidateCollectorID(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingCollector
	}
	if id != strings.TrimSpace(id) {
		return fmt.Errorf("%w: collector id has surrounding whitespace", ErrValidation)
	}
	if len(id) > MaxCollectorIDLength {
		return fmt.Errorf("%w: collector id exceeds %d characters", ErrValidation, MaxCollectorIDLength)
	}
	return nil
}

// ValidatePositiveAmount validates an entry amount.
func ValidatePositiveAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	minAmount, _ := decimal.NewFromString(MinEntryAmount)
	if amount.LessThan(minAmount) {
		return fmt.Errorf("%w: minimum amount is %s", ErrInvalidAmount, MinEntryAmount)
	}

	maxAmount, _ := decimal.NewFromString(MaxEntryAmount)
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrValidation, MaxEntryAmount)
	}

	return ValidateMoney("amount", amount)
}

// ValidateConcept validates an expense concept.
func ValidateConcept(concept string) error {
	concept = strings.TrimSpace(concept)
	if concept == "" {
		return fmt.Errorf("%w: concept cannot be empty", ErrValidation)
	}
	if len(concept) > MaxConceptLength {
		return fmt.Errorf("%w: concept exceeds %d characters", ErrValidation, MaxConceptLength)
	}
	return nil
}

// ValidateNotes validates free-text notes.
func ValidateNotes(notes string) error {
	if len(notes) > MaxNotesLength {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, MaxNotesLength)
	}
	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int, error) {
	const MaxPageSize = 1000
	const DefaultPageSize = 50

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset, nil
}
