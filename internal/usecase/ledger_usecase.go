package usecase

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrInconsistentLedger is returned when stored boxes break the open/closed invariants.
	ErrInconsistentLedger = errors.New("ledger is inconsistent")
)

// LedgerUseCase handles ledger-wide operations.
type LedgerUseCase struct {
	ledgerRepo LedgerRepository
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		ledgerRepo: ledgerRepo,
	}
}

// CheckConsistency verifies that every open box is free of closing counts,
// every closed box carries them and no entry has a non-positive amount.
func (uc *LedgerUseCase) CheckConsistency(ctx context.Context) (bool, error) {
	if _, err := uc.Stats(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Stats returns the raw invariant counters. The error wraps
// ErrInconsistentLedger when any counter is non-zero.
func (uc *LedgerUseCase) Stats(ctx context.Context) (ConsistencyStats, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	stats, err := uc.ledgerRepo.CheckConsistency(ctx)
	if err != nil {
		return stats, storageErr(err)
	}

	if stats.OpenWithCounts > 0 || stats.ClosedWithoutCounts > 0 || stats.NonPositiveEntries > 0 {
		return stats, fmt.Errorf(
			"%w: open_with_counts=%d closed_without_counts=%d non_positive_entries=%d",
			ErrInconsistentLedger,
			stats.OpenWithCounts,
			stats.ClosedWithoutCounts,
			stats.NonPositiveEntries,
		)
	}

	return stats, nil
}
