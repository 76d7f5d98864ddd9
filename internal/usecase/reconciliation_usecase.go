package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
)

// ReconciliationUseCase handles end-of-day reconciliation
type ReconciliationUseCase struct {
	ledger      BoxLedger
	consistency *LedgerUseCase
	thresholds  domain.VarianceThresholds
	now         func() time.Time
}

// NewReconciliationUseCase creates a new reconciliation use case
func NewReconciliationUseCase(
	ledger BoxLedger,
	consistency *LedgerUseCase,
	thresholds domain.VarianceThresholds,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		ledger:      ledger,
		consistency: consistency,
		thresholds:  thresholds,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ReconciliationResult represents the reconciliation of one closed box
type ReconciliationResult struct {
	BoxID              string
	CollectorID        string
	ServiceType        string
	ClosedBy           string
	ClosingNotes       string
	TheoreticalCash    decimal.Decimal
	TheoreticalDigital decimal.Decimal
	CountedCash        decimal.Decimal
	CountedDigital     decimal.Decimal
	CashVariance       decimal.Decimal
	DigitalVariance    decimal.Decimal
	Variance           decimal.Decimal
	VariancePct        decimal.Decimal
	Severity           domain.Severity
	IsReconciled       bool
}

// ReconcileBox compares a closed box's counts with its theoretical totals.
func (uc *ReconciliationUseCase) ReconcileBox(box *domain.CashBox) (*ReconciliationResult, error) {
	if box.IsOpen() || box.ClosingCounts == nil {
		return nil, fmt.Errorf("%w: box %s is not closed", domain.ErrInvalidState, box.ID)
	}

	totals := box.Totals()
	rec := domain.Reconcile(totals, *box.ClosingCounts, uc.thresholds)
	return &ReconciliationResult{
		BoxID:              box.ID,
		CollectorID:        box.CollectorID,
		ServiceType:        box.ServiceType,
		ClosedBy:           box.ClosedBy,
		ClosingNotes:       box.ClosingNotes,
		TheoreticalCash:    totals.TheoreticalCash,
		TheoreticalDigital: totals.TheoreticalDigital,
		CountedCash:        rec.CountedCash,
		CountedDigital:     rec.CountedDigital,
		CashVariance:       rec.CashVariance,
		DigitalVariance:    rec.DigitalVariance,
		Variance:           rec.Variance,
		VariancePct:        rec.VariancePct,
		Severity:           rec.Severity,
		IsReconciled:       rec.Variance.IsZero(),
	}, nil
}

// ReconciliationReport represents the reconciliation of one work date
type ReconciliationReport struct {
	WorkDate         string
	OpenBoxes        []string
	Discrepancies    []*ReconciliationResult
	TotalVariance    decimal.Decimal
	TotalBoxes       int
	ClosedBoxes      int
	ReconciledBoxes  int
	CriticalBoxes    int
	LedgerConsistent bool
	CheckedAt        time.Time
}

// GenerateReport reconciles every closed box of date and lists the boxes
// still open.
func (uc *ReconciliationUseCase) GenerateReport(ctx context.Context, date time.Time) (*ReconciliationReport, error) {
	boxes, err := uc.ledger.ListBoxes(ctx, domain.BoxFilter{Range: domain.SingleDay(date)})
	if err != nil {
		return nil, err
	}

	report := &ReconciliationReport{
		WorkDate:      domain.FormatWorkDate(date),
		OpenBoxes:     make([]string, 0),
		Discrepancies: make([]*ReconciliationResult, 0),
		TotalVariance: decimal.Zero,
		TotalBoxes:    len(boxes),
		CheckedAt:     uc.now(),
	}

	for _, box := range boxes {
		if box.IsOpen() {
			report.OpenBoxes = append(report.OpenBoxes, box.ID)
			continue
		}

		result, err := uc.ReconcileBox(box)
		if err != nil {
			return nil, fmt.Errorf("failed to reconcile box %s: %w", box.ID, err)
		}
		report.ClosedBoxes++
		report.TotalVariance = report.TotalVariance.Add(result.Variance)
		if result.Severity == domain.SeverityCritical {
			report.CriticalBoxes++
		}
		if result.IsReconciled {
			report.ReconciledBoxes++
		} else {
			report.Discrepancies = append(report.Discrepancies, result)
		}
	}

	if uc.consistency != nil {
		ok, err := uc.consistency.CheckConsistency(ctx)
		if err != nil && !errors.Is(err, ErrInconsistentLedger) {
			return nil, err
		}
		report.LedgerConsistent = ok
	}

	return report, nil
}
