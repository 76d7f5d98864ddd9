package usecase

import (
	"context"
	"time"

	"github.com/iho/cashbox/internal/domain"
)

// BoxLedger is the part of the ledger the supervisor view reads and
// delegates closure to.
type BoxLedger interface {
	ListBoxes(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error)
	Close(ctx context.Context, boxID string, counts domain.ClosingCounts, closedBy, notes string) (*domain.CashBox, error)
}

// SupervisorUseCase provides read-side rollups across every collector's
// boxes.
type SupervisorUseCase struct {
	ledger BoxLedger
}

// NewSupervisorUseCase creates a new SupervisorUseCase.
func NewSupervisorUseCase(ledger BoxLedger) *SupervisorUseCase {
	return &SupervisorUseCase{ledger: ledger}
}

// ListOpenBoxes returns every open box for asOfDate.
func (uc *SupervisorUseCase) ListOpenBoxes(ctx context.Context, asOfDate time.Time) ([]*domain.CashBox, error) {
	status := domain.BoxStatusOpen
	return uc.ledger.ListBoxes(ctx, domain.BoxFilter{
		Status: &status,
		Range:  domain.SingleDay(asOfDate),
	})
}

// ListHistory returns closed boxes within dateRange, newest work date first.
func (uc *SupervisorUseCase) ListHistory(ctx context.Context, dateRange domain.DateRange) ([]*domain.CashBox, error) {
	status := domain.BoxStatusClosed
	return uc.ledger.ListBoxes(ctx, domain.BoxFilter{
		Status: &status,
		Range:  dateRange,
	})
}

// CloseBoxByID closes any collector's box. Restricting collectors to their
// own boxes is left to the caller.
func (uc *SupervisorUseCase) CloseBoxByID(ctx context.Context, boxID string, counts domain.ClosingCounts, closedBy, notes string) (*domain.CashBox, error) {
	return uc.ledger.Close(ctx, boxID, counts, closedBy, notes)
}

// BreakdownByServiceCategory groups a box's income by service type.
func (uc *SupervisorUseCase) BreakdownByServiceCategory(box *domain.CashBox) map[string]domain.CategoryTotal {
	return domain.BreakdownByServiceCategory(box)
}

// BreakdownByChannel groups a box's income by channel.
func (uc *SupervisorUseCase) BreakdownByChannel(box *domain.CashBox) map[domain.Channel]domain.CategoryTotal {
	return domain.BreakdownByChannel(box)
}

// DailySummary aggregates every box, open or closed, of one work date.
func (uc *SupervisorUseCase) DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error) {
	boxes, err := uc.ledger.ListBoxes(ctx, domain.BoxFilter{Range: domain.SingleDay(date)})
	if err != nil {
		return nil, err
	}
	summary := domain.SummarizeDay(domain.FormatWorkDate(date), boxes)
	return &summary, nil
}
