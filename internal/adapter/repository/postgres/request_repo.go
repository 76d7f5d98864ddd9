package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbox/internal/usecase"
)

// RequestRepository implements usecase.RequestRepository.
type RequestRepository struct {
	pool    dbPool
	queries *generated.Queries
}

// NewRequestRepository creates a new RequestRepository.
func NewRequestRepository(pool *pgxpool.Pool) *RequestRepository {
	return newRequestRepository(pool)
}

func newRequestRepository(pool dbPool) *RequestRepository {
	return &RequestRepository{
		pool:    pool,
		queries: generated.New(pool),
	}
}

// Create inserts a pending request. The partial unique index on pending
// requests rejects a second one for the same collector and work date.
func (r *RequestRepository) Create(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error {
	err := queriesFor(tx).CreateCashboxRequest(ctx, generated.CreateCashboxRequestParams{
		ID:                    req.ID,
		CollectorID:           req.CollectorID,
		CollectorName:         req.CollectorName,
		WorkDate:              workDateToPgDate(req.WorkDate),
		RequestDate:           timeToPgTimestamptz(req.RequestDate),
		RequestedCash:         decimalToNumeric(req.RequestedInitialCash.Cash),
		RequestedYape:         decimalToNumeric(req.RequestedInitialCash.Digital.Yape),
		RequestedPlin:         decimalToNumeric(req.RequestedInitialCash.Digital.Plin),
		RequestedBankTransfer: decimalToNumeric(req.RequestedInitialCash.Digital.BankTransfer),
		RequestedOther:        decimalToNumeric(req.RequestedInitialCash.Digital.Other),
		Notes:                 req.Notes,
		Status:                string(req.Status),
		ApprovedBy:            req.ApprovedBy,
		ApprovalDate:          timePtrToPgTimestamptz(req.ApprovalDate),
		RejectionReason:       req.RejectionReason,
		CancelledAt:           timePtrToPgTimestamptz(req.CancelledAt),
		UpdatedAt:             timeToPgTimestamptz(req.UpdatedAt),
	})
	if uniqueViolation(err, constraintOnePendingRequest) {
		return fmt.Errorf("%w: collector %s already has a pending request for %s",
			domain.ErrDuplicateRequest, req.CollectorID, domain.FormatWorkDate(req.WorkDate))
	}

	return err
}

// GetByID retrieves a request by ID.
func (r *RequestRepository) GetByID(ctx context.Context, id string) (*domain.CashBoxRequest, error) {
	row, err := r.queries.GetCashboxRequestByID(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return rowToRequest(row), nil
}

// GetByIDForUpdate retrieves a request by ID with a row lock.
func (r *RequestRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashBoxRequest, error) {
	row, err := queriesFor(tx).GetCashboxRequestByIDForUpdate(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return rowToRequest(row), nil
}

// UpdateStatus persists the status and processing fields of req.
func (r *RequestRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error {
	n, err := queriesFor(tx).UpdateCashboxRequestStatus(ctx, generated.UpdateCashboxRequestStatusParams{
		ID:              req.ID,
		Status:          string(req.Status),
		ApprovedBy:      req.ApprovedBy,
		ApprovalDate:    timePtrToPgTimestamptz(req.ApprovalDate),
		RejectionReason: req.RejectionReason,
		CancelledAt:     timePtrToPgTimestamptz(req.CancelledAt),
		UpdatedAt:       timeToPgTimestamptz(req.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrRequestNotFound
	}

	return nil
}

// FindPending locks and returns the pending request for the collector and
// work date.
func (r *RequestRepository) FindPending(ctx context.Context, tx usecase.Transaction, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error) {
	row, err := queriesFor(tx).FindPendingCashboxRequest(ctx, generated.FindPendingCashboxRequestParams{
		CollectorID: collectorID,
		WorkDate:    workDateToPgDate(workDate),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return rowToRequest(row), nil
}

// FindApproved returns the most recently approved request for the collector
// and work date.
func (r *RequestRepository) FindApproved(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error) {
	row, err := r.queries.FindApprovedCashboxRequest(ctx, generated.FindApprovedCashboxRequestParams{
		CollectorID: collectorID,
		WorkDate:    workDateToPgDate(workDate),
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrRequestNotFound
		}
		return nil, err
	}

	return rowToRequest(row), nil
}

// List returns matching requests, newest submission first.
func (r *RequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.CashBoxRequest, error) {
	params := generated.ListCashboxRequestsParams{
		CollectorID: textOrNull(filter.CollectorID),
		WorkDate:    datePtrToPgDate(filter.WorkDate),
		FromDate:    datePtrToPgDate(filter.Range.From),
		ToDate:      datePtrToPgDate(filter.Range.To),
		Limit:       listLimit(filter.Limit, usecase.MaxListLimit),
	}
	if filter.Status != nil {
		params.Status = textOrNull(string(*filter.Status))
	}

	rows, err := r.queries.ListCashboxRequests(ctx, params)
	if err != nil {
		return nil, err
	}

	requests := make([]*domain.CashBoxRequest, 0, len(rows))
	for _, row := range rows {
		requests = append(requests, rowToRequest(row))
	}

	return requests, nil
}

func rowToRequest(row generated.CashboxRequest) *domain.CashBoxRequest {
	return &domain.CashBoxRequest{
		ID:            row.ID,
		CollectorID:   row.CollectorID,
		CollectorName: row.CollectorName,
		WorkDate:      domain.WorkDate(row.WorkDate.Time),
		RequestDate:   row.RequestDate.Time,
		RequestedInitialCash: domain.ChannelAmounts{
			Cash: numericToDecimal(row.RequestedCash),
			Digital: domain.DigitalAmounts{
				Yape:         numericToDecimal(row.RequestedYape),
				Plin:         numericToDecimal(row.RequestedPlin),
				BankTransfer: numericToDecimal(row.RequestedBankTransfer),
				Other:        numericToDecimal(row.RequestedOther),
			},
		},
		Notes:           row.Notes,
		Status:          domain.RequestStatus(row.Status),
		ApprovedBy:      row.ApprovedBy,
		ApprovalDate:    pgTimestamptzToPtr(row.ApprovalDate),
		RejectionReason: row.RejectionReason,
		CancelledAt:     pgTimestamptzToPtr(row.CancelledAt),
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
