package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/metrics"
)

// RequestUseCase manages the opening request workflow.
type RequestUseCase struct {
	txManager   TransactionManager
	requestRepo RequestRepository
	idGen       IDGenerator
	rec         recorder
	metrics     *metrics.Metrics
	now         func() time.Time
}

// NewRequestUseCase creates a new RequestUseCase.
func NewRequestUseCase(
	txManager TransactionManager,
	requestRepo RequestRepository,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *RequestUseCase {
	return &RequestUseCase{
		txManager:   txManager,
		requestRepo: requestRepo,
		idGen:       idGen,
		rec:         recorder{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		metrics:     metrics,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SubmitRequestInput represents input for submitting an opening request.
type SubmitRequestInput struct {
	WorkDate             time.Time
	CollectorID          string
	CollectorName        string
	Notes                string
	RequestedInitialCash domain.ChannelAmounts
}

// SubmitRequest creates a pending request.
func (uc *RequestUseCase) SubmitRequest(ctx context.Context, input SubmitRequestInput) (*domain.CashBoxRequest, error) {
	now := uc.now()
	req, err := domain.NewCashBoxRequest(
		uc.idGen.Generate(),
		input.CollectorID,
		input.CollectorName,
		input.WorkDate,
		input.RequestedInitialCash,
		input.Notes,
		now,
	)
	if err != nil {
		return nil, err
	}

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if _, err := uc.requestRepo.FindPending(txCtx, tx, req.CollectorID, req.WorkDate); err == nil {
		return nil, domain.ErrDuplicateRequest
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, storageErr(err)
	}

	if err := uc.requestRepo.Create(txCtx, tx, req); err != nil {
		return nil, storageErr(err)
	}

	if err := uc.rec.event(txCtx, tx, domain.AggregateTypeRequest, req.ID, domain.EventTypeRequestSubmitted, domain.RequestEventPayload(req), now); err != nil {
		return nil, err
	}
	if err := uc.rec.audit(txCtx, tx, domain.AuditActionRequestSubmit, domain.ResourceTypeRequest, req.ID, nil, req, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.RequestsSubmitted.Inc()
	}

	return req, nil
}

// Approve moves a pending request to approved.
func (uc *RequestUseCase) Approve(ctx context.Context, requestID, approvedBy string) (*domain.CashBoxRequest, error) {
	return uc.transition(ctx, requestID, domain.AuditActionRequestApprove, domain.EventTypeRequestApproved,
		func(req *domain.CashBoxRequest, now time.Time) error {
			return req.Approve(approvedBy, now)
		})
}

// Reject moves a pending request to rejected. A blank reason fails with a
// validation error and leaves the request pending.
func (uc *RequestUseCase) Reject(ctx context.Context, requestID, reason, rejectedBy string) (*domain.CashBoxRequest, error) {
	return uc.transition(ctx, requestID, domain.AuditActionRequestReject, domain.EventTypeRequestRejected,
		func(req *domain.CashBoxRequest, now time.Time) error {
			return req.Reject(reason, rejectedBy, now)
		})
}

// Cancel withdraws a pending request on behalf of its collector.
func (uc *RequestUseCase) Cancel(ctx context.Context, requestID, collectorID string) (*domain.CashBoxRequest, error) {
	return uc.transition(ctx, requestID, domain.AuditActionRequestCancel, domain.EventTypeRequestCancelled,
		func(req *domain.CashBoxRequest, now time.Time) error {
			return req.Cancel(collectorID, now)
		})
}

func (uc *RequestUseCase) transition(
	ctx context.Context,
	requestID string,
	action domain.AuditAction,
	eventType string,
	apply func(*domain.CashBoxRequest, time.Time) error,
) (*domain.CashBoxRequest, error) {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	req, err := uc.requestRepo.GetByIDForUpdate(txCtx, tx, requestID)
	if err != nil {
		return nil, storageErr(err)
	}
	before := req.Clone()

	now := uc.now()
	if err := apply(req, now); err != nil {
		return nil, err
	}

	if err := uc.requestRepo.UpdateStatus(txCtx, tx, req); err != nil {
		return nil, storageErr(err)
	}

	if err := uc.rec.event(txCtx, tx, domain.AggregateTypeRequest, req.ID, eventType, domain.RequestEventPayload(req), now); err != nil {
		return nil, err
	}
	if err := uc.rec.audit(txCtx, tx, action, domain.ResourceTypeRequest, req.ID, before, req, now); err != nil {
		return nil, err
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.RequestsProcessed.WithLabelValues(string(req.Status)).Inc()
		uc.metrics.AuditLogsCreated.WithLabelValues(string(action), string(domain.AuditStatusSuccess)).Inc()
	}

	return req, nil
}

// GetRequest returns a request by id.
func (uc *RequestUseCase) GetRequest(ctx context.Context, requestID string) (*domain.CashBoxRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	req, err := uc.requestRepo.GetByID(ctx, requestID)
	return req, storageErr(err)
}

// ListPending returns every pending request, newest first.
func (uc *RequestUseCase) ListPending(ctx context.Context) ([]*domain.CashBoxRequest, error) {
	status := domain.RequestStatusPending
	return uc.list(ctx, domain.RequestFilter{Status: &status})
}

// ListForCollector returns a collector's requests submitted inside dateRange,
// newest first. A nil range lists everything.
func (uc *RequestUseCase) ListForCollector(ctx context.Context, collectorID string, dateRange *domain.DateRange) ([]*domain.CashBoxRequest, error) {
	if err := domain.ValidateCollectorID(collectorID); err != nil {
		return nil, err
	}
	filter := domain.RequestFilter{CollectorID: collectorID}
	if dateRange != nil {
		if err := dateRange.Validate(); err != nil {
			return nil, err
		}
		filter.Range = *dateRange
	}
	return uc.list(ctx, filter)
}

func (uc *RequestUseCase) list(ctx context.Context, filter domain.RequestFilter) ([]*domain.CashBoxRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	filter.Limit = MaxListLimit
	reqs, err := uc.requestRepo.List(ctx, filter)
	if err != nil {
		return nil, storageErr(err)
	}
	return reqs, nil
}

// IsApprovedForOpening reports whether an approved request exists for
// (collectorID, workDate).
func (uc *RequestUseCase) IsApprovedForOpening(ctx context.Context, collectorID string, workDate time.Time) (bool, error) {
	req, err := uc.ApprovedRequest(ctx, collectorID, workDate)
	return req != nil, err
}

// ApprovedRequest implements OpeningGate.
func (uc *RequestUseCase) ApprovedRequest(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	req, err := uc.requestRepo.FindApproved(ctx, collectorID, domain.WorkDate(workDate))
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr(err)
	}
	return req, nil
}
