package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/iho/cashbox/internal/domain"
)

var domainCategories = []error{
	domain.ErrValidation,
	domain.ErrNotFound,
	domain.ErrInvalidState,
	domain.ErrOpeningNotAuthorized,
	domain.ErrBoxNotOpen,
	domain.ErrDuplicateRequest,
	domain.ErrDuplicateBox,
	domain.ErrPersistence,
}

// storageErr passes categorized errors through and wraps anything else,
// including context deadlines, as a persistence failure.
func storageErr(err error) error {
	if err == nil {
		return nil
	}
	for _, c := range domainCategories {
		if errors.Is(err, c) {
			return err
		}
	}
	return domain.Persistence(err)
}

// recorder writes the outbox event and audit entry that accompany a state
// change. Both writes join the caller's transaction.
type recorder struct {
	outboxRepo OutboxRepository
	auditRepo  AuditRepository
	idGen      IDGenerator
}

func (r recorder) event(ctx context.Context, tx Transaction, aggregateType, aggregateID, eventType string, payload map[string]any, now time.Time) error {
	if r.outboxRepo == nil {
		return nil
	}
	event := &domain.OutboxEvent{
		ID:            r.idGen.Generate(),
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		EventType:     eventType,
		Payload:       payload,
		CreatedAt:     now,
		Published:     false,
	}
	return storageErr(r.outboxRepo.Create(ctx, tx, event))
}

func (r recorder) audit(ctx context.Context, tx Transaction, action domain.AuditAction, resourceType, resourceID string, before, after any, now time.Time) error {
	if r.auditRepo == nil {
		return nil
	}
	auditLog := &domain.AuditLog{
		ID:           r.idGen.Generate(),
		UserID:       domain.ActorIDFromContext(ctx),
		Action:       string(action),
		ResourceType: resourceType,
		ResourceID:   resourceID,
		RequestID:    RequestIDFromContext(ctx),
		BeforeState:  domain.MarshalState(before),
		AfterState:   domain.MarshalState(after),
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    now,
	}
	return storageErr(r.auditRepo.CreateTx(ctx, tx, auditLog))
}

type requestIDKey struct{}

// ContextWithRequestID tags ctx with the transport request id recorded in
// audit entries.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id stored by ContextWithRequestID.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
