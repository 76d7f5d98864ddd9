package usecase

import (
	"context"
	"time"

	"github.com/iho/cashbox/internal/domain"
)

// RequestRepository defines data access for cash box requests.
type RequestRepository interface {
	// Create fails with domain.ErrDuplicateRequest when a pending request
	// already exists for the same collector and work date.
	Create(ctx context.Context, tx Transaction, req *domain.CashBoxRequest) error
	GetByID(ctx context.Context, id string) (*domain.CashBoxRequest, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CashBoxRequest, error)
	// UpdateStatus persists the status and processing fields of req.
	UpdateStatus(ctx context.Context, tx Transaction, req *domain.CashBoxRequest) error
	// FindPending returns the pending request for (collector, work date) or
	// domain.ErrRequestNotFound.
	FindPending(ctx context.Context, tx Transaction, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error)
	// FindApproved returns the most recently approved request for
	// (collector, work date) or domain.ErrRequestNotFound.
	FindApproved(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error)
	// List returns matching requests ordered by request date, newest first.
	List(ctx context.Context, filter domain.RequestFilter) ([]*domain.CashBoxRequest, error)
}

// CashBoxRepository defines data access for cash boxes and their entries.
type CashBoxRepository interface {
	// Create fails with domain.ErrDuplicateBox when the id is taken.
	Create(ctx context.Context, tx Transaction, box *domain.CashBox) error
	// GetByID loads the box with its entries from a consistent snapshot.
	GetByID(ctx context.Context, id string) (*domain.CashBox, error)
	// GetByIDForUpdate locks the box row and loads its entries.
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.CashBox, error)
	AppendIncome(ctx context.Context, tx Transaction, boxID string, entry domain.IncomeEntry) error
	AppendExpense(ctx context.Context, tx Transaction, boxID string, entry domain.ExpenseEntry) error
	DeleteExpense(ctx context.Context, tx Transaction, boxID, expenseID string) error
	// UpdateState writes the box header (status, closing fields, version)
	// when the stored version still equals expectedVersion, and fails with
	// domain.ErrVersionConflict otherwise.
	UpdateState(ctx context.Context, tx Transaction, box *domain.CashBox, expectedVersion int64) error
	// List returns matching boxes with entries, newest work date first.
	List(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error)
}

// ConsistencyStats counts rows that break ledger invariants.
type ConsistencyStats struct {
	OpenWithCounts      int64
	ClosedWithoutCounts int64
	NonPositiveEntries  int64
	BoxesChecked        int64
}

// LedgerRepository defines data access for ledger-wide operations.
type LedgerRepository interface {
	CheckConsistency(ctx context.Context) (ConsistencyStats, error)
}

// OutboxRepository defines data access for outbox events.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event *domain.OutboxEvent) error
	GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error)
	DeletePublished(ctx context.Context, before time.Time) error
}

// AuditRepository defines data access for audit logs.
type AuditRepository interface {
	Create(ctx context.Context, log *domain.AuditLog) error
	CreateTx(ctx context.Context, tx Transaction, log *domain.AuditLog) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error)
	GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a claimed key so the request can be retried.
	Release(ctx context.Context, key string) error
}
