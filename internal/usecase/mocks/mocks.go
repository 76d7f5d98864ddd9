package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

// MockRequestRepository is an in-memory RequestRepository. Stored requests
// are copied on the way in and out.
type MockRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*domain.CashBoxRequest

	CreateFunc       func(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error
	GetByIDFunc      func(ctx context.Context, id string) (*domain.CashBoxRequest, error)
	UpdateStatusFunc func(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error
	FindApprovedFunc func(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error)
	ListFunc         func(ctx context.Context, filter domain.RequestFilter) ([]*domain.CashBoxRequest, error)
}

func NewMockRequestRepository() *MockRequestRepository {
	return &MockRequestRepository{
		requests: make(map[string]*domain.CashBoxRequest),
	}
}

func (m *MockRequestRepository) Create(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.requests {
		if r.IsPending() && r.CollectorID == req.CollectorID && r.WorkDate.Equal(req.WorkDate) {
			return domain.ErrDuplicateRequest
		}
	}
	m.requests[req.ID] = req.Clone()
	return nil
}

func (m *MockRequestRepository) GetByID(ctx context.Context, id string) (*domain.CashBoxRequest, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if r, ok := m.requests[id]; ok {
		return r.Clone(), nil
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockRequestRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashBoxRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *MockRequestRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, req *domain.CashBoxRequest) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, req)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.requests[req.ID]; !ok {
		return domain.ErrRequestNotFound
	}
	m.requests[req.ID] = req.Clone()
	return nil
}

func (m *MockRequestRepository) FindPending(ctx context.Context, tx usecase.Transaction, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	day := domain.WorkDate(workDate)
	for _, r := range m.requests {
		if r.IsPending() && r.CollectorID == collectorID && r.WorkDate.Equal(day) {
			return r.Clone(), nil
		}
	}
	return nil, domain.ErrRequestNotFound
}

func (m *MockRequestRepository) FindApproved(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error) {
	if m.FindApprovedFunc != nil {
		return m.FindApprovedFunc(ctx, collectorID, workDate)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	day := domain.WorkDate(workDate)
	var latest *domain.CashBoxRequest
	for _, r := range m.requests {
		if r.Status != domain.RequestStatusApproved || r.CollectorID != collectorID || !r.WorkDate.Equal(day) {
			continue
		}
		if latest == nil || r.ApprovalDate.After(*latest.ApprovalDate) {
			latest = r
		}
	}
	if latest == nil {
		return nil, domain.ErrRequestNotFound
	}
	return latest.Clone(), nil
}

func (m *MockRequestRepository) List(ctx context.Context, filter domain.RequestFilter) ([]*domain.CashBoxRequest, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CashBoxRequest
	for _, r := range m.requests {
		if filter.Matches(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RequestDate.Equal(out[j].RequestDate) {
			return out[i].ID > out[j].ID
		}
		return out[i].RequestDate.After(out[j].RequestDate)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Put stores a request directly, bypassing the duplicate check.
func (m *MockRequestRepository) Put(req *domain.CashBoxRequest) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[req.ID] = req.Clone()
}

// MockCashBoxRepository is an in-memory CashBoxRepository that enforces the
// version check of UpdateState.
type MockCashBoxRepository struct {
	mu    sync.RWMutex
	boxes map[string]*domain.CashBox

	CreateFunc        func(ctx context.Context, tx usecase.Transaction, box *domain.CashBox) error
	GetByIDFunc       func(ctx context.Context, id string) (*domain.CashBox, error)
	AppendIncomeFunc  func(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.IncomeEntry) error
	AppendExpenseFunc func(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.ExpenseEntry) error
	UpdateStateFunc   func(ctx context.Context, tx usecase.Transaction, box *domain.CashBox, expectedVersion int64) error
	ListFunc          func(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error)
}

func NewMockCashBoxRepository() *MockCashBoxRepository {
	return &MockCashBoxRepository{
		boxes: make(map[string]*domain.CashBox),
	}
}

func (m *MockCashBoxRepository) Create(ctx context.Context, tx usecase.Transaction, box *domain.CashBox) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, box)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.boxes[box.ID]; ok {
		return domain.ErrDuplicateBox
	}
	m.boxes[box.ID] = box.Clone()
	return nil
}

func (m *MockCashBoxRepository) GetByID(ctx context.Context, id string) (*domain.CashBox, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.boxes[id]; ok {
		return b.Clone(), nil
	}
	return nil, domain.ErrBoxNotFound
}

func (m *MockCashBoxRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashBox, error) {
	return m.GetByID(ctx, id)
}

func (m *MockCashBoxRepository) AppendIncome(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.IncomeEntry) error {
	if m.AppendIncomeFunc != nil {
		return m.AppendIncomeFunc(ctx, tx, boxID, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[boxID]
	if !ok {
		return domain.ErrBoxNotFound
	}
	b.IncomeEntries = append(b.IncomeEntries, entry)
	return nil
}

func (m *MockCashBoxRepository) AppendExpense(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.ExpenseEntry) error {
	if m.AppendExpenseFunc != nil {
		return m.AppendExpenseFunc(ctx, tx, boxID, entry)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[boxID]
	if !ok {
		return domain.ErrBoxNotFound
	}
	b.ExpenseEntries = append(b.ExpenseEntries, entry)
	return nil
}

func (m *MockCashBoxRepository) DeleteExpense(ctx context.Context, tx usecase.Transaction, boxID, expenseID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.boxes[boxID]
	if !ok {
		return domain.ErrBoxNotFound
	}
	for i, e := range b.ExpenseEntries {
		if e.ID == expenseID {
			b.ExpenseEntries = append(b.ExpenseEntries[:i], b.ExpenseEntries[i+1:]...)
			break
		}
	}
	return nil
}

func (m *MockCashBoxRepository) UpdateState(ctx context.Context, tx usecase.Transaction, box *domain.CashBox, expectedVersion int64) error {
	if m.UpdateStateFunc != nil {
		return m.UpdateStateFunc(ctx, tx, box, expectedVersion)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.boxes[box.ID]
	if !ok {
		return domain.ErrBoxNotFound
	}
	if stored.Version != expectedVersion {
		return domain.ErrVersionConflict
	}
	header := box.Clone()
	header.IncomeEntries = stored.IncomeEntries
	header.ExpenseEntries = stored.ExpenseEntries
	m.boxes[box.ID] = header
	return nil
}

func (m *MockCashBoxRepository) List(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.CashBox
	for _, b := range m.boxes {
		if filter.Matches(b) {
			out = append(out, b.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].WorkDate.Equal(out[j].WorkDate) {
			return out[i].ID < out[j].ID
		}
		return out[i].WorkDate.After(out[j].WorkDate)
	})
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Put stores a box directly.
func (m *MockCashBoxRepository) Put(box *domain.CashBox) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boxes[box.ID] = box.Clone()
}

// MockOutboxRepository records created events.
type MockOutboxRepository struct {
	mu     sync.RWMutex
	events []*domain.OutboxEvent

	CreateFunc func(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, event)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if !e.Published {
			out = append(out, e)
		}
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.events {
		if e.ID == id {
			e.Published = true
			at := publishedAt
			e.PublishedAt = &at
		}
	}
	return nil
}

func (m *MockOutboxRepository) GetByAggregate(ctx context.Context, aggregateType, aggregateID string, limit, offset int) ([]*domain.OutboxEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.OutboxEvent
	for _, e := range m.events {
		if e.AggregateType == aggregateType && e.AggregateID == aggregateID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	return nil
}

// EventTypes returns the types of every recorded event in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	types := make([]string, 0, len(m.events))
	for _, e := range m.events {
		types = append(types, e.EventType)
	}
	return types
}

// MockAuditRepository records audit logs.
type MockAuditRepository struct {
	mu   sync.RWMutex
	logs []*domain.AuditLog

	CreateTxFunc func(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	if m.CreateTxFunc != nil {
		return m.CreateTxFunc(ctx, tx, log)
	}
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if filter.Action != "" && l.Action != filter.Action {
			continue
		}
		if filter.UserID != "" && l.UserID != filter.UserID {
			continue
		}
		out = append(out, l)
	}
	return out, nil
}

func (m *MockAuditRepository) GetByResourceID(ctx context.Context, resourceType, resourceID string) ([]*domain.AuditLog, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*domain.AuditLog
	for _, l := range m.logs {
		if l.ResourceType == resourceType && l.ResourceID == resourceID {
			out = append(out, l)
		}
	}
	return out, nil
}

// MockLedgerRepository is a mock implementation of LedgerRepository.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (usecase.ConsistencyStats, error)
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (usecase.ConsistencyStats, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return usecase.ConsistencyStats{}, nil
}

// MockCache is an in-memory Cache. TTLs are ignored.
type MockCache struct {
	mu   sync.RWMutex
	data map[string][]byte

	GetFunc func(ctx context.Context, key string) ([]byte, error)
}

func NewMockCache() *MockCache {
	return &MockCache{
		data: make(map[string][]byte),
	}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.data[key], nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// MockTransactionManager is a mock implementation of TransactionManager.
// Transactions from the default Begin are serialized: each holds a shared
// lock until it commits or rolls back, standing in for row locks.
type MockTransactionManager struct {
	lock sync.Mutex

	mu           sync.Mutex
	Transactions []*MockTransaction

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	m.lock.Lock()
	tx := &MockTransaction{release: m.lock.Unlock}
	m.mu.Lock()
	m.Transactions = append(m.Transactions, tx)
	m.mu.Unlock()
	return tx, nil
}

// Committed returns how many transactions committed.
func (m *MockTransactionManager) Committed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, tx := range m.Transactions {
		if tx.committed {
			n++
		}
	}
	return n
}

// MockTransaction is a mock implementation of Transaction. Rollback after a
// successful Commit is a no-op.
type MockTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	committed  bool
	rolledBack bool
	release    func()
}

func (m *MockTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		if err := m.CommitFunc(ctx); err != nil {
			return err
		}
	}
	m.committed = true
	m.finish()
	return nil
}

func (m *MockTransaction) Rollback(ctx context.Context) error {
	if m.committed || m.rolledBack {
		return nil
	}
	m.rolledBack = true
	m.finish()
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	return nil
}

// RolledBack reports whether the transaction ended in a rollback.
func (m *MockTransaction) RolledBack() bool {
	return m.rolledBack
}

func (m *MockTransaction) finish() {
	if m.release != nil {
		m.release()
		m.release = nil
	}
}

// MockIDGenerator is a mock implementation of IDGenerator.
type MockIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("mock-id-%d", m.counter)
}

// MockIdempotencyStore is a mock implementation of IdempotencyStore.
type MockIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewMockIdempotencyStore() *MockIdempotencyStore {
	return &MockIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *MockIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *MockIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = response
	return nil
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
