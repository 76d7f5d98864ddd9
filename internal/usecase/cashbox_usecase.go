package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/metrics"
)

const totalsCachePrefix = "totals:"

// CashBoxUseCase handles the cash box ledger.
type CashBoxUseCase struct {
	txManager  TransactionManager
	boxRepo    CashBoxRepository
	gate       OpeningGate
	payments   PaymentCollector
	cache      Cache
	idGen      IDGenerator
	rec        recorder
	metrics    *metrics.Metrics
	thresholds domain.VarianceThresholds
	cacheTTL   time.Duration
	now        func() time.Time
}

// NewCashBoxUseCase creates a new CashBoxUseCase.
func NewCashBoxUseCase(
	txManager TransactionManager,
	boxRepo CashBoxRepository,
	gate OpeningGate,
	payments PaymentCollector,
	outboxRepo OutboxRepository,
	auditRepo AuditRepository,
	idGen IDGenerator,
	metrics *metrics.Metrics,
) *CashBoxUseCase {
	return &CashBoxUseCase{
		txManager:  txManager,
		boxRepo:    boxRepo,
		gate:       gate,
		payments:   payments,
		idGen:      idGen,
		rec:        recorder{outboxRepo: outboxRepo, auditRepo: auditRepo, idGen: idGen},
		metrics:    metrics,
		thresholds: domain.DefaultVarianceThresholds(),
		cacheTTL:   DefaultTotalsCacheTTL,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// WithTotalsCache enables caching of closed box totals.
func (uc *CashBoxUseCase) WithTotalsCache(cache Cache, ttl time.Duration) *CashBoxUseCase {
	uc.cache = cache
	if ttl > 0 {
		uc.cacheTTL = ttl
	}
	return uc
}

// WithVarianceThresholds sets the severity thresholds applied on close.
func (uc *CashBoxUseCase) WithVarianceThresholds(th domain.VarianceThresholds) *CashBoxUseCase {
	uc.thresholds = th
	return uc
}

// VarianceThresholds returns the thresholds applied on close.
func (uc *CashBoxUseCase) VarianceThresholds() domain.VarianceThresholds {
	return uc.thresholds
}

// OpenBoxInput represents input for opening a box. A nil OpeningFloat copies
// the approved request's requested amounts.
type OpenBoxInput struct {
	WorkDate     time.Time
	OpeningFloat *domain.ChannelAmounts
	CollectorID  string
	ServiceType  string
	OpenedBy     string
}

// IncomeInput represents a manually booked income entry.
type IncomeInput struct {
	PaymentID   string
	ClientID    string
	ClientName  string
	Channel     domain.Channel
	ServiceType string
	Concept     string
	Amount      decimal.Decimal
}

// ExpenseInput represents an expense paid from the box.
type ExpenseInput struct {
	Concept     string
	ServiceType string
	Description string
	Amount      decimal.Decimal
}

// OpenBox opens a box for a collector holding an approved request.
func (uc *CashBoxUseCase) OpenBox(ctx context.Context, input OpenBoxInput) (*domain.CashBox, error) {
	if err := domain.ValidateCollectorID(input.CollectorID); err != nil {
		return nil, err
	}
	if input.WorkDate.IsZero() {
		return nil, domain.ErrMissingWorkDate
	}

	req, err := uc.gate.ApprovedRequest(ctx, input.CollectorID, input.WorkDate)
	if err != nil {
		return nil, storageErr(err)
	}
	if req == nil {
		return nil, fmt.Errorf("%w: no approved request for %s on %s",
			domain.ErrOpeningNotAuthorized, input.CollectorID, domain.FormatWorkDate(input.WorkDate))
	}

	opening := req.RequestedInitialCash
	if input.OpeningFloat != nil {
		opening = *input.OpeningFloat
	}
	openedBy := input.OpenedBy
	if openedBy == "" {
		openedBy = input.CollectorID
	}

	now := uc.now()
	box, err := domain.NewCashBox(input.CollectorID, input.ServiceType, input.WorkDate, opening, openedBy, now)
	if err != nil {
		return nil, err
	}
	box.RequestID = req.ID

	if err := uc.create(ctx, box, domain.AuditActionBoxOpen, now); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BoxesOpened.WithLabelValues("approved").Inc()
	}
	return box, nil
}

// OpenBoxOverride opens a box without an approved request on a supervisor's
// authority. The override is flagged on the box and always audited.
func (uc *CashBoxUseCase) OpenBoxOverride(ctx context.Context, input OpenBoxInput, supervisor domain.Actor) (*domain.CashBox, error) {
	if !supervisor.CanSupervise() {
		return nil, domain.ErrSupervisorNeeded
	}

	var opening domain.ChannelAmounts
	if input.OpeningFloat != nil {
		opening = *input.OpeningFloat
	}

	now := uc.now()
	box, err := domain.NewCashBox(input.CollectorID, input.ServiceType, input.WorkDate, opening, supervisor.ID, now)
	if err != nil {
		return nil, err
	}
	box.Override = true

	ctx = domain.ContextWithActor(ctx, supervisor)
	if err := uc.create(ctx, box, domain.AuditActionBoxOpenOverride, now); err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BoxesOpened.WithLabelValues("override").Inc()
		uc.metrics.AuditLogsCreated.WithLabelValues(string(domain.AuditActionBoxOpenOverride), string(domain.AuditStatusSuccess)).Inc()
	}
	return box, nil
}

func (uc *CashBoxUseCase) create(ctx context.Context, box *domain.CashBox, action domain.AuditAction, now time.Time) error {
	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	if err := uc.boxRepo.Create(txCtx, tx, box); err != nil {
		return storageErr(err)
	}
	if err := uc.rec.event(txCtx, tx, domain.AggregateTypeBox, box.ID, domain.EventTypeBoxOpened, domain.BoxOpenedPayload(box), now); err != nil {
		return err
	}
	if err := uc.rec.audit(txCtx, tx, action, domain.ResourceTypeBox, box.ID, nil, box, now); err != nil {
		return err
	}

	return storageErr(tx.Commit(txCtx))
}

// mutate runs fn against the locked box and persists the header when fn
// changed the version.
func (uc *CashBoxUseCase) mutate(
	ctx context.Context,
	boxID, operation string,
	fn func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error,
) (*domain.CashBox, error) {
	start := time.Now()

	txCtx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	tx, err := uc.txManager.Begin(txCtx)
	if err != nil {
		return nil, storageErr(err)
	}
	defer func() { _ = tx.Rollback(txCtx) }()

	box, err := uc.boxRepo.GetByIDForUpdate(txCtx, tx, boxID)
	if err != nil {
		return nil, storageErr(err)
	}
	prevVersion := box.Version

	now := uc.now()
	if err := fn(txCtx, tx, box, now); err != nil {
		uc.countError(operation, err)
		return nil, err
	}

	if box.Version != prevVersion {
		if err := uc.boxRepo.UpdateState(txCtx, tx, box, prevVersion); err != nil {
			return nil, storageErr(err)
		}
	}

	if err := tx.Commit(txCtx); err != nil {
		return nil, storageErr(err)
	}

	if uc.metrics != nil {
		uc.metrics.BoxOperationDur.WithLabelValues(operation).Observe(time.Since(start).Seconds())
	}
	return box, nil
}

// AddIncome appends an income entry to an open box.
func (uc *CashBoxUseCase) AddIncome(ctx context.Context, boxID string, input IncomeInput) (*domain.IncomeEntry, error) {
	var added domain.IncomeEntry
	_, err := uc.mutate(ctx, boxID, "add_income", func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error {
		entry, err := box.AddIncome(domain.IncomeEntry{
			ID:          uc.idGen.Generate(),
			PaymentID:   input.PaymentID,
			ClientID:    input.ClientID,
			ClientName:  input.ClientName,
			Amount:      input.Amount,
			Channel:     input.Channel,
			ServiceType: input.ServiceType,
			Concept:     input.Concept,
		}, now)
		if err != nil {
			return err
		}
		added = entry
		return uc.persistIncome(ctx, tx, box, entry, now)
	})
	if err != nil {
		return nil, err
	}

	uc.observeIncome(added)
	return &added, nil
}

// CollectPayment marks a payment collected through the payment collaborator
// and books it as income while the box is locked. A collaborator failure
// leaves both the payment and the box unchanged.
func (uc *CashBoxUseCase) CollectPayment(ctx context.Context, boxID string, input CollectionInput) (*domain.IncomeEntry, error) {
	if input.PaymentID == "" {
		return nil, fmt.Errorf("%w: payment id is required", domain.ErrValidation)
	}
	if err := domain.ValidatePositiveAmount(input.Amount); err != nil {
		return nil, err
	}
	if !input.Channel.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidChannel, input.Channel)
	}

	var added domain.IncomeEntry
	_, err := uc.mutate(ctx, boxID, "collect_payment", func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error {
		if !box.IsOpen() {
			return domain.ErrBoxNotOpen
		}
		if input.ServiceType == "" {
			input.ServiceType = box.ServiceType
		}

		record, err := uc.payments.RecordCollection(ctx, tx, input)
		if err != nil {
			return storageErr(err)
		}

		entry, err := box.AddIncome(record.IncomeEntry(uc.idGen.Generate()), now)
		if err != nil {
			return err
		}
		added = entry
		return uc.persistIncome(ctx, tx, box, entry, now)
	})
	if err != nil {
		return nil, err
	}

	uc.observeIncome(added)
	return &added, nil
}

func (uc *CashBoxUseCase) persistIncome(ctx context.Context, tx Transaction, box *domain.CashBox, entry domain.IncomeEntry, now time.Time) error {
	if err := uc.boxRepo.AppendIncome(ctx, tx, box.ID, entry); err != nil {
		return storageErr(err)
	}
	return uc.rec.event(ctx, tx, domain.AggregateTypeBox, box.ID, domain.EventTypeIncomeAdded, domain.IncomeAddedPayload(box.ID, entry), now)
}

func (uc *CashBoxUseCase) observeIncome(entry domain.IncomeEntry) {
	if uc.metrics == nil {
		return
	}
	uc.metrics.IncomeEntries.WithLabelValues(string(entry.Channel)).Inc()
	uc.metrics.EntryAmount.WithLabelValues("income").Observe(entry.Amount.InexactFloat64())
}

// AddExpense appends an expense entry to an open box.
func (uc *CashBoxUseCase) AddExpense(ctx context.Context, boxID string, input ExpenseInput) (*domain.ExpenseEntry, error) {
	var added domain.ExpenseEntry
	_, err := uc.mutate(ctx, boxID, "add_expense", func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error {
		entry, err := box.AddExpense(domain.ExpenseEntry{
			ID:          uc.idGen.Generate(),
			Concept:     input.Concept,
			ServiceType: input.ServiceType,
			Description: input.Description,
			Amount:      input.Amount,
		}, now)
		if err != nil {
			return err
		}
		added = entry

		if err := uc.boxRepo.AppendExpense(ctx, tx, box.ID, entry); err != nil {
			return storageErr(err)
		}
		return uc.rec.event(ctx, tx, domain.AggregateTypeBox, box.ID, domain.EventTypeExpenseAdded, domain.ExpensePayload(box.ID, entry), now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.ExpenseEntries.Inc()
		uc.metrics.EntryAmount.WithLabelValues("expense").Observe(added.Amount.InexactFloat64())
	}
	return &added, nil
}

// RemoveExpense deletes an expense from an open box. Removing an unknown id
// is a no-op.
func (uc *CashBoxUseCase) RemoveExpense(ctx context.Context, boxID, expenseID string) error {
	_, err := uc.mutate(ctx, boxID, "remove_expense", func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error {
		var removed *domain.ExpenseEntry
		for _, e := range box.ExpenseEntries {
			if e.ID == expenseID {
				found := e
				removed = &found
				break
			}
		}

		ok, err := box.RemoveExpense(expenseID, now)
		if err != nil || !ok {
			return err
		}

		if err := uc.boxRepo.DeleteExpense(ctx, tx, box.ID, expenseID); err != nil {
			return storageErr(err)
		}
		if err := uc.rec.event(ctx, tx, domain.AggregateTypeBox, box.ID, domain.EventTypeExpenseRemoved, domain.ExpensePayload(box.ID, *removed), now); err != nil {
			return err
		}
		return uc.rec.audit(ctx, tx, domain.AuditActionExpenseRemove, domain.ResourceTypeBox, box.ID, removed, nil, now)
	})
	return err
}

// Close records the counted totals and closes the box.
func (uc *CashBoxUseCase) Close(ctx context.Context, boxID string, counts domain.ClosingCounts, closedBy, notes string) (*domain.CashBox, error) {
	var rec domain.Reconciliation
	box, err := uc.mutate(ctx, boxID, "close", func(ctx context.Context, tx Transaction, box *domain.CashBox, now time.Time) error {
		before := box.Clone()
		if err := box.Close(counts, closedBy, notes, uc.thresholds, now); err != nil {
			return err
		}
		rec = domain.Reconcile(box.Totals(), counts, uc.thresholds)

		if err := uc.rec.event(ctx, tx, domain.AggregateTypeBox, box.ID, domain.EventTypeBoxClosed, domain.BoxClosedPayload(box, rec), now); err != nil {
			return err
		}
		return uc.rec.audit(ctx, tx, domain.AuditActionBoxClose, domain.ResourceTypeBox, box.ID, before, box, now)
	})
	if err != nil {
		return nil, err
	}

	if uc.metrics != nil {
		uc.metrics.BoxesClosed.WithLabelValues(string(rec.Severity)).Inc()
		uc.metrics.CloseVariance.Observe(rec.Variance.Abs().InexactFloat64())
	}

	uc.cacheTotals(ctx, box.ID, box.Totals().WithThresholds(uc.thresholds))
	return box, nil
}

// GetBox returns a box with its entries in insertion order.
func (uc *CashBoxUseCase) GetBox(ctx context.Context, boxID string) (*domain.CashBox, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	box, err := uc.boxRepo.GetByID(ctx, boxID)
	if err != nil {
		return nil, storageErr(err)
	}
	return box, nil
}

// ListBoxes returns boxes matching filter, newest work date first.
func (uc *CashBoxUseCase) ListBoxes(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error) {
	if err := filter.Range.Validate(); err != nil {
		return nil, err
	}
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	if filter.Limit <= 0 || filter.Limit > MaxListLimit {
		filter.Limit = MaxListLimit
	}
	boxes, err := uc.boxRepo.List(ctx, filter)
	if err != nil {
		return nil, storageErr(err)
	}
	return boxes, nil
}

// ComputeTotals derives the totals of a box without modifying it. Closed
// boxes are immutable, so their totals are served from the cache when one
// is configured.
func (uc *CashBoxUseCase) ComputeTotals(ctx context.Context, boxID string) (*domain.Totals, error) {
	if cached, ok := uc.cachedTotals(ctx, boxID); ok {
		return cached, nil
	}

	box, err := uc.GetBox(ctx, boxID)
	if err != nil {
		return nil, err
	}

	totals := box.Totals().WithThresholds(uc.thresholds)
	if !box.IsOpen() {
		uc.cacheTotals(ctx, box.ID, totals)
	}
	return &totals, nil
}

func (uc *CashBoxUseCase) cachedTotals(ctx context.Context, boxID string) (*domain.Totals, bool) {
	if uc.cache == nil {
		return nil, false
	}
	data, err := uc.cache.Get(ctx, totalsCachePrefix+boxID)
	if err != nil || data == nil {
		uc.countCache("miss")
		return nil, false
	}
	var totals domain.Totals
	if err := json.Unmarshal(data, &totals); err != nil {
		uc.countCache("miss")
		return nil, false
	}
	uc.countCache("hit")
	return &totals, true
}

// cacheTotals is best effort; the database remains the source of truth.
func (uc *CashBoxUseCase) cacheTotals(ctx context.Context, boxID string, totals domain.Totals) {
	if uc.cache == nil {
		return
	}
	data, err := json.Marshal(totals)
	if err != nil {
		return
	}
	_ = uc.cache.Set(ctx, totalsCachePrefix+boxID, data, uc.cacheTTL)
}

func (uc *CashBoxUseCase) countCache(result string) {
	if uc.metrics != nil {
		uc.metrics.CacheHits.WithLabelValues(result).Inc()
	}
}

func (uc *CashBoxUseCase) countError(operation string, err error) {
	if uc.metrics == nil {
		return
	}
	kind := "other"
	for _, c := range domainCategories {
		if errors.Is(err, c) {
			kind = c.Error()
			break
		}
	}
	uc.metrics.BoxErrors.WithLabelValues(operation, kind).Inc()
}
