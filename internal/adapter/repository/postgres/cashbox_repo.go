package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbox/internal/usecase"
)

// CashBoxRepository implements usecase.CashBoxRepository.
type CashBoxRepository struct {
	pool dbPool
}

// NewCashBoxRepository creates a new CashBoxRepository.
func NewCashBoxRepository(pool *pgxpool.Pool) *CashBoxRepository {
	return newCashBoxRepository(pool)
}

func newCashBoxRepository(pool dbPool) *CashBoxRepository {
	return &CashBoxRepository{pool: pool}
}

// Create inserts the box header. Entries are appended separately.
func (r *CashBoxRepository) Create(ctx context.Context, tx usecase.Transaction, box *domain.CashBox) error {
	params := generated.CreateCashboxParams{
		ID:                  box.ID,
		CollectorID:         box.CollectorID,
		ServiceType:         box.ServiceType,
		WorkDate:            workDateToPgDate(box.WorkDate),
		Status:              string(box.Status),
		OpeningCash:         decimalToNumeric(box.OpeningFloat.Cash),
		OpeningYape:         decimalToNumeric(box.OpeningFloat.Digital.Yape),
		OpeningPlin:         decimalToNumeric(box.OpeningFloat.Digital.Plin),
		OpeningBankTransfer: decimalToNumeric(box.OpeningFloat.Digital.BankTransfer),
		OpeningOther:        decimalToNumeric(box.OpeningFloat.Digital.Other),
		OpenedAt:            timeToPgTimestamptz(box.OpenedAt),
		OpenedBy:            box.OpenedBy,
		RequestID:           textOrNull(box.RequestID),
		Override:            box.Override,
		ClosedAt:            timePtrToPgTimestamptz(box.ClosedAt),
		ClosedBy:            box.ClosedBy,
		ClosingNotes:        box.ClosingNotes,
		Version:             box.Version,
		UpdatedAt:           timeToPgTimestamptz(box.UpdatedAt),
	}
	if box.ClosingCounts != nil {
		params.CountedCash = decimalToNumeric(box.ClosingCounts.Cash)
		params.CountedDigital = decimalToNumeric(box.ClosingCounts.Digital)
	}

	err := queriesFor(tx).CreateCashbox(ctx, params)
	if uniqueViolation(err, constraintCashboxPK) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateBox, box.ID)
	}

	return err
}

// GetByID loads the box and its entries from one snapshot.
func (r *CashBoxRepository) GetByID(ctx context.Context, id string) (*domain.CashBox, error) {
	var box *domain.CashBox
	err := readSnapshot(ctx, r.pool, func(q *generated.Queries) error {
		row, err := q.GetCashboxByID(ctx, id)
		if err != nil {
			return err
		}
		boxes, err := loadEntries(ctx, q, []generated.Cashbox{row})
		if err != nil {
			return err
		}
		box = boxes[0]
		return nil
	})
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBoxNotFound
		}
		return nil, err
	}

	return box, nil
}

// GetByIDForUpdate locks the box row and loads its entries.
func (r *CashBoxRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.CashBox, error) {
	q := queriesFor(tx)

	row, err := q.GetCashboxByIDForUpdate(ctx, id)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrBoxNotFound
		}
		return nil, err
	}

	boxes, err := loadEntries(ctx, q, []generated.Cashbox{row})
	if err != nil {
		return nil, err
	}

	return boxes[0], nil
}

// AppendIncome inserts one income entry.
func (r *CashBoxRepository) AppendIncome(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.IncomeEntry) error {
	return queriesFor(tx).CreateIncomeEntry(ctx, generated.CreateIncomeEntryParams{
		ID:          entry.ID,
		CashboxID:   boxID,
		Seq:         entry.Seq,
		PaymentID:   entry.PaymentID,
		ClientID:    entry.ClientID,
		ClientName:  entry.ClientName,
		Channel:     string(entry.Channel),
		ServiceType: entry.ServiceType,
		Concept:     entry.Concept,
		Amount:      decimalToNumeric(entry.Amount),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
	})
}

// AppendExpense inserts one expense entry.
func (r *CashBoxRepository) AppendExpense(ctx context.Context, tx usecase.Transaction, boxID string, entry domain.ExpenseEntry) error {
	return queriesFor(tx).CreateExpenseEntry(ctx, generated.CreateExpenseEntryParams{
		ID:          entry.ID,
		CashboxID:   boxID,
		Seq:         entry.Seq,
		Concept:     entry.Concept,
		ServiceType: entry.ServiceType,
		Description: entry.Description,
		Amount:      decimalToNumeric(entry.Amount),
		CreatedAt:   timeToPgTimestamptz(entry.CreatedAt),
	})
}

// DeleteExpense removes an expense entry. Deleting a missing entry is not an
// error.
func (r *CashBoxRepository) DeleteExpense(ctx context.Context, tx usecase.Transaction, boxID, expenseID string) error {
	_, err := queriesFor(tx).DeleteExpenseEntry(ctx, generated.DeleteExpenseEntryParams{
		CashboxID: boxID,
		ID:        expenseID,
	})
	return err
}

// UpdateState writes the box header if nobody bumped the version since it
// was loaded.
func (r *CashBoxRepository) UpdateState(ctx context.Context, tx usecase.Transaction, box *domain.CashBox, expectedVersion int64) error {
	params := generated.UpdateCashboxStateParams{
		ID:              box.ID,
		Status:          string(box.Status),
		ClosedAt:        timePtrToPgTimestamptz(box.ClosedAt),
		ClosedBy:        box.ClosedBy,
		ClosingNotes:    box.ClosingNotes,
		Version:         box.Version,
		UpdatedAt:       timeToPgTimestamptz(box.UpdatedAt),
		ExpectedVersion: expectedVersion,
	}
	if box.ClosingCounts != nil {
		params.CountedCash = decimalToNumeric(box.ClosingCounts.Cash)
		params.CountedDigital = decimalToNumeric(box.ClosingCounts.Digital)
	}

	n, err := queriesFor(tx).UpdateCashboxState(ctx, params)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s at version %d", domain.ErrVersionConflict, box.ID, expectedVersion)
	}

	return nil
}

// List returns matching boxes with entries, newest work date first.
func (r *CashBoxRepository) List(ctx context.Context, filter domain.BoxFilter) ([]*domain.CashBox, error) {
	params := generated.ListCashboxesParams{
		CollectorID: textOrNull(filter.CollectorID),
		ServiceType: textOrNull(filter.ServiceType),
		FromDate:    datePtrToPgDate(filter.Range.From),
		ToDate:      datePtrToPgDate(filter.Range.To),
		Limit:       listLimit(filter.Limit, usecase.MaxListLimit),
	}
	if filter.Status != nil {
		params.Status = textOrNull(string(*filter.Status))
	}

	var boxes []*domain.CashBox
	err := readSnapshot(ctx, r.pool, func(q *generated.Queries) error {
		rows, err := q.ListCashboxes(ctx, params)
		if err != nil {
			return err
		}
		boxes, err = loadEntries(ctx, q, rows)
		return err
	})
	if err != nil {
		return nil, err
	}

	return boxes, nil
}

// loadEntries attaches income and expense entries, in sequence order, to the
// given box rows.
func loadEntries(ctx context.Context, q *generated.Queries, rows []generated.Cashbox) ([]*domain.CashBox, error) {
	boxes := make([]*domain.CashBox, 0, len(rows))
	if len(rows) == 0 {
		return boxes, nil
	}

	ids := make([]string, 0, len(rows))
	byID := make(map[string]*domain.CashBox, len(rows))
	for _, row := range rows {
		box := rowToCashBox(row)
		boxes = append(boxes, box)
		ids = append(ids, box.ID)
		byID[box.ID] = box
	}

	incomes, err := q.ListIncomeEntriesByCashboxIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range incomes {
		box := byID[row.CashboxID]
		box.IncomeEntries = append(box.IncomeEntries, domain.IncomeEntry{
			ID:          row.ID,
			Seq:         row.Seq,
			PaymentID:   row.PaymentID,
			ClientID:    row.ClientID,
			ClientName:  row.ClientName,
			Channel:     domain.Channel(row.Channel),
			ServiceType: row.ServiceType,
			Concept:     row.Concept,
			Amount:      numericToDecimal(row.Amount),
			CreatedAt:   row.CreatedAt.Time,
		})
	}

	expenses, err := q.ListExpenseEntriesByCashboxIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, row := range expenses {
		box := byID[row.CashboxID]
		box.ExpenseEntries = append(box.ExpenseEntries, domain.ExpenseEntry{
			ID:          row.ID,
			Seq:         row.Seq,
			Concept:     row.Concept,
			ServiceType: row.ServiceType,
			Description: row.Description,
			Amount:      numericToDecimal(row.Amount),
			CreatedAt:   row.CreatedAt.Time,
		})
	}

	return boxes, nil
}

func rowToCashBox(row generated.Cashbox) *domain.CashBox {
	box := &domain.CashBox{
		ID:          row.ID,
		CollectorID: row.CollectorID,
		ServiceType: row.ServiceType,
		WorkDate:    domain.WorkDate(row.WorkDate.Time),
		Status:      domain.BoxStatus(row.Status),
		OpeningFloat: domain.ChannelAmounts{
			Cash: numericToDecimal(row.OpeningCash),
			Digital: domain.DigitalAmounts{
				Yape:         numericToDecimal(row.OpeningYape),
				Plin:         numericToDecimal(row.OpeningPlin),
				BankTransfer: numericToDecimal(row.OpeningBankTransfer),
				Other:        numericToDecimal(row.OpeningOther),
			},
		},
		OpenedAt:       row.OpenedAt.Time,
		OpenedBy:       row.OpenedBy,
		RequestID:      row.RequestID.String,
		Override:       row.Override,
		ClosedAt:       pgTimestamptzToPtr(row.ClosedAt),
		ClosedBy:       row.ClosedBy,
		ClosingNotes:   row.ClosingNotes,
		Version:        row.Version,
		UpdatedAt:      row.UpdatedAt.Time,
		IncomeEntries:  []domain.IncomeEntry{},
		ExpenseEntries: []domain.ExpenseEntry{},
	}
	if row.CountedCash.Valid || row.CountedDigital.Valid {
		box.ClosingCounts = &domain.ClosingCounts{
			Cash:    numericToDecimal(row.CountedCash),
			Digital: numericToDecimal(row.CountedDigital),
		}
	}

	return box
}
