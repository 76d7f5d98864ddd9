package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

var (
	testWorkDay = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)
	testNow     = time.Date(2024, 1, 16, 9, 30, 0, 0, time.UTC)
)

var requestColumns = []string{
	"id", "collector_id", "collector_name", "work_date", "request_date",
	"requested_cash", "requested_yape", "requested_plin", "requested_bank_transfer", "requested_other",
	"notes", "status", "approved_by", "approval_date", "rejection_reason", "cancelled_at", "updated_at",
}

var cashboxColumns = []string{
	"id", "collector_id", "service_type", "work_date", "status",
	"opening_cash", "opening_yape", "opening_plin", "opening_bank_transfer", "opening_other",
	"opened_at", "opened_by", "request_id", "override", "closed_at", "closed_by", "closing_notes",
	"counted_cash", "counted_digital", "version", "updated_at",
}

var paymentColumns = []string{
	"id", "client_id", "client_name", "service_type", "concept", "amount", "status", "channel", "collected_at", "created_at",
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func num(s string) pgtype.Numeric {
	return decimalToNumeric(decimal.RequireFromString(s))
}

func beginTx(t *testing.T, pool pgxmock.PgxPoolIface) usecase.Transaction {
	t.Helper()
	pool.ExpectBegin()
	tx, err := newTxManagerWithPool(pool).Begin(context.Background())
	require.NoError(t, err)
	return tx
}

func approvedRequestRow(rows *pgxmock.Rows) *pgxmock.Rows {
	approvedAt := timeToPgTimestamptz(testNow)
	return rows.AddRow(
		"R1", "C1", "Carla", workDateToPgDate(testWorkDay), timeToPgTimestamptz(testNow.Add(-time.Hour)),
		num("100"), num("0"), num("20"), num("0"), num("0"),
		"morning route", "approved", "S1", approvedAt, "", pgtype.Timestamptz{}, approvedAt,
	)
}

func TestRequestRepositoryCreateDuplicatePending(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO cashbox_requests").
		WithArgs(anyArgs(17)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintOnePendingRequest})

	req, err := domain.NewCashBoxRequest("R2", "C1", "Carla", testWorkDay, domain.CashOnly(decimal.NewFromInt(100)), "", testNow)
	require.NoError(t, err)

	err = newRequestRepository(pool).Create(context.Background(), tx, req)
	assert.ErrorIs(t, err, domain.ErrDuplicateRequest)
	assertExpectations(t, pool)
}

func TestRequestRepositoryCreateOtherUniqueViolation(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO cashbox_requests").
		WithArgs(anyArgs(17)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: "cashbox_requests_pkey"})

	req, err := domain.NewCashBoxRequest("R2", "C1", "", testWorkDay, domain.ChannelAmounts{}, "", testNow)
	require.NoError(t, err)

	err = newRequestRepository(pool).Create(context.Background(), tx, req)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrDuplicateRequest)
}

func TestRequestRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM cashbox_requests WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)

	_, err := newRequestRepository(pool).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
	assertExpectations(t, pool)
}

func TestRequestRepositoryFindApproved(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("status = 'approved'").
		WithArgs("C1", workDateToPgDate(testWorkDay)).
		WillReturnRows(approvedRequestRow(pgxmock.NewRows(requestColumns)))

	req, err := newRequestRepository(pool).FindApproved(context.Background(), "C1", testWorkDay.Add(15*time.Hour))
	require.NoError(t, err)

	assert.Equal(t, "R1", req.ID)
	assert.Equal(t, domain.RequestStatusApproved, req.Status)
	assert.Equal(t, "S1", req.ApprovedBy)
	require.NotNil(t, req.ApprovalDate)
	assert.True(t, req.ApprovalDate.Equal(testNow))
	assert.Nil(t, req.CancelledAt)
	assert.True(t, req.WorkDate.Equal(testWorkDay))
	assert.True(t, req.RequestedInitialCash.Cash.Equal(decimal.NewFromInt(100)))
	assert.True(t, req.RequestedInitialCash.DigitalTotal().Equal(decimal.NewFromInt(20)))
	assertExpectations(t, pool)
}

func TestRequestRepositoryUpdateStatusMissingRow(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE cashbox_requests").
		WithArgs(anyArgs(7)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	req := &domain.CashBoxRequest{ID: "R9", Status: domain.RequestStatusRejected, UpdatedAt: testNow}
	err := newRequestRepository(pool).UpdateStatus(context.Background(), tx, req)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestRequestRepositoryListAppliesFilter(t *testing.T) {
	pool := newMockPool(t)
	pending := domain.RequestStatusPending
	pool.ExpectQuery("FROM cashbox_requests").
		WithArgs(
			pgtype.Text{String: "pending", Valid: true},
			pgtype.Text{},
			pgtype.Date{},
			pgtype.Date{},
			pgtype.Date{},
			int32(usecase.MaxListLimit),
		).
		WillReturnRows(pgxmock.NewRows(requestColumns))

	requests, err := newRequestRepository(pool).List(context.Background(), domain.RequestFilter{Status: &pending})
	require.NoError(t, err)
	assert.Empty(t, requests)
	assertExpectations(t, pool)
}

func TestCashBoxRepositoryGetByIDReadsSnapshot(t *testing.T) {
	pool := newMockPool(t)
	boxID := domain.BoxID("general", testWorkDay, "C1")

	pool.ExpectBeginTx(readSnapshotOptions)
	pool.ExpectQuery("FROM cashboxes WHERE id").
		WithArgs(boxID).
		WillReturnRows(pgxmock.NewRows(cashboxColumns).AddRow(
			boxID, "C1", "general", workDateToPgDate(testWorkDay), "open",
			num("100"), num("0"), num("0"), num("0"), num("0"),
			timeToPgTimestamptz(testNow), "C1", pgtype.Text{String: "R1", Valid: true}, false,
			pgtype.Timestamptz{}, "", "", pgtype.Numeric{}, pgtype.Numeric{}, int64(3), timeToPgTimestamptz(testNow),
		))
	pool.ExpectQuery("FROM cashbox_income_entries").
		WithArgs([]string{boxID}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "cashbox_id", "seq", "payment_id", "client_id", "client_name", "channel", "service_type", "concept", "amount", "created_at",
		}).
			AddRow("I1", boxID, int64(1), "P1", "CL1", "Ana", "cash", "general", "water", num("50"), timeToPgTimestamptz(testNow)).
			AddRow("I2", boxID, int64(2), "P2", "CL2", "Beto", "yape", "general", "water", num("30"), timeToPgTimestamptz(testNow)))
	pool.ExpectQuery("FROM cashbox_expense_entries").
		WithArgs([]string{boxID}).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "cashbox_id", "seq", "concept", "service_type", "description", "amount", "created_at",
		}).AddRow("E1", boxID, int64(3), "fuel", "general", "", num("20"), timeToPgTimestamptz(testNow)))
	pool.ExpectCommit()

	box, err := newCashBoxRepository(pool).GetByID(context.Background(), boxID)
	require.NoError(t, err)

	assert.Equal(t, "R1", box.RequestID)
	assert.Nil(t, box.ClosingCounts)
	assert.Equal(t, int64(3), box.Version)
	require.Len(t, box.IncomeEntries, 2)
	require.Len(t, box.ExpenseEntries, 1)
	assert.Equal(t, domain.ChannelYape, box.IncomeEntries[1].Channel)

	totals := box.Totals()
	assert.True(t, totals.TheoreticalCash.Equal(decimal.NewFromInt(130)), totals.TheoreticalCash.String())
	assert.True(t, totals.TheoreticalDigital.Equal(decimal.NewFromInt(30)), totals.TheoreticalDigital.String())
	assertExpectations(t, pool)
}

func TestCashBoxRepositoryGetByIDNotFound(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBeginTx(readSnapshotOptions)
	pool.ExpectQuery("FROM cashboxes WHERE id").
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	pool.ExpectRollback()

	_, err := newCashBoxRepository(pool).GetByID(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBoxNotFound)
	assertExpectations(t, pool)
}

func TestCashBoxRepositoryCreateDuplicate(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO cashboxes").
		WithArgs(anyArgs(21)...).
		WillReturnError(&pgconn.PgError{Code: pgErrUniqueViolation, ConstraintName: constraintCashboxPK})

	box, err := domain.NewCashBox("C1", "", testWorkDay, domain.ChannelAmounts{}, "C1", testNow)
	require.NoError(t, err)

	err = newCashBoxRepository(pool).Create(context.Background(), tx, box)
	assert.ErrorIs(t, err, domain.ErrDuplicateBox)
	assertExpectations(t, pool)
}

func TestCashBoxRepositoryUpdateStateVersionConflict(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("UPDATE cashboxes").
		WithArgs(anyArgs(10)...).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	box, err := domain.NewCashBox("C1", "", testWorkDay, domain.ChannelAmounts{}, "C1", testNow)
	require.NoError(t, err)

	err = newCashBoxRepository(pool).UpdateState(context.Background(), tx, box, 4)
	assert.ErrorIs(t, err, domain.ErrVersionConflict)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	assertExpectations(t, pool)
}

func TestCashBoxRepositoryUpdateStateWritesCounts(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)

	box, err := domain.NewCashBox("C1", "", testWorkDay, domain.ChannelAmounts{}, "C1", testNow)
	require.NoError(t, err)
	box.Status = domain.BoxStatusClosed
	box.ClosingCounts = &domain.ClosingCounts{Cash: decimal.NewFromInt(95), Digital: decimal.NewFromInt(30)}
	box.ClosedAt = &testNow
	box.ClosedBy = "S1"
	box.Version = 5

	pool.ExpectExec("UPDATE cashboxes").
		WithArgs(
			box.ID, "closed", timeToPgTimestamptz(testNow), "S1", "",
			num("95"), num("30"), int64(5), pgxmock.AnyArg(), int64(4),
		).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, newCashBoxRepository(pool).UpdateState(context.Background(), tx, box, 4))
	assertExpectations(t, pool)
}

func TestPaymentCollectorRecordCollection(t *testing.T) {
	paymentRow := func(status string) *pgxmock.Rows {
		return pgxmock.NewRows(paymentColumns).AddRow(
			"P1", "CL1", "Ana", "water", "January bill", num("40"), status,
			pgtype.Text{}, pgtype.Timestamptz{}, timeToPgTimestamptz(testNow.Add(-48*time.Hour)),
		)
	}
	in := usecase.CollectionInput{
		PaymentID: "P1",
		ClientID:  "CL1",
		Channel:   domain.ChannelYape,
		Amount:    decimal.NewFromInt(40),
	}

	t.Run("marks pending payment collected", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("FROM payments WHERE id").WithArgs("P1").WillReturnRows(paymentRow("pending"))
		pool.ExpectExec("UPDATE payments").
			WithArgs("P1", pgtype.Text{String: "yape", Valid: true}, timeToPgTimestamptz(testNow)).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))

		collector := NewPaymentCollector()
		collector.now = func() time.Time { return testNow }

		rec, err := collector.RecordCollection(context.Background(), tx, in)
		require.NoError(t, err)
		assert.Equal(t, "Ana", rec.ClientName)
		assert.Equal(t, "water", rec.ServiceType)
		assert.Equal(t, "January bill", rec.Concept)
		assert.Equal(t, domain.ChannelYape, rec.Channel)
		assert.True(t, rec.Amount.Equal(decimal.NewFromInt(40)))
		assert.True(t, rec.PaidAt.Equal(testNow))
		assertExpectations(t, pool)
	})

	t.Run("already collected", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("FROM payments WHERE id").WithArgs("P1").WillReturnRows(paymentRow("collected"))

		_, err := NewPaymentCollector().RecordCollection(context.Background(), tx, in)
		assert.ErrorIs(t, err, domain.ErrPaymentNotPayable)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})

	t.Run("amount mismatch", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("FROM payments WHERE id").WithArgs("P1").WillReturnRows(paymentRow("pending"))
		pool.ExpectQuery("FROM payments WHERE id").WithArgs("P1").WillReturnRows(paymentRow("pending"))

		for _, amount := range []decimal.Decimal{decimal.NewFromInt(35), decimal.Zero} {
			wrong := in
			wrong.Amount = amount
			_, err := NewPaymentCollector().RecordCollection(context.Background(), tx, wrong)
			assert.ErrorIs(t, err, domain.ErrValidation, amount.String())
		}
	})

	t.Run("unknown payment", func(t *testing.T) {
		pool := newMockPool(t)
		tx := beginTx(t, pool)
		pool.ExpectQuery("FROM payments WHERE id").WithArgs("P1").WillReturnError(pgx.ErrNoRows)

		_, err := NewPaymentCollector().RecordCollection(context.Background(), tx, in)
		assert.ErrorIs(t, err, domain.ErrPaymentNotFound)
	})
}

func TestLedgerRepositoryCheckConsistency(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectBeginTx(readSnapshotOptions)
	pool.ExpectQuery("open_with_counts").
		WillReturnRows(pgxmock.NewRows([]string{"open_with_counts", "closed_without_counts", "non_positive_entries", "boxes_checked"}).
			AddRow(int64(1), int64(0), int64(2), int64(7)))
	pool.ExpectCommit()

	stats, err := (&LedgerRepository{pool: pool}).CheckConsistency(context.Background())
	require.NoError(t, err)
	assert.Equal(t, usecase.ConsistencyStats{OpenWithCounts: 1, NonPositiveEntries: 2, BoxesChecked: 7}, stats)
	assertExpectations(t, pool)
}

func TestLedgerRepositoryRollsBackOnError(t *testing.T) {
	pool := newMockPool(t)
	queryErr := errors.New("connection reset")
	pool.ExpectBeginTx(readSnapshotOptions)
	pool.ExpectQuery("open_with_counts").WillReturnError(queryErr)
	pool.ExpectRollback()

	_, err := (&LedgerRepository{pool: pool}).CheckConsistency(context.Background())
	assert.ErrorIs(t, err, queryErr)
	assertExpectations(t, pool)
}

func TestAuditRepositoryCreateTx(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO audit_logs").
		WithArgs(anyArgs(11)...).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	log := &domain.AuditLog{
		UserID:       "S1",
		Action:       string(domain.AuditActionBoxClose),
		ResourceType: domain.ResourceTypeBox,
		ResourceID:   "general-2024-01-16-C1",
		AfterState:   domain.JSON{"status": "closed"},
		Status:       string(domain.AuditStatusSuccess),
		CreatedAt:    testNow,
	}
	require.NoError(t, newAuditRepository(pool).CreateTx(context.Background(), tx, log))
	assert.NotEmpty(t, log.ID)
	assertExpectations(t, pool)
}

func TestBuildAuditQueryNumbersPlaceholders(t *testing.T) {
	start := testWorkDay
	query, args := buildAuditQuery(domain.AuditFilter{
		UserID:       "S1",
		ResourceType: domain.ResourceTypeBox,
		ResourceID:   "general-2024-01-16-C1",
		StartDate:    &start,
		Limit:        20,
		Offset:       40,
	})

	for _, want := range []string{
		"user_id = $1",
		"resource_type = $2",
		"resource_id = $3",
		"created_at >= $4",
		"LIMIT $5",
		"OFFSET $6",
	} {
		assert.Contains(t, query, want)
	}
	assert.Len(t, args, 6)
	assert.Less(t, strings.Index(query, "ORDER BY"), strings.Index(query, "LIMIT"))
}

func TestAuditRepositoryListDecodesState(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM audit_logs").
		WithArgs(domain.ResourceTypeRequest, "R1").
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "user_id", "action", "resource_type", "resource_id", "request_id",
			"before_state", "after_state", "status", "error_message", "created_at",
		}).AddRow(
			"A1", "S1", string(domain.AuditActionRequestApprove), domain.ResourceTypeRequest, "R1", "req-1",
			[]byte(`{"Status":"pending"}`), []byte(`{"Status":"approved"}`), "success", "", testNow,
		))

	logs, err := newAuditRepository(pool).GetByResourceID(context.Background(), domain.ResourceTypeRequest, "R1")
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "pending", logs[0].BeforeState["Status"])
	assert.Equal(t, "approved", logs[0].AfterState["Status"])
	assertExpectations(t, pool)
}

func TestOutboxRepositoryCreateMarshalsPayload(t *testing.T) {
	pool := newMockPool(t)
	tx := beginTx(t, pool)
	pool.ExpectExec("INSERT INTO outbox_events").
		WithArgs("EV1", "R1", domain.AggregateTypeRequest, domain.EventTypeRequestApproved,
			[]byte(`{"request_id":"R1"}`), timeToPgTimestamptz(testNow), false).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := newOutboxRepository(pool).Create(context.Background(), tx, &domain.OutboxEvent{
		ID:            "EV1",
		AggregateID:   "R1",
		AggregateType: domain.AggregateTypeRequest,
		EventType:     domain.EventTypeRequestApproved,
		Payload:       map[string]any{"request_id": "R1"},
		CreatedAt:     testNow,
	})
	require.NoError(t, err)
	assertExpectations(t, pool)
}

var outboxColumns = []string{
	"id", "aggregate_id", "aggregate_type", "event_type", "payload", "created_at", "published_at", "published",
}

func TestOutboxRepositoryGetUnpublishedDecodesRows(t *testing.T) {
	pool := newMockPool(t)
	pool.ExpectQuery("FROM outbox_events").
		WithArgs(int32(usecase.MaxListLimit)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).
			AddRow("EV1", "R1", domain.AggregateTypeRequest, domain.EventTypeRequestApproved,
				[]byte(`{"request_id":"R1"}`), timeToPgTimestamptz(testNow), pgtype.Timestamptz{}, false).
			AddRow("EV2", "R1", domain.AggregateTypeRequest, domain.EventTypeRequestApproved,
				[]byte(`{not json`), timeToPgTimestamptz(testNow), pgtype.Timestamptz{}, false))

	events, err := newOutboxRepository(pool).GetUnpublished(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "R1", events[0].Payload["request_id"])
	assert.Nil(t, events[0].PublishedAt)
	assert.True(t, events[0].CreatedAt.Equal(testNow))
	assert.Nil(t, events[1].Payload, "a corrupt payload must not block the batch")
	assertExpectations(t, pool)
}

func TestOutboxRepositoryGetByAggregateClampsPaging(t *testing.T) {
	pool := newMockPool(t)
	published := testNow.Add(time.Minute)
	pool.ExpectQuery("FROM outbox_events").
		WithArgs(domain.AggregateTypeBox, "general-2024-01-16-C1", int32(usecase.MaxListLimit), int32(0)).
		WillReturnRows(pgxmock.NewRows(outboxColumns).
			AddRow("EV3", "general-2024-01-16-C1", domain.AggregateTypeBox, domain.EventTypeBoxOpened,
				[]byte(`{}`), timeToPgTimestamptz(testNow), timeToPgTimestamptz(published), true))

	events, err := newOutboxRepository(pool).GetByAggregate(context.Background(),
		domain.AggregateTypeBox, "general-2024-01-16-C1", usecase.MaxListLimit+1, -5)
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.NotNil(t, events[0].PublishedAt)
	assert.True(t, events[0].PublishedAt.Equal(published))
	assert.True(t, events[0].Published)
	assertExpectations(t, pool)
}

func TestNumericRoundTrip(t *testing.T) {
	for _, s := range []string{"0", "12.50", "-3.25", "1000000.01"} {
		d := decimal.RequireFromString(s)
		assert.True(t, numericToDecimal(decimalToNumeric(d)).Equal(d), s)
	}
	assert.True(t, numericToDecimal(pgtype.Numeric{}).IsZero())
}
