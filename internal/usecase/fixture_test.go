package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
	"github.com/iho/cashbox/internal/usecase/mocks"
)

var workDay = time.Date(2024, 1, 16, 0, 0, 0, 0, time.UTC)

type fixture struct {
	txManager   *mocks.MockTransactionManager
	requestRepo *mocks.MockRequestRepository
	boxRepo     *mocks.MockCashBoxRepository
	outboxRepo  *mocks.MockOutboxRepository
	auditRepo   *mocks.MockAuditRepository
	cache       *mocks.MockCache
	idGen       *mocks.MockIDGenerator
	requests    *usecase.RequestUseCase
	boxes       *usecase.CashBoxUseCase
}

func newFixture(t *testing.T, payments usecase.PaymentCollector) *fixture {
	t.Helper()

	f := &fixture{
		txManager:   mocks.NewMockTransactionManager(),
		requestRepo: mocks.NewMockRequestRepository(),
		boxRepo:     mocks.NewMockCashBoxRepository(),
		outboxRepo:  mocks.NewMockOutboxRepository(),
		auditRepo:   mocks.NewMockAuditRepository(),
		cache:       mocks.NewMockCache(),
		idGen:       mocks.NewMockIDGenerator(),
	}
	f.requests = usecase.NewRequestUseCase(f.txManager, f.requestRepo, f.outboxRepo, f.auditRepo, f.idGen, nil)
	f.boxes = usecase.NewCashBoxUseCase(f.txManager, f.boxRepo, f.requests, payments, f.outboxRepo, f.auditRepo, f.idGen, nil).
		WithTotalsCache(f.cache, time.Hour)
	return f
}

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// approved submits and approves a request for collectorID on workDay.
func (f *fixture) approved(t *testing.T, collectorID string, initial domain.ChannelAmounts) *domain.CashBoxRequest {
	t.Helper()

	ctx := context.Background()
	req, err := f.requests.SubmitRequest(ctx, usecase.SubmitRequestInput{
		CollectorID:          collectorID,
		CollectorName:        "Collector " + collectorID,
		WorkDate:             workDay,
		RequestedInitialCash: initial,
	})
	require.NoError(t, err)

	req, err = f.requests.Approve(ctx, req.ID, "S1")
	require.NoError(t, err)
	return req
}

// openBox opens a general box for collectorID on workDay with a cash float.
func (f *fixture) openBox(t *testing.T, collectorID string, float domain.ChannelAmounts) *domain.CashBox {
	t.Helper()

	f.approved(t, collectorID, float)
	box, err := f.boxes.OpenBox(context.Background(), usecase.OpenBoxInput{
		CollectorID: collectorID,
		WorkDate:    workDay,
	})
	require.NoError(t, err)
	return box
}
