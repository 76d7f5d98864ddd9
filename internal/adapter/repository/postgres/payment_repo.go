package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/infrastructure/postgres/generated"
	"github.com/iho/cashbox/internal/usecase"
)

// PaymentCollector implements usecase.PaymentCollector against the payments
// table. It runs inside the cash box transaction so the payment and the
// income entry commit together.
type PaymentCollector struct {
	now func() time.Time
}

// NewPaymentCollector creates a new PaymentCollector.
func NewPaymentCollector() *PaymentCollector {
	return &PaymentCollector{now: func() time.Time { return time.Now().UTC() }}
}

// RecordCollection locks the payment, checks it is still pending and
// matches the collected amount, and marks it collected through in.Channel.
func (c *PaymentCollector) RecordCollection(ctx context.Context, tx usecase.Transaction, in usecase.CollectionInput) (*domain.CollectionRecord, error) {
	q := queriesFor(tx)

	payment, err := q.GetPaymentByIDForUpdate(ctx, in.PaymentID)
	if err != nil {
		if isNoRows(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotFound, in.PaymentID)
		}
		return nil, err
	}

	if payment.Status != "pending" {
		return nil, fmt.Errorf("%w: %s is %s", domain.ErrPaymentNotPayable, payment.ID, payment.Status)
	}
	if in.ClientID != "" && in.ClientID != payment.ClientID {
		return nil, fmt.Errorf("%w: payment %s belongs to client %s", domain.ErrValidation, payment.ID, payment.ClientID)
	}

	amount := numericToDecimal(payment.Amount)
	if !in.Amount.Equal(amount) {
		return nil, fmt.Errorf("%w: payment %s is due %s, collected %s", domain.ErrValidation, payment.ID, amount, in.Amount)
	}

	paidAt := c.now()
	n, err := q.MarkPaymentCollected(ctx, generated.MarkPaymentCollectedParams{
		ID:          payment.ID,
		Channel:     pgtype.Text{String: string(in.Channel), Valid: true},
		CollectedAt: timeToPgTimestamptz(paidAt),
	})
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrPaymentNotPayable, payment.ID)
	}

	serviceType := in.ServiceType
	if serviceType == "" {
		serviceType = payment.ServiceType
	}
	concept := in.Concept
	if concept == "" {
		concept = payment.Concept
	}

	return &domain.CollectionRecord{
		PaidAt:      paidAt,
		PaymentID:   payment.ID,
		ClientID:    payment.ClientID,
		ClientName:  payment.ClientName,
		Channel:     in.Channel,
		ServiceType: serviceType,
		Concept:     concept,
		Amount:      amount,
	}, nil
}
