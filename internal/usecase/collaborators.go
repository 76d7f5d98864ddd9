package usecase

//go:generate mockgen -source=collaborators.go -destination=mocks/mock_collaborators.go -package=mocks

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
)

// OpeningGate answers whether a collector holds an approved opening request
// for a work date. ApprovedRequest returns nil without error when none exists.
type OpeningGate interface {
	ApprovedRequest(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error)
}

// CollectionInput identifies a bill being marked paid by a collector.
type CollectionInput struct {
	PaymentID   string
	ClientID    string
	Channel     domain.Channel
	ServiceType string
	Concept     string
	Amount      decimal.Decimal
}

// PaymentCollector is the payments system. RecordCollection marks the
// payment collected inside tx and returns the record to book as income.
type PaymentCollector interface {
	RecordCollection(ctx context.Context, tx Transaction, in CollectionInput) (*domain.CollectionRecord, error)
}
