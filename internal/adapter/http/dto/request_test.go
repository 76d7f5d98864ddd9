package dto

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
)

func TestSubmitRequestRequest_ToUseCaseInput(t *testing.T) {
	req := &SubmitRequestRequest{
		CollectorID:          "C1",
		CollectorName:        "Carla",
		WorkDate:             "2024-03-01",
		Notes:                "route north",
		RequestedInitialCash: domain.CashOnly(decimal.NewFromInt(50)),
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.CollectorID != "C1" || got.CollectorName != "Carla" || got.Notes != "route north" {
		t.Fatalf("unexpected input: %+v", got)
	}
	if !got.WorkDate.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected work date: %v", got.WorkDate)
	}
	if !got.RequestedInitialCash.Cash.Equal(decimal.NewFromInt(50)) {
		t.Fatalf("unexpected initial cash: %v", got.RequestedInitialCash)
	}
}

func TestSubmitRequestRequest_BadDate(t *testing.T) {
	req := &SubmitRequestRequest{CollectorID: "C1", WorkDate: "01/03/2024"}
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestOpenBoxRequest_ToUseCaseInput(t *testing.T) {
	float := domain.CashOnly(decimal.NewFromInt(20))
	req := &OpenBoxRequest{
		CollectorID:  "C1",
		WorkDate:     "2024-03-01",
		ServiceType:  "water",
		OpeningFloat: &float,
		OpenedBy:     "C1",
	}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.CollectorID != "C1" || got.ServiceType != "water" || got.OpeningFloat != &float || got.OpenedBy != "C1" {
		t.Fatalf("unexpected input: %+v", got)
	}
}

func TestIncomeRequest_ToUseCaseInput(t *testing.T) {
	req := &IncomeRequest{Channel: "yape", Amount: decimal.NewFromInt(30), Concept: "March bill"}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Channel != domain.ChannelYape || !got.Amount.Equal(decimal.NewFromInt(30)) || got.Concept != "March bill" {
		t.Fatalf("unexpected input: %+v", got)
	}

	req.Channel = "card"
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrInvalidChannel) {
		t.Fatalf("expected invalid channel, got %v", err)
	}
}

func TestCollectionRequest_ToUseCaseInput(t *testing.T) {
	req := &CollectionRequest{PaymentID: "P1", ClientID: "K1", Channel: "cash", Amount: decimal.NewFromInt(40)}

	got, err := req.ToUseCaseInput()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PaymentID != "P1" || got.ClientID != "K1" || got.Channel != domain.ChannelCash {
		t.Fatalf("unexpected input: %+v", got)
	}

	req.Channel = ""
	if _, err := req.ToUseCaseInput(); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCloseBoxRequest_Counts(t *testing.T) {
	req := &CloseBoxRequest{CountedCash: decimal.NewFromInt(100), CountedDigital: decimal.NewFromInt(25)}
	counts := req.Counts()
	if !counts.Total().Equal(decimal.NewFromInt(125)) {
		t.Fatalf("unexpected counts: %+v", counts)
	}
}

func TestOverrideOpenRequest_Actor(t *testing.T) {
	req := OverrideOpenRequest{Supervisor: &ActorRequest{ID: "S1", Role: domain.RoleSupervisor}}
	if a := req.Supervisor.Actor(); !a.CanSupervise() {
		t.Fatalf("expected supervising actor, got %+v", a)
	}
}
