package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

func TestRequestFromDomain(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	req := &domain.CashBoxRequest{
		ID:          "req-1",
		CollectorID: "C1",
		WorkDate:    domain.WorkDate(now),
		Status:      domain.RequestStatusApproved,
		ApprovedBy:  "S1",
		RequestDate: now,
		UpdatedAt:   now,
	}

	resp := RequestFromDomain(req)
	if resp.ID != "req-1" || resp.WorkDate != "2024-03-01" || resp.ApprovedBy != "S1" {
		t.Fatalf("unexpected request response: %+v", resp)
	}

	list := RequestsFromDomain([]*domain.CashBoxRequest{req})
	if len(list) != 1 || list[0].ID != req.ID {
		t.Fatalf("RequestsFromDomain returned %+v", list)
	}
}

func TestCashBoxFromDomain(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	box, err := domain.NewCashBox("C1", "water", now, domain.CashOnly(decimal.NewFromInt(10)), "C1", now)
	if err != nil {
		t.Fatalf("NewCashBox: %v", err)
	}
	if _, err := box.AddIncome(domain.IncomeEntry{ID: "inc-1", Channel: domain.ChannelCash, Amount: decimal.NewFromInt(40)}, now); err != nil {
		t.Fatalf("AddIncome: %v", err)
	}
	if _, err := box.AddExpense(domain.ExpenseEntry{ID: "exp-1", Concept: "fuel", Amount: decimal.NewFromInt(5)}, now); err != nil {
		t.Fatalf("AddExpense: %v", err)
	}

	resp := CashBoxFromDomain(box)
	if resp.ID != "water-2024-03-01-C1" || resp.WorkDate != "2024-03-01" {
		t.Fatalf("unexpected box response: %+v", resp)
	}
	if len(resp.IncomeEntries) != 1 || resp.IncomeEntries[0].Seq != 2 {
		t.Fatalf("unexpected income entries: %+v", resp.IncomeEntries)
	}
	if len(resp.ExpenseEntries) != 1 || resp.ExpenseEntries[0].Seq != 3 {
		t.Fatalf("unexpected expense entries: %+v", resp.ExpenseEntries)
	}

	encoded, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, ok := decoded["closing_counts"]; ok {
		t.Fatalf("expected closing_counts to be omitted for an open box")
	}
}

func TestTotalsFromDomain(t *testing.T) {
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	box, _ := domain.NewCashBox("C1", "", now, domain.CashOnly(decimal.NewFromInt(10)), "C1", now)
	_, _ = box.AddIncome(domain.IncomeEntry{ID: "inc-1", Channel: domain.ChannelCash, Amount: decimal.NewFromInt(90)}, now)
	if err := box.Close(domain.ClosingCounts{Cash: decimal.NewFromInt(100)}, "C1", "", domain.DefaultVarianceThresholds(), now); err != nil {
		t.Fatalf("Close: %v", err)
	}

	totals := box.Totals()
	resp := TotalsFromDomain(&totals)
	if !resp.TheoreticalCash.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("unexpected theoretical cash: %s", resp.TheoreticalCash)
	}
	if resp.Reconciliation == nil || !resp.Reconciliation.Variance.IsZero() || resp.Reconciliation.Severity != domain.SeverityNormal {
		t.Fatalf("unexpected reconciliation: %+v", resp.Reconciliation)
	}
}

func TestDailySummaryFromDomain(t *testing.T) {
	s := &domain.DailySummary{
		WorkDate:    "2024-03-01",
		OpenBoxes:   1,
		TotalIncome: decimal.NewFromInt(10),
		Collectors: []domain.CollectorSummary{
			{CollectorID: "C1", OpenBoxes: 1, TotalIncome: decimal.NewFromInt(10)},
		},
	}

	resp := DailySummaryFromDomain(s)
	if len(resp.Collectors) != 1 || resp.Collectors[0].CollectorID != "C1" || resp.OpenBoxes != 1 {
		t.Fatalf("unexpected summary: %+v", resp)
	}
}

func TestReconciliationReportFromUseCase(t *testing.T) {
	report := &usecase.ReconciliationReport{
		WorkDate:      "2024-03-01",
		OpenBoxes:     []string{"general-2024-03-01-C2"},
		TotalBoxes:    2,
		ClosedBoxes:   1,
		CriticalBoxes: 1,
		Discrepancies: []*usecase.ReconciliationResult{
			{BoxID: "general-2024-03-01-C1", Variance: decimal.NewFromInt(-20), Severity: domain.SeverityCritical},
		},
	}

	resp := ReconciliationReportFromUseCase(report)
	if len(resp.Discrepancies) != 1 || resp.Discrepancies[0].Severity != domain.SeverityCritical {
		t.Fatalf("unexpected discrepancies: %+v", resp.Discrepancies)
	}
	if resp.TotalBoxes != 2 || resp.OpenBoxes[0] != "general-2024-03-01-C2" {
		t.Fatalf("unexpected report: %+v", resp)
	}
}
