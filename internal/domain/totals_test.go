package domain

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCashBox_Totals_CashFlow(t *testing.T) {
	box := newOpenBox(t, CashOnly(dec(100)))
	if _, err := box.AddIncome(IncomeEntry{ID: "i1", Amount: dec(80), Channel: ChannelCash}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := box.AddExpense(ExpenseEntry{ID: "e1", Concept: "lunch", Amount: dec(20)}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := box.Totals()
	if !totals.TheoreticalCash.Equal(dec(160)) {
		t.Errorf("expected theoretical cash 160, got %s", totals.TheoreticalCash)
	}
	if totals.Reconciliation != nil {
		t.Error("open box must not carry a reconciliation")
	}

	if err := box.Close(ClosingCounts{Cash: dec(160), Digital: decimal.Zero}, "C1", "", DefaultVarianceThresholds(), testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := box.Totals().Reconciliation
	if rec == nil {
		t.Fatal("closed box must carry a reconciliation")
	}
	if !rec.Variance.IsZero() || rec.Severity != SeverityNormal {
		t.Errorf("expected zero normal variance, got %s %s", rec.Variance, rec.Severity)
	}
}

func TestCashBox_Totals_DigitalVariance(t *testing.T) {
	opening := ChannelAmounts{Cash: dec(100), Digital: DigitalAmounts{Yape: dec(30)}}
	box := newOpenBox(t, opening)
	if _, err := box.AddIncome(IncomeEntry{ID: "i1", Amount: dec(50), Channel: ChannelYape}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := box.Totals()
	if !totals.TheoreticalDigital.Equal(dec(80)) {
		t.Fatalf("expected theoretical digital 80, got %s", totals.TheoreticalDigital)
	}
	if !totals.IncomeByChannel[ChannelYape].Equal(dec(50)) {
		t.Errorf("expected yape income 50, got %s", totals.IncomeByChannel[ChannelYape])
	}

	counts := ClosingCounts{Cash: totals.TheoreticalCash, Digital: totals.TheoreticalDigital.Sub(dec(10))}
	if err := box.Close(counts, "C1", "yape transfer missing", DefaultVarianceThresholds(), testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := box.Totals().Reconciliation
	if !rec.DigitalVariance.Equal(dec(-10)) {
		t.Errorf("expected digital variance -10, got %s", rec.DigitalVariance)
	}
	if !rec.CashVariance.IsZero() || !rec.Variance.Equal(dec(-10)) {
		t.Errorf("unexpected variance split: cash %s total %s", rec.CashVariance, rec.Variance)
	}
}

func TestCashBox_Totals_ExpensesAlwaysReduceCash(t *testing.T) {
	box := newOpenBox(t, ChannelAmounts{Cash: dec(10), Digital: DigitalAmounts{Plin: dec(100)}})
	if _, err := box.AddExpense(ExpenseEntry{ID: "e1", Concept: "bank fee", Amount: dec(25), ServiceType: "internet"}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := box.Totals()
	if !totals.TheoreticalCash.Equal(dec(-15)) {
		t.Errorf("expected theoretical cash -15, got %s", totals.TheoreticalCash)
	}
	if !totals.TheoreticalDigital.Equal(dec(100)) {
		t.Errorf("expected theoretical digital 100, got %s", totals.TheoreticalDigital)
	}
}

func TestCashBox_Totals_RoundTripYieldsZeroVariance(t *testing.T) {
	opening := ChannelAmounts{Cash: dec(57), Digital: DigitalAmounts{Yape: dec(3), BankTransfer: dec(11)}}
	box := newOpenBox(t, opening)
	entries := []IncomeEntry{
		{ID: "a", Amount: decimal.RequireFromString("12.35"), Channel: ChannelCash},
		{ID: "b", Amount: decimal.RequireFromString("7.10"), Channel: ChannelPlin},
		{ID: "c", Amount: decimal.RequireFromString("0.55"), Channel: ChannelOther},
	}
	for _, e := range entries {
		if _, err := box.AddIncome(e, testNow); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if _, err := box.AddExpense(ExpenseEntry{ID: "x", Concept: "taxi", Amount: decimal.RequireFromString("4.20")}, testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	totals := box.Totals()
	counts := ClosingCounts{Cash: totals.TheoreticalCash, Digital: totals.TheoreticalDigital}
	if err := box.Close(counts, "S1", "", DefaultVarianceThresholds(), testNow); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rec := box.Totals().Reconciliation
	if !rec.Variance.IsZero() || !rec.CashVariance.IsZero() || !rec.DigitalVariance.IsZero() {
		t.Errorf("expected zero variance, got %+v", rec)
	}
}

func TestCashBox_TotalsIsSideEffectFree(t *testing.T) {
	box := newOpenBox(t, CashOnly(dec(5)))
	version := box.Version
	_ = box.Totals()
	_ = box.Totals()
	if box.Version != version || box.EntryCount() != 0 {
		t.Error("Totals mutated the box")
	}
}

func TestVarianceThresholds_Classify(t *testing.T) {
	th := DefaultVarianceThresholds()
	tests := []struct {
		pct  string
		want Severity
	}{
		{"0", SeverityNormal},
		{"1", SeverityNormal},
		{"-1", SeverityNormal},
		{"1.01", SeverityWarning},
		{"-5", SeverityWarning},
		{"5.5", SeverityCritical},
		{"-100", SeverityCritical},
	}
	for _, tt := range tests {
		t.Run(tt.pct, func(t *testing.T) {
			if got := th.Classify(decimal.RequireFromString(tt.pct)); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestReconcile_ZeroTheoretical(t *testing.T) {
	th := DefaultVarianceThresholds()

	rec := Reconcile(Totals{}, ClosingCounts{}, th)
	if !rec.VariancePct.IsZero() || rec.Severity != SeverityNormal {
		t.Errorf("expected 0%% normal, got %s %s", rec.VariancePct, rec.Severity)
	}

	rec = Reconcile(Totals{}, ClosingCounts{Cash: dec(1)}, th)
	if !rec.VariancePct.Equal(dec(100)) || rec.Severity != SeverityCritical {
		t.Errorf("expected 100%% critical, got %s %s", rec.VariancePct, rec.Severity)
	}
}
