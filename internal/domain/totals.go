package domain

import (
	"github.com/shopspring/decimal"
)

// Severity classifies the size of a closing variance.
type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// VarianceThresholds are absolute variance percentages. A variance up to
// Warning percent is normal, up to Critical percent is a warning, above is
// critical. When NotesOnCritical is set a critical close must carry notes.
type VarianceThresholds struct {
	Warning         decimal.Decimal
	Critical        decimal.Decimal
	NotesOnCritical bool
}

// DefaultVarianceThresholds returns 1% / 5% without the notes requirement.
func DefaultVarianceThresholds() VarianceThresholds {
	return VarianceThresholds{
		Warning:  decimal.NewFromInt(1),
		Critical: decimal.NewFromInt(5),
	}
}

// Classify maps a signed variance percentage to a severity.
func (t VarianceThresholds) Classify(pct decimal.Decimal) Severity {
	abs := pct.Abs()
	switch {
	case abs.LessThanOrEqual(t.Warning):
		return SeverityNormal
	case abs.LessThanOrEqual(t.Critical):
		return SeverityWarning
	default:
		return SeverityCritical
	}
}

// Totals are the figures derived from a box's opening float and entries.
type Totals struct {
	Reconciliation     *Reconciliation
	IncomeByChannel    map[Channel]decimal.Decimal
	BoxID              string
	Status             BoxStatus
	CashIncome         decimal.Decimal
	DigitalIncome      decimal.Decimal
	TotalIncome        decimal.Decimal
	TotalExpenses      decimal.Decimal
	TheoreticalCash    decimal.Decimal
	TheoreticalDigital decimal.Decimal
	TheoreticalTotal   decimal.Decimal
	IncomeCount        int
	ExpenseCount       int
}

// Reconciliation compares counted closing totals with theoretical totals.
type Reconciliation struct {
	CountedCash     decimal.Decimal
	CountedDigital  decimal.Decimal
	CountedTotal    decimal.Decimal
	CashVariance    decimal.Decimal
	DigitalVariance decimal.Decimal
	Variance        decimal.Decimal
	VariancePct     decimal.Decimal
	Severity        Severity
}

// Totals computes the derived totals. It never mutates the box. Expenses are
// always charged against cash on hand.
func (b *CashBox) Totals() Totals {
	t := Totals{
		BoxID:           b.ID,
		Status:          b.Status,
		IncomeByChannel: make(map[Channel]decimal.Decimal, len(Channels)),
		CashIncome:      decimal.Zero,
		DigitalIncome:   decimal.Zero,
		TotalExpenses:   decimal.Zero,
		IncomeCount:     len(b.IncomeEntries),
		ExpenseCount:    len(b.ExpenseEntries),
	}
	for _, c := range Channels {
		t.IncomeByChannel[c] = decimal.Zero
	}

	for _, e := range b.IncomeEntries {
		t.IncomeByChannel[e.Channel] = t.IncomeByChannel[e.Channel].Add(e.Amount)
		if e.Channel == ChannelCash {
			t.CashIncome = t.CashIncome.Add(e.Amount)
		} else {
			t.DigitalIncome = t.DigitalIncome.Add(e.Amount)
		}
	}
	for _, e := range b.ExpenseEntries {
		t.TotalExpenses = t.TotalExpenses.Add(e.Amount)
	}

	t.TotalIncome = t.CashIncome.Add(t.DigitalIncome)
	t.TheoreticalCash = b.OpeningFloat.Cash.Add(t.CashIncome).Sub(t.TotalExpenses)
	t.TheoreticalDigital = b.OpeningFloat.DigitalTotal().Add(t.DigitalIncome)
	t.TheoreticalTotal = t.TheoreticalCash.Add(t.TheoreticalDigital)

	if b.ClosingCounts != nil {
		rec := Reconcile(t, *b.ClosingCounts, DefaultVarianceThresholds())
		t.Reconciliation = &rec
	}
	return t
}

// Reconcile computes the variance of counts against theoretical totals.
// VariancePct is relative to the theoretical total; a zero theoretical total
// yields 0% when nothing was counted and 100% otherwise.
func Reconcile(t Totals, counts ClosingCounts, thresholds VarianceThresholds) Reconciliation {
	rec := Reconciliation{
		CountedCash:     counts.Cash,
		CountedDigital:  counts.Digital,
		CountedTotal:    counts.Total(),
		CashVariance:    counts.Cash.Sub(t.TheoreticalCash),
		DigitalVariance: counts.Digital.Sub(t.TheoreticalDigital),
	}
	rec.Variance = rec.CountedTotal.Sub(t.TheoreticalTotal)

	hundred := decimal.NewFromInt(100)
	switch {
	case !t.TheoreticalTotal.IsZero():
		rec.VariancePct = rec.Variance.Div(t.TheoreticalTotal.Abs()).Mul(hundred).Round(2)
	case rec.Variance.IsZero():
		rec.VariancePct = decimal.Zero
	default:
		rec.VariancePct = hundred
	}
	rec.Severity = thresholds.Classify(rec.VariancePct)
	return rec
}

// WithThresholds re-classifies a closed box's reconciliation.
func (t Totals) WithThresholds(thresholds VarianceThresholds) Totals {
	if t.Reconciliation == nil {
		return t
	}
	rec := *t.Reconciliation
	rec.Severity = thresholds.Classify(rec.VariancePct)
	t.Reconciliation = &rec
	return t
}
