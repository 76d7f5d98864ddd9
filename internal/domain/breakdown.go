package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// CategoryTotal aggregates income entries of one bucket.
type CategoryTotal struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// BreakdownByServiceCategory groups income entries by service type. Entries
// without a tag land in DefaultServiceType.
func BreakdownByServiceCategory(b *CashBox) map[string]CategoryTotal {
	out := make(map[string]CategoryTotal)
	if b == nil {
		return out
	}
	for _, e := range b.IncomeEntries {
		key := NormalizeServiceType(e.ServiceType)
		ct := out[key]
		ct.Count++
		ct.TotalAmount = ct.TotalAmount.Add(e.Amount)
		out[key] = ct
	}
	return out
}

// BreakdownByChannel groups income entries by channel. Every channel is
// present, with zero totals when unused.
func BreakdownByChannel(b *CashBox) map[Channel]CategoryTotal {
	out := make(map[Channel]CategoryTotal, len(Channels))
	for _, c := range Channels {
		out[c] = CategoryTotal{TotalAmount: decimal.Zero}
	}
	if b == nil {
		return out
	}
	for _, e := range b.IncomeEntries {
		ct := out[e.Channel]
		ct.Count++
		ct.TotalAmount = ct.TotalAmount.Add(e.Amount)
		out[e.Channel] = ct
	}
	return out
}

// SortedCategories returns the keys of a service breakdown in a stable order.
func SortedCategories(m map[string]CategoryTotal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CollectorSummary rolls up one collector's boxes for a day.
type CollectorSummary struct {
	CollectorID   string
	OpenBoxes     int
	ClosedBoxes   int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalVariance decimal.Decimal
}

// DailySummary rolls up every box of one work date.
type DailySummary struct {
	WorkDate      string
	Collectors    []CollectorSummary
	ByService     map[string]CategoryTotal
	OpenBoxes     int
	ClosedBoxes   int
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	TotalVariance decimal.Decimal
}

// SummarizeDay aggregates the given boxes. Collectors are ordered by id.
func SummarizeDay(day string, boxes []*CashBox) DailySummary {
	s := DailySummary{
		WorkDate:      day,
		ByService:     make(map[string]CategoryTotal),
		TotalIncome:   decimal.Zero,
		TotalExpenses: decimal.Zero,
		TotalVariance: decimal.Zero,
	}
	byCollector := make(map[string]*CollectorSummary)

	for _, b := range boxes {
		cs, ok := byCollector[b.CollectorID]
		if !ok {
			cs = &CollectorSummary{
				CollectorID:   b.CollectorID,
				TotalIncome:   decimal.Zero,
				TotalExpenses: decimal.Zero,
				TotalVariance: decimal.Zero,
			}
			byCollector[b.CollectorID] = cs
		}

		t := b.Totals()
		cs.TotalIncome = cs.TotalIncome.Add(t.TotalIncome)
		cs.TotalExpenses = cs.TotalExpenses.Add(t.TotalExpenses)
		if b.IsOpen() {
			cs.OpenBoxes++
			s.OpenBoxes++
		} else {
			cs.ClosedBoxes++
			s.ClosedBoxes++
		}
		if t.Reconciliation != nil {
			cs.TotalVariance = cs.TotalVariance.Add(t.Reconciliation.Variance)
			s.TotalVariance = s.TotalVariance.Add(t.Reconciliation.Variance)
		}
		s.TotalIncome = s.TotalIncome.Add(t.TotalIncome)
		s.TotalExpenses = s.TotalExpenses.Add(t.TotalExpenses)

		for k, v := range BreakdownByServiceCategory(b) {
			ct := s.ByService[k]
			ct.Count += v.Count
			ct.TotalAmount = ct.TotalAmount.Add(v.TotalAmount)
			s.ByService[k] = ct
		}
	}

	ids := make([]string, 0, len(byCollector))
	for id := range byCollector {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	s.Collectors = make([]CollectorSummary, 0, len(ids))
	for _, id := range ids {
		s.Collectors = append(s.Collectors, *byCollector[id])
	}
	return s
}
