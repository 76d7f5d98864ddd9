package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultServiceType is used when a box or entry carries no service tag.
const DefaultServiceType = "general"

// BoxStatus is the lifecycle state of a cash box.
type BoxStatus string

const (
	BoxStatusOpen   BoxStatus = "open"
	BoxStatusClosed BoxStatus = "closed"
)

// NormalizeServiceType trims the tag and falls back to DefaultServiceType.
func NormalizeServiceType(serviceType string) string {
	st := strings.TrimSpace(serviceType)
	if st == "" {
		return DefaultServiceType
	}
	return st
}

// BoxID derives the human-readable box identifier
// "{serviceType}-{YYYY-MM-DD}-{collectorID}".
func BoxID(serviceType string, workDate time.Time, collectorID string) string {
	return fmt.Sprintf("%s-%s-%s", NormalizeServiceType(serviceType), FormatWorkDate(workDate), collectorID)
}

// BoxKey is the parsed form of a box id.
type BoxKey struct {
	ServiceType string
	WorkDate    time.Time
	CollectorID string
}

// ParseBoxID splits a box id back into its parts. Service types and collector
// ids may contain dashes; the date is located by its fixed layout.
func ParseBoxID(id string) (BoxKey, error) {
	n := len(WorkDateLayout)
	for i := 1; i+n+1 < len(id); i++ {
		if id[i-1] != '-' || id[i+n] != '-' {
			continue
		}
		day, err := time.Parse(WorkDateLayout, id[i:i+n])
		if err != nil {
			continue
		}
		return BoxKey{
			ServiceType: id[:i-1],
			WorkDate:    day,
			CollectorID: id[i+n+1:],
		}, nil
	}
	return BoxKey{}, fmt.Errorf("%w: malformed box id %q", ErrValidation, id)
}

// IncomeEntry is one collected payment recorded in a box.
type IncomeEntry struct {
	CreatedAt   time.Time
	ID          string
	PaymentID   string
	ClientID    string
	ClientName  string
	Channel     Channel
	ServiceType string
	Concept     string
	Amount      decimal.Decimal
	Seq         int64
}

// ExpenseEntry is one expense paid out of a box.
type ExpenseEntry struct {
	CreatedAt   time.Time
	ID          string
	Concept     string
	ServiceType string
	Description string
	Amount      decimal.Decimal
	Seq         int64
}

// ClosingCounts are the physically counted totals entered at close.
type ClosingCounts struct {
	Cash    decimal.Decimal `json:"cash"`
	Digital decimal.Decimal `json:"digital"`
}

// Validate checks both counts are non-negative and storable.
func (c ClosingCounts) Validate() error {
	if c.Cash.IsNegative() {
		return fmt.Errorf("%w: counted cash is %s", ErrNegativeAmount, c.Cash)
	}
	if c.Digital.IsNegative() {
		return fmt.Errorf("%w: counted digital is %s", ErrNegativeAmount, c.Digital)
	}
	if err := ValidateMoney("counted cash", c.Cash); err != nil {
		return err
	}
	return ValidateMoney("counted digital", c.Digital)
}

// Total sums both counts.
func (c ClosingCounts) Total() decimal.Decimal {
	return c.Cash.Add(c.Digital)
}

// CashBox is one collector's ledger for one service type and work date.
type CashBox struct {
	OpenedAt       time.Time
	WorkDate       time.Time
	UpdatedAt      time.Time
	ClosedAt       *time.Time
	ClosingCounts  *ClosingCounts
	ID             string
	CollectorID    string
	ServiceType    string
	OpenedBy       string
	ClosedBy       string
	ClosingNotes   string
	RequestID      string
	Status         BoxStatus
	IncomeEntries  []IncomeEntry
	ExpenseEntries []ExpenseEntry
	OpeningFloat   ChannelAmounts
	Version        int64
	Override       bool
}

// NewCashBox builds an open box with an empty ledger.
func NewCashBox(collectorID, serviceType string, workDate time.Time, opening ChannelAmounts, openedBy string, now time.Time) (*CashBox, error) {
	if err := ValidateCollectorID(collectorID); err != nil {
		return nil, err
	}
	if workDate.IsZero() {
		return nil, ErrMissingWorkDate
	}
	if err := opening.Validate(); err != nil {
		return nil, err
	}

	st := NormalizeServiceType(serviceType)
	day := WorkDate(workDate)
	return &CashBox{
		ID:             BoxID(st, day, collectorID),
		CollectorID:    collectorID,
		ServiceType:    st,
		WorkDate:       day,
		OpeningFloat:   opening,
		IncomeEntries:  []IncomeEntry{},
		ExpenseEntries: []ExpenseEntry{},
		Status:         BoxStatusOpen,
		OpenedAt:       now,
		OpenedBy:       openedBy,
		UpdatedAt:      now,
		Version:        1,
	}, nil
}

// IsOpen reports whether the box still accepts entries.
func (b *CashBox) IsOpen() bool {
	return b.Status == BoxStatusOpen
}

func (b *CashBox) bump(now time.Time) int64 {
	b.Version++
	b.UpdatedAt = now
	return b.Version
}

// AddIncome appends an income entry, assigning its sequence number.
func (b *CashBox) AddIncome(e IncomeEntry, now time.Time) (IncomeEntry, error) {
	if !b.IsOpen() {
		return IncomeEntry{}, ErrBoxNotOpen
	}
	if err := ValidatePositiveAmount(e.Amount); err != nil {
		return IncomeEntry{}, err
	}
	if !e.Channel.IsValid() {
		return IncomeEntry{}, fmt.Errorf("%w: %q", ErrInvalidChannel, e.Channel)
	}

	e.ServiceType = NormalizeServiceType(e.ServiceType)
	e.CreatedAt = now
	e.Seq = b.bump(now)
	b.IncomeEntries = append(b.IncomeEntries, e)
	return e, nil
}

// AddExpense appends an expense entry, assigning its sequence number.
func (b *CashBox) AddExpense(e ExpenseEntry, now time.Time) (ExpenseEntry, error) {
	if !b.IsOpen() {
		return ExpenseEntry{}, ErrBoxNotOpen
	}
	if err := ValidatePositiveAmount(e.Amount); err != nil {
		return ExpenseEntry{}, err
	}
	if err := ValidateConcept(e.Concept); err != nil {
		return ExpenseEntry{}, err
	}

	e.ServiceType = NormalizeServiceType(e.ServiceType)
	e.CreatedAt = now
	e.Seq = b.bump(now)
	b.ExpenseEntries = append(b.ExpenseEntries, e)
	return e, nil
}

// RemoveExpense deletes an expense by id. It reports whether anything was
// removed; an unknown id is not an error.
func (b *CashBox) RemoveExpense(expenseID string, now time.Time) (bool, error) {
	if !b.IsOpen() {
		return false, ErrBoxNotOpen
	}
	for i, e := range b.ExpenseEntries {
		if e.ID == expenseID {
			b.ExpenseEntries = append(b.ExpenseEntries[:i], b.ExpenseEntries[i+1:]...)
			b.bump(now)
			return true, nil
		}
	}
	return false, nil
}

// Close records the counted totals and moves the box to closed.
func (b *CashBox) Close(counts ClosingCounts, closedBy, notes string, thresholds VarianceThresholds, now time.Time) error {
	if !b.IsOpen() {
		return ErrBoxNotOpen
	}
	if err := counts.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(closedBy) == "" {
		return fmt.Errorf("%w: closed by is required", ErrValidation)
	}
	if err := ValidateNotes(notes); err != nil {
		return err
	}

	rec := Reconcile(b.Totals(), counts, thresholds)
	if thresholds.NotesOnCritical && rec.Severity == SeverityCritical && strings.TrimSpace(notes) == "" {
		return ErrNotesRequired
	}

	b.Status = BoxStatusClosed
	c := counts
	b.ClosingCounts = &c
	b.ClosedAt = &now
	b.ClosedBy = closedBy
	b.ClosingNotes = strings.TrimSpace(notes)
	b.bump(now)
	return nil
}

// EntryCount returns the number of income plus expense entries.
func (b *CashBox) EntryCount() int {
	return len(b.IncomeEntries) + len(b.ExpenseEntries)
}

// Clone returns a deep copy.
func (b *CashBox) Clone() *CashBox {
	if b == nil {
		return nil
	}
	c := *b
	c.IncomeEntries = append([]IncomeEntry{}, b.IncomeEntries...)
	c.ExpenseEntries = append([]ExpenseEntry{}, b.ExpenseEntries...)
	if b.ClosedAt != nil {
		t := *b.ClosedAt
		c.ClosedAt = &t
	}
	if b.ClosingCounts != nil {
		cc := *b.ClosingCounts
		c.ClosingCounts = &cc
	}
	return &c
}

// BoxFilter narrows box listings. Range applies to the work date.
type BoxFilter struct {
	Status      *BoxStatus
	CollectorID string
	ServiceType string
	Range       DateRange
	Limit       int
}

// Matches reports whether the box satisfies the filter.
func (f BoxFilter) Matches(b *CashBox) bool {
	if f.Status != nil && b.Status != *f.Status {
		return false
	}
	if f.CollectorID != "" && b.CollectorID != f.CollectorID {
		return false
	}
	if f.ServiceType != "" && b.ServiceType != f.ServiceType {
		return false
	}
	return f.Range.Contains(b.WorkDate)
}

// CollectionRecord is what the payment collaborator returns once a bill is
// marked paid. It maps one-to-one onto an income entry.
type CollectionRecord struct {
	PaidAt      time.Time
	PaymentID   string
	ClientID    string
	ClientName  string
	Channel     Channel
	ServiceType string
	Concept     string
	Amount      decimal.Decimal
}

// IncomeEntry converts the record into an entry with the given id.
func (r CollectionRecord) IncomeEntry(id string) IncomeEntry {
	return IncomeEntry{
		ID:          id,
		PaymentID:   r.PaymentID,
		ClientID:    r.ClientID,
		ClientName:  r.ClientName,
		Amount:      r.Amount,
		Channel:     r.Channel,
		ServiceType: r.ServiceType,
		Concept:     r.Concept,
	}
}
