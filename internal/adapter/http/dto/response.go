package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

// RequestResponse represents an opening request in API responses.
type RequestResponse struct {
	ID                   string                `json:"id"`
	CollectorID          string                `json:"collector_id"`
	CollectorName        string                `json:"collector_name,omitempty"`
	WorkDate             string                `json:"work_date"`
	Status               domain.RequestStatus  `json:"status"`
	RequestedInitialCash domain.ChannelAmounts `json:"requested_initial_cash"`
	Notes                string                `json:"notes,omitempty"`
	ApprovedBy           string                `json:"approved_by,omitempty"`
	ApprovalDate         *time.Time            `json:"approval_date,omitempty"`
	RejectionReason      string                `json:"rejection_reason,omitempty"`
	CancelledAt          *time.Time            `json:"cancelled_at,omitempty"`
	RequestDate          time.Time             `json:"request_date"`
	UpdatedAt            time.Time             `json:"updated_at"`
}

// RequestFromDomain converts a domain request to a response.
func RequestFromDomain(r *domain.CashBoxRequest) *RequestResponse {
	return &RequestResponse{
		ID:                   r.ID,
		CollectorID:          r.CollectorID,
		CollectorName:        r.CollectorName,
		WorkDate:             domain.FormatWorkDate(r.WorkDate),
		Status:               r.Status,
		RequestedInitialCash: r.RequestedInitialCash,
		Notes:                r.Notes,
		ApprovedBy:           r.ApprovedBy,
		ApprovalDate:         r.ApprovalDate,
		RejectionReason:      r.RejectionReason,
		CancelledAt:          r.CancelledAt,
		RequestDate:          r.RequestDate,
		UpdatedAt:            r.UpdatedAt,
	}
}

// RequestsFromDomain converts domain requests to responses.
func RequestsFromDomain(requests []*domain.CashBoxRequest) []*RequestResponse {
	result := make([]*RequestResponse, len(requests))
	for i, r := range requests {
		result[i] = RequestFromDomain(r)
	}
	return result
}

// ListRequestsResponse represents a list of requests.
type ListRequestsResponse struct {
	Requests []*RequestResponse `json:"requests"`
	Total    int                `json:"total"`
}

// ApprovalResponse answers whether a collector may open a box.
type ApprovalResponse struct {
	CollectorID string           `json:"collector_id"`
	WorkDate    string           `json:"work_date"`
	Approved    bool             `json:"approved"`
	Request     *RequestResponse `json:"request,omitempty"`
}

// IncomeEntryResponse represents an income entry.
type IncomeEntryResponse struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	PaymentID   string          `json:"payment_id,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`
	ClientName  string          `json:"client_name,omitempty"`
	Channel     domain.Channel  `json:"channel"`
	ServiceType string          `json:"service_type"`
	Concept     string          `json:"concept,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// IncomeFromDomain converts an income entry to a response.
func IncomeFromDomain(e domain.IncomeEntry) IncomeEntryResponse {
	return IncomeEntryResponse{
		ID:          e.ID,
		Seq:         e.Seq,
		PaymentID:   e.PaymentID,
		ClientID:    e.ClientID,
		ClientName:  e.ClientName,
		Channel:     e.Channel,
		ServiceType: e.ServiceType,
		Concept:     e.Concept,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
	}
}

// ExpenseEntryResponse represents an expense entry.
type ExpenseEntryResponse struct {
	ID          string          `json:"id"`
	Seq         int64           `json:"seq"`
	Concept     string          `json:"concept"`
	ServiceType string          `json:"service_type"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ExpenseFromDomain converts an expense entry to a response.
func ExpenseFromDomain(e domain.ExpenseEntry) ExpenseEntryResponse {
	return ExpenseEntryResponse{
		ID:          e.ID,
		Seq:         e.Seq,
		Concept:     e.Concept,
		ServiceType: e.ServiceType,
		Description: e.Description,
		Amount:      e.Amount,
		CreatedAt:   e.CreatedAt,
	}
}

// CashBoxResponse represents a box with its entries.
type CashBoxResponse struct {
	ID             string                 `json:"id"`
	CollectorID    string                 `json:"collector_id"`
	ServiceType    string                 `json:"service_type"`
	WorkDate       string                 `json:"work_date"`
	Status         domain.BoxStatus       `json:"status"`
	OpeningFloat   domain.ChannelAmounts  `json:"opening_float"`
	IncomeEntries  []IncomeEntryResponse  `json:"income_entries"`
	ExpenseEntries []ExpenseEntryResponse `json:"expense_entries"`
	ClosingCounts  *domain.ClosingCounts  `json:"closing_counts,omitempty"`
	RequestID      string                 `json:"request_id,omitempty"`
	Override       bool                   `json:"override"`
	OpenedBy       string                 `json:"opened_by"`
	OpenedAt       time.Time              `json:"opened_at"`
	ClosedBy       string                 `json:"closed_by,omitempty"`
	ClosedAt       *time.Time             `json:"closed_at,omitempty"`
	ClosingNotes   string                 `json:"closing_notes,omitempty"`
	Version        int64                  `json:"version"`
	UpdatedAt      time.Time              `json:"updated_at"`
}

// CashBoxFromDomain converts a domain box to a response.
func CashBoxFromDomain(b *domain.CashBox) *CashBoxResponse {
	resp := &CashBoxResponse{
		ID:             b.ID,
		CollectorID:    b.CollectorID,
		ServiceType:    b.ServiceType,
		WorkDate:       domain.FormatWorkDate(b.WorkDate),
		Status:         b.Status,
		OpeningFloat:   b.OpeningFloat,
		IncomeEntries:  make([]IncomeEntryResponse, len(b.IncomeEntries)),
		ExpenseEntries: make([]ExpenseEntryResponse, len(b.ExpenseEntries)),
		ClosingCounts:  b.ClosingCounts,
		RequestID:      b.RequestID,
		Override:       b.Override,
		OpenedBy:       b.OpenedBy,
		OpenedAt:       b.OpenedAt,
		ClosedBy:       b.ClosedBy,
		ClosedAt:       b.ClosedAt,
		ClosingNotes:   b.ClosingNotes,
		Version:        b.Version,
		UpdatedAt:      b.UpdatedAt,
	}
	for i, e := range b.IncomeEntries {
		resp.IncomeEntries[i] = IncomeFromDomain(e)
	}
	for i, e := range b.ExpenseEntries {
		resp.ExpenseEntries[i] = ExpenseFromDomain(e)
	}
	return resp
}

// CashBoxesFromDomain converts domain boxes to responses.
func CashBoxesFromDomain(boxes []*domain.CashBox) []*CashBoxResponse {
	result := make([]*CashBoxResponse, len(boxes))
	for i, b := range boxes {
		result[i] = CashBoxFromDomain(b)
	}
	return result
}

// ListCashBoxesResponse represents a list of boxes.
type ListCashBoxesResponse struct {
	Boxes []*CashBoxResponse `json:"boxes"`
	Total int                `json:"total"`
}

// ReconciliationResponse represents the comparison of counts with totals.
type ReconciliationResponse struct {
	CountedCash     decimal.Decimal `json:"counted_cash"`
	CountedDigital  decimal.Decimal `json:"counted_digital"`
	CountedTotal    decimal.Decimal `json:"counted_total"`
	CashVariance    decimal.Decimal `json:"cash_variance"`
	DigitalVariance decimal.Decimal `json:"digital_variance"`
	Variance        decimal.Decimal `json:"variance"`
	VariancePct     decimal.Decimal `json:"variance_pct"`
	Severity        domain.Severity `json:"severity"`
}

// TotalsResponse represents the computed totals of a box.
type TotalsResponse struct {
	BoxID              string                             `json:"box_id"`
	Status             domain.BoxStatus                   `json:"status"`
	IncomeByChannel    map[domain.Channel]decimal.Decimal `json:"income_by_channel"`
	CashIncome         decimal.Decimal                    `json:"cash_income"`
	DigitalIncome      decimal.Decimal                    `json:"digital_income"`
	TotalIncome        decimal.Decimal                    `json:"total_income"`
	TotalExpenses      decimal.Decimal                    `json:"total_expenses"`
	TheoreticalCash    decimal.Decimal                    `json:"theoretical_cash"`
	TheoreticalDigital decimal.Decimal                    `json:"theoretical_digital"`
	TheoreticalTotal   decimal.Decimal                    `json:"theoretical_total"`
	IncomeCount        int                                `json:"income_count"`
	ExpenseCount       int                                `json:"expense_count"`
	Reconciliation     *ReconciliationResponse            `json:"reconciliation,omitempty"`
}

// TotalsFromDomain converts domain totals to a response.
func TotalsFromDomain(t *domain.Totals) *TotalsResponse {
	resp := &TotalsResponse{
		BoxID:              t.BoxID,
		Status:             t.Status,
		IncomeByChannel:    t.IncomeByChannel,
		CashIncome:         t.CashIncome,
		DigitalIncome:      t.DigitalIncome,
		TotalIncome:        t.TotalIncome,
		TotalExpenses:      t.TotalExpenses,
		TheoreticalCash:    t.TheoreticalCash,
		TheoreticalDigital: t.TheoreticalDigital,
		TheoreticalTotal:   t.TheoreticalTotal,
		IncomeCount:        t.IncomeCount,
		ExpenseCount:       t.ExpenseCount,
	}
	if rec := t.Reconciliation; rec != nil {
		resp.Reconciliation = &ReconciliationResponse{
			CountedCash:     rec.CountedCash,
			CountedDigital:  rec.CountedDigital,
			CountedTotal:    rec.CountedTotal,
			CashVariance:    rec.CashVariance,
			DigitalVariance: rec.DigitalVariance,
			Variance:        rec.Variance,
			VariancePct:     rec.VariancePct,
			Severity:        rec.Severity,
		}
	}
	return resp
}

// BreakdownResponse groups a box's income two ways.
type BreakdownResponse struct {
	BoxID     string                                  `json:"box_id"`
	ByService map[string]domain.CategoryTotal         `json:"by_service"`
	ByChannel map[domain.Channel]domain.CategoryTotal `json:"by_channel"`
}

// CollectorSummaryResponse is one collector's line in a daily summary.
type CollectorSummaryResponse struct {
	CollectorID   string          `json:"collector_id"`
	OpenBoxes     int             `json:"open_boxes"`
	ClosedBoxes   int             `json:"closed_boxes"`
	TotalIncome   decimal.Decimal `json:"total_income"`
	TotalExpenses decimal.Decimal `json:"total_expenses"`
	TotalVariance decimal.Decimal `json:"total_variance"`
}

// DailySummaryResponse aggregates every box of one work date.
type DailySummaryResponse struct {
	WorkDate      string                          `json:"work_date"`
	Collectors    []CollectorSummaryResponse      `json:"collectors"`
	ByService     map[string]domain.CategoryTotal `json:"by_service"`
	OpenBoxes     int                             `json:"open_boxes"`
	ClosedBoxes   int                             `json:"closed_boxes"`
	TotalIncome   decimal.Decimal                 `json:"total_income"`
	TotalExpenses decimal.Decimal                 `json:"total_expenses"`
	TotalVariance decimal.Decimal                 `json:"total_variance"`
}

// DailySummaryFromDomain converts a domain summary to a response.
func DailySummaryFromDomain(s *domain.DailySummary) *DailySummaryResponse {
	resp := &DailySummaryResponse{
		WorkDate:      s.WorkDate,
		Collectors:    make([]CollectorSummaryResponse, len(s.Collectors)),
		ByService:     s.ByService,
		OpenBoxes:     s.OpenBoxes,
		ClosedBoxes:   s.ClosedBoxes,
		TotalIncome:   s.TotalIncome,
		TotalExpenses: s.TotalExpenses,
		TotalVariance: s.TotalVariance,
	}
	for i, c := range s.Collectors {
		resp.Collectors[i] = CollectorSummaryResponse(c)
	}
	return resp
}

// BoxReconciliationResponse is one closed box in a reconciliation report.
type BoxReconciliationResponse struct {
	BoxID              string          `json:"box_id"`
	CollectorID        string          `json:"collector_id"`
	ServiceType        string          `json:"service_type"`
	ClosedBy           string          `json:"closed_by"`
	ClosingNotes       string          `json:"closing_notes,omitempty"`
	TheoreticalCash    decimal.Decimal `json:"theoretical_cash"`
	TheoreticalDigital decimal.Decimal `json:"theoretical_digital"`
	CountedCash        decimal.Decimal `json:"counted_cash"`
	CountedDigital     decimal.Decimal `json:"counted_digital"`
	CashVariance       decimal.Decimal `json:"cash_variance"`
	DigitalVariance    decimal.Decimal `json:"digital_variance"`
	Variance           decimal.Decimal `json:"variance"`
	VariancePct        decimal.Decimal `json:"variance_pct"`
	Severity           domain.Severity `json:"severity"`
	IsReconciled       bool            `json:"is_reconciled"`
}

// ReconciliationReportResponse represents a day's reconciliation.
type ReconciliationReportResponse struct {
	WorkDate         string                       `json:"work_date"`
	OpenBoxes        []string                     `json:"open_boxes"`
	Discrepancies    []*BoxReconciliationResponse `json:"discrepancies"`
	TotalVariance    decimal.Decimal              `json:"total_variance"`
	TotalBoxes       int                          `json:"total_boxes"`
	ClosedBoxes      int                          `json:"closed_boxes"`
	ReconciledBoxes  int                          `json:"reconciled_boxes"`
	CriticalBoxes    int                          `json:"critical_boxes"`
	LedgerConsistent bool                         `json:"ledger_consistent"`
	CheckedAt        time.Time                    `json:"checked_at"`
}

// ReconciliationReportFromUseCase converts a report to a response.
func ReconciliationReportFromUseCase(r *usecase.ReconciliationReport) *ReconciliationReportResponse {
	resp := &ReconciliationReportResponse{
		WorkDate:         r.WorkDate,
		OpenBoxes:        r.OpenBoxes,
		Discrepancies:    make([]*BoxReconciliationResponse, len(r.Discrepancies)),
		TotalVariance:    r.TotalVariance,
		TotalBoxes:       r.TotalBoxes,
		ClosedBoxes:      r.ClosedBoxes,
		ReconciledBoxes:  r.ReconciledBoxes,
		CriticalBoxes:    r.CriticalBoxes,
		LedgerConsistent: r.LedgerConsistent,
		CheckedAt:        r.CheckedAt,
	}
	for i, d := range r.Discrepancies {
		resp.Discrepancies[i] = &BoxReconciliationResponse{
			BoxID:              d.BoxID,
			CollectorID:        d.CollectorID,
			ServiceType:        d.ServiceType,
			ClosedBy:           d.ClosedBy,
			ClosingNotes:       d.ClosingNotes,
			TheoreticalCash:    d.TheoreticalCash,
			TheoreticalDigital: d.TheoreticalDigital,
			CountedCash:        d.CountedCash,
			CountedDigital:     d.CountedDigital,
			CashVariance:       d.CashVariance,
			DigitalVariance:    d.DigitalVariance,
			Variance:           d.Variance,
			VariancePct:        d.VariancePct,
			Severity:           d.Severity,
			IsReconciled:       d.IsReconciled,
		}
	}
	return resp
}

// ConsistencyResponse reports the ledger invariant counters.
type ConsistencyResponse struct {
	Status              string `json:"status"`
	Consistent          bool   `json:"consistent"`
	OpenWithCounts      int64  `json:"open_with_counts"`
	ClosedWithoutCounts int64  `json:"closed_without_counts"`
	NonPositiveEntries  int64  `json:"non_positive_entries"`
	BoxesChecked        int64  `json:"boxes_checked"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}
