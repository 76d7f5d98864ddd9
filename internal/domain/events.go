package domain

import "time"

// Event types
const (
	EventTypeRequestSubmitted = "cashbox_request.submitted"
	EventTypeRequestApproved  = "cashbox_request.approved"
	EventTypeRequestRejected  = "cashbox_request.rejected"
	EventTypeRequestCancelled = "cashbox_request.cancelled"
	EventTypeBoxOpened        = "cashbox.opened"
	EventTypeIncomeAdded      = "cashbox.income_added"
	EventTypeExpenseAdded     = "cashbox.expense_added"
	EventTypeExpenseRemoved   = "cashbox.expense_removed"
	EventTypeBoxClosed        = "cashbox.closed"
)

// Aggregate types
const (
	AggregateTypeRequest = "cashbox_request"
	AggregateTypeBox     = "cashbox"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// RequestEventPayload is the payload of every request lifecycle event.
func RequestEventPayload(r *CashBoxRequest) map[string]any {
	p := map[string]any{
		"request_id":   r.ID,
		"collector_id": r.CollectorID,
		"work_date":    FormatWorkDate(r.WorkDate),
		"status":       string(r.Status),
		"cash":         r.RequestedInitialCash.Cash.String(),
		"digital":      r.RequestedInitialCash.DigitalTotal().String(),
	}
	if r.ApprovedBy != "" {
		p["processed_by"] = r.ApprovedBy
	}
	if r.RejectionReason != "" {
		p["rejection_reason"] = r.RejectionReason
	}
	return p
}

// BoxOpenedPayload describes a newly opened box.
func BoxOpenedPayload(b *CashBox) map[string]any {
	return map[string]any{
		"box_id":        b.ID,
		"collector_id":  b.CollectorID,
		"service_type":  b.ServiceType,
		"work_date":     FormatWorkDate(b.WorkDate),
		"opening_cash":  b.OpeningFloat.Cash.String(),
		"opening_total": b.OpeningFloat.Total().String(),
		"request_id":    b.RequestID,
		"override":      b.Override,
		"opened_by":     b.OpenedBy,
	}
}

// IncomeAddedPayload describes an appended income entry.
func IncomeAddedPayload(boxID string, e IncomeEntry) map[string]any {
	return map[string]any{
		"box_id":     boxID,
		"entry_id":   e.ID,
		"seq":        e.Seq,
		"payment_id": e.PaymentID,
		"client_id":  e.ClientID,
		"amount":     e.Amount.String(),
		"channel":    string(e.Channel),
	}
}

// ExpensePayload describes an appended or removed expense entry.
func ExpensePayload(boxID string, e ExpenseEntry) map[string]any {
	return map[string]any{
		"box_id":   boxID,
		"entry_id": e.ID,
		"seq":      e.Seq,
		"concept":  e.Concept,
		"amount":   e.Amount.String(),
	}
}

// BoxClosedPayload describes a closed box and its variance.
func BoxClosedPayload(b *CashBox, rec Reconciliation) map[string]any {
	return map[string]any{
		"box_id":           b.ID,
		"collector_id":     b.CollectorID,
		"work_date":        FormatWorkDate(b.WorkDate),
		"closed_by":        b.ClosedBy,
		"counted_cash":     rec.CountedCash.String(),
		"counted_digital":  rec.CountedDigital.String(),
		"cash_variance":    rec.CashVariance.String(),
		"digital_variance": rec.DigitalVariance.String(),
		"variance":         rec.Variance.String(),
		"severity":         string(rec.Severity),
	}
}
