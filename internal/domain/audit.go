package domain

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit trail entry for supervisor actions
type AuditLog struct {
	ID           string
	UserID       string // Who performed the action
	Action       string // What action (cashbox.close, cashbox_request.approve, etc.)
	ResourceType string // cashbox or cashbox_request
	ResourceID   string
	RequestID    string // HTTP request id for tracing
	BeforeState  JSON
	AfterState   JSON
	Status       string
	ErrorMessage string
	CreatedAt    time.Time
}

// JSON is a type alias for JSON data
type JSON map[string]any

// AuditAction represents different types of auditable actions
type AuditAction string

const (
	// Request actions
	AuditActionRequestSubmit  AuditAction = "cashbox_request.submit"
	AuditActionRequestApprove AuditAction = "cashbox_request.approve"
	AuditActionRequestReject  AuditAction = "cashbox_request.reject"
	AuditActionRequestCancel  AuditAction = "cashbox_request.cancel"

	// Box actions
	AuditActionBoxOpen         AuditAction = "cashbox.open"
	AuditActionBoxOpenOverride AuditAction = "cashbox.open_override"
	AuditActionBoxClose        AuditAction = "cashbox.close"
	AuditActionExpenseRemove   AuditAction = "cashbox.expense_remove"
)

// Resource types
const (
	ResourceTypeRequest = "cashbox_request"
	ResourceTypeBox     = "cashbox"
)

// AuditStatus represents the status of an audited action
type AuditStatus string

const (
	AuditStatusSuccess AuditStatus = "success"
	AuditStatusFailure AuditStatus = "failure"
	AuditStatusError   AuditStatus = "error"
)

// MarshalState converts a domain object to JSON for audit logging
func MarshalState(v any) JSON {
	if v == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return JSON{"error": "failed to marshal state"}
	}

	var result JSON
	if err := json.Unmarshal(data, &result); err != nil {
		return JSON{"error": "failed to unmarshal state"}
	}

	return result
}

// AuditFilter defines filters for querying audit logs
type AuditFilter struct {
	UserID       string
	Action       string
	ResourceType string
	ResourceID   string
	StartDate    *time.Time
	EndDate      *time.Time
	Limit        int
	Offset       int
}
