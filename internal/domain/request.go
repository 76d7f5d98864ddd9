package domain

import (
	"strings"
	"time"
)

// RequestStatus is the lifecycle state of a cash box request.
type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "pending"
	RequestStatusApproved  RequestStatus = "approved"
	RequestStatusRejected  RequestStatus = "rejected"
	RequestStatusCancelled RequestStatus = "cancelled"
)

// IsValid checks if the status is known.
func (s RequestStatus) IsValid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected, RequestStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further transition is possible.
func (s RequestStatus) IsTerminal() bool {
	return s.IsValid() && s != RequestStatusPending
}

// CashBoxRequest is a collector's ask to open a box for one work date.
type CashBoxRequest struct {
	RequestDate          time.Time
	WorkDate             time.Time
	UpdatedAt            time.Time
	ApprovalDate         *time.Time
	CancelledAt          *time.Time
	ID                   string
	CollectorID          string
	CollectorName        string
	Notes                string
	Status               RequestStatus
	ApprovedBy           string
	RejectionReason      string
	RequestedInitialCash ChannelAmounts
}

// NewCashBoxRequest builds a pending request after validating its input.
func NewCashBoxRequest(id, collectorID, collectorName string, workDate time.Time, initial ChannelAmounts, notes string, now time.Time) (*CashBoxRequest, error) {
	if err := ValidateCollectorID(collectorID); err != nil {
		return nil, err
	}
	if workDate.IsZero() {
		return nil, ErrMissingWorkDate
	}
	if err := initial.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateNotes(notes); err != nil {
		return nil, err
	}

	return &CashBoxRequest{
		ID:                   id,
		CollectorID:          collectorID,
		CollectorName:        strings.TrimSpace(collectorName),
		RequestDate:          now,
		WorkDate:             WorkDate(workDate),
		RequestedInitialCash: initial,
		Notes:                strings.TrimSpace(notes),
		Status:               RequestStatusPending,
		UpdatedAt:            now,
	}, nil
}

// IsPending reports whether the request can still change.
func (r *CashBoxRequest) IsPending() bool {
	return r.Status == RequestStatusPending
}

// Approve moves a pending request to approved.
func (r *CashBoxRequest) Approve(approvedBy string, at time.Time) error {
	if !r.IsPending() {
		return ErrRequestNotPending
	}
	if strings.TrimSpace(approvedBy) == "" {
		return ErrMissingApprover
	}

	r.Status = RequestStatusApproved
	r.ApprovedBy = approvedBy
	r.ApprovalDate = &at
	r.UpdatedAt = at
	return nil
}

// Reject moves a pending request to rejected. The approval fields record who
// processed it.
func (r *CashBoxRequest) Reject(reason, rejectedBy string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrEmptyRejection
	}
	if !r.IsPending() {
		return ErrRequestNotPending
	}
	if strings.TrimSpace(rejectedBy) == "" {
		return ErrMissingApprover
	}

	r.Status = RequestStatusRejected
	r.RejectionReason = reason
	r.ApprovedBy = rejectedBy
	r.ApprovalDate = &at
	r.UpdatedAt = at
	return nil
}

// Cancel withdraws a pending request. Only the requesting collector may cancel.
func (r *CashBoxRequest) Cancel(collectorID string, at time.Time) error {
	if r.CollectorID != collectorID {
		return ErrNotRequestOwner
	}
	if !r.IsPending() {
		return ErrRequestNotPending
	}

	r.Status = RequestStatusCancelled
	r.CancelledAt = &at
	r.UpdatedAt = at
	return nil
}

// Clone returns a deep copy.
func (r *CashBoxRequest) Clone() *CashBoxRequest {
	if r == nil {
		return nil
	}
	c := *r
	if r.ApprovalDate != nil {
		t := *r.ApprovalDate
		c.ApprovalDate = &t
	}
	if r.CancelledAt != nil {
		t := *r.CancelledAt
		c.CancelledAt = &t
	}
	return &c
}

// RequestFilter narrows request listings.
type RequestFilter struct {
	Status      *RequestStatus
	CollectorID string
	WorkDate    *time.Time
	Range       DateRange
	Limit       int
}

// Matches reports whether the request satisfies the filter. Range applies to
// the submission date.
func (f RequestFilter) Matches(r *CashBoxRequest) bool {
	if f.Status != nil && r.Status != *f.Status {
		return false
	}
	if f.CollectorID != "" && r.CollectorID != f.CollectorID {
		return false
	}
	if f.WorkDate != nil && !WorkDate(r.WorkDate).Equal(WorkDate(*f.WorkDate)) {
		return false
	}
	return f.Range.Contains(r.RequestDate)
}
