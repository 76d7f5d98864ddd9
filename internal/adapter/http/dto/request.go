package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

// SubmitRequestRequest represents a collector asking to open a box.
type SubmitRequestRequest struct {
	CollectorID          string                `json:"collector_id"`
	CollectorName        string                `json:"collector_name"`
	WorkDate             string                `json:"work_date"`
	Notes                string                `json:"notes,omitempty"`
	RequestedInitialCash domain.ChannelAmounts `json:"requested_initial_cash"`
}

// ToUseCaseInput converts to use case input.
func (r *SubmitRequestRequest) ToUseCaseInput() (usecase.SubmitRequestInput, error) {
	day, err := domain.ParseWorkDate(r.WorkDate)
	if err != nil {
		return usecase.SubmitRequestInput{}, err
	}
	return usecase.SubmitRequestInput{
		WorkDate:             day,
		CollectorID:          r.CollectorID,
		CollectorName:        r.CollectorName,
		Notes:                r.Notes,
		RequestedInitialCash: r.RequestedInitialCash,
	}, nil
}

// ApproveRequestRequest carries the approving supervisor when no token
// identifies one.
type ApproveRequestRequest struct {
	ApprovedBy string `json:"approved_by"`
}

// RejectRequestRequest represents a rejection.
type RejectRequestRequest struct {
	Reason     string `json:"reason"`
	RejectedBy string `json:"rejected_by"`
}

// CancelRequestRequest represents a collector withdrawing a request.
type CancelRequestRequest struct {
	CollectorID string `json:"collector_id"`
}

// OpenBoxRequest represents a request to open a box.
type OpenBoxRequest struct {
	CollectorID  string                 `json:"collector_id"`
	WorkDate     string                 `json:"work_date"`
	ServiceType  string                 `json:"service_type,omitempty"`
	OpeningFloat *domain.ChannelAmounts `json:"opening_float,omitempty"`
	OpenedBy     string                 `json:"opened_by,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *OpenBoxRequest) ToUseCaseInput() (usecase.OpenBoxInput, error) {
	day, err := domain.ParseWorkDate(r.WorkDate)
	if err != nil {
		return usecase.OpenBoxInput{}, err
	}
	return usecase.OpenBoxInput{
		WorkDate:     day,
		OpeningFloat: r.OpeningFloat,
		CollectorID:  r.CollectorID,
		ServiceType:  r.ServiceType,
		OpenedBy:     r.OpenedBy,
	}, nil
}

// ActorRequest names an actor inside a request body.
type ActorRequest struct {
	ID   string      `json:"id"`
	Name string      `json:"name,omitempty"`
	Role domain.Role `json:"role"`
}

// Actor converts to the domain identity.
func (a ActorRequest) Actor() domain.Actor {
	return domain.Actor{ID: a.ID, Name: a.Name, Role: a.Role}
}

// OverrideOpenRequest opens a box on a supervisor's authority.
type OverrideOpenRequest struct {
	OpenBoxRequest
	Supervisor *ActorRequest `json:"supervisor,omitempty"`
}

// IncomeRequest represents a manually booked income entry.
type IncomeRequest struct {
	PaymentID   string          `json:"payment_id,omitempty"`
	ClientID    string          `json:"client_id,omitempty"`
	ClientName  string          `json:"client_name,omitempty"`
	Channel     string          `json:"channel"`
	ServiceType string          `json:"service_type,omitempty"`
	Concept     string          `json:"concept,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *IncomeRequest) ToUseCaseInput() (usecase.IncomeInput, error) {
	ch, err := domain.ParseChannel(r.Channel)
	if err != nil {
		return usecase.IncomeInput{}, err
	}
	return usecase.IncomeInput{
		PaymentID:   r.PaymentID,
		ClientID:    r.ClientID,
		ClientName:  r.ClientName,
		Channel:     ch,
		ServiceType: r.ServiceType,
		Concept:     r.Concept,
		Amount:      r.Amount,
	}, nil
}

// CollectionRequest marks a bill paid and books it as income.
type CollectionRequest struct {
	PaymentID   string          `json:"payment_id"`
	ClientID    string          `json:"client_id"`
	Channel     string          `json:"channel"`
	ServiceType string          `json:"service_type,omitempty"`
	Concept     string          `json:"concept,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *CollectionRequest) ToUseCaseInput() (usecase.CollectionInput, error) {
	ch, err := domain.ParseChannel(r.Channel)
	if err != nil {
		return usecase.CollectionInput{}, err
	}
	return usecase.CollectionInput{
		PaymentID:   r.PaymentID,
		ClientID:    r.ClientID,
		Channel:     ch,
		ServiceType: r.ServiceType,
		Concept:     r.Concept,
		Amount:      r.Amount,
	}, nil
}

// ExpenseRequest represents an expense paid from the box.
type ExpenseRequest struct {
	Concept     string          `json:"concept"`
	ServiceType string          `json:"service_type,omitempty"`
	Description string          `json:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
}

// ToUseCaseInput converts to use case input.
func (r *ExpenseRequest) ToUseCaseInput() usecase.ExpenseInput {
	return usecase.ExpenseInput{
		Concept:     r.Concept,
		ServiceType: r.ServiceType,
		Description: r.Description,
		Amount:      r.Amount,
	}
}

// CloseBoxRequest carries the physical counts taken at close.
type CloseBoxRequest struct {
	CountedCash    decimal.Decimal `json:"counted_cash"`
	CountedDigital decimal.Decimal `json:"counted_digital"`
	ClosedBy       string          `json:"closed_by,omitempty"`
	Notes          string          `json:"notes,omitempty"`
}

// Counts returns the closing counts.
func (r *CloseBoxRequest) Counts() domain.ClosingCounts {
	return domain.ClosingCounts{Cash: r.CountedCash, Digital: r.CountedDigital}
}
