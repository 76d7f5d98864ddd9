package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

// CashBoxService defines the behavior needed by CashBoxHandler.
type CashBoxService interface {
	OpenBox(ctx context.Context, input usecase.OpenBoxInput) (*domain.CashBox, error)
	OpenBoxOverride(ctx context.Context, input usecase.OpenBoxInput, supervisor domain.Actor) (*domain.CashBox, error)
	AddIncome(ctx context.Context, boxID string, input usecase.IncomeInput) (*domain.IncomeEntry, error)
	CollectPayment(ctx context.Context, boxID string, input usecase.CollectionInput) (*domain.IncomeEntry, error)
	AddExpense(ctx context.Context, boxID string, input usecase.ExpenseInput) (*domain.ExpenseEntry, error)
	RemoveExpense(ctx context.Context, boxID, expenseID string) error
	Close(ctx context.Context, boxID string, counts domain.ClosingCounts, closedBy, notes string) (*domain.CashBox, error)
	GetBox(ctx context.Context, boxID string) (*domain.CashBox, error)
	ComputeTotals(ctx context.Context, boxID string) (*domain.Totals, error)
}

// CashBoxHandler handles cash box endpoints.
type CashBoxHandler struct {
	boxUC   CashBoxService
	retrier Retrier
}

// NewCashBoxHandler creates a new CashBoxHandler. A nil retrier runs each
// mutation once.
func NewCashBoxHandler(boxUC CashBoxService, retrier Retrier) *CashBoxHandler {
	if retrier == nil {
		retrier = noRetry{}
	}
	return &CashBoxHandler{boxUC: boxUC, retrier: retrier}
}

// Open opens a box for a collector holding an approved request.
func (h *CashBoxHandler) Open(w http.ResponseWriter, r *http.Request) {
	var req dto.OpenBoxRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if req.CollectorID == "" {
		req.CollectorID = actingID(r.Context(), "")
	}
	if err := authorizeCollector(r.Context(), req.CollectorID); err != nil {
		writeDomainError(w, "failed to open cash box", err)
		return
	}
	req.OpenedBy = actingID(r.Context(), req.OpenedBy)

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	var box *domain.CashBox
	err = h.retrier.Retry(r.Context(), func() error {
		var err error
		box, err = h.boxUC.OpenBox(r.Context(), input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to open cash box", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashBoxFromDomain(box))
}

// OpenOverride opens a box without an approved request on a supervisor's
// authority.
func (h *CashBoxHandler) OpenOverride(w http.ResponseWriter, r *http.Request) {
	var req dto.OverrideOpenRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	supervisor, ok := domain.ActorFromContext(r.Context())
	if !ok && req.Supervisor != nil {
		supervisor = req.Supervisor.Actor()
	}

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	var box *domain.CashBox
	err = h.retrier.Retry(r.Context(), func() error {
		var err error
		box, err = h.boxUC.OpenBoxOverride(r.Context(), input, supervisor)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to open cash box", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.CashBoxFromDomain(box))
}

// Get retrieves a box with its entries.
func (h *CashBoxHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	box, err := h.boxUC.GetBox(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get cash box", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashBoxFromDomain(box))
}

// Totals returns the theoretical totals and, for a closed box, the
// reconciliation against the counts.
func (h *CashBoxHandler) Totals(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	totals, err := h.boxUC.ComputeTotals(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to compute totals", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TotalsFromDomain(totals))
}

// Breakdown groups a box's income by service category and by channel.
func (h *CashBoxHandler) Breakdown(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	box, err := h.boxUC.GetBox(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get cash box", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BreakdownResponse{
		BoxID:     box.ID,
		ByService: domain.BreakdownByServiceCategory(box),
		ByChannel: domain.BreakdownByChannel(box),
	})
}

// AddIncome books a manual income entry.
func (h *CashBoxHandler) AddIncome(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	var req dto.IncomeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	var entry *domain.IncomeEntry
	err = h.retrier.Retry(r.Context(), func() error {
		var err error
		entry, err = h.boxUC.AddIncome(r.Context(), id, input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to add income", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IncomeFromDomain(*entry))
}

// Collect marks a bill paid and books it as income.
func (h *CashBoxHandler) Collect(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	var req dto.CollectionRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	var entry *domain.IncomeEntry
	err = h.retrier.Retry(r.Context(), func() error {
		var err error
		entry, err = h.boxUC.CollectPayment(r.Context(), id, input)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to collect payment", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.IncomeFromDomain(*entry))
}

// AddExpense books an expense paid from the box.
func (h *CashBoxHandler) AddExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	var req dto.ExpenseRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	var entry *domain.ExpenseEntry
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		entry, err = h.boxUC.AddExpense(r.Context(), id, req.ToUseCaseInput())
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to add expense", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.ExpenseFromDomain(*entry))
}

// RemoveExpense deletes an expense from an open box. Removing an unknown
// expense succeeds.
func (h *CashBoxHandler) RemoveExpense(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}
	expenseID := chi.URLParam(r, "expenseID")

	err := h.retrier.Retry(r.Context(), func() error {
		return h.boxUC.RemoveExpense(r.Context(), id, expenseID)
	})
	if err != nil {
		writeDomainError(w, "failed to remove expense", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Close closes a box with the physical counts.
func (h *CashBoxHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := h.boxID(w, r)
	if !ok {
		return
	}

	var req dto.CloseBoxRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	closedBy := actingID(r.Context(), req.ClosedBy)

	var box *domain.CashBox
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		box, err = h.boxUC.Close(r.Context(), id, req.Counts(), closedBy, req.Notes)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to close cash box", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashBoxFromDomain(box))
}

// boxID reads the box id from the path and checks the caller may act on it.
func (h *CashBoxHandler) boxID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cash box ID", "")
		return "", false
	}
	if err := authorizeBox(r.Context(), id); err != nil {
		writeDomainError(w, "access denied", err)
		return "", false
	}
	return id, true
}
