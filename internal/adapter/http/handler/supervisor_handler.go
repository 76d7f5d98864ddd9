package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/domain"
	"github.com/iho/cashbox/internal/usecase"
)

// SupervisorService defines the behavior needed by SupervisorHandler.
type SupervisorService interface {
	ListOpenBoxes(ctx context.Context, asOfDate time.Time) ([]*domain.CashBox, error)
	ListHistory(ctx context.Context, dateRange domain.DateRange) ([]*domain.CashBox, error)
	CloseBoxByID(ctx context.Context, boxID string, counts domain.ClosingCounts, closedBy, notes string) (*domain.CashBox, error)
	DailySummary(ctx context.Context, date time.Time) (*domain.DailySummary, error)
}

// ReconciliationService defines the behavior needed for daily reports.
type ReconciliationService interface {
	GenerateReport(ctx context.Context, date time.Time) (*usecase.ReconciliationReport, error)
}

// SupervisorHandler handles supervisor views across all collectors.
type SupervisorHandler struct {
	supervisorUC SupervisorService
	reconcileUC  ReconciliationService
	retrier      Retrier
	now          func() time.Time
}

// NewSupervisorHandler creates a new SupervisorHandler.
func NewSupervisorHandler(supervisorUC SupervisorService, reconcileUC ReconciliationService, retrier Retrier) *SupervisorHandler {
	if retrier == nil {
		retrier = noRetry{}
	}
	return &SupervisorHandler{
		supervisorUC: supervisorUC,
		reconcileUC:  reconcileUC,
		retrier:      retrier,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// OpenBoxes lists every open box of a work date (default today).
func (h *SupervisorHandler) OpenBoxes(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateQuery(r, "date", h.now)
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	boxes, err := h.supervisorUC.ListOpenBoxes(r.Context(), day)
	if err != nil {
		writeDomainError(w, "failed to list open boxes", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCashBoxesResponse{
		Boxes: dto.CashBoxesFromDomain(boxes),
		Total: len(boxes),
	})
}

// History lists closed boxes within a date range.
func (h *SupervisorHandler) History(w http.ResponseWriter, r *http.Request) {
	dr, err := parseRangeQuery(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}

	boxes, err := h.supervisorUC.ListHistory(r.Context(), dr)
	if err != nil {
		writeDomainError(w, "failed to list history", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListCashBoxesResponse{
		Boxes: dto.CashBoxesFromDomain(boxes),
		Total: len(boxes),
	})
}

// CloseBox closes any collector's box.
func (h *SupervisorHandler) CloseBox(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing cash box ID", "")
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
		box, err = h.supervisorUC.CloseBoxByID(r.Context(), id, req.Counts(), closedBy, req.Notes)
		return err
	})
	if err != nil {
		writeDomainError(w, "failed to close cash box", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.CashBoxFromDomain(box))
}

// Summary aggregates every box of a work date.
func (h *SupervisorHandler) Summary(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateQuery(r, "date", h.now)
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	summary, err := h.supervisorUC.DailySummary(r.Context(), day)
	if err != nil {
		writeDomainError(w, "failed to build summary", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.DailySummaryFromDomain(summary))
}

// Reconciliation reports discrepancies for a work date.
func (h *SupervisorHandler) Reconciliation(w http.ResponseWriter, r *http.Request) {
	day, err := parseDateQuery(r, "date", h.now)
	if err != nil {
		writeDomainError(w, "invalid date", err)
		return
	}

	report, err := h.reconcileUC.GenerateReport(r.Context(), day)
	if err != nil {
		writeDomainError(w, "failed to reconcile", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ReconciliationReportFromUseCase(report))
}
