package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/usecase"
)

// LedgerService defines the behavior needed by LedgerHandler.
type LedgerService interface {
	Stats(ctx context.Context) (usecase.ConsistencyStats, error)
}

// LedgerHandler handles ledger-wide operations.
type LedgerHandler struct {
	ledgerUC LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerUC LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerUC: ledgerUC}
}

// CheckConsistency checks if the ledger is consistent.
func (h *LedgerHandler) CheckConsistency(w http.ResponseWriter, r *http.Request) {
	stats, err := h.ledgerUC.Stats(r.Context())
	resp := dto.ConsistencyResponse{
		Status:              "consistent",
		Consistent:          true,
		OpenWithCounts:      stats.OpenWithCounts,
		ClosedWithoutCounts: stats.ClosedWithoutCounts,
		NonPositiveEntries:  stats.NonPositiveEntries,
		BoxesChecked:        stats.BoxesChecked,
	}
	if err != nil {
		if errors.Is(err, usecase.ErrInconsistentLedger) {
			resp.Status = "inconsistent"
			resp.Consistent = false
			writeJSON(w, http.StatusConflict, resp)
			return
		}
		writeDomainError(w, "failed to check consistency", err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
