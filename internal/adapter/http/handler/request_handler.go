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

// RequestService defines the behavior needed by RequestHandler.
type RequestService interface {
	SubmitRequest(ctx context.Context, input usecase.SubmitRequestInput) (*domain.CashBoxRequest, error)
	Approve(ctx context.Context, requestID, approvedBy string) (*domain.CashBoxRequest, error)
	Reject(ctx context.Context, requestID, reason, rejectedBy string) (*domain.CashBoxRequest, error)
	Cancel(ctx context.Context, requestID, collectorID string) (*domain.CashBoxRequest, error)
	GetRequest(ctx context.Context, requestID string) (*domain.CashBoxRequest, error)
	ListPending(ctx context.Context) ([]*domain.CashBoxRequest, error)
	ListForCollector(ctx context.Context, collectorID string, dateRange *domain.DateRange) ([]*domain.CashBoxRequest, error)
	ApprovedRequest(ctx context.Context, collectorID string, workDate time.Time) (*domain.CashBoxRequest, error)
}

// RequestHandler handles opening request endpoints.
type RequestHandler struct {
	requestUC RequestService
	retrier   Retrier
	now       func() time.Time
}

// NewRequestHandler creates a new RequestHandler. A nil retrier runs each
// mutation once.
func NewRequestHandler(requestUC RequestService, retrier Retrier) *RequestHandler {
	if retrier == nil {
		retrier = noRetry{}
	}
	return &RequestHandler{
		requestUC: requestUC,
		retrier:   retrier,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Submit creates a pending request.
func (h *RequestHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req dto.SubmitRequestRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	req.CollectorID = actingID(r.Context(), req.CollectorID)

	input, err := req.ToUseCaseInput()
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	created, err := h.requestUC.SubmitRequest(r.Context(), input)
	if err != nil {
		writeDomainError(w, "failed to submit request", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.RequestFromDomain(created))
}

// ListPending lists every pending request, newest request date first.
func (h *RequestHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	requests, err := h.requestUC.ListPending(r.Context())
	if err != nil {
		writeDomainError(w, "failed to list pending requests", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRequestsResponse{
		Requests: dto.RequestsFromDomain(requests),
		Total:    len(requests),
	})
}

// Approval answers whether a collector holds an approved request for a
// work date.
func (h *RequestHandler) Approval(w http.ResponseWriter, r *http.Request) {
	collectorID := actingID(r.Context(), r.URL.Query().Get("collector_id"))
	if collectorID == "" {
		writeDomainError(w, "invalid request", domain.ErrMissingCollector)
		return
	}
	day, err := parseDateQuery(r, "work_date", h.now)
	if err != nil {
		writeDomainError(w, "invalid request", err)
		return
	}

	approved, err := h.requestUC.ApprovedRequest(r.Context(), collectorID, day)
	if err != nil {
		writeDomainError(w, "failed to check approval", err)
		return
	}

	resp := dto.ApprovalResponse{
		CollectorID: collectorID,
		WorkDate:    domain.FormatWorkDate(day),
		Approved:    approved != nil,
	}
	if approved != nil {
		resp.Request = dto.RequestFromDomain(approved)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Get retrieves a request by ID.
func (h *RequestHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing request ID", "")
		return
	}

	req, err := h.requestUC.GetRequest(r.Context(), id)
	if err != nil {
		writeDomainError(w, "failed to get request", err)
		return
	}
	if err := authorizeCollector(r.Context(), req.CollectorID); err != nil {
		writeDomainError(w, "failed to get request", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RequestFromDomain(req))
}

// Approve approves a pending request.
func (h *RequestHandler) Approve(w http.ResponseWriter, r *http.Request) {
	var body dto.ApproveRequestRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	approvedBy := actingID(r.Context(), body.ApprovedBy)

	h.process(w, r, "failed to approve request", func(ctx context.Context, id string) (*domain.CashBoxRequest, error) {
		return h.requestUC.Approve(ctx, id, approvedBy)
	})
}

// Reject rejects a pending request with a reason.
func (h *RequestHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var body dto.RejectRequestRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	rejectedBy := actingID(r.Context(), body.RejectedBy)

	h.process(w, r, "failed to reject request", func(ctx context.Context, id string) (*domain.CashBoxRequest, error) {
		return h.requestUC.Reject(ctx, id, body.Reason, rejectedBy)
	})
}

// Cancel withdraws a pending request on behalf of its collector.
func (h *RequestHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	var body dto.CancelRequestRequest
	if err := decode(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	collectorID := actingID(r.Context(), body.CollectorID)

	h.process(w, r, "failed to cancel request", func(ctx context.Context, id string) (*domain.CashBoxRequest, error) {
		return h.requestUC.Cancel(ctx, id, collectorID)
	})
}

func (h *RequestHandler) process(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	op func(ctx context.Context, id string) (*domain.CashBoxRequest, error),
) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing request ID", "")
		return
	}

	var out *domain.CashBoxRequest
	err := h.retrier.Retry(r.Context(), func() error {
		var err error
		out, err = op(r.Context(), id)
		return err
	})
	if err != nil {
		writeDomainError(w, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.RequestFromDomain(out))
}

// ListForCollector lists a collector's requests, newest first.
func (h *RequestHandler) ListForCollector(w http.ResponseWriter, r *http.Request) {
	collectorID := chi.URLParam(r, "collectorID")
	if err := authorizeCollector(r.Context(), collectorID); err != nil {
		writeDomainError(w, "failed to list requests", err)
		return
	}

	dr, err := parseRangeQuery(r)
	if err != nil {
		writeDomainError(w, "invalid date range", err)
		return
	}
	var rangeArg *domain.DateRange
	if dr.From != nil || dr.To != nil {
		rangeArg = &dr
	}

	requests, err := h.requestUC.ListForCollector(r.Context(), collectorID, rangeArg)
	if err != nil {
		writeDomainError(w, "failed to list requests", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListRequestsResponse{
		Requests: dto.RequestsFromDomain(requests),
		Total:    len(requests),
	})
}
