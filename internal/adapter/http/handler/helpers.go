package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/cashbox/internal/adapter/http/dto"
	"github.com/iho/cashbox/internal/domain"
)

// Retrier reruns an operation that lost a database race.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

type noRetry struct{}

func (noRetry) Retry(ctx context.Context, operation func() error) error {
	return operation()
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeErrorCode(w, status, "", message, details)
}

func writeErrorCode(w http.ResponseWriter, status int, code, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Code:    code,
		Message: details,
	})
}

// writeDomainError maps err to a status and error code.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	status, code := mapDomainError(err)
	writeErrorCode(w, status, code, message, err.Error())
}

// mapDomainError maps domain error categories to HTTP status codes and
// stable error codes. Specific errors are checked before the category
// they wrap.
func mapDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrVersionConflict):
		return http.StatusConflict, "version_conflict"
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrExpiredToken):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrInsufficientRole):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrOpeningNotAuthorized):
		return http.StatusForbidden, "opening_not_authorized"
	case errors.Is(err, domain.ErrBoxNotOpen):
		return http.StatusConflict, "box_not_open"
	case errors.Is(err, domain.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate_request"
	case errors.Is(err, domain.ErrDuplicateBox):
		return http.StatusConflict, "duplicate_box"
	case errors.Is(err, domain.ErrInvalidState):
		return http.StatusUnprocessableEntity, "invalid_state"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusServiceUnavailable, "persistence_error"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}

// parseDateQuery parses a YYYY-MM-DD query parameter. A missing value
// yields today's work date.
func parseDateQuery(r *http.Request, key string, now func() time.Time) (time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return domain.WorkDate(now()), nil
	}
	return domain.ParseWorkDate(val)
}

// parseRangeQuery parses optional from/to query parameters.
func parseRangeQuery(r *http.Request) (domain.DateRange, error) {
	var dr domain.DateRange
	if v := r.URL.Query().Get("from"); v != "" {
		from, err := domain.ParseWorkDate(v)
		if err != nil {
			return dr, err
		}
		dr.From = &from
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to, err := domain.ParseWorkDate(v)
		if err != nil {
			return dr, err
		}
		dr.To = &to
	}
	return dr, dr.Validate()
}

// actingID returns the authenticated actor's id, or fallback when the
// request carries no identity.
func actingID(ctx context.Context, fallback string) string {
	if a, ok := domain.ActorFromContext(ctx); ok && a.ID != "" {
		return a.ID
	}
	return fallback
}

// authorizeCollector rejects an authenticated collector acting on another
// collector's work. Supervisors and unauthenticated callers pass.
func authorizeCollector(ctx context.Context, collectorID string) error {
	a, ok := domain.ActorFromContext(ctx)
	if !ok || a.CanSupervise() {
		return nil
	}
	if a.ID != collectorID {
		return domain.ErrInsufficientRole
	}
	return nil
}

// authorizeBox applies authorizeCollector to the collector encoded in a box id.
func authorizeBox(ctx context.Context, boxID string) error {
	if _, ok := domain.ActorFromContext(ctx); !ok {
		return nil
	}
	key, err := domain.ParseBoxID(boxID)
	if err != nil {
		return err
	}
	return authorizeCollector(ctx, key.CollectorID)
}

// decode reads a JSON body. An empty body leaves v untouched so that
// token-identified callers may omit it.
func decode(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
