// Package respond writes JSON bodies and maps service errors to status codes.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/batchpos/internal/apperr"
	"github.com/MrJamesThe3rd/batchpos/internal/money"
)

// errorResponse is the body of every non-2xx JSON reply.
type errorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	Available *int   `json:"available,omitempty"`
	Requested any    `json:"requested,omitempty"`
	Balance   any    `json:"balance,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// Error picks the status for err. Anything that is not a known client error is logged
// and reported as a generic 500.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var (
		vErr     *apperr.ValidationError
		stockErr *apperr.InsufficientStockError
		payErr   *apperr.OverpaymentError
	)

	if apperr.IsClientError(err) {
		slog.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "error", err)
	}

	switch {
	case errors.As(err, &vErr):
		JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Field: vErr.Field})
	case errors.Is(err, apperr.ErrNotFound):
		JSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
	case errors.As(err, &stockErr):
		JSON(w, http.StatusConflict, errorResponse{
			Error:     err.Error(),
			Available: &stockErr.Available,
			Requested: stockErr.Requested,
		})
	case errors.As(err, &payErr):
		JSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:     err.Error(),
			Balance:   money.Amount(payErr.Balance),
			Requested: money.Amount(payErr.Requested),
		})
	case errors.Is(err, apperr.ErrNothingToArchive),
		errors.Is(err, apperr.ErrProductInUse),
		errors.Is(err, apperr.ErrTransactionArchived),
		errors.Is(err, apperr.ErrInsufficientStock):
		JSON(w, http.StatusConflict, errorResponse{Error: err.Error()})
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		JSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// BadRequest reports a malformed request that never reached a service.
func BadRequest(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusBadRequest, errorResponse{Error: msg})
}

// Decode reads a JSON request body into v.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		BadRequest(w, "invalid request body: "+err.Error())
		return false
	}

	return true
}

// PathID parses the {id} URL parameter.
func PathID(w http.ResponseWriter, id string) (uuid.UUID, bool) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		BadRequest(w, "invalid id")
		return uuid.Nil, false
	}

	return parsed, true
}
