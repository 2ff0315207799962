package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// decodeBodyQuiet decodes an optional body, treating an empty body or
// decode failure as absent rather than an error.
func decodeBodyQuiet(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// listQueryFromRequest builds the derived-list query from URL parameters.
// Role and viewer come from the session, never from the client.
func listQueryFromRequest(r *http.Request, role, viewerID string) view.Query {
	q := r.URL.Query()
	return view.Query{
		Role:          role,
		ViewerID:      viewerID,
		ServiceFilter: q.Get("service"),
		Tab:           q.Get("tab"),
		Search:        q.Get("search"),
		Status:        q.Get("status"),
		SortKey:       view.SortKey(q.Get("sort")),
		SortAsc:       q.Get("order") != "desc",
	}
}

// handleServiceError maps domain errors to HTTP responses.
func handleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	var validation *domain.ErrValidation
	var unauthorized *domain.ErrUnauthorized
	var forbidden *domain.ErrForbidden
	var notFound *domain.ErrNotFound
	var conflict *domain.ErrConflict
	var paymentFailed *domain.ErrPaymentFailed
	var depositUnrecorded *domain.ErrDepositUnrecorded
	var timeout *domain.ErrTimeout
	var circuitOpen *domain.ErrCircuitOpen
	var external *domain.ErrExternalService

	switch {
	case errors.As(err, &validation):
		logger.Debug("validation error", zap.String("error", err.Error()))
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &unauthorized):
		logger.Warn("unauthorized", zap.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &forbidden):
		logger.Warn("forbidden access", zap.String("error", err.Error()))
		writeError(w, http.StatusForbidden, err.Error())
	case errors.As(err, &notFound):
		logger.Debug("not found", zap.String("error", err.Error()))
		writeError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &conflict):
		logger.Debug("conflict", zap.String("error", err.Error()))
		writeError(w, http.StatusConflict, err.Error())
	case errors.As(err, &paymentFailed):
		logger.Warn("payment declined",
			zap.String("quote_id", paymentFailed.QuoteID),
			zap.String("reason", paymentFailed.Reason),
		)
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.As(err, &depositUnrecorded):
		// Money moved but the quote was not updated. Surface a distinct
		// code so the client can show the support path, not a retry.
		logger.Error("deposit unrecorded",
			zap.String("quote_id", depositUnrecorded.QuoteID),
			zap.String("payment_intent_id", depositUnrecorded.PaymentIntentID),
			zap.Error(depositUnrecorded.Err),
		)
		writeJSON(w, http.StatusBadGateway, errorResponse{
			Error: "payment succeeded but the estimate could not be updated; contact support",
			Code:  "deposit_unrecorded",
		})
	case errors.As(err, &timeout):
		logger.Error("request timeout", zap.Error(err))
		writeError(w, http.StatusGatewayTimeout, err.Error())
	case errors.As(err, &circuitOpen):
		logger.Error("circuit breaker open", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.As(err, &external):
		logger.Error("upstream failure", zap.String("service", external.Service), zap.Error(err))
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		logger.Error("unhandled error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
