package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/session"
)

var tracer = otel.Tracer("handler")

// ============================================================
// Public intake — POST /v1/quotes/request
// ============================================================

func submitQuoteRequestHandler(svc *service.Intake, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/quotes/request")
		defer span.End()

		var form service.QuoteFormSubmission
		if !decodeJSON(w, r, &form) {
			return
		}
		span.SetAttributes(attribute.String("quote.service_type", form.ServiceType))

		quote, err := svc.Submit(ctx, &form)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, quote)
	}
}

// ============================================================
// Admin quotes — /v1/quotes
// ============================================================

func listQuotesHandler(svc *service.Estimates, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/quotes")
		defer span.End()

		sess := session.FromContext(ctx)
		result, err := svc.List(ctx, listQueryFromRequest(r, sess.Role, sess.UserID))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func getQuoteDetailHandler(svc *service.Estimates, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/quotes/{quoteId}")
		defer span.End()

		detail, err := svc.GetDetail(ctx, chi.URLParam(r, "quoteId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, detail)
	}
}

func saveQuoteDraftHandler(svc *service.Estimates, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/quotes/{quoteId}")
		defer span.End()

		var req domain.CreateQuoteRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.SaveDraft(ctx, chi.URLParam(r, "quoteId"), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func sendEstimateHandler(svc *service.Estimates, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/quotes/{quoteId}/send")
		defer span.End()

		if err := svc.Send(ctx, chi.URLParam(r, "quoteId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setQuoteStatusHandler(svc *service.Approvals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/quotes/{quoteId}/status")
		defer span.End()

		var body struct {
			Status string `json:"status"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		status, ok := domain.ParseQuoteStatus(body.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown quote status")
			return
		}

		if err := svc.SetStatus(ctx, chi.URLParam(r, "quoteId"), status); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// ============================================================
// Public estimate decision — /v1/public/estimates
// ============================================================

func getPublicEstimateHandler(svc *service.Approvals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/public/estimates/{quoteId}")
		defer span.End()

		estimate, err := svc.GetPublicEstimate(ctx, chi.URLParam(r, "quoteId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, estimate)
	}
}

func approveEstimateHandler(svc *service.Approvals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/public/estimates/{quoteId}/approve")
		defer span.End()

		var req service.PaymentRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		quote, err := svc.ApproveAndPay(ctx, chi.URLParam(r, "quoteId"), &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, quote)
	}
}

func rejectEstimateHandler(svc *service.Approvals, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/public/estimates/{quoteId}/reject")
		defer span.End()

		if err := svc.Reject(ctx, chi.URLParam(r, "quoteId")); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
