package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/service"
)

func listPagesHandler(svc *service.Content, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/content/pages")
		defer span.End()

		pages, err := svc.ListPages(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"pages": pages})
	}
}

func getPageHandler(svc *service.Content, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/content/pages/{slug}")
		defer span.End()

		slug := chi.URLParam(r, "slug")
		span.SetAttributes(attribute.String("page.slug", slug))

		page, err := svc.GetPageBySlug(ctx, slug)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

// savePageHandler serves both create (POST, no slug) and update (PUT
// with slug). The created page comes back so the editor can navigate to
// its new slug.
func savePageHandler(svc *service.Content, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "save /v1/content/pages")
		defer span.End()

		var req domain.SavePageRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		slug := chi.URLParam(r, "slug")
		page, err := svc.SavePage(ctx, slug, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		status := http.StatusOK
		if slug == "" {
			status = http.StatusCreated
		}
		writeJSON(w, status, page)
	}
}

func dashboardStatsHandler(svc *service.Dashboard, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/dashboard/stats")
		defer span.End()

		stats, err := svc.Stats(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, stats)
	}
}

func opsMetricsHandler(metrics *observability.Metrics) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.GetOpsSnapshot())
	}
}
