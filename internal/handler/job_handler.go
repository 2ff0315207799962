package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/session"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

const dateParamLayout = "2006-01-02"

func listJobsHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/jobs")
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

func jobCalendarHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/jobs/calendar")
		defer span.End()

		mode := view.MonthView
		if r.URL.Query().Get("mode") == string(view.WeekView) {
			mode = view.WeekView
		}
		cursor := time.Now()
		if raw := r.URL.Query().Get("cursor"); raw != "" {
			parsed, err := time.Parse(dateParamLayout, raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, "cursor must be formatted YYYY-MM-DD")
				return
			}
			cursor = parsed
		}
		span.SetAttributes(attribute.String("calendar.mode", string(mode)))

		sess := session.FromContext(ctx)
		cal, err := svc.Calendar(ctx, listQueryFromRequest(r, sess.Role, sess.UserID), cursor, mode)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, cal)
	}
}

func availabilityHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/jobs/availability")
		defer span.End()

		date, err := time.Parse(dateParamLayout, r.URL.Query().Get("date"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be formatted YYYY-MM-DD")
			return
		}

		users, err := svc.Availability(ctx, date, r.URL.Query().Get("excludeJobId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"employees": users})
	}
}

func getJobHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/jobs/{jobId}")
		defer span.End()

		job, err := svc.Get(ctx, chi.URLParam(r, "jobId"))
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, job)
	}
}

func scheduleJobHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/jobs/{jobId}/schedule")
		defer span.End()

		var req domain.ScheduleJobRequest
		if !decodeJSON(w, r, &req) {
			return
		}

		if err := svc.Schedule(ctx, chi.URLParam(r, "jobId"), &req); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func setJobStatusHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/jobs/{jobId}/status")
		defer span.End()

		var body struct {
			Status string `json:"status"`
		}
		if !decodeJSON(w, r, &body) {
			return
		}
		status, ok := domain.ParseJobStatus(body.Status)
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown job status")
			return
		}

		if err := svc.SetStatus(ctx, chi.URLParam(r, "jobId"), status); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// checkInHandler opens a visit. Field staff check themselves in; an
// admin may check in another employee by naming them in the body.
func checkInHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/jobs/{jobId}/checkin")
		defer span.End()

		var body struct {
			EmployeeID string `json:"employeeId"`
		}
		// The body is optional for self check-in.
		_ = decodeBodyQuiet(r, &body)

		sess := session.FromContext(ctx)
		employeeID := body.EmployeeID
		if employeeID == "" {
			employeeID = sess.UserID
		}
		if sess.Role == string(domain.RoleEmployee) && employeeID != sess.UserID {
			writeError(w, http.StatusForbidden, "employees may only check in themselves")
			return
		}

		visit, err := svc.CheckIn(ctx, chi.URLParam(r, "jobId"), employeeID)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusCreated, visit)
	}
}

func checkOutHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/jobs/{jobId}/visits/{visitId}/checkout")
		defer span.End()

		var update domain.VisitUpdate
		if !decodeJSON(w, r, &update) {
			return
		}

		result, err := svc.CheckOut(ctx, chi.URLParam(r, "jobId"), chi.URLParam(r, "visitId"), &update)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func updateVisitHandler(svc *service.Jobs, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PUT /v1/jobs/visits/{visitId}")
		defer span.End()

		var update domain.VisitUpdate
		if !decodeJSON(w, r, &update) {
			return
		}

		if err := svc.UpdateVisit(ctx, chi.URLParam(r, "visitId"), &update); err != nil {
			handleServiceError(w, err, logger)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
