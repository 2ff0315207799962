package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/session"
)

// Deps holds everything the router wires together.
type Deps struct {
	Intake     *service.Intake
	Estimates  *service.Estimates
	Approvals  *service.Approvals
	Jobs       *service.Jobs
	Users      *service.Users
	Content    *service.Content
	Dashboard  *service.Dashboard
	Media      *service.Media
	Guard      *session.Guard
	Metrics    *observability.Metrics
	Logger     *zap.Logger
	CORSOrigin []string
}

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.TracingMiddleware)
	r.Use(observability.RequestLogger(d.Logger))
	r.Use(metricsMiddleware(d.Metrics))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.CORSOrigin,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Operational endpoints.
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/readyz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})
	r.Handle("/metrics", promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{}))

	admin := RequireRoles(d.Guard, d.Logger, string(domain.RoleAdmin))
	staff := RequireRoles(d.Guard, d.Logger, string(domain.RoleAdmin), string(domain.RoleEmployee))
	authed := RequireRoles(d.Guard, d.Logger)

	r.Route("/v1", func(r chi.Router) {

		// Public client: intake, service pages and the magic-link
		// estimate decision flow. No session required.
		r.Post("/quotes/request", submitQuoteRequestHandler(d.Intake, d.Logger))
		r.Get("/content/pages", listPagesHandler(d.Content, d.Logger))
		r.Get("/content/pages/{slug}", getPageHandler(d.Content, d.Logger))
		r.Route("/public/estimates", func(r chi.Router) {
			r.Get("/{quoteId}", getPublicEstimateHandler(d.Approvals, d.Logger))
			r.Post("/{quoteId}/approve", approveEstimateHandler(d.Approvals, d.Logger))
			r.Post("/{quoteId}/reject", rejectEstimateHandler(d.Approvals, d.Logger))
		})

		r.Post("/auth/login", loginHandler(d.Users, d.Logger))
		r.Group(func(r chi.Router) {
			r.Use(authed)
			r.Post("/auth/change-password", changePasswordHandler(d.Users, d.Logger))
			r.Get("/session", sessionHandler())
		})

		// Admin-only surface.
		r.Group(func(r chi.Router) {
			r.Use(admin)

			r.Route("/quotes", func(r chi.Router) {
				r.Get("/", listQuotesHandler(d.Estimates, d.Logger))
				r.Get("/{quoteId}", getQuoteDetailHandler(d.Estimates, d.Logger))
				r.Put("/{quoteId}", saveQuoteDraftHandler(d.Estimates, d.Logger))
				r.Post("/{quoteId}/send", sendEstimateHandler(d.Estimates, d.Logger))
				r.Put("/{quoteId}/status", setQuoteStatusHandler(d.Approvals, d.Logger))
			})

			r.Route("/users", func(r chi.Router) {
				r.Get("/", listUsersHandler(d.Users, d.Logger))
				r.Post("/", createUserHandler(d.Users, d.Logger))
				r.Put("/{userId}", updateUserHandler(d.Users, d.Logger))
				r.Delete("/{userId}", deleteUserHandler(d.Users, d.Logger))
			})

			r.Post("/content/pages", savePageHandler(d.Content, d.Logger))
			r.Put("/content/pages/{slug}", savePageHandler(d.Content, d.Logger))

			r.Get("/dashboard/stats", dashboardStatsHandler(d.Dashboard, d.Logger))
			r.Get("/metrics/ops", opsMetricsHandler(d.Metrics))
		})

		// Admin and field staff; employee visibility is narrowed inside
		// the job service, not here.
		r.Group(func(r chi.Router) {
			r.Use(staff)

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", listJobsHandler(d.Jobs, d.Logger))
				r.Get("/calendar", jobCalendarHandler(d.Jobs, d.Logger))
				r.Get("/availability", availabilityHandler(d.Jobs, d.Logger))
				r.Get("/{jobId}", getJobHandler(d.Jobs, d.Logger))
				r.Put("/{jobId}/schedule", scheduleJobHandler(d.Jobs, d.Logger))
				r.Put("/{jobId}/status", setJobStatusHandler(d.Jobs, d.Logger))
				r.Post("/{jobId}/checkin", checkInHandler(d.Jobs, d.Logger))
				r.Post("/{jobId}/visits/{visitId}/checkout", checkOutHandler(d.Jobs, d.Logger))
				r.Put("/visits/{visitId}", updateVisitHandler(d.Jobs, d.Logger))
			})

			r.Post("/uploads", uploadHandler(d.Media, d.Logger))
		})
	})

	return r
}
