package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var dashboardTracer = otel.Tracer("service/dashboard")

// DashboardStats is the admin landing-page summary.
type DashboardStats struct {
	PendingQuotes  int     `json:"pendingQuotes"`
	ActiveJobs     int     `json:"activeJobs"`
	TotalRevenue   float64 `json:"totalRevenue"`
	ConversionRate float64 `json:"conversionRate"`
	EmployeeCount  int     `json:"employeeCount"`
}

// Dashboard aggregates stats across the quote, job and user services.
type Dashboard struct {
	quotes  port.QuoteStore
	jobs    port.JobStore
	users   port.UserStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewDashboard creates the dashboard service.
func NewDashboard(quotes port.QuoteStore, jobs port.JobStore, users port.UserStore, metrics *observability.Metrics, logger *zap.Logger) *Dashboard {
	return &Dashboard{quotes: quotes, jobs: jobs, users: users, metrics: metrics, logger: logger}
}

// Stats fetches the three collections concurrently and derives the
// summary numbers. Any single upstream failure fails the whole call;
// partial dashboards mislead more than they help.
func (s *Dashboard) Stats(ctx context.Context) (*DashboardStats, error) {
	ctx, span := dashboardTracer.Start(ctx, "Dashboard.Stats")
	defer span.End()

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("dashboard", time.Since(start))
	}()

	var (
		quotes []domain.Quote
		jobs   []domain.Job
		users  []domain.User
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		q, err := s.quotes.ListQuotes(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("job-service")
			return err
		}
		quotes = q
		return nil
	})

	g.Go(func() error {
		j, err := s.jobs.ListJobs(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("job-service")
			return err
		}
		jobs = j
		return nil
	})

	g.Go(func() error {
		u, err := s.users.ListUsers(gCtx)
		if err != nil {
			s.metrics.IncrExternalError("user-service")
			return err
		}
		users = u
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard aggregation failed", zap.Error(err))
		return nil, err
	}

	return deriveStats(quotes, jobs, users), nil
}

func deriveStats(quotes []domain.Quote, jobs []domain.Job, users []domain.User) *DashboardStats {
	stats := &DashboardStats{}

	decided := 0
	won := 0
	for _, q := range quotes {
		switch q.Status {
		case domain.QuoteRequested, domain.QuoteEstimateSent:
			stats.PendingQuotes++
		case domain.QuoteApproved, domain.QuoteDepositPaid:
			decided++
			won++
			stats.TotalRevenue += q.TotalAmount
		case domain.QuoteRejected:
			decided++
		}
	}
	if decided > 0 {
		stats.ConversionRate = float64(won) / float64(decided)
	}

	for _, j := range jobs {
		if !j.Status.Terminal() {
			stats.ActiveJobs++
		}
	}

	for _, u := range users {
		if u.Role == domain.RoleEmployee {
			stats.EmployeeCount++
		}
	}

	return stats
}
