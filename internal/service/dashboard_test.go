package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/service"
)

func TestDashboardStatsDerivation(t *testing.T) {
	quotes := newMockQuoteStore()
	quotes.list = []domain.Quote{
		{ID: "q-1", Status: domain.QuoteRequested},
		{ID: "q-2", Status: domain.QuoteEstimateSent},
		{ID: "q-3", Status: domain.QuoteApproved, TotalAmount: 1000},
		{ID: "q-4", Status: domain.QuoteDepositPaid, TotalAmount: 2000},
		{ID: "q-5", Status: domain.QuoteRejected},
	}
	jobs := newMockJobStore(
		&domain.Job{ID: "j-1", Status: domain.JobScheduled},
		&domain.Job{ID: "j-2", Status: domain.JobInProgress},
		&domain.Job{ID: "j-3", Status: domain.JobCompleted},
		&domain.Job{ID: "j-4", Status: domain.JobInvoiced},
	)
	users := &mockUserStore{users: []domain.User{
		{ID: "u-1", Role: domain.RoleAdmin},
		{ID: "u-2", Role: domain.RoleEmployee},
		{ID: "u-3", Role: domain.RoleEmployee},
	}}

	svc := service.NewDashboard(quotes, jobs, users, observability.NewMetrics(), zap.NewNop())
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.PendingQuotes)
	assert.Equal(t, 2, stats.ActiveJobs)
	assert.InDelta(t, 3000.0, stats.TotalRevenue, 0.001)
	// Two wins out of three decided quotes.
	assert.InDelta(t, 2.0/3.0, stats.ConversionRate, 0.001)
	assert.Equal(t, 2, stats.EmployeeCount)
}

func TestDashboardStatsZeroDecidedQuotes(t *testing.T) {
	quotes := newMockQuoteStore()
	quotes.list = []domain.Quote{{ID: "q-1", Status: domain.QuoteRequested}}

	svc := service.NewDashboard(quotes, newMockJobStore(), &mockUserStore{}, observability.NewMetrics(), zap.NewNop())
	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)

	assert.Zero(t, stats.ConversionRate)
	assert.Equal(t, 1, stats.PendingQuotes)
}

func TestDashboardStatsFailsWhenAnyUpstreamFails(t *testing.T) {
	quotes := newMockQuoteStore()
	jobs := newMockJobStore()
	jobs.listErr = errUpstream

	svc := service.NewDashboard(quotes, jobs, &mockUserStore{}, observability.NewMetrics(), zap.NewNop())
	_, err := svc.Stats(context.Background())
	require.ErrorIs(t, err, errUpstream)
}
