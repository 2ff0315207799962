package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/service"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

func taxonomy() *mockContentStore {
	return &mockContentStore{pages: []domain.ServicePage{
		{ID: "pg-1", PageSlug: "landscaping", Title: "Landscaping"},
		{ID: "pg-2", PageSlug: "lawn-care", Title: "Lawn Care"},
	}}
}

func newJobsService(jobs *mockJobStore, users *mockUserStore) *service.Jobs {
	return service.NewJobs(jobs, users, taxonomy(), observability.NewMetrics(), zap.NewNop())
}

func TestJobsListAppliesEmployeeRestriction(t *testing.T) {
	store := newMockJobStore(
		&domain.Job{ID: "j-1", Title: "Landscaping patio", AssignedEmployeeID: "e-1", Status: domain.JobScheduled},
		&domain.Job{ID: "j-2", Title: "Lawn Care weekly", AssignedEmployeeID: "e-2", Status: domain.JobScheduled},
	)
	svc := newJobsService(store, &mockUserStore{})

	res, err := svc.List(context.Background(), view.Query{
		Role:     string(domain.RoleEmployee),
		ViewerID: "e-1",
	})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, "j-1", res.Rows[0].ID)
	assert.Equal(t, "Landscaping", res.Rows[0].Category)
}

func TestJobsScheduleCascadesPendingToScheduled(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobPending})
	svc := newJobsService(store, &mockUserStore{})

	err := svc.Schedule(context.Background(), "j-1", &domain.ScheduleJobRequest{
		JobID:              "j-1",
		AssignedEmployeeID: "e-1",
		StartTime:          "2024-01-10T08:00:00Z",
	})
	require.NoError(t, err)

	assert.Equal(t, "e-1", store.scheduled["j-1"].AssignedEmployeeID)
	assert.Equal(t, domain.JobScheduled, store.statusSet["j-1"])
}

func TestJobsScheduleLeavesNonPendingStatusAlone(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobInProgress})
	svc := newJobsService(store, &mockUserStore{})

	err := svc.Schedule(context.Background(), "j-1", &domain.ScheduleJobRequest{
		JobID: "j-1", AssignedEmployeeID: "e-1",
	})
	require.NoError(t, err)
	assert.Empty(t, store.statusSet)
}

func TestJobsScheduleRequiresEmployee(t *testing.T) {
	svc := newJobsService(newMockJobStore(), &mockUserStore{})

	err := svc.Schedule(context.Background(), "j-1", &domain.ScheduleJobRequest{JobID: "j-1"})
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "assignedEmployeeId", verr.Field)
}

func TestJobsCheckInOpensVisitAndCascades(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobScheduled, AssignedEmployeeID: "e-1"})
	svc := newJobsService(store, &mockUserStore{})

	visit, err := svc.CheckIn(context.Background(), "j-1", "e-1")
	require.NoError(t, err)
	assert.Equal(t, "v-new", visit.ID)
	assert.Equal(t, domain.JobInProgress, store.statusSet["j-1"])
}

func TestJobsCheckInFailsLocallyWithoutEmployee(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobScheduled})
	svc := newJobsService(store, &mockUserStore{})

	_, err := svc.CheckIn(context.Background(), "j-1", "")
	var verr *domain.ErrValidation
	require.ErrorAs(t, err, &verr)

	// Validation failed before any upstream call.
	assert.Empty(t, store.checkIns)
}

func TestJobsCheckInRejectsSecondActiveVisit(t *testing.T) {
	store := newMockJobStore(&domain.Job{
		ID:                 "j-1",
		Status:             domain.JobInProgress,
		AssignedEmployeeID: "e-1",
		Visits: []domain.JobVisit{
			{ID: "v-1", CheckInTime: time.Now().Add(-time.Hour)},
		},
	})
	svc := newJobsService(store, &mockUserStore{})

	_, err := svc.CheckIn(context.Background(), "j-1", "e-1")
	var conflict *domain.ErrConflict
	require.ErrorAs(t, err, &conflict)
	assert.Empty(t, store.checkIns)
}

func TestJobsCheckOutClosesVisitAndSuggestsCompletion(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobInProgress, AssignedEmployeeID: "e-1"})
	svc := newJobsService(store, &mockUserStore{})

	res, err := svc.CheckOut(context.Background(), "j-1", "v-1", &domain.VisitUpdate{
		Notes: "done for today",
		Tasks: []string{"mow", "edge"},
	})
	require.NoError(t, err)

	require.NotNil(t, store.visits["v-1"].EndTime)
	assert.True(t, res.SuggestCompletion)
}

func TestJobsCheckOutNoSuggestionWhenNotInProgress(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Status: domain.JobScheduled})
	svc := newJobsService(store, &mockUserStore{})

	res, err := svc.CheckOut(context.Background(), "j-1", "v-1", &domain.VisitUpdate{})
	require.NoError(t, err)
	assert.False(t, res.SuggestCompletion)
}

func TestJobsUpdateVisitNeverCloses(t *testing.T) {
	store := newMockJobStore()
	svc := newJobsService(store, &mockUserStore{})

	now := time.Now()
	err := svc.UpdateVisit(context.Background(), "v-1", &domain.VisitUpdate{
		Notes:   "progress",
		EndTime: &now, // must be stripped
	})
	require.NoError(t, err)
	assert.Nil(t, store.visits["v-1"].EndTime)
}

func TestJobsAvailability(t *testing.T) {
	jan10 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	store := newMockJobStore(&domain.Job{
		ID: "j-1", AssignedEmployeeID: "e-1", ScheduledDate: &jan10, Status: domain.JobScheduled,
	})
	users := &mockUserStore{users: []domain.User{
		{ID: "e-1", Role: domain.RoleEmployee},
		{ID: "e-2", Role: domain.RoleEmployee},
	}}
	svc := newJobsService(store, users)

	available, err := svc.Availability(context.Background(), jan10, "")
	require.NoError(t, err)
	require.Len(t, available, 1)
	assert.Equal(t, "e-2", available[0].ID)
}

func TestJobsCalendarRestrictsBeforeBucketing(t *testing.T) {
	jan10 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	store := newMockJobStore(
		&domain.Job{ID: "j-1", Title: "Lawn Care", AssignedEmployeeID: "e-1", ScheduledDate: &jan10, Status: domain.JobScheduled},
		&domain.Job{ID: "j-2", Title: "Lawn Care", AssignedEmployeeID: "e-2", ScheduledDate: &jan10, Status: domain.JobScheduled},
	)
	svc := newJobsService(store, &mockUserStore{})

	cal, err := svc.Calendar(context.Background(), view.Query{
		Role:     string(domain.RoleEmployee),
		ViewerID: "e-1",
	}, jan10, view.WeekView)
	require.NoError(t, err)

	week := cal.Weeks[0]
	require.Len(t, week[2].Jobs, 1) // Wednesday the 10th
	assert.Equal(t, "j-1", week[2].Jobs[0].ID)
}

func TestJobsListSurvivesTaxonomyOutage(t *testing.T) {
	store := newMockJobStore(&domain.Job{ID: "j-1", Title: "Lawn Care weekly", Status: domain.JobScheduled})
	content := &mockContentStore{listErr: errUpstream}
	svc := service.NewJobs(store, &mockUserStore{}, content, observability.NewMetrics(), zap.NewNop())

	res, err := svc.List(context.Background(), view.Query{})
	require.NoError(t, err)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, view.OtherCategory, res.Rows[0].Category)
}
