package view

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

func jobOn(id string, date time.Time) domain.Job {
	return domain.Job{ID: id, Title: "Lawn Care", Status: domain.JobScheduled, ScheduledDate: &date}
}

func TestBucketWeekView(t *testing.T) {
	// Wednesday 2024-01-10; the containing week runs Mon 8th..Sun 14th.
	cursor := time.Date(2024, 1, 10, 12, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		jobOn("j-mon", time.Date(2024, 1, 8, 8, 0, 0, 0, time.Local)),
		jobOn("j-wed", time.Date(2024, 1, 10, 15, 30, 0, 0, time.Local)),
		jobOn("j-out", time.Date(2024, 1, 15, 8, 0, 0, 0, time.Local)),
	}

	cal := Bucket(jobs, cursor, WeekView)
	require.Len(t, cal.Weeks, 1)
	week := cal.Weeks[0]
	require.Len(t, week, 7)

	assert.Equal(t, time.Monday, week[0].Date.Weekday())
	require.Len(t, week[0].Jobs, 1)
	assert.Equal(t, "j-mon", week[0].Jobs[0].ID)
	require.Len(t, week[2].Jobs, 1)
	assert.Equal(t, "j-wed", week[2].Jobs[0].ID)

	// The Monday-the-15th job is outside this week entirely.
	for _, d := range week {
		for _, j := range d.Jobs {
			assert.NotEqual(t, "j-out", j.ID)
		}
	}
}

func TestBucketExactDayMatchNotRange(t *testing.T) {
	cursor := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)
	// One minute before midnight belongs to the 9th, not the 10th.
	jobs := []domain.Job{jobOn("j-1", time.Date(2024, 1, 9, 23, 59, 0, 0, time.Local))}

	cal := Bucket(jobs, cursor, WeekView)
	week := cal.Weeks[0]
	assert.Len(t, week[1].Jobs, 1) // Tuesday the 9th
	assert.Empty(t, week[2].Jobs)  // Wednesday the 10th
}

func TestBucketMonthViewCoversFullWeeks(t *testing.T) {
	// January 2024: the 1st is a Monday, the 31st a Wednesday, so the
	// grid spans Mon Jan 1 .. Sun Feb 4.
	cursor := time.Date(2024, 1, 20, 0, 0, 0, 0, time.Local)
	cal := Bucket(nil, cursor, MonthView)

	require.Len(t, cal.Weeks, 5)
	first := cal.Weeks[0][0]
	last := cal.Weeks[4][6]
	assert.Equal(t, "2024-01-01", first.Date.Format("2006-01-02"))
	assert.Equal(t, "2024-02-04", last.Date.Format("2006-01-02"))
	assert.True(t, first.InMonth)
	assert.False(t, last.InMonth)
}

func TestBucketMonthCellOverflow(t *testing.T) {
	date := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		jobOn("j-1", date), jobOn("j-2", date), jobOn("j-3", date),
		jobOn("j-4", date), jobOn("j-5", date),
	}

	cal := Bucket(jobs, date, MonthView)
	var cell Day
	for _, week := range cal.Weeks {
		for _, d := range week {
			if d.Total > 0 {
				cell = d
			}
		}
	}

	assert.Len(t, cell.Jobs, MonthCellCap)
	assert.Equal(t, 5, cell.Total)
	assert.Equal(t, 2, cell.Overflow)
}

func TestBucketWeekViewHasNoCap(t *testing.T) {
	date := time.Date(2024, 1, 10, 9, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		jobOn("j-1", date), jobOn("j-2", date), jobOn("j-3", date),
		jobOn("j-4", date), jobOn("j-5", date),
	}

	cal := Bucket(jobs, date, WeekView)
	assert.Len(t, cal.Weeks[0][2].Jobs, 5)
	assert.Zero(t, cal.Weeks[0][2].Overflow)
}

func TestStepNavigation(t *testing.T) {
	cursor := time.Date(2024, 1, 10, 0, 0, 0, 0, time.Local)

	assert.Equal(t, time.Date(2024, 1, 17, 0, 0, 0, 0, time.Local), Step(cursor, WeekView, 1))
	assert.Equal(t, time.Date(2024, 1, 3, 0, 0, 0, 0, time.Local), Step(cursor, WeekView, -1))
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.Local), Step(cursor, MonthView, 1))
	assert.Equal(t, time.Date(2023, 12, 10, 0, 0, 0, 0, time.Local), Step(cursor, MonthView, -1))
}

func TestAvailableEmployees(t *testing.T) {
	users := []domain.User{
		{ID: "e-1", FirstName: "Ari", Role: domain.RoleEmployee},
		{ID: "e-2", FirstName: "Blake", Role: domain.RoleEmployee},
	}
	jan10 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		{ID: "j-1", AssignedEmployeeID: "e-1", ScheduledDate: &jan10, Status: domain.JobScheduled},
	}

	got := AvailableEmployees(users, jobs, jan10, "")
	require.Len(t, got, 1)
	assert.Equal(t, "e-2", got[0].ID)

	jan11 := jan10.AddDate(0, 0, 1)
	got = AvailableEmployees(users, jobs, jan11, "")
	assert.Len(t, got, 2)
}

func TestAvailableEmployeesTerminalJobsDoNotBlock(t *testing.T) {
	users := []domain.User{{ID: "e-1", Role: domain.RoleEmployee}}
	jan10 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		{ID: "j-1", AssignedEmployeeID: "e-1", ScheduledDate: &jan10, Status: domain.JobCompleted},
	}

	got := AvailableEmployees(users, jobs, jan10, "")
	assert.Len(t, got, 1)
}

func TestAvailableEmployeesExcludesRescheduledJob(t *testing.T) {
	users := []domain.User{{ID: "e-1", Role: domain.RoleEmployee}}
	jan10 := time.Date(2024, 1, 10, 8, 0, 0, 0, time.Local)
	jobs := []domain.Job{
		{ID: "j-1", AssignedEmployeeID: "e-1", ScheduledDate: &jan10, Status: domain.JobScheduled},
	}

	// Rescheduling j-1 itself: its own assignee stays available.
	got := AvailableEmployees(users, jobs, jan10, "j-1")
	assert.Len(t, got, 1)
}
