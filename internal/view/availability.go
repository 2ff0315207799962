package view

import (
	"time"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

// AvailableEmployees returns the employees not already committed to
// another live job on the candidate date. A job blocks its assignee only
// while non-terminal; completed or invoiced work frees the day. The job
// being rescheduled is excluded so its current assignee stays pickable.
func AvailableEmployees(users []domain.User, jobs []domain.Job, date time.Time, excludeJobID string) []domain.User {
	busy := make(map[string]bool)
	for _, j := range jobs {
		if j.ID == excludeJobID || j.Status.Terminal() {
			continue
		}
		if j.ScheduledDate == nil || j.AssignedEmployeeID == "" {
			continue
		}
		if sameLocalDay(*j.ScheduledDate, date) {
			busy[j.AssignedEmployeeID] = true
		}
	}

	available := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.Role != domain.RoleEmployee && u.Role != domain.RoleAdmin {
			continue
		}
		if !busy[u.ID] {
			available = append(available, u)
		}
	}
	return available
}
