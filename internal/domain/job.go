package domain

import "time"

// ============================================================
// Job / Visits
// ============================================================

// JobStatus is the closed set of job lifecycle states. The nominal order is
// PENDING → SCHEDULED → IN_PROGRESS → COMPLETED → INVOICED, but the backend
// does not enforce it and the admin override can set any value.
type JobStatus string

const (
	JobPending    JobStatus = "PENDING"
	JobScheduled  JobStatus = "SCHEDULED"
	JobInProgress JobStatus = "IN_PROGRESS"
	JobCompleted  JobStatus = "COMPLETED"
	JobInvoiced   JobStatus = "INVOICED"
)

// ParseJobStatus validates a raw status string against the closed set.
func ParseJobStatus(s string) (JobStatus, bool) {
	switch JobStatus(s) {
	case JobPending, JobScheduled, JobInProgress, JobCompleted, JobInvoiced:
		return JobStatus(s), true
	}
	return "", false
}

// Terminal reports whether the job no longer occupies its assigned employee.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobInvoiced
}

// Job is a scheduled unit of field work created once a quote's deposit is paid.
// Title, client name and address are denormalized by the job service.
type Job struct {
	ID                 string     `json:"id"`
	QuoteID            string     `json:"quoteId"`
	Title              string     `json:"title"`
	ClientName         string     `json:"clientName"`
	PropertyAddress    string     `json:"propertyAddress,omitempty"`
	Status             JobStatus  `json:"status"`
	ScheduledDate      *time.Time `json:"scheduledDate,omitempty"`
	AssignedEmployeeID string     `json:"assignedEmployeeId,omitempty"`
	Visits             []JobVisit `json:"visits,omitempty"`
}

// JobVisit is a single field-work session. A nil CheckOutTime marks the
// visit as active.
type JobVisit struct {
	ID             string     `json:"id"`
	JobID          string     `json:"jobId"`
	EmployeeID     string     `json:"employeeId"`
	CheckInTime    time.Time  `json:"checkInTime"`
	CheckOutTime   *time.Time `json:"checkOutTime,omitempty"`
	Notes          string     `json:"notes,omitempty"`
	TasksCompleted []string   `json:"tasksCompleted,omitempty"`
	AfterPhotoURLs []string   `json:"afterPhotoUrls,omitempty"`
}

// Active reports whether the visit has not been checked out yet.
func (v JobVisit) Active() bool {
	return v.CheckOutTime == nil
}

// ActiveVisit returns the most recently started visit without a checkout
// time, or nil when every visit is closed. The job service is assumed to
// keep at most one visit open at a time; when it does not, the latest
// check-in wins.
func (j *Job) ActiveVisit() *JobVisit {
	var latest *JobVisit
	for i := range j.Visits {
		v := &j.Visits[i]
		if !v.Active() {
			continue
		}
		if latest == nil || v.CheckInTime.After(latest.CheckInTime) {
			latest = v
		}
	}
	return latest
}

// ScheduleJobRequest is the write shape for the job service schedule endpoint.
type ScheduleJobRequest struct {
	JobID              string `json:"jobId"`
	AssignedEmployeeID string `json:"assignedEmployeeId"`
	StartTime          string `json:"startTime"`
	EndTime            string `json:"endTime"`
	Notes              string `json:"notes,omitempty"`
}

// VisitUpdate carries a visit mutation. A non-nil EndTime closes the visit.
type VisitUpdate struct {
	Notes       string     `json:"notes"`
	Tasks       []string   `json:"tasks"`
	AfterPhotos []string   `json:"afterPhotos"`
	EndTime     *time.Time `json:"endTime,omitempty"`
}
