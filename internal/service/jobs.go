package service

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

var jobsTracer = otel.Tracer("service/jobs")

// CheckOutResult reports a closed visit plus whether the caller should be
// offered the cascade to COMPLETED.
type CheckOutResult struct {
	VisitID           string `json:"visitId"`
	SuggestCompletion bool   `json:"suggestCompletion"`
}

// Jobs covers job listing, scheduling and the visit check-in/check-out
// cycle.
type Jobs struct {
	store   port.JobStore
	users   port.UserStore
	pages   port.PageLister
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewJobs creates the jobs service. The page lister should be the cached
// content service so job lists and the calendar do not hit the content
// service on every request.
func NewJobs(store port.JobStore, users port.UserStore, pages port.PageLister, metrics *observability.Metrics, logger *zap.Logger) *Jobs {
	return &Jobs{store: store, users: users, pages: pages, metrics: metrics, logger: logger}
}

// List fetches all jobs and applies the derived list-view query.
func (s *Jobs) List(ctx context.Context, q view.Query) (*view.Result, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.List")
	defer span.End()

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	classifier := s.classifier(ctx)

	rows := make([]view.Row, 0, len(jobs))
	for i := range jobs {
		rows = append(rows, view.JobRow(&jobs[i]))
	}
	res := view.Apply(rows, classifier, q)
	return &res, nil
}

// Get fetches one job with its visit history.
func (s *Jobs) Get(ctx context.Context, id string) (*domain.Job, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.Get")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	return s.store.GetJob(ctx, id)
}

// Calendar buckets the (restricted, filtered) job collection for the
// schedule page.
func (s *Jobs) Calendar(ctx context.Context, q view.Query, cursor time.Time, mode view.ViewMode) (*view.Calendar, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.Calendar")
	defer span.End()

	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	classifier := s.classifier(ctx)

	// The same restriction and service-filter rules as the list view run
	// before bucketing; search/status/sort do not apply here.
	filtered := make([]domain.Job, 0, len(jobs))
	for i := range jobs {
		j := jobs[i]
		if q.Role == string(domain.RoleEmployee) && j.AssignedEmployeeID != q.ViewerID {
			continue
		}
		if q.ServiceFilter != "" && !classifier.MatchesFilter(j.Title, q.ServiceFilter) {
			continue
		}
		filtered = append(filtered, j)
	}

	cal := view.Bucket(filtered, cursor, mode)
	return &cal, nil
}

// Availability lists employees free to take a job on the given date.
func (s *Jobs) Availability(ctx context.Context, date time.Time, excludeJobID string) ([]domain.User, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.Availability")
	defer span.End()

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	jobs, err := s.store.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return view.AvailableEmployees(users, jobs, date, excludeJobID), nil
}

// Schedule assigns an employee and start date. A job still in PENDING
// moves to SCHEDULED as part of the same action.
func (s *Jobs) Schedule(ctx context.Context, id string, req *domain.ScheduleJobRequest) error {
	ctx, span := jobsTracer.Start(ctx, "Jobs.Schedule")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", id),
		attribute.String("employee.id", req.AssignedEmployeeID),
	)

	if req.AssignedEmployeeID == "" {
		return &domain.ErrValidation{Field: "assignedEmployeeId", Message: "an employee must be assigned"}
	}

	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.ScheduleJob(ctx, id, req); err != nil {
		s.metrics.IncrExternalError("job-service")
		return fmt.Errorf("schedule job: %w", err)
	}

	if job.Status == domain.JobPending {
		if err := s.store.SetJobStatus(ctx, id, domain.JobScheduled); err != nil {
			// The assignment stuck; only the status cascade failed.
			s.logger.Warn("job scheduled but status cascade failed",
				zap.String("job_id", id),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("job scheduled",
		zap.String("job_id", id),
		zap.String("employee_id", req.AssignedEmployeeID),
		zap.String("start", req.StartTime),
	)
	return nil
}

// SetStatus is the admin override; any status value from the closed set
// is accepted regardless of the nominal progression.
func (s *Jobs) SetStatus(ctx context.Context, id string, status domain.JobStatus) error {
	ctx, span := jobsTracer.Start(ctx, "Jobs.SetStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", id),
		attribute.String("job.status", string(status)),
	)

	return s.store.SetJobStatus(ctx, id, status)
}

// CheckIn opens a visit for the job's assigned employee. The assignment
// check happens here, before any network call, so an unassigned job fails
// fast with a usable message.
func (s *Jobs) CheckIn(ctx context.Context, jobID, employeeID string) (*domain.JobVisit, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.CheckIn")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", jobID))

	if employeeID == "" {
		return nil, &domain.ErrValidation{Field: "employeeId", Message: "job has no assigned employee"}
	}

	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if active := job.ActiveVisit(); active != nil {
		return nil, &domain.ErrConflict{
			Message: fmt.Sprintf("visit %s is already active on this job", active.ID),
		}
	}

	visit, err := s.store.CheckIn(ctx, jobID, employeeID)
	if err != nil {
		s.metrics.IncrExternalError("job-service")
		return nil, fmt.Errorf("check in: %w", err)
	}

	// First boots on the ground move the job to IN_PROGRESS.
	if job.Status == domain.JobScheduled {
		if err := s.store.SetJobStatus(ctx, jobID, domain.JobInProgress); err != nil {
			s.logger.Warn("check-in succeeded but status cascade failed",
				zap.String("job_id", jobID),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("visit opened",
		zap.String("job_id", jobID),
		zap.String("visit_id", visit.ID),
		zap.String("employee_id", employeeID),
	)
	return visit, nil
}

// UpdateVisit persists notes, tasks and photos without closing the visit.
func (s *Jobs) UpdateVisit(ctx context.Context, visitID string, update *domain.VisitUpdate) error {
	ctx, span := jobsTracer.Start(ctx, "Jobs.UpdateVisit")
	defer span.End()
	span.SetAttributes(attribute.String("visit.id", visitID))

	update.EndTime = nil
	return s.store.UpdateVisit(ctx, visitID, update)
}

// CheckOut closes the active visit with a checkout timestamp. When the
// parent job is IN_PROGRESS the result suggests the COMPLETED cascade,
// which the caller triggers explicitly via SetStatus.
func (s *Jobs) CheckOut(ctx context.Context, jobID, visitID string, update *domain.VisitUpdate) (*CheckOutResult, error) {
	ctx, span := jobsTracer.Start(ctx, "Jobs.CheckOut")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", jobID),
		attribute.String("visit.id", visitID),
	)

	now := time.Now()
	update.EndTime = &now
	if err := s.store.UpdateVisit(ctx, visitID, update); err != nil {
		s.metrics.IncrExternalError("job-service")
		return nil, fmt.Errorf("check out: %w", err)
	}

	suggest := false
	if job, err := s.store.GetJob(ctx, jobID); err == nil {
		suggest = job.Status == domain.JobInProgress
	}

	s.logger.Info("visit closed",
		zap.String("job_id", jobID),
		zap.String("visit_id", visitID),
	)
	return &CheckOutResult{VisitID: visitID, SuggestCompletion: suggest}, nil
}

// classifier builds the service taxonomy from the content service. A
// content outage degrades classification to "Other" rather than failing
// the whole list.
func (s *Jobs) classifier(ctx context.Context) *view.Classifier {
	pages, err := s.pages.ListPages(ctx)
	if err != nil {
		s.logger.Warn("service taxonomy unavailable, classifying all as Other", zap.Error(err))
		return view.NewClassifierFromTitles(nil)
	}
	return view.NewClassifier(pages)
}
