package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

const jobServicePrefix = "/job-service/api"

// JobServiceClient talks to the job service, which owns both quotes
// and the jobs created from approved quotes.
type JobServiceClient struct {
	base
}

// NewJobServiceClient creates a new JobServiceClient.
func NewJobServiceClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *JobServiceClient {
	return &JobServiceClient{base: newBase(httpClient, baseURL, "job-service", token, cb, cfg)}
}

// ListQuotes fetches every quote visible to the caller.
func (c *JobServiceClient) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.ListQuotes")
	defer span.End()

	var quotes []domain.Quote
	if err := c.get(ctx, jobServicePrefix+"/v1/quotes", "quotes", "", &quotes); err != nil {
		return nil, err
	}
	return quotes, nil
}

// GetQuote fetches a single quote by id.
func (c *JobServiceClient) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.GetQuote")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	var quote domain.Quote
	path := fmt.Sprintf("%s/v1/quotes/%s", jobServicePrefix, id)
	if err := c.get(ctx, path, "quote", id, &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// CreateQuote registers a new quote request.
func (c *JobServiceClient) CreateQuote(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.Quote, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.CreateQuote")
	defer span.End()

	var quote domain.Quote
	if err := c.send(ctx, http.MethodPost, jobServicePrefix+"/v1/quotes", req, "quote", "", &quote); err != nil {
		return nil, err
	}
	return &quote, nil
}

// UpdateQuote replaces a quote's editable fields (title, line items).
func (c *JobServiceClient) UpdateQuote(ctx context.Context, id string, req *domain.CreateQuoteRequest) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.UpdateQuote")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	path := fmt.Sprintf("%s/v1/quotes/%s", jobServicePrefix, id)
	return c.send(ctx, http.MethodPut, path, req, "quote", id, nil)
}

// SendEstimate marks a quote as sent and emails the customer a magic link.
func (c *JobServiceClient) SendEstimate(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.SendEstimate")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	path := fmt.Sprintf("%s/v1/quotes/%s/send", jobServicePrefix, id)
	return c.send(ctx, http.MethodPost, path, nil, "quote", id, nil)
}

// ApproveQuote approves a quote on behalf of an authenticated admin.
func (c *JobServiceClient) ApproveQuote(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.ApproveQuote")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	path := fmt.Sprintf("%s/v1/quotes/%s/approve", jobServicePrefix, id)
	return c.send(ctx, http.MethodPost, path, nil, "quote", id, nil)
}

// ApproveEstimate approves a quote from the public estimate page using the
// magic-link token instead of a session.
func (c *JobServiceClient) ApproveEstimate(ctx context.Context, id, magicToken string) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.ApproveEstimate")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	path := fmt.Sprintf("%s/v1/quotes/%s/approve-estimate?token=%s",
		jobServicePrefix, id, url.QueryEscape(magicToken))
	return c.send(ctx, http.MethodPost, path, nil, "quote", id, nil)
}

// RejectQuote rejects a quote.
func (c *JobServiceClient) RejectQuote(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.RejectQuote")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	path := fmt.Sprintf("%s/v1/quotes/%s/reject", jobServicePrefix, id)
	return c.send(ctx, http.MethodPost, path, nil, "quote", id, nil)
}

// SetQuoteStatus forces a quote into an arbitrary status. Approve and
// reject have dedicated endpoints; everything else goes through here.
func (c *JobServiceClient) SetQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.SetQuoteStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.id", id),
		attribute.String("quote.status", string(status)),
	)

	path := fmt.Sprintf("%s/v1/quotes/%s/status", jobServicePrefix, id)
	body := map[string]string{"status": string(status)}
	return c.send(ctx, http.MethodPut, path, body, "quote", id, nil)
}

// PayDeposit records a successful deposit payment against a quote,
// authenticated by the magic-link token.
func (c *JobServiceClient) PayDeposit(ctx context.Context, id, magicToken string, amount float64) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.PayDeposit")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.id", id),
		attribute.Float64("deposit.amount", amount),
	)

	path := fmt.Sprintf("%s/v1/quotes/%s/pay-deposit?token=%s&amount=%s",
		jobServicePrefix, id, url.QueryEscape(magicToken),
		strconv.FormatFloat(amount, 'f', 2, 64))
	return c.send(ctx, http.MethodPost, path, nil, "quote", id, nil)
}

// ListJobs fetches every job visible to the caller.
func (c *JobServiceClient) ListJobs(ctx context.Context) ([]domain.Job, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.ListJobs")
	defer span.End()

	var jobs []domain.Job
	if err := c.get(ctx, jobServicePrefix+"/v1/jobs", "jobs", "", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

// GetJob fetches a single job with its visits.
func (c *JobServiceClient) GetJob(ctx context.Context, id string) (*domain.Job, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.GetJob")
	defer span.End()
	span.SetAttributes(attribute.String("job.id", id))

	var job domain.Job
	path := fmt.Sprintf("%s/v1/jobs/%s", jobServicePrefix, id)
	if err := c.get(ctx, path, "job", id, &job); err != nil {
		return nil, err
	}
	return &job, nil
}

// ScheduleJob assigns an employee and a start date to a job.
func (c *JobServiceClient) ScheduleJob(ctx context.Context, id string, req *domain.ScheduleJobRequest) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.ScheduleJob")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", id),
		attribute.String("employee.id", req.AssignedEmployeeID),
	)

	path := fmt.Sprintf("%s/v1/jobs/%s/schedule", jobServicePrefix, id)
	return c.send(ctx, http.MethodPut, path, req, "job", id, nil)
}

// SetJobStatus moves a job to the given status.
func (c *JobServiceClient) SetJobStatus(ctx context.Context, id string, status domain.JobStatus) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.SetJobStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", id),
		attribute.String("job.status", string(status)),
	)

	path := fmt.Sprintf("%s/v1/jobs/%s/status", jobServicePrefix, id)
	body := map[string]string{"status": string(status)}
	return c.send(ctx, http.MethodPut, path, body, "job", id, nil)
}

// CheckIn opens a new visit on the job for the given employee.
func (c *JobServiceClient) CheckIn(ctx context.Context, jobID, employeeID string) (*domain.JobVisit, error) {
	ctx, span := tracer.Start(ctx, "JobServiceClient.CheckIn")
	defer span.End()
	span.SetAttributes(
		attribute.String("job.id", jobID),
		attribute.String("employee.id", employeeID),
	)

	var visit domain.JobVisit
	path := fmt.Sprintf("%s/v1/jobs/%s/checkin", jobServicePrefix, jobID)
	body := map[string]string{"employeeId": employeeID}
	if err := c.send(ctx, http.MethodPost, path, body, "job", jobID, &visit); err != nil {
		return nil, err
	}
	return &visit, nil
}

// UpdateVisit saves notes, tasks and photos on a visit. Setting EndTime
// on the update closes the visit (check-out).
func (c *JobServiceClient) UpdateVisit(ctx context.Context, visitID string, update *domain.VisitUpdate) error {
	ctx, span := tracer.Start(ctx, "JobServiceClient.UpdateVisit")
	defer span.End()
	span.SetAttributes(attribute.String("visit.id", visitID))

	path := fmt.Sprintf("%s/v1/jobs/visits/%s", jobServicePrefix, visitID)
	return c.send(ctx, http.MethodPut, path, update, "visit", visitID, nil)
}
