// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the service layer
// from the concrete remote-service adapters.
package port

import (
	"context"
	"io"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

// QuoteStore covers the job service's quote resource.
type QuoteStore interface {
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	CreateQuote(ctx context.Context, req *domain.CreateQuoteRequest) (*domain.Quote, error)
	UpdateQuote(ctx context.Context, id string, req *domain.CreateQuoteRequest) error
	SendEstimate(ctx context.Context, id string) error
	ApproveQuote(ctx context.Context, id string) error
	ApproveEstimate(ctx context.Context, id, magicToken string) error
	RejectQuote(ctx context.Context, id string) error
	SetQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error
	PayDeposit(ctx context.Context, id, magicToken string, amount float64) error
}

// JobStore covers the job service's job and visit resources.
type JobStore interface {
	ListJobs(ctx context.Context) ([]domain.Job, error)
	GetJob(ctx context.Context, id string) (*domain.Job, error)
	ScheduleJob(ctx context.Context, id string, req *domain.ScheduleJobRequest) error
	SetJobStatus(ctx context.Context, id string, status domain.JobStatus) error
	CheckIn(ctx context.Context, jobID, employeeID string) (*domain.JobVisit, error)
	UpdateVisit(ctx context.Context, visitID string, update *domain.VisitUpdate) error
}

// CustomerStore covers the customer service.
type CustomerStore interface {
	SearchCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error)
	CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.Property, error)
}

// UserStore covers the user service (auth + admin CRUD).
type UserStore interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.LoginResult, error)
	ChangePassword(ctx context.Context, req *domain.ChangePasswordRequest) error
	ListUsers(ctx context.Context) ([]domain.User, error)
	CreateUser(ctx context.Context, req *domain.UserRequest) (*domain.User, error)
	UpdateUser(ctx context.Context, id string, req *domain.UserRequest) (*domain.User, error)
	DeleteUser(ctx context.Context, id string) error
}

// ContentStore covers the content service's service pages.
type ContentStore interface {
	PageLister
	GetPageBySlug(ctx context.Context, slug string) (*domain.ServicePage, error)
	CreatePage(ctx context.Context, req *domain.SavePageRequest) (*domain.ServicePage, error)
	UpdatePage(ctx context.Context, slug string, req *domain.SavePageRequest) (*domain.ServicePage, error)
}

// PageLister is the read side of the service-page taxonomy. List views
// classify against it on every request, so consumers should be handed
// the cached content service rather than the raw client.
type PageLister interface {
	ListPages(ctx context.Context) ([]domain.ServicePage, error)
}

// FileStore covers the storage service. Upload returns the public URL.
type FileStore interface {
	Upload(ctx context.Context, filename, contentType string, body io.Reader) (string, error)
}

// PaymentIntenter creates payment intents via the invoice service.
type PaymentIntenter interface {
	CreatePaymentIntent(ctx context.Context, req *domain.PaymentIntentRequest) (*domain.PaymentIntentResponse, error)
}

// PaymentConfirmer confirms an intent against the payment provider using
// the provider-issued client secret.
type PaymentConfirmer interface {
	ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (*domain.PaymentConfirmation, error)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}
