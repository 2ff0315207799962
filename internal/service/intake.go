package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var intakeTracer = otel.Tracer("service/intake")

// The customer service requires a postal code; web submissions may omit it.
const postalCodeFallback = "00000"

// QuoteFormSubmission is the public quote-request form payload.
type QuoteFormSubmission struct {
	Name        string         `json:"name"`
	Email       string         `json:"email"`
	Phone       string         `json:"phone"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	State       string         `json:"state"`
	PostalCode  string         `json:"postalCode"`
	ServiceType string         `json:"serviceType"`
	Details     string         `json:"details"`
	Coords      *domain.LatLng `json:"coords,omitempty"`
}

// Validate checks the fields the workflow cannot proceed without.
func (f *QuoteFormSubmission) Validate() error {
	switch {
	case strings.TrimSpace(f.Name) == "":
		return &domain.ErrValidation{Field: "name", Message: "name is required"}
	case strings.TrimSpace(f.Email) == "":
		return &domain.ErrValidation{Field: "email", Message: "email is required"}
	case strings.TrimSpace(f.ServiceType) == "":
		return &domain.ErrValidation{Field: "serviceType", Message: "service type is required"}
	}
	return nil
}

// Intake runs the public quote-request workflow: resolve or create the
// customer, create the property, create the quote.
type Intake struct {
	customers port.CustomerStore
	quotes    port.QuoteStore
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewIntake creates the intake service.
func NewIntake(customers port.CustomerStore, quotes port.QuoteStore, metrics *observability.Metrics, logger *zap.Logger) *Intake {
	return &Intake{customers: customers, quotes: quotes, metrics: metrics, logger: logger}
}

// Submit executes the four sequential upstream calls. Each step commits
// before the next starts and there is no rollback: a failure mid-way can
// leave a customer or property behind, which later submissions reuse.
// The created quote starts in REQUESTED with empty line items.
func (s *Intake) Submit(ctx context.Context, form *QuoteFormSubmission) (*domain.Quote, error) {
	ctx, span := intakeTracer.Start(ctx, "Intake.Submit")
	defer span.End()
	span.SetAttributes(attribute.String("intake.service_type", form.ServiceType))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("intake", time.Since(start))
	}()

	if err := form.Validate(); err != nil {
		return nil, err
	}

	// Step 1: find an existing customer by email or create one.
	customerID, err := s.resolveCustomer(ctx, form)
	if err != nil {
		s.metrics.RecordWorkflowStep("intake", "customer", "error")
		return nil, err
	}
	s.metrics.RecordWorkflowStep("intake", "customer", "ok")

	// Step 2: always a fresh property; repeat submitters accumulate them.
	property, err := s.customers.CreateProperty(ctx, &domain.CreatePropertyRequest{
		AddressLine1: form.Address,
		City:         form.City,
		State:        form.State,
		PostalCode:   orFallback(form.PostalCode, postalCodeFallback),
		Notes:        "Web Request",
		CustomerID:   customerID,
	})
	if err != nil {
		s.metrics.RecordWorkflowStep("intake", "property", "error")
		s.logger.Error("intake: property creation failed",
			zap.String("customer_id", customerID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create property: %w", err)
	}
	s.metrics.RecordWorkflowStep("intake", "property", "ok")

	// Step 3: the quote itself. The request details blob preserves what
	// the visitor typed for the admin sidebar.
	details := domain.RequestDetails{
		ClientName: form.Name,
		Email:      form.Email,
		Phone:      form.Phone,
		Location:   fmt.Sprintf("%s, %s, %s %s", form.Address, form.City, form.State, form.PostalCode),
		Coords:     form.Coords,
		Notes:      form.Details,
	}

	quote, err := s.quotes.CreateQuote(ctx, &domain.CreateQuoteRequest{
		CustomerID:     customerID,
		PropertyID:     property.ID,
		Title:          form.ServiceType,
		RequestDetails: details.Encode(),
		LineItems:      []domain.LineItem{},
	})
	if err != nil {
		s.metrics.RecordWorkflowStep("intake", "quote", "error")
		s.logger.Error("intake: quote creation failed",
			zap.String("customer_id", customerID),
			zap.String("property_id", property.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("create quote: %w", err)
	}
	s.metrics.RecordWorkflowStep("intake", "quote", "ok")

	s.logger.Info("intake: quote request created",
		zap.String("quote_id", quote.ID),
		zap.String("customer_id", customerID),
		zap.String("service_type", form.ServiceType),
	)
	return quote, nil
}

// resolveCustomer looks the customer up by email; a miss creates one.
// The submitted name splits on the first space, with "Guest" standing in
// for a missing last name.
func (s *Intake) resolveCustomer(ctx context.Context, form *QuoteFormSubmission) (string, error) {
	existing, err := s.customers.SearchCustomerByEmail(ctx, form.Email)
	if err == nil && existing.ID != "" {
		return existing.ID, nil
	}
	var notFound *domain.ErrNotFound
	if err != nil && !errors.As(err, &notFound) {
		return "", fmt.Errorf("search customer: %w", err)
	}

	first, rest, _ := strings.Cut(strings.TrimSpace(form.Name), " ")
	created, err := s.customers.CreateCustomer(ctx, &domain.CreateCustomerRequest{
		FirstName:   first,
		LastName:    orFallback(strings.TrimSpace(rest), "Guest"),
		Email:       form.Email,
		PhoneNumber: form.Phone,
	})
	if err != nil {
		return "", fmt.Errorf("create customer: %w", err)
	}
	return created.ID, nil
}

func orFallback(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
