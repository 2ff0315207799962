package client

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

const customerServicePrefix = "/customer-service/api"

// CustomerServiceClient talks to the customer service for customer and
// property records.
type CustomerServiceClient struct {
	base
}

// NewCustomerServiceClient creates a new CustomerServiceClient.
func NewCustomerServiceClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *CustomerServiceClient {
	return &CustomerServiceClient{base: newBase(httpClient, baseURL, "customer-service", token, cb, cfg)}
}

// SearchCustomerByEmail looks up a customer by exact email. A miss is
// reported as ErrNotFound, which intake treats as "create one".
func (c *CustomerServiceClient) SearchCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerServiceClient.SearchCustomerByEmail")
	defer span.End()

	var customer domain.Customer
	path := customerServicePrefix + "/v1/customers/search?email=" + url.QueryEscape(email)
	if err := c.get(ctx, path, "customer", email, &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateCustomer registers a new customer record.
func (c *CustomerServiceClient) CreateCustomer(ctx context.Context, req *domain.CreateCustomerRequest) (*domain.Customer, error) {
	ctx, span := tracer.Start(ctx, "CustomerServiceClient.CreateCustomer")
	defer span.End()

	var customer domain.Customer
	if err := c.send(ctx, http.MethodPost, customerServicePrefix+"/v1/customers", req, "customer", "", &customer); err != nil {
		return nil, err
	}
	return &customer, nil
}

// CreateProperty attaches a new property to an existing customer.
func (c *CustomerServiceClient) CreateProperty(ctx context.Context, req *domain.CreatePropertyRequest) (*domain.Property, error) {
	ctx, span := tracer.Start(ctx, "CustomerServiceClient.CreateProperty")
	defer span.End()
	span.SetAttributes(attribute.String("customer.id", req.CustomerID))

	var property domain.Property
	if err := c.send(ctx, http.MethodPost, customerServicePrefix+"/v1/customers/properties", req, "property", "", &property); err != nil {
		return nil, err
	}
	return &property, nil
}
