package client

import (
	"context"
	"net/http"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/resilience"
)

const invoiceServicePrefix = "/invoice-service/api"

// InvoiceServiceClient talks to the invoice service, which fronts the
// payment provider for intent creation.
type InvoiceServiceClient struct {
	base
}

// NewInvoiceServiceClient creates a new InvoiceServiceClient.
func NewInvoiceServiceClient(httpClient *http.Client, baseURL string, token TokenSource, cb *gobreaker.CircuitBreaker, cfg resilience.Config) *InvoiceServiceClient {
	return &InvoiceServiceClient{base: newBase(httpClient, baseURL, "invoice-service", token, cb, cfg)}
}

// CreatePaymentIntent asks the invoice service for a provider payment
// intent covering the quote's deposit plus processing fee.
func (c *InvoiceServiceClient) CreatePaymentIntent(ctx context.Context, req *domain.PaymentIntentRequest) (*domain.PaymentIntentResponse, error) {
	ctx, span := tracer.Start(ctx, "InvoiceServiceClient.CreatePaymentIntent")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.id", req.QuoteID),
		attribute.Float64("payment.amount", req.Amount),
	)

	var intent domain.PaymentIntentResponse
	if err := c.send(ctx, http.MethodPost, invoiceServicePrefix+"/v1/payments/create-intent", req, "payment-intent", req.QuoteID, &intent); err != nil {
		return nil, err
	}
	return &intent, nil
}
