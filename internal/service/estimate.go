package service

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
	"github.com/olives-green/fieldops-bff-go/internal/view"
)

var estimateTracer = otel.Tracer("service/estimate")

// QuoteDetail is the admin quote page's composed view: the raw quote plus
// the parsed request details and computed deposit terms.
type QuoteDetail struct {
	Quote          domain.Quote          `json:"quote"`
	RequestDetails domain.RequestDetails `json:"requestDetails"`
	LineItems      []domain.LineItem     `json:"lineItems"`
	Total          float64               `json:"total"`
	Deposit        float64               `json:"deposit"`
	Editable       bool                  `json:"editable"`
}

// Estimates covers the admin side of quote pricing: listing, composing
// the detail view, saving line-item drafts and sending the estimate out.
type Estimates struct {
	quotes  port.QuoteStore
	pages   port.PageLister
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewEstimates creates the estimates service. The page lister should be
// the cached content service so listing quotes does not hit the content
// service on every request.
func NewEstimates(quotes port.QuoteStore, pages port.PageLister, metrics *observability.Metrics, logger *zap.Logger) *Estimates {
	return &Estimates{quotes: quotes, pages: pages, metrics: metrics, logger: logger}
}

// List fetches all quotes and applies the derived list-view query.
func (s *Estimates) List(ctx context.Context, q view.Query) (*view.Result, error) {
	ctx, span := estimateTracer.Start(ctx, "Estimates.List")
	defer span.End()

	quotes, err := s.quotes.ListQuotes(ctx)
	if err != nil {
		return nil, err
	}

	var classifier *view.Classifier
	if pages, err := s.pages.ListPages(ctx); err != nil {
		s.logger.Warn("service taxonomy unavailable, classifying all as Other", zap.Error(err))
		classifier = view.NewClassifierFromTitles(nil)
	} else {
		classifier = view.NewClassifier(pages)
	}

	rows := make([]view.Row, 0, len(quotes))
	for i := range quotes {
		// The client name lives inside the request-details blob.
		details := domain.ParseRequestDetails(quotes[i].RequestDetails)
		rows = append(rows, view.QuoteRow(&quotes[i], details.ClientName))
	}
	res := view.Apply(rows, classifier, q)
	return &res, nil
}

// GetDetail fetches a quote and derives everything the detail page needs.
// An unpriced quote (total zero) is presented with one seeded default
// line item so the admin always starts from an editable row.
func (s *Estimates) GetDetail(ctx context.Context, id string) (*QuoteDetail, error) {
	ctx, span := estimateTracer.Start(ctx, "Estimates.GetDetail")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	items := quote.LineItems
	if quote.TotalAmount == 0 {
		items = DefaultLineItems(quote.Title)
	}

	total := domain.LineItemsTotal(items)

	return &QuoteDetail{
		Quote:          *quote,
		RequestDetails: domain.ParseRequestDetails(quote.RequestDetails),
		LineItems:      items,
		Total:          total,
		Deposit:        domain.DepositFor(total),
		Editable:       quote.Status.Editable(),
	}, nil
}

// SaveDraft persists the admin's line items and mockups on a quote that
// is still editable. Attempts against a closed quote are conflicts, not
// silent no-ops.
func (s *Estimates) SaveDraft(ctx context.Context, id string, req *domain.CreateQuoteRequest) error {
	ctx, span := estimateTracer.Start(ctx, "Estimates.SaveDraft")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return err
	}
	if !quote.Status.Editable() {
		return &domain.ErrConflict{
			Message: fmt.Sprintf("quote %s is %s and read-only", id, quote.Status),
		}
	}

	// Carry over immutable references so a partial payload cannot detach
	// the quote from its customer.
	req.CustomerID = quote.CustomerID
	req.PropertyID = quote.PropertyID
	if req.RequestDetails == "" {
		req.RequestDetails = quote.RequestDetails
	}

	if err := s.quotes.UpdateQuote(ctx, id, req); err != nil {
		s.metrics.IncrExternalError("job-service")
		return fmt.Errorf("save quote draft: %w", err)
	}

	s.logger.Info("estimate draft saved",
		zap.String("quote_id", id),
		zap.Int("line_items", len(req.LineItems)),
	)
	return nil
}

// Send transitions the quote to ESTIMATE_SENT; the job service emails the
// customer their magic link. The draft must be saved first, Send does not
// carry a payload.
func (s *Estimates) Send(ctx context.Context, id string) error {
	ctx, span := estimateTracer.Start(ctx, "Estimates.Send")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return err
	}
	if !quote.Status.Editable() {
		return &domain.ErrConflict{
			Message: fmt.Sprintf("quote %s is %s and cannot be sent", id, quote.Status),
		}
	}

	if err := s.quotes.SendEstimate(ctx, id); err != nil {
		s.metrics.IncrExternalError("job-service")
		return fmt.Errorf("send estimate: %w", err)
	}

	s.logger.Info("estimate sent", zap.String("quote_id", id))
	return nil
}

// DefaultLineItems seeds an unpriced quote with a single placeholder row
// derived from the quote title.
func DefaultLineItems(title string) []domain.LineItem {
	return []domain.LineItem{{
		Description: fmt.Sprintf("Professional %s Service", title),
		Quantity:    1,
		UnitPrice:   0,
	}}
}
