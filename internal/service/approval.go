package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
	"github.com/olives-green/fieldops-bff-go/internal/infra/observability"
	"github.com/olives-green/fieldops-bff-go/internal/port"
)

var approvalTracer = otel.Tracer("service/approval")

// PublicEstimate is what the magic-link estimate page renders.
type PublicEstimate struct {
	Quote       domain.Quote `json:"quote"`
	Deposit     float64      `json:"deposit"`
	Fee         float64      `json:"fee"`
	TotalCharge float64      `json:"totalCharge"`
	Paid        bool         `json:"paid"`
}

// PaymentRequest carries the customer's approval of an estimate together
// with the provider payment method to charge.
type PaymentRequest struct {
	MagicToken      string `json:"token"`
	PaymentMethodID string `json:"paymentMethodId"`
}

// Approvals runs the customer-facing estimate decision flow: view,
// approve-and-pay-deposit, reject. It also hosts the admin status
// override since all three funnel into the same upstream resource.
type Approvals struct {
	quotes    port.QuoteStore
	intents   port.PaymentIntenter
	confirmer port.PaymentConfirmer
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewApprovals creates the approvals service.
func NewApprovals(quotes port.QuoteStore, intents port.PaymentIntenter, confirmer port.PaymentConfirmer, metrics *observability.Metrics, logger *zap.Logger) *Approvals {
	return &Approvals{
		quotes:    quotes,
		intents:   intents,
		confirmer: confirmer,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetPublicEstimate loads the quote behind a magic link and computes the
// deposit terms. Already-approved or paid quotes render as paid so a
// re-opened link cannot charge twice.
func (s *Approvals) GetPublicEstimate(ctx context.Context, id string) (*PublicEstimate, error) {
	ctx, span := approvalTracer.Start(ctx, "Approvals.GetPublicEstimate")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", id))

	quote, err := s.quotes.GetQuote(ctx, id)
	if err != nil {
		return nil, err
	}

	deposit := domain.DepositFor(quote.TotalAmount)
	fee := domain.ProcessingFeeFor(deposit)

	return &PublicEstimate{
		Quote:       *quote,
		Deposit:     deposit,
		Fee:         fee,
		TotalCharge: deposit + fee,
		Paid:        quote.Status == domain.QuoteDepositPaid || quote.Status == domain.QuoteApproved,
	}, nil
}

// ApproveAndPay is the multi-step payment workflow: approve the estimate
// via the magic token, create a payment intent for the deposit, confirm
// it with the provider, then record the payment on the quote.
//
// Failure semantics differ per step. A provider decline surfaces as
// ErrPaymentFailed and the customer retries payment without re-approving
// (the upstream approve endpoint tolerates repeats). A confirmed charge
// whose recording call then fails surfaces as ErrDepositUnrecorded; the
// money has moved, so this is a support case, never an automatic retry.
func (s *Approvals) ApproveAndPay(ctx context.Context, quoteID string, req *PaymentRequest) (*domain.Quote, error) {
	ctx, span := approvalTracer.Start(ctx, "Approvals.ApproveAndPay")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", quoteID))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("approve_and_pay", time.Since(start))
	}()

	if req.MagicToken == "" {
		return nil, &domain.ErrUnauthorized{Message: "missing estimate token"}
	}

	quote, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		return nil, err
	}
	if quote.Status == domain.QuoteDepositPaid {
		return nil, &domain.ErrConflict{Message: "deposit already paid"}
	}

	deposit := domain.DepositFor(quote.TotalAmount)
	fee := domain.ProcessingFeeFor(deposit)

	// Step 1: approve.
	if err := s.quotes.ApproveEstimate(ctx, quoteID, req.MagicToken); err != nil {
		s.metrics.RecordWorkflowStep("approval", "approve", "error")
		return nil, fmt.Errorf("approve estimate: %w", err)
	}
	s.metrics.RecordWorkflowStep("approval", "approve", "ok")

	// Step 2: payment intent for the base deposit; the invoice service
	// adds the processing fee to the charge.
	intent, err := s.intents.CreatePaymentIntent(ctx, &domain.PaymentIntentRequest{
		QuoteID:  quoteID,
		Amount:   deposit,
		Currency: "usd",
	})
	if err != nil {
		s.metrics.RecordWorkflowStep("approval", "intent", "error")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	if !amountMatches(intent.Amount, deposit+fee) && !amountMatches(intent.Amount, deposit) {
		s.metrics.RecordWorkflowStep("approval", "intent", "mismatch")
		s.logger.Error("payment intent amount mismatch",
			zap.String("quote_id", quoteID),
			zap.Float64("intent_amount", intent.Amount),
			zap.Float64("expected", deposit+fee),
		)
		return nil, &domain.ErrConflict{Message: "payment amount mismatch, estimate may have changed"}
	}
	s.metrics.RecordWorkflowStep("approval", "intent", "ok")

	// Step 3: confirm with the provider.
	confirmation, err := s.confirmer.ConfirmPayment(ctx, intent.ClientSecret, req.PaymentMethodID)
	if err != nil {
		s.metrics.RecordWorkflowStep("approval", "confirm", "error")
		return nil, fmt.Errorf("confirm payment: %w", err)
	}
	if !confirmation.Succeeded {
		s.metrics.RecordWorkflowStep("approval", "confirm", "declined")
		return nil, &domain.ErrPaymentFailed{QuoteID: quoteID, Reason: confirmation.FailureMessage}
	}
	s.metrics.RecordWorkflowStep("approval", "confirm", "ok")

	// Step 4: record the deposit on the quote.
	if err := s.quotes.PayDeposit(ctx, quoteID, req.MagicToken, deposit); err != nil {
		s.metrics.RecordWorkflowStep("approval", "record", "error")
		s.logger.Error("deposit paid but not recorded",
			zap.String("quote_id", quoteID),
			zap.String("payment_intent_id", confirmation.PaymentIntentID),
			zap.Error(err),
		)
		return nil, &domain.ErrDepositUnrecorded{
			QuoteID:         quoteID,
			PaymentIntentID: confirmation.PaymentIntentID,
			Err:             err,
		}
	}
	s.metrics.RecordWorkflowStep("approval", "record", "ok")

	s.logger.Info("deposit paid",
		zap.String("quote_id", quoteID),
		zap.Float64("deposit", deposit),
		zap.String("payment_intent_id", confirmation.PaymentIntentID),
	)

	updated, err := s.quotes.GetQuote(ctx, quoteID)
	if err != nil {
		// The payment is fully recorded; return the last known state.
		quote.Status = domain.QuoteDepositPaid
		return quote, nil
	}
	return updated, nil
}

// Reject declines an estimate from the public page or the admin panel.
func (s *Approvals) Reject(ctx context.Context, quoteID string) error {
	ctx, span := approvalTracer.Start(ctx, "Approvals.Reject")
	defer span.End()
	span.SetAttributes(attribute.String("quote.id", quoteID))

	if err := s.quotes.RejectQuote(ctx, quoteID); err != nil {
		return fmt.Errorf("reject quote: %w", err)
	}
	s.logger.Info("quote rejected", zap.String("quote_id", quoteID))
	return nil
}

// SetStatus is the admin override. Approve and reject route through their
// dedicated upstream endpoints; any other status uses the raw setter.
func (s *Approvals) SetStatus(ctx context.Context, quoteID string, status domain.QuoteStatus) error {
	ctx, span := approvalTracer.Start(ctx, "Approvals.SetStatus")
	defer span.End()
	span.SetAttributes(
		attribute.String("quote.id", quoteID),
		attribute.String("quote.status", string(status)),
	)

	switch status {
	case domain.QuoteApproved:
		return s.quotes.ApproveQuote(ctx, quoteID)
	case domain.QuoteRejected:
		return s.quotes.RejectQuote(ctx, quoteID)
	default:
		return s.quotes.SetQuoteStatus(ctx, quoteID, status)
	}
}

// amountMatches compares money values with a one-cent tolerance.
func amountMatches(a, b float64) bool {
	return math.Abs(a-b) < 0.01
}
