// Package stripepay adapts the Stripe API to the payment confirmer port.
// Intent creation stays with the invoice service; this adapter only
// confirms the intent the customer is paying, so card details never
// transit the BFF.
package stripepay

import (
	"context"
	"strings"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/olives-green/fieldops-bff-go/internal/domain"
)

var tracer = otel.Tracer("stripepay")

// Confirmer confirms payment intents against Stripe.
type Confirmer struct {
	api *client.API
}

// NewConfirmer creates a Confirmer with the given secret API key.
func NewConfirmer(apiKey string) *Confirmer {
	api := &client.API{}
	api.Init(apiKey, nil)
	return &Confirmer{api: api}
}

// ConfirmPayment confirms the intent referenced by clientSecret with the
// given payment method. A declined card is a successful call with
// Succeeded=false; only transport or API failures return an error.
func (c *Confirmer) ConfirmPayment(ctx context.Context, clientSecret, paymentMethodID string) (*domain.PaymentConfirmation, error) {
	ctx, span := tracer.Start(ctx, "Confirmer.ConfirmPayment")
	defer span.End()

	intentID, ok := intentIDFromSecret(clientSecret)
	if !ok {
		return nil, &domain.ErrValidation{Field: "clientSecret", Message: "malformed client secret"}
	}
	span.SetAttributes(attribute.String("payment.intent_id", intentID))

	params := &stripe.PaymentIntentConfirmParams{
		PaymentMethod: stripe.String(paymentMethodID),
	}
	params.Context = ctx

	intent, err := c.api.PaymentIntents.Confirm(intentID, params)
	if err != nil {
		if stripeErr, ok := err.(*stripe.Error); ok && stripeErr.Type == stripe.ErrorTypeCard {
			return &domain.PaymentConfirmation{
				PaymentIntentID: intentID,
				Succeeded:       false,
				FailureMessage:  stripeErr.Msg,
			}, nil
		}
		return nil, &domain.ErrExternalService{Service: "stripe", Err: err}
	}

	confirmation := &domain.PaymentConfirmation{
		PaymentIntentID: intent.ID,
		Succeeded:       intent.Status == stripe.PaymentIntentStatusSucceeded,
	}
	if !confirmation.Succeeded && intent.LastPaymentError != nil {
		confirmation.FailureMessage = intent.LastPaymentError.Msg
	}
	return confirmation, nil
}

// Client secrets look like "pi_123_secret_456"; the intent id is the part
// before "_secret_".
func intentIDFromSecret(secret string) (string, bool) {
	id, _, found := strings.Cut(secret, "_secret_")
	if !found || id == "" {
		return "", false
	}
	return id, true
}
