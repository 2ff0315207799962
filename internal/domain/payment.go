package domain

import "math"

// ============================================================
// Payments (deposit on an approved estimate)
// ============================================================

// Deposit terms: half the quote total up front, plus a card processing fee.
const (
	DepositRate       = 0.5
	ProcessingFeeRate = 0.03
)

// DepositFor returns the deposit due on a quote total.
func DepositFor(total float64) float64 {
	return round2(total * DepositRate)
}

// ProcessingFeeFor returns the card fee charged on a deposit amount.
func ProcessingFeeFor(deposit float64) float64 {
	return round2(deposit * ProcessingFeeRate)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// PaymentIntentRequest is the write shape for the invoice service.
// Amount is the base deposit; the service adds the processing fee.
type PaymentIntentRequest struct {
	QuoteID  string  `json:"quoteId"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// PaymentIntentResponse is returned by the invoice service. Amount is the
// total that will actually be charged, fee included.
type PaymentIntentResponse struct {
	ClientSecret string  `json:"clientSecret"`
	ID           string  `json:"id"`
	Amount       float64 `json:"amount"`
	FeeAmount    float64 `json:"feeAmount"`
}

// PaymentConfirmation is the provider-side outcome of confirming an intent.
type PaymentConfirmation struct {
	PaymentIntentID string
	Succeeded       bool
	FailureMessage  string
}
