// Package domain defines the core business entities for the OlivesGreen
// field-operations suite. All authoritative state lives in the remote
// services; these models are the canonical shapes the BFF works with.
package domain

import "time"

// ============================================================
// Quote
// ============================================================

// QuoteStatus is the closed set of quote lifecycle states.
type QuoteStatus string

const (
	QuoteRequested    QuoteStatus = "REQUESTED"
	QuoteEstimateSent QuoteStatus = "ESTIMATE_SENT"
	QuoteApproved     QuoteStatus = "APPROVED"
	QuoteRejected     QuoteStatus = "REJECTED"
	QuoteDepositPaid  QuoteStatus = "DEPOSIT_PAID"
)

// ParseQuoteStatus validates a raw status string against the closed set.
func ParseQuoteStatus(s string) (QuoteStatus, bool) {
	switch QuoteStatus(s) {
	case QuoteRequested, QuoteEstimateSent, QuoteApproved, QuoteRejected, QuoteDepositPaid:
		return QuoteStatus(s), true
	}
	return "", false
}

// Editable reports whether an admin may still change line items and mockups.
// Once a quote is approved, rejected or paid it is read-only except through
// the explicit admin override.
func (s QuoteStatus) Editable() bool {
	return s == QuoteRequested || s == QuoteEstimateSent
}

// LineItem is a single priced row on an estimate.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	UnitPrice   float64 `json:"unitPrice"`
	Quantity    float64 `json:"quantity"`
	Total       float64 `json:"total,omitempty"`
}

// Quote is a priced estimate request, owned by the job service.
type Quote struct {
	ID              string      `json:"id"`
	CustomerID      string      `json:"customerId"`
	PropertyID      string      `json:"propertyId"`
	Title           string      `json:"title"`
	Status          QuoteStatus `json:"status"`
	TotalAmount     float64     `json:"totalAmount"`
	DepositAmount   float64     `json:"depositAmount,omitempty"`
	MagicLinkToken  string      `json:"magicLinkToken,omitempty"`
	RequestDetails  string      `json:"requestDetails,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	LineItems       []LineItem  `json:"lineItems"`
	MockupImageURLs []string    `json:"mockupImageUrls,omitempty"`
}

// CreateQuoteRequest is the write shape accepted by the job service for both
// create and full update.
type CreateQuoteRequest struct {
	CustomerID      string     `json:"customerId"`
	PropertyID      string     `json:"propertyId"`
	Title           string     `json:"title"`
	RequestDetails  string     `json:"requestDetails"`
	LineItems       []LineItem `json:"lineItems"`
	MockupImageURLs []string   `json:"mockupImageUrls,omitempty"`
}

// LineItemsTotal sums unitPrice*quantity over the given items.
func LineItemsTotal(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += it.UnitPrice * it.Quantity
	}
	return sum
}
