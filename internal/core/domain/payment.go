package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentIntentStatus mirrors the states a card or wallet payment goes through at the gateway.
type PaymentIntentStatus string

const (
	IntentRequiresConfirmation PaymentIntentStatus = "requires_confirmation"
	IntentProcessing           PaymentIntentStatus = "processing"
	IntentSucceeded            PaymentIntentStatus = "succeeded"
	IntentFailed               PaymentIntentStatus = "failed"
	IntentCanceled             PaymentIntentStatus = "canceled"
)

// IsTerminal reports whether the gateway will not move the intent any further.
func (s PaymentIntentStatus) IsTerminal() bool {
	return s == IntentSucceeded || s == IntentFailed || s == IntentCanceled
}

// PaymentIntent is the gateway's view of an incoming payment.
type PaymentIntent struct {
	ID             string              `json:"id"`
	Amount         decimal.Decimal     `json:"amount"`
	Currency       string              `json:"currency"`
	Status         PaymentIntentStatus `json:"status"`
	RefundedAmount decimal.Decimal     `json:"refundedAmount"`
	Metadata       map[string]string   `json:"metadata,omitempty"`
	CreatedAt      time.Time           `json:"createdAt"`
}

// PayoutStatus is the state of an outgoing payout.
type PayoutStatus string

const (
	PayoutPending PayoutStatus = "pending"
	PayoutPaid    PayoutStatus = "paid"
	PayoutFailed  PayoutStatus = "failed"
)

// Payout is the gateway's view of money sent out of the platform.
type Payout struct {
	ID            string            `json:"id"`
	Amount        decimal.Decimal   `json:"amount"`
	Currency      string            `json:"currency"`
	Destination   string            `json:"destination"`
	Status        PayoutStatus      `json:"status"`
	FailureReason string            `json:"failureReason,omitempty"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
}

// DepositInitiation is returned when a gateway-backed deposit has been started.
type DepositInitiation struct {
	Intent      PaymentIntent     `json:"intent"`
	Transaction LedgerTransaction `json:"transaction"`
}

// PayoutResult is returned by a payout request.
type PayoutResult struct {
	Payout      Payout             `json:"payout"`
	Transaction LedgerTransaction  `json:"transaction"`
	Reversal    *LedgerTransaction `json:"reversal,omitempty"`
}
