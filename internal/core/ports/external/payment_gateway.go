package external

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PaymentGateway is the card/wallet processor as seen by the ledger. Implementations
// own every provider-specific payload.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error)
	Confirm(ctx context.Context, intentID string, methodID string) (*domain.PaymentIntent, error)

	// Refund refunds the whole intent when amount is nil.
	Refund(ctx context.Context, intentID string, amount *decimal.Decimal) (*domain.PaymentIntent, error)

	CreatePayout(ctx context.Context, amount decimal.Decimal, currency string, destination string, metadata map[string]string) (*domain.Payout, error)
}
