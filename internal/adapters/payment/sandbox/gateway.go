// Package sandbox is an in-memory payment gateway for development and tests.
// It settles synchronously and never talks to a real processor.
package sandbox

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	// DeclinedMethod is a payment method that always fails confirmation.
	DeclinedMethod = "pm_card_declined"
	// FailingDestinationPrefix marks payout destinations that always fail.
	FailingDestinationPrefix = "fail"
)

// Gateway keeps intents and payouts in memory.
type Gateway struct {
	mu      sync.Mutex
	intents map[string]domain.PaymentIntent
	payouts map[string]domain.Payout
	now     func() time.Time
}

// NewGateway creates an empty sandbox gateway.
func NewGateway() *Gateway {
	return &Gateway{
		intents: make(map[string]domain.PaymentIntent),
		payouts: make(map[string]domain.Payout),
		now:     time.Now,
	}
}

var _ external.PaymentGateway = (*Gateway)(nil)

func (g *Gateway) CreateIntent(_ context.Context, amount decimal.Decimal, currency string, metadata map[string]string) (*domain.PaymentIntent, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: intent amount must be positive", apperrors.ErrValidation)
	}
	intent := domain.PaymentIntent{
		ID:             "pi_" + ulid.Make().String(),
		Amount:         amount,
		Currency:       currency,
		Status:         domain.IntentRequiresConfirmation,
		RefundedAmount: decimal.Zero,
		Metadata:       metadata,
		CreatedAt:      g.now().UTC(),
	}

	g.mu.Lock()
	g.intents[intent.ID] = intent
	g.mu.Unlock()
	return &intent, nil
}

// Confirm succeeds unless methodID is DeclinedMethod. Terminal intents are returned as they are.
func (g *Gateway) Confirm(_ context.Context, intentID string, methodID string) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: payment intent %s", apperrors.ErrNotFound, intentID)
	}
	if intent.Status.IsTerminal() {
		return &intent, nil
	}
	if methodID == DeclinedMethod {
		intent.Status = domain.IntentFailed
	} else {
		intent.Status = domain.IntentSucceeded
	}
	g.intents[intentID] = intent
	return &intent, nil
}

func (g *Gateway) Refund(_ context.Context, intentID string, amount *decimal.Decimal) (*domain.PaymentIntent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	intent, ok := g.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: payment intent %s", apperrors.ErrNotFound, intentID)
	}
	if intent.Status != domain.IntentSucceeded {
		return nil, fmt.Errorf("%w: intent %s is %s", apperrors.ErrInvalidTransition, intentID, intent.Status)
	}
	refund := intent.Amount.Sub(intent.RefundedAmount)
	if amount != nil {
		refund = *amount
	}
	if !refund.IsPositive() || intent.RefundedAmount.Add(refund).GreaterThan(intent.Amount) {
		return nil, fmt.Errorf("%w: refund of %s exceeds refundable amount", apperrors.ErrValidation, refund.String())
	}
	intent.RefundedAmount = intent.RefundedAmount.Add(refund)
	g.intents[intentID] = intent
	return &intent, nil
}

// CreatePayout pays out immediately, except to destinations starting with FailingDestinationPrefix.
func (g *Gateway) CreatePayout(_ context.Context, amount decimal.Decimal, currency string, destination string, metadata map[string]string) (*domain.Payout, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: payout amount must be positive", apperrors.ErrValidation)
	}
	payout := domain.Payout{
		ID:          "po_" + ulid.Make().String(),
		Amount:      amount,
		Currency:    currency,
		Destination: destination,
		Status:      domain.PayoutPaid,
		Metadata:    metadata,
		CreatedAt:   g.now().UTC(),
	}
	if strings.HasPrefix(destination, FailingDestinationPrefix) {
		payout.Status = domain.PayoutFailed
		payout.FailureReason = "destination rejected"
	}

	g.mu.Lock()
	g.payouts[payout.ID] = payout
	g.mu.Unlock()
	return &payout, nil
}

// Intent returns a stored intent, for tests and the sandbox console.
func (g *Gateway) Intent(intentID string) (domain.PaymentIntent, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	intent, ok := g.intents[intentID]
	return intent, ok
}
