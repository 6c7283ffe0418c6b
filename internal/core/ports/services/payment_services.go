package services

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/dto"
)

// PaymentSvcFacade reconciles gateway payments with the transaction log.
type PaymentSvcFacade interface {
	// InitiateDeposit creates a gateway intent and a pending deposit entry.
	InitiateDeposit(ctx context.Context, req dto.InitiateDepositRequest, userID string) (*domain.DepositInitiation, error)

	// ConfirmDeposit settles the pending entry for an intent. Repeated calls are no-ops.
	ConfirmDeposit(ctx context.Context, intentID string, methodID string) (*domain.LedgerTransaction, error)

	// RequestPayout debits the wallet and sends the money out through the gateway.
	RequestPayout(ctx context.Context, req dto.PayoutRequest, userID string) (*domain.PayoutResult, error)
}
