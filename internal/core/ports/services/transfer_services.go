package services

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/dto"
)

// SingleWalletMovementSvc moves money in or out of one wallet.
type SingleWalletMovementSvc interface {
	Deposit(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string) (*domain.LedgerTransaction, error)
	Withdraw(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string) (*domain.LedgerTransaction, error)
	ChargeFee(ctx context.Context, walletID string, req dto.ChargeFeeRequest, userID string) (*domain.LedgerTransaction, error)
}

// TwoWalletMovementSvc moves money between two wallets as one atomic unit.
type TwoWalletMovementSvc interface {
	Transfer(ctx context.Context, req dto.TransferRequest, userID string) (*domain.TransferResult, error)
	Donate(ctx context.Context, req dto.DonateRequest, userID string) (*domain.TransferResult, error)
}

// RefundSvc reverses completed entries with new refund entries.
type RefundSvc interface {
	Refund(ctx context.Context, transactionID string, req dto.RefundRequest, userID string) ([]domain.LedgerTransaction, error)
}

// TransferSvcFacade combines all money-movement service interfaces
type TransferSvcFacade interface {
	SingleWalletMovementSvc
	TwoWalletMovementSvc
	RefundSvc
}
