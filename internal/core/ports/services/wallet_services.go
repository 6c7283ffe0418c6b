package services

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/shopspring/decimal"
)

// WalletReaderSvc defines read operations for wallets
type WalletReaderSvc interface {
	GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error)
	ListWalletsByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error)

	// GetBalance returns the balance and the wallet currency. It has no side effects.
	GetBalance(ctx context.Context, walletID string) (decimal.Decimal, string, error)

	// ReconcileWallet compares the stored balance with the sum of completed log entries.
	ReconcileWallet(ctx context.Context, walletID string) (*domain.BalanceReconciliation, error)
}

// WalletWriterSvc defines lifecycle operations for wallets
type WalletWriterSvc interface {
	CreateWallet(ctx context.Context, req dto.CreateWalletRequest, ownerID string) (*domain.Wallet, error)
	DeactivateWallet(ctx context.Context, walletID string, userID string) (*domain.Wallet, error)
	ReactivateWallet(ctx context.Context, walletID string, userID string) (*domain.Wallet, error)
}

// TransactionHistorySvc defines read operations over the transaction log
type TransactionHistorySvc interface {
	GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	ListTransactions(ctx context.Context, walletID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
	GetTransactionStats(ctx context.Context, walletID string) (*domain.TransactionStats, error)
}

// WalletSvcFacade combines all wallet-related service interfaces
type WalletSvcFacade interface {
	WalletReaderSvc
	WalletWriterSvc
	TransactionHistorySvc
}
