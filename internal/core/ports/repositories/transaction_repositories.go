package repositories

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransactionReader defines read operations over the transaction log.
// The log is append-only; writes happen through LedgerTx.
type TransactionReader interface {
	FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error)
	FindTransactionByReference(ctx context.Context, reference string) (*domain.LedgerTransaction, error)
	FindTransactionByPaymentIntentID(ctx context.Context, intentID string) (*domain.LedgerTransaction, error)

	// ListTransactionsByWallet returns entries newest first, with an opaque token for the next page.
	ListTransactionsByWallet(ctx context.Context, walletID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error)

	// GetTransactionStats aggregates the completed entries of a wallet per type.
	GetTransactionStats(ctx context.Context, walletID string) (*domain.TransactionStats, error)

	// SumCompletedAmounts returns the signed sum of a wallet's completed entries.
	SumCompletedAmounts(ctx context.Context, walletID string) (decimal.Decimal, error)
}

// TransactionRepositoryFacade combines all transaction-related repository interfaces
type TransactionRepositoryFacade interface {
	TransactionReader
}
