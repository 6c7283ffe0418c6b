package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
)

// LedgerTx is the set of reads and writes available inside one atomic unit of work.
// Nothing written through a LedgerTx is visible to others until the unit commits.
type LedgerTx interface {
	// LockWallets loads and locks the given wallets. Locks are taken in ascending id
	// order regardless of argument order. A missing wallet yields ErrNotFound.
	LockWallets(ctx context.Context, walletIDs ...string) (map[string]domain.Wallet, error)

	// ApplyBalanceChange updates a wallet only if it is active and the resulting
	// balance stays non-negative, returning the updated wallet.
	ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) (*domain.Wallet, error)

	// InsertTransactions appends log entries. A duplicate reference yields ErrDuplicate.
	InsertTransactions(ctx context.Context, txns ...domain.LedgerTransaction) error

	// UpdateTransactionStatus moves an entry from one status to another and reports
	// whether the entry was in the expected status.
	UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) (bool, error)

	// AttachPayoutID sets the payout id of a withdrawal entry if its stored payout id
	// equals expected (empty means none yet) and reports whether it did.
	AttachPayoutID(ctx context.Context, transactionID, expected, payoutID string) (bool, error)

	// CompareAndSetDonation persists the donation only if its stored status equals expected.
	CompareAndSetDonation(ctx context.Context, donation domain.Donation, expected domain.DonationStatus) (bool, error)
}

// UnitOfWork runs fn inside a single all-or-nothing unit. If fn returns an error
// every write made through tx is discarded.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}
