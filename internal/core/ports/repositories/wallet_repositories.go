package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
)

// WalletReader defines read operations for wallet data
type WalletReader interface {
	// FindWalletByID retrieves a wallet by its unique identifier.
	FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error)

	// FindWalletByOwnerAndCurrency retrieves the single wallet an owner holds in a currency.
	FindWalletByOwnerAndCurrency(ctx context.Context, ownerID string, currencyCode string) (*domain.Wallet, error)

	// ListWalletsByOwner lists every wallet of an owner.
	ListWalletsByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error)
}

// WalletWriter defines write operations for wallet data
type WalletWriter interface {
	// SaveWallet persists a new wallet. A second wallet for the same owner and currency yields ErrDuplicate.
	SaveWallet(ctx context.Context, wallet domain.Wallet) error

	// SetWalletActive flips the active flag.
	SetWalletActive(ctx context.Context, walletID string, active bool, userID string, now time.Time) error
}

// WalletRepositoryFacade combines all wallet-related repository interfaces
type WalletRepositoryFacade interface {
	WalletReader
	WalletWriter
}
