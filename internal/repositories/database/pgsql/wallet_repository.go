package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/models"
	"github.com/SscSPs/donation_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const walletColumns = `wallet_id, owner_id, currency_code, balance, is_active,
	total_deposits, total_withdrawals, total_fees, total_transfers, total_donations,
	last_transaction_at, version, created_at, created_by, last_updated_at, last_updated_by`

type PgxWalletRepository struct {
	BaseRepository
}

// newPgxWalletRepository creates a new repository for wallet data.
func newPgxWalletRepository(pool *pgxpool.Pool) portsrepo.WalletRepositoryFacade {
	return &PgxWalletRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WalletRepositoryFacade = (*PgxWalletRepository)(nil)

func scanWallet(row pgx.Row) (domain.Wallet, error) {
	var m models.Wallet
	err := row.Scan(
		&m.WalletID,
		&m.OwnerID,
		&m.CurrencyCode,
		&m.Balance,
		&m.IsActive,
		&m.TotalDeposits,
		&m.TotalWithdrawals,
		&m.TotalFees,
		&m.TotalTransfers,
		&m.TotalDonations,
		&m.LastTransactionAt,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Wallet{}, err
	}
	return mapping.ToDomainWallet(m), nil
}

func findWallet(ctx context.Context, q querier, walletID string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = $1;`
	w, err := scanWallet(q.QueryRow(ctx, query, walletID))
	if err != nil {
		return nil, mapError(err, "wallet "+walletID)
	}
	return &w, nil
}

// FindWalletByID retrieves a wallet by its ID.
func (r *PgxWalletRepository) FindWalletByID(ctx context.Context, walletID string) (*domain.Wallet, error) {
	return findWallet(ctx, r.Pool, walletID)
}

// FindWalletByOwnerAndCurrency retrieves the owner's wallet in a currency.
func (r *PgxWalletRepository) FindWalletByOwnerAndCurrency(ctx context.Context, ownerID string, currencyCode string) (*domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 AND currency_code = $2;`
	w, err := scanWallet(r.Pool.QueryRow(ctx, query, ownerID, currencyCode))
	if err != nil {
		return nil, mapError(err, fmt.Sprintf("%s wallet of owner %s", currencyCode, ownerID))
	}
	return &w, nil
}

// ListWalletsByOwner lists an owner's wallets ordered by currency.
func (r *PgxWalletRepository) ListWalletsByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	query := `SELECT ` + walletColumns + ` FROM wallets WHERE owner_id = $1 ORDER BY currency_code;`
	rows, err := r.Pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallets of owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	wallets := []domain.Wallet{}
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan wallet row: %w", err)
		}
		wallets = append(wallets, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating wallet rows: %w", err)
	}
	return wallets, nil
}

// SaveWallet inserts a new wallet.
func (r *PgxWalletRepository) SaveWallet(ctx context.Context, wallet domain.Wallet) error {
	m := mapping.ToModelWallet(wallet)
	query := `INSERT INTO wallets (` + walletColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.Pool.Exec(ctx, query,
		m.WalletID,
		m.OwnerID,
		m.CurrencyCode,
		m.Balance,
		m.IsActive,
		m.TotalDeposits,
		m.TotalWithdrawals,
		m.TotalFees,
		m.TotalTransfers,
		m.TotalDonations,
		m.LastTransactionAt,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, fmt.Sprintf("wallet for owner %s in %s", m.OwnerID, m.CurrencyCode))
}

// SetWalletActive flips the active flag.
func (r *PgxWalletRepository) SetWalletActive(ctx context.Context, walletID string, active bool, userID string, now time.Time) error {
	query := `UPDATE wallets SET is_active = $2, last_updated_at = $3, last_updated_by = $4 WHERE wallet_id = $1;`
	cmdTag, err := r.Pool.Exec(ctx, query, walletID, active, now, userID)
	if err != nil {
		return fmt.Errorf("failed to update wallet %s: %w", walletID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, walletID)
	}
	return nil
}
