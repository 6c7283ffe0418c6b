package pgsql

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PgxUnitOfWork runs ledger writes inside one database transaction.
type PgxUnitOfWork struct {
	BaseRepository
}

func newPgxUnitOfWork(pool *pgxpool.Pool) portsrepo.UnitOfWork {
	return &PgxUnitOfWork{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.UnitOfWork = (*PgxUnitOfWork)(nil)

// WithinTx commits only if fn returns nil.
func (u *PgxUnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := u.Begin(ctx)
	if err != nil {
		return err
	}
	defer u.Rollback(ctx, tx) // No-op after a successful commit

	if err := fn(ctx, &pgxLedgerTx{tx: tx}); err != nil {
		return err
	}
	return u.Commit(ctx, tx)
}

type pgxLedgerTx struct {
	tx pgx.Tx
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

// LockWallets takes row locks in ascending id order so two movements over the same
// pair of wallets cannot deadlock.
func (t *pgxLedgerTx) LockWallets(ctx context.Context, walletIDs ...string) (map[string]domain.Wallet, error) {
	ids := slices.Clone(walletIDs)
	slices.Sort(ids)
	ids = slices.Compact(ids)

	query := `SELECT ` + walletColumns + ` FROM wallets WHERE wallet_id = ANY($1) ORDER BY wallet_id FOR UPDATE;`
	rows, err := t.tx.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to lock wallets: %w", err)
	}
	defer rows.Close()

	locked := make(map[string]domain.Wallet, len(ids))
	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked wallet: %w", err)
		}
		locked[w.WalletID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked wallets: %w", err)
	}
	for _, id := range ids {
		if _, ok := locked[id]; !ok {
			return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, id)
		}
	}
	return locked, nil
}

// ApplyBalanceChange is a single conditional UPDATE. When it matches no row the wallet
// is re-read to report why.
func (t *pgxLedgerTx) ApplyBalanceChange(ctx context.Context, change domain.BalanceChange) (*domain.Wallet, error) {
	query := `
		UPDATE wallets SET
			balance = balance + $2,
			total_deposits = total_deposits + $3,
			total_withdrawals = total_withdrawals + $4,
			total_fees = total_fees + $5,
			total_transfers = total_transfers + $6,
			total_donations = total_donations + $7,
			last_transaction_at = $8,
			last_updated_at = $8,
			last_updated_by = $9,
			version = version + 1
		WHERE wallet_id = $1 AND is_active AND balance + $2 >= 0
		RETURNING ` + walletColumns + `;`
	w, err := scanWallet(t.tx.QueryRow(ctx, query,
		change.WalletID,
		change.Delta,
		change.Totals.Deposits,
		change.Totals.Withdrawals,
		change.Totals.Fees,
		change.Totals.Transfers,
		change.Totals.Donations,
		change.At,
		change.UpdatedBy,
	))
	if err == nil {
		return &w, nil
	}
	if mapped := mapError(err, "wallet "+change.WalletID); !errors.Is(mapped, apperrors.ErrNotFound) {
		return nil, mapped
	}

	current, err := findWallet(ctx, t.tx, change.WalletID)
	if err != nil {
		return nil, err
	}
	if !current.IsActive {
		return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrInactive, change.WalletID)
	}
	return nil, fmt.Errorf("%w: wallet %s balance %s cannot absorb %s",
		apperrors.ErrInsufficientFunds, change.WalletID, current.Balance.String(), change.Delta.String())
}

// InsertTransactions queues every insert in one batch. A unique violation on the
// reference index surfaces as ErrDuplicate.
func (t *pgxLedgerTx) InsertTransactions(ctx context.Context, txns ...domain.LedgerTransaction) error {
	query := `INSERT INTO wallet_transactions (` + transactionColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18);`
	batch := &pgx.Batch{}
	for _, txn := range txns {
		m := mapping.ToModelLedgerTransaction(txn)
		batch.Queue(query,
			m.TransactionID,
			m.WalletID,
			m.Type,
			m.Amount,
			m.CurrencyCode,
			m.Fee,
			m.RelatedWalletID,
			m.RelatedTransactionID,
			m.Status,
			m.Reference,
			m.PaymentIntentID,
			m.PayoutID,
			m.Description,
			m.Metadata,
			m.CreatedAt,
			m.CreatedBy,
			m.LastUpdatedAt,
			m.LastUpdatedBy,
		)
	}
	br := t.tx.SendBatch(ctx, batch)
	return mapError(br.Close(), "transaction batch")
}

func (t *pgxLedgerTx) transactionExists(ctx context.Context, transactionID string) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM wallet_transactions WHERE transaction_id = $1);`, transactionID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check transaction %s: %w", transactionID, err)
	}
	return exists, nil
}

// UpdateTransactionStatus is a compare-and-set on the status column.
func (t *pgxLedgerTx) UpdateTransactionStatus(ctx context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) (bool, error) {
	query := `UPDATE wallet_transactions SET status = $3, last_updated_at = $4 WHERE transaction_id = $1 AND status = $2;`
	cmdTag, err := t.tx.Exec(ctx, query, transactionID, string(from), string(to), at)
	if err != nil {
		return false, fmt.Errorf("failed to update status of transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}
	exists, err := t.transactionExists(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return false, nil
}

// AttachPayoutID is a compare-and-set on the payout_id column.
func (t *pgxLedgerTx) AttachPayoutID(ctx context.Context, transactionID, expected, payoutID string) (bool, error) {
	query := `UPDATE wallet_transactions SET payout_id = $3 WHERE transaction_id = $1 AND payout_id IS NOT DISTINCT FROM $2;`
	var want *string
	if expected != "" {
		want = &expected
	}
	cmdTag, err := t.tx.Exec(ctx, query, transactionID, want, payoutID)
	if err != nil {
		return false, fmt.Errorf("failed to attach payout to transaction %s: %w", transactionID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}
	exists, err := t.transactionExists(ctx, transactionID)
	if err != nil {
		return false, err
	}
	if !exists {
		return false, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return false, nil
}

// CompareAndSetDonation writes the mutable donation columns if the stored status is expected.
func (t *pgxLedgerTx) CompareAndSetDonation(ctx context.Context, donation domain.Donation, expected domain.DonationStatus) (bool, error) {
	m := mapping.ToModelDonation(donation)
	query := `
		UPDATE donations SET
			status = $2,
			failure_reason = $3,
			completed_at = $4,
			cancelled_at = $5,
			debit_transaction_id = $6,
			credit_transaction_id = $7,
			last_updated_at = $8,
			last_updated_by = $9
		WHERE donation_id = $1 AND status = $10;`
	cmdTag, err := t.tx.Exec(ctx, query,
		m.DonationID,
		m.Status,
		m.FailureReason,
		m.CompletedAt,
		m.CancelledAt,
		m.DebitTransactionID,
		m.CreditTransactionID,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
		string(expected),
	)
	if err != nil {
		return false, fmt.Errorf("failed to update donation %s: %w", m.DonationID, err)
	}
	if cmdTag.RowsAffected() > 0 {
		return true, nil
	}

	var exists bool
	if err := t.tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM donations WHERE donation_id = $1);`, m.DonationID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check donation %s: %w", m.DonationID, err)
	}
	if !exists {
		return false, fmt.Errorf("%w: donation %s", apperrors.ErrNotFound, m.DonationID)
	}
	return false, nil
}
