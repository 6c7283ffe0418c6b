package pgsql

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/models"
	"github.com/SscSPs/donation_ledger/internal/utils/mapping"
	"github.com/SscSPs/donation_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const transactionColumns = `transaction_id, wallet_id, txn_type, amount, currency_code, fee,
	related_wallet_id, related_transaction_id, status, reference, payment_intent_id, payout_id,
	description, metadata, created_at, created_by, last_updated_at, last_updated_by`

type PgxTransactionRepository struct {
	BaseRepository
}

// newPgxTransactionRepository creates a new repository for the transaction log.
func newPgxTransactionRepository(pool *pgxpool.Pool) portsrepo.TransactionRepositoryFacade {
	return &PgxTransactionRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.TransactionRepositoryFacade = (*PgxTransactionRepository)(nil)

func scanTransaction(row pgx.Row) (domain.LedgerTransaction, error) {
	var m models.LedgerTransaction
	err := row.Scan(
		&m.TransactionID,
		&m.WalletID,
		&m.Type,
		&m.Amount,
		&m.CurrencyCode,
		&m.Fee,
		&m.RelatedWalletID,
		&m.RelatedTransactionID,
		&m.Status,
		&m.Reference,
		&m.PaymentIntentID,
		&m.PayoutID,
		&m.Description,
		&m.Metadata,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.LedgerTransaction{}, err
	}
	return mapping.ToDomainLedgerTransaction(m), nil
}

func (r *PgxTransactionRepository) findOne(ctx context.Context, where string, arg any, what string) (*domain.LedgerTransaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions WHERE ` + where + ` ORDER BY created_at LIMIT 1;`
	t, err := scanTransaction(r.Pool.QueryRow(ctx, query, arg))
	if err != nil {
		return nil, mapError(err, what)
	}
	return &t, nil
}

// FindTransactionByID retrieves one log entry.
func (r *PgxTransactionRepository) FindTransactionByID(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	return r.findOne(ctx, "transaction_id = $1", transactionID, "transaction "+transactionID)
}

// FindTransactionByReference retrieves the entry recorded under an idempotency reference.
func (r *PgxTransactionRepository) FindTransactionByReference(ctx context.Context, reference string) (*domain.LedgerTransaction, error) {
	return r.findOne(ctx, "reference = $1", reference, "transaction with reference "+reference)
}

// FindTransactionByPaymentIntentID retrieves the deposit opened for a gateway intent.
func (r *PgxTransactionRepository) FindTransactionByPaymentIntentID(ctx context.Context, intentID string) (*domain.LedgerTransaction, error) {
	return r.findOne(ctx, "payment_intent_id = $1", intentID, "transaction for payment intent "+intentID)
}

// ListTransactionsByWallet pages through a wallet's entries with keyset pagination on
// (created_at, transaction_id), newest first.
func (r *PgxTransactionRepository) ListTransactionsByWallet(ctx context.Context, walletID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	conditions := []string{"wallet_id = $1"}
	args := []any{walletID}
	addArg := func(cond string, v any) {
		args = append(args, v)
		conditions = append(conditions, strings.ReplaceAll(cond, "?", "$"+strconv.Itoa(len(args))))
	}

	if filter.Type != nil {
		addArg("txn_type = ?", string(*filter.Type))
	}
	if filter.Status != nil {
		addArg("status = ?", string(*filter.Status))
	}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		args = append(args, cursor.CreatedAt, cursor.ID)
		conditions = append(conditions, fmt.Sprintf("(created_at, transaction_id) < ($%d, $%d)", len(args)-1, len(args)))
	}
	args = append(args, limit+1)

	query := `SELECT ` + transactionColumns + ` FROM wallet_transactions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY created_at DESC, transaction_id DESC
		LIMIT $` + strconv.Itoa(len(args)) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list transactions of wallet %s: %w", walletID, err)
	}
	defer rows.Close()

	txns := make([]domain.LedgerTransaction, 0, limit)
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	if len(txns) <= limit {
		return txns, nil, nil
	}
	txns = txns[:limit]
	last := txns[len(txns)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
	return txns, &token, nil
}

// GetTransactionStats aggregates a wallet's completed entries per type.
func (r *PgxTransactionRepository) GetTransactionStats(ctx context.Context, walletID string) (*domain.TransactionStats, error) {
	query := `
		SELECT txn_type, COUNT(*), COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0)
		FROM wallet_transactions
		WHERE wallet_id = $1 AND status = 'completed'
		GROUP BY txn_type
		ORDER BY txn_type;
	`
	rows, err := r.Pool.Query(ctx, query, walletID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate transactions of wallet %s: %w", walletID, err)
	}
	defer rows.Close()

	stats := &domain.TransactionStats{WalletID: walletID, ByType: []domain.TransactionTypeStats{}}
	for rows.Next() {
		var (
			txnType    string
			ts         domain.TransactionTypeStats
			sum, fees decimal.Decimal
		)
		if err := rows.Scan(&txnType, &ts.Count, &sum, &fees); err != nil {
			return nil, fmt.Errorf("failed to scan stats row: %w", err)
		}
		ts.Type = domain.TransactionType(txnType)
		ts.TotalAmount = sum
		ts.TotalFees = fees
		stats.ByType = append(stats.ByType, ts)
		stats.TotalCount += ts.Count
		stats.TotalAmount = stats.TotalAmount.Add(sum)
		stats.TotalFees = stats.TotalFees.Add(fees)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating stats rows: %w", err)
	}
	return stats, nil
}

// SumCompletedAmounts returns the signed sum of a wallet's completed entries.
func (r *PgxTransactionRepository) SumCompletedAmounts(ctx context.Context, walletID string) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM wallet_transactions WHERE wallet_id = $1 AND status = 'completed';`
	var sum decimal.Decimal
	if err := r.Pool.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transactions of wallet %s: %w", walletID, err)
	}
	return sum, nil
}
