package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/models"
	"github.com/SscSPs/donation_ledger/internal/utils/mapping"
	"github.com/SscSPs/donation_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const donationColumns = `donation_id, donor_wallet_id, recipient_owner_id, amount, currency_code, message,
	status, failure_reason, completed_at, cancelled_at, debit_transaction_id, credit_transaction_id,
	created_at, created_by, last_updated_at, last_updated_by`

type PgxDonationRepository struct {
	BaseRepository
}

// newPgxDonationRepository creates a new repository for donations.
func newPgxDonationRepository(pool *pgxpool.Pool) portsrepo.DonationRepositoryFacade {
	return &PgxDonationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.DonationRepositoryFacade = (*PgxDonationRepository)(nil)

func scanDonation(row pgx.Row) (domain.Donation, error) {
	var m models.Donation
	err := row.Scan(
		&m.DonationID,
		&m.DonorWalletID,
		&m.RecipientOwnerID,
		&m.Amount,
		&m.CurrencyCode,
		&m.Message,
		&m.Status,
		&m.FailureReason,
		&m.CompletedAt,
		&m.CancelledAt,
		&m.DebitTransactionID,
		&m.CreditTransactionID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Donation{}, err
	}
	return mapping.ToDomainDonation(m), nil
}

// FindDonationByID retrieves a donation by its ID.
func (r *PgxDonationRepository) FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE donation_id = $1;`
	d, err := scanDonation(r.Pool.QueryRow(ctx, query, donationID))
	if err != nil {
		return nil, mapError(err, "donation "+donationID)
	}
	return &d, nil
}

// ListDonationsByRecipient pages through the donations addressed to an owner, newest first.
func (r *PgxDonationRepository) ListDonationsByRecipient(ctx context.Context, recipientOwnerID string, limit int, nextToken *string) ([]domain.Donation, *string, error) {
	query := `SELECT ` + donationColumns + ` FROM donations WHERE recipient_owner_id = $1`
	args := []any{recipientOwnerID}
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, donation_id) < ($2, $3)`
		args = append(args, cursor.CreatedAt, cursor.ID)
	}
	args = append(args, limit+1)
	query += fmt.Sprintf(` ORDER BY created_at DESC, donation_id DESC LIMIT $%d;`, len(args))

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list donations for %s: %w", recipientOwnerID, err)
	}
	defer rows.Close()

	donations := make([]domain.Donation, 0, limit)
	for rows.Next() {
		d, err := scanDonation(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan donation row: %w", err)
		}
		donations = append(donations, d)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating donation rows: %w", err)
	}

	if len(donations) <= limit {
		return donations, nil, nil
	}
	donations = donations[:limit]
	last := donations[len(donations)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.DonationID)
	return donations, &token, nil
}

// SaveDonation inserts a new donation.
func (r *PgxDonationRepository) SaveDonation(ctx context.Context, donation domain.Donation) error {
	m := mapping.ToModelDonation(donation)
	query := `INSERT INTO donations (` + donationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);`
	_, err := r.Pool.Exec(ctx, query,
		m.DonationID,
		m.DonorWalletID,
		m.RecipientOwnerID,
		m.Amount,
		m.CurrencyCode,
		m.Message,
		m.Status,
		m.FailureReason,
		m.CompletedAt,
		m.CancelledAt,
		m.DebitTransactionID,
		m.CreditTransactionID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	return mapError(err, "donation "+m.DonationID)
}
