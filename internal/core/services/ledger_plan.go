package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/utils/accounting"
	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/shopspring/decimal"
)

const (
	metaRate           = "rate"
	metaSourceCurrency = "sourceCurrency"
	metaTargetCurrency = "targetCurrency"
	metaFeeCategory    = "feeCategory"
	metaBaseAmount     = "baseAmount"
	metaFeePolicy      = "feePolicy"
	metaDonationID     = "donationID"
	metaDestination    = "destination"
	metaReason         = "reason"

	refundRefPrefix   = "refund:"
	payoutClaimPrefix = "claim:"
	donationRefPrefix = "donation:"
	creditRefSuffix   = ":credit"
)

// movementPlan is everything one money movement writes. It is computed outside the
// unit of work and applied inside it.
type movementPlan struct {
	lockIDs []string
	changes []domain.BalanceChange
	entries []domain.LedgerTransaction
}

func (p *movementPlan) apply(ctx context.Context, tx portsrepo.LedgerTx) error {
	if err := accounting.ValidateMovement(p.changes, p.entries); err != nil {
		return apperrors.NewAppError(500, "inconsistent movement plan", err)
	}
	if _, err := tx.LockWallets(ctx, p.lockIDs...); err != nil {
		return err
	}
	// Entries first: a reused reference must surface as ErrDuplicate before any overdraft check.
	if err := tx.InsertTransactions(ctx, p.entries...); err != nil {
		return err
	}
	for _, change := range p.changes {
		if _, err := tx.ApplyBalanceChange(ctx, change); err != nil {
			return err
		}
	}
	return nil
}

// newEntry builds a completed log entry with a fresh id.
func newEntry(wallet *domain.Wallet, txnType domain.TransactionType, amount, fee decimal.Decimal, reference, description, userID string, now time.Time) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID: newEntryID(),
		WalletID:      wallet.WalletID,
		Type:          txnType,
		Amount:        amount,
		CurrencyCode:  wallet.CurrencyCode,
		Fee:           fee,
		Status:        domain.StatusCompleted,
		Reference:     reference,
		Description:   description,
		Metadata:      map[string]string{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
}

func newEntryID() string {
	return uuid.NewString()
}

// referenceOrNew returns the caller's idempotency key, or a fresh ULID.
func referenceOrNew(ref string) string {
	if ref != "" {
		return ref
	}
	return ulid.Make().String()
}

// linkLegs points two entries of one movement at each other.
func linkLegs(debit, credit *domain.LedgerTransaction) {
	debit.RelatedWalletID = credit.WalletID
	debit.RelatedTransactionID = credit.TransactionID
	credit.RelatedWalletID = debit.WalletID
	credit.RelatedTransactionID = debit.TransactionID
}

func requireActive(w *domain.Wallet) error {
	if !w.IsActive {
		return fmt.Errorf("%w: wallet %s", apperrors.ErrInactive, w.WalletID)
	}
	return nil
}

func requireCover(w *domain.Wallet, amount decimal.Decimal) error {
	if !w.CanCover(amount) {
		return fmt.Errorf("%w: wallet %s balance %s is below %s",
			apperrors.ErrInsufficientFunds, w.WalletID, w.Balance.String(), amount.String())
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
