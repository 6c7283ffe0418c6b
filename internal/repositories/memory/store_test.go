package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func seedWallet(t *testing.T, s *Store, id, owner, currency string) {
	t.Helper()
	require.NoError(t, s.SaveWallet(context.Background(), domain.Wallet{
		WalletID: id, OwnerID: owner, CurrencyCode: currency, Balance: decimal.Zero, IsActive: true,
		AuditFields: domain.AuditFields{CreatedAt: t0, LastUpdatedAt: t0},
	}))
}

func entry(id, walletID, ref string, amount string, at time.Time) domain.LedgerTransaction {
	return domain.LedgerTransaction{
		TransactionID: id,
		WalletID:      walletID,
		Type:          domain.TransactionDeposit,
		Amount:        decimal.RequireFromString(amount),
		CurrencyCode:  "USD",
		Fee:           decimal.Zero,
		Status:        domain.StatusCompleted,
		Reference:     ref,
		AuditFields:   domain.AuditFields{CreatedAt: at, LastUpdatedAt: at},
	}
}

func credit(walletID, amount string) domain.BalanceChange {
	return domain.BalanceChange{WalletID: walletID, Delta: decimal.RequireFromString(amount), At: t0, UpdatedBy: "test"}
}

func TestSaveWallet_OnePerOwnerAndCurrency(t *testing.T) {
	s := NewStore()
	seedWallet(t, s, "w1", "alice", "USD")

	err := s.SaveWallet(context.Background(), domain.Wallet{WalletID: "w2", OwnerID: "alice", CurrencyCode: "USD"})
	assert.ErrorIs(t, err, apperrors.ErrDuplicate)

	w, err := s.FindWalletByOwnerAndCurrency(context.Background(), "alice", "USD")
	require.NoError(t, err)
	assert.Equal(t, "w1", w.WalletID)

	_, err = s.FindWalletByOwnerAndCurrency(context.Background(), "alice", "EUR")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTx_RollsBackEverythingOnError(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")
	seedWallet(t, s, "b", "bob", "USD")

	err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		if _, err := tx.ApplyBalanceChange(ctx, credit("a", "10")); err != nil {
			return err
		}
		if err := tx.InsertTransactions(ctx, entry("t1", "a", "ref-1", "10", t0)); err != nil {
			return err
		}
		_, err := tx.ApplyBalanceChange(ctx, credit("b", "-5"))
		return err
	})
	require.ErrorIs(t, err, apperrors.ErrInsufficientFunds)

	a, err := s.FindWalletByID(ctx, "a")
	require.NoError(t, err)
	assert.True(t, a.Balance.IsZero())
	_, err = s.FindTransactionByID(ctx, "t1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = s.FindTransactionByReference(ctx, "ref-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestWithinTx_CommitsOnSuccess(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")

	err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		w, err := tx.ApplyBalanceChange(ctx, credit("a", "10"))
		if err != nil {
			return err
		}
		assert.Equal(t, int64(1), w.Version)
		return tx.InsertTransactions(ctx, entry("t1", "a", "ref-1", "10", t0))
	})
	require.NoError(t, err)

	a, err := s.FindWalletByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "10", a.Balance.String())
	byRef, err := s.FindTransactionByReference(ctx, "ref-1")
	require.NoError(t, err)
	assert.Equal(t, "t1", byRef.TransactionID)
	sum, err := s.SumCompletedAmounts(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sum.Equal(a.Balance))
}

func TestInsertTransactions_ReferenceIsUnique(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")
	insert := func(txns ...domain.LedgerTransaction) error {
		return s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			return tx.InsertTransactions(ctx, txns...)
		})
	}

	require.NoError(t, insert(entry("t1", "a", "ref-1", "1", t0)))
	assert.ErrorIs(t, insert(entry("t2", "a", "ref-1", "1", t0)), apperrors.ErrDuplicate)
	assert.ErrorIs(t, insert(entry("t3", "a", "ref-2", "1", t0), entry("t4", "a", "ref-2", "1", t0)), apperrors.ErrDuplicate,
		"duplicates within one batch are caught too")
	assert.ErrorIs(t, insert(entry("t1", "a", "", "1", t0)), apperrors.ErrDuplicate)
	require.NoError(t, insert(entry("t5", "a", "", "1", t0), entry("t6", "a", "", "1", t0)), "empty references never collide")

	_, err := s.FindTransactionByID(ctx, "t3")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateTransactionStatus_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")
	pending := entry("t1", "a", "", "5", t0)
	pending.Status = domain.StatusPending
	pending.PaymentIntentID = "pi_1"
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertTransactions(ctx, pending)
	}))

	swap := func() bool {
		var ok bool
		require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			var err error
			ok, err = tx.UpdateTransactionStatus(ctx, "t1", domain.StatusPending, domain.StatusCompleted, t0)
			return err
		}))
		return ok
	}
	assert.True(t, swap())
	assert.False(t, swap())

	byIntent, err := s.FindTransactionByPaymentIntentID(ctx, "pi_1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, byIntent.Status)
}

func TestAttachPayoutID_CompareAndSet(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertTransactions(ctx, entry("w1", "a", "", "-5", t0))
	}))

	attach := func(expected, payoutID string) bool {
		var ok bool
		require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			var err error
			ok, err = tx.AttachPayoutID(ctx, "w1", expected, payoutID)
			return err
		}))
		return ok
	}
	assert.True(t, attach("", "claim:1"))
	assert.False(t, attach("", "claim:2"), "a second claim loses")
	assert.True(t, attach("claim:1", "po_1"))

	stored, err := s.FindTransactionByID(ctx, "w1")
	require.NoError(t, err)
	assert.Equal(t, "po_1", stored.PayoutID)

	err = s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.AttachPayoutID(ctx, "missing", "", "po_2")
		return err
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompareAndSetDonation(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	d := domain.Donation{DonationID: "d1", RecipientOwnerID: "bob", Status: domain.DonationPending, AuditFields: domain.AuditFields{CreatedAt: t0}}
	require.NoError(t, s.SaveDonation(ctx, d))
	assert.ErrorIs(t, s.SaveDonation(ctx, d), apperrors.ErrDuplicate)

	completed := d
	completed.Status = domain.DonationCompleted
	cas := func(expected domain.DonationStatus) (bool, error) {
		var ok bool
		err := s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			var err error
			ok, err = tx.CompareAndSetDonation(ctx, completed, expected)
			return err
		})
		return ok, err
	}

	ok, err := cas(domain.DonationPending)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = cas(domain.DonationPending)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := s.FindDonationByID(ctx, "d1")
	require.NoError(t, err)
	assert.Equal(t, domain.DonationCompleted, stored.Status)

	missing := completed
	missing.DonationID = "nope"
	err = s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.CompareAndSetDonation(ctx, missing, domain.DonationPending)
		return err
	})
	assert.True(t, errors.Is(err, apperrors.ErrNotFound))
}

func TestListTransactionsByWallet_KeysetPages(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	seedWallet(t, s, "a", "alice", "USD")
	require.NoError(t, s.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertTransactions(ctx,
			entry("t1", "a", "", "1", t0),
			entry("t2", "a", "", "2", t0.Add(time.Minute)),
			entry("t3", "a", "", "3", t0.Add(time.Minute)),
			entry("t4", "a", "", "4", t0.Add(2*time.Minute)),
		)
	}))

	page1, next, err := s.ListTransactionsByWallet(ctx, "a", domain.TransactionFilter{}, 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"t4", "t3"}, ids(page1))

	page2, next, err := s.ListTransactionsByWallet(ctx, "a", domain.TransactionFilter{}, 2, next)
	require.NoError(t, err)
	assert.Nil(t, next)
	assert.Equal(t, []string{"t2", "t1"}, ids(page2))

	bad := "%%%"
	_, _, err = s.ListTransactionsByWallet(ctx, "a", domain.TransactionFilter{}, 2, &bad)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func ids(txns []domain.LedgerTransaction) []string {
	out := make([]string, len(txns))
	for i, t := range txns {
		out[i] = t.TransactionID
	}
	return out
}
