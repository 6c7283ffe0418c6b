package memory

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
)

// WithinTx runs fn against a staged view of the store. Staged writes are applied
// only if fn returns nil.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &ledgerTx{
		store:        s,
		wallets:      make(map[string]domain.Wallet),
		transactions: make(map[string]domain.LedgerTransaction),
		donations:    make(map[string]domain.Donation),
	}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	tx.commit()
	return nil
}

type ledgerTx struct {
	store        *Store
	wallets      map[string]domain.Wallet
	transactions map[string]domain.LedgerTransaction
	inserted     []string
	donations    map[string]domain.Donation
}

var _ portsrepo.LedgerTx = (*ledgerTx)(nil)

func (tx *ledgerTx) wallet(id string) (domain.Wallet, bool) {
	if w, ok := tx.wallets[id]; ok {
		return w, true
	}
	w, ok := tx.store.wallets[id]
	return w, ok
}

func (tx *ledgerTx) transaction(id string) (domain.LedgerTransaction, bool) {
	if t, ok := tx.transactions[id]; ok {
		return t, true
	}
	t, ok := tx.store.transactions[id]
	return t, ok
}

func (tx *ledgerTx) referenceTaken(ref string) bool {
	if _, ok := tx.store.references[ref]; ok {
		return true
	}
	for _, id := range tx.inserted {
		if tx.transactions[id].Reference == ref {
			return true
		}
	}
	return false
}

func (tx *ledgerTx) LockWallets(_ context.Context, walletIDs ...string) (map[string]domain.Wallet, error) {
	ids := slices.Clone(walletIDs)
	slices.Sort(ids)
	out := make(map[string]domain.Wallet, len(ids))
	for _, id := range slices.Compact(ids) {
		w, ok := tx.wallet(id)
		if !ok {
			return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, id)
		}
		out[id] = w
	}
	return out, nil
}

func (tx *ledgerTx) ApplyBalanceChange(_ context.Context, change domain.BalanceChange) (*domain.Wallet, error) {
	w, ok := tx.wallet(change.WalletID)
	if !ok {
		return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, change.WalletID)
	}
	if err := w.Apply(change); err != nil {
		return nil, err
	}
	tx.wallets[w.WalletID] = w
	return &w, nil
}

func (tx *ledgerTx) InsertTransactions(_ context.Context, txns ...domain.LedgerTransaction) error {
	for _, t := range txns {
		if _, exists := tx.transaction(t.TransactionID); exists {
			return fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, t.TransactionID)
		}
		if t.Reference != "" && tx.referenceTaken(t.Reference) {
			return fmt.Errorf("%w: reference %s", apperrors.ErrDuplicate, t.Reference)
		}
		tx.transactions[t.TransactionID] = t
		tx.inserted = append(tx.inserted, t.TransactionID)
	}
	return nil
}

func (tx *ledgerTx) UpdateTransactionStatus(_ context.Context, transactionID string, from, to domain.TransactionStatus, at time.Time) (bool, error) {
	t, ok := tx.transaction(transactionID)
	if !ok {
		return false, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if t.Status != from {
		return false, nil
	}
	t.Status = to
	t.LastUpdatedAt = at
	tx.transactions[transactionID] = t
	return true, nil
}

func (tx *ledgerTx) AttachPayoutID(_ context.Context, transactionID, expected, payoutID string) (bool, error) {
	t, ok := tx.transaction(transactionID)
	if !ok {
		return false, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	if t.PayoutID != expected {
		return false, nil
	}
	t.PayoutID = payoutID
	tx.transactions[transactionID] = t
	return true, nil
}

func (tx *ledgerTx) CompareAndSetDonation(_ context.Context, donation domain.Donation, expected domain.DonationStatus) (bool, error) {
	current, ok := tx.donations[donation.DonationID]
	if !ok {
		current, ok = tx.store.donations[donation.DonationID]
	}
	if !ok {
		return false, fmt.Errorf("%w: donation %s", apperrors.ErrNotFound, donation.DonationID)
	}
	if current.Status != expected {
		return false, nil
	}
	tx.donations[donation.DonationID] = donation
	return true, nil
}

func (tx *ledgerTx) commit() {
	s := tx.store
	for id, w := range tx.wallets {
		s.wallets[id] = w
	}
	for id, t := range tx.transactions {
		s.transactions[id] = t
		if t.Reference != "" {
			s.references[t.Reference] = id
		}
		if t.PaymentIntentID != "" {
			if _, ok := s.intents[t.PaymentIntentID]; !ok {
				s.intents[t.PaymentIntentID] = id
			}
		}
	}
	for id, d := range tx.donations {
		s.donations[id] = d
	}
}
