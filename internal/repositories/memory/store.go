// Package memory is an in-process implementation of every repository port. It backs
// tests and single-instance deployments that run without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/donation_ledger/internal/utils/accounting"
	"github.com/SscSPs/donation_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

// Store keeps all records behind one lock. A unit of work holds the lock for its
// whole duration, so callbacks passed to WithinTx must not call back into the Store.
type Store struct {
	mu           sync.RWMutex
	wallets      map[string]domain.Wallet
	transactions map[string]domain.LedgerTransaction
	references   map[string]string // reference -> transaction id
	intents      map[string]string // payment intent id -> transaction id
	donations    map[string]domain.Donation
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		wallets:      make(map[string]domain.Wallet),
		transactions: make(map[string]domain.LedgerTransaction),
		references:   make(map[string]string),
		intents:      make(map[string]string),
		donations:    make(map[string]domain.Donation),
	}
}

// Repositories exposes the store through the repository provider used by the service container.
func (s *Store) Repositories() portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		WalletRepo:      s,
		TransactionRepo: s,
		DonationRepo:    s,
		UnitOfWork:      s,
	}
}

var (
	_ portsrepo.WalletRepositoryFacade      = (*Store)(nil)
	_ portsrepo.TransactionRepositoryFacade = (*Store)(nil)
	_ portsrepo.DonationRepositoryFacade    = (*Store)(nil)
	_ portsrepo.UnitOfWork                  = (*Store)(nil)
)

// --- wallets ---

func (s *Store) FindWalletByID(_ context.Context, walletID string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, walletID)
	}
	return &w, nil
}

func (s *Store) FindWalletByOwnerAndCurrency(_ context.Context, ownerID string, currencyCode string) (*domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.wallets {
		if w.OwnerID == ownerID && w.CurrencyCode == currencyCode {
			return &w, nil
		}
	}
	return nil, fmt.Errorf("%w: no %s wallet for owner %s", apperrors.ErrNotFound, currencyCode, ownerID)
}

func (s *Store) ListWalletsByOwner(_ context.Context, ownerID string) ([]domain.Wallet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []domain.Wallet{}
	for _, w := range s.wallets {
		if w.OwnerID == ownerID {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CurrencyCode < out[j].CurrencyCode })
	return out, nil
}

func (s *Store) SaveWallet(_ context.Context, wallet domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.wallets[wallet.WalletID]; ok {
		return fmt.Errorf("%w: wallet %s", apperrors.ErrDuplicate, wallet.WalletID)
	}
	for _, w := range s.wallets {
		if w.OwnerID == wallet.OwnerID && w.CurrencyCode == wallet.CurrencyCode {
			return fmt.Errorf("%w: owner %s already has a %s wallet", apperrors.ErrDuplicate, wallet.OwnerID, wallet.CurrencyCode)
		}
	}
	s.wallets[wallet.WalletID] = wallet
	return nil
}

func (s *Store) SetWalletActive(_ context.Context, walletID string, active bool, userID string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return fmt.Errorf("%w: wallet %s", apperrors.ErrNotFound, walletID)
	}
	w.IsActive = active
	w.LastUpdatedAt = now
	w.LastUpdatedBy = userID
	s.wallets[walletID] = w
	return nil
}

// --- transactions ---

func (s *Store) FindTransactionByID(_ context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transactions[transactionID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrNotFound, transactionID)
	}
	return &t, nil
}

func (s *Store) FindTransactionByReference(_ context.Context, reference string) (*domain.LedgerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.references[reference]
	if !ok {
		return nil, fmt.Errorf("%w: transaction with reference %s", apperrors.ErrNotFound, reference)
	}
	t := s.transactions[id]
	return &t, nil
}

func (s *Store) FindTransactionByPaymentIntentID(_ context.Context, intentID string) (*domain.LedgerTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.intents[intentID]
	if !ok {
		return nil, fmt.Errorf("%w: transaction for payment intent %s", apperrors.ErrNotFound, intentID)
	}
	t := s.transactions[id]
	return &t, nil
}

func (s *Store) ListTransactionsByWallet(_ context.Context, walletID string, filter domain.TransactionFilter, limit int, nextToken *string) ([]domain.LedgerTransaction, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.LedgerTransaction, 0)
	for _, t := range s.transactions {
		if t.WalletID != walletID || !filter.Matches(t) {
			continue
		}
		if cursor != nil && !cursor.Before(t.CreatedAt, t.TransactionID) {
			continue
		}
		matched = append(matched, t)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].TransactionID > matched[j].TransactionID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
	return page, &token, nil
}

func (s *Store) GetTransactionStats(_ context.Context, walletID string) (*domain.TransactionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byType := make(map[domain.TransactionType]*domain.TransactionTypeStats)
	stats := &domain.TransactionStats{WalletID: walletID, ByType: []domain.TransactionTypeStats{}}
	for _, t := range s.transactions {
		if t.WalletID != walletID || t.Status != domain.StatusCompleted {
			continue
		}
		ts, ok := byType[t.Type]
		if !ok {
			ts = &domain.TransactionTypeStats{Type: t.Type}
			byType[t.Type] = ts
		}
		ts.Count++
		ts.TotalAmount = ts.TotalAmount.Add(t.Amount)
		ts.TotalFees = ts.TotalFees.Add(t.Fee)
		stats.TotalCount++
		stats.TotalAmount = stats.TotalAmount.Add(t.Amount)
		stats.TotalFees = stats.TotalFees.Add(t.Fee)
	}
	for _, ts := range byType {
		stats.ByType = append(stats.ByType, *ts)
	}
	sort.Slice(stats.ByType, func(i, j int) bool { return stats.ByType[i].Type < stats.ByType[j].Type })
	return stats, nil
}

func (s *Store) SumCompletedAmounts(_ context.Context, walletID string) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	txns := make([]domain.LedgerTransaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		txns = append(txns, t)
	}
	return accounting.LedgerBalance(walletID, txns), nil
}

// --- donations ---

func (s *Store) FindDonationByID(_ context.Context, donationID string) (*domain.Donation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.donations[donationID]
	if !ok {
		return nil, fmt.Errorf("%w: donation %s", apperrors.ErrNotFound, donationID)
	}
	return &d, nil
}

func (s *Store) ListDonationsByRecipient(_ context.Context, recipientOwnerID string, limit int, nextToken *string) ([]domain.Donation, *string, error) {
	var cursor *pagination.Cursor
	if nextToken != nil && *nextToken != "" {
		c, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
		}
		cursor = &c
	}

	s.mu.RLock()
	matched := make([]domain.Donation, 0)
	for _, d := range s.donations {
		if d.RecipientOwnerID != recipientOwnerID {
			continue
		}
		if cursor != nil && !cursor.Before(d.CreatedAt, d.DonationID) {
			continue
		}
		matched = append(matched, d)
	}
	s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].DonationID > matched[j].DonationID
		}
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	if limit <= 0 || len(matched) <= limit {
		return matched, nil, nil
	}
	page := matched[:limit]
	last := page[len(page)-1]
	token := pagination.EncodeCursor(last.CreatedAt, last.DonationID)
	return page, &token, nil
}

func (s *Store) SaveDonation(_ context.Context, donation domain.Donation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.donations[donation.DonationID]; ok {
		return fmt.Errorf("%w: donation %s", apperrors.ErrDuplicate, donation.DonationID)
	}
	s.donations[donation.DonationID] = donation
	return nil
}
