package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// walletService implements the WalletSvcFacade interface
type walletService struct {
	BaseService
	walletRepo portsrepo.WalletRepositoryFacade
	txnRepo    portsrepo.TransactionReader
	now        func() time.Time
}

// NewWalletService creates a new wallet service with the provided dependencies
func NewWalletService(walletRepo portsrepo.WalletRepositoryFacade, txnRepo portsrepo.TransactionReader) portssvc.WalletSvcFacade {
	return &walletService{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		now:        time.Now,
	}
}

// Ensure walletService implements the WalletSvcFacade interface
var _ portssvc.WalletSvcFacade = (*walletService)(nil)

// GetWallet retrieves a wallet by its ID
func (s *walletService) GetWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	wallet, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find wallet by ID", slog.String("wallet_id", walletID))
		}
		return nil, err
	}
	return wallet, nil
}

// ListWalletsByOwner retrieves every wallet an owner holds
func (s *walletService) ListWalletsByOwner(ctx context.Context, ownerID string) ([]domain.Wallet, error) {
	wallets, err := s.walletRepo.ListWalletsByOwner(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list wallets", slog.String("owner_id", ownerID))
		return nil, err
	}
	if wallets == nil {
		return []domain.Wallet{}, nil
	}
	return wallets, nil
}

// GetBalance returns the balance and currency of a wallet
func (s *walletService) GetBalance(ctx context.Context, walletID string) (decimal.Decimal, string, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, "", err
	}
	return wallet.Balance, wallet.CurrencyCode, nil
}

// ReconcileWallet checks the stored balance against the transaction log
func (s *walletService) ReconcileWallet(ctx context.Context, walletID string) (*domain.BalanceReconciliation, error) {
	wallet, err := s.GetWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	sum, err := s.txnRepo.SumCompletedAmounts(ctx, walletID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum transaction log", slog.String("wallet_id", walletID))
		return nil, err
	}

	diff := wallet.Balance.Sub(sum)
	rec := &domain.BalanceReconciliation{
		WalletID:      walletID,
		StoredBalance: wallet.Balance,
		LedgerBalance: sum,
		Difference:    diff,
		Balanced:      diff.IsZero(),
	}
	if !rec.Balanced {
		s.GetLogger(ctx).Warn("Wallet balance does not match transaction log",
			slog.String("wallet_id", walletID),
			slog.String("stored", wallet.Balance.String()),
			slog.String("ledger", sum.String()))
	}
	return rec, nil
}

// CreateWallet opens a zero-balance wallet for an owner in a currency
func (s *walletService) CreateWallet(ctx context.Context, req dto.CreateWalletRequest, ownerID string) (*domain.Wallet, error) {
	code, err := normalizeCurrencyCode(req.CurrencyCode)
	if err != nil {
		return nil, err
	}

	existing, err := s.walletRepo.FindWalletByOwnerAndCurrency(ctx, ownerID, code)
	if err == nil && existing != nil {
		return nil, fmt.Errorf("%w: owner %s already has a %s wallet", apperrors.ErrDuplicate, ownerID, code)
	}
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "Failed to check existing wallet", slog.String("owner_id", ownerID))
		return nil, err
	}

	now := s.now().UTC()
	wallet := domain.Wallet{
		WalletID:     uuid.NewString(),
		OwnerID:      ownerID,
		CurrencyCode: code,
		Balance:      decimal.Zero,
		IsActive:     true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     ownerID,
			LastUpdatedAt: now,
			LastUpdatedBy: ownerID,
		},
	}
	if err := s.walletRepo.SaveWallet(ctx, wallet); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save wallet", slog.String("owner_id", ownerID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Wallet created",
		slog.String("wallet_id", wallet.WalletID),
		slog.String("owner_id", ownerID),
		slog.String("currency_code", code))
	return &wallet, nil
}

// DeactivateWallet blocks every further mutation of a wallet
func (s *walletService) DeactivateWallet(ctx context.Context, walletID string, userID string) (*domain.Wallet, error) {
	return s.setActive(ctx, walletID, false, userID)
}

// ReactivateWallet lifts a deactivation
func (s *walletService) ReactivateWallet(ctx context.Context, walletID string, userID string) (*domain.Wallet, error) {
	return s.setActive(ctx, walletID, true, userID)
}

func (s *walletService) setActive(ctx context.Context, walletID string, active bool, userID string) (*domain.Wallet, error) {
	if err := s.walletRepo.SetWalletActive(ctx, walletID, active, userID, s.now().UTC()); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to change wallet state", slog.String("wallet_id", walletID))
		}
		return nil, err
	}
	s.LogInfo(ctx, "Wallet state changed", slog.String("wallet_id", walletID), slog.Bool("active", active))
	return s.GetWallet(ctx, walletID)
}

// GetTransaction retrieves one transaction log entry
func (s *walletService) GetTransaction(ctx context.Context, transactionID string) (*domain.LedgerTransaction, error) {
	txn, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find transaction", slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions returns a page of a wallet's history, newest first
func (s *walletService) ListTransactions(ctx context.Context, walletID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}

	var filter domain.TransactionFilter
	if params.Type != "" {
		t := domain.TransactionType(params.Type)
		if !t.IsValid() {
			return nil, errValidationf("unknown transaction type %q", params.Type)
		}
		filter.Type = &t
	}
	if params.Status != "" {
		st := domain.TransactionStatus(params.Status)
		if !st.IsValid() {
			return nil, errValidationf("unknown transaction status %q", params.Status)
		}
		filter.Status = &st
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, next, err := s.txnRepo.ListTransactionsByWallet(ctx, walletID, filter, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list transactions", slog.String("wallet_id", walletID))
		}
		return nil, err
	}

	s.LogDebug(ctx, "Transactions listed", slog.String("wallet_id", walletID), slog.Int("count", len(txns)))
	return &dto.ListTransactionsResponse{
		Transactions: dto.ToListTransactionResponse(txns),
		NextToken:    next,
	}, nil
}

// GetTransactionStats aggregates a wallet's completed entries
func (s *walletService) GetTransactionStats(ctx context.Context, walletID string) (*domain.TransactionStats, error) {
	if _, err := s.GetWallet(ctx, walletID); err != nil {
		return nil, err
	}
	stats, err := s.txnRepo.GetTransactionStats(ctx, walletID)
	if err != nil {
		s.LogError(ctx, err, "Failed to compute transaction stats", slog.String("wallet_id", walletID))
		return nil, err
	}
	return stats, nil
}
