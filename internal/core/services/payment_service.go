package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/oklog/ulid/v2"
)

// PaymentService keeps gateway payments and the transaction log in step.
type PaymentService struct {
	BaseService
	txnRepo   portsrepo.TransactionReader
	uow       portsrepo.UnitOfWork
	gateway   external.PaymentGateway
	transfers *TransferService
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(txnRepo portsrepo.TransactionReader, uow portsrepo.UnitOfWork, gateway external.PaymentGateway, transfers *TransferService) *PaymentService {
	return &PaymentService{
		BaseService: BaseService{Metrics: transfers.Metrics},
		txnRepo:     txnRepo,
		uow:         uow,
		gateway:     gateway,
		transfers:   transfers,
	}
}

var _ portssvc.PaymentSvcFacade = (*PaymentService)(nil)

// InitiateDeposit opens a gateway intent for the gross amount and records a pending
// deposit for the net amount. The balance changes only once the intent succeeds.
func (s *PaymentService) InitiateDeposit(ctx context.Context, req dto.InitiateDepositRequest, userID string) (_ *domain.DepositInitiation, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "initiate_deposit", started, err, slog.String("walletID", req.WalletID)) }()

	if !req.Amount.IsPositive() {
		return nil, errValidationf("deposit amount must be positive")
	}
	wallet, err := s.transfers.loadActiveWallet(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	fee, err := s.transfers.fee(req.Amount, domain.FeeCategoryDeposit, wallet.CurrencyCode)
	if err != nil {
		return nil, err
	}
	net := req.Amount.Sub(fee)
	if !net.IsPositive() {
		return nil, errValidationf("deposit of %s does not cover its fee of %s", req.Amount.String(), fee.String())
	}

	intent, err := s.gateway.CreateIntent(ctx, req.Amount, wallet.CurrencyCode, map[string]string{"walletID": wallet.WalletID})
	if err != nil {
		return nil, fmt.Errorf("%w: creating payment intent: %v", apperrors.ErrServiceUnavailable, err)
	}

	entry := newEntry(wallet, domain.TransactionDeposit, net, fee, referenceOrNew(""), req.Description, userID, s.transfers.clock())
	entry.Status = domain.StatusPending
	entry.PaymentIntentID = intent.ID
	entry.Metadata[metaBaseAmount] = req.Amount.String()

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return tx.InsertTransactions(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Deposit initiated", slog.String("intent_id", intent.ID), slog.String("transaction_id", entry.TransactionID))
	return &domain.DepositInitiation{Intent: *intent, Transaction: entry}, nil
}

// ConfirmDeposit settles the pending deposit behind an intent.
func (s *PaymentService) ConfirmDeposit(ctx context.Context, intentID string, methodID string) (_ *domain.LedgerTransaction, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "confirm_deposit", started, err, slog.String("intentID", intentID)) }()

	entry, err := s.txnRepo.FindTransactionByPaymentIntentID(ctx, intentID)
	if err != nil {
		return nil, err
	}
	if entry.Status != domain.StatusPending {
		s.LogDebug(ctx, "Deposit already settled", slog.String("intent_id", intentID), slog.String("status", string(entry.Status)))
		return entry, nil
	}

	intent, err := s.gateway.Confirm(ctx, intentID, methodID)
	if err != nil {
		return nil, fmt.Errorf("%w: confirming payment intent: %v", apperrors.ErrServiceUnavailable, err)
	}

	switch intent.Status {
	case domain.IntentSucceeded:
		err = s.settle(ctx, entry)
		if errors.Is(err, apperrors.ErrInactive) {
			return s.refundInactive(ctx, entry)
		}
	case domain.IntentFailed, domain.IntentCanceled:
		err = s.markFailed(ctx, entry)
	default:
		return entry, nil
	}
	if err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionByID(ctx, entry.TransactionID)
}

func (s *PaymentService) settle(ctx context.Context, entry *domain.LedgerTransaction) error {
	now := s.transfers.clock()
	settled := false
	err := s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		ok, err := tx.UpdateTransactionStatus(ctx, entry.TransactionID, domain.StatusPending, domain.StatusCompleted, now)
		if err != nil || !ok {
			return err
		}
		settled = true
		if _, err := tx.LockWallets(ctx, entry.WalletID); err != nil {
			return err
		}
		_, err = tx.ApplyBalanceChange(ctx, domain.BalanceChange{
			WalletID:  entry.WalletID,
			Delta:     entry.Amount,
			Totals:    domain.WalletTotals{Deposits: entry.Amount, Fees: entry.Fee},
			At:        now,
			UpdatedBy: domain.SystemActor,
		})
		return err
	})
	if err == nil && settled {
		s.transfers.recordFee(domain.FeeCategoryDeposit, entry.CurrencyCode, entry.Fee)
		s.LogInfo(ctx, "Deposit settled", slog.String("transaction_id", entry.TransactionID))
	}
	return err
}

func (s *PaymentService) markFailed(ctx context.Context, entry *domain.LedgerTransaction) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		_, err := tx.UpdateTransactionStatus(ctx, entry.TransactionID, domain.StatusPending, domain.StatusFailed, s.transfers.clock())
		return err
	})
}

// refundInactive returns the money of a deposit whose wallet was deactivated
// while the payment was in flight.
func (s *PaymentService) refundInactive(ctx context.Context, entry *domain.LedgerTransaction) (*domain.LedgerTransaction, error) {
	s.GetLogger(ctx).Warn("Wallet deactivated before deposit settled, refunding payment",
		slog.String("intent_id", entry.PaymentIntentID), slog.String("wallet_id", entry.WalletID))
	if _, err := s.gateway.Refund(ctx, entry.PaymentIntentID, nil); err != nil {
		return nil, fmt.Errorf("%w: refunding payment intent: %v", apperrors.ErrServiceUnavailable, err)
	}
	if err := s.markFailed(ctx, entry); err != nil {
		return nil, err
	}
	return s.txnRepo.FindTransactionByID(ctx, entry.TransactionID)
}

// RequestPayout debits the wallet, then asks the gateway to pay out. If the gateway
// errors or fails the payout, the debit is reversed in full, fee included.
func (s *PaymentService) RequestPayout(ctx context.Context, req dto.PayoutRequest, userID string) (_ *domain.PayoutResult, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "request_payout", started, err, slog.String("walletID", req.WalletID)) }()

	entry, err := s.transfers.withdraw(ctx, req.WalletID, dto.MoneyMovementRequest{
		Amount:      req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
	}, userID, map[string]string{metaDestination: req.Destination})
	if err != nil {
		return nil, err
	}
	if reversal, err := s.txnRepo.FindTransactionByReference(ctx, refundRefPrefix+entry.TransactionID); err == nil {
		return nil, fmt.Errorf("%w: withdrawal %s was reversed by %s, retry with a new reference",
			apperrors.ErrInvalidTransition, entry.TransactionID, reversal.TransactionID)
	} else if !isNotFound(err) {
		return nil, err
	}
	if strings.HasPrefix(entry.PayoutID, payoutClaimPrefix) {
		return nil, fmt.Errorf("%w: payout for withdrawal %s is already in progress", apperrors.ErrDuplicate, entry.TransactionID)
	}
	if entry.PayoutID != "" {
		return &domain.PayoutResult{
			Payout: domain.Payout{
				ID:          entry.PayoutID,
				Amount:      req.Amount,
				Currency:    entry.CurrencyCode,
				Destination: entry.Metadata[metaDestination],
				Status:      domain.PayoutPaid,
			},
			Transaction: *entry,
		}, nil
	}

	// Only the caller that claims the entry talks to the gateway.
	claim := payoutClaimPrefix + ulid.Make().String()
	if err := s.attachPayout(ctx, entry.TransactionID, "", claim); err != nil {
		return nil, err
	}

	payout, err := s.gateway.CreatePayout(ctx, req.Amount, entry.CurrencyCode, req.Destination,
		map[string]string{"transactionID": entry.TransactionID})
	if err != nil {
		if _, rerr := s.reverseWithdrawal(ctx, entry, "payout request failed"); rerr != nil {
			s.LogError(ctx, rerr, "Failed to reverse withdrawal after payout error", slog.String("transaction_id", entry.TransactionID))
			return nil, errors.Join(fmt.Errorf("%w: creating payout: %v", apperrors.ErrServiceUnavailable, err), rerr)
		}
		return nil, fmt.Errorf("%w: creating payout: %v", apperrors.ErrServiceUnavailable, err)
	}

	result := &domain.PayoutResult{Payout: *payout, Transaction: *entry}
	if payout.Status == domain.PayoutFailed {
		reversal, err := s.reverseWithdrawal(ctx, entry, "payout failed: "+payout.FailureReason)
		if err != nil {
			return nil, err
		}
		result.Reversal = reversal
		return result, nil
	}

	if err := s.attachPayout(ctx, entry.TransactionID, claim, payout.ID); err != nil {
		s.LogError(ctx, err, "Payout sent but not recorded", slog.String("payout_id", payout.ID), slog.String("transaction_id", entry.TransactionID))
		return nil, err
	}
	result.Transaction.PayoutID = payout.ID
	s.LogInfo(ctx, "Payout requested", slog.String("payout_id", payout.ID), slog.String("transaction_id", entry.TransactionID))
	return result, nil
}

// attachPayout moves the payout id of an entry from expected to payoutID.
func (s *PaymentService) attachPayout(ctx context.Context, transactionID, expected, payoutID string) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		ok, err := tx.AttachPayoutID(ctx, transactionID, expected, payoutID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: payout for withdrawal %s is already in progress", apperrors.ErrDuplicate, transactionID)
		}
		return nil
	})
}

func (s *PaymentService) reverseWithdrawal(ctx context.Context, entry *domain.LedgerTransaction, reason string) (*domain.LedgerTransaction, error) {
	now := s.transfers.clock()
	reversal := domain.LedgerTransaction{
		TransactionID:        newEntryID(),
		WalletID:             entry.WalletID,
		Type:                 domain.TransactionRefund,
		Amount:               entry.Amount.Neg(),
		CurrencyCode:         entry.CurrencyCode,
		RelatedTransactionID: entry.TransactionID,
		Status:               domain.StatusCompleted,
		Reference:            refundRefPrefix + entry.TransactionID,
		Description:          "Reversal of " + entry.TransactionID,
		Metadata:             map[string]string{metaReason: reason},
		AuditFields:          domain.AuditFields{CreatedAt: now, CreatedBy: domain.SystemActor, LastUpdatedAt: now, LastUpdatedBy: domain.SystemActor},
	}
	plan := &movementPlan{
		lockIDs: []string{entry.WalletID},
		changes: []domain.BalanceChange{{WalletID: entry.WalletID, Delta: reversal.Amount, At: now, UpdatedBy: domain.SystemActor}},
		entries: []domain.LedgerTransaction{reversal},
	}
	if err := s.transfers.execute(ctx, plan); err != nil {
		return nil, err
	}
	s.GetLogger(ctx).Warn("Withdrawal reversed", slog.String("transaction_id", entry.TransactionID), slog.String("reason", reason))
	return &reversal, nil
}
