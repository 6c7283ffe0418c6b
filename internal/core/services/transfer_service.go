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
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/shopspring/decimal"
)

// DonationFeePolicy decides who bears the donation fee.
type DonationFeePolicy string

const (
	// FeeFromDonation debits the donor the donated amount and credits the recipient amount minus fee.
	FeeFromDonation DonationFeePolicy = "fee_from_donation"
	// FeeOnTop debits the donor amount plus fee and credits the recipient the full amount.
	FeeOnTop DonationFeePolicy = "fee_on_top"
)

// ParseDonationFeePolicy validates a configured policy name.
func ParseDonationFeePolicy(s string) (DonationFeePolicy, error) {
	switch p := DonationFeePolicy(s); p {
	case FeeFromDonation, FeeOnTop:
		return p, nil
	case "":
		return FeeFromDonation, nil
	}
	return "", errValidationf("unknown donation fee policy %q", s)
}

// TransferService moves money between wallets and the outside world.
type TransferService struct {
	BaseService
	walletRepo portsrepo.WalletReader
	txnRepo    portsrepo.TransactionReader
	uow        portsrepo.UnitOfWork
	fees       portssvc.FeeCalculatorSvc
	rates      portssvc.ExchangeRateReaderSvc
	feePolicy  DonationFeePolicy
	now        func() time.Time
}

// TransferOption configures a TransferService.
type TransferOption func(*TransferService)

// WithDonationFeePolicy overrides the default fee_from_donation policy.
func WithDonationFeePolicy(p DonationFeePolicy) TransferOption {
	return func(s *TransferService) {
		s.feePolicy = p
	}
}

// WithTransferMetrics attaches a metrics recorder.
func WithTransferMetrics(r *metrics.Recorder) TransferOption {
	return func(s *TransferService) {
		s.Metrics = r
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) TransferOption {
	return func(s *TransferService) {
		s.now = now
	}
}

// NewTransferService creates a new TransferService.
func NewTransferService(
	walletRepo portsrepo.WalletReader,
	txnRepo portsrepo.TransactionReader,
	uow portsrepo.UnitOfWork,
	fees portssvc.FeeCalculatorSvc,
	rates portssvc.ExchangeRateReaderSvc,
	opts ...TransferOption,
) *TransferService {
	s := &TransferService{
		walletRepo: walletRepo,
		txnRepo:    txnRepo,
		uow:        uow,
		fees:       fees,
		rates:      rates,
		feePolicy:  FeeFromDonation,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ portssvc.TransferSvcFacade = (*TransferService)(nil)

func (s *TransferService) clock() time.Time {
	return s.now().UTC()
}

func (s *TransferService) execute(ctx context.Context, plan *movementPlan) error {
	return s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		return plan.apply(ctx, tx)
	})
}

func (s *TransferService) loadActiveWallet(ctx context.Context, walletID string) (*domain.Wallet, error) {
	w, err := s.walletRepo.FindWalletByID(ctx, walletID)
	if err != nil {
		return nil, err
	}
	if err := requireActive(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (s *TransferService) fee(amount decimal.Decimal, category domain.FeeCategory, currency string) (decimal.Decimal, error) {
	b, err := s.fees.CalculateFee(amount, category, currency, nil)
	if err != nil {
		return decimal.Zero, err
	}
	return b.AdjustedFee, nil
}

func (s *TransferService) recordFee(category domain.FeeCategory, currency string, fee decimal.Decimal) {
	if fee.IsPositive() {
		s.Metrics.AddFee(category.String(), currency, fee.InexactFloat64())
	}
}

// replaySingle returns the entry already recorded under ref, if it matches the
// operation being retried. A reference reused for something else is a duplicate.
func (s *TransferService) replaySingle(ctx context.Context, ref, walletID string, txnType domain.TransactionType) (*domain.LedgerTransaction, error) {
	if ref == "" {
		return nil, nil
	}
	existing, err := s.txnRepo.FindTransactionByReference(ctx, ref)
	if isNotFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if existing.WalletID != walletID || existing.Type != txnType {
		return nil, fmt.Errorf("%w: reference %s already used by transaction %s", apperrors.ErrDuplicate, ref, existing.TransactionID)
	}
	s.LogDebug(ctx, "Replaying idempotent request", slog.String("reference", ref), slog.String("transactionID", existing.TransactionID))
	return existing, nil
}

// replayPair is replaySingle for two-leg movements keyed by the debit leg.
func (s *TransferService) replayPair(ctx context.Context, ref, fromWalletID string, txnType domain.TransactionType) (*domain.TransferResult, error) {
	debit, err := s.replaySingle(ctx, ref, fromWalletID, txnType)
	if err != nil || debit == nil {
		return nil, err
	}
	credit, err := s.txnRepo.FindTransactionByID(ctx, debit.RelatedTransactionID)
	if err != nil {
		return nil, fmt.Errorf("loading credit leg of %s: %w", debit.TransactionID, err)
	}
	rate := decimal.NewFromInt(1)
	if r, err := decimal.NewFromString(debit.Metadata[metaRate]); err == nil {
		rate = r
	}
	return &domain.TransferResult{
		Debit:          *debit,
		Credit:         *credit,
		Fee:            debit.Fee,
		Rate:           rate,
		CreditedAmount: credit.Amount,
	}, nil
}

// Deposit credits amount minus the deposit fee.
func (s *TransferService) Deposit(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string) (_ *domain.LedgerTransaction, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "deposit", started, err, slog.String("walletID", walletID)) }()

	if !req.Amount.IsPositive() {
		return nil, errValidationf("deposit amount must be positive")
	}
	if existing, err := s.replaySingle(ctx, req.Reference, walletID, domain.TransactionDeposit); err != nil || existing != nil {
		return existing, err
	}

	wallet, err := s.loadActiveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	fee, err := s.fee(req.Amount, domain.FeeCategoryDeposit, wallet.CurrencyCode)
	if err != nil {
		return nil, err
	}
	net := req.Amount.Sub(fee)
	if !net.IsPositive() {
		return nil, errValidationf("deposit of %s does not cover its fee of %s", req.Amount.String(), fee.String())
	}

	now := s.clock()
	entry := newEntry(wallet, domain.TransactionDeposit, net, fee, referenceOrNew(req.Reference), req.Description, userID, now)
	entry.Metadata[metaBaseAmount] = req.Amount.String()
	plan := &movementPlan{
		lockIDs: []string{wallet.WalletID},
		changes: []domain.BalanceChange{{
			WalletID:  wallet.WalletID,
			Delta:     net,
			Totals:    domain.WalletTotals{Deposits: net, Fees: fee},
			At:        now,
			UpdatedBy: userID,
		}},
		entries: []domain.LedgerTransaction{entry},
	}
	if err := s.execute(ctx, plan); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.Reference != "" {
			return s.replaySingle(ctx, req.Reference, walletID, domain.TransactionDeposit)
		}
		return nil, err
	}

	s.recordFee(domain.FeeCategoryDeposit, wallet.CurrencyCode, fee)
	s.LogInfo(ctx, "Deposit recorded", slog.String("transactionID", entry.TransactionID), slog.String("net", net.String()))
	return &entry, nil
}

// Withdraw debits amount plus the withdrawal fee.
func (s *TransferService) Withdraw(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string) (_ *domain.LedgerTransaction, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "withdraw", started, err, slog.String("walletID", walletID)) }()

	return s.withdraw(ctx, walletID, req, userID, nil)
}

func (s *TransferService) withdraw(ctx context.Context, walletID string, req dto.MoneyMovementRequest, userID string, metadata map[string]string) (*domain.LedgerTransaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errValidationf("withdrawal amount must be positive")
	}
	if existing, err := s.replaySingle(ctx, req.Reference, walletID, domain.TransactionWithdrawal); err != nil || existing != nil {
		return existing, err
	}

	wallet, err := s.loadActiveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	fee, err := s.fee(req.Amount, domain.FeeCategoryWithdrawal, wallet.CurrencyCode)
	if err != nil {
		return nil, err
	}
	total := req.Amount.Add(fee)
	if err := requireCover(wallet, total); err != nil {
		return nil, err
	}

	now := s.clock()
	entry := newEntry(wallet, domain.TransactionWithdrawal, total.Neg(), fee, referenceOrNew(req.Reference), req.Description, userID, now)
	for k, v := range metadata {
		entry.Metadata[k] = v
	}
	plan := &movementPlan{
		lockIDs: []string{wallet.WalletID},
		changes: []domain.BalanceChange{{
			WalletID:  wallet.WalletID,
			Delta:     total.Neg(),
			Totals:    domain.WalletTotals{Withdrawals: req.Amount, Fees: fee},
			At:        now,
			UpdatedBy: userID,
		}},
		entries: []domain.LedgerTransaction{entry},
	}
	if err := s.execute(ctx, plan); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.Reference != "" {
			return s.replaySingle(ctx, req.Reference, walletID, domain.TransactionWithdrawal)
		}
		return nil, err
	}

	s.recordFee(domain.FeeCategoryWithdrawal, wallet.CurrencyCode, fee)
	s.LogInfo(ctx, "Withdrawal recorded", slog.String("transactionID", entry.TransactionID), slog.String("total", total.String()))
	return &entry, nil
}

// ChargeFee debits the fee a category charges on amount.
func (s *TransferService) ChargeFee(ctx context.Context, walletID string, req dto.ChargeFeeRequest, userID string) (_ *domain.LedgerTransaction, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "charge_fee", started, err, slog.String("walletID", walletID)) }()

	category, err := domain.ParseFeeCategory(req.Category)
	if err != nil {
		return nil, err
	}
	if existing, err := s.replaySingle(ctx, req.Reference, walletID, domain.TransactionFee); err != nil || existing != nil {
		return existing, err
	}

	wallet, err := s.loadActiveWallet(ctx, walletID)
	if err != nil {
		return nil, err
	}
	fee, err := s.fee(req.Amount, category, wallet.CurrencyCode)
	if err != nil {
		return nil, err
	}
	if err := requireCover(wallet, fee); err != nil {
		return nil, err
	}

	now := s.clock()
	entry := newEntry(wallet, domain.TransactionFee, fee.Neg(), fee, referenceOrNew(req.Reference), req.Description, userID, now)
	entry.Metadata[metaFeeCategory] = category.String()
	entry.Metadata[metaBaseAmount] = req.Amount.String()
	plan := &movementPlan{
		lockIDs: []string{wallet.WalletID},
		changes: []domain.BalanceChange{{
			WalletID:  wallet.WalletID,
			Delta:     fee.Neg(),
			Totals:    domain.WalletTotals{Fees: fee},
			At:        now,
			UpdatedBy: userID,
		}},
		entries: []domain.LedgerTransaction{entry},
	}
	if err := s.execute(ctx, plan); err != nil {
		return nil, err
	}

	s.recordFee(category, wallet.CurrencyCode, fee)
	return &entry, nil
}

// Transfer moves amount between two wallets. Across currencies the fee is charged
// on the source amount and the destination receives round2(amount*rate).
func (s *TransferService) Transfer(ctx context.Context, req dto.TransferRequest, userID string) (_ *domain.TransferResult, err error) {
	started := time.Now()
	defer func() {
		s.observe(ctx, "transfer", started, err, slog.String("from", req.FromWalletID), slog.String("to", req.ToWalletID))
	}()

	if req.FromWalletID == req.ToWalletID {
		return nil, errValidationf("cannot transfer to the same wallet")
	}
	if !req.Amount.IsPositive() {
		return nil, errValidationf("transfer amount must be positive")
	}
	if existing, err := s.replayPair(ctx, req.Reference, req.FromWalletID, domain.TransactionTransfer); err != nil || existing != nil {
		return existing, err
	}

	from, err := s.loadActiveWallet(ctx, req.FromWalletID)
	if err != nil {
		return nil, err
	}
	to, err := s.loadActiveWallet(ctx, req.ToWalletID)
	if err != nil {
		return nil, err
	}

	fee, err := s.fee(req.Amount, domain.FeeCategoryTransfer, from.CurrencyCode)
	if err != nil {
		return nil, err
	}
	rate := decimal.NewFromInt(1)
	credited := req.Amount
	if from.CurrencyCode != to.CurrencyCode {
		quote, err := s.rates.GetRate(ctx, from.CurrencyCode, to.CurrencyCode)
		if err != nil {
			return nil, err
		}
		rate = quote.Rate
		credited = req.Amount.Mul(rate).Round(2)
		if !credited.IsPositive() {
			return nil, errValidationf("transfer of %s %s converts to nothing in %s", req.Amount.String(), from.CurrencyCode, to.CurrencyCode)
		}
	}
	total := req.Amount.Add(fee)
	if err := requireCover(from, total); err != nil {
		return nil, err
	}

	now := s.clock()
	ref := referenceOrNew(req.Reference)
	debit := newEntry(from, domain.TransactionTransfer, total.Neg(), fee, ref, req.Description, userID, now)
	credit := newEntry(to, domain.TransactionTransfer, credited, decimal.Zero, ref+creditRefSuffix, req.Description, userID, now)
	linkLegs(&debit, &credit)
	for _, e := range []*domain.LedgerTransaction{&debit, &credit} {
		e.Metadata[metaRate] = rate.String()
		e.Metadata[metaSourceCurrency] = from.CurrencyCode
		e.Metadata[metaTargetCurrency] = to.CurrencyCode
	}

	plan := &movementPlan{
		lockIDs: []string{from.WalletID, to.WalletID},
		changes: []domain.BalanceChange{
			{WalletID: from.WalletID, Delta: total.Neg(), Totals: domain.WalletTotals{Transfers: req.Amount, Fees: fee}, At: now, UpdatedBy: userID},
			{WalletID: to.WalletID, Delta: credited, Totals: domain.WalletTotals{Transfers: credited}, At: now, UpdatedBy: userID},
		},
		entries: []domain.LedgerTransaction{debit, credit},
	}
	if err := s.execute(ctx, plan); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.Reference != "" {
			return s.replayPair(ctx, req.Reference, req.FromWalletID, domain.TransactionTransfer)
		}
		return nil, err
	}

	s.recordFee(domain.FeeCategoryTransfer, from.CurrencyCode, fee)
	s.LogInfo(ctx, "Transfer completed",
		slog.String("debitID", debit.TransactionID), slog.String("creditID", credit.TransactionID), slog.String("rate", rate.String()))
	return &domain.TransferResult{Debit: debit, Credit: credit, Fee: fee, Rate: rate, CreditedAmount: credited}, nil
}

// Donate moves money to the recipient owner's wallet in the donor's currency.
func (s *TransferService) Donate(ctx context.Context, req dto.DonateRequest, userID string) (_ *domain.TransferResult, err error) {
	started := time.Now()
	defer func() {
		s.observe(ctx, "donate", started, err, slog.String("from", req.FromWalletID), slog.String("toOwner", req.ToOwnerID))
	}()

	if !req.Amount.IsPositive() {
		return nil, errValidationf("donation amount must be positive")
	}
	if existing, err := s.replayPair(ctx, req.Reference, req.FromWalletID, domain.TransactionDonation); err != nil || existing != nil {
		return existing, err
	}

	donor, recipient, err := s.donationWallets(ctx, req.FromWalletID, req.ToOwnerID)
	if err != nil {
		return nil, err
	}
	plan, result, err := s.planDonation(donor, recipient, req.Amount, referenceOrNew(req.Reference), req.Description, userID, s.clock(), nil)
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, plan); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && req.Reference != "" {
			return s.replayPair(ctx, req.Reference, req.FromWalletID, domain.TransactionDonation)
		}
		return nil, err
	}

	s.recordFee(domain.FeeCategoryDonation, donor.CurrencyCode, result.Fee)
	return result, nil
}

// donationWallets resolves and checks the two sides of a donation.
func (s *TransferService) donationWallets(ctx context.Context, donorWalletID, recipientOwnerID string) (*domain.Wallet, *domain.Wallet, error) {
	donor, err := s.loadActiveWallet(ctx, donorWalletID)
	if err != nil {
		return nil, nil, err
	}
	if donor.OwnerID == recipientOwnerID {
		return nil, nil, errValidationf("cannot donate to yourself")
	}
	recipient, err := s.walletRepo.FindWalletByOwnerAndCurrency(ctx, recipientOwnerID, donor.CurrencyCode)
	if err != nil {
		return nil, nil, err
	}
	if err := requireActive(recipient); err != nil {
		return nil, nil, err
	}
	return donor, recipient, nil
}

// planDonation prices a donation under the configured fee policy.
func (s *TransferService) planDonation(donor, recipient *domain.Wallet, amount decimal.Decimal, ref, description, userID string, now time.Time, metadata map[string]string) (*movementPlan, *domain.TransferResult, error) {
	fee, err := s.fee(amount, domain.FeeCategoryDonation, donor.CurrencyCode)
	if err != nil {
		return nil, nil, err
	}

	var debited, credited decimal.Decimal
	switch s.feePolicy {
	case FeeOnTop:
		debited, credited = amount.Add(fee), amount
	default:
		if fee.GreaterThanOrEqual(amount) {
			return nil, nil, errValidationf("donation of %s does not cover its fee of %s", amount.String(), fee.String())
		}
		debited, credited = amount, amount.Sub(fee)
	}
	if err := requireCover(donor, debited); err != nil {
		return nil, nil, err
	}

	debit := newEntry(donor, domain.TransactionDonation, debited.Neg(), fee, ref, description, userID, now)
	credit := newEntry(recipient, domain.TransactionDonation, credited, decimal.Zero, ref+creditRefSuffix, description, userID, now)
	linkLegs(&debit, &credit)
	for _, e := range []*domain.LedgerTransaction{&debit, &credit} {
		e.Metadata[metaFeePolicy] = string(s.feePolicy)
		for k, v := range metadata {
			e.Metadata[k] = v
		}
	}

	plan := &movementPlan{
		lockIDs: []string{donor.WalletID, recipient.WalletID},
		changes: []domain.BalanceChange{
			{WalletID: donor.WalletID, Delta: debited.Neg(), Totals: domain.WalletTotals{Donations: debited.Sub(fee), Fees: fee}, At: now, UpdatedBy: userID},
			{WalletID: recipient.WalletID, Delta: credited, Totals: domain.WalletTotals{Donations: credited}, At: now, UpdatedBy: userID},
		},
		entries: []domain.LedgerTransaction{debit, credit},
	}
	result := &domain.TransferResult{Debit: debit, Credit: credit, Fee: fee, Rate: decimal.NewFromInt(1), CreditedAmount: credited}
	return plan, result, nil
}

var refundableTypes = map[domain.TransactionType]bool{
	domain.TransactionDeposit:    true,
	domain.TransactionWithdrawal: true,
	domain.TransactionTransfer:   true,
	domain.TransactionDonation:   true,
}

// Refund reverses a completed entry with new refund entries. Fees are retained.
func (s *TransferService) Refund(ctx context.Context, transactionID string, req dto.RefundRequest, userID string) (_ []domain.LedgerTransaction, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "refund", started, err, slog.String("transactionID", transactionID)) }()

	original, err := s.txnRepo.FindTransactionByID(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	if !refundableTypes[original.Type] {
		return nil, errValidationf("%s entries cannot be refunded", original.Type)
	}
	if original.Status != domain.StatusCompleted {
		return nil, errValidationf("only completed entries can be refunded, %s is %s", original.TransactionID, original.Status)
	}
	if original.Metadata[metaDonationID] != "" {
		return nil, errValidationf("entry %s belongs to donation %s; cancel the donation instead", original.TransactionID, original.Metadata[metaDonationID])
	}

	debit, credit := original, (*domain.LedgerTransaction)(nil)
	if original.RelatedTransactionID != "" {
		other, err := s.txnRepo.FindTransactionByID(ctx, original.RelatedTransactionID)
		if err != nil {
			return nil, fmt.Errorf("loading other leg of %s: %w", original.TransactionID, err)
		}
		if original.IsDebit() {
			credit = other
		} else {
			debit, credit = other, original
		}
	}

	for _, leg := range []*domain.LedgerTransaction{debit, credit} {
		if leg == nil {
			continue
		}
		if err := s.requireNotRefunded(ctx, leg.TransactionID); err != nil {
			return nil, err
		}
	}

	plan, err := s.planRefund(debit, credit, req.Description, userID, s.clock())
	if err != nil {
		return nil, err
	}
	if err := s.execute(ctx, plan); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: transaction %s was already refunded", apperrors.ErrDuplicate, debit.TransactionID)
		}
		return nil, err
	}

	s.LogInfo(ctx, "Refund recorded", slog.String("original", debit.TransactionID), slog.Int("entries", len(plan.entries)))
	return plan.entries, nil
}

func (s *TransferService) requireNotRefunded(ctx context.Context, transactionID string) error {
	refund, err := s.txnRepo.FindTransactionByReference(ctx, refundRefPrefix+transactionID)
	if err == nil {
		return fmt.Errorf("%w: transaction %s was already refunded by %s", apperrors.ErrDuplicate, transactionID, refund.TransactionID)
	}
	if !isNotFound(err) {
		return err
	}
	return nil
}

// planRefund reverses one entry, or both legs of a movement when credit is set.
// The wallet that paid gets back what it paid minus the fee; the wallet that
// received gives back what it received.
func (s *TransferService) planRefund(debit, credit *domain.LedgerTransaction, description, userID string, now time.Time) (*movementPlan, error) {
	if description == "" {
		description = "Refund of " + debit.TransactionID
	}

	reverse := func(orig *domain.LedgerTransaction, delta decimal.Decimal) domain.LedgerTransaction {
		return domain.LedgerTransaction{
			TransactionID:        newEntryID(),
			WalletID:             orig.WalletID,
			Type:                 domain.TransactionRefund,
			Amount:               delta,
			CurrencyCode:         orig.CurrencyCode,
			Fee:                  decimal.Zero,
			RelatedWalletID:      orig.RelatedWalletID,
			RelatedTransactionID: orig.TransactionID,
			Status:               domain.StatusCompleted,
			Reference:            refundRefPrefix + orig.TransactionID,
			Description:          description,
			Metadata:             map[string]string{},
			AuditFields:          domain.AuditFields{CreatedAt: now, CreatedBy: userID, LastUpdatedAt: now, LastUpdatedBy: userID},
		}
	}

	var entries []domain.LedgerTransaction
	switch {
	case credit != nil:
		back := debit.Amount.Abs().Sub(debit.Fee)
		entries = append(entries,
			reverse(credit, credit.Amount.Neg()),
			reverse(debit, back),
		)
	case debit.IsDebit():
		entries = append(entries, reverse(debit, debit.Amount.Abs().Sub(debit.Fee)))
	default:
		entries = append(entries, reverse(debit, debit.Amount.Neg()))
	}

	plan := &movementPlan{entries: entries}
	for _, e := range entries {
		if e.Amount.IsZero() {
			return nil, errValidationf("nothing to refund on %s", e.RelatedTransactionID)
		}
		plan.lockIDs = append(plan.lockIDs, e.WalletID)
		plan.changes = append(plan.changes, domain.BalanceChange{WalletID: e.WalletID, Delta: e.Amount, At: now, UpdatedBy: userID})
	}
	return plan, nil
}
