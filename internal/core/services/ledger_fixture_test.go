package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/donation_ledger/internal/adapters/payment/sandbox"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/core/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/SscSPs/donation_ledger/internal/platform/metrics"
	"github.com/SscSPs/donation_ledger/internal/repositories/memory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// --- Mock ExchangeRateReaderSvc ---
type MockRateReader struct {
	mock.Mock
}

var _ portssvc.ExchangeRateReaderSvc = (*MockRateReader)(nil)

func (m *MockRateReader) GetRate(ctx context.Context, from, to string) (*domain.RateQuote, error) {
	args := m.Called(ctx, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.RateQuote), args.Error(1)
}

func (m *MockRateReader) Convert(ctx context.Context, amount decimal.Decimal, from, to string) (*domain.Conversion, error) {
	args := m.Called(ctx, amount, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Conversion), args.Error(1)
}

func (m *MockRateReader) GetRatesBatch(ctx context.Context, base string, targets []string) ([]domain.RateQuote, error) {
	args := m.Called(ctx, base, targets)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.RateQuote), args.Error(1)
}

// ledgerFixture wires real services over the in-memory store.
type ledgerFixture struct {
	store     *memory.Store
	rates     *MockRateReader
	gateway   *sandbox.Gateway
	transfers *services.TransferService
	wallets   portssvc.WalletSvcFacade
	donations *services.DonationService
	payments  *services.PaymentService
}

func newLedgerFixture(t *testing.T, schedule domain.FeeSchedule, opts ...services.TransferOption) *ledgerFixture {
	t.Helper()
	store := memory.NewStore()
	rates := new(MockRateReader)
	gateway := sandbox.NewGateway()
	opts = append([]services.TransferOption{services.WithTransferMetrics(metrics.NewRecorder())}, opts...)

	transfers := services.NewTransferService(store, store, store, services.NewFeeEngine(schedule), rates, opts...)
	return &ledgerFixture{
		store:     store,
		rates:     rates,
		gateway:   gateway,
		transfers: transfers,
		wallets:   services.NewWalletService(store, store),
		donations: services.NewDonationService(store, store, store, transfers, 0),
		payments:  services.NewPaymentService(store, store, gateway, transfers),
	}
}

// zeroFeeSchedule charges nothing in any category.
func zeroFeeSchedule() domain.FeeSchedule {
	free := domain.FeeStructure{Percentage: decimal.Zero, FixedAmount: decimal.Zero, MinimumFee: decimal.Zero, Currency: "USD"}
	return domain.FeeSchedule{
		Transaction: free, Withdrawal: free, Deposit: free, Transfer: free,
		Donation: free, MonthlyMaintenance: free, CurrencyConversion: free,
	}
}

// openWallet creates a wallet and seeds it with an opening deposit entry so the
// balance matches the transaction log from the start.
func (f *ledgerFixture) openWallet(t *testing.T, owner, currency, balance string) domain.Wallet {
	t.Helper()
	ctx := context.Background()
	w, err := f.wallets.CreateWallet(ctx, dto.CreateWalletRequest{CurrencyCode: currency}, owner)
	require.NoError(t, err)

	opening := d(balance)
	if opening.IsPositive() {
		now := time.Now().UTC()
		err = f.store.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
			if _, err := tx.ApplyBalanceChange(ctx, domain.BalanceChange{
				WalletID: w.WalletID, Delta: opening, Totals: domain.WalletTotals{Deposits: opening}, At: now, UpdatedBy: owner,
			}); err != nil {
				return err
			}
			return tx.InsertTransactions(ctx, domain.LedgerTransaction{
				TransactionID: uuid.NewString(),
				WalletID:      w.WalletID,
				Type:          domain.TransactionDeposit,
				Amount:        opening,
				CurrencyCode:  w.CurrencyCode,
				Fee:           decimal.Zero,
				Status:        domain.StatusCompleted,
				Description:   "opening balance",
				AuditFields:   domain.AuditFields{CreatedAt: now, CreatedBy: owner, LastUpdatedAt: now, LastUpdatedBy: owner},
			})
		})
		require.NoError(t, err)
	}
	return f.wallet(t, w.WalletID)
}

func (f *ledgerFixture) wallet(t *testing.T, walletID string) domain.Wallet {
	t.Helper()
	w, err := f.wallets.GetWallet(context.Background(), walletID)
	require.NoError(t, err)
	return *w
}

func (f *ledgerFixture) balance(t *testing.T, walletID string) string {
	t.Helper()
	b, _, err := f.wallets.GetBalance(context.Background(), walletID)
	require.NoError(t, err)
	return b.StringFixed(2)
}

// requireReconciled checks balance == sum of completed entries and balance >= 0.
func (f *ledgerFixture) requireReconciled(t *testing.T, walletIDs ...string) {
	t.Helper()
	for _, id := range walletIDs {
		rec, err := f.wallets.ReconcileWallet(context.Background(), id)
		require.NoError(t, err)
		require.True(t, rec.Balanced, "wallet %s: stored %s, ledger %s", id, rec.StoredBalance, rec.LedgerBalance)
		require.False(t, rec.StoredBalance.IsNegative(), "wallet %s went negative", id)
	}
}

func (f *ledgerFixture) entryCount(t *testing.T, walletID string) int {
	t.Helper()
	stats, err := f.wallets.GetTransactionStats(context.Background(), walletID)
	require.NoError(t, err)
	return int(stats.TotalCount)
}
