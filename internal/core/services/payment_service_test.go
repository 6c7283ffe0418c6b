package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/SscSPs/donation_ledger/internal/adapters/payment/sandbox"
	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/core/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// payoutOutageGateway delegates to the sandbox but cannot reach the payout API.
type payoutOutageGateway struct {
	*sandbox.Gateway
}

func (payoutOutageGateway) CreatePayout(context.Context, decimal.Decimal, string, string, map[string]string) (*domain.Payout, error) {
	return nil, errors.New("connection reset by peer")
}

// heldPayoutGateway parks CreatePayout until release is closed.
type heldPayoutGateway struct {
	*sandbox.Gateway
	entered chan struct{}
	release chan struct{}
}

func (g heldPayoutGateway) CreatePayout(ctx context.Context, amount decimal.Decimal, currency, destination string, metadata map[string]string) (*domain.Payout, error) {
	close(g.entered)
	<-g.release
	return g.Gateway.CreatePayout(ctx, amount, currency, destination, metadata)
}

type PaymentServiceTestSuite struct {
	suite.Suite
	f   *ledgerFixture
	ctx context.Context
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T(), domain.DefaultFeeSchedule())
	suite.ctx = context.Background()
}

func TestPaymentServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}

func (suite *PaymentServiceTestSuite) TestDeposit_InitiateThenConfirm() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "0")

	init, err := suite.f.payments.InitiateDeposit(suite.ctx, dto.InitiateDepositRequest{WalletID: w.WalletID, Amount: d("100")}, "alice")
	suite.Require().NoError(err)
	suite.Equal("100.00", init.Intent.Amount.StringFixed(2))
	suite.Equal(domain.StatusPending, init.Transaction.Status)
	suite.Equal("99.00", init.Transaction.Amount.StringFixed(2))
	suite.Equal("0.00", suite.f.balance(suite.T(), w.WalletID), "pending deposits do not count")
	suite.f.requireReconciled(suite.T(), w.WalletID)

	settled, err := suite.f.payments.ConfirmDeposit(suite.ctx, init.Intent.ID, "pm_card_visa")
	suite.Require().NoError(err)
	suite.Equal(domain.StatusCompleted, settled.Status)
	suite.Equal("99.00", suite.f.balance(suite.T(), w.WalletID))

	again, err := suite.f.payments.ConfirmDeposit(suite.ctx, init.Intent.ID, "pm_card_visa")
	suite.Require().NoError(err)
	suite.Equal(settled.TransactionID, again.TransactionID)
	suite.Equal("99.00", suite.f.balance(suite.T(), w.WalletID), "repeat confirmations are no-ops")
	suite.f.requireReconciled(suite.T(), w.WalletID)
}

func (suite *PaymentServiceTestSuite) TestDeposit_Declined() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "0")
	init, err := suite.f.payments.InitiateDeposit(suite.ctx, dto.InitiateDepositRequest{WalletID: w.WalletID, Amount: d("50")}, "alice")
	suite.Require().NoError(err)

	entry, err := suite.f.payments.ConfirmDeposit(suite.ctx, init.Intent.ID, sandbox.DeclinedMethod)

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFailed, entry.Status)
	suite.Equal("0.00", suite.f.balance(suite.T(), w.WalletID))
}

func (suite *PaymentServiceTestSuite) TestDeposit_UnknownIntent() {
	_, err := suite.f.payments.ConfirmDeposit(suite.ctx, "pi_missing", "pm_card_visa")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *PaymentServiceTestSuite) TestDeposit_WalletDeactivatedInFlight() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "0")
	init, err := suite.f.payments.InitiateDeposit(suite.ctx, dto.InitiateDepositRequest{WalletID: w.WalletID, Amount: d("100")}, "alice")
	suite.Require().NoError(err)
	_, err = suite.f.wallets.DeactivateWallet(suite.ctx, w.WalletID, "alice")
	suite.Require().NoError(err)

	entry, err := suite.f.payments.ConfirmDeposit(suite.ctx, init.Intent.ID, "pm_card_visa")

	suite.Require().NoError(err)
	suite.Equal(domain.StatusFailed, entry.Status)
	intent, ok := suite.f.gateway.Intent(init.Intent.ID)
	suite.Require().True(ok)
	suite.Equal("100.00", intent.RefundedAmount.StringFixed(2))
	suite.Equal("0.00", suite.f.balance(suite.T(), w.WalletID))
}

func (suite *PaymentServiceTestSuite) TestDeposit_InitiateRejectsInactiveWallet() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "0")
	_, err := suite.f.wallets.DeactivateWallet(suite.ctx, w.WalletID, "alice")
	suite.Require().NoError(err)

	_, err = suite.f.payments.InitiateDeposit(suite.ctx, dto.InitiateDepositRequest{WalletID: w.WalletID, Amount: d("10")}, "alice")
	suite.ErrorIs(err, apperrors.ErrInactive)
}

func (suite *PaymentServiceTestSuite) TestPayout_Success() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "100")
	req := dto.PayoutRequest{WalletID: w.WalletID, Amount: d("50"), Destination: "acct_123", Reference: "po-1"}

	res, err := suite.f.payments.RequestPayout(suite.ctx, req, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutPaid, res.Payout.Status)
	suite.Equal(res.Payout.ID, res.Transaction.PayoutID)
	suite.Nil(res.Reversal)
	suite.Equal("48.75", suite.f.balance(suite.T(), w.WalletID))

	stored, err := suite.f.wallets.GetTransaction(suite.ctx, res.Transaction.TransactionID)
	suite.Require().NoError(err)
	suite.Equal(res.Payout.ID, stored.PayoutID)
	suite.Equal("acct_123", stored.Metadata["destination"])

	replay, err := suite.f.payments.RequestPayout(suite.ctx, req, "alice")
	suite.Require().NoError(err)
	suite.Equal(res.Payout.ID, replay.Payout.ID)
	suite.Equal("48.75", suite.f.balance(suite.T(), w.WalletID))
}

func (suite *PaymentServiceTestSuite) TestPayout_FailedDestinationIsReversed() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "100")

	res, err := suite.f.payments.RequestPayout(suite.ctx, dto.PayoutRequest{
		WalletID: w.WalletID, Amount: d("50"), Destination: sandbox.FailingDestinationPrefix + "_closed",
	}, "alice")

	suite.Require().NoError(err)
	suite.Equal(domain.PayoutFailed, res.Payout.Status)
	suite.Require().NotNil(res.Reversal)
	suite.Equal("51.25", res.Reversal.Amount.StringFixed(2))
	suite.Equal("100.00", suite.f.balance(suite.T(), w.WalletID))
	suite.f.requireReconciled(suite.T(), w.WalletID)
}

func (suite *PaymentServiceTestSuite) TestPayout_InsufficientFunds() {
	w := suite.f.openWallet(suite.T(), "alice", "USD", "10")

	_, err := suite.f.payments.RequestPayout(suite.ctx, dto.PayoutRequest{WalletID: w.WalletID, Amount: d("10"), Destination: "acct_1"}, "alice")

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	suite.Equal(1, suite.f.entryCount(suite.T(), w.WalletID))
}

func TestPayout_GatewayOutageIsReversed(t *testing.T) {
	f := newLedgerFixture(t, domain.DefaultFeeSchedule())
	payments := services.NewPaymentService(f.store, f.store, payoutOutageGateway{Gateway: f.gateway}, f.transfers)
	w := f.openWallet(t, "alice", "USD", "100")

	_, err := payments.RequestPayout(context.Background(), dto.PayoutRequest{WalletID: w.WalletID, Amount: d("50"), Destination: "acct_1"}, "alice")

	require.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	assert.Equal(t, "100.00", f.balance(t, w.WalletID))
	assert.Equal(t, 3, f.entryCount(t, w.WalletID))
	f.requireReconciled(t, w.WalletID)
}

func TestPayout_RetryAfterReversalIsRejected(t *testing.T) {
	f := newLedgerFixture(t, domain.DefaultFeeSchedule())
	failing := services.NewPaymentService(f.store, f.store, payoutOutageGateway{Gateway: f.gateway}, f.transfers)
	w := f.openWallet(t, "alice", "USD", "100")
	req := dto.PayoutRequest{WalletID: w.WalletID, Amount: d("50"), Destination: "acct_1", Reference: "po-retry"}

	_, err := failing.RequestPayout(context.Background(), req, "alice")
	require.ErrorIs(t, err, apperrors.ErrServiceUnavailable)
	require.Equal(t, "100.00", f.balance(t, w.WalletID))
	entries := f.entryCount(t, w.WalletID)

	// The gateway is reachable again, but the withdrawal behind the reference was already given back.
	_, err = f.payments.RequestPayout(context.Background(), req, "alice")

	require.ErrorIs(t, err, apperrors.ErrInvalidTransition)
	assert.Equal(t, "100.00", f.balance(t, w.WalletID))
	assert.Equal(t, entries, f.entryCount(t, w.WalletID))
	f.requireReconciled(t, w.WalletID)
}

func TestPayout_ConcurrentRetryCannotPayTwice(t *testing.T) {
	f := newLedgerFixture(t, domain.DefaultFeeSchedule())
	gw := heldPayoutGateway{Gateway: f.gateway, entered: make(chan struct{}), release: make(chan struct{})}
	payments := services.NewPaymentService(f.store, f.store, gw, f.transfers)
	w := f.openWallet(t, "alice", "USD", "100")
	req := dto.PayoutRequest{WalletID: w.WalletID, Amount: d("50"), Destination: "acct_1", Reference: "po-once"}

	type outcome struct {
		res *domain.PayoutResult
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := payments.RequestPayout(context.Background(), req, "alice")
		first <- outcome{res, err}
	}()
	<-gw.entered

	_, err := payments.RequestPayout(context.Background(), req, "alice")
	require.ErrorIs(t, err, apperrors.ErrDuplicate)

	close(gw.release)
	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, domain.PayoutPaid, got.res.Payout.Status)
	assert.Equal(t, "48.75", f.balance(t, w.WalletID))

	stored, err := f.wallets.GetTransaction(context.Background(), got.res.Transaction.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, got.res.Payout.ID, stored.PayoutID)
	f.requireReconciled(t, w.WalletID)
}
