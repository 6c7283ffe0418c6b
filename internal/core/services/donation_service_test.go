package services_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type DonationServiceTestSuite struct {
	suite.Suite
	f         *ledgerFixture
	ctx       context.Context
	donor     domain.Wallet
	recipient domain.Wallet
}

func (suite *DonationServiceTestSuite) SetupTest() {
	suite.f = newLedgerFixture(suite.T(), domain.DefaultFeeSchedule())
	suite.ctx = context.Background()
	suite.donor = suite.f.openWallet(suite.T(), "alice", "USD", "100")
	suite.recipient = suite.f.openWallet(suite.T(), "bob", "USD", "0")
}

func TestDonationServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DonationServiceTestSuite))
}

func (suite *DonationServiceTestSuite) create(amount string) *domain.Donation {
	donation, err := suite.f.donations.CreateDonation(suite.ctx, dto.CreateDonationRequest{
		DonorWalletID:    suite.donor.WalletID,
		RecipientOwnerID: "bob",
		Amount:           d(amount),
		Message:          "keep it up",
	}, "alice")
	suite.Require().NoError(err)
	return donation
}

func (suite *DonationServiceTestSuite) transition(id string, status domain.DonationStatus) (*domain.Donation, error) {
	return suite.f.donations.TransitionDonation(suite.ctx, id, dto.DonationTransitionRequest{Status: status}, "ops")
}

func (suite *DonationServiceTestSuite) TestCreateDonation_MovesNoMoney() {
	donation := suite.create("20")

	suite.Equal(domain.DonationPending, donation.Status)
	suite.Equal("USD", donation.CurrencyCode)
	suite.Equal("100.00", suite.f.balance(suite.T(), suite.donor.WalletID))
	suite.Equal("0.00", suite.f.balance(suite.T(), suite.recipient.WalletID))

	stored, err := suite.f.donations.GetDonation(suite.ctx, donation.DonationID)
	suite.Require().NoError(err)
	suite.Equal(donation.DonationID, stored.DonationID)
}

func (suite *DonationServiceTestSuite) TestCreateDonation_Validation() {
	_, err := suite.f.donations.CreateDonation(suite.ctx, dto.CreateDonationRequest{
		DonorWalletID: suite.donor.WalletID, RecipientOwnerID: "bob", Amount: d("5"), Message: strings.Repeat("é", 501),
	}, "alice")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.donations.CreateDonation(suite.ctx, dto.CreateDonationRequest{
		DonorWalletID: suite.donor.WalletID, RecipientOwnerID: "bob", Amount: d("5"), Message: strings.Repeat("é", 500),
	}, "alice")
	suite.NoError(err, "the limit counts characters, not bytes")

	_, err = suite.f.donations.CreateDonation(suite.ctx, dto.CreateDonationRequest{
		DonorWalletID: suite.donor.WalletID, RecipientOwnerID: "alice", Amount: d("5"),
	}, "alice")
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.f.donations.CreateDonation(suite.ctx, dto.CreateDonationRequest{
		DonorWalletID: suite.donor.WalletID, RecipientOwnerID: "nobody", Amount: d("5"),
	}, "alice")
	suite.ErrorIs(err, apperrors.ErrNotFound)
}

func (suite *DonationServiceTestSuite) TestComplete_MovesMoneyOnce() {
	donation := suite.create("20")

	completed, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)
	suite.Equal(domain.DonationCompleted, completed.Status)
	suite.NotNil(completed.CompletedAt)
	suite.NotEmpty(completed.DebitTransactionID)
	suite.NotEmpty(completed.CreditTransactionID)
	suite.Equal("80.00", suite.f.balance(suite.T(), suite.donor.WalletID))
	suite.Equal("19.00", suite.f.balance(suite.T(), suite.recipient.WalletID))

	again, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)
	suite.Equal(completed.CompletedAt.Unix(), again.CompletedAt.Unix())
	suite.Equal("80.00", suite.f.balance(suite.T(), suite.donor.WalletID))

	debit, err := suite.f.wallets.GetTransaction(suite.ctx, completed.DebitTransactionID)
	suite.Require().NoError(err)
	suite.Equal(donation.DonationID, debit.Metadata["donationID"])
	suite.f.requireReconciled(suite.T(), suite.donor.WalletID, suite.recipient.WalletID)
}

func (suite *DonationServiceTestSuite) TestCompletedCannotReturnToPending() {
	donation := suite.create("20")
	_, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)

	_, err = suite.transition(donation.DonationID, domain.DonationPending)

	suite.ErrorIs(err, apperrors.ErrInvalidTransition)
	stored, err := suite.f.donations.GetDonation(suite.ctx, donation.DonationID)
	suite.Require().NoError(err)
	suite.Equal(domain.DonationCompleted, stored.Status)
}

func (suite *DonationServiceTestSuite) TestCancelCompleted_RefundsBothLegsKeepsFee() {
	donation := suite.create("20")
	_, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)

	cancelled, err := suite.f.donations.TransitionDonation(suite.ctx, donation.DonationID,
		dto.DonationTransitionRequest{Status: domain.DonationCancelled, Reason: "chargeback"}, "ops")

	suite.Require().NoError(err)
	suite.Equal(domain.DonationCancelled, cancelled.Status)
	suite.NotNil(cancelled.CancelledAt)
	suite.Equal("99.00", suite.f.balance(suite.T(), suite.donor.WalletID))
	suite.Equal("0.00", suite.f.balance(suite.T(), suite.recipient.WalletID))
	suite.f.requireReconciled(suite.T(), suite.donor.WalletID, suite.recipient.WalletID)

	_, err = suite.transition(donation.DonationID, domain.DonationPending)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition, "cancelled is terminal")
}

func (suite *DonationServiceTestSuite) TestCancelPending_MovesNoMoney() {
	donation := suite.create("20")

	_, err := suite.transition(donation.DonationID, domain.DonationCancelled)

	suite.Require().NoError(err)
	suite.Equal("100.00", suite.f.balance(suite.T(), suite.donor.WalletID))
	suite.Equal(1, suite.f.entryCount(suite.T(), suite.donor.WalletID))
}

func (suite *DonationServiceTestSuite) TestCancel_RecipientAlreadySpent() {
	donation := suite.create("50")
	_, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)
	_, err = suite.f.transfers.Withdraw(suite.ctx, suite.recipient.WalletID, dto.MoneyMovementRequest{Amount: d("40")}, "bob")
	suite.Require().NoError(err)

	_, err = suite.transition(donation.DonationID, domain.DonationCancelled)

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	stored, err := suite.f.donations.GetDonation(suite.ctx, donation.DonationID)
	suite.Require().NoError(err)
	suite.Equal(domain.DonationCompleted, stored.Status, "status and money change together or not at all")
	suite.Equal("50.00", suite.f.balance(suite.T(), suite.donor.WalletID))
	suite.f.requireReconciled(suite.T(), suite.donor.WalletID, suite.recipient.WalletID)
}

func (suite *DonationServiceTestSuite) TestFailedThenRetried() {
	donation := suite.create("20")

	failed, err := suite.f.donations.TransitionDonation(suite.ctx, donation.DonationID,
		dto.DonationTransitionRequest{Status: domain.DonationFailed, Reason: "card declined"}, "ops")
	suite.Require().NoError(err)
	suite.Equal("card declined", failed.FailureReason)

	pending, err := suite.transition(donation.DonationID, domain.DonationPending)
	suite.Require().NoError(err)
	suite.Empty(pending.FailureReason)

	_, err = suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)
	suite.Equal("19.00", suite.f.balance(suite.T(), suite.recipient.WalletID))
}

func (suite *DonationServiceTestSuite) TestComplete_InsufficientFundsLeavesPending() {
	donation := suite.create("150")

	_, err := suite.transition(donation.DonationID, domain.DonationCompleted)

	suite.ErrorIs(err, apperrors.ErrInsufficientFunds)
	stored, err := suite.f.donations.GetDonation(suite.ctx, donation.DonationID)
	suite.Require().NoError(err)
	suite.Equal(domain.DonationPending, stored.Status)
	suite.Equal("100.00", suite.f.balance(suite.T(), suite.donor.WalletID))
}

func (suite *DonationServiceTestSuite) TestDonationLegsRejectManualRefund() {
	donation := suite.create("20")
	completed, err := suite.transition(donation.DonationID, domain.DonationCompleted)
	suite.Require().NoError(err)

	_, err = suite.f.transfers.Refund(suite.ctx, completed.CreditTransactionID, dto.RefundRequest{}, "ops")

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Equal("19.00", suite.f.balance(suite.T(), suite.recipient.WalletID))
}

func (suite *DonationServiceTestSuite) TestUnknownDonationAndStatus() {
	_, err := suite.transition("missing", domain.DonationCompleted)
	suite.ErrorIs(err, apperrors.ErrNotFound)

	donation := suite.create("5")
	_, err = suite.transition(donation.DonationID, domain.DonationStatus("refunded"))
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func (suite *DonationServiceTestSuite) TestListDonationsByRecipient_Pages() {
	for range 3 {
		suite.create("1")
	}

	first, err := suite.f.donations.ListDonationsByRecipient(suite.ctx, "bob", dto.ListDonationsParams{Limit: 2})
	suite.Require().NoError(err)
	suite.Len(first.Donations, 2)
	suite.Require().NotNil(first.NextToken)

	second, err := suite.f.donations.ListDonationsByRecipient(suite.ctx, "bob", dto.ListDonationsParams{Limit: 2, NextToken: first.NextToken})
	suite.Require().NoError(err)
	suite.Len(second.Donations, 1)
	suite.Nil(second.NextToken)
	suite.NotEqual(first.Donations[0].DonationID, second.Donations[0].DonationID)
	suite.NotEqual(first.Donations[1].DonationID, second.Donations[0].DonationID)
}

func TestDonationCompletion_ConcurrentCallersMoveMoneyOnce(t *testing.T) {
	f := newLedgerFixture(t, domain.DefaultFeeSchedule())
	ctx := context.Background()
	donor := f.openWallet(t, "alice", "USD", "100")
	recipient := f.openWallet(t, "bob", "USD", "0")
	donation, err := f.donations.CreateDonation(ctx, dto.CreateDonationRequest{
		DonorWalletID: donor.WalletID, RecipientOwnerID: "bob", Amount: d("20"),
	}, "alice")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = f.donations.TransitionDonation(ctx, donation.DonationID,
				dto.DonationTransitionRequest{Status: domain.DonationCompleted}, "ops")
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.Equal(t, "80.00", f.balance(t, donor.WalletID))
	assert.Equal(t, "19.00", f.balance(t, recipient.WalletID))
	assert.Equal(t, 2, f.entryCount(t, donor.WalletID))
	f.requireReconciled(t, donor.WalletID, recipient.WalletID)
}
