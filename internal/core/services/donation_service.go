package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/donation_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/donation_ledger/internal/core/ports/services"
	"github.com/SscSPs/donation_ledger/internal/dto"
	"github.com/google/uuid"
)

var errStaleDonation = errors.New("donation changed concurrently")

// DonationService drives donations through their lifecycle. Money moves when a
// donation first completes and moves back when a completed donation is cancelled.
type DonationService struct {
	BaseService
	donationRepo     portsrepo.DonationRepositoryFacade
	txnRepo          portsrepo.TransactionReader
	uow              portsrepo.UnitOfWork
	transfers        *TransferService
	maxMessageLength int
}

// NewDonationService creates a new DonationService. A non-positive maxMessageLength
// selects the default.
func NewDonationService(
	donationRepo portsrepo.DonationRepositoryFacade,
	txnRepo portsrepo.TransactionReader,
	uow portsrepo.UnitOfWork,
	transfers *TransferService,
	maxMessageLength int,
) *DonationService {
	if maxMessageLength <= 0 {
		maxMessageLength = domain.DefaultDonationMessageMaxLength
	}
	return &DonationService{
		BaseService:      BaseService{Metrics: transfers.Metrics},
		donationRepo:     donationRepo,
		txnRepo:          txnRepo,
		uow:              uow,
		transfers:        transfers,
		maxMessageLength: maxMessageLength,
	}
}

var _ portssvc.DonationSvcFacade = (*DonationService)(nil)

// GetDonation retrieves a donation by id.
func (s *DonationService) GetDonation(ctx context.Context, donationID string) (*domain.Donation, error) {
	d, err := s.donationRepo.FindDonationByID(ctx, donationID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find donation", slog.String("donation_id", donationID))
		}
		return nil, err
	}
	return d, nil
}

// ListDonationsByRecipient returns a page of donations addressed to an owner, newest first.
func (s *DonationService) ListDonationsByRecipient(ctx context.Context, recipientOwnerID string, params dto.ListDonationsParams) (*dto.ListDonationsResponse, error) {
	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}
	donations, next, err := s.donationRepo.ListDonationsByRecipient(ctx, recipientOwnerID, limit, params.NextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list donations", slog.String("recipient_owner_id", recipientOwnerID))
		}
		return nil, err
	}

	out := &dto.ListDonationsResponse{Donations: make([]dto.DonationResponse, len(donations)), NextToken: next}
	for i := range donations {
		out.Donations[i] = dto.ToDonationResponse(&donations[i])
	}
	return out, nil
}

// CreateDonation records a pending donation. No money moves yet.
func (s *DonationService) CreateDonation(ctx context.Context, req dto.CreateDonationRequest, userID string) (_ *domain.Donation, err error) {
	started := time.Now()
	defer func() { s.observe(ctx, "create_donation", started, err, slog.String("donorWalletID", req.DonorWalletID)) }()

	if !req.Amount.IsPositive() {
		return nil, errValidationf("donation amount must be positive")
	}
	if n := utf8.RuneCountInString(req.Message); n > s.maxMessageLength {
		return nil, errValidationf("donation message is %d characters, limit is %d", n, s.maxMessageLength)
	}
	donor, _, err := s.transfers.donationWallets(ctx, req.DonorWalletID, req.RecipientOwnerID)
	if err != nil {
		return nil, err
	}

	now := s.transfers.clock()
	donation := domain.Donation{
		DonationID:       uuid.NewString(),
		DonorWalletID:    donor.WalletID,
		RecipientOwnerID: req.RecipientOwnerID,
		Amount:           req.Amount,
		CurrencyCode:     donor.CurrencyCode,
		Message:          req.Message,
		Status:           domain.DonationPending,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}
	if err := s.donationRepo.SaveDonation(ctx, donation); err != nil {
		return nil, err
	}

	s.LogInfo(ctx, "Donation created", slog.String("donation_id", donation.DonationID), slog.String("amount", donation.Amount.String()))
	return &donation, nil
}

// TransitionDonation moves a donation to req.Status.
func (s *DonationService) TransitionDonation(ctx context.Context, donationID string, req dto.DonationTransitionRequest, userID string) (_ *domain.Donation, err error) {
	started := time.Now()
	defer func() {
		s.observe(ctx, "transition_donation", started, err, slog.String("donationID", donationID), slog.String("status", string(req.Status)))
	}()

	donation, err := s.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	previous := donation.Status
	now := s.transfers.clock()

	changed, err := donation.Transition(req.Status, req.Reason, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		return donation, nil
	}
	donation.LastUpdatedBy = userID

	var plan *movementPlan
	switch {
	case previous == domain.DonationPending && req.Status == domain.DonationCompleted:
		plan, err = s.planCompletion(ctx, donation, userID, now)
	case previous == domain.DonationCompleted && req.Status == domain.DonationCancelled:
		plan, err = s.planCancellation(ctx, donation, req.Reason, userID, now)
	}
	if err != nil {
		return nil, err
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		ok, err := tx.CompareAndSetDonation(ctx, *donation, previous)
		if err != nil {
			return err
		}
		if !ok {
			return errStaleDonation
		}
		if plan == nil {
			return nil
		}
		return plan.apply(ctx, tx)
	})
	if errors.Is(err, errStaleDonation) {
		return s.resolveStale(ctx, donationID, req.Status)
	}
	if err != nil {
		return nil, err
	}

	s.Metrics.DonationTransition(string(req.Status))
	if previous == domain.DonationPending && req.Status == domain.DonationCompleted {
		s.transfers.recordFee(domain.FeeCategoryDonation, donation.CurrencyCode, plan.entries[0].Fee)
	}
	s.LogInfo(ctx, "Donation transitioned",
		slog.String("donation_id", donationID),
		slog.String("from", string(previous)),
		slog.String("to", string(req.Status)))
	return donation, nil
}

// resolveStale handles a lost compare-and-set. Losing a race to the same
// completion is still a success for the caller.
func (s *DonationService) resolveStale(ctx context.Context, donationID string, wanted domain.DonationStatus) (*domain.Donation, error) {
	current, err := s.GetDonation(ctx, donationID)
	if err != nil {
		return nil, err
	}
	if wanted == domain.DonationCompleted && current.Status == domain.DonationCompleted {
		return current, nil
	}
	return nil, fmt.Errorf("%w: donation %s is now %s", apperrors.ErrInvalidTransition, donationID, current.Status)
}

func (s *DonationService) planCompletion(ctx context.Context, donation *domain.Donation, userID string, now time.Time) (*movementPlan, error) {
	donor, recipient, err := s.transfers.donationWallets(ctx, donation.DonorWalletID, donation.RecipientOwnerID)
	if err != nil {
		return nil, err
	}
	description := "Donation " + donation.DonationID
	plan, result, err := s.transfers.planDonation(donor, recipient, donation.Amount, donationRefPrefix+donation.DonationID,
		description, userID, now, map[string]string{metaDonationID: donation.DonationID})
	if err != nil {
		return nil, err
	}
	donation.DebitTransactionID = result.Debit.TransactionID
	donation.CreditTransactionID = result.Credit.TransactionID
	return plan, nil
}

func (s *DonationService) planCancellation(ctx context.Context, donation *domain.Donation, reason, userID string, now time.Time) (*movementPlan, error) {
	debit, err := s.txnRepo.FindTransactionByID(ctx, donation.DebitTransactionID)
	if err != nil {
		return nil, fmt.Errorf("loading debit leg of donation %s: %w", donation.DonationID, err)
	}
	credit, err := s.txnRepo.FindTransactionByID(ctx, donation.CreditTransactionID)
	if err != nil {
		return nil, fmt.Errorf("loading credit leg of donation %s: %w", donation.DonationID, err)
	}
	description := "Cancellation of donation " + donation.DonationID
	if reason != "" {
		description += ": " + reason
	}
	plan, err := s.transfers.planRefund(debit, credit, description, userID, now)
	if err != nil {
		return nil, err
	}
	for i := range plan.entries {
		plan.entries[i].Metadata[metaDonationID] = donation.DonationID
		if reason != "" {
			plan.entries[i].Metadata[metaReason] = reason
		}
	}
	return plan, nil
}
