package services

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/dto"
)

// DonationReaderSvc defines read operations for donations
type DonationReaderSvc interface {
	GetDonation(ctx context.Context, donationID string) (*domain.Donation, error)
	ListDonationsByRecipient(ctx context.Context, recipientOwnerID string, params dto.ListDonationsParams) (*dto.ListDonationsResponse, error)
}

// DonationWriterSvc defines write operations for donations
type DonationWriterSvc interface {
	CreateDonation(ctx context.Context, req dto.CreateDonationRequest, userID string) (*domain.Donation, error)

	// TransitionDonation applies a status change. Only the first entry into completed moves money.
	TransitionDonation(ctx context.Context, donationID string, req dto.DonationTransitionRequest, userID string) (*domain.Donation, error)
}

// DonationSvcFacade combines all donation-related service interfaces
type DonationSvcFacade interface {
	DonationReaderSvc
	DonationWriterSvc
}
