package repositories

import (
	"context"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
)

// DonationReader defines read operations for donations
type DonationReader interface {
	FindDonationByID(ctx context.Context, donationID string) (*domain.Donation, error)
	ListDonationsByRecipient(ctx context.Context, recipientOwnerID string, limit int, nextToken *string) ([]domain.Donation, *string, error)
}

// DonationWriter defines write operations for donations. Status changes go through
// LedgerTx.CompareAndSetDonation so they commit together with any ledger legs.
type DonationWriter interface {
	SaveDonation(ctx context.Context, donation domain.Donation) error
}

// DonationRepositoryFacade combines all donation-related repository interfaces
type DonationRepositoryFacade interface {
	DonationReader
	DonationWriter
}
