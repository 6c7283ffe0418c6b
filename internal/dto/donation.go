package dto

import (
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateDonationRequest registers a pending donation. Money moves only when it completes.
type CreateDonationRequest struct {
	DonorWalletID    string          `json:"donorWalletID" binding:"required"`
	RecipientOwnerID string          `json:"recipientOwnerID" binding:"required"`
	Amount           decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Message          string          `json:"message"` // Length checked by the service against its configured limit
}

// DonationTransitionRequest moves a donation to a new status.
type DonationTransitionRequest struct {
	Status domain.DonationStatus `json:"status" binding:"required,oneof=pending completed failed cancelled"`
	Reason string                `json:"reason" binding:"max=255"`
}

// DonationResponse defines the data returned for a donation.
type DonationResponse struct {
	DonationID          string                `json:"donationID"`
	DonorWalletID       string                `json:"donorWalletID"`
	RecipientOwnerID    string                `json:"recipientOwnerID"`
	Amount              decimal.Decimal       `json:"amount"`
	CurrencyCode        string                `json:"currencyCode"`
	Message             string                `json:"message,omitempty"`
	Status              domain.DonationStatus `json:"status"`
	FailureReason       string                `json:"failureReason,omitempty"`
	CompletedAt         *time.Time            `json:"completedAt,omitempty"`
	CancelledAt         *time.Time            `json:"cancelledAt,omitempty"`
	DebitTransactionID  string                `json:"debitTransactionID,omitempty"`
	CreditTransactionID string                `json:"creditTransactionID,omitempty"`
	CreatedAt           time.Time             `json:"createdAt"`
	LastUpdatedAt       time.Time             `json:"lastUpdatedAt"`
}

// ToDonationResponse converts a domain.Donation to DonationResponse DTO
func ToDonationResponse(d *domain.Donation) DonationResponse {
	return DonationResponse{
		DonationID:          d.DonationID,
		DonorWalletID:       d.DonorWalletID,
		RecipientOwnerID:    d.RecipientOwnerID,
		Amount:              d.Amount,
		CurrencyCode:        d.CurrencyCode,
		Message:             d.Message,
		Status:              d.Status,
		FailureReason:       d.FailureReason,
		CompletedAt:         d.CompletedAt,
		CancelledAt:         d.CancelledAt,
		DebitTransactionID:  d.DebitTransactionID,
		CreditTransactionID: d.CreditTransactionID,
		CreatedAt:           d.CreatedAt,
		LastUpdatedAt:       d.LastUpdatedAt,
	}
}

// ListDonationsParams defines query parameters for listing donations received by an owner.
type ListDonationsParams struct {
	Limit     int     `form:"limit,default=20" binding:"min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// ListDonationsResponse wraps a page of donations.
type ListDonationsResponse struct {
	Donations []DonationResponse `json:"donations"`
	NextToken *string            `json:"nextToken,omitempty"`
}
