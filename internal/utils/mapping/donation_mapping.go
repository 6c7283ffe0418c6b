package mapping

import (
	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/SscSPs/donation_ledger/internal/models"
)

// ToModelDonation converts a domain Donation to a model Donation
func ToModelDonation(d domain.Donation) models.Donation {
	return models.Donation{
		DonationID:          d.DonationID,
		DonorWalletID:       d.DonorWalletID,
		RecipientOwnerID:    d.RecipientOwnerID,
		Amount:              d.Amount,
		CurrencyCode:        d.CurrencyCode,
		Message:             d.Message,
		Status:              string(d.Status),
		FailureReason:       nullable(d.FailureReason),
		CompletedAt:         d.CompletedAt,
		CancelledAt:         d.CancelledAt,
		DebitTransactionID:  nullable(d.DebitTransactionID),
		CreditTransactionID: nullable(d.CreditTransactionID),
		AuditFields:         ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainDonation converts a model Donation to a domain Donation
func ToDomainDonation(m models.Donation) domain.Donation {
	return domain.Donation{
		DonationID:          m.DonationID,
		DonorWalletID:       m.DonorWalletID,
		RecipientOwnerID:    m.RecipientOwnerID,
		Amount:              m.Amount,
		CurrencyCode:        m.CurrencyCode,
		Message:             m.Message,
		Status:              domain.DonationStatus(m.Status),
		FailureReason:       deref(m.FailureReason),
		CompletedAt:         m.CompletedAt,
		CancelledAt:         m.CancelledAt,
		DebitTransactionID:  deref(m.DebitTransactionID),
		CreditTransactionID: deref(m.CreditTransactionID),
		AuditFields:         ToDomainAuditFields(m.AuditFields),
	}
}
