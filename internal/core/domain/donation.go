package domain

import (
	"fmt"
	"time"

	"github.com/SscSPs/donation_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// DonationStatus is the lifecycle state of a donation.
type DonationStatus string

const (
	DonationPending   DonationStatus = "pending"
	DonationCompleted DonationStatus = "completed"
	DonationFailed    DonationStatus = "failed"
	DonationCancelled DonationStatus = "cancelled"
)

// DefaultDonationMessageMaxLength bounds the donor message, counted in runes.
const DefaultDonationMessageMaxLength = 500

var donationTransitions = map[DonationStatus][]DonationStatus{
	DonationPending:   {DonationCompleted, DonationFailed, DonationCancelled},
	DonationCompleted: {DonationCancelled},
	DonationFailed:    {DonationPending},
	DonationCancelled: {},
}

// IsValid reports whether s is a known donation status.
func (s DonationStatus) IsValid() bool {
	_, ok := donationTransitions[s]
	return ok
}

// CanTransitionTo reports whether the transition table allows s -> next.
func (s DonationStatus) CanTransitionTo(next DonationStatus) bool {
	for _, allowed := range donationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Donation is a directed, fee-bearing transfer from a donor wallet to a recipient,
// gated by its status.
type Donation struct {
	DonationID          string          `json:"donationID"`
	DonorWalletID       string          `json:"donorWalletID"`
	RecipientOwnerID    string          `json:"recipientOwnerID"`
	Amount              decimal.Decimal `json:"amount"`
	CurrencyCode        string          `json:"currencyCode"`
	Message             string          `json:"message,omitempty"`
	Status              DonationStatus  `json:"status"`
	FailureReason       string          `json:"failureReason,omitempty"`
	CompletedAt         *time.Time      `json:"completedAt,omitempty"`
	CancelledAt         *time.Time      `json:"cancelledAt,omitempty"`
	DebitTransactionID  string          `json:"debitTransactionID,omitempty"`
	CreditTransactionID string          `json:"creditTransactionID,omitempty"`
	AuditFields
}

// Transition moves the donation to next. Re-entering completed is a no-op and
// reports changed=false; any other pair outside the table fails with ErrInvalidTransition.
func (d *Donation) Transition(next DonationStatus, reason string, at time.Time) (changed bool, err error) {
	if !next.IsValid() {
		return false, fmt.Errorf("%w: unknown donation status %q", apperrors.ErrValidation, string(next))
	}
	if d.Status == DonationCompleted && next == DonationCompleted {
		return false, nil
	}
	if !d.Status.CanTransitionTo(next) {
		return false, fmt.Errorf("%w: donation %s cannot move from %s to %s",
			apperrors.ErrInvalidTransition, d.DonationID, d.Status, next)
	}

	switch next {
	case DonationCompleted:
		if d.CompletedAt == nil {
			t := at
			d.CompletedAt = &t
		}
	case DonationCancelled:
		t := at
		d.CancelledAt = &t
	case DonationFailed:
		d.FailureReason = reason
	case DonationPending:
		d.FailureReason = ""
	}
	d.Status = next
	d.LastUpdatedAt = at
	return true, nil
}
