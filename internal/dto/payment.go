package dto

import (
	"github.com/shopspring/decimal"
)

// InitiateDepositRequest starts a gateway-backed deposit.
type InitiateDepositRequest struct {
	WalletID    string          `json:"walletID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Description string          `json:"description" binding:"max=255"`
}

// PaymentWebhookRequest is the body the gateway posts when an intent settles.
type PaymentWebhookRequest struct {
	IntentID string `json:"intentId" binding:"required"`
	MethodID string `json:"methodId"`
}

// PayoutRequest withdraws money to an external destination through the gateway.
type PayoutRequest struct {
	WalletID    string          `json:"walletID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"required,gt=0"`
	Destination string          `json:"destination" binding:"required,max=128"`
	Description string          `json:"description" binding:"max=255"`
	Reference   string          `json:"reference" binding:"omitempty,max=128"`
}
