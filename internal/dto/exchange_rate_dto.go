package dto

import (
	"time"

	"github.com/SscSPs/donation_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ExchangeRateResponse defines the structure for API responses containing a resolved rate.
type ExchangeRateResponse struct {
	FromCurrencyCode string                `json:"fromCurrencyCode"`
	ToCurrencyCode   string                `json:"toCurrencyCode"`
	Rate             decimal.Decimal       `json:"rate"`
	Source           domain.RateSourceKind `json:"source"`
	Provider         string                `json:"provider,omitempty"`
	FetchedAt        time.Time             `json:"fetchedAt"`
}

// ToExchangeRateResponse converts a domain.RateQuote to ExchangeRateResponse DTO
func ToExchangeRateResponse(q *domain.RateQuote) ExchangeRateResponse {
	return ExchangeRateResponse{
		FromCurrencyCode: q.From,
		ToCurrencyCode:   q.To,
		Rate:             q.Rate,
		Source:           q.Source,
		Provider:         q.Provider,
		FetchedAt:        q.FetchedAt,
	}
}

// ToListExchangeRateResponse converts a slice of domain.RateQuote to a slice of DTOs.
func ToListExchangeRateResponse(quotes []domain.RateQuote) []ExchangeRateResponse {
	responses := make([]ExchangeRateResponse, len(quotes))
	for i := range quotes {
		responses[i] = ToExchangeRateResponse(&quotes[i])
	}
	return responses
}

// ConvertParams defines query parameters for a currency conversion.
type ConvertParams struct {
	Amount string `form:"amount" binding:"required"` // Parsed as a decimal by the handler
	From   string `form:"from" binding:"required,len=3,alpha"`
	To     string `form:"to" binding:"required,len=3,alpha"`
}

// BatchRatesParams defines query parameters for a batch rate lookup.
type BatchRatesParams struct {
	Base    string   `form:"base" binding:"required,len=3,alpha"`
	Targets []string `form:"targets" binding:"required,min=1,max=50"` // Repeated or comma separated
}
