package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/shopspring/decimal"
)

const exchangeRateAPIBaseURL = "https://v6.exchangerate-api.com"

// ExchangeRateAPI is the keyed v6.exchangerate-api.com pair endpoint.
type ExchangeRateAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type exchangeRateAPIResponse struct {
	Result         string          `json:"result"`
	ErrorType      string          `json:"error-type"`
	ConversionRate decimal.Decimal `json:"conversion_rate"`
}

func NewExchangeRateAPI(opts Options) *ExchangeRateAPI {
	return &ExchangeRateAPI{
		baseURL: baseURLOr(opts.BaseURL, exchangeRateAPIBaseURL),
		apiKey:  opts.APIKey,
		client:  opts.client(),
	}
}

var _ external.RateSource = (*ExchangeRateAPI)(nil)

func (s *ExchangeRateAPI) Name() string { return "exchangerate-api" }

func (s *ExchangeRateAPI) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if s.apiKey == "" {
		return decimal.Zero, ErrMissingAPIKey
	}
	endpoint := fmt.Sprintf("%s/v6/%s/pair/%s/%s", s.baseURL, url.PathEscape(s.apiKey), url.PathEscape(from), url.PathEscape(to))

	var body exchangeRateAPIResponse
	if err := getJSON(ctx, s.client, endpoint, &body); err != nil {
		return decimal.Zero, err
	}
	if body.Result != "success" {
		return decimal.Zero, fmt.Errorf("provider error: %s", body.ErrorType)
	}
	return body.ConversionRate, nil
}
