package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/shopspring/decimal"
)

const currencyAPIBaseURL = "https://api.currencyapi.com"

// CurrencyAPI is the keyed api.currencyapi.com v3 latest endpoint.
type CurrencyAPI struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

type currencyAPIResponse struct {
	Data map[string]struct {
		Code  string          `json:"code"`
		Value decimal.Decimal `json:"value"`
	} `json:"data"`
	Message string `json:"message"`
}

func NewCurrencyAPI(opts Options) *CurrencyAPI {
	return &CurrencyAPI{
		baseURL: baseURLOr(opts.BaseURL, currencyAPIBaseURL),
		apiKey:  opts.APIKey,
		client:  opts.client(),
	}
}

var _ external.RateSource = (*CurrencyAPI)(nil)

func (s *CurrencyAPI) Name() string { return "currencyapi" }

func (s *CurrencyAPI) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	if s.apiKey == "" {
		return decimal.Zero, ErrMissingAPIKey
	}
	q := url.Values{}
	q.Set("apikey", s.apiKey)
	q.Set("base_currency", from)
	q.Set("currencies", to)

	var body currencyAPIResponse
	if err := getJSON(ctx, s.client, s.baseURL+"/v3/latest?"+q.Encode(), &body); err != nil {
		return decimal.Zero, err
	}
	entry, ok := body.Data[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s in response", to)
	}
	return entry.Value, nil
}
