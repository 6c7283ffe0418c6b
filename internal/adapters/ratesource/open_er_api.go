package ratesource

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/SscSPs/donation_ledger/internal/core/ports/external"
	"github.com/shopspring/decimal"
)

const openERAPIBaseURL = "https://open.er-api.com"

// OpenERAPI is the keyless open.er-api.com latest-rates endpoint.
type OpenERAPI struct {
	baseURL string
	client  *http.Client
}

type openERAPIResponse struct {
	Result    string                     `json:"result"`
	ErrorType string                     `json:"error-type"`
	BaseCode  string                     `json:"base_code"`
	Rates     map[string]decimal.Decimal `json:"rates"`
}

func NewOpenERAPI(opts Options) *OpenERAPI {
	return &OpenERAPI{baseURL: baseURLOr(opts.BaseURL, openERAPIBaseURL), client: opts.client()}
}

var _ external.RateSource = (*OpenERAPI)(nil)

func (s *OpenERAPI) Name() string { return "open-er-api" }

func (s *OpenERAPI) FetchRate(ctx context.Context, from, to string) (decimal.Decimal, error) {
	var body openERAPIResponse
	if err := getJSON(ctx, s.client, s.baseURL+"/v6/latest/"+url.PathEscape(from), &body); err != nil {
		return decimal.Zero, err
	}
	if body.Result != "" && body.Result != "success" {
		return decimal.Zero, fmt.Errorf("provider error: %s", body.ErrorType)
	}
	rate, ok := body.Rates[to]
	if !ok {
		return decimal.Zero, fmt.Errorf("no rate for %s in %s response", to, from)
	}
	return rate, nil
}
