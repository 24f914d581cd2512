package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/provider"
)

// ExchangeRateAPI implements provider.ExchangeRate for exchangerate-api.com
// using the keyless v4 latest-rates table.
type ExchangeRateAPI struct {
	client  *Client
	baseURL string
	timeout time.Duration
}

var _ provider.ExchangeRate = (*ExchangeRateAPI)(nil)

// ExchangeRateAPIResponseV4 represents the v4 response from the ExchangeRate API
// Example: { "base": "USD", "date": "2024-05-01", "time_last_updated": 1714521601, "rates": { "EUR": 0.93, ... } }
type ExchangeRateAPIResponseV4 struct {
	Base            string             `json:"base"`
	Date            string             `json:"date"`
	TimeLastUpdated int64              `json:"time_last_updated"`
	Rates           map[string]float64 `json:"rates"`
}

// NewExchangeRateAPI creates the provider; baseURL is e.g. https://api.exchangerate-api.com
func NewExchangeRateAPI(client *Client, baseURL string, timeout time.Duration) *ExchangeRateAPI {
	return &ExchangeRateAPI{client: client, baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (p *ExchangeRateAPI) Name() string { return "exchangerate-api" }

// FetchRate calls GET /v4/latest/{FROM} and reads rates[TO].
func (p *ExchangeRateAPI) FetchRate(ctx context.Context, from, to string, _ float64) (float64, error) {
	endpoint := fmt.Sprintf("%s/v4/latest/%s", p.baseURL, url.PathEscape(from))
	var body ExchangeRateAPIResponseV4
	if err := p.client.getJSON(ctx, endpoint, nil, p.timeout, &body); err != nil {
		return 0, err
	}
	return rateFromTable(body.Rates, to)
}
