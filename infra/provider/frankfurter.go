package provider

import (
	"context"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/provider"
)

// Frankfurter queries the ECB backed frankfurter.dev API for a unit rate.
type Frankfurter struct {
	client  *Client
	baseURL string
	timeout time.Duration
}

var _ provider.ExchangeRate = (*Frankfurter)(nil)

type frankfurterResponse struct {
	Amount float64            `json:"amount"`
	Base   string             `json:"base"`
	Date   string             `json:"date"`
	Rates  map[string]float64 `json:"rates"`
}

// NewFrankfurter creates the provider; baseURL is e.g. https://api.frankfurter.dev
func NewFrankfurter(client *Client, baseURL string, timeout time.Duration) *Frankfurter {
	return &Frankfurter{client: client, baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

func (p *Frankfurter) Name() string { return "frankfurter" }

// FetchRate calls GET /latest?from=F&to=T and reads rates[T].
func (p *Frankfurter) FetchRate(ctx context.Context, from, to string, _ float64) (float64, error) {
	var body frankfurterResponse
	err := p.client.getJSON(ctx, p.baseURL+"/latest", map[string]string{
		"from": from,
		"to":   to,
	}, p.timeout, &body)
	if err != nil {
		return 0, err
	}
	return rateFromTable(body.Rates, to)
}
