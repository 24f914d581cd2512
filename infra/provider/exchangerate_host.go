package provider

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/provider"
)

// ExchangeRateHost asks exchangerate.host to convert the full amount and
// derives the unit rate from the total.
type ExchangeRateHost struct {
	client    *Client
	baseURL   string
	accessKey string
	timeout   time.Duration
}

var _ provider.ExchangeRate = (*ExchangeRateHost)(nil)

type exchangeRateHostResponse struct {
	Success *bool    `json:"success"`
	Result  *float64 `json:"result"`
	Error   *struct {
		Code int    `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// NewExchangeRateHost creates the provider. accessKey may be empty.
func NewExchangeRateHost(client *Client, baseURL, accessKey string, timeout time.Duration) *ExchangeRateHost {
	return &ExchangeRateHost{
		client:    client,
		baseURL:   strings.TrimRight(baseURL, "/"),
		accessKey: accessKey,
		timeout:   timeout,
	}
}

func (p *ExchangeRateHost) Name() string { return "exchangerate.host" }

// FetchRate calls GET /convert?from=F&to=T&amount=A and returns result/amount.
func (p *ExchangeRateHost) FetchRate(ctx context.Context, from, to string, amount float64) (float64, error) {
	query := map[string]string{
		"from":   from,
		"to":     to,
		"amount": strconv.FormatFloat(amount, 'f', -1, 64),
	}
	if p.accessKey != "" {
		query["access_key"] = p.accessKey
	}
	var body exchangeRateHostResponse
	if err := p.client.getJSON(ctx, p.baseURL+"/convert", query, p.timeout, &body); err != nil {
		return 0, err
	}
	if body.Success != nil && !*body.Success && body.Result == nil {
		info := "unsuccessful response"
		if body.Error != nil {
			info = body.Error.Info
		}
		return 0, fmt.Errorf("%w: %s", provider.ErrMissingField, info)
	}
	return rateFromTotal(body.Result, amount)
}
