package provider

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/provider"
)

// Proxy calls a user supplied endpoint built from a URL template with
// {FROM}, {TO} and {AMOUNT} placeholders. The endpoint answers with the
// converted total.
type Proxy struct {
	client  *Client
	timeout time.Duration
}

type proxyResponse struct {
	Result *float64 `json:"result"`
}

// NewProxy creates a proxy caller; the template is supplied per call.
func NewProxy(client *Client, timeout time.Duration) *Proxy {
	return &Proxy{client: client, timeout: timeout}
}

func (p *Proxy) Name() string { return "proxy" }

// ExpandTemplate substitutes the first occurrence of each placeholder.
func ExpandTemplate(template, from, to string, amount float64) string {
	out := strings.Replace(template, "{FROM}", from, 1)
	out = strings.Replace(out, "{TO}", to, 1)
	return strings.Replace(out, "{AMOUNT}", strconv.FormatFloat(amount, 'f', -1, 64), 1)
}

// FetchRate calls the expanded template and returns result/amount.
func (p *Proxy) FetchRate(ctx context.Context, template, from, to string, amount float64) (float64, error) {
	var body proxyResponse
	if err := p.client.getJSON(ctx, ExpandTemplate(template, from, to, amount), nil, p.timeout, &body); err != nil {
		return 0, &provider.Error{Provider: p.Name(), Err: err}
	}
	rate, err := rateFromTotal(body.Result, amount)
	if err != nil {
		return 0, &provider.Error{Provider: p.Name(), Err: err}
	}
	return rate, nil
}
