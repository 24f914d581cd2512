package provider

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/provider"
	"github.com/bytedance/sonic"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// Client is the HTTP client shared by the rate providers. Every call gets
// its own deadline and waits on a shared outbound rate limiter.
type Client struct {
	resty   *resty.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient builds a Client from the provider config.
func NewClient(cfg *config.Providers, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	r := resty.New().
		SetHeader("User-Agent", cfg.UserAgent).
		SetHeader("Accept", "application/json").
		SetRetryCount(0)

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerMinute > 0 {
		burst := cfg.BurstSize
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(float64(cfg.RequestsPerMinute)/60), burst)
	}
	return &Client{resty: r, limiter: limiter, logger: logger}
}

// getJSON issues a GET bounded by timeout and decodes a 2xx body into out.
func (c *Client) getJSON(
	ctx context.Context,
	url string,
	query map[string]string,
	timeout time.Duration,
	out any,
) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		if errors.Is(ctx.Err(), context.Canceled) {
			return ctx.Err()
		}
		return fmt.Errorf("%w: waiting for rate limiter: %v", provider.ErrTimeout, err)
	}

	start := time.Now()
	resp, err := c.resty.R().
		SetContext(ctx).
		SetQueryParams(query).
		Get(url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w after %s", provider.ErrTimeout, timeout)
		}
		return fmt.Errorf("failed to make request: %w", err)
	}
	c.logger.Debug("Provider response", "url", url, "status", resp.StatusCode(), "elapsed", time.Since(start))

	if !resp.IsSuccess() {
		return fmt.Errorf("%w: API returned status %d: %s", provider.ErrBadStatus, resp.StatusCode(), truncate(resp.String(), 200))
	}
	if err := sonic.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("%w: %v", provider.ErrMalformedResponse, err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// rateFromTable reads rates[to] from a latest-rates style response.
func rateFromTable(rates map[string]float64, to string) (float64, error) {
	r, ok := rates[to]
	if !ok {
		return 0, fmt.Errorf("%w: rates.%s", provider.ErrMissingField, to)
	}
	return r, nil
}

// rateFromTotal derives a unit rate from a converted total. Zero amounts give
// a zero rate.
func rateFromTotal(total *float64, amount float64) (float64, error) {
	if total == nil {
		return 0, fmt.Errorf("%w: result", provider.ErrMissingField)
	}
	if amount == 0 {
		return 0, nil
	}
	return *total / amount, nil
}
