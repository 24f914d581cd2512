package exchange

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/provider"
)

// SourceCache marks a result served from the rate cache.
const SourceCache = "cache"

// RateCache is the part of the cache store the resolver needs.
type RateCache interface {
	Get(ctx context.Context, from, to string, ttlMinutes int) (float64, bool)
	Put(ctx context.Context, from, to string, rate float64) error
}

// ProxyFetcher calls a user supplied URL template.
type ProxyFetcher interface {
	Name() string
	FetchRate(ctx context.Context, template, from, to string, amount float64) (float64, error)
}

// Service resolves an exchange rate through the cache, the optional proxy
// and then the fixed provider chain, in that order.
type Service struct {
	cache     RateCache
	proxy     ProxyFetcher
	providers []provider.ExchangeRate
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics records provider and cache outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithProxy sets the proxy caller. Without it proxy settings are ignored.
func WithProxy(p ProxyFetcher) Option {
	return func(s *Service) { s.proxy = p }
}

// New creates a Service. providers are tried in the given order.
func New(
	cache RateCache,
	providers []provider.ExchangeRate,
	log *slog.Logger,
	opts ...Option,
) *Service {
	if log == nil {
		log = slog.Default()
	}
	s := &Service{
		cache:     cache,
		providers: providers,
		logger:    log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Convert returns the converted amount for req. It never returns a partial
// result: either Result is set or Error is.
func (s *Service) Convert(ctx context.Context, req domain.ConversionRequest) (res domain.ConversionResult) {
	log := s.logger.With("from", req.From, "to", req.To, "amount", req.Amount)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic in rate resolution", "panic", r)
			res = domain.Failed(domain.ErrConversionFailed)
		}
	}()

	if rate, ok := s.cache.Get(ctx, req.From, req.To, req.CacheTTLMinutes); ok {
		s.metrics.RecordCacheLookup(true)
		log.Debug("Using cached rate", "rate", rate)
		return domain.Succeeded(rate, req.Amount, true, SourceCache)
	}
	s.metrics.RecordCacheLookup(false)

	if req.UseProxy && req.ProxyURL != "" && s.proxy != nil {
		start := time.Now()
		rate, err := s.proxy.FetchRate(ctx, req.ProxyURL, req.From, req.To, req.Amount)
		if err == nil {
			err = checkRate(rate, req.Amount)
		}
		s.metrics.RecordProviderCall(s.proxy.Name(), err, time.Since(start))
		if err == nil {
			return s.store(ctx, log, req, rate, s.proxy.Name())
		}
		log.Warn("Proxy failed, falling back to direct providers", "error", err)
	}

	for _, p := range s.providers {
		if ctx.Err() != nil {
			break
		}
		start := time.Now()
		rate, err := s.fetch(ctx, p, req)
		s.metrics.RecordProviderCall(p.Name(), err, time.Since(start))
		if err != nil {
			log.Warn("Provider failed", "error", err, "timeout", provider.IsTimeout(err))
			continue
		}
		return s.store(ctx, log, req, rate, p.Name())
	}

	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return domain.Failed(domain.ErrConversionTimeout)
	}
	log.Error("All exchange rate providers failed")
	return domain.Failed(domain.ErrExchangeRateUnavailable)
}

func (s *Service) fetch(ctx context.Context, p provider.ExchangeRate, req domain.ConversionRequest) (float64, error) {
	rate, err := p.FetchRate(ctx, req.From, req.To, req.Amount)
	if err == nil {
		err = checkRate(rate, req.Amount)
	}
	if err != nil {
		var perr *provider.Error
		if !errors.As(err, &perr) {
			err = &provider.Error{Provider: p.Name(), Err: err}
		}
		return 0, err
	}
	return rate, nil
}

func (s *Service) store(
	ctx context.Context,
	log *slog.Logger,
	req domain.ConversionRequest,
	rate float64,
	source string,
) domain.ConversionResult {
	if err := s.cache.Put(ctx, req.From, req.To, rate); err != nil {
		log.Warn("Failed to cache exchange rate", "error", err)
	}
	log.Info("Fetched exchange rate", "source", source, "rate", rate)
	return domain.Succeeded(rate, req.Amount, false, source)
}

// checkRate rejects rates that cannot be used. Zero is only acceptable when
// it was derived from a zero amount.
func checkRate(rate, amount float64) error {
	switch {
	case math.IsNaN(rate) || math.IsInf(rate, 0):
		return fmt.Errorf("%w: %v", provider.ErrInvalidRate, rate)
	case rate < 0:
		return fmt.Errorf("%w: negative rate %v", provider.ErrInvalidRate, rate)
	case rate == 0 && amount != 0:
		return fmt.Errorf("%w: zero rate", provider.ErrInvalidRate)
	}
	return nil
}
