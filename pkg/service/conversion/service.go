// Package conversion is the entry point used by the HTTP API, the CLI and
// the watcher. It validates requests, applies the current preferences and
// bounds every conversion by an overall deadline.
package conversion

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/money"
	"github.com/amirasaad/quickcurrency/pkg/parser"
	"github.com/amirasaad/quickcurrency/pkg/selection"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// DefaultDeadline bounds a single conversion end to end.
const DefaultDeadline = 10 * time.Second

// Resolver produces a conversion result for a fully populated request.
type Resolver interface {
	Convert(ctx context.Context, req domain.ConversionRequest) domain.ConversionResult
}

// CacheAdmin exposes the maintenance side of the rate cache.
type CacheAdmin interface {
	ClearAll(ctx context.Context) error
	Stats(ctx context.Context) (cache.Stats, error)
}

// Input is a conversion request as received from a caller. The proxy is
// never taken from the caller; only the stored preferences enable it.
type Input struct {
	From   string  `json:"from" validate:"required,len=3,alpha"`
	To     string  `json:"to" validate:"required,len=3,alpha"`
	Amount float64 `json:"amount" validate:"required,gt=0"`
}

// Quote is a parsed selection converted to the target currency.
type Quote struct {
	Original  string      `json:"original"`
	Converted string      `json:"converted"`
	Currency  string      `json:"currency"`
	Amount    float64     `json:"amount"`
	Target    string      `json:"target"`
	Result    float64     `json:"result"`
	Cached    bool        `json:"cached"`
	Source    string      `json:"source,omitempty"`
	Rule      parser.Rule `json:"rule"`
}

// Service coordinates parsing, preferences and rate resolution.
type Service struct {
	resolver Resolver
	cache    CacheAdmin
	settings *config.PreferenceStore
	validate *validator.Validate
	deadline time.Duration
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithDeadline overrides DefaultDeadline.
func WithDeadline(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.deadline = d
		}
	}
}

// WithMetrics records conversion outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a conversion Service.
func New(
	resolver Resolver,
	cacheAdmin CacheAdmin,
	settings *config.PreferenceStore,
	logger *slog.Logger,
	opts ...Option,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		resolver: resolver,
		cache:    cacheAdmin,
		settings: settings,
		validate: validator.New(),
		deadline: DefaultDeadline,
		logger:   logger.With("component", "conversion"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Settings returns the preference store the service reads from.
func (s *Service) Settings() *config.PreferenceStore {
	return s.settings
}

// Convert validates in and resolves it against the current preferences.
// Exactly one result is returned on every path.
func (s *Service) Convert(ctx context.Context, in Input) domain.ConversionResult {
	res, _ := s.convert(ctx, in, true)
	return res
}

// ConvertDirect is Convert with the proxy disabled regardless of the stored
// preferences. It serves instances that act as a proxy themselves.
func (s *Service) ConvertDirect(ctx context.Context, in Input) domain.ConversionResult {
	res, _ := s.convert(ctx, in, false)
	return res
}

func (s *Service) convert(ctx context.Context, in Input, allowProxy bool) (domain.ConversionResult, error) {
	log := s.logger.With("request_id", uuid.NewString())

	in.From = strings.ToUpper(strings.TrimSpace(in.From))
	in.To = strings.ToUpper(strings.TrimSpace(in.To))
	if err := s.validate.Struct(in); err != nil || !domain.ValidAmount(in.Amount) {
		log.Warn("Rejected conversion request", "from", in.From, "to", in.To, "amount", in.Amount, "error", err)
		return s.finish(domain.Failed(domain.ErrInvalidRequest)), domain.ErrInvalidRequest
	}

	prefs := s.settings.Current()
	req := domain.ConversionRequest{
		From:            in.From,
		To:              in.To,
		Amount:          in.Amount,
		UseProxy:        allowProxy && prefs.UseProxy,
		ProxyURL:        prefs.ProxyURL,
		CacheTTLMinutes: prefs.CacheTTLMinutes,
	}

	ctx, cancel := context.WithTimeout(ctx, s.deadline)
	defer cancel()

	done := make(chan domain.ConversionResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Error("Recovered from panic during conversion", "panic", r)
				done <- domain.Failed(domain.ErrConversionFailed)
			}
		}()
		done <- s.resolver.Convert(ctx, req)
	}()

	select {
	case res := <-done:
		log.Debug("Conversion finished", "from", req.From, "to", req.To, "ok", res.Ok(), "cached", res.Cached)
		return s.finish(res), ResultError(res)
	case <-ctx.Done():
		err := domain.ErrConversionFailed
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			err = domain.ErrConversionTimeout
		}
		log.Warn("Conversion did not finish in time", "from", req.From, "to", req.To, "error", ctx.Err())
		return s.finish(domain.Failed(err)), err
	}
}

func (s *Service) finish(res domain.ConversionResult) domain.ConversionResult {
	s.metrics.RecordConversion(res.Ok(), res.Source)
	return res
}

// ResultError maps a failed result back to its sentinel error.
func ResultError(res domain.ConversionResult) error {
	if res.Ok() {
		return nil
	}
	for _, err := range []error{
		domain.ErrInvalidRequest,
		domain.ErrExchangeRateUnavailable,
		domain.ErrConversionTimeout,
		domain.ErrConversionFailed,
	} {
		if res.Error == err.Error() {
			return err
		}
	}
	return errors.New(res.Error)
}

// Parse runs the selection extractor and the parser with the current
// yen default.
func (s *Service) Parse(raw string) (*domain.Money, parser.Rule) {
	prefs := s.settings.Current()
	m, rule := parser.Explain(selection.Text(raw), parser.Config{AmbiguousYenDefault: prefs.AmbiguousYenDefault})
	s.metrics.RecordParse(string(rule))
	return m, rule
}

// Quote parses raw and converts the amount to the target currency.
func (s *Service) Quote(ctx context.Context, raw string) (*Quote, error) {
	m, rule := s.Parse(raw)
	if m == nil {
		return nil, domain.ErrNoCurrencyFound
	}
	prefs := s.settings.Current()
	if m.Currency == prefs.TargetCurrency {
		return nil, domain.ErrAlreadyTargetCurrency
	}
	res, err := s.convert(ctx, Input{From: m.Currency, To: prefs.TargetCurrency, Amount: m.Amount}, true)
	if err != nil {
		return nil, err
	}
	return &Quote{
		Original:  money.FormatString(m.Amount, m.Currency, prefs.Precision),
		Converted: money.FormatString(res.Result, prefs.TargetCurrency, prefs.Precision),
		Currency:  m.Currency,
		Amount:    m.Amount,
		Target:    prefs.TargetCurrency,
		Result:    res.Result,
		Cached:    res.Cached,
		Source:    res.Source,
		Rule:      rule,
	}, nil
}

// ClearCache removes every cached rate.
func (s *Service) ClearCache(ctx context.Context) error {
	if err := s.cache.ClearAll(ctx); err != nil {
		s.logger.Error("Failed to clear rate cache", "error", err)
		return err
	}
	s.logger.Info("Rate cache cleared")
	return nil
}

// CacheStats reports what the rate cache currently holds.
func (s *Service) CacheStats(ctx context.Context) (cache.Stats, error) {
	return s.cache.Stats(ctx)
}
