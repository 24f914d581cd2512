package conversion

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	infracache "github.com/amirasaad/quickcurrency/infra/cache"
	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockResolver struct {
	mock.Mock
}

func (m *mockResolver) Convert(ctx context.Context, req domain.ConversionRequest) domain.ConversionResult {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.ConversionResult)
}

func newService(t *testing.T, prefs config.Preferences, opts ...Option) (*Service, *mockResolver, *cache.Store) {
	t.Helper()
	store, err := config.NewPreferenceStore(prefs)
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rc := cache.New(infracache.NewMemoryStorage(), cache.WithLogger(logger))
	r := &mockResolver{}
	t.Cleanup(func() { r.AssertExpectations(t) })
	return New(r, rc, store, logger, opts...), r, rc
}

func TestConvert_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   Input
	}{
		{"missing from", Input{To: "USD", Amount: 1}},
		{"short code", Input{From: "US", To: "EUR", Amount: 1}},
		{"digits in code", Input{From: "U5D", To: "EUR", Amount: 1}},
		{"zero amount", Input{From: "USD", To: "EUR"}},
		{"negative amount", Input{From: "USD", To: "EUR", Amount: -5}},
		{"infinite amount", Input{From: "USD", To: "EUR", Amount: math.Inf(1)}},
		{"nan amount", Input{From: "USD", To: "EUR", Amount: math.NaN()}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, r, _ := newService(t, config.DefaultPreferences())

			res := svc.Convert(context.Background(), tt.in)

			assert.Equal(t, "Invalid conversion parameters", res.Error)
			r.AssertNotCalled(t, "Convert", mock.Anything, mock.Anything)
		})
	}
}

func TestConvert_AppliesPreferences(t *testing.T) {
	prefs := config.DefaultPreferences()
	prefs.CacheTTLMinutes = 30
	prefs.UseProxy = true
	prefs.ProxyURL = "https://proxy.example/{FROM}/{TO}/{AMOUNT}"
	svc, r, _ := newService(t, prefs)

	r.On("Convert", mock.Anything, domain.ConversionRequest{
		From: "GBP", To: "USD", Amount: 50,
		UseProxy: true, ProxyURL: prefs.ProxyURL, CacheTTLMinutes: 30,
	}).Return(domain.Succeeded(1.27, 50, false, "proxy")).Once()

	res := svc.Convert(context.Background(), Input{From: "gbp", To: " usd", Amount: 50})

	require.True(t, res.Ok())
	assert.InDelta(t, 63.5, res.Result, 1e-9)
}

func TestConvertDirect_SkipsStoredProxy(t *testing.T) {
	prefs := config.DefaultPreferences()
	prefs.UseProxy = true
	prefs.ProxyURL = "https://stored.example/{FROM}"
	svc, r, _ := newService(t, prefs)

	r.On("Convert", mock.Anything, mock.MatchedBy(func(req domain.ConversionRequest) bool {
		return !req.UseProxy
	})).Return(domain.Succeeded(2, 1, false, "frankfurter")).Once()

	res := svc.ConvertDirect(context.Background(), Input{From: "USD", To: "EUR", Amount: 1})
	assert.True(t, res.Ok())
}

func TestConvert_DeadlineReturnsTimeout(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultPreferences(), WithDeadline(20*time.Millisecond))

	var sawCancel bool
	released := make(chan struct{})
	r.On("Convert", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
			sawCancel = true
			close(released)
		}).
		Return(domain.Failed(domain.ErrExchangeRateUnavailable)).Once()

	res := svc.Convert(context.Background(), Input{From: "USD", To: "EUR", Amount: 1})

	assert.Equal(t, "Conversion timeout", res.Error)
	<-released
	assert.True(t, sawCancel)
}

func TestConvert_ResolverPanicIsRecovered(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultPreferences())
	r.On("Convert", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(domain.ConversionResult{}).Once()

	res := svc.Convert(context.Background(), Input{From: "USD", To: "EUR", Amount: 1})

	assert.Equal(t, "Conversion failed", res.Error)
}

func TestQuote(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultPreferences())
	r.On("Convert", mock.Anything, mock.MatchedBy(func(req domain.ConversionRequest) bool {
		return req.From == "USD" && req.To == "GBP" && req.Amount == 1_200_000
	})).Return(domain.Succeeded(0.8, 1_200_000, true, "cache")).Once()

	q, err := svc.Quote(context.Background(), "<b>$1.2M</b> raised")

	require.NoError(t, err)
	assert.Equal(t, "$1,200,000.00", q.Original)
	assert.Equal(t, "£960,000.00", q.Converted)
	assert.Equal(t, "USD", q.Currency)
	assert.Equal(t, "GBP", q.Target)
	assert.True(t, q.Cached)
	assert.Equal(t, parser.RuleSymbol, q.Rule)
}

func TestQuote_NoCurrency(t *testing.T) {
	svc, _, _ := newService(t, config.DefaultPreferences())

	_, err := svc.Quote(context.Background(), "nothing to see here")
	assert.ErrorIs(t, err, domain.ErrNoCurrencyFound)
}

func TestQuote_AlreadyTarget(t *testing.T) {
	svc, _, _ := newService(t, config.DefaultPreferences())

	_, err := svc.Quote(context.Background(), "£25")
	assert.ErrorIs(t, err, domain.ErrAlreadyTargetCurrency)
}

func TestQuote_ConversionFailure(t *testing.T) {
	svc, r, _ := newService(t, config.DefaultPreferences())
	r.On("Convert", mock.Anything, mock.Anything).
		Return(domain.Failed(domain.ErrExchangeRateUnavailable)).Once()

	_, err := svc.Quote(context.Background(), "€10")
	assert.True(t, errors.Is(err, domain.ErrExchangeRateUnavailable))
}

func TestParse_UsesYenDefault(t *testing.T) {
	prefs := config.DefaultPreferences()
	prefs.AmbiguousYenDefault = "CNY"
	svc, _, _ := newService(t, prefs)

	m, rule := svc.Parse("¥500")
	require.NotNil(t, m)
	assert.Equal(t, "CNY", m.Currency)
	assert.Equal(t, parser.RuleSymbol, rule)
}

func TestClearCacheAndStats(t *testing.T) {
	svc, _, store := newService(t, config.DefaultPreferences())
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, "USD", "EUR", 0.9))
	require.NoError(t, store.Put(ctx, "GBP", "USD", 1.27))

	stats, err := svc.CacheStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Entries)
	assert.Equal(t, []string{"GBP:USD", "USD:EUR"}, stats.Pairs)

	require.NoError(t, svc.ClearCache(ctx))
	_, ok := store.Get(ctx, "USD", "EUR", 15)
	assert.False(t, ok)
}
