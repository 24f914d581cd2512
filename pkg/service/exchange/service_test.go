package exchange

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
	"github.com/amirasaad/quickcurrency/pkg/domain"
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/provider"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockProvider struct {
	mock.Mock
	name string
}

func (m *mockProvider) Name() string { return m.name }

func (m *mockProvider) FetchRate(ctx context.Context, from, to string, amount float64) (float64, error) {
	args := m.Called(ctx, from, to, amount)
	return args.Get(0).(float64), args.Error(1)
}

type mockProxy struct {
	mock.Mock
}

func (m *mockProxy) Name() string { return "proxy" }

func (m *mockProxy) FetchRate(ctx context.Context, template, from, to string, amount float64) (float64, error) {
	args := m.Called(ctx, template, from, to, amount)
	return args.Get(0).(float64), args.Error(1)
}

type fixture struct {
	svc     *Service
	store   *cache.Store
	p1      *mockProvider
	p2      *mockProvider
	p3      *mockProvider
	proxy   *mockProxy
	metrics *metrics.Metrics
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		p1:      &mockProvider{name: "frankfurter"},
		p2:      &mockProvider{name: "exchangerate.host"},
		p3:      &mockProvider{name: "exchangerate-api"},
		proxy:   &mockProxy{},
		metrics: metrics.New(),
		now:     time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.store = cache.New(infracache.NewMemoryStorage(),
		cache.WithClock(func() time.Time { return f.now }),
		cache.WithLogger(logger),
	)
	f.svc = New(f.store,
		[]provider.ExchangeRate{f.p1, f.p2, f.p3},
		logger,
		WithProxy(f.proxy),
		WithMetrics(f.metrics),
	)
	t.Cleanup(func() {
		f.p1.AssertExpectations(t)
		f.p2.AssertExpectations(t)
		f.p3.AssertExpectations(t)
		f.proxy.AssertExpectations(t)
	})
	return f
}

func request(from, to string, amount float64) domain.ConversionRequest {
	return domain.ConversionRequest{From: from, To: to, Amount: amount, CacheTTLMinutes: 15}
}

func TestConvert_FirstProviderSucceeds(t *testing.T) {
	f := newFixture(t)
	f.p1.On("FetchRate", mock.Anything, "GBP", "USD", 50.0).Return(1.27, nil).Once()

	res := f.svc.Convert(context.Background(), request("GBP", "USD", 50))

	require.True(t, res.Ok())
	assert.InDelta(t, 63.5, res.Result, 1e-9)
	assert.False(t, res.Cached)
	assert.Equal(t, "frankfurter", res.Source)
	f.p2.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	rate, ok := f.store.Get(context.Background(), "GBP", "USD", 15)
	require.True(t, ok)
	assert.InDelta(t, 1.27, rate, 1e-9)
}

func TestConvert_FallsBackInOrder(t *testing.T) {
	f := newFixture(t)
	f.p1.On("FetchRate", mock.Anything, "EUR", "JPY", 3.0).
		Return(0.0, provider.ErrTimeout).Once()
	f.p2.On("FetchRate", mock.Anything, "EUR", "JPY", 3.0).Return(162.5, nil).Once()

	res := f.svc.Convert(context.Background(), request("EUR", "JPY", 3))

	require.True(t, res.Ok())
	assert.InDelta(t, 487.5, res.Result, 1e-9)
	assert.Equal(t, "exchangerate.host", res.Source)
	f.p3.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.ProviderCalls.WithLabelValues("frankfurter", "error")), 0)
}

func TestConvert_AllProvidersFail(t *testing.T) {
	f := newFixture(t)
	for _, p := range []*mockProvider{f.p1, f.p2, f.p3} {
		p.On("FetchRate", mock.Anything, "USD", "INR", 10.0).
			Return(0.0, errors.New("connection refused")).Once()
	}

	res := f.svc.Convert(context.Background(), request("USD", "INR", 10))

	assert.False(t, res.Ok())
	assert.Equal(t, "Could not fetch exchange rate from any API", res.Error)
	stats, err := f.store.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.Entries)
}

func TestConvert_CacheHitSkipsNetwork(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(context.Background(), "GBP", "USD", 1.25))
	f.now = f.now.Add(14 * time.Minute)

	req := request("GBP", "USD", 10)
	req.UseProxy = true
	req.ProxyURL = "https://proxy.example/{FROM}/{TO}/{AMOUNT}"
	res := f.svc.Convert(context.Background(), req)

	require.True(t, res.Ok())
	assert.True(t, res.Cached)
	assert.InDelta(t, 12.5, res.Result, 1e-9)
	assert.Equal(t, SourceCache, res.Source)
	assert.InDelta(t, 1, testutil.ToFloat64(f.metrics.CacheLookups.WithLabelValues("hit")), 0)
}

func TestConvert_ExpiredEntryRefetches(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.Put(context.Background(), "GBP", "USD", 1.25))
	f.now = f.now.Add(15 * time.Minute)
	f.p1.On("FetchRate", mock.Anything, "GBP", "USD", 10.0).Return(1.3, nil).Once()

	res := f.svc.Convert(context.Background(), request("GBP", "USD", 10))

	require.True(t, res.Ok())
	assert.False(t, res.Cached)
	assert.InDelta(t, 13, res.Result, 1e-9)
}

func TestConvert_ProxyPreemptsChain(t *testing.T) {
	f := newFixture(t)
	tmpl := "https://proxy.example/{FROM}/{TO}/{AMOUNT}"
	f.proxy.On("FetchRate", mock.Anything, tmpl, "GBP", "EUR", 20.0).Return(1.17, nil).Once()

	req := request("GBP", "EUR", 20)
	req.UseProxy = true
	req.ProxyURL = tmpl
	res := f.svc.Convert(context.Background(), req)

	require.True(t, res.Ok())
	assert.Equal(t, "proxy", res.Source)
	f.p1.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConvert_ProxyFailureFallsBack(t *testing.T) {
	f := newFixture(t)
	tmpl := "https://proxy.example/{FROM}/{TO}/{AMOUNT}"
	f.proxy.On("FetchRate", mock.Anything, tmpl, "GBP", "EUR", 20.0).
		Return(0.0, &provider.Error{Provider: "proxy", Err: provider.ErrBadStatus}).Once()
	f.p1.On("FetchRate", mock.Anything, "GBP", "EUR", 20.0).Return(1.16, nil).Once()

	req := request("GBP", "EUR", 20)
	req.UseProxy = true
	req.ProxyURL = tmpl
	res := f.svc.Convert(context.Background(), req)

	require.True(t, res.Ok())
	assert.Equal(t, "frankfurter", res.Source)
}

func TestConvert_ProxyIgnoredWithoutURL(t *testing.T) {
	f := newFixture(t)
	f.p1.On("FetchRate", mock.Anything, "GBP", "EUR", 1.0).Return(1.16, nil).Once()

	req := request("GBP", "EUR", 1)
	req.UseProxy = true
	res := f.svc.Convert(context.Background(), req)

	require.True(t, res.Ok())
	f.proxy.AssertNotCalled(t, "FetchRate", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestConvert_InvalidRatesAreFailures(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"nan", math.NaN()},
		{"inf", math.Inf(1)},
		{"negative", -1},
		{"zero", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.p1.On("FetchRate", mock.Anything, "USD", "EUR", 5.0).Return(tt.rate, nil).Once()
			f.p2.On("FetchRate", mock.Anything, "USD", "EUR", 5.0).Return(0.9, nil).Once()

			res := f.svc.Convert(context.Background(), request("USD", "EUR", 5))

			require.True(t, res.Ok())
			assert.Equal(t, "exchangerate.host", res.Source)
		})
	}
}

func TestConvert_ZeroAmountAcceptsZeroRate(t *testing.T) {
	f := newFixture(t)
	f.p1.On("FetchRate", mock.Anything, "USD", "EUR", 0.0).Return(0.0, nil).Once()

	res := f.svc.Convert(context.Background(), request("USD", "EUR", 0))

	require.True(t, res.Ok())
	assert.Zero(t, res.Result)
}

func TestConvert_DeadlineStopsChain(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	f.p1.On("FetchRate", mock.Anything, "USD", "EUR", 1.0).
		Run(func(args mock.Arguments) {
			<-args.Get(0).(context.Context).Done()
		}).
		Return(0.0, provider.ErrTimeout).Once()

	res := f.svc.Convert(ctx, request("USD", "EUR", 1))

	assert.False(t, res.Ok())
	assert.Equal(t, domain.ErrConversionTimeout.Error(), res.Error)
}

func TestConvert_PanicBecomesFailure(t *testing.T) {
	f := newFixture(t)
	f.p1.On("FetchRate", mock.Anything, "USD", "EUR", 1.0).
		Run(func(mock.Arguments) { panic("boom") }).
		Return(0.0, nil).Once()

	res := f.svc.Convert(context.Background(), request("USD", "EUR", 1))

	assert.False(t, res.Ok())
	assert.Equal(t, domain.ErrConversionFailed.Error(), res.Error)
}

func TestCheckRate(t *testing.T) {
	assert.NoError(t, checkRate(1.2, 3))
	assert.NoError(t, checkRate(0, 0))
	assert.ErrorIs(t, checkRate(0, 1), provider.ErrInvalidRate)
	assert.ErrorIs(t, checkRate(math.NaN(), 1), provider.ErrInvalidRate)
}
