package provider

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/provider"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient() *Client {
	return NewClient(&config.Providers{UserAgent: "test"}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func jsonServer(t *testing.T, status int, body string, check func(r *http.Request)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			check(r)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFrankfurter_FetchRate(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"amount":1,"base":"GBP","rates":{"USD":1.27}}`, func(r *http.Request) {
		assert.Equal(t, "/latest", r.URL.Path)
		assert.Equal(t, "GBP", r.URL.Query().Get("from"))
		assert.Equal(t, "USD", r.URL.Query().Get("to"))
	})
	p := NewFrankfurter(testClient(), srv.URL, time.Second)

	rate, err := p.FetchRate(context.Background(), "GBP", "USD", 50)
	require.NoError(t, err)
	assert.InDelta(t, 1.27, rate, 1e-9)
	assert.Equal(t, "frankfurter", p.Name())
}

func TestFrankfurter_MissingRate(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"amount":1,"base":"GBP","rates":{}}`, nil)
	p := NewFrankfurter(testClient(), srv.URL, time.Second)

	_, err := p.FetchRate(context.Background(), "GBP", "USD", 1)
	assert.ErrorIs(t, err, provider.ErrMissingField)
}

func TestExchangeRateHost_DerivesRateFromTotal(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":true,"result":135}`, func(r *http.Request) {
		assert.Equal(t, "/convert", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("amount"))
		assert.Equal(t, "secret", r.URL.Query().Get("access_key"))
	})
	p := NewExchangeRateHost(testClient(), srv.URL, "secret", time.Second)

	rate, err := p.FetchRate(context.Background(), "USD", "CAD", 100)
	require.NoError(t, err)
	assert.InDelta(t, 1.35, rate, 1e-9)
}

func TestExchangeRateHost_NoAccessKeyParam(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"result":10}`, func(r *http.Request) {
		_, ok := r.URL.Query()["access_key"]
		assert.False(t, ok)
	})
	p := NewExchangeRateHost(testClient(), srv.URL, "", time.Second)

	rate, err := p.FetchRate(context.Background(), "USD", "EUR", 10)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, rate, 1e-9)
}

func TestExchangeRateHost_Unsuccessful(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"success":false,"error":{"code":101,"info":"missing key"}}`, nil)
	p := NewExchangeRateHost(testClient(), srv.URL, "", time.Second)

	_, err := p.FetchRate(context.Background(), "USD", "EUR", 10)
	require.Error(t, err)
	assert.ErrorIs(t, err, provider.ErrMissingField)
	assert.Contains(t, err.Error(), "missing key")
}

func TestExchangeRateHost_ZeroAmount(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"result":0}`, nil)
	p := NewExchangeRateHost(testClient(), srv.URL, "", time.Second)

	rate, err := p.FetchRate(context.Background(), "USD", "EUR", 0)
	require.NoError(t, err)
	assert.Zero(t, rate)
}

func TestExchangeRateAPI_FetchRate(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"base":"EUR","rates":{"JPY":162.5}}`, func(r *http.Request) {
		assert.Equal(t, "/v4/latest/EUR", r.URL.Path)
	})
	p := NewExchangeRateAPI(testClient(), srv.URL, time.Second)

	rate, err := p.FetchRate(context.Background(), "EUR", "JPY", 3)
	require.NoError(t, err)
	assert.InDelta(t, 162.5, rate, 1e-9)
}

func TestClient_Errors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"bad status", http.StatusInternalServerError, `oops`, provider.ErrBadStatus},
		{"not found", http.StatusNotFound, `{}`, provider.ErrBadStatus},
		{"malformed", http.StatusOK, `{"rates":`, provider.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := jsonServer(t, tt.status, tt.body, nil)
			p := NewExchangeRateAPI(testClient(), srv.URL, time.Second)
			_, err := p.FetchRate(context.Background(), "USD", "EUR", 1)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestClient_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})
	p := NewFrankfurter(testClient(), srv.URL, 50*time.Millisecond)

	_, err := p.FetchRate(context.Background(), "GBP", "USD", 1)
	require.Error(t, err)
	assert.True(t, provider.IsTimeout(err), "got %v", err)
}

func TestClient_CanceledContextIsNotTimeout(t *testing.T) {
	cfg := &config.Providers{RequestsPerMinute: 1, BurstSize: 1}
	c := NewClient(cfg, nil)
	srv := jsonServer(t, http.StatusOK, `{"rates":{"USD":1}}`, nil)
	p := NewFrankfurter(c, srv.URL, time.Second)

	// first call consumes the only token
	_, err := p.FetchRate(context.Background(), "GBP", "USD", 1)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = p.FetchRate(ctx, "GBP", "USD", 1)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.False(t, provider.IsTimeout(err))
}

func TestExpandTemplate(t *testing.T) {
	got := ExpandTemplate("https://p.example/c?f={FROM}&t={TO}&a={AMOUNT}&again={FROM}", "GBP", "USD", 12.5)
	assert.Equal(t, "https://p.example/c?f=GBP&t=USD&a=12.5&again={FROM}", got)
}

func TestProxy_FetchRate(t *testing.T) {
	srv := jsonServer(t, http.StatusOK, `{"result":63.5}`, func(r *http.Request) {
		assert.Equal(t, "GBP", r.URL.Query().Get("from"))
		assert.Equal(t, "50", r.URL.Query().Get("amount"))
	})
	p := NewProxy(testClient(), time.Second)

	rate, err := p.FetchRate(context.Background(), srv.URL+"/?from={FROM}&to={TO}&amount={AMOUNT}", "GBP", "USD", 50)
	require.NoError(t, err)
	assert.InDelta(t, 1.27, rate, 1e-9)
}

func TestProxy_ErrorIsWrapped(t *testing.T) {
	srv := jsonServer(t, http.StatusBadGateway, `{}`, nil)
	p := NewProxy(testClient(), time.Second)

	_, err := p.FetchRate(context.Background(), srv.URL+"/{FROM}/{TO}/{AMOUNT}", "GBP", "USD", 1)
	var perr *provider.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "proxy", perr.Provider)
	assert.ErrorIs(t, err, provider.ErrBadStatus)
}
