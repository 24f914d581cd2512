package app

import (
	"io"
	"log/slog"

	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/provider"
	"github.com/amirasaad/quickcurrency/pkg/service/conversion"
	"github.com/amirasaad/quickcurrency/pkg/service/exchange"
)

// Deps contains the infrastructure the services are built from.
type Deps struct {
	Storage   cache.Storage
	Providers []provider.ExchangeRate
	Proxy     exchange.ProxyFetcher
	Metrics   *metrics.Metrics
	Logger    *slog.Logger
	Closers   []io.Closer
}

type App struct {
	Deps              *Deps
	Config            *config.App
	Settings          *config.PreferenceStore
	Cache             *cache.Store
	ExchangeService   *exchange.Service
	ConversionService *conversion.Service
}

// New wires the services. The initial preferences come from cfg and must be valid.
func New(deps *Deps, cfg *config.App) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	prefs := config.DefaultPreferences()
	if cfg.Preferences != nil {
		prefs = *cfg.Preferences
	}
	settings, err := config.NewPreferenceStore(prefs)
	if err != nil {
		return nil, err
	}

	app := &App{
		Deps:     deps,
		Config:   cfg,
		Settings: settings,
	}
	app.Cache = cache.New(deps.Storage, cache.WithLogger(deps.Logger))

	opts := []exchange.Option{exchange.WithMetrics(deps.Metrics)}
	if deps.Proxy != nil {
		opts = append(opts, exchange.WithProxy(deps.Proxy))
	}
	app.ExchangeService = exchange.New(app.Cache, deps.Providers, deps.Logger, opts...)

	convOpts := []conversion.Option{conversion.WithMetrics(deps.Metrics)}
	if cfg.Conversion != nil {
		convOpts = append(convOpts, conversion.WithDeadline(cfg.Conversion.Deadline))
	}
	app.ConversionService = conversion.New(app.ExchangeService, app.Cache, settings, deps.Logger, convOpts...)
	return app, nil
}

// Close releases backend connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.Deps.Closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
