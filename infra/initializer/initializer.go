package initializer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/quickcurrency/infra"
	infracache "github.com/amirasaad/quickcurrency/infra/cache"
	infraprovider "github.com/amirasaad/quickcurrency/infra/provider"
	"github.com/amirasaad/quickcurrency/pkg/app"
	"github.com/amirasaad/quickcurrency/pkg/cache"
	"github.com/amirasaad/quickcurrency/pkg/config"
	"github.com/amirasaad/quickcurrency/pkg/metrics"
	"github.com/amirasaad/quickcurrency/pkg/provider"
	"github.com/redis/go-redis/v9"
)

// InitializeDependencies builds the cache backend, providers and metrics
// described by cfg. logger may be nil, in which case one is built from cfg.Log.
func InitializeDependencies(cfg *config.App, logger *slog.Logger) (
	deps *app.Deps,
	err error,
) {
	if logger == nil {
		logger = SetupLogger(cfg.Log)
	}
	deps = &app.Deps{
		Logger:  logger,
		Metrics: metrics.New(),
	}

	deps.Storage, err = newStorage(cfg, deps, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rate cache: %w", err)
	}

	providers := cfg.Providers
	if providers == nil {
		providers = &config.Providers{Timeout: 5 * time.Second, ProxyTimeout: 8 * time.Second}
	}
	client := infraprovider.NewClient(providers, logger.With("component", "provider"))
	deps.Providers = []provider.ExchangeRate{
		infraprovider.NewFrankfurter(client, providers.FrankfurterURL, providers.Timeout),
		infraprovider.NewExchangeRateHost(client, providers.ExchangeRateHostURL, providers.ExchangeRateHostKey, providers.Timeout),
		infraprovider.NewExchangeRateAPI(client, providers.ExchangeRateApiURL, providers.Timeout),
	}
	deps.Proxy = infraprovider.NewProxy(client, providers.ProxyTimeout)

	logger.Info("Dependencies initialized",
		"cache_backend", backendName(cfg),
		"providers", len(deps.Providers))
	return deps, nil
}

func backendName(cfg *config.App) string {
	if cfg.Cache == nil || cfg.Cache.Backend == "" {
		return "memory"
	}
	return cfg.Cache.Backend
}

// newStorage selects the cache backend. Connections it opens are added to
// deps.Closers.
func newStorage(cfg *config.App, deps *app.Deps, logger *slog.Logger) (cache.Storage, error) {
	switch backend := backendName(cfg); backend {
	case "memory":
		return infracache.NewMemoryStorage(), nil

	case "redis":
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, fmt.Errorf("redis backend selected but REDIS_URL is not set")
		}
		storage, err := infracache.NewRedisStorageFromURL(cfg.Redis.URL, cfg.Cache.Prefix, logger,
			func(opts *redis.Options) {
				opts.PoolSize = cfg.Redis.PoolSize
				opts.DialTimeout = cfg.Redis.DialTimeout
				opts.ReadTimeout = cfg.Redis.ReadTimeout
				opts.WriteTimeout = cfg.Redis.WriteTimeout
			})
		if err != nil {
			return nil, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := storage.Ping(ctx); err != nil {
			_ = storage.Close()
			return nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		deps.Closers = append(deps.Closers, storage)
		logger.Info("Using redis rate cache", "prefix", cfg.Cache.Prefix)
		return storage, nil

	case "sqlite", "postgres":
		db, err := infra.NewDBConnection(cfg.Cache, cfg.Env)
		if err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		deps.Closers = append(deps.Closers, sqlDB)
		storage, err := infracache.NewSQLStorage(db)
		if err != nil {
			return nil, fmt.Errorf("failed to migrate rate cache table: %w", err)
		}
		logger.Info("Using SQL rate cache", "backend", backend)
		return storage, nil

	default:
		return nil, fmt.Errorf("unknown cache backend %q", backend)
	}
}
