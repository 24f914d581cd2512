package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first .env file found among envFilePath (searching parent
// directories) and then the process environment.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()
	logger.Info("Loading environment variables")

	if len(envFilePath) == 0 {
		logger.Debug("No environment file specified, trying default .env")
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		logger.Debug("Looking for environment file", "path", path)
		foundPath, err := FindEnvFile(path)
		if err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}

		logger.Info("Loading environment from file", "path", foundPath)
		if err := godotenv.Load(foundPath); err != nil {
			logger.Error("Failed to load environment file", "path", foundPath, "error", err)
			continue
		}
		return loadFromEnv()
	}

	logger.Info("No valid environment files found, using process environment")
	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"cache_backend", cfg.Cache.Backend,
		"cache_dsn", maskValue(cfg.Cache.DSN),
		"redis_url", maskValue(cfg.Redis.URL),
		"provider_timeout", cfg.Providers.Timeout,
		"proxy_timeout", cfg.Providers.ProxyTimeout,
		"exchangerate_host_key", maskValue(cfg.Providers.ExchangeRateHostKey),
		"conversion_deadline", cfg.Conversion.Deadline,
		"target_currency", cfg.Preferences.TargetCurrency,
		"cache_ttl_minutes", cfg.Preferences.CacheTTLMinutes,
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
