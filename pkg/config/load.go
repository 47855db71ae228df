package config

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads the first env file found among envFiles (searching parent
// directories), falling back to ./.env, then fills App from the environment.
// Variables already set in the environment win over file values.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	loadEnvFile(logger, envFiles)

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger.Debug("App config loaded",
		"env", cfg.Env,
		"provider", cfg.ExchangeRateProvider.Name,
		"provider_api_url", cfg.ExchangeRateProvider.ApiUrl,
		"provider_api_key", maskValue(cfg.ExchangeRateProvider.ApiKey),
		"provider_http_timeout", cfg.ExchangeRateProvider.HTTPTimeout,
		"cache_driver", cfg.ExchangeRateCache.Driver,
		"cache_ttl", cfg.ExchangeRateCache.TTL,
		"redis_url", maskValue(cfg.Redis.URL),
		"rate_limit_max_requests", cfg.RateLimit.MaxRequests,
		"rate_limit_window", cfg.RateLimit.Window,
	)
	return &cfg, nil
}

func loadEnvFile(logger *slog.Logger, candidates []string) {
	for _, name := range candidates {
		path, err := FindEnvFile(name)
		if err != nil {
			logger.Debug("Environment file not found", "name", name)
			continue
		}
		if err := godotenv.Load(path); err != nil {
			logger.Warn("Failed to load environment file", "path", path, "error", err)
			continue
		}
		logger.Info("Loaded environment file", "path", path)
		return
	}
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file in working directory")
	}
}

// maskValue keeps the first two and last four characters of secrets long
// enough to be recognisable.
func maskValue(secret string) string {
	if len(secret) <= 6 {
		return "****"
	}
	return secret[:2] + "****" + secret[len(secret)-4:]
}
