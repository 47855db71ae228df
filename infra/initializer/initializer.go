package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	infra_cache "github.com/amirasaad/fxconvert/infra/cache"
	infra_provider "github.com/amirasaad/fxconvert/infra/provider"
	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/config"
	"github.com/amirasaad/fxconvert/pkg/conversion"
	"github.com/amirasaad/fxconvert/pkg/provider"
)

// Cache drivers accepted by EXCHANGE_RATE_CACHE_DRIVER.
const (
	CacheDriverNone   = "none"
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

const redisPingTimeout = 5 * time.Second

// Deps are the wired application dependencies shared by every front end.
type Deps struct {
	Config   *config.App
	Logger   *slog.Logger
	Provider provider.ExchangeRate
	Engine   *conversion.Engine

	closers []io.Closer
}

// Close releases the cache connections held by d.
func (d *Deps) Close() error {
	var errs []error
	for _, c := range d.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

// InitializeDependencies builds the logger, the rate provider with its
// optional cache, and the conversion engine. Logs go to logOut (stdout when
// nil).
func InitializeDependencies(cfg *config.App, logOut io.Writer) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	logger := SetupLogger(cfg.Log, logOut)
	deps := &Deps{Config: cfg, Logger: logger}

	rates, err := infra_provider.New(cfg.ExchangeRateProvider, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize exchange rate provider: %w", err)
	}

	lookupCache, closer, err := newLookupCache(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize lookup cache: %w", err)
	}
	if closer != nil {
		deps.closers = append(deps.closers, closer)
	}
	if lookupCache != nil {
		rates = provider.NewCached(rates, lookupCache, cfg.ExchangeRateCache.TTL, logger)
	}

	deps.Provider = rates
	deps.Engine = conversion.NewEngine(rates, logger)

	logger.Info("Dependencies initialized",
		"env", cfg.Env,
		"provider", rates.Name(),
		"cache_driver", cacheDriver(cfg),
	)
	return deps, nil
}

func cacheDriver(cfg *config.App) string {
	if cfg.ExchangeRateCache == nil {
		return CacheDriverNone
	}
	d := strings.ToLower(strings.TrimSpace(cfg.ExchangeRateCache.Driver))
	if d == "" {
		return CacheDriverNone
	}
	return d
}

// newLookupCache returns a nil cache for the "none" driver.
func newLookupCache(cfg *config.App, logger *slog.Logger) (cache.LookupCache, io.Closer, error) {
	switch driver := cacheDriver(cfg); driver {
	case CacheDriverNone:
		return nil, nil, nil
	case CacheDriverMemory:
		mem := infra_cache.NewMemoryCache()
		return mem, mem, nil
	case CacheDriverRedis:
		if cfg.Redis == nil || cfg.Redis.URL == "" {
			return nil, nil, errors.New("redis cache selected but REDIS_URL is empty")
		}
		opt, err := redis.ParseURL(cfg.Redis.URL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis url: %w", err)
		}
		applyRedisOptions(opt, cfg.Redis)

		rc := infra_cache.NewRedisCacheWithOptions(opt, cfg.ExchangeRateCache.Prefix, logger)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err := rc.Ping(ctx); err != nil {
			_ = rc.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return rc, rc, nil
	default:
		return nil, nil, fmt.Errorf("unknown cache driver %q", driver)
	}
}

func applyRedisOptions(opt *redis.Options, cfg *config.Redis) {
	if cfg.PoolSize > 0 {
		opt.PoolSize = cfg.PoolSize
	}
	if cfg.DialTimeout > 0 {
		opt.DialTimeout = cfg.DialTimeout
	}
	if cfg.ReadTimeout > 0 {
		opt.ReadTimeout = cfg.ReadTimeout
	}
	if cfg.WriteTimeout > 0 {
		opt.WriteTimeout = cfg.WriteTimeout
	}
}
