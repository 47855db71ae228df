package provider

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/amirasaad/fxconvert/pkg/cache"
	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// Shaped is implemented by providers that always answer with one lookup shape.
type Shaped interface {
	Shape() conversion.Shape
}

// Cached wraps a provider with a lookup cache. Identical lookups that miss the
// cache at the same time share a single upstream call.
type Cached struct {
	next     ExchangeRate
	cache    cache.LookupCache
	ttl      time.Duration
	logger   *slog.Logger
	inflight singleflight.Group
}

// NewCached creates a caching decorator around next.
func NewCached(
	next ExchangeRate,
	c cache.LookupCache,
	ttl time.Duration,
	logger *slog.Logger,
) *Cached {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cached{
		next:   next,
		cache:  c,
		ttl:    ttl,
		logger: logger.With("provider", next.Name()),
	}
}

// Name returns the wrapped provider's name.
func (c *Cached) Name() string {
	return c.next.Name()
}

// CheckHealth is never cached.
func (c *Cached) CheckHealth(ctx context.Context) error {
	return c.next.CheckHealth(ctx)
}

// LookupRate serves req from the cache, falling back to the wrapped provider.
// Cache failures are logged and otherwise ignored.
func (c *Cached) LookupRate(ctx context.Context, req conversion.Request) (*conversion.LookupResult, error) {
	key := c.key(req)

	hit, err := c.cache.Get(ctx, key)
	if err != nil {
		c.logger.Warn("Lookup cache read failed", "key", key, "error", err)
	} else if hit != nil {
		c.logger.Debug("Lookup cache hit", "key", key)
		return hit, nil
	}

	// The shared call outlives any one caller; each caller still stops
	// waiting when its own ctx is done.
	ch := c.inflight.DoChan(key, func() (any, error) {
		fetchCtx := context.WithoutCancel(ctx)
		lookup, err := c.next.LookupRate(fetchCtx, req)
		if err != nil {
			return nil, err
		}
		if err := c.cache.Set(fetchCtx, key, lookup, c.ttl); err != nil {
			c.logger.Warn("Lookup cache write failed", "key", key, "error", err)
		}
		return lookup, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", conversion.ErrNetwork, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			c.logger.Debug("Lookup shared with concurrent caller", "key", key)
		}
		return res.Val.(*conversion.LookupResult), nil
	}
}

// key is provider:BASE:DEST, plus the amount for providers whose answers are
// scaled by it.
func (c *Cached) key(req conversion.Request) string {
	k := fmt.Sprintf("%s:%s:%s", c.next.Name(), req.Base, req.Dest)
	if s, ok := c.next.(Shaped); ok && s.Shape() == conversion.ScaledRate {
		k += ":" + strconv.FormatFloat(req.Amount, 'f', -1, 64)
	}
	return k
}

var _ ExchangeRate = (*Cached)(nil)
