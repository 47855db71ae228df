package cache

import (
	"context"
	"time"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

// LookupCache defines the interface for caching provider lookups.
// Get returns nil, nil on a miss.
type LookupCache interface {
	Get(ctx context.Context, key string) (*conversion.LookupResult, error)
	Set(ctx context.Context, key string, lookup *conversion.LookupResult, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
