package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amirasaad/fxconvert/pkg/conversion"
)

func sampleLookup() *conversion.LookupResult {
	return &conversion.LookupResult{
		Shape:    conversion.DirectRate,
		Base:     "CAD",
		Rates:    map[string]float64{"USD": 0.75},
		Provider: "test",
	}
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	got, err := c.Get(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "test:CAD:USD", sampleLookup(), time.Minute))
	got, err = c.Get(ctx, "test:CAD:USD")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.InDelta(t, 0.75, got.Rates["USD"], 1e-12)

	require.NoError(t, c.Delete(ctx, "test:CAD:USD"))
	got, err = c.Get(ctx, "test:CAD:USD")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", sampleLookup(), -time.Second))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got, "expired entries are misses")
	assert.Equal(t, 1, c.Len())

	c.purgeExpired(time.Now())
	assert.Equal(t, 0, c.Len())
}

func TestMemoryCache_CloseTwice(t *testing.T) {
	c := NewMemoryCache()
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache()
	defer c.Close() //nolint:errcheck
	ctx := context.Background()

	in := sampleLookup()
	require.NoError(t, c.Set(ctx, "k", in, time.Minute))
	in.Rates["USD"] = 99

	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, got.Rates["USD"], 1e-12)
	got.Rates["USD"] = 42

	again, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.InDelta(t, 0.75, again.Rates["USD"], 1e-12)

	require.NoError(t, c.Set(ctx, "k", nil, time.Minute))
	assert.Equal(t, 0, c.Len())
}
