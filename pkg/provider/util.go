package provider

import (
	"context"
	"sync"
)

// HealthCheckAll checks the health of all providers concurrently and returns
// the result keyed by provider name.
func HealthCheckAll(
	ctx context.Context,
	providers []ExchangeRate,
) map[string]error {
	results := make(map[string]error, len(providers))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, p := range providers {
		wg.Add(1)
		go func(p ExchangeRate) {
			defer wg.Done()

			err := p.CheckHealth(ctx)
			mu.Lock()
			results[p.Name()] = err
			mu.Unlock()
		}(p)
	}

	wg.Wait()
	return results
}
