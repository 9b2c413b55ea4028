package cache

import (
	"context"
	"sync"
	"time"

	"quoteprovider/internal/provider"
)

// entry stores the cached asset for a single symbol with expiry.
type entry struct {
	expiresAt time.Time
	asset     provider.Asset
}

// Fetcher caches one asset per symbol for a TTL. It requests only missing
// symbols from the underlying fetcher and merges cached and fresh results
// back into request order. An error from the underlying fetcher fails the
// whole call; the batch stays all-or-nothing.
type Fetcher struct {
	F        provider.Fetcher
	TTL      time.Duration
	MaxItems int

	mu    sync.RWMutex
	items map[string]entry // key: full symbol
}

func (c *Fetcher) Name() string { return c.F.Name() }

// Fetch returns assets for requested symbols using the cache when valid.
func (c *Fetcher) Fetch(ctx context.Context, symbols []string) ([]provider.Asset, error) {
	if c.TTL <= 0 {
		return c.F.Fetch(ctx, symbols)
	}

	now := time.Now()

	out := make([]provider.Asset, len(symbols))
	have := make([]bool, len(symbols))

	// Split into cached and missing symbols, keeping missing unique and
	// in request order.
	missing := make([]string, 0, len(symbols))
	seen := make(map[string]struct{}, len(symbols))

	c.mu.RLock()
	for i, s := range symbols {
		if e, ok := c.items[s]; ok && now.Before(e.expiresAt) {
			out[i] = e.asset
			have[i] = true
			continue
		}
		if _, dup := seen[s]; !dup {
			seen[s] = struct{}{}
			missing = append(missing, s)
		}
	}
	c.mu.RUnlock()

	if len(missing) == 0 {
		return out, nil
	}

	fresh, err := c.F.Fetch(ctx, missing)
	if err != nil {
		return nil, err
	}

	bySymbol := make(map[string]provider.Asset, len(fresh))
	for _, a := range fresh {
		bySymbol[a.Symbol] = a
	}

	expiry := now.Add(c.TTL)
	c.mu.Lock()
	if c.items == nil {
		c.items = make(map[string]entry, len(bySymbol))
	}
	for sym, a := range bySymbol {
		c.items[sym] = entry{expiresAt: expiry, asset: a}
	}
	// best-effort cap cache size: drop expired first, then arbitrary keys
	if c.MaxItems > 0 && len(c.items) > c.MaxItems {
		for k, v := range c.items {
			if time.Now().After(v.expiresAt) {
				delete(c.items, k)
			}
			if len(c.items) <= c.MaxItems {
				break
			}
		}
		for k := range c.items {
			if len(c.items) <= c.MaxItems {
				break
			}
			delete(c.items, k)
		}
	}
	c.mu.Unlock()

	for i, s := range symbols {
		if have[i] {
			continue
		}
		if a, ok := bySymbol[s]; ok {
			out[i] = a
			continue
		}
		out[i] = provider.NullAsset(s)
	}
	return out, nil
}
