package source

import (
	"context"
	"sync"
	"time"

	"github.com/cgdin/painel/internal/report"
)

// DefaultCacheTTL is how long a load outcome is reused.
const DefaultCacheTTL = 2 * time.Second

// Cache holds one load outcome and when it was produced.
// Either Snapshot or Err is set.
type Cache struct {
	Snapshot *report.Snapshot
	Err      error
	LoadedAt time.Time
}

// Fresh reports whether the cached outcome may still be served at now.
func (c *Cache) Fresh(now time.Time, ttl time.Duration) bool {
	if c == nil || c.LoadedAt.IsZero() {
		return false
	}
	return now.Sub(c.LoadedAt) < ttl
}

// CachedLoader wraps a Loader with a time-based cache. The "no data" outcome
// is cached too, so a missing file is not checked again on every request.
type CachedLoader struct {
	loader *Loader
	ttl    time.Duration
	now    func() time.Time

	mu    sync.Mutex
	cache *Cache
	loads int
}

// NewCachedLoader wraps loader. A non-positive ttl uses DefaultCacheTTL.
func NewCachedLoader(loader *Loader, ttl time.Duration) *CachedLoader {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedLoader{loader: loader, ttl: ttl, now: time.Now}
}

// SetClock overrides time.Now. Intended for tests.
func (c *CachedLoader) SetClock(now func() time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

// Snapshot returns the cached snapshot while fresh, otherwise reloads.
// Context cancellation is returned as-is and never cached.
func (c *CachedLoader) Snapshot(ctx context.Context) (*report.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.cache.Fresh(now, c.ttl) {
		return c.cache.Snapshot, c.cache.Err
	}

	c.loads++
	res, err := c.loader.Load(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		c.cache = &Cache{Err: err, LoadedAt: now}
		return nil, err
	}

	c.cache = &Cache{Snapshot: res.Snapshot, LoadedAt: now}
	return res.Snapshot, nil
}

// Invalidate drops the cached outcome.
func (c *CachedLoader) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cache = nil
}

// Loads returns how many times the underlying loader ran.
func (c *CachedLoader) Loads() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loads
}

// Candidates returns the underlying lookup order.
func (c *CachedLoader) Candidates() []Candidate {
	return c.loader.Candidates()
}
