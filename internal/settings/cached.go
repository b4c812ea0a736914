package settings

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CachedProvider serves settings from memory for ttl. When the underlying
// provider fails it keeps serving the last good value, or the fallback if
// there never was one, so pricing never fails on a settings outage.
// Concurrent refreshes share a single call to the underlying provider, made
// without holding the cache lock.
type CachedProvider struct {
	inner    Provider
	ttl      time.Duration
	fallback Shipping
	now      func() time.Time
	log      *slog.Logger

	refresh singleflight.Group

	mu        sync.Mutex
	value     Shipping
	hasValue  bool
	fetchedAt time.Time
	// generation changes on every save so an older fetch cannot overwrite it
	generation uint64
}

func NewCachedProvider(inner Provider, ttl time.Duration, fallback Shipping, logger *slog.Logger) *CachedProvider {
	if logger == nil {
		logger = slog.Default()
	}
	return &CachedProvider{
		inner:    inner,
		ttl:      ttl,
		fallback: fallback,
		now:      time.Now,
		log:      logger.With("component", "settings"),
	}
}

func (p *CachedProvider) GetShipping(ctx context.Context) (Shipping, error) {
	p.mu.Lock()
	if p.hasValue && p.now().Sub(p.fetchedAt) < p.ttl {
		v := p.value
		p.mu.Unlock()
		return v, nil
	}
	generation := p.generation
	p.mu.Unlock()

	v, err, _ := p.refresh.Do("shipping", func() (any, error) {
		s, err := p.inner.GetShipping(ctx)
		if err != nil {
			return nil, err
		}
		p.mu.Lock()
		if p.generation == generation {
			p.value, p.hasValue, p.fetchedAt = s, true, p.now()
		}
		p.mu.Unlock()
		return s, nil
	})
	if err == nil {
		return v.(Shipping), nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasValue {
		p.log.WarnContext(ctx, "serving stale shipping settings", "error", err)
		return p.value, nil
	}
	p.log.WarnContext(ctx, "serving default shipping settings", "error", err)
	return p.fallback, nil
}

func (p *CachedProvider) SaveShipping(ctx context.Context, s Shipping) error {
	if err := p.inner.SaveShipping(ctx, s); err != nil {
		return err
	}
	p.mu.Lock()
	p.value, p.hasValue, p.fetchedAt = s, true, p.now()
	p.generation++
	p.mu.Unlock()
	return nil
}
