package settings

import (
	"context"
	"sync"
)

// StaticProvider keeps settings in memory.
type StaticProvider struct {
	mu sync.RWMutex
	s  Shipping
}

func NewStaticProvider(s Shipping) *StaticProvider {
	return &StaticProvider{s: s}
}

func (p *StaticProvider) GetShipping(context.Context) (Shipping, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.s, nil
}

func (p *StaticProvider) SaveShipping(_ context.Context, s Shipping) error {
	if err := s.Validate(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.s = s
	return nil
}
