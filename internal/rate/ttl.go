package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// TTLLimiter guarda cada ventana en go-cache con expiración = fin de la ventana.
// El janitor de go-cache elimina las vencidas cada cleanupInterval.
type TTLLimiter struct {
	mu    sync.Mutex
	cache *gocache.Cache
	opts  options
}

// NewTTLLimiter crea un limiter sobre go-cache.
func NewTTLLimiter(cleanupInterval time.Duration, opts ...Option) *TTLLimiter {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	return &TTLLimiter{
		cache: gocache.New(DefaultWindow, cleanupInterval),
		opts:  buildOptions(opts),
	}
}

// Check implementa Limiter.
func (t *TTLLimiter) Check(_ context.Context, identifier string, cfg Config) (Decision, error) {
	if err := validIdentifier(identifier); err != nil {
		return Decision{}, err
	}
	cfg = cfg.Normalize()
	now := t.opts.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	var rec *record
	if v, ok := t.cache.Get(identifier); ok {
		rec = v.(*record)
	}
	next, d := step(rec, now, cfg)
	if next != rec {
		// Margen de un ms: la ventana sigue viva cuando now == resetTime.
		t.cache.Set(identifier, next, next.resetTime.Sub(now)+time.Millisecond)
	}
	return d, nil
}

// Len devuelve la cantidad de ventanas guardadas (incluye vencidas aún no barridas).
func (t *TTLLimiter) Len() int {
	return t.cache.ItemCount()
}

// Flush borra todas las ventanas.
func (t *TTLLimiter) Flush() {
	t.cache.Flush()
}
