package rate

import (
	"context"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

// DefaultCapacity es la cantidad máxima de identificadores en memoria.
const DefaultCapacity = 10000

// MemoryLimiter guarda ventanas en un LRU acotado. Bajo presión se desaloja el
// identificador menos usado, lo que reinicia su ventana; es el precio de no
// crecer sin límite. Check+incremento corren bajo un mutex.
type MemoryLimiter struct {
	mu    sync.Mutex
	cache *lru.Cache
	opts  options
}

// NewMemoryLimiter crea un limiter en memoria con capacidad acotada.
func NewMemoryLimiter(capacity int, opts ...Option) (*MemoryLimiter, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c, err := lru.New(capacity)
	if err != nil {
		return nil, fmt.Errorf("rate: lru: %w", err)
	}
	return &MemoryLimiter{cache: c, opts: buildOptions(opts)}, nil
}

// Check implementa Limiter.
func (m *MemoryLimiter) Check(_ context.Context, identifier string, cfg Config) (Decision, error) {
	if err := validIdentifier(identifier); err != nil {
		return Decision{}, err
	}
	cfg = cfg.Normalize()
	now := m.opts.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	var rec *record
	if v, ok := m.cache.Get(identifier); ok {
		rec = v.(*record)
	}
	next, d := step(rec, now, cfg)
	if next != rec {
		m.cache.Add(identifier, next)
	}
	return d, nil
}

// Prune elimina ventanas vencidas. Devuelve cuántas se borraron.
func (m *MemoryLimiter) Prune() int {
	now := m.opts.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for _, k := range m.cache.Keys() {
		v, ok := m.cache.Peek(k)
		if !ok {
			continue
		}
		if now.After(v.(*record).resetTime) {
			m.cache.Remove(k)
			removed++
		}
	}
	return removed
}

// Len devuelve la cantidad de identificadores rastreados.
func (m *MemoryLimiter) Len() int {
	return m.cache.Len()
}
