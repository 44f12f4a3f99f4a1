package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dropDatabas3/hubguard/internal/metrics"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	rdb "github.com/redis/go-redis/v9"
)

const (
	BackendLRU   = "lru"
	BackendTTL   = "ttl"
	BackendRedis = "redis"
)

// Options selecciona y configura el backend de New.
type Options struct {
	Backend         string // lru (default) | ttl | redis
	Capacity        int    // lru
	CleanupInterval time.Duration
	Redis           rdb.Scripter // requerido si Backend == redis
	RedisPrefix     string
}

// New construye el limiter según Options, instrumentado con logs y métricas.
func New(o Options, opts ...Option) (Limiter, error) {
	backend := strings.ToLower(strings.TrimSpace(o.Backend))
	if backend == "" {
		backend = BackendLRU
	}

	var l Limiter
	switch backend {
	case BackendLRU:
		m, err := NewMemoryLimiter(o.Capacity, opts...)
		if err != nil {
			return nil, err
		}
		l = m
	case BackendTTL:
		l = NewTTLLimiter(o.CleanupInterval, opts...)
	case BackendRedis:
		if o.Redis == nil {
			return nil, fmt.Errorf("rate: backend redis requires a client")
		}
		l = NewRedisLimiter(o.Redis, o.RedisPrefix, opts...)
	default:
		return nil, fmt.Errorf("rate: unknown backend %q", o.Backend)
	}
	return Instrument(l, backend), nil
}

// Instrumented agrega logs de seguridad y métricas a un Limiter.
type Instrumented struct {
	Limiter
	backend string
}

func Instrument(l Limiter, backend string) *Instrumented {
	return &Instrumented{Limiter: l, backend: backend}
}

// Backend devuelve el nombre del backend envuelto.
func (i *Instrumented) Backend() string { return i.backend }

// Check implementa Limiter.
func (i *Instrumented) Check(ctx context.Context, identifier string, cfg Config) (Decision, error) {
	start := time.Now()
	d, err := i.Limiter.Check(ctx, identifier, cfg)

	log := logger.From(ctx).With(
		logger.Security(),
		logger.Component("rate-limit"),
		logger.Backend(i.backend),
		logger.Identifier(identifier),
	)
	switch {
	case err != nil:
		metrics.RecordRateLimit(i.backend, "error", time.Since(start))
		log.Error("rate limit check failed", logger.Err(err))
	case !d.Allowed:
		metrics.RecordRateLimit(i.backend, "denied", time.Since(start))
		log.Warn("rate limit exceeded",
			logger.Int("count", d.Count),
			logger.Any("reset_time", d.ResetTime),
		)
	default:
		metrics.RecordRateLimit(i.backend, "allowed", time.Since(start))
		log.Debug("rate limit ok", logger.Int("remaining", d.Remaining))
	}
	return d, err
}

// Pruner lo implementan backends con limpieza manual.
type Pruner interface {
	Prune() int
}

// Janitor corre Prune cada interval hasta que ctx se cancele.
// Para backends sin Pruner retorna inmediatamente.
func Janitor(ctx context.Context, l Limiter, interval time.Duration) error {
	if i, ok := l.(*Instrumented); ok {
		l = i.Limiter
	}
	p, ok := l.(Pruner)
	if !ok {
		return nil
	}
	if interval <= 0 {
		interval = time.Minute
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := p.Prune(); n > 0 {
				logger.From(ctx).Debug("rate limit windows pruned",
					logger.Component("rate-limit"), logger.Int("removed", n))
			}
		}
	}
}
