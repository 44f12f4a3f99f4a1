// Package rate implementa rate limiting de ventana fija por identificador.
//
// La primera request de un identificador abre la ventana (resetTime = now + window).
// Mientras la ventana esté viva se cuentan requests hasta MaxRequests; las que
// exceden se rechazan sin incrementar. Cuando now > resetTime la próxima request
// abre una ventana nueva. No es sliding window: ráfagas en el borde son aceptadas.
//
// Backends: MemoryLimiter (LRU acotado), TTLLimiter (go-cache) y RedisLimiter
// (compartido entre instancias).
package rate

import (
	"context"
	"errors"
	"time"
)

const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 10
)

// ErrInvalidIdentifier es un error de programación: el caller debe derivar
// siempre una clave (ver KeyFromRequest).
var ErrInvalidIdentifier = errors.New("rate: identifier must be a non-empty string")

// Config define la ventana y el máximo de requests por ventana.
// Valores no positivos se reemplazan por los defaults.
type Config struct {
	Window      time.Duration
	MaxRequests int
}

// Normalize aplica defaults a valores inválidos.
func (c Config) Normalize() Config {
	if c.Window <= 0 {
		c.Window = DefaultWindow
	}
	// ventanas sub-milisegundo no tienen sentido para un limiter en ms
	if c.Window < time.Millisecond {
		c.Window = time.Millisecond
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = DefaultMaxRequests
	}
	return c
}

// Decision es el resultado de Check.
type Decision struct {
	Allowed   bool
	ResetTime time.Time
	Count     int
	Remaining int
}

// ResetUnixMilli devuelve ResetTime en epoch ms (formato expuesto al cliente).
func (d Decision) ResetUnixMilli() int64 {
	return d.ResetTime.UnixMilli()
}

// RetryAfter devuelve cuánto falta para que la ventana se reinicie.
func (d Decision) RetryAfter(now time.Time) time.Duration {
	if left := d.ResetTime.Sub(now); left > 0 {
		return left
	}
	return 0
}

// Limiter es la capacidad de rate limiting que consumen middlewares y handlers.
type Limiter interface {
	Check(ctx context.Context, identifier string, cfg Config) (Decision, error)
}

// record es el estado de una ventana para un identificador.
type record struct {
	count     int
	resetTime time.Time
}

// step aplica una request sobre rec (nil si no existe) y devuelve el registro
// a guardar junto con la decisión. Un rechazo no muta el registro.
func step(rec *record, now time.Time, cfg Config) (*record, Decision) {
	if rec == nil || now.After(rec.resetTime) {
		rec = &record{count: 1, resetTime: now.Add(cfg.Window)}
		return rec, decision(true, rec, cfg)
	}
	if rec.count < cfg.MaxRequests {
		rec.count++
		return rec, decision(true, rec, cfg)
	}
	return rec, decision(false, rec, cfg)
}

func decision(allowed bool, rec *record, cfg Config) Decision {
	remaining := cfg.MaxRequests - rec.count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   allowed,
		ResetTime: rec.resetTime,
		Count:     rec.count,
		Remaining: remaining,
	}
}

func validIdentifier(id string) error {
	if id == "" {
		return ErrInvalidIdentifier
	}
	return nil
}

// Option configura un backend.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func buildOptions(opts []Option) options {
	o := options{now: time.Now}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}
