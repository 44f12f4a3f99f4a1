package middlewares

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/rate"
)

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// RateLimitConfig configura el middleware de rate limiting.
type RateLimitConfig struct {
	Limiter   rate.Limiter
	Config    rate.Config
	Prefix    string      // prefijo de la clave (ver rate.KeyFromRequest)
	KeyFunc   RateKeyFunc // si es nil: rate.KeyFromRequest(r, Prefix)
	Whitelist []string    // paths excluidos (ej: /healthz)
	// FailClosed rechaza con 503 si el limiter falla. Por defecto se deja pasar.
	FailClosed bool
	Now        func() time.Time
}

// WithRateLimit aplica el limiter antes que cualquier otro guard.
// Rechazos: 429 {"error","code","resetTime"} + Retry-After y X-RateLimit-*.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		prefix := cfg.Prefix
		cfg.KeyFunc = func(r *http.Request) string { return rate.KeyFromRequest(r, prefix) }
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	limitCfg := cfg.Config.Normalize()

	whitelist := make(map[string]struct{}, len(cfg.Whitelist))
	for _, p := range cfg.Whitelist {
		whitelist[p] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := whitelist[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			d, err := cfg.Limiter.Check(r.Context(), cfg.KeyFunc(r), limitCfg)
			if err != nil {
				logger.From(r.Context()).Warn("rate limiter unavailable",
					logger.Component("rate-limit"), logger.Err(err))
				if cfg.FailClosed {
					errors.WriteError(w, errors.ErrServiceUnavailable)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(limitCfg.MaxRequests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.Unix(), 10))

			if !d.Allowed {
				secs := int(math.Ceil(d.RetryAfter(cfg.Now()).Seconds()))
				if secs < 1 {
					secs = 1
				}
				h.Set("Retry-After", strconv.Itoa(secs))
				errors.WriteError(w, errors.ErrRateLimitExceeded.WithResetTime(d.ResetTime))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
