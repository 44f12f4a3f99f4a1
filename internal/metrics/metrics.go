package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Métricas del servicio. Viven en un paquete propio para que csrf, rate y los
// middlewares HTTP puedan registrar sin ciclos de imports.

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Número total de requests procesadas",
	}, []string{"method", "path", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Latencia de los requests HTTP",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path"})

	HTTPInflight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "http_inflight_requests",
		Help: "Requests en vuelo por método y ruta",
	}, []string{"method", "path"})

	CSRFValidationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "csrf_validations_total",
		Help: "Validaciones CSRF por resultado",
	}, []string{"result"}) // result: valid|skipped|bearer|missing_stored|missing_request|mismatch|origin|expired

	RateLimitDecisionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "rate_limit_decisions_total",
		Help: "Decisiones de rate limiting por backend y resultado",
	}, []string{"backend", "result"}) // result: allowed|denied|error

	RateLimitCheckLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "rate_limit_check_duration_seconds",
		Help:    "Latencia de Limiter.Check",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 8),
	}, []string{"backend"})
)

func collectors() []prometheus.Collector {
	return []prometheus.Collector{
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInflight,
		CSRFValidationsTotal,
		RateLimitDecisionsTotal,
		RateLimitCheckLatency,
	}
}

// Register registra todas las métricas en reg (o el default si es nil).
// Registrar dos veces no es error.
func Register(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range collectors() {
		if err := reg.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return err
		}
	}
	return nil
}

// RecordCSRF cuenta una validación CSRF.
func RecordCSRF(result string) {
	CSRFValidationsTotal.WithLabelValues(result).Inc()
}

// RecordRateLimit cuenta una decisión del limiter.
func RecordRateLimit(backend, result string, d time.Duration) {
	RateLimitDecisionsTotal.WithLabelValues(backend, result).Inc()
	RateLimitCheckLatency.WithLabelValues(backend).Observe(d.Seconds())
}
