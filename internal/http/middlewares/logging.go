package middlewares

import (
	"net/http"
	"time"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/rate"
)

// responseWriter registra status y bytes. El primer WriteHeader gana.
type responseWriter struct {
	http.ResponseWriter
	code    int
	written int
	sent    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.sent {
		return
	}
	rw.code, rw.sent = code, true
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.sent {
		rw.code, rw.sent = http.StatusOK, true
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// Unwrap habilita http.ResponseController sobre el writer original.
func (rw *responseWriter) Unwrap() http.ResponseWriter { return rw.ResponseWriter }

// guardReason identifica rechazos de los guards a partir de la respuesta.
func guardReason(rw *responseWriter) string {
	switch {
	case rw.code == http.StatusTooManyRequests:
		return "rate_limited"
	case rw.code == http.StatusForbidden && rw.Header().Get(csrf.ErrorHeader) != "":
		return "csrf"
	}
	return ""
}

// WithLogging deja en el contexto un logger con request_id/method/path y
// loguea el resultado. Los rechazos de CSRF y rate limit salen como type=security.
func WithLogging() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			began := time.Now()

			id := w.Header().Get(RequestIDHeader)
			if id == "" {
				id = GetRequestID(r.Context())
			}
			reqLog := logger.L().With(
				logger.RequestID(id),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
			)
			rw := &responseWriter{ResponseWriter: w, code: http.StatusOK}

			next.ServeHTTP(rw, r.WithContext(logger.ToContext(r.Context(), reqLog)))

			fields := []logger.Field{
				logger.Status(rw.code),
				logger.Bytes(rw.written),
				logger.DurationMs(time.Since(began).Milliseconds()),
				logger.ClientIP(rate.ClientIP(r)),
			}
			if reason := guardReason(rw); reason != "" {
				reqLog.Warn("request rejected", append(fields, logger.Security(), logger.Reason(reason))...)
				return
			}
			switch {
			case rw.code >= 500:
				reqLog.Error("request failed", fields...)
			case rw.code >= 400:
				reqLog.Warn("client error", fields...)
			default:
				reqLog.Info("request", fields...)
			}
		})
	}
}
