package rate

import (
	"net/http"
	"strings"
)

// DefaultKeyPrefix se usa cuando KeyFromRequest recibe prefix vacío.
const DefaultKeyPrefix = "ratelimit"

// ClientIP devuelve la IP del cliente según proxies: primer valor de
// X-Forwarded-For, luego X-Real-IP, si no "unknown".
// RemoteAddr no se usa: detrás del proxy siempre es el proxy.
func ClientIP(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		if ip := strings.TrimSpace(strings.Split(xf, ",")[0]); ip != "" {
			return ip
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	return "unknown"
}

// KeyFromRequest arma la clave "prefix:ip".
func KeyFromRequest(r *http.Request, prefix string) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return prefix + ":" + ClientIP(r)
}
