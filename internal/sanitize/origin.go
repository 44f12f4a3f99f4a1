package sanitize

import (
	"net/http"
	"net/url"
	"strings"
)

// ValidateOrigin verifica el header Origin del request.
// Con allowed no vacío el origin debe estar en la lista (match exacto);
// si no, el host del origin debe ser igual al Host del request.
func ValidateOrigin(r *http.Request, allowed []string) Result {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	if origin == "" {
		return fail("Origin header required")
	}

	if len(allowed) > 0 {
		for _, a := range allowed {
			if origin == a {
				return ok()
			}
		}
		return fail("Origin not allowed")
	}

	host := RequestHost(r)
	if host == "" {
		return fail("Host header missing")
	}

	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return fail("Invalid origin URL")
	}
	if u.Host != host {
		return fail("Origin does not match host")
	}
	return ok()
}

// RequestHost devuelve el Host del request. net/http lo saca de r.Header y lo
// deja en r.Host; los requests armados a mano pueden traerlo en el header.
func RequestHost(r *http.Request) string {
	if h := strings.TrimSpace(r.Host); h != "" {
		return h
	}
	return strings.TrimSpace(r.Header.Get("Host"))
}
