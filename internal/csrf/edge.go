package csrf

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/hubguard/internal/metrics"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	tokens "github.com/dropDatabas3/hubguard/internal/security/token"
)

// Motivos de rechazo del EdgeValidator.
const (
	ReasonNoCookie       = "missing_cookie"
	ReasonMalformed      = "malformed_cookie"
	ReasonExpired        = "expired"
	ReasonOriginMismatch = "origin_mismatch"
	ReasonNoToken        = "missing_request"
	ReasonMismatch       = "mismatch"
)

// EdgeResult es el resultado de EdgeValidator.Validate.
type EdgeResult struct {
	Valid  bool
	Reason string
}

// EdgeValidator hace el mismo double-submit sin pasar por el Store: parsea el
// header Cookie a mano y exige que Origin (o Referer si falta) coincida con Host
// o esté en AllowedOrigins. Pensado para el middleware global, antes de llegar a
// los handlers.
type EdgeValidator struct {
	CookieName string
	MaxBody    int64
	Now        func() time.Time
	// AllowedOrigins ("https://app.example.com") se aceptan además del mismo host.
	AllowedOrigins []string
}

func NewEdgeValidator(cookieName string) *EdgeValidator {
	if cookieName == "" {
		cookieName = CookieName
	}
	return &EdgeValidator{CookieName: cookieName, MaxBody: DefaultMaxBody, Now: time.Now}
}

// Validate aplica el check. Métodos seguros y Bearer pasan.
func (e *EdgeValidator) Validate(r *http.Request) EdgeResult {
	if IsSafeMethod(r.Method) || hasBearer(r) {
		return EdgeResult{Valid: true}
	}
	res := e.check(r)

	log := logger.From(r.Context()).With(
		logger.Security(),
		logger.Component("csrf"),
		logger.Layer("edge"),
		logger.Method(r.Method),
		logger.Path(r.URL.Path),
	)
	if res.Valid {
		metrics.RecordCSRF("valid")
		log.Debug("edge csrf validation ok")
	} else {
		metrics.RecordCSRF(res.Reason)
		log.Warn("edge csrf validation failed", logger.Reason(res.Reason))
	}
	return res
}

func (e *EdgeValidator) check(r *http.Request) EdgeResult {
	raw, ok := rawCookie(r.Header.Values("Cookie"), e.CookieName)
	if !ok || raw == "" {
		return EdgeResult{Reason: ReasonNoCookie}
	}
	rec, err := decodeRecord(raw)
	if err != nil {
		return EdgeResult{Reason: ReasonMalformed}
	}
	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	if rec.Expired(now()) {
		return EdgeResult{Reason: ReasonExpired}
	}
	if !sameOrigin(r, e.AllowedOrigins) {
		return EdgeResult{Reason: ReasonOriginMismatch}
	}

	max := e.MaxBody
	if max <= 0 {
		max = DefaultMaxBody
	}
	cands := candidates(r, max)
	if len(cands) == 0 {
		return EdgeResult{Reason: ReasonNoToken}
	}
	matched := false
	for _, c := range cands {
		// sin corto circuito: todas las comparaciones corren
		if tokens.Equal(rec.Token, c) {
			matched = true
		}
	}
	if !matched {
		return EdgeResult{Reason: ReasonMismatch}
	}
	return EdgeResult{Valid: true}
}

// rawCookie busca name en los headers Cookie ("a=1; b=2").
func rawCookie(headers []string, name string) (string, bool) {
	for _, h := range headers {
		for _, part := range strings.Split(h, ";") {
			k, v, found := strings.Cut(strings.TrimSpace(part), "=")
			if !found || strings.TrimSpace(k) != name {
				continue
			}
			v = strings.TrimSpace(v)
			if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
				v = v[1 : len(v)-1]
			}
			return v, true
		}
	}
	return "", false
}

// sameOrigin compara el host de Origin (o Referer) con Host; un origin de la
// allow-list (scheme://host, match exacto) también pasa.
func sameOrigin(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == "null" {
		origin = r.Header.Get("Referer")
	}
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" {
		return false
	}
	for _, a := range allowed {
		if strings.TrimRight(a, "/") == u.Scheme+"://"+u.Host {
			return true
		}
	}
	host := r.Host
	if host == "" && r.URL != nil {
		host = r.URL.Host
	}
	return strings.EqualFold(u.Host, host)
}
