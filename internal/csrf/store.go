package csrf

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	tokens "github.com/dropDatabas3/hubguard/internal/security/token"
)

const (
	CookieName = "csrf_token"
	HeaderName = "x-csrf-token"
	FieldName  = "_csrf"

	DefaultTTL = 24 * time.Hour
)

var errMalformed = errors.New("csrf: malformed cookie record")

// Record es lo que se persiste en la cookie.
type Record struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expiresAt"` // epoch ms
}

// Expired reporta si now > expiresAt.
func (r Record) Expired(now time.Time) bool {
	return now.UnixMilli() > r.ExpiresAt
}

// ExpiresTime devuelve ExpiresAt como time.Time.
func (r Record) ExpiresTime() time.Time {
	return time.UnixMilli(r.ExpiresAt)
}

// GenerateToken devuelve 32 bytes aleatorios en hex (64 chars).
func GenerateToken() (string, error) {
	return tokens.GenerateHex(tokens.CSRFTokenBytes)
}

// encodeRecord serializa el record como JSON url-encoded.
// net/http no acepta '"' ni ',' en valores de cookie.
func encodeRecord(rec Record) (string, error) {
	b, err := json.Marshal(rec)
	if err != nil {
		return "", err
	}
	return url.QueryEscape(string(b)), nil
}

// decodeRecord acepta el valor url-encoded y también JSON crudo.
func decodeRecord(value string) (Record, error) {
	value = strings.TrimSpace(value)
	if !strings.HasPrefix(value, "{") {
		unescaped, err := url.QueryUnescape(value)
		if err != nil {
			return Record{}, errMalformed
		}
		value = unescaped
	}
	var rec Record
	if err := json.Unmarshal([]byte(value), &rec); err != nil {
		return Record{}, errMalformed
	}
	if rec.Token == "" || rec.ExpiresAt <= 0 {
		return Record{}, errMalformed
	}
	return rec, nil
}

// LookupStatus distingue por qué no hay token utilizable.
type LookupStatus int

const (
	Absent LookupStatus = iota
	Found
	Malformed
	Expired
)

func (s LookupStatus) String() string {
	switch s {
	case Found:
		return "found"
	case Malformed:
		return "malformed"
	case Expired:
		return "expired"
	default:
		return "absent"
	}
}

// Lookup es el resultado de Store.Lookup. Record sólo es válido si Status == Found
// (o Expired, para diagnóstico).
type Lookup struct {
	Status LookupStatus
	Record Record
}

// StoreConfig configura el Store.
type StoreConfig struct {
	CookieName string        // Default: "csrf_token"
	TTL        time.Duration // Default: 24h
	Secure     bool          // true en entornos prod-like
	Now        func() time.Time
}

// Store crea y lee el token CSRF de la cookie. Un token por cliente:
// Create sobrescribe el anterior.
type Store struct {
	cookieName string
	ttl        time.Duration
	secure     bool
	now        func() time.Time
}

func NewStore(cfg StoreConfig) *Store {
	if cfg.CookieName == "" {
		cfg.CookieName = CookieName
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Store{cookieName: cfg.CookieName, ttl: cfg.TTL, secure: cfg.Secure, now: cfg.Now}
}

// CookieName devuelve el nombre de la cookie usada por el store.
func (s *Store) CookieName() string { return s.cookieName }

// Create genera un token, lo persiste en la cookie y devuelve el token crudo.
func (s *Store) Create(ctx context.Context, jar CookieJar) (string, error) {
	log := logger.From(ctx).With(logger.Security(), logger.Component("csrf"), logger.Op("Create"))

	tok, err := GenerateToken()
	if err != nil {
		log.Error("csrf token generation failed", logger.Err(err))
		return "", err
	}
	rec := Record{Token: tok, ExpiresAt: s.now().Add(s.ttl).UnixMilli()}
	value, err := encodeRecord(rec)
	if err != nil {
		return "", err
	}

	jar.SetCookie(&http.Cookie{
		Name:     s.cookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   int(s.ttl / time.Second),
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteStrictMode,
	})

	log.Debug("csrf token created", logger.TokenHash(tokens.Fingerprint(tok)))
	return tok, nil
}

// Lookup lee la cookie y clasifica el resultado. Nunca falla.
func (s *Store) Lookup(ctx context.Context, jar CookieJar) Lookup {
	log := logger.From(ctx).With(logger.Security(), logger.Component("csrf"), logger.Op("Lookup"))

	c, ok := jar.Cookie(s.cookieName)
	if !ok || strings.TrimSpace(c.Value) == "" {
		log.Debug("csrf cookie absent")
		return Lookup{Status: Absent}
	}
	rec, err := decodeRecord(c.Value)
	if err != nil {
		log.Warn("csrf cookie malformed", logger.Err(err))
		return Lookup{Status: Malformed}
	}
	if rec.Expired(s.now()) {
		log.Debug("csrf token expired", logger.TokenHash(tokens.Fingerprint(rec.Token)))
		return Lookup{Status: Expired, Record: rec}
	}
	return Lookup{Status: Found, Record: rec}
}

// Stored devuelve el record vigente o (nil, false) si está ausente,
// malformado o vencido.
func (s *Store) Stored(ctx context.Context, jar CookieJar) (*Record, bool) {
	l := s.Lookup(ctx, jar)
	if l.Status != Found {
		return nil, false
	}
	rec := l.Record
	return &rec, true
}
