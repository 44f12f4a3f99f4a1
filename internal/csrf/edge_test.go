package csrf

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func edgeRequest(method, target string, body io.Reader, c *http.Cookie) *http.Request {
	r := newRequest(method, target, body, c)
	r.Host = "hub.example.com"
	r.Header.Set("Origin", "https://hub.example.com")
	return r
}

func TestEdgeValidator(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(StoreConfig{Now: clk.Now})
	tok, c := issue(t, s)
	e := NewEdgeValidator("")
	e.Now = clk.Now

	t.Run("valid header", func(t *testing.T) {
		r := edgeRequest(http.MethodPost, "/api/submissions", nil, c)
		r.Header.Set(HeaderName, tok)
		assert.Equal(t, EdgeResult{Valid: true}, e.Validate(r))
	})

	t.Run("valid query", func(t *testing.T) {
		r := edgeRequest(http.MethodPut, "/api/profile/username?_csrf="+tok, nil, c)
		assert.True(t, e.Validate(r).Valid)
	})

	t.Run("valid form, body preserved", func(t *testing.T) {
		body := url.Values{FieldName: {tok}, "name": {"n"}}.Encode()
		r := edgeRequest(http.MethodPost, "/api/submissions", strings.NewReader(body), c)
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		assert.True(t, e.Validate(r).Valid)

		rest, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, body, string(rest))
	})

	t.Run("referer fallback", func(t *testing.T) {
		r := edgeRequest(http.MethodPost, "/", nil, c)
		r.Header.Del("Origin")
		r.Header.Set("Referer", "https://hub.example.com/submit")
		r.Header.Set(HeaderName, tok)
		assert.True(t, e.Validate(r).Valid)
	})

	t.Run("raw json cookie", func(t *testing.T) {
		r := edgeRequest(http.MethodPost, "/", nil, nil)
		r.Header.Set("Cookie", CookieName+`={"token":"abc","expiresAt":99999999999999}`)
		r.Header.Set(HeaderName, "abc")
		assert.True(t, e.Validate(r).Valid)
	})

	t.Run("safe method", func(t *testing.T) {
		assert.True(t, e.Validate(newRequest(http.MethodGet, "/", nil, nil)).Valid)
	})

	rejects := []struct {
		name   string
		build  func() *http.Request
		reason string
	}{
		{"no cookie", func() *http.Request {
			r := edgeRequest(http.MethodPost, "/", nil, nil)
			r.Header.Set(HeaderName, tok)
			return r
		}, ReasonNoCookie},
		{"malformed cookie", func() *http.Request {
			r := edgeRequest(http.MethodPost, "/", nil, nil)
			r.Header.Set("Cookie", "other=1; "+CookieName+"=%7Bbroken")
			r.Header.Set(HeaderName, tok)
			return r
		}, ReasonMalformed},
		{"cross origin", func() *http.Request {
			r := edgeRequest(http.MethodPost, "/", nil, c)
			r.Header.Set("Origin", "https://evil.example.net")
			r.Header.Set(HeaderName, tok)
			return r
		}, ReasonOriginMismatch},
		{"no origin", func() *http.Request {
			r := edgeRequest(http.MethodPost, "/", nil, c)
			r.Header.Del("Origin")
			r.Header.Set(HeaderName, tok)
			return r
		}, ReasonOriginMismatch},
		{"no request token", func() *http.Request {
			return edgeRequest(http.MethodPost, "/", nil, c)
		}, ReasonNoToken},
		{"mismatch", func() *http.Request {
			r := edgeRequest(http.MethodPost, "/", nil, c)
			r.Header.Set(HeaderName, flip(tok))
			return r
		}, ReasonMismatch},
	}
	for _, tc := range rejects {
		t.Run(tc.name, func(t *testing.T) {
			res := e.Validate(tc.build())
			assert.False(t, res.Valid)
			assert.Equal(t, tc.reason, res.Reason)
		})
	}

	t.Run("expired", func(t *testing.T) {
		defer clk.Set(clk.Now())
		clk.Set(clk.Now().Add(DefaultTTL + time.Second))
		r := edgeRequest(http.MethodPost, "/", nil, c)
		r.Header.Set(HeaderName, tok)
		assert.Equal(t, ReasonExpired, e.Validate(r).Reason)
	})
}

func TestEdgeValidator_AllowedOrigins(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(StoreConfig{Now: clk.Now})
	tok, c := issue(t, s)
	e := NewEdgeValidator("")
	e.Now = clk.Now
	e.AllowedOrigins = []string{"https://app.example.com/"}

	cases := []struct {
		name   string
		header string
		value  string
		valid  bool
	}{
		{"allowed origin", "Origin", "https://app.example.com", true},
		{"allowed referer", "Referer", "https://app.example.com/form", true},
		{"same host still ok", "Origin", "https://hub.example.com", true},
		{"scheme must match", "Origin", "http://app.example.com", false},
		{"other origin", "Origin", "https://evil.example.net", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := edgeRequest(http.MethodPost, "/api/submissions", nil, c)
			r.Header.Del("Origin")
			r.Header.Set(tc.header, tc.value)
			r.Header.Set(HeaderName, tok)
			res := e.Validate(r)
			assert.Equal(t, tc.valid, res.Valid, res.Reason)
		})
	}
}

func TestRawCookie(t *testing.T) {
	v, ok := rawCookie([]string{"a=1; csrf_token=\"xyz\"", "b=2"}, "csrf_token")
	assert.True(t, ok)
	assert.Equal(t, "xyz", v)

	_, ok = rawCookie([]string{"a=1", "csrf_tokenx=2"}, "csrf_token")
	assert.False(t, ok)
}

func TestMetaTag(t *testing.T) {
	assert.Equal(t, `<meta name="csrf-token" content="abc123">`, MetaTag("abc123"))
	assert.Equal(t, `<meta name="csrf-token" content="&quot;&gt;&lt;x">`, MetaTag(`"><x`))
}
