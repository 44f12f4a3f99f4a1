package csrf

import (
	"context"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateToken_UniqueHex(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		tok, err := GenerateToken()
		require.NoError(t, err)
		require.Len(t, tok, 64)
		_, err = hex.DecodeString(tok)
		require.NoError(t, err)
		require.False(t, seen[tok], "duplicate token")
		seen[tok] = true
	}
}

func TestStore_CreateSetsCookie(t *testing.T) {
	for _, secure := range []bool{false, true} {
		s := NewStore(StoreConfig{Secure: secure})
		tok, c := issue(t, s)

		assert.Equal(t, CookieName, c.Name)
		assert.Equal(t, "/", c.Path)
		assert.Equal(t, 86400, c.MaxAge)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, c.SameSite)
		assert.Equal(t, secure, c.Secure)

		raw, err := url.QueryUnescape(c.Value)
		require.NoError(t, err)
		assert.Contains(t, raw, `"token":"`+tok+`"`)
		assert.Contains(t, raw, `"expiresAt":`)
	}
}

func TestStore_ExpiryBoundary(t *testing.T) {
	clk := newFakeClock()
	s := NewStore(StoreConfig{Now: clk.Now})
	created := clk.Now()
	tok, c := issue(t, s)

	lookupAt := func(at time.Time) (*Record, bool) {
		clk.Set(at)
		return s.Stored(context.Background(), HTTPJar(nil, newRequest(http.MethodGet, "/", nil, c)))
	}

	rec, ok := lookupAt(created.Add(time.Millisecond))
	require.True(t, ok)
	assert.Equal(t, tok, rec.Token)
	assert.Equal(t, created.Add(DefaultTTL).UnixMilli(), rec.ExpiresAt)

	// now == expiresAt todavía es válido
	_, ok = lookupAt(created.Add(DefaultTTL))
	assert.True(t, ok)

	_, ok = lookupAt(created.Add(DefaultTTL + time.Millisecond))
	assert.False(t, ok)

	clk.Set(created.Add(DefaultTTL + time.Millisecond))
	l := s.Lookup(context.Background(), HTTPJar(nil, newRequest(http.MethodGet, "/", nil, c)))
	assert.Equal(t, Expired, l.Status)
}

func TestStore_LookupStatuses(t *testing.T) {
	s := NewStore(StoreConfig{})
	cases := []struct {
		name  string
		value string
		want  LookupStatus
	}{
		{"garbage", "not-json", Malformed},
		{"escaped non json", url.QueryEscape("{token"), Malformed},
		{"missing token", url.QueryEscape(`{"expiresAt":99999999999999}`), Malformed},
		{"expired", url.QueryEscape(`{"token":"abc","expiresAt":1}`), Expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Cookie", CookieName+"="+tc.value)
			assert.Equal(t, tc.want, s.Lookup(context.Background(), HTTPJar(nil, r)).Status)
		})
	}

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Absent, s.Lookup(context.Background(), HTTPJar(nil, r)).Status)

	rec, ok := s.Stored(context.Background(), HTTPJar(nil, r))
	assert.Nil(t, rec)
	assert.False(t, ok)
}

func TestStore_CreateOverwritesAndIsVisible(t *testing.T) {
	s := NewStore(StoreConfig{})
	_, old := issue(t, s)

	w := httptest.NewRecorder()
	jar := HTTPJar(w, newRequest(http.MethodGet, "/", nil, old))
	tok, err := s.Create(context.Background(), jar)
	require.NoError(t, err)

	rec, ok := s.Stored(context.Background(), jar)
	require.True(t, ok)
	assert.Equal(t, tok, rec.Token)
}

func TestLookupStatus_String(t *testing.T) {
	assert.Equal(t, "absent", Absent.String())
	assert.Equal(t, "found", Found.String())
	assert.Equal(t, "malformed", Malformed.String())
	assert.Equal(t, "expired", Expired.String())
}
