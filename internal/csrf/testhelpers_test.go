package csrf

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// issue crea un token y devuelve el token crudo y la cookie emitida.
func issue(t *testing.T, s *Store) (string, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	tok, err := s.Create(context.Background(), HTTPJar(rec, httptest.NewRequest(http.MethodGet, "/", nil)))
	require.NoError(t, err)

	for _, c := range rec.Result().Cookies() {
		if c.Name == s.CookieName() {
			return tok, c
		}
	}
	t.Fatal("csrf cookie not set")
	return "", nil
}

func newRequest(method, target string, body io.Reader, cookie *http.Cookie) *http.Request {
	r := httptest.NewRequest(method, target, body)
	if cookie != nil {
		r.AddCookie(&http.Cookie{Name: cookie.Name, Value: cookie.Value})
	}
	return r
}
