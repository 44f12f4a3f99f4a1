package csrf

import (
	"net/http"
	"sync"
)

// CookieJar abstrae lectura y escritura de cookies del request en curso.
type CookieJar interface {
	Cookie(name string) (*http.Cookie, bool)
	SetCookie(c *http.Cookie)
}

type httpJar struct {
	w http.ResponseWriter
	r *http.Request

	mu  sync.Mutex
	set map[string]*http.Cookie
}

// HTTPJar adapta net/http. Las cookies seteadas con SetCookie se escriben en w
// y quedan visibles para lecturas posteriores sobre el mismo jar.
// w puede ser nil (sólo lectura).
func HTTPJar(w http.ResponseWriter, r *http.Request) CookieJar {
	return &httpJar{w: w, r: r, set: map[string]*http.Cookie{}}
}

func (j *httpJar) Cookie(name string) (*http.Cookie, bool) {
	j.mu.Lock()
	c, ok := j.set[name]
	j.mu.Unlock()
	if ok {
		if c.MaxAge < 0 {
			return nil, false
		}
		return c, true
	}
	if j.r == nil {
		return nil, false
	}
	c, err := j.r.Cookie(name)
	if err != nil {
		return nil, false
	}
	return c, true
}

func (j *httpJar) SetCookie(c *http.Cookie) {
	if c == nil {
		return
	}
	j.mu.Lock()
	j.set[c.Name] = c
	j.mu.Unlock()
	if j.w != nil {
		http.SetCookie(j.w, c)
	}
}
