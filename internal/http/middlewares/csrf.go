package middlewares

import (
	"net/http"
	"strings"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	"github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
)

// WithCSRF aplica el double-submit check del Validator (cookie vía Store).
// GET/HEAD/OPTIONS y Authorization: Bearer pasan sin token.
func WithCSRF(v *csrf.Validator) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !v.Enforce(w, r) {
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithEdgeCSRF aplica el EdgeValidator a los paths con alguno de los prefijos.
// Sin prefijos aplica a todo.
func WithEdgeCSRF(e *csrf.EdgeValidator, prefixes ...string) Middleware {
	applies := func(path string) bool {
		if len(prefixes) == 0 {
			return true
		}
		for _, p := range prefixes {
			if strings.HasPrefix(path, p) {
				return true
			}
		}
		return false
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if applies(r.URL.Path) && !e.Validate(r).Valid {
				csrf.Reject(w)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithOrigin rechaza con 403 requests mutantes cuyo Origin no coincide con Host
// o no está en allowed.
func WithOrigin(allowed []string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if csrf.IsSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}
			if res := sanitize.ValidateOrigin(r, allowed); !res.Valid {
				errors.WriteError(w, errors.ErrInvalidOrigin.WithDetail(res.Error))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
