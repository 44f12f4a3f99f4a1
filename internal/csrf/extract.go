package csrf

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
)

// DefaultMaxBody limita cuánto body se bufferea para buscar el campo _csrf.
const DefaultMaxBody int64 = 1 << 20

type readCloser struct {
	io.Reader
	io.Closer
}

// peekBody lee hasta max bytes y repone r.Body intacto (lo leído + el resto).
// truncated indica que el body excede max.
func peekBody(r *http.Request, max int64) (buf []byte, truncated bool) {
	if r.Body == nil || r.Body == http.NoBody {
		return nil, false
	}
	buf, _ = io.ReadAll(io.LimitReader(r.Body, max+1))
	r.Body = readCloser{Reader: io.MultiReader(bytes.NewReader(buf), r.Body), Closer: r.Body}
	if int64(len(buf)) > max {
		return buf[:max], true
	}
	return buf, false
}

// formValues devuelve los valores de field en un body form-urlencoded o
// multipart, sin consumir r.Body.
func formValues(r *http.Request, field string, max int64) []string {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return nil
	}
	mediaType, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return nil
	}
	switch mediaType {
	case "application/x-www-form-urlencoded":
		buf, truncated := peekBody(r, max)
		if truncated {
			return nil
		}
		vals, err := url.ParseQuery(string(buf))
		if err != nil {
			return nil
		}
		return vals[field]
	case "multipart/form-data":
		boundary := params["boundary"]
		if boundary == "" {
			return nil
		}
		buf, truncated := peekBody(r, max)
		if truncated {
			return nil
		}
		form, err := multipart.NewReader(bytes.NewReader(buf), boundary).ReadForm(max)
		if err != nil {
			return nil
		}
		defer func() { _ = form.RemoveAll() }()
		return form.Value[field]
	}
	return nil
}

// candidates devuelve, en orden, header, form body y query.
func candidates(r *http.Request, max int64) []string {
	var out []string
	if v := strings.TrimSpace(r.Header.Get(HeaderName)); v != "" {
		out = append(out, v)
	}
	for _, v := range formValues(r, FieldName, max) {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	if r.URL != nil {
		if v := strings.TrimSpace(r.URL.Query().Get(FieldName)); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsSafeMethod: GET, HEAD y OPTIONS no requieren token.
func IsSafeMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

// hasBearer: requests con Authorization Bearer no son flujo de cookies.
func hasBearer(r *http.Request) bool {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	return len(ah) > 7 && strings.EqualFold(ah[:7], "bearer ")
}
