package security

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
)

var pageTmpl = template.Must(template.New("page").Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
{{.Meta}}
<title>{{.Title}}</title>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="post" action="/api/submissions">
<input type="hidden" name="_csrf" value="{{.Token}}">
<label>Name <input name="name" required></label>
<label>Description <textarea name="description"></textarea></label>
<label>Website <input name="website" type="url"></label>
<button type="submit">Submit</button>
</form>
</body>
</html>
`))

// PageController renderiza la página con el meta tag csrf-token.
type PageController struct {
	store *csrf.Store
	title string
}

func NewPageController(store *csrf.Store, title string) *PageController {
	if title == "" {
		title = "llms.txt hub"
	}
	return &PageController{store: store, title: title}
}

// Index maneja GET /. Cada render rota el token.
func (c *PageController) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	token, err := c.store.Create(ctx, csrf.HTTPJar(w, r))
	if err != nil {
		logger.From(ctx).Error("failed to generate CSRF token", logger.Layer("controller"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	var buf bytes.Buffer
	err = pageTmpl.Execute(&buf, map[string]any{
		// MetaTag ya escapa el token.
		"Meta":  template.HTML(csrf.MetaTag(token)),
		"Title": c.title,
		"Token": token,
	})
	if err != nil {
		httperrors.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(buf.Bytes())
}
