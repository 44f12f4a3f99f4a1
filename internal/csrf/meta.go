package csrf

import "github.com/dropDatabas3/hubguard/internal/sanitize"

// MetaTag arma el <meta> para páginas renderizadas en el servidor.
func MetaTag(token string) string {
	return `<meta name="csrf-token" content="` + sanitize.EscapeHTML(token) + `">`
}
