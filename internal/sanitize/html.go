package sanitize

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

// Luego del escape genérico "</script" queda como "&lt;/script"; igual codificamos la barra.
var escapedScriptClose = regexp.MustCompile(`(?i)&lt;/script`)

// EscapeHTML escapa & < > " ' y codifica la "/" de cualquier cierre de script.
func EscapeHTML(s string) string {
	out := htmlEscaper.Replace(s)
	return escapedScriptClose.ReplaceAllStringFunc(out, func(m string) string {
		// conservar el case original de "script"
		return "&lt;&#x2F;" + m[len("&lt;/"):]
	})
}

// EscapeValue es EscapeHTML para valores dinámicos: strings y números se escapan,
// cualquier otro tipo devuelve "".
func EscapeValue(v any) string {
	switch x := v.(type) {
	case string:
		return EscapeHTML(x)
	case int:
		return strconv.Itoa(x)
	case int8:
		return strconv.FormatInt(int64(x), 10)
	case int16:
		return strconv.FormatInt(int64(x), 10)
	case int32:
		return strconv.FormatInt(int64(x), 10)
	case int64:
		return strconv.FormatInt(x, 10)
	case uint:
		return strconv.FormatUint(uint64(x), 10)
	case uint8:
		return strconv.FormatUint(uint64(x), 10)
	case uint16:
		return strconv.FormatUint(uint64(x), 10)
	case uint32:
		return strconv.FormatUint(uint64(x), 10)
	case uint64:
		return strconv.FormatUint(x, 10)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return ""
	}
}

// textPolicy sólo deja pasar formato básico. Los bluemonday.Policy son seguros
// para uso concurrente una vez construidos.
var textPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "br")
	// Contenido descartado completo, no sólo el tag
	p.SkipElementsContent("script", "style", "iframe", "object", "embed", "noscript")
	return p
}()

// bluemonday escapa los nodos de texto; la puntuación común vuelve a ser literal.
// &lt; y &gt; quedan escapados. Un solo pasaje: "&amp;lt;" vuelve a "&lt;", no a "<".
var textEntities = strings.NewReplacer(
	"&#13;", "\r",
	"&#39;", "'",
	"&#34;", `"`,
	"&quot;", `"`,
	"&amp;", "&",
)

var invisibleChars = strings.NewReplacer(
	"\u200b", "",
	"\u200c", "",
	"\u200d", "",
	"\ufeff", "",
)

// Text limpia texto libre: quita tags (salvo b/i/em/strong/br), elimina script,
// style, iframe, object y embed con su contenido, descarta atributos (on*),
// borra caracteres invisibles y recorta espacios exteriores.
// Los saltos de línea internos se conservan; comillas y "&" no se escapan.
func Text(s string) string {
	out := textEntities.Replace(textPolicy.Sanitize(s))
	out = invisibleChars.Replace(out)
	return strings.TrimSpace(out)
}

// SanitizeText es Text para campos opcionales: nil entra, nil sale.
func SanitizeText(s *string) *string {
	if s == nil {
		return nil
	}
	out := Text(*s)
	return &out
}
