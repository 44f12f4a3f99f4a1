package sanitize

import (
	"regexp"
	"strings"
)

// Rule mapea un patrón a un resultado. El resultado puede ser un mensaje seguro
// (ErrorMessageRules) o un reemplazo para ReplaceAllString (RedactionRules).
type Rule struct {
	Pattern *regexp.Regexp
	Result  string
}

// RuleSet es una tabla ordenada y versionada de reglas. La primera que matchea gana.
type RuleSet struct {
	Version string
	Rules   []Rule
}

// Match devuelve el resultado de la primera regla que matchea s.
func (rs RuleSet) Match(s string) (string, bool) {
	for _, r := range rs.Rules {
		if r.Pattern.MatchString(s) {
			return r.Result, true
		}
	}
	return "", false
}

// ReplaceAll aplica todas las reglas en orden, como reemplazos.
func (rs RuleSet) ReplaceAll(s string) string {
	for _, r := range rs.Rules {
		s = r.Pattern.ReplaceAllString(s, r.Result)
	}
	return s
}

// WordList es una lista versionada de palabras comparadas en minúsculas.
type WordList struct {
	Version string
	Words   []string
}

// Has indica si s (case-insensitive) es exactamente una de las palabras.
func (wl WordList) Has(s string) bool {
	s = strings.ToLower(s)
	for _, w := range wl.Words {
		if s == w {
			return true
		}
	}
	return false
}

// FoundIn devuelve la primera palabra contenida en s (case-insensitive).
func (wl WordList) FoundIn(s string) (string, bool) {
	s = strings.ToLower(s)
	for _, w := range wl.Words {
		if strings.Contains(s, w) {
			return w, true
		}
	}
	return "", false
}

// ErrorMessageRules traduce mensajes internos a mensajes aptos para el cliente.
var ErrorMessageRules = RuleSet{
	Version: "2025.1",
	Rules: []Rule{
		{regexp.MustCompile(`(?i)database.*connection.*failed`), "Database error occurred"},
		{regexp.MustCompile(`(?i)duplicate key|unique constraint`), "Resource already exists"},
		{regexp.MustCompile(`(?i)ECONNREFUSED|connection refused`), "Service temporarily unavailable"},
		{regexp.MustCompile(`(?i)ENOENT|no such file or directory`), "File not found"},
		{regexp.MustCompile(`(?i)EACCES|permission denied`), "Permission denied"},
		{regexp.MustCompile(`(?i)rate limit exceeded`), "Too many requests"},
		{regexp.MustCompile(`(?i)timed? ?out|deadline exceeded`), "Request timed out"},
		{regexp.MustCompile(`(?i)invalid json|unexpected end of json|json: cannot unmarshal`), "Invalid request format"},
		{regexp.MustCompile(`(?i)unauthorized|not authenticated`), "Authentication required"},
		{regexp.MustCompile(`(?i)forbidden`), "Access denied"},
		{regexp.MustCompile(`(?i)network error|fetch failed`), "Network error occurred"},
	},
}

// RedactionRules se aplican cuando ninguna ErrorMessageRules matchea.
// El orden importa: credenciales antes que hosts, line:col antes que paths,
// host:puerto genérico al final.
var RedactionRules = RuleSet{
	Version: "2025.1",
	Rules: []Rule{
		{regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]+`), "Bearer [REDACTED]"},
		{regexp.MustCompile(`(?i)\b(password|passwd|pwd|secret|token|api[_-]?key|authorization)\b(?:\s*[:=]\s*|\s+)\S+`), "$1=[REDACTED]"},
		{regexp.MustCompile(`(?i)\b[a-z][a-z0-9+.-]*://[^\s/@]+:[^\s/@]+@`), "[REDACTED]@"},
		{regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9-]*(?:\.[a-z0-9-]+)*\.(?:internal|local|lan|corp|intranet)\b(?::\d+)?`), "[HOST]"},
		{regexp.MustCompile(`(?i)\blocalhost\b(?::\d+)?`), "[HOST]"},
		{regexp.MustCompile(`\b(?:\d{1,3}\.){3}\d{1,3}(?::\d+)?\b`), "[HOST]"},
		{regexp.MustCompile(`:\d+:\d+\b`), ""},
		{regexp.MustCompile(`(?:[A-Za-z]:)?(?:[\\/][\w.@-]+){2,}(?::\d+)?`), "[PATH]"},
		// cualquier host:puerto que quede (service DNS, nombres de contenedor)
		{regexp.MustCompile(`(?i)\b[a-z0-9][a-z0-9.-]*:\d{2,5}\b`), "[HOST]"},
	},
}

// ReservedUsernames no pueden registrarse como username de miembro.
var ReservedUsernames = WordList{
	Version: "2025.1",
	Words: []string{
		"admin", "administrator", "api", "root", "system", "support", "help",
		"about", "login", "logout", "signup", "signin", "register", "www",
		"mail", "ftp", "settings", "dashboard", "members", "profile",
		"submit", "moderator", "null", "undefined", "llms", "hub",
	},
}

// DangerousProtocols se rechazan en cualquier parte de una URL.
var DangerousProtocols = WordList{
	Version: "2025.1",
	Words:   []string{"javascript:", "data:", "vbscript:", "file:"},
}
