package sanitize

import (
	"regexp"
	"unicode/utf8"
)

const (
	UsernameMinLen = 3
	UsernameMaxLen = 30
)

var usernameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Result es el resultado de un validador: Valid o un mensaje apto para el usuario.
type Result struct {
	Valid bool   `json:"valid"`
	Error string `json:"error,omitempty"`
}

func ok() Result { return Result{Valid: true} }

func fail(msg string) Result { return Result{Error: msg} }

// ValidateUsername valida formato, largo y palabras reservadas.
// El largo se mide sobre el valor ya sanitizado.
func ValidateUsername(s string) Result {
	if s == "" {
		return fail("Username is required")
	}
	clean := Text(s)
	if clean == "" {
		return fail("Username cannot be empty")
	}
	n := utf8.RuneCountInString(clean)
	if n < UsernameMinLen {
		return fail("Username must be at least 3 characters")
	}
	if n > UsernameMaxLen {
		return fail("Username must be 30 characters or less")
	}
	if !usernameRe.MatchString(clean) {
		return fail("Username can only contain letters, numbers, underscores, and hyphens")
	}
	if ReservedUsernames.Has(clean) {
		return fail("Username is reserved")
	}
	return ok()
}
