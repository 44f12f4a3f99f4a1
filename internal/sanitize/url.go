package sanitize

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidURL: la URL no es http(s) bien formada.
	ErrInvalidURL = errors.New("Invalid URL format")
	// ErrInvalidProtocol: la URL contiene un protocolo peligroso en cualquier posición.
	ErrInvalidProtocol = errors.New("Invalid URL protocol")
)

// validator.Validate cachea structs/tags y es seguro para uso concurrente.
var validate = validator.New()

// SanitizeURL devuelve la URL recortada si es http/https válida.
// Input vacío (o sólo espacios) devuelve ("", nil): el campo está ausente.
func SanitizeURL(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if err := validate.Var(s, "http_url"); err != nil {
		return "", ErrInvalidURL
	}
	// Aunque el formato sea válido, "https://x/?next=javascript:..." no pasa.
	if _, found := DangerousProtocols.FoundIn(s); found {
		return "", ErrInvalidProtocol
	}
	return s, nil
}
