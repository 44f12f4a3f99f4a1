package sanitize

import (
	"strings"
)

// DefaultErrorMessage se usa cuando no hay nada seguro que mostrar.
const DefaultErrorMessage = "An error occurred"

const maxSafeMessageLen = 200

// SafeErrorMessage convierte un error interno en un mensaje apto para el cliente.
// Primero prueba ErrorMessageRules; si ninguna matchea, redacta credenciales,
// hosts internos, paths y referencias line:col de la primera línea del mensaje.
// Nunca devuelve stack traces.
func SafeErrorMessage(err error, fallback string) string {
	if fallback == "" {
		fallback = DefaultErrorMessage
	}
	if err == nil {
		return fallback
	}
	msg := strings.TrimSpace(err.Error())
	if msg == "" {
		return fallback
	}

	if safe, matched := ErrorMessageRules.Match(msg); matched {
		return safe
	}

	// Sólo la primera línea: lo que sigue suele ser stack trace.
	if i := strings.IndexAny(msg, "\r\n"); i >= 0 {
		msg = msg[:i]
	}
	msg = RedactionRules.ReplaceAll(msg)
	msg = strings.Join(strings.Fields(msg), " ")

	if msg == "" || len(msg) > maxSafeMessageLen {
		return fallback
	}
	return msg
}
