package tokens

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// CSRFTokenBytes es la entropía de un token CSRF (256 bits → 64 chars hex).
const CSRFTokenBytes = 32

// GenerateHex genera nBytes aleatorios de crypto/rand y los devuelve en hex.
func GenerateHex(nBytes int) (string, error) {
	if nBytes <= 0 {
		return "", fmt.Errorf("tokens: invalid size %d", nBytes)
	}
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("tokens: read random: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SHA256Hex devuelve sha256(input) en hexadecimal.
func SHA256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

// Fingerprint devuelve los primeros 12 chars de SHA256Hex, para logs.
// Vacío si el token es vacío.
func Fingerprint(s string) string {
	if s == "" {
		return ""
	}
	return SHA256Hex(s)[:12]
}

// Equal compara dos tokens en tiempo constante.
// Tokens vacíos nunca son iguales.
func Equal(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
