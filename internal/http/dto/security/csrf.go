package security

// CSRFResponse es la respuesta de GET /api/csrf.
type CSRFResponse struct {
	CSRFToken string `json:"csrf_token"`
	ExpiresAt int64  `json:"expires_at"` // epoch ms
}
