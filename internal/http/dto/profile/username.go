package profile

// UsernameRequest es el body de PUT /api/profile/username.
type UsernameRequest struct {
	Username string `json:"username"`
}

// UsernameResponse confirma el username aceptado.
type UsernameResponse struct {
	Username string `json:"username"`
	Valid    bool   `json:"valid"`
}
