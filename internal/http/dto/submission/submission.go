package submission

// Request es el body de POST /api/submissions (JSON o form).
type Request struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Website     string `json:"website"`
}

// Response devuelve los campos ya saneados. Website vacío = ausente.
type Response struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Website     string `json:"website,omitempty"`
}
