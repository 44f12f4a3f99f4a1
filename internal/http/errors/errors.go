package errors

import (
	"encoding/json"
	"net/http"
)

// errorResponse controla exactamente qué campos se envían al cliente.
type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Detail    string `json:"detail,omitempty"`
	ResetTime int64  `json:"resetTime,omitempty"` // epoch ms
}

// WriteError escribe la respuesta HTTP para err.
// Maneja *AppError y errores genéricos (ver FromError).
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	resp := errorResponse{
		Error:  appErr.Message,
		Code:   appErr.Code,
		Detail: appErr.Detail,
	}
	if !appErr.ResetTime.IsZero() {
		resp.ResetTime = appErr.ResetTime.UnixMilli()
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)
	_ = json.NewEncoder(w).Encode(resp)
}
