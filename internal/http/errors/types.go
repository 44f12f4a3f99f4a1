package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/hubguard/internal/sanitize"
)

// AppError define la estructura estándar de errores HTTP del servicio.
// Se serializa como {"error": Message, "code": Code}.
type AppError struct {
	Code       string    `json:"code"`
	Message    string    `json:"error"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"` // causa original, sólo para logs
	ResetTime  time.Time `json:"-"` // sólo rate limit
}

// Error implementa la interfaz error
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap permite acceder al error original
func (e *AppError) Unwrap() error {
	return e.Err
}

// New crea un nuevo AppError
func New(status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}

// Wrap crea un AppError envolviendo un error existente
func Wrap(err error, status int, code, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: status,
		Err:        err,
	}
}

// FromError convierte un error genérico en AppError.
// Los errores de validación conocidos mapean a 400; el resto es 500 con un
// mensaje que pasó por sanitize.SafeErrorMessage.
func FromError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, sanitize.ErrInvalidURL):
		return ErrInvalidURL.WithCause(err)
	case errors.Is(err, sanitize.ErrInvalidProtocol):
		return ErrInvalidProtocol.WithCause(err)
	}
	out := ErrInternalServerError.WithCause(err)
	out.Message = sanitize.SafeErrorMessage(err, ErrInternalServerError.Message)
	return out
}

// WithDetail agrega detalles adicionales al error.
// Devuelve una COPIA del error para no mutar las variables globales base
func (e *AppError) WithDetail(detail string) *AppError {
	newErr := *e
	newErr.Detail = detail
	return &newErr
}

// WithCause agrega el error original (causa). Devuelve una COPIA.
func (e *AppError) WithCause(err error) *AppError {
	newErr := *e
	newErr.Err = err
	return &newErr
}

// WithResetTime agrega el fin de la ventana de rate limit. Devuelve una COPIA.
func (e *AppError) WithResetTime(t time.Time) *AppError {
	newErr := *e
	newErr.ResetTime = t
	return &newErr
}

// =================================================================================
// LISTA DE ERRORES PREDEFINIDOS
// =================================================================================

// 400 Bad Request

var (
	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "The request is malformed or missing parameters",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidJSON = &AppError{
		Code:       "INVALID_JSON",
		Message:    "Request body is not valid JSON",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidURL = &AppError{
		Code:       "INVALID_URL",
		Message:    sanitize.ErrInvalidURL.Error(),
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidProtocol = &AppError{
		Code:       "INVALID_URL_PROTOCOL",
		Message:    sanitize.ErrInvalidProtocol.Error(),
		HTTPStatus: http.StatusBadRequest,
	}

	ErrInvalidUsername = &AppError{
		Code:       "INVALID_USERNAME",
		Message:    "Invalid username",
		HTTPStatus: http.StatusBadRequest,
	}

	ErrBodyTooLarge = &AppError{
		Code:       "BODY_TOO_LARGE",
		Message:    "Request body exceeds the maximum allowed size",
		HTTPStatus: http.StatusRequestEntityTooLarge,
	}
)

// 403 Forbidden

var (
	ErrCSRFValidationFailed = &AppError{
		Code:       "CSRF_VALIDATION_FAILED",
		Message:    "Invalid or missing CSRF token",
		HTTPStatus: http.StatusForbidden,
	}

	ErrInvalidOrigin = &AppError{
		Code:       "INVALID_ORIGIN",
		Message:    "Invalid origin",
		HTTPStatus: http.StatusForbidden,
	}
)

// 404 / 405

var (
	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		HTTPStatus: http.StatusNotFound,
	}

	ErrMethodNotAllowed = &AppError{
		Code:       "METHOD_NOT_ALLOWED",
		Message:    "Method not allowed",
		HTTPStatus: http.StatusMethodNotAllowed,
	}
)

// 429 Too Many Requests

var ErrRateLimitExceeded = &AppError{
	Code:       "RATE_LIMIT_EXCEEDED",
	Message:    "Too many requests. Please try again later.",
	HTTPStatus: http.StatusTooManyRequests,
}

// 5xx

var (
	ErrInternalServerError = &AppError{
		Code:       "INTERNAL_SERVER_ERROR",
		Message:    sanitize.DefaultErrorMessage,
		HTTPStatus: http.StatusInternalServerError,
	}

	ErrServiceUnavailable = &AppError{
		Code:       "SERVICE_UNAVAILABLE",
		Message:    "Service temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
	}
)
