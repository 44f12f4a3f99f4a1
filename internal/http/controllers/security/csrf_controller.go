// Package security contiene los controllers que emiten tokens CSRF.
package security

import (
	"net/http"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	dto "github.com/dropDatabas3/hubguard/internal/http/dto/security"
	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/http/helpers"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
)

// CSRFController maneja GET /api/csrf.
type CSRFController struct {
	store *csrf.Store
}

func NewCSRFController(store *csrf.Store) *CSRFController {
	return &CSRFController{store: store}
}

// GetToken genera un token nuevo, lo deja en la cookie HttpOnly y lo devuelve
// en el body para que el cliente lo reenvíe en x-csrf-token.
func (c *CSRFController) GetToken(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("CSRFController.GetToken"))

	jar := csrf.HTTPJar(w, r)
	token, err := c.store.Create(ctx, jar)
	if err != nil {
		log.Error("failed to generate CSRF token", logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError)
		return
	}

	resp := dto.CSRFResponse{CSRFToken: token}
	if rec, ok := c.store.Stored(ctx, jar); ok {
		resp.ExpiresAt = rec.ExpiresAt
	}
	helpers.WriteJSON(w, http.StatusOK, resp)
}
