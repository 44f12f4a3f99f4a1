// Package profile contiene el controller de cambio de username.
package profile

import (
	"net/http"

	dto "github.com/dropDatabas3/hubguard/internal/http/dto/profile"
	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/http/helpers"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
)

// UsernameController maneja PUT /api/profile/username.
type UsernameController struct{}

func NewUsernameController() *UsernameController { return &UsernameController{} }

func (c *UsernameController) Update(w http.ResponseWriter, r *http.Request) {
	log := logger.From(r.Context()).With(logger.Layer("controller"), logger.Op("UsernameController.Update"))

	var in dto.UsernameRequest
	if !helpers.ReadJSON(w, r, &in) {
		return
	}

	res := sanitize.ValidateUsername(in.Username)
	if !res.Valid {
		log.Debug("username rejected", logger.Reason(res.Error))
		httperrors.WriteError(w, httperrors.New(http.StatusBadRequest, httperrors.ErrInvalidUsername.Code, res.Error))
		return
	}

	// Persistir el perfil no es responsabilidad de este servicio.
	helpers.WriteJSON(w, http.StatusOK, dto.UsernameResponse{
		Username: sanitize.Text(in.Username),
		Valid:    true,
	})
}
