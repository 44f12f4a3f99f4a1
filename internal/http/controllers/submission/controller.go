// Package submission contiene el controller de envíos de proyectos.
package submission

import (
	"errors"
	"net/http"

	dto "github.com/dropDatabas3/hubguard/internal/http/dto/submission"
	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	"github.com/dropDatabas3/hubguard/internal/http/helpers"
	svc "github.com/dropDatabas3/hubguard/internal/http/services/submission"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
)

// Controller maneja POST /api/submissions. Rate limit y CSRF corren antes,
// como middlewares de la ruta.
type Controller struct {
	service svc.Service
}

func NewController(service svc.Service) *Controller {
	return &Controller{service: service}
}

func (c *Controller) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("SubmissionController.Create"))

	var in dto.Request
	if helpers.IsForm(r) {
		if err := r.ParseMultipartForm(helpers.MaxJSONBody); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			httperrors.WriteError(w, httperrors.ErrBadRequest)
			return
		}
		in = dto.Request{
			Name:        r.PostFormValue("name"),
			Description: r.PostFormValue("description"),
			Website:     r.PostFormValue("website"),
		}
	} else if !helpers.ReadJSON(w, r, &in) {
		return
	}

	out, err := c.service.Sanitize(ctx, in)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrNameRequired), errors.Is(err, svc.ErrNameTooLong), errors.Is(err, svc.ErrDescriptionTooLong):
			httperrors.WriteError(w, httperrors.New(http.StatusBadRequest, "INVALID_SUBMISSION", err.Error()))
		default:
			httperrors.WriteError(w, err)
		}
		return
	}

	log.Info("submission accepted")
	helpers.WriteJSON(w, http.StatusCreated, out)
}
