// Package submission sanea los datos de un envío de proyecto antes de usarlos.
package submission

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	dto "github.com/dropDatabas3/hubguard/internal/http/dto/submission"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
)

const (
	MaxNameLen        = 100
	MaxDescriptionLen = 1000
)

var (
	ErrNameRequired       = errors.New("Name is required")
	ErrNameTooLong        = fmt.Errorf("Name must be at most %d characters", MaxNameLen)
	ErrDescriptionTooLong = fmt.Errorf("Description must be at most %d characters", MaxDescriptionLen)
)

// Service sanea un envío.
type Service interface {
	Sanitize(ctx context.Context, in dto.Request) (dto.Response, error)
}

type service struct{}

func NewService() Service { return service{} }

// Sanitize limpia name y description (texto sin HTML activo) y valida website.
// Errores de URL son sanitize.ErrInvalidURL / ErrInvalidProtocol.
func (service) Sanitize(ctx context.Context, in dto.Request) (dto.Response, error) {
	log := logger.From(ctx).With(logger.Layer("service"), logger.Component("submission"), logger.Op("Sanitize"))

	out := dto.Response{
		Name:        sanitize.Text(in.Name),
		Description: sanitize.Text(in.Description),
	}
	if out.Name == "" {
		return dto.Response{}, ErrNameRequired
	}
	if utf8.RuneCountInString(out.Name) > MaxNameLen {
		return dto.Response{}, ErrNameTooLong
	}
	if utf8.RuneCountInString(out.Description) > MaxDescriptionLen {
		return dto.Response{}, ErrDescriptionTooLong
	}

	website, err := sanitize.SanitizeURL(in.Website)
	if err != nil {
		log.Info("submission rejected", logger.Reason(err.Error()))
		return dto.Response{}, err
	}
	out.Website = website
	return out, nil
}
