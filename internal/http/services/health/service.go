// Package health contiene el service para health checks.
package health

import (
	"context"
	"sort"
	"time"

	dto "github.com/dropDatabas3/hubguard/internal/http/dto/health"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/sanitize"
)

// Check es un chequeo de dependencia (ej: ping a redis).
type Check func(ctx context.Context) error

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version string
	Checks  map[string]Check // todos críticos
	Timeout time.Duration
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	if deps.Timeout <= 0 {
		deps.Timeout = 2 * time.Second
	}
	return &healthService{deps: deps}
}

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus, len(s.deps.Checks)),
		Timestamp:  time.Now().UTC(),
	}

	names := make([]string, 0, len(s.deps.Checks))
	for name := range s.deps.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		cctx, cancel := context.WithTimeout(ctx, s.deps.Timeout)
		err := s.deps.Checks[name](cctx)
		cancel()
		if err != nil {
			log.Error("dependency unavailable", logger.String("dependency", name), logger.Err(err))
			resp.Components[name] = dto.HealthStatus{
				Status:  "error",
				Message: sanitize.SafeErrorMessage(err, "unavailable"),
			}
			resp.Status = "unavailable"
			continue
		}
		resp.Components[name] = dto.HealthStatus{Status: "ok"}
	}
	return resp
}
