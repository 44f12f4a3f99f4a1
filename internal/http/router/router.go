// Package router arma el chi.Router del servicio.
package router

import (
	"net/http"

	"github.com/dropDatabas3/hubguard/internal/csrf"
	healthctrl "github.com/dropDatabas3/hubguard/internal/http/controllers/health"
	profilectrl "github.com/dropDatabas3/hubguard/internal/http/controllers/profile"
	securityctrl "github.com/dropDatabas3/hubguard/internal/http/controllers/security"
	submissionctrl "github.com/dropDatabas3/hubguard/internal/http/controllers/submission"
	httperrors "github.com/dropDatabas3/hubguard/internal/http/errors"
	mw "github.com/dropDatabas3/hubguard/internal/http/middlewares"
	healthsvc "github.com/dropDatabas3/hubguard/internal/http/services/health"
	submissionsvc "github.com/dropDatabas3/hubguard/internal/http/services/submission"
	"github.com/dropDatabas3/hubguard/internal/rate"
	"github.com/go-chi/chi/v5"
)

// Deps contiene todo lo que necesitan las rutas.
type Deps struct {
	Store        *csrf.Store
	Validator    *csrf.Validator
	Edge         *csrf.EdgeValidator
	EdgePrefixes []string

	// Limiter nil deshabilita el rate limiting.
	Limiter    rate.Limiter
	Global     rate.Config
	Submit     rate.Config
	Username   rate.Config
	FailClosed bool

	AllowedOrigins []string
	MaxBodyBytes   int64

	Health  healthsvc.HealthService
	Metrics http.Handler // nil => sin /metrics
	Title   string
}

// New registra las rutas. Orden de guards por request:
// rate limit global → CSRF edge (/api/*) → rate limit de la acción → CSRF → handler.
func New(d Deps) http.Handler {
	if d.Store == nil {
		d.Store = csrf.NewStore(csrf.StoreConfig{})
	}
	if d.Validator == nil {
		d.Validator = csrf.NewValidator(d.Store)
	}
	if d.Edge == nil {
		d.Edge = csrf.NewEdgeValidator(d.Store.CookieName())
		d.Edge.AllowedOrigins = d.AllowedOrigins
	}
	if d.Health == nil {
		d.Health = healthsvc.NewHealthService(healthsvc.Deps{})
	}

	health := healthctrl.NewHealthController(d.Health)
	csrfCtrl := securityctrl.NewCSRFController(d.Store)
	page := securityctrl.NewPageController(d.Store, d.Title)
	submissions := submissionctrl.NewController(submissionsvc.NewService())
	username := profilectrl.NewUsernameController()

	limit := func(prefix string, cfg rate.Config) mw.Middleware {
		if d.Limiter == nil {
			return nil
		}
		return mw.WithRateLimit(mw.RateLimitConfig{
			Limiter:    d.Limiter,
			Config:     cfg,
			Prefix:     prefix,
			FailClosed: d.FailClosed,
		})
	}

	r := chi.NewRouter()
	r.Use(mw.Funcs(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithLogging(),
		mw.WithMetrics(),
		mw.WithSecurityHeaders(),
		mw.WithMaxBody(d.MaxBodyBytes),
	)...)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	// Infra: sin rate limit ni CSRF.
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	if d.Metrics != nil {
		r.Handle("/metrics", d.Metrics)
	}

	r.Group(func(r chi.Router) {
		r.Use(mw.Funcs(
			limit("global", d.Global),
			mw.WithEdgeCSRF(d.Edge, d.EdgePrefixes...),
		)...)

		r.Get("/", page.Index)

		r.Route("/api", func(r chi.Router) {
			r.With(mw.Funcs(mw.WithNoStore())...).Get("/csrf", csrfCtrl.GetToken)

			r.With(mw.Funcs(
				limit("submit", d.Submit),
				mw.WithCSRF(d.Validator),
			)...).Post("/submissions", submissions.Create)

			r.With(mw.Funcs(
				limit("username", d.Username),
				mw.WithCSRF(d.Validator),
				mw.WithOrigin(d.AllowedOrigins),
			)...).Put("/profile/username", username.Update)
		})
	})

	return r
}
