package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dropDatabas3/hubguard/internal/config"
	"github.com/dropDatabas3/hubguard/internal/csrf"
	healthsvc "github.com/dropDatabas3/hubguard/internal/http/services/health"
	"github.com/dropDatabas3/hubguard/internal/http/router"
	"github.com/dropDatabas3/hubguard/internal/metrics"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/rate"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	rdb "github.com/redis/go-redis/v9"
)

// App agrupa lo construido a partir del config.
type App struct {
	Handler http.Handler
	Limiter rate.Limiter // nil si rate.enabled=false
	Options Options

	closers []func() error
}

// Close libera recursos (cliente redis).
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Deps permite inyectar piezas ya construidas (tests).
type Deps struct {
	Registry prometheus.Registerer
	Gatherer prometheus.Gatherer
	Redis    *rdb.Client
}

// Build arma el handler y sus dependencias a partir del config.
func Build(ctx context.Context, cfg *config.Config, deps Deps) (*App, error) {
	log := logger.From(ctx).With(logger.Component("wiring"))
	app := &App{
		Options: Options{
			Addr:            cfg.Server.Addr,
			ReadTimeout:     config.Dur(cfg.Server.ReadTimeout, 10*time.Second),
			WriteTimeout:    config.Dur(cfg.Server.WriteTimeout, 15*time.Second),
			ShutdownTimeout: config.Dur(cfg.Server.ShutdownTimeout, 10*time.Second),
		},
	}

	checks := map[string]healthsvc.Check{}

	redisClient := deps.Redis
	if redisClient == nil && cfg.Rate.Enabled && cfg.Rate.Backend == rate.BackendRedis {
		redisClient = rdb.NewClient(&rdb.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		app.closers = append(app.closers, redisClient.Close)
	}
	if redisClient != nil {
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	if cfg.Rate.Enabled {
		opts := rate.Options{
			Backend:         cfg.Rate.Backend,
			Capacity:        cfg.Rate.Capacity,
			CleanupInterval: config.Dur(cfg.Rate.CleanupInterval, time.Minute),
			RedisPrefix:     cfg.Redis.Prefix,
		}
		if redisClient != nil {
			opts.Redis = redisClient
		}
		l, err := rate.New(opts)
		if err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
		app.Limiter = l
		log.Info("rate limiter ready", logger.Backend(cfg.Rate.Backend))
	}

	var metricsHandler http.Handler
	if cfg.Metrics.Enabled {
		if err := metrics.Register(deps.Registry); err != nil {
			_ = app.Close()
			return nil, fmt.Errorf("metrics: %w", err)
		}
		if deps.Gatherer != nil {
			metricsHandler = promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})
		} else {
			metricsHandler = promhttp.Handler()
		}
	}

	store := csrf.NewStore(csrf.StoreConfig{
		CookieName: cfg.CSRF.CookieName,
		TTL:        config.Dur(cfg.CSRF.TTL, csrf.DefaultTTL),
		Secure:     logger.IsProdLike(cfg.App.Env),
	})
	edge := csrf.NewEdgeValidator(store.CookieName())
	edge.AllowedOrigins = cfg.Server.AllowedOrigins
	validator := csrf.NewValidator(store)
	if cfg.Server.MaxBodyBytes > 0 {
		edge.MaxBody = cfg.Server.MaxBodyBytes
		validator.MaxBody = cfg.Server.MaxBodyBytes
	}

	app.Handler = router.New(router.Deps{
		Store:        store,
		Validator:    validator,
		Edge:         edge,
		EdgePrefixes: cfg.CSRF.EdgePrefixes,

		Limiter: app.Limiter,
		Global: rate.Config{
			Window:      config.Dur(cfg.Rate.Window, rate.DefaultWindow),
			MaxRequests: cfg.Rate.MaxRequests,
		},
		Submit: rate.Config{
			Window:      config.Dur(cfg.Rate.Submit.Window, rate.DefaultWindow),
			MaxRequests: cfg.Rate.Submit.Limit,
		},
		Username: rate.Config{
			Window:      config.Dur(cfg.Rate.Username.Window, rate.DefaultWindow),
			MaxRequests: cfg.Rate.Username.Limit,
		},
		FailClosed: cfg.Rate.FailClosed,

		AllowedOrigins: cfg.Server.AllowedOrigins,
		MaxBodyBytes:   cfg.Server.MaxBodyBytes,
		Health:         healthsvc.NewHealthService(healthsvc.Deps{Checks: checks}),
		Metrics:        metricsHandler,
	})
	return app, nil
}
