package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dropDatabas3/hubguard/internal/config"
	"github.com/dropDatabas3/hubguard/internal/http/server"
	"github.com/dropDatabas3/hubguard/internal/observability/logger"
	"github.com/dropDatabas3/hubguard/internal/rate"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

var version = "dev"

func main() {
	var (
		configPath  = flag.String("config", os.Getenv("CONFIG_PATH"), "ruta al config YAML (opcional)")
		envFile     = flag.String("env-file", ".env", "archivo .env a cargar (si existe)")
		printConfig = flag.Bool("print-config", false, "imprime la config efectiva y sale")
	)
	flag.Parse()

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil && !os.IsNotExist(err) {
			log.Printf("env: %v", err)
		}
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}
	if *printConfig {
		cfg.Redis.Password = redact(cfg.Redis.Password)
		out, _ := yaml.Marshal(cfg)
		fmt.Print(string(out))
		return
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.ServiceName,
		Version:     version,
	})
	defer func() { _ = logger.Sync() }()
	lg := logger.L()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logger.ToContext(ctx, lg)

	app, err := server.Build(ctx, cfg, server.Deps{})
	if err != nil {
		lg.Fatal("wiring failed", logger.Err(err))
	}
	defer func() {
		if err := app.Close(); err != nil {
			lg.Warn("cleanup error", logger.Err(err))
		}
	}()

	srv := server.New(app.Options, app.Handler)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Run(gctx, srv, nil, app.Options.ShutdownTimeout)
	})
	if app.Limiter != nil {
		interval := config.Dur(cfg.Rate.CleanupInterval, rate.DefaultWindow)
		g.Go(func() error { return rate.Janitor(gctx, app.Limiter, interval) })
	}

	lg.Info("hubguard started",
		logger.String("addr", cfg.Server.Addr),
		logger.String("env", cfg.App.Env),
		logger.Bool("rate_limit", app.Limiter != nil),
		logger.Backend(cfg.Rate.Backend),
	)
	if err := g.Wait(); err != nil {
		lg.Error("server stopped with error", logger.Err(err))
		os.Exit(1)
	}
	logger.S().Infof("hubguard %s stopped", version)
}

func redact(s string) string {
	if s == "" {
		return ""
	}
	return "****"
}
