// Package server construye y corre el http.Server del servicio.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dropDatabas3/hubguard/internal/observability/logger"
)

// Options configura el http.Server.
type Options struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

// New arma un http.Server con timeouts.
func New(o Options, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              o.Addr,
		Handler:           h,
		ReadTimeout:       o.ReadTimeout,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      o.WriteTimeout,
		IdleTimeout:       60 * time.Second,
	}
}

// Run sirve hasta que ctx se cancele y luego hace shutdown ordenado.
// Si ln es nil escucha en srv.Addr.
func Run(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	if shutdownTimeout <= 0 {
		shutdownTimeout = 10 * time.Second
	}
	log := logger.From(ctx).With(logger.Component("http"))

	errCh := make(chan error, 1)
	go func() {
		var err error
		if ln != nil {
			log.Info("http server listening", logger.String("addr", ln.Addr().String()))
			err = srv.Serve(ln)
		} else {
			log.Info("http server listening", logger.String("addr", srv.Addr))
			err = srv.ListenAndServe()
		}
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		errCh <- err
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("http server shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	return <-errCh
}
