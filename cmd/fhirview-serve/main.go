// Package main implements fhirview-serve: an HTTP front end to the
// SQL-on-FHIR ViewDefinition engine, letting clients register
// ViewDefinitions once and apply them to resources over the network.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/gofhir/sqlonfhir"
	"github.com/gofhir/sqlonfhir/internal/config"
	"github.com/gofhir/sqlonfhir/internal/httpserver"
	"github.com/gofhir/sqlonfhir/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Error(err, "failed to load configuration")
		os.Exit(1)
	}

	logging.SetLevel(parseLevel(cfg.LogLevel))
	log := logging.Default()

	engineOpts := []sqlonfhir.Option{
		sqlonfhir.WithStrictNames(cfg.StrictNames),
		sqlonfhir.WithExpressionCache(cfg.ExpressionCacheSize),
	}
	if cfg.WorkerCount > 0 {
		engineOpts = append(engineOpts, sqlonfhir.WithWorkerCount(cfg.WorkerCount))
	}
	engine := sqlonfhir.New(engineOpts...)

	srv := httpserver.NewServer(engine, cfg.MaxRequestBytes)

	router := srv.Routes()
	// Recoverer must wrap the router built by srv.Routes so a panic in
	// any handler is caught rather than crashing the process.
	handler := middleware.Recoverer(httpserver.RequestLogger(log)(router))

	httpSrv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler,
	}

	go func() {
		log.Info("fhirview-serve listening on %s", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "server failed to start")
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "graceful shutdown failed")
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

func parseLevel(s string) logging.Level {
	switch s {
	case "debug":
		return logging.LevelDebug
	case "warn":
		return logging.LevelWarn
	case "error":
		return logging.LevelError
	case "none":
		return logging.LevelNone
	default:
		return logging.LevelInfo
	}
}
