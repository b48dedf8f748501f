package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/docoutline/internal/api"
	"github.com/dgallion1/docoutline/internal/config"
	"github.com/dgallion1/docoutline/internal/logfields"
	"github.com/dgallion1/docoutline/internal/metrics"
	"github.com/dgallion1/docoutline/internal/pipeline"
	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	if err := config.LoadDotEnv(); err != nil {
		log.Error("invalid .env file", logfields.Error(err))
		os.Exit(1)
	}
	cfg := config.Load()
	if cfg.ConfigFile != "" {
		if err := cfg.LoadFile(cfg.ConfigFile); err != nil {
			log.Error("invalid configuration file", logfields.Error(err))
			os.Exit(1)
		}
	}
	if err := cfg.ValidateServer(); err != nil {
		log.Error("invalid configuration", logfields.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reg := prom.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	rec := metrics.NewRecorder(reg)

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, pipeline.NewEngine(cfg), rec, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, rec, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting docoutline", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", logfields.Error(err))
		os.Exit(1)
	}
	<-stopped
}
