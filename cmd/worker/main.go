package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kirillkom/filenet-dms-connector/internal/adapters/jobs"
	"github.com/kirillkom/filenet-dms-connector/internal/bootstrap"
	"github.com/kirillkom/filenet-dms-connector/internal/config"
	natsqueue "github.com/kirillkom/filenet-dms-connector/internal/infrastructure/queue/nats"
	"github.com/kirillkom/filenet-dms-connector/internal/observability/logging"
	"github.com/kirillkom/filenet-dms-connector/internal/observability/metrics"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.NewJSONLogger("worker", "info").Error("config_error", "error", err)
		os.Exit(1)
	}
	logger := logging.NewJSONLogger("worker", cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workerMetrics := metrics.NewWorkerMetrics("worker")
	app, err := bootstrap.New(ctx, cfg, logger, workerMetrics)
	if err != nil {
		logger.Error("bootstrap_error", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	conn, err := natsqueue.Connect(cfg.NATSURL, cfg.NATSSubjectPrefix, natsqueue.Options{
		Name:           "filenet-dms-worker",
		HandlerTimeout: cfg.ECMTimeout + 30*time.Second,
		Logger:         logger,
	})
	if err != nil {
		logger.Error("nats_connect_error", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	metricsServer := &http.Server{
		Addr:              ":" + cfg.WorkerMetricsPort,
		Handler:           workerMetrics.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("worker_metrics_server_error", "error", err)
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metricsServer.Shutdown(shutdownCtx)
	}()

	dispatcher := jobs.NewDispatcher(app.Docs, workerMetrics, logger)
	if err := conn.Serve(ctx, cfg.NATSQueueGroup, jobs.Operations, dispatcher.Handle); err != nil {
		logger.Error("worker_serve_error", "error", err)
		os.Exit(1)
	}
}
