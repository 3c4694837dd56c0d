// Command circulation-api serves the school library circulation API.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/otel"

	"github.com/schoollibrary/circulation/circulation/httpapi"
	"github.com/schoollibrary/circulation/circulation/lifecycle"
	"github.com/schoollibrary/circulation/circulation/notify"
	"github.com/schoollibrary/circulation/circulation/shell/config"
	"github.com/schoollibrary/circulation/eventstore/oteladapters"
)

const (
	instrumentationName = "github.com/schoollibrary/circulation"
	startupTimeout      = 15 * time.Second
	shutdownTimeout     = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		slog.Error("circulation-api stopped with error", "error", err.Error())
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	providers, err := config.NewObservabilityProviders(ctx, cfg)
	if err != nil {
		return err
	}
	defer shutdownWithTimeout(logger, "observability", providers.Shutdown)

	contextualLogger := oteladapters.NewSlogBridgeLoggerWithHandler(logger.Handler())
	if providers.Exporting {
		contextualLogger = oteladapters.NewSlogBridgeLogger(instrumentationName)
	}
	observability := lifecycle.Observability{
		MetricsCollector: oteladapters.NewMetricsCollector(otel.Meter(instrumentationName)),
		TracingCollector: oteladapters.NewTracingCollector(otel.Tracer(instrumentationName)),
		ContextualLogger: contextualLogger,
	}

	startupCtx, cancelStartup := context.WithTimeout(ctx, startupTimeout)
	defer cancelStartup()

	infra, err := openInfrastructure(startupCtx, cfg, observability)
	if err != nil {
		return err
	}
	defer infra.Close()

	dispatcher := notify.NewDispatcher(
		infra.notifiers(logger),
		notify.WithBufferSize(cfg.NotifyBuffer),
		notify.WithWorkers(cfg.NotifyWorkers),
		notify.WithLogger(contextualLogger),
		notify.WithMetrics(observability.MetricsCollector),
	)
	dispatcher.Start(context.WithoutCancel(ctx))

	serviceOptions := []lifecycle.Option{
		lifecycle.WithPolicy(cfg.Policy),
		lifecycle.WithObservability(observability),
		lifecycle.WithPublisher(dispatcher),
	}
	if infra.writer != nil {
		serviceOptions = append(serviceOptions, lifecycle.WithProjector(infra.writer))
	}

	service, err := lifecycle.NewService(infra.eventStore, serviceOptions...)
	if err != nil {
		return err
	}

	sweeper, err := lifecycle.NewSweeper(
		service,
		lifecycle.WithSweepInterval(cfg.SweepInterval),
		lifecycle.WithSweepLogger(contextualLogger),
	)
	if err != nil {
		return err
	}

	sweeperDone := make(chan struct{})
	go func() {
		defer close(sweeperDone)
		sweeper.Run(ctx)
	}()

	apiOptions := []httpapi.Option{httpapi.WithLogger(logger)}
	if infra.reader != nil {
		apiOptions = append(apiOptions, httpapi.WithCatalogue(infra.reader))
	}

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           httpapi.New(service, apiOptions...),
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("circulation-api listening", "addr", cfg.HTTPAddr, "db_adapter", cfg.DBAdapter)
		serverErr <- server.ListenAndServe()
	}()

	select {
	case err = <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		stop()
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownWithTimeout(logger, "http server", server.Shutdown)
	<-sweeperDone
	service.Wait()
	dispatcher.Close()
	logger.Info("circulation-api stopped")

	return err
}

func shutdownWithTimeout(logger *slog.Logger, name string, shutdown func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Warn("shutdown failed", "component", name, "error", err.Error())
	}
}
