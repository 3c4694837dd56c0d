package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/log/global"
	"go.opentelemetry.io/otel/propagation"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

var ErrCreatingObservabilityFailed = errors.New("creating observability providers failed")

// ObservabilityProviders holds the OpenTelemetry providers of the process.
type ObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	LoggerProvider *sdklog.LoggerProvider
	Resource       *resource.Resource
	Exporting      bool
}

// NewObservabilityProviders creates the providers and installs them globally.
// Without an OTLP endpoint the providers record nothing outside the process.
func NewObservabilityProviders(ctx context.Context, cfg Config) (*ObservabilityProviders, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
		),
	)
	if err != nil {
		return nil, errors.Join(ErrCreatingObservabilityFailed, err)
	}

	traceOptions := []trace.TracerProviderOption{trace.WithResource(res)}
	metricOptions := []metric.Option{metric.WithResource(res)}
	logOptions := []sdklog.LoggerProviderOption{sdklog.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		traceExporter, err := otlptracegrpc.New(ctx,
			otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlptracegrpc.WithInsecure(),
		)
		if err != nil {
			return nil, errors.Join(ErrCreatingObservabilityFailed, err)
		}

		metricExporter, err := otlpmetricgrpc.New(ctx,
			otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlpmetricgrpc.WithInsecure(),
		)
		if err != nil {
			return nil, errors.Join(ErrCreatingObservabilityFailed, err)
		}

		logExporter, err := otlploggrpc.New(ctx,
			otlploggrpc.WithEndpoint(cfg.OTLPEndpoint),
			otlploggrpc.WithInsecure(),
		)
		if err != nil {
			return nil, errors.Join(ErrCreatingObservabilityFailed, err)
		}

		traceOptions = append(traceOptions, trace.WithBatcher(traceExporter))
		metricOptions = append(metricOptions, metric.WithReader(
			metric.NewPeriodicReader(metricExporter, metric.WithInterval(15*time.Second)),
		))
		logOptions = append(logOptions, sdklog.WithProcessor(sdklog.NewBatchProcessor(logExporter)))
	}

	providers := &ObservabilityProviders{
		TracerProvider: trace.NewTracerProvider(traceOptions...),
		MeterProvider:  metric.NewMeterProvider(metricOptions...),
		LoggerProvider: sdklog.NewLoggerProvider(logOptions...),
		Resource:       res,
		Exporting:      cfg.OTLPEndpoint != "",
	}

	otel.SetTracerProvider(providers.TracerProvider)
	otel.SetMeterProvider(providers.MeterProvider)
	global.SetLoggerProvider(providers.LoggerProvider)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	return providers, nil
}

// Shutdown flushes and stops all providers.
func (p *ObservabilityProviders) Shutdown(ctx context.Context) error {
	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
		p.LoggerProvider.Shutdown(ctx),
	)
}
