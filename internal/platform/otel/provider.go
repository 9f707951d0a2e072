// Package otel turns on span export for a toyrobot process when an OTLP
// collector is configured, and otherwise stays out of the way.
package otel

import (
	"context"
	"os"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

const (
	envEndpoint = "TOYROBOT_OTEL_ENDPOINT"
	envEnabled  = "TOYROBOT_OTEL_ENABLED"
)

// ShutdownFunc flushes pending spans. It is always safe to call.
type ShutdownFunc func(context.Context) error

func noopShutdown(context.Context) error { return nil }

// collectorEndpoint reports where spans should go, if anywhere.
func collectorEndpoint() (string, bool) {
	if strings.EqualFold(os.Getenv(envEnabled), "false") {
		return "", false
	}
	endpoint := strings.TrimSpace(os.Getenv(envEndpoint))
	return endpoint, endpoint != ""
}

// Setup points the global tracer provider at the collector named by
// TOYROBOT_OTEL_ENDPOINT, tagging every span with service. Without an
// endpoint, or with TOYROBOT_OTEL_ENABLED=false, the global no-op provider is
// left alone and robot spans are free.
func Setup(ctx context.Context, service string) (ShutdownFunc, error) {
	endpoint, ok := collectorEndpoint()
	if !ok {
		return noopShutdown, nil
	}

	exporter, err := otlptracehttp.New(ctx, otlptracehttp.WithEndpointURL(endpoint))
	if err != nil {
		return noopShutdown, err
	}
	res, err := resource.New(ctx, resource.WithAttributes(semconv.ServiceName(service)))
	if err != nil {
		return noopShutdown, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)
	return tp.Shutdown, nil
}
