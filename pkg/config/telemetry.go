package config

import (
	"context"
	"errors"
	"io"
	"os"
	"time"

	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"

	"github.com/mpapenbr/trackroll/log"
	"github.com/mpapenbr/trackroll/version"
)

type Telemetry struct {
	ctx    context.Context
	metric *metric.MeterProvider
	trace  *trace.TracerProvider
	out    io.Closer
}

// Shutdown flushes pending telemetry data and releases the providers.
func (t *Telemetry) Shutdown() {
	ctx, cancel := context.WithTimeout(t.ctx, 5*time.Second)
	defer cancel()
	err := errors.Join(
		t.trace.Shutdown(ctx),
		t.metric.Shutdown(ctx),
	)
	if t.out != nil {
		err = errors.Join(err, t.out.Close())
	}
	if err != nil {
		log.Warn("telemetry shutdown", log.ErrorField(err))
	}
}

// SetupTelemetry installs global meter and tracer providers which export to
// TelemetryOutput (stderr if empty). Go runtime metrics are collected as well.
func SetupTelemetry(ctx context.Context) (*Telemetry, error) {
	var out io.Writer = os.Stderr
	var closer io.Closer
	if TelemetryOutput != "" {
		f, err := os.Create(TelemetryOutput)
		if err != nil {
			return nil, err
		}
		out, closer = f, f
	}
	res, err := resource.Merge(resource.Default(),
		resource.NewSchemaless(
			attribute.String("service.name", "trackroll"),
			attribute.String("service.version", version.Version)))
	if err != nil {
		return nil, err
	}

	metricExporter, err := stdoutmetric.New(stdoutmetric.WithWriter(out))
	if err != nil {
		return nil, err
	}
	mp := metric.NewMeterProvider(
		metric.WithResource(res),
		metric.WithReader(metric.NewPeriodicReader(metricExporter,
			metric.WithInterval(30*time.Second))),
	)
	otel.SetMeterProvider(mp)

	traceExporter, err := stdouttrace.New(stdouttrace.WithWriter(out))
	if err != nil {
		return nil, err
	}
	tp := trace.NewTracerProvider(
		trace.WithResource(res),
		trace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(tp)

	if err := otlpruntime.Start(
		otlpruntime.WithMinimumReadMemStatsInterval(time.Second)); err != nil {
		log.Warn("Could not start runtime metrics", log.ErrorField(err))
	}
	return &Telemetry{ctx: ctx, metric: mp, trace: tp, out: closer}, nil
}
