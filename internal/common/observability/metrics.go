package observability

import (
	"context"
	"time"

	"kondate-planner/internal/common/logger"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability owns the OpenTelemetry meter provider. A zero value is
// usable and records nothing.
type Observability struct {
	meterProvider *metric.MeterProvider
	meter         otelmetric.Meter
	invocations   otelmetric.Int64Counter
	duration      otelmetric.Float64Histogram
}

func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("Failed to create Prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	invocations, _ := meter.Int64Counter(
		"kondate.invocations",
		otelmetric.WithDescription("Number of handler invocations"),
	)

	duration, _ := meter.Float64Histogram(
		"kondate.invocation.duration",
		otelmetric.WithDescription("Handler invocation duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider: provider,
		meter:         meter,
		invocations:   invocations,
		duration:      duration,
	}
}

func (o *Observability) RecordInvocation(ctx context.Context, taskType, status string) {
	if o == nil || o.invocations == nil {
		return
	}
	o.invocations.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
		attribute.String("status", status),
	))
}

func (o *Observability) RecordDuration(ctx context.Context, taskType string, duration time.Duration) {
	if o == nil || o.duration == nil {
		return
	}
	o.duration.Record(ctx, float64(duration.Milliseconds()), otelmetric.WithAttributes(
		attribute.String("task_type", taskType),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
