package connector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/kdg/connector/connector"

// telemetry holds the per-connector tracer and instruments.
type telemetry struct {
	tracer   trace.Tracer
	requests metric.Int64Counter
	duration metric.Float64Histogram
}

func newTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) (*telemetry, error) {
	meter := mp.Meter(instrumentationName)
	requests, err := meter.Int64Counter("connector.requests",
		metric.WithDescription("Number of connector calls by outcome"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create requests counter: %w", err)
	}
	duration, err := meter.Float64Histogram("connector.request.duration",
		metric.WithDescription("Connector call latency"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("create duration histogram: %w", err)
	}
	return &telemetry{
		tracer:   tp.Tracer(instrumentationName),
		requests: requests,
		duration: duration,
	}, nil
}

func (t *telemetry) start(ctx context.Context, name, method string) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, "connector.send",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("connector.name", name),
			attribute.String("http.request.method", method),
		),
	)
}

// finish ends span and records the call. statusCode is 0 when no
// response was received.
func (t *telemetry) finish(ctx context.Context, span trace.Span, name, method string, statusCode int, err error, elapsed time.Duration) {
	outcome := "success"
	if err != nil {
		outcome = "error"
		var ce *Error
		if errors.As(err, &ce) {
			outcome = ce.Kind.String()
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if statusCode > 0 {
		span.SetAttributes(attribute.Int("http.response.status_code", statusCode))
	}
	span.End()

	attrs := metric.WithAttributes(
		attribute.String("connector.name", name),
		attribute.String("http.request.method", method),
		attribute.String("status_class", statusClass(statusCode)),
		attribute.String("outcome", outcome),
	)
	t.requests.Add(ctx, 1, attrs)
	t.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

func statusClass(code int) string {
	if code <= 0 {
		return "none"
	}
	return fmt.Sprintf("%dxx", code/100)
}
