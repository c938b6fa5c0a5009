package connector

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kdg/connector/auth"
	"github.com/kdg/connector/logger"
)

func TestSend_Telemetry(t *testing.T) {
	up := newUpstream(t)
	up.JSON(http.MethodGet, "/ok", http.StatusOK, map[string]int{"id": 1})
	up.JSON(http.MethodGet, "/missing", http.StatusNotFound, map[string]string{"error": "nope"})

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	c, err := New(Config{Name: "billing", BaseURL: up.URL()},
		WithAuth(auth.Bearer("tok")),
		WithLogger(logger.Nop()),
		WithTelemetry(tp, mp),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx := context.Background()
	if _, err := Get[map[string]int](ctx, c, "/ok", CallConfig{}); err != nil {
		t.Fatalf("Get ok: %v", err)
	}
	if _, err := Get[map[string]int](ctx, c, "/missing", CallConfig{}); !IsClassification(err) {
		t.Fatalf("expected classification error, got %v", err)
	}

	ended := spans.Ended()
	if len(ended) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(ended))
	}
	for _, s := range ended {
		if s.Name() != "connector.send" {
			t.Errorf("unexpected span name %q", s.Name())
		}
	}
	if got := spanStatus(ended[0].Attributes()); got != http.StatusOK {
		t.Errorf("expected status attribute 200, got %d", got)
	}
	if ended[0].Status().Code == codes.Error {
		t.Error("expected successful span")
	}
	if ended[1].Status().Code != codes.Error {
		t.Error("expected error status on failed span")
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	total := int64(0)
	outcomes := map[string]int64{}
	var sawHistogram bool
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			switch data := m.Data.(type) {
			case metricdata.Sum[int64]:
				if m.Name != "connector.requests" {
					continue
				}
				for _, dp := range data.DataPoints {
					total += dp.Value
					if v, ok := dp.Attributes.Value("outcome"); ok {
						outcomes[v.AsString()] += dp.Value
					}
				}
			case metricdata.Histogram[float64]:
				if m.Name == "connector.request.duration" {
					sawHistogram = true
				}
			}
		}
	}
	if total != 2 {
		t.Errorf("expected 2 requests counted, got %d", total)
	}
	if outcomes["success"] != 1 || outcomes["classification"] != 1 {
		t.Errorf("unexpected outcomes %v", outcomes)
	}
	if !sawHistogram {
		t.Error("expected duration histogram")
	}
}

func spanStatus(attrs []attribute.KeyValue) int64 {
	for _, a := range attrs {
		if a.Key == "http.response.status_code" {
			return a.Value.AsInt64()
		}
	}
	return 0
}

func TestStatusClass(t *testing.T) {
	tests := map[int]string{0: "none", 200: "2xx", 204: "2xx", 404: "4xx", 503: "5xx"}
	for code, want := range tests {
		if got := statusClass(code); got != want {
			t.Errorf("statusClass(%d): expected %s, got %s", code, want, got)
		}
	}
}

func TestSend_LogsCarryTraceID(t *testing.T) {
	up := newUpstream(t)
	up.JSON(http.MethodGet, "/ok", http.StatusOK, map[string]int{"id": 1})

	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	c, buf := newTestConnector(t, up.URL(), WithTelemetry(tp, nil))

	if _, err := Get[map[string]int](context.Background(), c, "/ok", CallConfig{}); err != nil {
		t.Fatalf("Get: %v", err)
	}
	ended := spans.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	want := `"trace_id":"` + ended[0].SpanContext().TraceID().String() + `"`
	if !strings.Contains(buf.String(), want) {
		t.Errorf("expected %s in logs, got %s", want, buf.String())
	}
}
