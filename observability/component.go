package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kdg/connector/component"
)

// Component owns the tracer and meter providers. Register it before any
// connector so providers exist when connectors start, and are flushed
// after connectors stop.
type Component struct {
	cfg Config

	mu sync.RWMutex
	tp *sdktrace.TracerProvider
	mp *sdkmetric.MeterProvider
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a telemetry component.
func NewComponent(cfg Config) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg}
}

// Name returns the component name.
func (c *Component) Name() string { return "telemetry" }

// Start initializes both providers when enabled.
func (c *Component) Start(ctx context.Context) error {
	if !c.cfg.Enabled {
		return nil
	}
	if err := c.cfg.Validate(); err != nil {
		return err
	}
	tp, err := InitTracer(ctx, c.cfg)
	if err != nil {
		return err
	}
	mp, err := InitMeter(ctx, c.cfg)
	if err != nil {
		_ = tp.Shutdown(ctx)
		return err
	}
	c.mu.Lock()
	c.tp, c.mp = tp, mp
	c.mu.Unlock()
	return nil
}

// Stop flushes and shuts down the providers.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	tp, mp := c.tp, c.mp
	c.tp, c.mp = nil, nil
	c.mu.Unlock()

	var errs []error
	if tp != nil {
		if err := tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
	}
	if mp != nil {
		if err := mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Health reports degraded when export is disabled.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.cfg.Enabled {
		h.Status = component.StatusDegraded
		h.Message = "export disabled"
		return h
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tp == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	details := "disabled"
	if c.cfg.Enabled {
		details = fmt.Sprintf("otlp http %s sample=%.2f", c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Type: "telemetry", Details: details}
}

// TracerProvider returns the started provider, or the otel global.
func (c *Component) TracerProvider() trace.TracerProvider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.tp == nil {
		return otel.GetTracerProvider()
	}
	return c.tp
}

// MeterProvider returns the started provider, or the otel global.
func (c *Component) MeterProvider() metric.MeterProvider {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.mp == nil {
		return otel.GetMeterProvider()
	}
	return c.mp
}
