package connector

import (
	"context"
	"sync"

	"github.com/kdg/connector/component"
)

// Component wraps a Connector with lifecycle management. The connector
// is built in Start and its idle connections are released in Stop.
type Component struct {
	config Config
	opts   []Option

	mu   sync.RWMutex
	conn *Connector
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates a connector component. The connector is created in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return "connector"
	}
	return c.config.Name
}

// Start builds the connector.
func (c *Component) Start(_ context.Context) error {
	conn, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	return nil
}

// Stop releases idle connections.
func (c *Component) Stop(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
	return nil
}

// Health reports healthy once the connector has been built.
func (c *Component) Health(_ context.Context) component.Health {
	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if c.Connector() == nil {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe returns the component description.
func (c *Component) Describe() component.Description {
	return component.Description{
		Name:    c.Name(),
		Type:    "connector",
		Details: c.config.BaseURL,
	}
}

// Connector returns the underlying connector, or nil before Start.
func (c *Component) Connector() *Connector {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn
}
