package connector

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/kdg/connector/auth"
	"github.com/kdg/connector/logger"
)

// ErrNoProvider is returned by New when neither an auth provider nor an
// OAuth configuration is supplied.
var ErrNoProvider = errors.New("connector: no auth provider configured")

// Connector is the shared base of an authenticated REST API client.
// It is safe for concurrent use.
type Connector struct {
	cfg        Config
	base       *url.URL
	httpClient *http.Client
	provider   auth.Provider
	log        *logger.Logger
	bodyLog    BodyLogger
	tel        *telemetry
}

// Option configures a Connector.
type Option func(*options)

type options struct {
	provider       auth.Provider
	log            *logger.Logger
	bodyLog        BodyLogger
	httpClient     *http.Client
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithAuth sets the provider that supplies the Authorization header.
func WithAuth(p auth.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithLogger sets the logger. Defaults to logger.Get(cfg.Name).
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithBodyLogger replaces the default body logger.
func WithBodyLogger(b BodyLogger) Option {
	return func(o *options) { o.bodyLog = b }
}

// WithHTTPClient replaces the pooled client built from Config. The client
// must be safe for concurrent use; Close will release its idle connections.
func WithHTTPClient(c *http.Client) Option {
	return func(o *options) { o.httpClient = c }
}

// WithTelemetry sets the trace and meter providers. Nil values fall back
// to the otel globals.
func WithTelemetry(tp trace.TracerProvider, mp metric.MeterProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
		o.meterProvider = mp
	}
}

// New creates a connector. If no provider is given via WithAuth, one is
// built from cfg.Auth with auth.OAuth.
func New(cfg Config, opts ...Option) (*Connector, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	base, err := parseBase(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("connector %s: %w", cfg.Name, err)
	}

	hc := o.httpClient
	if hc == nil {
		hc, err = newHTTPClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("connector %s: %w", cfg.Name, err)
		}
	}

	provider := o.provider
	if provider == nil {
		if cfg.Auth.IsZero() {
			return nil, ErrNoProvider
		}
		provider, err = auth.OAuth(cfg.Auth, auth.WithTokenHTTPClient(hc))
		if err != nil {
			return nil, fmt.Errorf("connector %s: %w", cfg.Name, err)
		}
	}

	log := logger.Get(cfg.Name)
	if o.log != nil {
		log = o.log.WithConnector(cfg.Name)
	}

	bodyLog := o.bodyLog
	if bodyLog == nil {
		bodyLog = NewBodyLogger(log)
	}

	tp := o.tracerProvider
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	mp := o.meterProvider
	if mp == nil {
		mp = otel.GetMeterProvider()
	}
	tel, err := newTelemetry(tp, mp)
	if err != nil {
		return nil, fmt.Errorf("connector %s: %w", cfg.Name, err)
	}

	return &Connector{
		cfg:        cfg,
		base:       base,
		httpClient: hc,
		provider:   provider,
		log:        log,
		bodyLog:    bodyLog,
		tel:        tel,
	}, nil
}

// Name returns the connector name.
func (c *Connector) Name() string {
	return c.cfg.Name
}

// Config returns a copy of the effective configuration.
func (c *Connector) Config() Config {
	return c.cfg
}

// BaseURL returns a copy of the base URL.
func (c *Connector) BaseURL() *url.URL {
	u := *c.base
	return &u
}

// HTTPClient returns the shared client for advanced use cases.
func (c *Connector) HTTPClient() *http.Client {
	return c.httpClient
}

// Close releases idle connections held by the shared client.
func (c *Connector) Close() {
	c.httpClient.CloseIdleConnections()
}
