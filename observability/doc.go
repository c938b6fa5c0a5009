// Package observability exports connector traces and metrics with
// OpenTelemetry over OTLP/HTTP.
//
//	tel := observability.NewComponent(cfg.Telemetry)
//	registry.Register(tel)
//	registry.Register(connector.NewComponent(cfg.Billing,
//		connector.WithTelemetry(tel.TracerProvider(), tel.MeterProvider())))
//
// With export disabled the otel globals stay no-ops and connectors record
// nothing. Aggregate folds component health into a ServiceHealth.
package observability
