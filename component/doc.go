// Package component defines the lifecycle interface shared by connectors
// and telemetry exporters, and a Registry that starts them in order and
// stops them in reverse.
package component
