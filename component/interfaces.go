package component

import "context"

// HealthStatus represents the health state of a component.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusUnhealthy HealthStatus = "unhealthy"
	StatusDegraded  HealthStatus = "degraded"
)

// severity orders statuses from best to worst.
var severity = map[HealthStatus]int{
	StatusHealthy:   0,
	StatusDegraded:  1,
	StatusUnhealthy: 2,
}

// Worse returns the more severe of a and b. Unknown statuses rank as
// unhealthy.
func Worse(a, b HealthStatus) HealthStatus {
	if rank(b) > rank(a) {
		return b
	}
	return a
}

func rank(s HealthStatus) int {
	if r, ok := severity[s]; ok {
		return r
	}
	return severity[StatusUnhealthy]
}

// Health holds health information for a component.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Healthy reports whether the component is fully healthy.
func (h Health) Healthy() bool {
	return h.Status == StatusHealthy
}

// Component is a lifecycle-managed dependency such as a connector or a
// telemetry exporter.
type Component interface {
	// Name returns the unique name of the component for registration.
	Name() string

	// Start initializes and starts the component.
	Start(ctx context.Context) error

	// Stop gracefully shuts down the component and releases resources.
	Stop(ctx context.Context) error

	// Health returns the current health status of the component.
	Health(ctx context.Context) Health
}

// Description holds summary information about a started component.
type Description struct {
	// Name is the display name. If empty, the component's Name() is used.
	Name string
	// Type categorizes the component: "connector", "tracer", "meter".
	Type string
	// Details is a one-liner such as the base URL.
	Details string
}

// Describable is optionally implemented by components that can report
// what they are and how they are configured.
type Describable interface {
	Describe() Description
}
