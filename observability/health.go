package observability

import "github.com/kdg/connector/component"

// ServiceHealth is the aggregated health of a process and its components.
type ServiceHealth struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Components []component.Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a healthy ServiceHealth.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{
		Service: service,
		Status:  component.StatusHealthy,
		Version: version,
	}
}

// AddComponent records h. An unhealthy component makes the service
// unhealthy; a degraded one degrades it unless it is already unhealthy.
func (sh *ServiceHealth) AddComponent(h component.Health) {
	sh.Components = append(sh.Components, h)
	sh.Status = component.Worse(sh.Status, h.Status)
}

// Aggregate builds a ServiceHealth from component results.
func Aggregate(service, version string, results []component.Health) *ServiceHealth {
	sh := NewServiceHealth(service, version)
	for _, h := range results {
		sh.AddComponent(h)
	}
	return sh
}
