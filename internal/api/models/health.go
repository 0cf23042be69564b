package models

import "time"

// HealthStatus represents the health status of a service or subsystem.
type HealthStatus string

const (
	HealthStatusOK       HealthStatus = "OK"
	HealthStatusDegraded HealthStatus = "DEGRADED"
	HealthStatusFail     HealthStatus = "FAIL"
)

// Health is the liveness/readiness response body.
type Health struct {
	Status  HealthStatus           `json:"status"`
	Time    time.Time              `json:"time"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// ProviderStatus reports the health of one upstream provider.
type ProviderStatus struct {
	Provider      string       `json:"provider"`
	Status        HealthStatus `json:"status"`
	CircuitState  string       `json:"circuitState"`
	LastSuccessAt *time.Time   `json:"lastSuccessAt,omitempty"`
	LastFailureAt *time.Time   `json:"lastFailureAt,omitempty"`
}

// SystemStatus is the response body for the ops status endpoint.
type SystemStatus struct {
	Status    HealthStatus     `json:"status"`
	Time      time.Time        `json:"time"`
	Providers []ProviderStatus `json:"providers"`
}
