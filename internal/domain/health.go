package domain

import "time"

type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

type HealthResponse struct {
	Status    HealthStatus `json:"status"`
	Timestamp time.Time    `json:"timestamp"`
	AgentID   string       `json:"agent_id"`
	Message   string       `json:"message,omitempty"`
}

// ServiceStatus is the snapshot served by the status endpoint.
type ServiceStatus struct {
	AgentID      string    `json:"agent_id"`
	IsRunning    bool      `json:"is_running"`
	RunActive    bool      `json:"run_active"`
	Current      string    `json:"current,omitempty"`
	PollInterval string    `json:"poll_interval"`
	Probes       int       `json:"probes"`
	LastRunID    string    `json:"last_run_id,omitempty"`
	LastRunAt    time.Time `json:"last_run_at,omitempty"`
	Counts       Counts    `json:"counts"`
}
