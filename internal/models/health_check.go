package models

import "time"

type HealthCheck struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Source    string                 `json:"source"`
	Services  map[string]string      `json:"services"`
	Stats     map[string]interface{} `json:"stats,omitempty"`
}

const (
	Healthy       = "healthy"
	Unhealthy     = "unhealthy"
	NotConfigured = "not configured"
)
