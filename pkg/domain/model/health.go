package model

// HealthStatus is served by GET /health.
type HealthStatus struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Version string `json:"version"`
	Busy    bool   `json:"busy"` // a fetch run is in progress
}
