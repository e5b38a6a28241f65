package common

import "time"

// ServiceInfoResponse is the root endpoint payload.
type ServiceInfoResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Description string `json:"description"`
	PhoneNumber string `json:"phone_number"`
}

// HealthResponse reports service liveness.
type HealthResponse struct {
	Status      string    `json:"status"`
	Timestamp   time.Time `json:"timestamp"`
	Environment string    `json:"environment"`
}
