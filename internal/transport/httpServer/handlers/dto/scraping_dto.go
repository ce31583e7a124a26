package dto

import (
	"time"

	"gig-scraper/internal/scheduler"
)

// HealthResponse — body of GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
}

// StatusResponse — body of GET /api/scraping/status.
type StatusResponse struct {
	Jobs []scheduler.JobStatus `json:"jobs"`
}

// MessageResponse — body of the trigger endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
