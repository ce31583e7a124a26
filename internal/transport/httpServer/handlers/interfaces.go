package handlers

import (
	"context"

	"gig-scraper/internal/scheduler"
)

// ScrapingScheduler is the scheduler surface the HTTP handlers need.
type ScrapingScheduler interface {
	Status() []scheduler.JobStatus
	TriggerFull(ctx context.Context) error
	TriggerQuick(ctx context.Context) error
}
