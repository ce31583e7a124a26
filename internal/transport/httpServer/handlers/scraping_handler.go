package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"gig-scraper/internal/scheduler"
	"gig-scraper/internal/transport/httpServer/handlers/dto"
	"gig-scraper/internal/utils"
	"gig-scraper/internal/utils/logger/sl"
)

const serviceName = "gig-scraper"

type ScrapingHandler struct {
	scheduler ScrapingScheduler
	log       *slog.Logger
}

func NewScrapingHandler(log *slog.Logger, scheduler ScrapingScheduler) *ScrapingHandler {
	return &ScrapingHandler{
		scheduler: scheduler,
		log:       log,
	}
}

// Health handles GET /health.
func (h *ScrapingHandler) Health(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ScrapingHandler.Health()"
	log := h.log.With(slog.String("op", op))

	response := dto.HealthResponse{
		Status:    "OK",
		Timestamp: time.Now().UTC(),
		Service:   serviceName,
	}
	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// Status handles GET /api/scraping/status.
func (h *ScrapingHandler) Status(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ScrapingHandler.Status()"
	log := h.log.With(slog.String("op", op))

	response := dto.StatusResponse{Jobs: h.scheduler.Status()}
	if response.Jobs == nil {
		response.Jobs = []scheduler.JobStatus{}
	}

	if err := utils.Json(w, http.StatusOK, response); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

// TriggerFull handles POST /api/scraping/trigger/full. The run itself is
// fire-and-forget: the endpoint returns as soon as the run has been kicked
// off, and run errors are logged rather than surfaced to the caller.
func (h *ScrapingHandler) TriggerFull(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ScrapingHandler.TriggerFull()"
	log := h.log.With(slog.String("op", op))

	log.Info("manual full scrape triggered via API")
	h.trigger(log, w, "Full scrape triggered successfully", h.scheduler.TriggerFull)
}

// TriggerQuick handles POST /api/scraping/trigger/quick.
func (h *ScrapingHandler) TriggerQuick(w http.ResponseWriter, r *http.Request) {
	op := "httpServer.handlers.ScrapingHandler.TriggerQuick()"
	log := h.log.With(slog.String("op", op))

	log.Info("manual quick scrape triggered via API")
	h.trigger(log, w, "Quick scrape triggered successfully", h.scheduler.TriggerQuick)
}

func (h *ScrapingHandler) trigger(log *slog.Logger, w http.ResponseWriter, message string, run func(ctx context.Context) error) {
	started := make(chan error, 1)

	go func() {
		// Detached from the request context: the run outlives the response
		// and is not cancellable once started.
		err := run(context.Background())
		select {
		case started <- err:
		default:
		}
	}()

	// Only a scheduler that cannot even start the run (stopped, misconfigured)
	// produces a 500; a slow run means it started fine.
	select {
	case err := <-started:
		if err != nil {
			h.respondError(log, fmt.Errorf("failed to trigger scrape: %w", err), w, http.StatusInternalServerError)
			return
		}
	case <-time.After(100 * time.Millisecond):
	}

	if err := utils.Json(w, http.StatusOK, dto.MessageResponse{Message: message}); err != nil {
		log.Error("error encoding response", sl.Err(err))
	}
}

func (h *ScrapingHandler) respondError(log *slog.Logger, err error, w http.ResponseWriter, status int) {
	log.Error("handler error", sl.Err(err))
	if httpErr := utils.Err(w, status, err); httpErr != nil {
		log.Error("error sending http response", sl.Err(httpErr))
	}
}
