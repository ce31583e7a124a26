package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"gig-scraper/internal/config"
	"gig-scraper/internal/contentstore"
	"gig-scraper/internal/graceful"
	"gig-scraper/internal/notify"
	"gig-scraper/internal/orchestrator"
	"gig-scraper/internal/processor"
	"gig-scraper/internal/repositories"
	"gig-scraper/internal/scheduler"
	"gig-scraper/internal/scraper"
	"gig-scraper/internal/transport/httpServer"
	"gig-scraper/internal/transport/httpServer/handlers"
	"gig-scraper/internal/transport/httpServer/routers"
	"gig-scraper/internal/utils/logger/handlers/slogpretty"
	"gig-scraper/internal/utils/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var Version = "0.1"

func main() {
	cfg := config.MustLoad()

	log := setupLogger(cfg.Env)

	log.Info(
		"starting gig scraper",
		slog.String("env", cfg.Env),
		slog.String("version", Version),
	)

	shutdownOps := make(map[string]graceful.Operation)

	var store contentstore.Store
	switch cfg.Store.Driver {
	case "postgres":
		repositoryService, err := repositories.New(log, cfg.Store.DB)
		if err != nil {
			log.Error("failed to connect to database", sl.Err(err))
			os.Exit(1)
		}
		shutdownOps["Repository service"] = repositoryService.Shutdown
		store = repositoryService
	case "sanity":
		store = contentstore.NewSanityStore(log, cfg.Store.Sanity)
	default:
		log.Error("unknown store driver", slog.String("driver", cfg.Store.Driver))
		os.Exit(1)
	}

	scraperService, err := scraper.New(log, cfg)
	if err != nil {
		log.Error("failed to create scraper service", sl.Err(err))
		os.Exit(1)
	}

	processorService := processor.New(log, store, cfg.Store.WriteDelay)
	orchestratorService := orchestrator.New(log, scraperService, processorService)

	telegramNotifier, err := notify.NewTelegram(log, cfg.Notify)
	if err != nil {
		log.Error("failed to create telegram notifier", sl.Err(err))
		os.Exit(1)
	}
	var runNotifier scheduler.Notifier
	if telegramNotifier != nil {
		runNotifier = telegramNotifier
	}

	schedulerService, err := scheduler.New(log, cfg.Scheduler, orchestratorService, runNotifier)
	if err != nil {
		log.Error("failed to create scheduler", sl.Err(err))
		os.Exit(1)
	}
	shutdownOps["Scheduler service"] = schedulerService.Shutdown

	// HTTP Server
	scrapingHandler := handlers.NewScrapingHandler(log, schedulerService)
	router := routers.NewRouter(scrapingHandler)
	httpSrv := httpServer.NewHttpServer(log, router, cfg)
	shutdownOps["HTTP server"] = httpSrv.Shutdown

	maxSecond := 15 * time.Second
	waitShutdown := graceful.GracefulShutdown(
		context.Background(),
		maxSecond,
		shutdownOps,
		log,
	)

	if err := schedulerService.StartAll(); err != nil {
		log.Error("failed to start scheduled jobs", sl.Err(err))
		os.Exit(1)
	}
	go httpSrv.Listen()

	<-waitShutdown
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog(slog.LevelDebug)
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = setupPrettySlog(slog.LevelInfo)
	default: // If env config is invalid, set prod settings by default due to security
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog(level slog.Level) *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: level,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
