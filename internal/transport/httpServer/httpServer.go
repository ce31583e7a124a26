package httpServer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"gig-scraper/internal/config"
	"gig-scraper/internal/transport/httpServer/routers"
	"gig-scraper/internal/utils/logger/sl"

	"github.com/go-chi/chi/v5"
)

type HttpServer struct {
	logger *slog.Logger
	server *http.Server
}

func NewHttpServer(logger *slog.Logger, router *routers.Router, cfg *config.Config) *HttpServer {
	mux := chi.NewRouter()
	router.Mount(mux)

	return &HttpServer{
		logger: logger,
		server: &http.Server{
			Addr:         net.JoinHostPort(cfg.HttpServer.Address, cfg.HttpServer.Port),
			Handler:      mux,
			ReadTimeout:  cfg.HttpServer.Timeout,
			WriteTimeout: cfg.HttpServer.Timeout,
		},
	}
}

func (s *HttpServer) Listen() {
	op := "HttpServer.Listen()"
	log := s.logger.With(slog.String("op", op))

	log.Info("http server listening", slog.String("address", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error("http server stopped", sl.Err(err))
	}
}

func (s *HttpServer) Shutdown(ctx context.Context) error {
	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("HttpServer.Shutdown(): %w", err)
	}
	return nil
}
