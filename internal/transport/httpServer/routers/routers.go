package routers

import (
	"gig-scraper/internal/transport/httpServer/handlers"
	myMiddleware "gig-scraper/internal/transport/httpServer/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	scrapingHandler *handlers.ScrapingHandler
}

func NewRouter(scrapingHandler *handlers.ScrapingHandler) *Router {
	return &Router{
		scrapingHandler: scrapingHandler,
	}
}

func (r *Router) Mount(mux *chi.Mux) {

	mux.Use(cors.AllowAll().Handler)
	mux.Use(myMiddleware.LoggerMiddleware)
	mux.Use(middleware.Heartbeat("/ping"))

	mux.Get("/health", r.scrapingHandler.Health)

	mux.Route("/api", func(mux chi.Router) {
		mux.Route("/scraping", func(mux chi.Router) {
			mux.Get("/status", r.scrapingHandler.Status)
			mux.Route("/trigger", func(mux chi.Router) {
				mux.Post("/full", r.scrapingHandler.TriggerFull)
				mux.Post("/quick", r.scrapingHandler.TriggerQuick)
			})
		})
	})
}
