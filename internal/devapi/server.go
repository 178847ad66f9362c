package devapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YoanAncelly/gtfs-viewer/internal/feed"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
)

type Server struct {
	registry *Registry
	feeds    *FeedStore
	log      logger.Logger
	router   chi.Router
	server   *http.Server
}

func NewServer(cfg Config, log logger.Logger) *Server {
	normalizer := feed.NewNormalizer()
	feeds := NewFeedStore(cfg.DataDir, feed.NewFetcher(cfg.FetchTimeout), normalizer, log)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	server := &Server{
		registry: NewRegistry(cfg.Sources),
		feeds:    feeds,
		log:      log,
		router:   router,
		server: &http.Server{
			Addr:    cfg.ListenAddress,
			Handler: router,
		},
	}

	router.Get("/healthz", server.handleHealth)

	router.Route("/api", func(router chi.Router) {
		router.Get("/config", server.handleConfig)
		router.Post("/config/add-source", server.handleAddSource)
		router.Post("/config/update-source", server.handleUpdateSource)
		router.Post("/config/remove-source", server.handleRemoveSource)
		router.Post("/config/set-current-source", server.handleSetCurrentSource)
		router.Post("/config/test-source", server.handleTestSource)

		router.Post("/refresh-data", server.handleRefreshData)
		router.Get("/all-data", server.handleAllData)
		router.Get("/trip-updates", server.handleTripUpdates)
		router.Get("/vehicle-positions", server.handleVehiclePositions)
		router.Get("/alerts", server.handleAlerts)
	})

	router.Get("/static/charts/{chart}", server.handleChart)

	return server
}

func (server *Server) Handler() http.Handler {
	return server.router
}

func (server *Server) startHosting() {
	err := server.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		server.log.Errorf("server error: %v", err)
	}
}

func (server *Server) Serve(ctx context.Context) {
	server.log.Logf("listening on http://localhost%s", server.server.Addr)

	go server.startHosting()
	<-ctx.Done()

	server.log.Log("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.server.Shutdown(shutdownCtx)
}
