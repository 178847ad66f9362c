package dashboard

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/refresh"
)

type DashboardServer struct {
	orchestrator *refresh.Orchestrator
	renderer     *Renderer
	charts       ChartLinker
	log          logger.Logger

	locale      string
	pageSize    int
	mapPadding  int
	pollSeconds int
	now         func() time.Time

	router *chi.Mux
	server *http.Server
}

func NewDashboardServer(cfg Config, orchestrator *refresh.Orchestrator, charts ChartLinker, log logger.Logger) (*DashboardServer, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)

	server := &DashboardServer{
		orchestrator: orchestrator,
		renderer:     renderer,
		charts:       charts,
		log:          log,
		locale:       cfg.Locale,
		pageSize:     cfg.PageSize,
		mapPadding:   cfg.MapPadding,
		pollSeconds:  max(1, int(cfg.RefreshInterval/time.Second)),
		now:          time.Now,
		router:       router,
		server: &http.Server{
			Addr:              cfg.ListenAddress,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}

	router.Get("/", func(writer http.ResponseWriter, request *http.Request) {
		http.Redirect(writer, request, "/dashboard", http.StatusFound)
	})
	router.Get("/healthz", server.handleHealth)

	router.Route("/dashboard", func(r chi.Router) {
		r.Get("/", server.handleDashboardPage)
		r.Get("/map.json", server.handleMap)
		r.Post("/filters", server.handleFilters)
		r.Post("/refresh", server.handleRefresh)

		r.Get("/partials/summary", server.handleSummary)
		r.Get("/partials/trips", server.handleTrips)
		r.Get("/partials/vehicles", server.handleVehicles)
		r.Get("/partials/alerts", server.handleAlerts)
		r.Get("/partials/filters", server.handleFiltersPartial)
		r.Get("/partials/notifications", server.handleNotifications)
	})

	router.Route("/config", func(r chi.Router) {
		r.Get("/", server.handleConfigPage)
		r.Post("/sources", server.handleAddSource)
		r.Post("/sources/{id}/update", server.handleUpdateSource)
		r.Post("/sources/{id}/remove", server.handleRemoveSource)
		r.Post("/sources/{id}/activate", server.handleActivateSource)
		r.Post("/test-source", server.handleTestSource)
	})

	router.Post("/notifications/{id}/dismiss", server.handleDismiss)

	return server, nil
}

func (server *DashboardServer) Handler() http.Handler {
	return server.router
}

func (server *DashboardServer) startHosting() {
	err := server.server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		server.log.Errorf("Dashboard server error: %v", err)
	}
}

func (server *DashboardServer) Serve(ctx context.Context) {
	server.log.Logf("Dashboard listening on %s", server.server.Addr)

	go server.startHosting()
	<-ctx.Done()

	server.log.Log("Shutting down.")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	server.server.Shutdown(shutdownCtx)
}
