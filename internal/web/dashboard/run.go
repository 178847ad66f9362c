package dashboard

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/refresh"
	"github.com/YoanAncelly/gtfs-viewer/internal/store"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func Run(cfg Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Component("dashboard")

	var registry prometheus.Registerer = prometheus.NewRegistry()
	if cfg.TelemetryAddr != "" {
		telemetry := common.NewTelemetryServer(cfg.TelemetryAddr, logger.Component("telemetry"))
		if err := telemetry.Start(); err != nil {
			log.Errorf("Cannot start telemetry server: %v", err)
			return -1
		}
		defer telemetry.Stop()
		registry = telemetry.GetRegistry()
	}
	metrics := common.NewMetrics(registry)

	client := api.NewClient(
		cfg.APIBaseURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithMetrics(metrics),
		api.WithLogger(logger.Component("api")),
	)

	orchestrator := refresh.NewOrchestrator(client, store.New(), refresh.NewNotifier(refresh.NotificationTTL), refresh.Options{
		Interval:   cfg.RefreshInterval,
		Translator: views.NewTranslator(cfg.Locale),
		Metrics:    metrics,
		Logger:     logger.Component("refresh"),
	})

	server, err := NewDashboardServer(cfg, orchestrator, client, log)
	if err != nil {
		log.Errorf("Cannot load templates: %v", err)
		return -1
	}

	log.Logf("Polling %s every %s", client.BaseURL(), cfg.RefreshInterval)
	if err := orchestrator.Start(ctx); err != nil {
		log.Errorf("Cannot start refresh: %v", err)
		return -1
	}
	defer orchestrator.Stop()

	server.Serve(ctx)
	return 0
}
