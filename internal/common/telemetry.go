package common

import (
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
)

type Metrics struct {
	HttpRequestSeconds     *prometheus.HistogramVec
	HttpErrorsTotal        *prometheus.CounterVec
	RefreshCyclesTotal     *prometheus.CounterVec
	RefreshDurationSeconds *prometheus.HistogramVec
	StaleSnapshotsTotal    prometheus.Counter
	SnapshotRecords        *prometheus.GaugeVec
}

func NewMetrics(registry prometheus.Registerer) *Metrics {
	metrics := &Metrics{
		HttpRequestSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtfs_dashboard_api_request_seconds",
				Help:    "Time from request start to decoded response for backend API calls",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		HttpErrorsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtfs_dashboard_api_errors_total",
				Help: "Failed backend API calls by endpoint and failure kind",
			},
			[]string{"endpoint", "kind"},
		),
		RefreshCyclesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "gtfs_dashboard_refresh_cycles_total",
				Help: "Completed refresh cycles by trigger and outcome",
			},
			[]string{"trigger", "outcome"},
		),
		RefreshDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "gtfs_dashboard_refresh_duration_seconds",
				Help:    "Duration of fetch-then-apply refresh cycles",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"trigger"},
		),
		StaleSnapshotsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "gtfs_dashboard_stale_snapshots_total",
				Help: "Responses discarded because a newer request was already applied",
			},
		),
		SnapshotRecords: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "gtfs_dashboard_snapshot_records",
				Help: "Records held in the current snapshot per feed",
			},
			[]string{"feed"},
		),
	}

	registry.MustRegister(
		metrics.HttpRequestSeconds,
		metrics.HttpErrorsTotal,
		metrics.RefreshCyclesTotal,
		metrics.RefreshDurationSeconds,
		metrics.StaleSnapshotsTotal,
		metrics.SnapshotRecords,
	)

	return metrics
}

type TelemetryServer struct {
	addr     string
	mux      *http.ServeMux
	registry *prometheus.Registry
	log      logger.Logger

	server   *http.Server
	listener net.Listener
}

func NewTelemetryServer(addr string, log logger.Logger) *TelemetryServer {
	telemetry := &TelemetryServer{
		addr:     addr,
		registry: prometheus.NewRegistry(),
		mux:      http.NewServeMux(),
		log:      log,
	}

	telemetry.mux.Handle(
		"/metrics",
		promhttp.HandlerFor(telemetry.registry, promhttp.HandlerOpts{}),
	)

	buildInfo := prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "gtfs_build_info",
			Help: "Build metadata",
		},
		[]string{"version", "git_commit"},
	)

	telemetry.registry.MustRegister(
		collectors.NewGoCollector(), // Go runtime metrics
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		buildInfo,
	)

	buildInfo.WithLabelValues(Version, GitCommit).Set(1)

	telemetry.mux.HandleFunc("/debug/pprof/", pprof.Index)
	telemetry.mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	telemetry.mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	telemetry.mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	telemetry.mux.HandleFunc("/debug/pprof/trace", pprof.Trace)

	return telemetry
}

func (telemetry *TelemetryServer) GetRegistry() *prometheus.Registry {
	return telemetry.registry
}

func (telemetry *TelemetryServer) Start() error {
	telemetry.server = &http.Server{
		Addr:              telemetry.addr,
		Handler:           telemetry.mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	listener, err := net.Listen("tcp", telemetry.addr)
	if err != nil {
		return err
	}

	telemetry.listener = listener

	go telemetry.server.Serve(telemetry.listener)

	telemetry.log.Logf("Telemetry server started: %s", telemetry.listener.Addr())
	return nil
}

func (telemetry *TelemetryServer) Stop() error {
	if telemetry.server == nil {
		return nil
	}

	return telemetry.server.Close()
}
