package devapi

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
)

func Run(cfg Config) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Component("devapi")
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		log.Errorf("Cannot create data directory %s: %v", cfg.DataDir, err)
		return -1
	}

	current, _ := cfg.Sources.Current()
	log.Logf("Serving %d sources from %s, current is %q", len(cfg.Sources.Sources), cfg.DataDir, current.Name)

	NewServer(cfg, log).Serve(ctx)
	return 0
}
