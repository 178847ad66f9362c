package main

import (
	"os"

	"github.com/YoanAncelly/gtfs-viewer/internal/web/dashboard"
)

func main() {
	os.Exit(dashboard.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
