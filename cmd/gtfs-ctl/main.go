package main

import (
	"os"

	"github.com/YoanAncelly/gtfs-viewer/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
