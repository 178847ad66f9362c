package main

import (
	"os"

	"github.com/YoanAncelly/gtfs-viewer/internal/devapi"
)

func main() {
	os.Exit(devapi.Main(os.Args[0], os.Args[1:], os.Stdout, os.Stderr))
}
