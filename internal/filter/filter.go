// Package filter selects the vehicle records the views display.
package filter

import (
	"slices"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func normalize(value string) string {
	if value == "" {
		return model.FilterAll
	}
	return value
}

func matches(vehicle model.VehiclePositionRecord, route, status string) bool {
	if route != model.FilterAll && vehicle.RouteID != route {
		return false
	}
	if status != model.FilterAll && string(vehicle.CurrentStatus) != status {
		return false
	}
	return true
}

// SelectVisible keeps the vehicles matching both filters that can be placed
// on the map. Input order is preserved.
func SelectVisible(vehicles []model.VehiclePositionRecord, route, status string) []model.VehiclePositionRecord {
	route, status = normalize(route), normalize(status)

	out := make([]model.VehiclePositionRecord, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if matches(vehicle, route, status) && vehicle.HasPosition() {
			out = append(out, vehicle)
		}
	}
	return out
}

// SelectRows applies the same filters without requiring coordinates.
func SelectRows(vehicles []model.VehiclePositionRecord, selection model.FilterSelection) []model.VehiclePositionRecord {
	route, status := normalize(selection.Route), normalize(selection.Status)

	out := make([]model.VehiclePositionRecord, 0, len(vehicles))
	for _, vehicle := range vehicles {
		if matches(vehicle, route, status) {
			out = append(out, vehicle)
		}
	}
	return out
}

func RouteOptions(vehicles []model.VehiclePositionRecord) []string {
	seen := map[string]struct{}{}
	routes := make([]string, 0)
	for _, vehicle := range vehicles {
		if vehicle.RouteID == "" {
			continue
		}
		if _, ok := seen[vehicle.RouteID]; ok {
			continue
		}
		seen[vehicle.RouteID] = struct{}{}
		routes = append(routes, vehicle.RouteID)
	}
	slices.Sort(routes)

	return append([]string{model.FilterAll}, routes...)
}

// ReconcileRoute keeps selected when it is still offered, else resets to "all".
func ReconcileRoute(selected string, options []string) string {
	if slices.Contains(options, selected) {
		return selected
	}
	return model.FilterAll
}

func StatusOptions() []string {
	options := []string{model.FilterAll}
	for _, status := range model.KnownStatuses {
		options = append(options, string(status))
	}
	return options
}

// ReconcileStatus resets a status that is not one of StatusOptions.
func ReconcileStatus(selected string) string {
	return ReconcileRoute(normalize(selected), StatusOptions())
}
