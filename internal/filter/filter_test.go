package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func ptr(value float64) *float64 {
	return &value
}

func sampleVehicles() []model.VehiclePositionRecord {
	return []model.VehiclePositionRecord{
		{VehicleID: "v1", RouteID: "A", CurrentStatus: model.StatusStoppedAt, Latitude: ptr(45.50), Longitude: ptr(-73.56)},
		{VehicleID: "v2", RouteID: "B", CurrentStatus: model.StatusInTransitTo, Latitude: ptr(45.51), Longitude: ptr(-73.57)},
		{VehicleID: "v3", RouteID: "A", CurrentStatus: model.StatusStoppedAt},
	}
}

func ids(vehicles []model.VehiclePositionRecord) []string {
	out := make([]string, 0, len(vehicles))
	for _, vehicle := range vehicles {
		out = append(out, vehicle.VehicleID)
	}
	return out
}

func TestSelectVisible(t *testing.T) {
	vehicles := sampleVehicles()

	tests := []struct {
		name   string
		route  string
		status string
		want   []string
	}{
		{"route A drops vehicles without coordinates", "A", "all", []string{"v1"}},
		{"everything with coordinates", "all", "all", []string{"v1", "v2"}},
		{"empty filters mean all", "", "", []string{"v1", "v2"}},
		{"status filter", "all", "IN_TRANSIT_TO", []string{"v2"}},
		{"both filters", "B", "STOPPED_AT", []string{}},
		{"unknown route", "Z", "all", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(SelectVisible(vehicles, tt.route, tt.status)))
		})
	}
}

func TestSelectVisible_IsSubsetOfInput(t *testing.T) {
	vehicles := sampleVehicles()
	for _, route := range RouteOptions(vehicles) {
		for _, status := range StatusOptions() {
			for _, vehicle := range SelectVisible(vehicles, route, status) {
				assert.Contains(t, vehicles, vehicle)
				assert.True(t, vehicle.HasPosition())
			}
		}
	}
}

func TestSelectRows_KeepsVehiclesWithoutCoordinates(t *testing.T) {
	rows := SelectRows(sampleVehicles(), model.FilterSelection{Route: "A", Status: model.FilterAll})
	assert.Equal(t, []string{"v1", "v3"}, ids(rows))
}

func TestRouteOptions(t *testing.T) {
	vehicles := append(sampleVehicles(), model.VehiclePositionRecord{VehicleID: "v4"})
	assert.Equal(t, []string{"all", "A", "B"}, RouteOptions(vehicles))
	assert.Equal(t, []string{"all"}, RouteOptions(nil))
}

func TestReconcileRoute(t *testing.T) {
	options := []string{"all", "A", "B"}
	assert.Equal(t, "B", ReconcileRoute("B", options))
	assert.Equal(t, "all", ReconcileRoute("C", options))
	assert.Equal(t, "all", ReconcileRoute("all", options))
}

func TestStatusOptions(t *testing.T) {
	options := StatusOptions()
	require.Len(t, options, 4)
	assert.Equal(t, []string{"all", "STOPPED_AT", "IN_TRANSIT_TO", "INCOMING_AT"}, options)
	assert.Equal(t, "all", ReconcileStatus("BOGUS"))
	assert.Equal(t, "INCOMING_AT", ReconcileStatus("INCOMING_AT"))
}
