package views

import (
	"cmp"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type TripRow struct {
	TripID        string
	RouteID       string
	StopID        string
	DelayMinutes  string
	DelaySeconds  int32
	ArrivalTime   string
	DepartureTime string
}

type TripTable struct {
	TableView
	Rows []TripRow
}

type VehicleRow struct {
	VehicleID   string
	TripID      string
	RouteID     string
	Latitude    string
	Longitude   string
	Speed       string
	Bearing     string
	Status      string
	StatusText  string
	StatusClass string
	Timestamp   string
}

type VehicleTable struct {
	TableView
	Rows []VehicleRow
}

var tripTable = tableLayout[model.TripUpdateRecord]{
	columns: []column[model.TripUpdateRecord]{
		{key: "trip_id", label: MsgTrip, compare: func(a, b model.TripUpdateRecord) int { return cmp.Compare(a.TripID, b.TripID) }},
		{key: "route_id", label: MsgRoute, compare: func(a, b model.TripUpdateRecord) int { return cmp.Compare(a.RouteID, b.RouteID) }},
		{key: "stop_id", label: MsgStop, compare: func(a, b model.TripUpdateRecord) int { return cmp.Compare(a.StopID, b.StopID) }},
		{key: "delay_minutes", label: MsgDelay, compare: func(a, b model.TripUpdateRecord) int { return cmp.Compare(a.DelayMinutes, b.DelayMinutes) }},
		{key: "arrival_time", label: MsgArrival, compare: func(a, b model.TripUpdateRecord) int { return compareOptional(a.ArrivalTime, b.ArrivalTime) }},
		{key: "departure_time", label: MsgDeparture, compare: func(a, b model.TripUpdateRecord) int { return compareOptional(a.DepartureTime, b.DepartureTime) }},
	},
	defaultSort: "delay_minutes",
	defaultDesc: true,
}

var vehicleTable = tableLayout[model.VehiclePositionRecord]{
	columns: []column[model.VehiclePositionRecord]{
		{key: "vehicle_id", label: MsgVehicleID, compare: func(a, b model.VehiclePositionRecord) int { return cmp.Compare(a.VehicleID, b.VehicleID) }},
		{key: "trip_id", label: MsgTrip, compare: func(a, b model.VehiclePositionRecord) int { return cmp.Compare(a.TripID, b.TripID) }},
		{key: "route_id", label: MsgRoute, compare: func(a, b model.VehiclePositionRecord) int { return cmp.Compare(a.RouteID, b.RouteID) }},
		{key: "latitude", label: MsgLatitude, compare: func(a, b model.VehiclePositionRecord) int { return compareOptional(a.Latitude, b.Latitude) }},
		{key: "longitude", label: MsgLongitude, compare: func(a, b model.VehiclePositionRecord) int { return compareOptional(a.Longitude, b.Longitude) }},
		{key: "speed", label: MsgSpeed, compare: func(a, b model.VehiclePositionRecord) int { return compareOptional(a.Speed, b.Speed) }},
		{key: "bearing", label: MsgBearing, compare: func(a, b model.VehiclePositionRecord) int { return compareOptional(a.Bearing, b.Bearing) }},
		{key: "current_status", label: MsgStatus, compare: func(a, b model.VehiclePositionRecord) int { return cmp.Compare(a.CurrentStatus, b.CurrentStatus) }},
		{key: "timestamp", label: MsgTimestamp, compare: func(a, b model.VehiclePositionRecord) int { return compareOptional(a.Timestamp, b.Timestamp) }},
	},
	defaultSort: "trip_id",
}

// BuildTripTable lists trip updates, by default with the largest delay first.
func BuildTripTable(translator *Translator, trips []model.TripUpdateRecord, query TableQuery) TripTable {
	page, view := tripTable.build(translator, trips, query)

	rows := make([]TripRow, 0, len(page))
	for _, trip := range page {
		rows = append(rows, TripRow{
			TripID:        trip.TripID,
			RouteID:       trip.RouteID,
			StopID:        trip.StopID,
			DelayMinutes:  formatNumber(trip.DelayMinutes),
			DelaySeconds:  trip.DelaySeconds,
			ArrivalTime:   optionalText(translator, trip.ArrivalTime),
			DepartureTime: optionalText(translator, trip.DepartureTime),
		})
	}

	return TripTable{TableView: view, Rows: rows}
}

// BuildVehicleTable lists the filtered vehicles, by default ordered by trip.
func BuildVehicleTable(translator *Translator, vehicles []model.VehiclePositionRecord, query TableQuery) VehicleTable {
	page, view := vehicleTable.build(translator, vehicles, query)

	rows := make([]VehicleRow, 0, len(page))
	for _, vehicle := range page {
		rows = append(rows, VehicleRow{
			VehicleID:   vehicle.VehicleID,
			TripID:      vehicle.TripID,
			RouteID:     vehicle.RouteID,
			Latitude:    optionalNumber(translator, vehicle.Latitude, ""),
			Longitude:   optionalNumber(translator, vehicle.Longitude, ""),
			Speed:       optionalNumber(translator, vehicle.Speed, ""),
			Bearing:     optionalNumber(translator, vehicle.Bearing, ""),
			Status:      string(vehicle.CurrentStatus),
			StatusText:  StatusText(translator, vehicle.CurrentStatus),
			StatusClass: StatusClass(vehicle.CurrentStatus),
			Timestamp:   optionalText(translator, vehicle.Timestamp),
		})
	}

	return VehicleTable{TableView: view, Rows: rows}
}
