package views

import (
	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

const DefaultMapPadding = 50

type PopupLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

type Popup struct {
	Title string      `json:"title"`
	Lines []PopupLine `json:"lines"`
}

type Marker struct {
	VehicleID string  `json:"vehicle_id"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Class     string  `json:"class"`
	Popup     Popup   `json:"popup"`
}

type Bounds struct {
	South float64 `json:"south"`
	West  float64 `json:"west"`
	North float64 `json:"north"`
	East  float64 `json:"east"`
}

// MapView replaces every marker on each render. Bounds is nil when there is
// nothing to fit the viewport to.
type MapView struct {
	Markers []Marker `json:"markers"`
	Bounds  *Bounds  `json:"bounds"`
	Padding [2]int   `json:"padding"`
}

func BuildMap(translator *Translator, vehicles []model.VehiclePositionRecord, selection model.FilterSelection, padding int) MapView {
	if padding <= 0 {
		padding = DefaultMapPadding
	}

	visible := filter.SelectVisible(vehicles, selection.Route, selection.Status)
	view := MapView{
		Markers: make([]Marker, 0, len(visible)),
		Padding: [2]int{padding, padding},
	}

	for _, vehicle := range visible {
		latitude, longitude := *vehicle.Latitude, *vehicle.Longitude

		view.Markers = append(view.Markers, Marker{
			VehicleID: vehicle.VehicleID,
			Latitude:  latitude,
			Longitude: longitude,
			Class:     MarkerClass(vehicle.CurrentStatus),
			Popup:     BuildPopup(translator, vehicle),
		})

		if view.Bounds == nil {
			view.Bounds = &Bounds{South: latitude, North: latitude, West: longitude, East: longitude}
			continue
		}
		view.Bounds.South = min(view.Bounds.South, latitude)
		view.Bounds.North = max(view.Bounds.North, latitude)
		view.Bounds.West = min(view.Bounds.West, longitude)
		view.Bounds.East = max(view.Bounds.East, longitude)
	}

	return view
}

// BuildPopup summarizes a vehicle that has coordinates.
func BuildPopup(translator *Translator, vehicle model.VehiclePositionRecord) Popup {
	position := translator.Text(MsgNotAvailable)
	if vehicle.HasPosition() {
		position = formatFixed(*vehicle.Latitude, 5) + ", " + formatFixed(*vehicle.Longitude, 5)
	}

	return Popup{
		Title: translator.Text(MsgVehicle, vehicle.VehicleID),
		Lines: []PopupLine{
			{Label: translator.Text(MsgTrip), Value: vehicle.TripID},
			{Label: translator.Text(MsgRoute), Value: vehicle.RouteID},
			{Label: translator.Text(MsgPosition), Value: position},
			{Label: translator.Text(MsgSpeed), Value: optionalFixed(translator, vehicle.Speed, 2, " m/s")},
			{Label: translator.Text(MsgBearing), Value: optionalFixed(translator, vehicle.Bearing, 2, "°")},
			{Label: translator.Text(MsgStatus), Value: StatusText(translator, vehicle.CurrentStatus)},
			{Label: translator.Text(MsgTimestamp), Value: optionalText(translator, vehicle.Timestamp)},
		},
	}
}
