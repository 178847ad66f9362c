package views

import (
	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type Option struct {
	Value    string
	Label    string
	Selected bool
}

type FiltersView struct {
	Routes   []Option
	Statuses []Option
}

func BuildFilters(translator *Translator, routeOptions []string, selection model.FilterSelection) FiltersView {
	view := FiltersView{}

	for _, route := range routeOptions {
		label := route
		if route == model.FilterAll {
			label = translator.Text(MsgAllRoutes)
		}
		view.Routes = append(view.Routes, Option{Value: route, Label: label, Selected: route == selection.Route})
	}

	for _, status := range filter.StatusOptions() {
		label := translator.Text(MsgAllStatuses)
		if status != model.FilterAll {
			label = StatusText(translator, model.VehicleStatus(status))
		}
		view.Statuses = append(view.Statuses, Option{Value: status, Label: label, Selected: status == selection.Status})
	}

	return view
}
