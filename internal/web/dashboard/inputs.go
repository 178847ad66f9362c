package dashboard

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

// ParseTableQuery reads sort, desc, page and size. Missing or malformed
// values fall back to the table's defaults.
func ParseTableQuery(values url.Values, defaultPageSize int) views.TableQuery {
	query := views.TableQuery{
		Sort:     strings.TrimSpace(values.Get("sort")),
		PageSize: defaultPageSize,
	}

	if desc, err := strconv.ParseBool(values.Get("desc")); err == nil {
		query.Desc = desc
	}
	if page, err := strconv.Atoi(values.Get("page")); err == nil {
		query.Page = page
	}
	if size, err := strconv.Atoi(values.Get("size")); err == nil {
		query.PageSize = size
	}
	return query
}

// ParseFilters keeps the current value of a filter the form did not send.
// An empty value selects everything.
func ParseFilters(values url.Values, current model.FilterSelection) model.FilterSelection {
	selection := current
	if values.Has("route") {
		selection.Route = orAll(values.Get("route"))
	}
	if values.Has("status") {
		selection.Status = orAll(values.Get("status"))
	}
	return selection
}

func orAll(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return model.FilterAll
	}
	return value
}

func formBool(values url.Values, key string) bool {
	switch strings.ToLower(strings.TrimSpace(values.Get(key))) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func ParseSourceForm(values url.Values) model.Source {
	return model.Source{
		Name:               values.Get("name"),
		UseLocalFiles:      formBool(values, "use_local_files"),
		TripUpdateURL:      values.Get("trip_update_url"),
		VehiclePositionURL: values.Get("vehicle_position_url"),
		AlertURL:           values.Get("alert_url"),
	}
}

func ParseSourceURLs(values url.Values) model.SourceURLs {
	return model.SourceURLs{
		TripUpdateURL:      values.Get("trip_update_url"),
		VehiclePositionURL: values.Get("vehicle_position_url"),
		AlertURL:           values.Get("alert_url"),
	}
}
