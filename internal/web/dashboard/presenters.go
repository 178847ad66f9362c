package dashboard

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/refresh"
	"github.com/YoanAncelly/gtfs-viewer/internal/store"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const (
	tripsPartial    = "/dashboard/partials/trips"
	vehiclesPartial = "/dashboard/partials/vehicles"
)

// ChartLinker builds the cache-busted URL of a chart served by the backend.
type ChartLinker interface {
	ChartURL(chart string, now time.Time) string
}

type presenter struct {
	translator  *views.Translator
	charts      ChartLinker
	pollSeconds int
	now         func() time.Time
}

func tableURL(base string, sort string, desc bool, page, size int) string {
	values := url.Values{}
	if sort != "" {
		values.Set("sort", sort)
		values.Set("desc", strconv.FormatBool(desc))
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("size", strconv.Itoa(size))
	return base + "?" + values.Encode()
}

// tableLinks derives the header and pager URLs of a rendered table. Clicking
// the sorted column flips its direction; any sort change returns to page 1.
func tableLinks(base string, table views.TableView) ([]HeaderVM, LinksVM) {
	headers := make([]HeaderVM, 0, len(table.Columns))
	for _, column := range table.Columns {
		desc := false
		if column.Sorted {
			desc = !column.Desc
		}
		headers = append(headers, HeaderVM{
			ColumnView: column,
			URL:        tableURL(base, column.Key, desc, 1, table.PageSize),
		})
	}

	links := LinksVM{
		Base: base,
		Self: tableURL(base, table.Sort, table.Desc, table.Page, table.PageSize),
	}
	if table.HasPrev() {
		links.Prev = tableURL(base, table.Sort, table.Desc, table.PrevPage, table.PageSize)
	}
	if table.HasNext() {
		links.Next = tableURL(base, table.Sort, table.Desc, table.NextPage, table.PageSize)
	}
	return headers, links
}

func (p presenter) summary(state store.State, refreshing bool) SummaryVM {
	chartURL := func(chart string) string {
		return p.charts.ChartURL(chart, state.UpdatedAt)
	}
	vm := SummaryVM{
		T:           p.translator,
		Summary:     views.BuildSummary(p.translator, state.Data, state.UpdatedAt, chartURL),
		Refreshing:  refreshing,
		PollSeconds: p.pollSeconds,
	}
	if state.HasData {
		vm.Age = formatAge(p.now(), state.UpdatedAt)
	}
	return vm
}

func formatAge(now, then time.Time) string {
	d := now.Sub(then)
	if d < 0 {
		d = 0
	}
	if d < 10*time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	return fmt.Sprintf("%dh", int(d.Hours()))
}

func (p presenter) filters(state store.State) FiltersVM {
	return FiltersVM{
		T:       p.translator,
		Filters: views.BuildFilters(p.translator, state.RouteOptions, state.Filters),
	}
}

func (p presenter) trips(state store.State, query views.TableQuery) TripsVM {
	table := views.BuildTripTable(p.translator, state.Data.TripUpdates.Data, query)
	headers, links := tableLinks(tripsPartial, table.TableView)
	return TripsVM{T: p.translator, Table: table, Headers: headers, Links: links, PollSeconds: p.pollSeconds}
}

func (p presenter) vehicles(state store.State, query views.TableQuery) VehiclesVM {
	rows := filter.SelectRows(state.Data.VehiclePositions.Data, state.Filters)
	table := views.BuildVehicleTable(p.translator, rows, query)
	headers, links := tableLinks(vehiclesPartial, table.TableView)
	return VehiclesVM{T: p.translator, Table: table, Headers: headers, Links: links, PollSeconds: p.pollSeconds}
}

func (p presenter) alerts(state store.State) AlertsVM {
	return AlertsVM{
		T:           p.translator,
		Alerts:      views.BuildAlerts(p.translator, state.Data.Alerts),
		PollSeconds: p.pollSeconds,
	}
}

func (p presenter) dashboard(state store.State, refreshing bool, pageSize int) *DashboardVM {
	query := views.TableQuery{PageSize: pageSize}
	return &DashboardVM{
		Summary:  p.summary(state, refreshing),
		Filters:  p.filters(state),
		Trips:    p.trips(state, query),
		Vehicles: p.vehicles(state, query),
		Alerts:   p.alerts(state),
	}
}

func (p presenter) config(state store.State) ConfigVM {
	return ConfigVM{
		T:      p.translator,
		Config: views.BuildConfig(p.translator, state.Config),
		Loaded: state.HasConfig,
	}
}

func (p presenter) notifications(active []refresh.Notification) NotificationsVM {
	items := make([]NotificationVM, 0, len(active))
	for _, notification := range active {
		items = append(items, NotificationVM{
			ID:      notification.ID,
			Level:   string(notification.Level),
			Message: notification.Message,
		})
	}
	return NotificationsVM{T: p.translator, Items: items}
}

func (p presenter) page(active string, mapPadding int, notifications []refresh.Notification) PageVM {
	return PageVM{
		T:             p.translator,
		Lang:          p.translator.Lang(),
		Active:        active,
		PollSeconds:   p.pollSeconds,
		MapPadding:    mapPadding,
		Notifications: p.notifications(notifications),
	}
}
