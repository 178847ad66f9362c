package dashboard

import (
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const (
	PageDashboard = "dashboard"
	PageConfig    = "config"
)

type NotificationVM struct {
	ID      string
	Level   string
	Message string
}

type NotificationsVM struct {
	T     *views.Translator
	Items []NotificationVM
}

type HeaderVM struct {
	views.ColumnView
	URL string
}

// LinksVM holds the partial URLs of a table: Self reloads the current view,
// Prev and Next are empty when there is no such page.
type LinksVM struct {
	Base string
	Self string
	Prev string
	Next string
}

type TripsVM struct {
	T           *views.Translator
	Table       views.TripTable
	Headers     []HeaderVM
	Links       LinksVM
	PollSeconds int
}

type VehiclesVM struct {
	T           *views.Translator
	Table       views.VehicleTable
	Headers     []HeaderVM
	Links       LinksVM
	PollSeconds int
}

type SummaryVM struct {
	T           *views.Translator
	Summary     views.SummaryView
	Age         string
	Refreshing  bool
	PollSeconds int
}

type FiltersVM struct {
	T       *views.Translator
	Filters views.FiltersView
}

type AlertsVM struct {
	T           *views.Translator
	Alerts      views.AlertsView
	PollSeconds int
}

type DashboardVM struct {
	Summary  SummaryVM
	Filters  FiltersVM
	Trips    TripsVM
	Vehicles VehiclesVM
	Alerts   AlertsVM
}

type TestResultsVM struct {
	T     *views.Translator
	Lines []views.TestResultLine
}

type ConfigVM struct {
	T      *views.Translator
	Config views.ConfigView
	Loaded bool
}

// PageVM is the data of a full page. Exactly one of Dashboard and Config is
// set, matching Active.
type PageVM struct {
	T             *views.Translator
	Lang          string
	Active        string
	PollSeconds   int
	MapPadding    int
	Notifications NotificationsVM
	Dashboard     *DashboardVM
	Config        *ConfigVM
}
