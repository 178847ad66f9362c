package dashboard

import (
	"bytes"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/YoanAncelly/gtfs-viewer/internal/refresh"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

// Client-side events announced through the HX-Trigger response header.
const (
	eventNotifications = "notifications-changed"
	eventDataRefreshed = "data-refreshed"
	eventFilters       = "filters-changed"
)

func isHTMX(request *http.Request) bool {
	return request.Header.Get("HX-Request") == "true"
}

// presenter picks the interface language: the configured locale wins, then
// the browser's Accept-Language.
func (server *DashboardServer) presenter(request *http.Request) presenter {
	preferences := make([]string, 0, 2)
	if server.locale != "" {
		preferences = append(preferences, server.locale)
	}
	if accept := request.Header.Get("Accept-Language"); accept != "" {
		preferences = append(preferences, accept)
	}

	return presenter{
		translator:  views.NewTranslator(preferences...),
		charts:      server.charts,
		pollSeconds: server.pollSeconds,
		now:         server.now,
	}
}

func (server *DashboardServer) render(writer http.ResponseWriter, status int, name string, data any) {
	var buffer bytes.Buffer
	if err := server.renderer.Render(&buffer, name, data); err != nil {
		server.log.Errorf("Rendering %s failed: %v", name, err)
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}

	writer.Header().Set("Content-Type", "text/html; charset=utf-8")
	writer.WriteHeader(status)
	buffer.WriteTo(writer)
}

func (server *DashboardServer) writeJSON(writer http.ResponseWriter, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.Write(payload)
}

func (server *DashboardServer) notificationsVM(p presenter) NotificationsVM {
	return p.notifications(server.orchestrator.Notifier().Active())
}

type healthResponse struct {
	Status    string     `json:"status"`
	Phase     string     `json:"phase"`
	HasData   bool       `json:"has_data"`
	HasConfig bool       `json:"has_config"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

func (server *DashboardServer) handleHealth(writer http.ResponseWriter, request *http.Request) {
	state := server.orchestrator.Store().Snapshot()
	response := healthResponse{
		Status:    "ok",
		Phase:     string(server.orchestrator.Phase()),
		HasData:   state.HasData,
		HasConfig: state.HasConfig,
	}
	if state.HasData {
		response.UpdatedAt = &state.UpdatedAt
	}
	server.writeJSON(writer, response)
}

func (server *DashboardServer) handleDashboardPage(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	state := server.orchestrator.Store().Snapshot()

	viewmodel := p.page(PageDashboard, server.mapPadding, server.orchestrator.Notifier().Active())
	viewmodel.Dashboard = p.dashboard(state, server.orchestrator.ManualRefreshRunning(), server.pageSize)

	server.render(writer, http.StatusOK, "layout.html", viewmodel)
}

func (server *DashboardServer) handleSummary(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	state := server.orchestrator.Store().Snapshot()
	server.render(writer, http.StatusOK, "summary.html", p.summary(state, server.orchestrator.ManualRefreshRunning()))
}

func (server *DashboardServer) handleTrips(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	query := ParseTableQuery(request.URL.Query(), server.pageSize)
	server.render(writer, http.StatusOK, "trips.html", p.trips(server.orchestrator.Store().Snapshot(), query))
}

func (server *DashboardServer) handleVehicles(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	query := ParseTableQuery(request.URL.Query(), server.pageSize)
	server.render(writer, http.StatusOK, "vehicles.html", p.vehicles(server.orchestrator.Store().Snapshot(), query))
}

func (server *DashboardServer) handleAlerts(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	server.render(writer, http.StatusOK, "alerts.html", p.alerts(server.orchestrator.Store().Snapshot()))
}

func (server *DashboardServer) handleFiltersPartial(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	server.render(writer, http.StatusOK, "filters.html", p.filters(server.orchestrator.Store().Snapshot()))
}

func (server *DashboardServer) handleNotifications(writer http.ResponseWriter, request *http.Request) {
	server.render(writer, http.StatusOK, "notifications.html", server.notificationsVM(server.presenter(request)))
}

func (server *DashboardServer) handleMap(writer http.ResponseWriter, request *http.Request) {
	p := server.presenter(request)
	state := server.orchestrator.Store().Snapshot()
	server.writeJSON(writer, views.BuildMap(p.translator, state.Data.VehiclePositions.Data, state.Filters, server.mapPadding))
}

func (server *DashboardServer) handleFilters(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	current := server.orchestrator.Store().Snapshot().Filters
	state := server.orchestrator.SetFilters(ParseFilters(request.PostForm, current))

	if !isHTMX(request) {
		http.Redirect(writer, request, "/dashboard", http.StatusSeeOther)
		return
	}
	writer.Header().Set("HX-Trigger", eventFilters)
	server.render(writer, http.StatusOK, "filters.html", server.presenter(request).filters(state))
}

// handleRefresh runs a manual refresh to completion and answers with the
// notifications it produced. A refresh already in flight yields 409.
func (server *DashboardServer) handleRefresh(writer http.ResponseWriter, request *http.Request) {
	err := server.orchestrator.ManualRefresh(request.Context())

	status := http.StatusOK
	if errors.Is(err, refresh.ErrRefreshInProgress) {
		status = http.StatusConflict
	}

	if !isHTMX(request) && status == http.StatusOK {
		http.Redirect(writer, request, "/dashboard", http.StatusSeeOther)
		return
	}
	if err == nil {
		writer.Header().Set("HX-Trigger", eventDataRefreshed)
	}
	server.render(writer, status, "notifications.html", server.notificationsVM(server.presenter(request)))
}

func (server *DashboardServer) handleConfigPage(writer http.ResponseWriter, request *http.Request) {
	// The last known config is shown when the reload fails.
	if err := server.orchestrator.ReloadConfig(request.Context()); err != nil {
		server.log.Warnf("Cannot reload configuration: %v", err)
	}

	p := server.presenter(request)
	config := p.config(server.orchestrator.Store().Snapshot())

	viewmodel := p.page(PageConfig, server.mapPadding, server.orchestrator.Notifier().Active())
	viewmodel.Config = &config

	server.render(writer, http.StatusOK, "layout.html", viewmodel)
}

// finishSourceAction answers a source action. Its outcome is reported as a
// notification, so only an unknown source changes the status code.
func (server *DashboardServer) finishSourceAction(writer http.ResponseWriter, request *http.Request, err error) {
	status := http.StatusOK
	if errors.Is(err, refresh.ErrSourceNotFound) {
		status = http.StatusNotFound
	}

	if !isHTMX(request) {
		http.Redirect(writer, request, "/config", http.StatusSeeOther)
		return
	}
	writer.Header().Set("HX-Trigger", eventNotifications)
	server.render(writer, status, "config.html", server.presenter(request).config(server.orchestrator.Store().Snapshot()))
}

func (server *DashboardServer) handleAddSource(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	err := server.orchestrator.AddSource(request.Context(), ParseSourceForm(request.PostForm))
	server.finishSourceAction(writer, request, err)
}

func (server *DashboardServer) handleUpdateSource(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}
	id := chi.URLParam(request, "id")
	err := server.orchestrator.UpdateSource(request.Context(), id, ParseSourceForm(request.PostForm))
	server.finishSourceAction(writer, request, err)
}

func (server *DashboardServer) handleRemoveSource(writer http.ResponseWriter, request *http.Request) {
	err := server.orchestrator.RemoveSource(request.Context(), chi.URLParam(request, "id"))
	server.finishSourceAction(writer, request, err)
}

func (server *DashboardServer) handleActivateSource(writer http.ResponseWriter, request *http.Request) {
	err := server.orchestrator.ActivateSource(request.Context(), chi.URLParam(request, "id"))
	server.finishSourceAction(writer, request, err)
}

func (server *DashboardServer) handleTestSource(writer http.ResponseWriter, request *http.Request) {
	if err := request.ParseForm(); err != nil {
		http.Error(writer, err.Error(), http.StatusBadRequest)
		return
	}

	p := server.presenter(request)
	results, err := server.orchestrator.TestSource(request.Context(), ParseSourceURLs(request.PostForm))
	if err != nil {
		writer.Header().Set("HX-Trigger", eventNotifications)
	}
	server.render(writer, http.StatusOK, "test_results.html", TestResultsVM{
		T:     p.translator,
		Lines: views.BuildTestResults(p.translator, results),
	})
}

func (server *DashboardServer) handleDismiss(writer http.ResponseWriter, request *http.Request) {
	status := http.StatusOK
	if !server.orchestrator.Notifier().Dismiss(chi.URLParam(request, "id")) {
		status = http.StatusNotFound
	}
	server.render(writer, status, "notifications.html", server.notificationsVM(server.presenter(request)))
}
