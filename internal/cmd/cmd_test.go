package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/proto"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/devapi"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func writeFeed(t *testing.T, path string, entities ...*gtfs.FeedEntity) {
	t.Helper()
	payload, err := proto.Marshal(&gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{GtfsRealtimeVersion: proto.String("2.0")},
		Entity: entities,
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, payload, 0o644))
}

func trip(id, route string, delay int32) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id: proto.String(id),
		TripUpdate: &gtfs.TripUpdate{
			Trip: &gtfs.TripDescriptor{TripId: proto.String(id), RouteId: proto.String(route)},
			StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{{
				StopId:  proto.String("S1"),
				Arrival: &gtfs.TripUpdate_StopTimeEvent{Delay: proto.Int32(delay)},
			}},
		},
	}
}

func vehicle(id, route string, status gtfs.VehiclePosition_VehicleStopStatus) *gtfs.FeedEntity {
	return &gtfs.FeedEntity{
		Id: proto.String(id),
		Vehicle: &gtfs.VehiclePosition{
			Trip:          &gtfs.TripDescriptor{TripId: proto.String("T-" + id), RouteId: proto.String(route)},
			Vehicle:       &gtfs.VehicleDescriptor{Id: proto.String(id)},
			CurrentStatus: status.Enum(),
		},
	}
}

func newBackend(t *testing.T) (*httptest.Server, string) {
	t.Helper()

	dataDir := t.TempDir()
	writeFeed(t, filepath.Join(dataDir, "TripUpdate.pb"), trip("T1", "R1", 60), trip("T2", "R2", 900))
	writeFeed(t, filepath.Join(dataDir, "VehiclePosition.pb"),
		vehicle("V1", "R1", gtfs.VehiclePosition_STOPPED_AT),
		vehicle("V2", "R2", gtfs.VehiclePosition_INCOMING_AT),
		vehicle("V3", "R2", gtfs.VehiclePosition_INCOMING_AT),
	)
	writeFeed(t, filepath.Join(dataDir, "Alert.pb"), &gtfs.FeedEntity{
		Id: proto.String("A1"),
		Alert: &gtfs.Alert{
			HeaderText:     &gtfs.TranslatedString{Translation: []*gtfs.TranslatedString_Translation{{Text: proto.String("Works")}}},
			Effect:         gtfs.Alert_NO_SERVICE.Enum(),
			InformedEntity: []*gtfs.EntitySelector{{RouteId: proto.String("R1")}},
		},
	})

	server := httptest.NewServer(devapi.NewServer(devapi.Config{
		ListenAddress: ":0",
		DataDir:       dataDir,
		FetchTimeout:  time.Second,
		Sources:       model.SourceConfig{Sources: []model.Source{{Name: "Local", UseLocalFiles: true}}},
	}, logger.New(io.Discard)).Handler())
	t.Cleanup(server.Close)
	return server, dataDir
}

func run(t *testing.T, apiURL string, args ...string) (string, error) {
	t.Helper()

	root := NewRootCmd(&GtfsCtlApp{})
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--api", apiURL}, args...))

	err := root.Execute()
	return out.String(), err
}

func TestSources_Lifecycle(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "sources")
	require.NoError(t, err)
	assert.Contains(t, out, "Local files")
	assert.Regexp(t, `(?m)^\*\s+0\s+`, out)

	out, err = run(t, backend.URL, "sources", "add", "--name", "Remote", "--alert-url", "http://alerts.example/a.pb")
	require.NoError(t, err)
	assert.Equal(t, "Added source \"Remote\"\n", out)

	out, err = run(t, backend.URL, "sources", "use", "1")
	require.NoError(t, err)
	assert.Contains(t, out, `"Remote"`)

	config, err := api.NewClient(backend.URL).GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, config.CurrentSource)

	remoteID := config.Entries()[1].ID
	_, err = run(t, backend.URL, "sources", "update", remoteID[:shortIDLength], "--name", "Renamed")
	require.NoError(t, err)

	_, err = run(t, backend.URL, "sources", "remove", "0")
	require.NoError(t, err)

	config, err = api.NewClient(backend.URL).GetConfig(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.SourceConfig{
		Sources: []model.Source{{Name: "Renamed", AlertURL: "http://alerts.example/a.pb"}},
	}, config)
}

func TestSources_AddRejectsInvalidSource(t *testing.T) {
	backend, _ := newBackend(t)

	_, err := run(t, backend.URL, "sources", "add", "--alert-url", "http://alerts.example/a.pb")
	require.Error(t, err)
	assert.True(t, api.IsValidation(err))
}

func TestResolveSource(t *testing.T) {
	config := model.SourceConfig{Sources: []model.Source{
		{Name: "A", UseLocalFiles: true},
		{Name: "B", UseLocalFiles: true},
	}}
	entries := config.Entries()

	entry, err := resolveSource(config, "1")
	require.NoError(t, err)
	assert.Equal(t, "B", entry.Source.Name)

	entry, err = resolveSource(config, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 0, entry.Index)

	_, err = resolveSource(config, "2")
	assert.ErrorIs(t, err, ErrNoSuchSource)
	_, err = resolveSource(config, "zzz")
	assert.ErrorIs(t, err, ErrNoSuchSource)
	_, err = resolveSource(config, "")
	assert.ErrorIs(t, err, ErrAmbiguousSource)
}

func TestTrips_LargestDelayFirst(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "trips")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "T2"), strings.Index(out, "T1"))
	assert.Contains(t, out, "Showing 1 to 2 of 2 entries")

	out, err = run(t, backend.URL, "trips", "--sort", "trip_id")
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "T1"), strings.Index(out, "T2"))
}

func TestVehicles_Filter(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "vehicles", "--route", "R2")
	require.NoError(t, err)
	assert.Contains(t, out, "V2")
	assert.Contains(t, out, "V3")
	assert.NotContains(t, out, "V1")

	out, err = run(t, backend.URL, "--locale", "fr", "vehicles", "--status", "STOPPED_AT")
	require.NoError(t, err)
	assert.Contains(t, out, "Arrêté")
	assert.NotContains(t, out, "V2")
}

func TestRoutes_CountsPerStatus(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "routes")
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^R1\s+1\s+1\s+0\s+0\s*$`, out)
	assert.Regexp(t, `(?m)^R2\s+2\s+0\s+0\s+2\s*$`, out)
}

func TestAlerts(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "alerts")
	require.NoError(t, err)
	assert.Contains(t, out, "[danger] Works")
	assert.Contains(t, out, "  - Route: R1")
}

func TestRefresh_LocalSourceAttemptsNothing(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "refresh")
	require.NoError(t, err)
	assert.Equal(t, "No feed was attempted\n", out)
}

func TestTestSource(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "test-source", "--alert-url", backend.URL+"/healthz")
	require.NoError(t, err)
	assert.Equal(t, "Alert: Code: 200 (OK)\n", out)
}

func TestHealth(t *testing.T) {
	backend, _ := newBackend(t)

	out, err := run(t, backend.URL, "health")
	require.NoError(t, err)
	assert.Contains(t, out, `1 source(s), current "Local"`)
	assert.Contains(t, out, "2 trip updates, 3 vehicles, 1 alerts")

	_, err = run(t, "http://127.0.0.1:1", "health", "--timeout", "200ms")
	assert.Error(t, err)
}

func TestInspect_File(t *testing.T) {
	_, dataDir := newBackend(t)

	out, err := run(t, "http://unused.example", "inspect", filepath.Join(dataDir, "TripUpdate.pb"))
	require.NoError(t, err)
	assert.Contains(t, out, "tripId")
	assert.Contains(t, out, "T2")

	_, err = run(t, "http://unused.example", "inspect", filepath.Join(dataDir, "missing.pb"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestResolve_Precedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ctl.toml")
	require.NoError(t, os.WriteFile(path, []byte("api_base_url = \"http://toml.example\"\nrequest_timeout = \"3s\"\n"), 0o644))

	resolved := func(apiFlag string) *GtfsCtlApp {
		app := &GtfsCtlApp{}
		root := NewRootCmd(app)
		app.ConfigPath = path
		app.APIBaseURL = apiFlag
		require.NoError(t, app.resolve(root))
		return app
	}

	app := resolved("")
	assert.Equal(t, "http://toml.example", app.APIBaseURL)
	assert.Equal(t, 3*time.Second, app.Timeout)

	t.Setenv("GTFS_API_BASE_URL", "http://env.example")
	assert.Equal(t, "http://env.example", resolved("").APIBaseURL)
	assert.Equal(t, "http://flag.example", resolved("http://flag.example").APIBaseURL)
}
