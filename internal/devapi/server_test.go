package devapi

import (
	"bytes"
	"context"
	"io"
	"net/http"
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
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func tripFeed(delay int32) []byte {
	message := &gtfs.FeedMessage{
		Header: &gtfs.FeedHeader{GtfsRealtimeVersion: proto.String("2.0"), Timestamp: proto.Uint64(1700000000)},
		Entity: []*gtfs.FeedEntity{{
			Id: proto.String("1"),
			TripUpdate: &gtfs.TripUpdate{
				Trip: &gtfs.TripDescriptor{TripId: proto.String("T1"), RouteId: proto.String("R1")},
				StopTimeUpdate: []*gtfs.TripUpdate_StopTimeUpdate{{
					StopId:  proto.String("S1"),
					Arrival: &gtfs.TripUpdate_StopTimeEvent{Delay: proto.Int32(delay)},
				}},
			},
		}},
	}
	payload, err := proto.Marshal(message)
	if err != nil {
		panic(err)
	}
	return payload
}

type fixture struct {
	dataDir  string
	upstream *httptest.Server
	server   *httptest.Server
	client   *api.Client
}

func newFixture(t *testing.T, sources model.SourceConfig) *fixture {
	t.Helper()

	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/tu.pb":
			w.Write(tripFeed(300))
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(upstream.Close)

	for i := range sources.Sources {
		source := &sources.Sources[i]
		source.TripUpdateURL = strings.ReplaceAll(source.TripUpdateURL, "UPSTREAM", upstream.URL)
		source.VehiclePositionURL = strings.ReplaceAll(source.VehiclePositionURL, "UPSTREAM", upstream.URL)
		source.AlertURL = strings.ReplaceAll(source.AlertURL, "UPSTREAM", upstream.URL)
	}

	dataDir := t.TempDir()
	cfg := Config{
		ListenAddress: ":0",
		DataDir:       dataDir,
		FetchTimeout:  time.Second,
		Sources:       sources,
	}
	server := httptest.NewServer(NewServer(cfg, logger.New(io.Discard)).Handler())
	t.Cleanup(server.Close)

	return &fixture{
		dataDir:  dataDir,
		upstream: upstream,
		server:   server,
		client:   api.NewClient(server.URL),
	}
}

func TestServer_LocalFiles(t *testing.T) {
	f := newFixture(t, model.SourceConfig{Sources: []model.Source{{Name: "Local", UseLocalFiles: true}}})
	require.NoError(t, os.WriteFile(filepath.Join(f.dataDir, "TripUpdate.pb"), tripFeed(-90), 0o644))

	data, err := f.client.GetAllData(context.Background())
	require.NoError(t, err)

	require.Len(t, data.TripUpdates.Data, 1)
	assert.Equal(t, -1.5, data.TripUpdates.Data[0].DelayMinutes)
	require.NotNil(t, data.TripUpdates.Stats)
	assert.Equal(t, "delay_chart.svg", data.TripUpdates.Stats.DelayChart)
	assert.Equal(t, 1, data.TripUpdates.Header.EntityCount)

	assert.Nil(t, data.VehiclePositions.Data, "missing files stay empty")
	assert.Nil(t, data.VehiclePositions.Stats)

	response, err := http.Get(f.server.URL + "/static/charts/delay_chart.svg?t=1")
	require.NoError(t, err)
	defer response.Body.Close()
	body, _ := io.ReadAll(response.Body)
	assert.Equal(t, "image/svg+xml", response.Header.Get("Content-Type"))
	assert.Contains(t, string(body), "<svg")
	assert.Contains(t, string(body), "Distribution des retards")

	missing, err := http.Get(f.server.URL + "/api/vehicle-positions")
	require.NoError(t, err)
	missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
}

func TestServer_RefreshDownloadsCurrentSource(t *testing.T) {
	f := newFixture(t, model.SourceConfig{Sources: []model.Source{
		{Name: "Remote", TripUpdateURL: "UPSTREAM/tu.pb", AlertURL: "UPSTREAM/gone.pb"},
	}})

	results, err := f.client.RefreshData(context.Background())
	require.NoError(t, err)
	assert.Len(t, results.Results, 2)
	assert.True(t, results.Results[model.FeedTripUpdate].Success)
	assert.False(t, results.Results[model.FeedAlert].Success)
	assert.Equal(t, http.StatusNotFound, results.Results[model.FeedAlert].StatusCode)

	stored, err := os.ReadFile(filepath.Join(f.dataDir, "TripUpdate.pb"))
	require.NoError(t, err)
	assert.True(t, bytes.Equal(tripFeed(300), stored))
	assert.NoFileExists(t, filepath.Join(f.dataDir, "Alert.pb"))

	data, err := f.client.GetAllData(context.Background())
	require.NoError(t, err)
	require.Len(t, data.TripUpdates.Data, 1)
	assert.Equal(t, 5.0, data.TripUpdates.Data[0].DelayMinutes)
}

func TestServer_TestSourceOnlyReportsGivenURLs(t *testing.T) {
	f := newFixture(t, model.SourceConfig{Sources: []model.Source{{Name: "Local", UseLocalFiles: true}}})

	results, err := f.client.TestSourceURLs(context.Background(), model.SourceURLs{
		TripUpdateURL: f.upstream.URL + "/tu.pb",
		AlertURL:      f.upstream.URL + "/nope.pb",
	})
	require.NoError(t, err)

	assert.Equal(t, map[model.FeedType]model.FeedTestResult{
		model.FeedTripUpdate: {Success: true, StatusCode: 200},
		model.FeedAlert:      {Success: false, StatusCode: 404},
	}, results.Results)
	assert.NoFileExists(t, filepath.Join(f.dataDir, "TripUpdate.pb"))
}

func TestServer_SourceCommands(t *testing.T) {
	f := newFixture(t, model.SourceConfig{Sources: []model.Source{{Name: "Local", UseLocalFiles: true}}})
	ctx := context.Background()

	require.NoError(t, f.client.AddSource(ctx, model.Source{Name: "Remote", AlertURL: "http://x.example/a.pb"}))
	require.NoError(t, f.client.SetCurrentSource(ctx, 1))
	require.NoError(t, f.client.UpdateSource(ctx, 1, model.Source{Name: "Renamed", AlertURL: "http://x.example/a.pb"}))

	config, err := f.client.GetConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, config.CurrentSource)
	assert.Equal(t, "Renamed", config.Sources[1].Name)

	err = f.client.SetCurrentSource(ctx, 5)
	failure, ok := api.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, api.KindStatus, failure.Kind)
	assert.Equal(t, http.StatusBadRequest, failure.StatusCode)
	assert.Equal(t, "Invalid source index", failure.Message)

	require.NoError(t, f.client.RemoveSource(ctx, 0))
	err = f.client.RemoveSource(ctx, 0)
	failure, ok = api.AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, "Cannot remove the last source", failure.Message)
}

func TestServer_RejectsMalformedBodies(t *testing.T) {
	f := newFixture(t, model.SourceConfig{})

	for _, endpoint := range []string{"/api/config/remove-source", "/api/config/update-source"} {
		response, err := http.Post(f.server.URL+endpoint, "application/json", strings.NewReader(`{}`))
		require.NoError(t, err)
		body, _ := io.ReadAll(response.Body)
		response.Body.Close()

		assert.Equal(t, http.StatusBadRequest, response.StatusCode, endpoint)
		assert.Contains(t, string(body), "Missing source index", endpoint)
	}

	response, err := http.Post(f.server.URL+"/api/config/add-source", "application/json", strings.NewReader(`not json`))
	require.NoError(t, err)
	response.Body.Close()
	assert.Equal(t, http.StatusBadRequest, response.StatusCode)
}

func TestWriteDelayChart_Empty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WriteDelayChart(&out, nil, DelayChartLabels))
	assert.Contains(t, out.String(), "</svg>")
	assert.NotContains(t, out.String(), "steelblue")
}
