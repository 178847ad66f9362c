package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32, *common.Metrics) {
	t.Helper()

	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		hits.Add(1)
		handler(writer, request)
	}))
	t.Cleanup(server.Close)

	metrics := common.NewMetrics(prometheus.NewRegistry())
	client := NewClient(server.URL, WithMetrics(metrics), WithLogger(logger.New(io.Discard)))
	return client, &hits, metrics
}

func writeJSON(t *testing.T, writer http.ResponseWriter, status int, body any) {
	t.Helper()
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	require.NoError(t, json.NewEncoder(writer).Encode(body))
}

func TestClient_GetConfig(t *testing.T) {
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, EndpointConfig, request.URL.Path)
		assert.Equal(t, http.MethodGet, request.Method)
		writeJSON(t, writer, http.StatusOK, model.SourceConfig{
			Sources:       []model.Source{{Name: "Local Files", UseLocalFiles: true}},
			CurrentSource: 0,
		})
	})

	config, err := client.GetConfig(context.Background())
	require.NoError(t, err)
	require.Len(t, config.Sources, 1)
	assert.Equal(t, "Local Files", config.Sources[0].Name)
}

func TestClient_GetAllDataAcceptsNullSections(t *testing.T) {
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Content-Type", "application/json")
		io.WriteString(writer, `{
			"trip_updates": {"header": {"timestamp": null, "entity_count": 0}, "stats": null, "data": null},
			"vehicle_positions": {"header": {"timestamp": 1700000000, "entity_count": 1}, "stats": {"count": 1, "avg_speed": null, "status_counts": {"STOPPED_AT": 1}},
				"data": [{"vehicle_id": "v1", "trip_id": "t1", "route_id": "A", "latitude": 45.5, "longitude": -73.6, "speed": null, "bearing": 0, "current_status": "STOPPED_AT", "timestamp": null}]},
			"alerts": {"header": {"entity_count": 0}, "count": 0, "data": null}
		}`)
	})

	data, err := client.GetAllData(context.Background())
	require.NoError(t, err)

	assert.Empty(t, data.TripUpdates.Data)
	assert.Nil(t, data.TripUpdates.Stats)

	require.Len(t, data.VehiclePositions.Data, 1)
	vehicle := data.VehiclePositions.Data[0]
	assert.True(t, vehicle.HasPosition())
	assert.Nil(t, vehicle.Speed)
	require.NotNil(t, vehicle.Bearing)
	assert.Equal(t, 0.0, *vehicle.Bearing)
	assert.Equal(t, 1, data.VehiclePositions.Stats.StatusCounts["STOPPED_AT"])
}

func TestClient_AddSourceValidationSendsNoRequest(t *testing.T) {
	client, hits, metrics := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusOK, model.Result{Success: true})
	})

	tests := []struct {
		name   string
		source model.Source
	}{
		{"empty name", model.Source{Name: "   ", UseLocalFiles: true}},
		{"no url without local files", model.Source{Name: "Remote"}},
		{"relative url", model.Source{Name: "Remote", AlertURL: "/alerts.pb"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.AddSource(context.Background(), tt.source)
			require.Error(t, err)
			assert.True(t, IsValidation(err))

			failure, ok := AsFailure(err)
			require.True(t, ok)
			assert.Equal(t, "warning", failure.Severity())
		})
	}

	assert.Equal(t, int32(0), hits.Load())
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.HttpErrorsTotal.WithLabelValues(EndpointAddSource, string(KindValidation))))
}

func TestClient_AddSourceSendsNormalizedSource(t *testing.T) {
	var received model.Source
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, EndpointAddSource, request.URL.Path)
		require.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writeJSON(t, writer, http.StatusOK, model.Result{Success: true})
	})

	err := client.AddSource(context.Background(), model.Source{
		Name:          " STM ",
		UseLocalFiles: true,
		AlertURL:      "https://example.org/alerts.pb",
	})
	require.NoError(t, err)
	assert.Equal(t, "STM", received.Name)
	assert.Empty(t, received.AlertURL)
}

func TestClient_UpdateSourceSendsIndexAndSource(t *testing.T) {
	var received updateRequest
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		require.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writeJSON(t, writer, http.StatusOK, model.Result{Success: true})
	})

	source := model.Source{Name: "Remote", TripUpdateURL: "http://feeds.example/tu.pb"}
	require.NoError(t, client.UpdateSource(context.Background(), 2, source))
	assert.Equal(t, 2, received.Index)
	assert.Equal(t, source, received.Source)
}

func TestClient_NegativeIndexIsRejectedLocally(t *testing.T) {
	client, hits, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusOK, model.Result{Success: true})
	})

	assert.True(t, IsValidation(client.RemoveSource(context.Background(), -1)))
	assert.True(t, IsValidation(client.SetCurrentSource(context.Background(), -1)))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_ServerFailureCarriesBackendMessage(t *testing.T) {
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusOK, model.Result{Success: false, Error: "Cannot remove the last source"})
	})

	err := client.RemoveSource(context.Background(), 0)
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindServer, failure.Kind)
	assert.Equal(t, "danger", failure.Severity())
	assert.Equal(t, model.Result{Success: false, Error: "Cannot remove the last source"}, ToResult(err))
}

func TestClient_StatusFailure(t *testing.T) {
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		writeJSON(t, writer, http.StatusBadRequest, model.Result{Success: false, Error: "Invalid source index"})
	})

	err := client.SetCurrentSource(context.Background(), 7)
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindStatus, failure.Kind)
	assert.Equal(t, http.StatusBadRequest, failure.StatusCode)
	assert.Equal(t, "Invalid source index", failure.Message)
}

func TestClient_DecodeFailure(t *testing.T) {
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		io.WriteString(writer, "<html>not json</html>")
	})

	_, err := client.GetAllData(context.Background())
	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindDecode, failure.Kind)
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := NewClient(url, WithTimeout(time.Second), WithLogger(logger.New(io.Discard)))
	_, err := client.GetConfig(context.Background())

	failure, ok := AsFailure(err)
	require.True(t, ok)
	assert.Equal(t, KindTransport, failure.Kind)
	assert.False(t, ToResult(err).Success)
}

func TestClient_TestSourceURLsReturnsOnlyTestedFeeds(t *testing.T) {
	var received model.SourceURLs
	client, _, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {
		assert.Equal(t, EndpointTestSource, request.URL.Path)
		require.NoError(t, json.NewDecoder(request.Body).Decode(&received))
		writeJSON(t, writer, http.StatusOK, model.TestResults{
			Success: true,
			Results: map[model.FeedType]model.FeedTestResult{
				model.FeedAlert: {Success: true, StatusCode: 200},
			},
		})
	})

	results, err := client.TestSourceURLs(context.Background(), model.SourceURLs{AlertURL: " https://feeds.example/alerts.pb "})
	require.NoError(t, err)
	assert.Equal(t, "https://feeds.example/alerts.pb", received.AlertURL)
	require.Len(t, results.Results, 1)
	assert.True(t, results.Results[model.FeedAlert].Success)
	_, hasTrip := results.Results[model.FeedTripUpdate]
	assert.False(t, hasTrip)
}

func TestClient_TestSourceURLsRequiresOneURL(t *testing.T) {
	client, hits, _ := newTestClient(t, func(writer http.ResponseWriter, request *http.Request) {})

	_, err := client.TestSourceURLs(context.Background(), model.SourceURLs{TripUpdateURL: "  "})
	assert.True(t, IsValidation(err))
	assert.Equal(t, int32(0), hits.Load())
}

func TestClient_ChartURL(t *testing.T) {
	client := NewClient("http://backend:5000/")
	now := time.UnixMilli(1700000000123)
	assert.Equal(t, "http://backend:5000/static/charts/delay_chart.png?t=1700000000123", client.ChartURL("delay_chart.png", now))
}

func TestToResult(t *testing.T) {
	assert.Equal(t, model.Result{Success: true}, ToResult(nil))
	assert.Equal(t, model.Result{Success: false, Error: io.ErrUnexpectedEOF.Error()}, ToResult(io.ErrUnexpectedEOF))
	assert.Equal(t, model.Result{Success: false, Error: "boom"}, ToResult(&Failure{Kind: KindServer, Message: "boom"}))
}
