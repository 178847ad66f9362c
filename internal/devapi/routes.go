package devapi

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/feed"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type indexRequest struct {
	Index *int `json:"index"`
}

type updateRequest struct {
	Index  *int          `json:"index"`
	Source *model.Source `json:"source"`
}

type addResponse struct {
	Success bool `json:"success"`
	Index   int  `json:"index"`
}

type testRequest struct {
	model.SourceURLs
	UseLocalFiles bool `json:"use_local_files"`
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	payload, err := json.Marshal(body)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	writer.Write(payload)
}

func writeFailure(writer http.ResponseWriter, status int, err error) {
	writeJSON(writer, status, api.ToResult(err))
}

func decode(request *http.Request, out any) error {
	if err := json.NewDecoder(request.Body).Decode(out); err != nil {
		return errors.New("Invalid JSON body")
	}
	return nil
}

func (server *Server) handleHealth(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, model.Result{Success: true})
}

func (server *Server) handleConfig(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, server.registry.Config())
}

func (server *Server) handleAddSource(writer http.ResponseWriter, request *http.Request) {
	var source model.Source
	if err := decode(request, &source); err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}

	index, err := server.registry.Add(source)
	if err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}
	server.log.Logf("Added source %q at index %d", source.Name, index)
	writeJSON(writer, http.StatusOK, addResponse{Success: true, Index: index})
}

func (server *Server) handleUpdateSource(writer http.ResponseWriter, request *http.Request) {
	var body updateRequest
	if err := decode(request, &body); err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}
	if body.Index == nil {
		writeFailure(writer, http.StatusBadRequest, errors.New("Missing source index"))
		return
	}
	if body.Source == nil {
		writeFailure(writer, http.StatusBadRequest, errors.New("Missing source data"))
		return
	}

	if err := server.registry.Update(*body.Index, *body.Source); err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}
	writeJSON(writer, http.StatusOK, model.Result{Success: true})
}

// indexCommand decodes an {index} body and applies apply to it.
func (server *Server) indexCommand(writer http.ResponseWriter, request *http.Request, apply func(int) error) {
	var body indexRequest
	if err := decode(request, &body); err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}
	if body.Index == nil {
		writeFailure(writer, http.StatusBadRequest, errors.New("Missing source index"))
		return
	}

	if err := apply(*body.Index); err != nil {
		writeFailure(writer, http.StatusBadRequest, err)
		return
	}
	writeJSON(writer, http.StatusOK, model.Result{Success: true})
}

func (server *Server) handleRemoveSource(writer http.ResponseWriter, request *http.Request) {
	server.indexCommand(writer, request, server.registry.Remove)
}

func (server *Server) handleSetCurrentSource(writer http.ResponseWriter, request *http.Request) {
	server.indexCommand(writer, request, server.registry.SetCurrent)
}

func (server *Server) handleTestSource(writer http.ResponseWriter, request *http.Request) {
	var body testRequest
	if err := decode(request, &body); err != nil {
		writeJSON(writer, http.StatusBadRequest, model.TestResults{Error: err.Error()})
		return
	}

	results := map[model.FeedType]model.FeedTestResult{}
	if !body.UseLocalFiles {
		urls := body.SourceURLs.Trimmed()
		for _, feedType := range model.FeedTypes {
			if url := urls.Get(feedType); url != "" {
				results[feedType] = server.feeds.Check(request.Context(), url)
			}
		}
	}
	writeJSON(writer, http.StatusOK, model.TestResults{Success: true, Results: results})
}

func (server *Server) handleRefreshData(writer http.ResponseWriter, request *http.Request) {
	source := server.registry.Current()
	results := server.feeds.Refresh(request.Context(), source)
	server.log.Logf("Refreshed source %q: %d feeds downloaded", source.Name, len(results))
	writeJSON(writer, http.StatusOK, model.TestResults{Success: true, Results: results})
}

func (server *Server) handleAllData(writer http.ResponseWriter, request *http.Request) {
	data, err := server.feeds.AllData(request.Context(), server.registry.Current())
	if err != nil {
		writeFailure(writer, http.StatusInternalServerError, err)
		return
	}
	writeJSON(writer, http.StatusOK, data)
}

func (server *Server) handleTripUpdates(writer http.ResponseWriter, request *http.Request) {
	message, ok := server.loadFeed(writer, request, model.FeedTripUpdate)
	if ok {
		writeJSON(writer, http.StatusOK, server.feeds.normalizer.TripUpdateSnapshot(message))
	}
}

func (server *Server) handleVehiclePositions(writer http.ResponseWriter, request *http.Request) {
	message, ok := server.loadFeed(writer, request, model.FeedVehiclePosition)
	if ok {
		writeJSON(writer, http.StatusOK, server.feeds.normalizer.VehiclePositionSnapshot(message))
	}
}

func (server *Server) handleAlerts(writer http.ResponseWriter, request *http.Request) {
	message, ok := server.loadFeed(writer, request, model.FeedAlert)
	if ok {
		writeJSON(writer, http.StatusOK, server.feeds.normalizer.AlertSnapshot(message))
	}
}

func (server *Server) loadFeed(writer http.ResponseWriter, request *http.Request, feedType model.FeedType) (*gtfs.FeedMessage, bool) {
	message, err := server.feeds.Load(request.Context(), server.registry.Current(), feedType)
	if err != nil {
		writeFailure(writer, http.StatusInternalServerError, err)
		return nil, false
	}
	if message == nil {
		writeFailure(writer, http.StatusNotFound, errors.New(feedType.DisplayName()+" data not found"))
		return nil, false
	}
	return message, true
}

func (server *Server) handleChart(writer http.ResponseWriter, request *http.Request) {
	if chi.URLParam(request, "chart") != feed.DelayChart {
		http.NotFound(writer, request)
		return
	}

	var buffer bytes.Buffer
	if err := WriteDelayChart(&buffer, server.feeds.Delays(), DelayChartLabels); err != nil {
		http.Error(writer, err.Error(), http.StatusInternalServerError)
		return
	}
	writer.Header().Set("Content-Type", "image/svg+xml")
	writer.Header().Set("Cache-Control", "no-cache")
	writer.Write(buffer.Bytes())
}
