package model

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

type FeedType string

const (
	FeedTripUpdate      FeedType = "trip_update"
	FeedVehiclePosition FeedType = "vehicle_position"
	FeedAlert           FeedType = "alert"
)

// FeedTypes is the fixed order used everywhere feeds are listed.
var FeedTypes = []FeedType{FeedTripUpdate, FeedVehiclePosition, FeedAlert}

func (feedType FeedType) DisplayName() string {
	switch feedType {
	case FeedTripUpdate:
		return "TripUpdate"
	case FeedVehiclePosition:
		return "VehiclePosition"
	case FeedAlert:
		return "Alert"
	}
	return string(feedType)
}

type Source struct {
	Name               string `json:"name" toml:"name" validate:"required"`
	UseLocalFiles      bool   `json:"use_local_files" toml:"use_local_files"`
	TripUpdateURL      string `json:"trip_update_url" toml:"trip_update_url" validate:"omitempty,http_url"`
	VehiclePositionURL string `json:"vehicle_position_url" toml:"vehicle_position_url" validate:"omitempty,http_url"`
	AlertURL           string `json:"alert_url" toml:"alert_url" validate:"omitempty,http_url"`
}

// SourceURLs is the body of a source test request.
type SourceURLs struct {
	TripUpdateURL      string `json:"trip_update_url" validate:"omitempty,http_url"`
	VehiclePositionURL string `json:"vehicle_position_url" validate:"omitempty,http_url"`
	AlertURL           string `json:"alert_url" validate:"omitempty,http_url"`
}

func (urls SourceURLs) Get(feedType FeedType) string {
	switch feedType {
	case FeedTripUpdate:
		return urls.TripUpdateURL
	case FeedVehiclePosition:
		return urls.VehiclePositionURL
	case FeedAlert:
		return urls.AlertURL
	}
	return ""
}

func (urls SourceURLs) Empty() bool {
	return strings.TrimSpace(urls.TripUpdateURL) == "" &&
		strings.TrimSpace(urls.VehiclePositionURL) == "" &&
		strings.TrimSpace(urls.AlertURL) == ""
}

func (urls SourceURLs) Trimmed() SourceURLs {
	return SourceURLs{
		TripUpdateURL:      strings.TrimSpace(urls.TripUpdateURL),
		VehiclePositionURL: strings.TrimSpace(urls.VehiclePositionURL),
		AlertURL:           strings.TrimSpace(urls.AlertURL),
	}
}

func (source Source) URLs() SourceURLs {
	return SourceURLs{
		TripUpdateURL:      source.TripUpdateURL,
		VehiclePositionURL: source.VehiclePositionURL,
		AlertURL:           source.AlertURL,
	}
}

// Normalized trims every field and clears the URLs of a local-files source,
// the same shape the configuration form submits.
func (source Source) Normalized() Source {
	out := Source{
		Name:          strings.TrimSpace(source.Name),
		UseLocalFiles: source.UseLocalFiles,
	}
	if !source.UseLocalFiles {
		out.TripUpdateURL = strings.TrimSpace(source.TripUpdateURL)
		out.VehiclePositionURL = strings.TrimSpace(source.VehiclePositionURL)
		out.AlertURL = strings.TrimSpace(source.AlertURL)
	}
	return out
}

type SourceConfig struct {
	Sources       []Source `json:"sources" toml:"sources"`
	CurrentSource int      `json:"current_source" toml:"current_source"`
}

func (config SourceConfig) Current() (Source, bool) {
	if config.CurrentSource < 0 || config.CurrentSource >= len(config.Sources) {
		return Source{}, false
	}
	return config.Sources[config.CurrentSource], true
}

// SourceEntry pairs a configured source with a stable identifier so UI
// actions do not depend on a list position that may shift between renders.
type SourceEntry struct {
	ID      string
	Index   int
	Current bool
	Source  Source
}

var sourceNamespace = uuid.MustParse("6f1c2a4e-3b7d-4f0a-9c55-2d8e1b0a7c31")

func sourceID(source Source, occurrence int) string {
	key := fmt.Sprintf("%s\x00%t\x00%s\x00%s\x00%s\x00%d",
		source.Name, source.UseLocalFiles,
		source.TripUpdateURL, source.VehiclePositionURL, source.AlertURL,
		occurrence,
	)
	return uuid.NewSHA1(sourceNamespace, []byte(key)).String()
}

func (config SourceConfig) Entries() []SourceEntry {
	seen := map[Source]int{}
	entries := make([]SourceEntry, 0, len(config.Sources))
	for i, source := range config.Sources {
		occurrence := seen[source]
		seen[source] = occurrence + 1

		entries = append(entries, SourceEntry{
			ID:      sourceID(source, occurrence),
			Index:   i,
			Current: i == config.CurrentSource,
			Source:  source,
		})
	}
	return entries
}

// Resolve maps a stable source ID back to its position in this config.
func (config SourceConfig) Resolve(id string) (SourceEntry, bool) {
	for _, entry := range config.Entries() {
		if entry.ID == id {
			return entry, true
		}
	}
	return SourceEntry{}, false
}

type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type FeedTestResult struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`

	// Unknown is set when the backend answered without a verdict.
	Unknown bool `json:"-"`
}

// UnmarshalJSON also accepts a bare boolean, which older backends send. A null
// or empty verdict is Unknown.
func (result *FeedTestResult) UnmarshalJSON(payload []byte) error {
	if trimmed := bytes.TrimSpace(payload); len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*result = FeedTestResult{Unknown: true}
		return nil
	}

	var verdict bool
	if err := json.Unmarshal(payload, &verdict); err == nil {
		*result = FeedTestResult{Success: verdict}
		return nil
	}

	var wire struct {
		Success    *bool  `json:"success"`
		StatusCode int    `json:"status_code"`
		Error      string `json:"error"`
	}
	if err := json.Unmarshal(payload, &wire); err != nil {
		return err
	}

	*result = FeedTestResult{
		Success:    wire.Success != nil && *wire.Success,
		StatusCode: wire.StatusCode,
		Error:      wire.Error,
		Unknown:    wire.Success == nil,
	}
	return nil
}

// TestResults is the answer to both a source test and a data refresh; only
// the feed types that were attempted appear in Results.
type TestResults struct {
	Success bool                        `json:"success"`
	Error   string                      `json:"error,omitempty"`
	Results map[FeedType]FeedTestResult `json:"results"`
}
