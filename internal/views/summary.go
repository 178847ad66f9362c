package views

import (
	"strconv"
	"time"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

type FeedTimestamp struct {
	Feed  string
	Value string
}

type SummaryView struct {
	HasData bool

	TripCount string
	AvgDelay  string
	MaxDelay  string
	MinDelay  string
	ChartURL  string

	VehicleCount string
	AvgSpeed     string
	MaxSpeed     string
	MinSpeed     string

	AlertCount string

	Timestamps []FeedTimestamp
	LastUpdate string
}

// ChartURLFunc turns a chart file name into a cache-busted URL.
type ChartURLFunc func(chart string) string

func BuildSummary(translator *Translator, data model.AllData, updatedAt time.Time, chartURL ChartURLFunc) SummaryView {
	notAvailable := translator.Text(MsgNotAvailable)

	view := SummaryView{
		HasData:      !updatedAt.IsZero(),
		TripCount:    strconv.Itoa(len(data.TripUpdates.Data)),
		AvgDelay:     notAvailable,
		MaxDelay:     notAvailable,
		MinDelay:     notAvailable,
		VehicleCount: strconv.Itoa(len(data.VehiclePositions.Data)),
		AvgSpeed:     notAvailable,
		MaxSpeed:     notAvailable,
		MinSpeed:     notAvailable,
		AlertCount:   strconv.Itoa(BuildAlerts(translator, data.Alerts).Count),
		LastUpdate:   translator.Text(MsgNeverUpdated),
	}

	if stats := data.TripUpdates.Stats; stats != nil {
		view.TripCount = strconv.Itoa(stats.Count)
		view.AvgDelay = formatNumber(stats.AvgDelayMinutes) + " min"
		view.MaxDelay = formatNumber(stats.MaxDelayMinutes) + " min"
		view.MinDelay = formatNumber(stats.MinDelayMinutes) + " min"
	}

	chart := data.TripUpdates.Chart
	if chart == "" && data.TripUpdates.Stats != nil {
		chart = data.TripUpdates.Stats.DelayChart
	}
	if chart != "" && chartURL != nil {
		view.ChartURL = chartURL(chart)
	}

	if stats := data.VehiclePositions.Stats; stats != nil {
		view.AvgSpeed = optionalNumber(translator, stats.AvgSpeed, " m/s")
		view.MaxSpeed = optionalNumber(translator, stats.MaxSpeed, " m/s")
		view.MinSpeed = optionalNumber(translator, stats.MinSpeed, " m/s")
	}

	headers := []struct {
		feed   model.FeedType
		header model.FeedHeader
	}{
		{model.FeedTripUpdate, data.TripUpdates.Header},
		{model.FeedVehiclePosition, data.VehiclePositions.Header},
		{model.FeedAlert, data.Alerts.Header},
	}
	for _, entry := range headers {
		view.Timestamps = append(view.Timestamps, FeedTimestamp{
			Feed:  entry.feed.DisplayName(),
			Value: optionalText(translator, entry.header.TimestampFormatted),
		})
	}

	if view.HasData {
		view.LastUpdate = updatedAt.Format("2006-01-02 15:04:05")
	}
	return view
}
