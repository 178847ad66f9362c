package feed

import (
	"slices"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

// DelayChart is the file name under /static/charts of the delay histogram.
const DelayChart = "delay_chart.svg"

// TripStats summarizes delays in minutes. It is nil when there is nothing to
// summarize.
func TripStats(records []model.TripUpdateRecord) *model.TripUpdateStats {
	if len(records) == 0 {
		return nil
	}

	sum := 0.0
	minDelay, maxDelay := records[0].DelayMinutes, records[0].DelayMinutes
	for _, record := range records {
		sum += record.DelayMinutes
		minDelay = min(minDelay, record.DelayMinutes)
		maxDelay = max(maxDelay, record.DelayMinutes)
	}

	return &model.TripUpdateStats{
		Count:           len(records),
		AvgDelayMinutes: RoundTo(sum/float64(len(records)), 1),
		MaxDelayMinutes: RoundTo(maxDelay, 1),
		MinDelayMinutes: RoundTo(minDelay, 1),
		DelayChart:      DelayChart,
	}
}

// VehicleStats leaves the speed figures nil when no vehicle reports a speed.
func VehicleStats(records []model.VehiclePositionRecord) *model.VehicleStats {
	if len(records) == 0 {
		return nil
	}

	stats := &model.VehicleStats{
		Count:        len(records),
		StatusCounts: map[string]int{},
	}

	var speeds []float64
	for _, record := range records {
		stats.StatusCounts[string(record.CurrentStatus)]++
		if record.Speed != nil {
			speeds = append(speeds, *record.Speed)
		}
	}

	if len(speeds) > 0 {
		sum := 0.0
		for _, speed := range speeds {
			sum += speed
		}
		average := RoundTo(sum/float64(len(speeds)), 1)
		fastest := RoundTo(slices.Max(speeds), 1)
		slowest := RoundTo(slices.Min(speeds), 1)
		stats.AvgSpeed, stats.MaxSpeed, stats.MinSpeed = &average, &fastest, &slowest
	}
	return stats
}

type Bin struct {
	Low   float64
	High  float64
	Count int
}

// Histogram splits values into equal-width bins over their range. A range of
// zero width is centered on the value with a width of one.
func Histogram(values []float64, bins int) []Bin {
	if len(values) == 0 || bins <= 0 {
		return nil
	}

	low, high := slices.Min(values), slices.Max(values)
	if low == high {
		low, high = low-0.5, high+0.5
	}
	width := (high - low) / float64(bins)

	out := make([]Bin, bins)
	for i := range out {
		out[i].Low = low + float64(i)*width
		out[i].High = low + float64(i+1)*width
	}
	for _, value := range values {
		index := int((value - low) / width)
		out[min(max(index, 0), bins-1)].Count++
	}
	return out
}

func (normalizer *Normalizer) TripUpdateSnapshot(message *gtfs.FeedMessage) model.TripUpdateSnapshot {
	records := normalizer.TripUpdates(message)
	return model.TripUpdateSnapshot{
		Header: normalizer.Header(message),
		Data:   records,
		Stats:  TripStats(records),
	}
}

func (normalizer *Normalizer) VehiclePositionSnapshot(message *gtfs.FeedMessage) model.VehiclePositionSnapshot {
	records := normalizer.VehiclePositions(message)
	return model.VehiclePositionSnapshot{
		Header: normalizer.Header(message),
		Data:   records,
		Stats:  VehicleStats(records),
	}
}

func (normalizer *Normalizer) AlertSnapshot(message *gtfs.FeedMessage) model.AlertSnapshot {
	records := normalizer.Alerts(message)
	return model.AlertSnapshot{
		Header: normalizer.Header(message),
		Data:   records,
		Count:  len(records),
	}
}
