package feed

import (
	"strconv"
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

const (
	TimeLayout = "2006-01-02 15:04:05"

	// Unknown replaces trip, route, stop and vehicle ids the feed left out.
	Unknown = "Unknown"

	DefaultLanguage = "fr"

	unknownCause  = "UNKNOWN_CAUSE"
	unknownEffect = "UNKNOWN_EFFECT"
)

// Normalizer flattens GTFS-RT feed messages into the records served by the
// data API.
type Normalizer struct {
	// Location formats every timestamp. Defaults to time.Local.
	Location *time.Location

	// Language selects the alert text translation. When no translation
	// matches, the first non-empty one is used.
	Language string
}

func NewNormalizer() *Normalizer {
	return &Normalizer{Location: time.Local, Language: DefaultLanguage}
}

func (normalizer *Normalizer) formatTime(seconds int64) string {
	location := normalizer.Location
	if location == nil {
		location = time.Local
	}
	return time.Unix(seconds, 0).In(location).Format(TimeLayout)
}

func (normalizer *Normalizer) optionalTime(seconds *int64) *string {
	if seconds == nil {
		return nil
	}
	formatted := normalizer.formatTime(*seconds)
	return &formatted
}

func (normalizer *Normalizer) optionalUnixTime(seconds *uint64) *string {
	if seconds == nil {
		return nil
	}
	converted := int64(*seconds)
	return normalizer.optionalTime(&converted)
}

func (normalizer *Normalizer) Header(message *gtfs.FeedMessage) model.FeedHeader {
	if message == nil {
		return model.FeedHeader{}
	}

	header := model.FeedHeader{EntityCount: len(message.GetEntity())}
	if message.Header == nil {
		return header
	}

	header.Version = message.Header.GetGtfsRealtimeVersion()
	if message.Header.Timestamp != nil && *message.Header.Timestamp != 0 {
		timestamp := *message.Header.Timestamp
		header.Timestamp = &timestamp
		header.TimestampFormatted = normalizer.optionalUnixTime(&timestamp)
	}
	return header
}

func idOrUnknown(id *string) string {
	if id == nil {
		return Unknown
	}
	return *id
}

// RoundTo rounds the exact binary value to the given number of decimals,
// ties to even: 0.25 gives 0.2 and 0.75 gives 0.8.
func RoundTo(value float64, decimals int) float64 {
	rounded, err := strconv.ParseFloat(strconv.FormatFloat(value, 'f', decimals, 64), 64)
	if err != nil || rounded == 0 {
		return 0
	}
	return rounded
}

// TripUpdates emits one record per stop time update. The delay comes from the
// departure event when it carries one, else from the arrival event, else 0.
func (normalizer *Normalizer) TripUpdates(message *gtfs.FeedMessage) []model.TripUpdateRecord {
	if message == nil {
		return nil
	}

	records := []model.TripUpdateRecord{}
	for _, entity := range message.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		trip := tripUpdate.GetTrip()
		tripID, routeID := Unknown, Unknown
		if trip != nil {
			tripID, routeID = idOrUnknown(trip.TripId), idOrUnknown(trip.RouteId)
		}

		for _, stopTimeUpdate := range tripUpdate.GetStopTimeUpdate() {
			arrival, departure := stopTimeUpdate.GetArrival(), stopTimeUpdate.GetDeparture()

			var delay int32
			switch {
			case departure != nil && departure.Delay != nil:
				delay = *departure.Delay
			case arrival != nil && arrival.Delay != nil:
				delay = *arrival.Delay
			}

			record := model.TripUpdateRecord{
				TripID:       tripID,
				RouteID:      routeID,
				StopID:       idOrUnknown(stopTimeUpdate.StopId),
				DelaySeconds: delay,
				DelayMinutes: RoundTo(float64(delay)/60, 1),
			}
			if arrival != nil {
				record.ArrivalTime = normalizer.optionalTime(arrival.Time)
			}
			if departure != nil {
				record.DepartureTime = normalizer.optionalTime(departure.Time)
			}
			records = append(records, record)
		}
	}
	return records
}

func optionalFloat(value *float32) *float64 {
	if value == nil {
		return nil
	}
	converted := float64(*value)
	return &converted
}

func (normalizer *Normalizer) VehiclePositions(message *gtfs.FeedMessage) []model.VehiclePositionRecord {
	if message == nil {
		return nil
	}

	records := []model.VehiclePositionRecord{}
	for _, entity := range message.GetEntity() {
		vehicle := entity.GetVehicle()
		if vehicle == nil {
			continue
		}

		record := model.VehiclePositionRecord{
			VehicleID:     Unknown,
			TripID:        Unknown,
			RouteID:       Unknown,
			CurrentStatus: model.StatusUnknown,
		}
		if descriptor := vehicle.GetVehicle(); descriptor != nil {
			record.VehicleID = idOrUnknown(descriptor.Id)
		}
		if trip := vehicle.GetTrip(); trip != nil {
			record.TripID, record.RouteID = idOrUnknown(trip.TripId), idOrUnknown(trip.RouteId)
		}
		if position := vehicle.GetPosition(); position != nil {
			record.Latitude = optionalFloat(position.Latitude)
			record.Longitude = optionalFloat(position.Longitude)
			record.Bearing = optionalFloat(position.Bearing)
			record.Speed = optionalFloat(position.Speed)
		}
		if vehicle.CurrentStatus != nil {
			record.CurrentStatus = model.VehicleStatus(vehicle.CurrentStatus.String())
		}
		record.Timestamp = normalizer.optionalUnixTime(vehicle.Timestamp)

		records = append(records, record)
	}
	return records
}

// translate picks the translation in the preferred language, else the first
// one with text.
func (normalizer *Normalizer) translate(text *gtfs.TranslatedString) string {
	chosen := ""
	for _, translation := range text.GetTranslation() {
		if translation.Text == nil {
			continue
		}
		if translation.GetLanguage() == normalizer.Language {
			return *translation.Text
		}
		if chosen == "" {
			chosen = *translation.Text
		}
	}
	return chosen
}

func (normalizer *Normalizer) Alerts(message *gtfs.FeedMessage) []model.AlertRecord {
	if message == nil {
		return nil
	}

	records := []model.AlertRecord{}
	for _, entity := range message.GetEntity() {
		alert := entity.GetAlert()
		if alert == nil {
			continue
		}

		record := model.AlertRecord{
			HeaderText:       normalizer.translate(alert.GetHeaderText()),
			DescriptionText:  normalizer.translate(alert.GetDescriptionText()),
			Cause:            unknownCause,
			Effect:           unknownEffect,
			AffectedEntities: []model.AffectedEntity{},
		}
		if alert.Cause != nil {
			record.Cause = alert.Cause.String()
		}
		if alert.Effect != nil {
			record.Effect = alert.Effect.String()
		}

		// The last active period wins.
		for _, period := range alert.GetActivePeriod() {
			if period.Start != nil {
				record.StartTime = normalizer.optionalUnixTime(period.Start)
			}
			if period.End != nil {
				record.EndTime = normalizer.optionalUnixTime(period.End)
			}
		}

		for _, selector := range alert.GetInformedEntity() {
			affected := model.AffectedEntity{
				AgencyID: selector.GetAgencyId(),
				RouteID:  selector.GetRouteId(),
				StopID:   selector.GetStopId(),
			}
			if trip := selector.GetTrip(); trip != nil {
				affected.TripID = trip.GetTripId()
				if trip.RouteId != nil {
					affected.RouteID = *trip.RouteId
				}
			}
			record.AffectedEntities = append(record.AffectedEntities, affected)
		}

		records = append(records, record)
	}
	return records
}
