package model

type VehicleStatus string

const (
	StatusStoppedAt   VehicleStatus = "STOPPED_AT"
	StatusInTransitTo VehicleStatus = "IN_TRANSIT_TO"
	StatusIncomingAt  VehicleStatus = "INCOMING_AT"
	StatusUnknown     VehicleStatus = "UNKNOWN"
)

// KnownStatuses lists the statuses with a dedicated presentation.
var KnownStatuses = []VehicleStatus{StatusStoppedAt, StatusInTransitTo, StatusIncomingAt}

type TripUpdateRecord struct {
	TripID        string  `json:"trip_id"`
	RouteID       string  `json:"route_id"`
	StopID        string  `json:"stop_id"`
	DelaySeconds  int32   `json:"delay_seconds"`
	DelayMinutes  float64 `json:"delay_minutes"`
	ArrivalTime   *string `json:"arrival_time"`
	DepartureTime *string `json:"departure_time"`
}

type VehiclePositionRecord struct {
	VehicleID     string        `json:"vehicle_id"`
	TripID        string        `json:"trip_id"`
	RouteID       string        `json:"route_id"`
	Latitude      *float64      `json:"latitude"`
	Longitude     *float64      `json:"longitude"`
	Speed         *float64      `json:"speed"`
	Bearing       *float64      `json:"bearing"`
	CurrentStatus VehicleStatus `json:"current_status"`
	Timestamp     *string       `json:"timestamp"`
}

func (vehicle VehiclePositionRecord) HasPosition() bool {
	return vehicle.Latitude != nil && vehicle.Longitude != nil
}

type AffectedEntity struct {
	AgencyID string `json:"agency_id,omitempty"`
	RouteID  string `json:"route_id,omitempty"`
	TripID   string `json:"trip_id,omitempty"`
	StopID   string `json:"stop_id,omitempty"`
}

type AlertRecord struct {
	HeaderText       string           `json:"header_text"`
	DescriptionText  string           `json:"description_text"`
	Cause            string           `json:"cause"`
	Effect           string           `json:"effect"`
	StartTime        *string          `json:"start_time,omitempty"`
	EndTime          *string          `json:"end_time,omitempty"`
	AffectedEntities []AffectedEntity `json:"affected_entities"`
}

type FeedHeader struct {
	Version            string  `json:"version,omitempty"`
	Timestamp          *uint64 `json:"timestamp"`
	TimestampFormatted *string `json:"timestamp_formatted"`
	EntityCount        int     `json:"entity_count"`
}

type TripUpdateStats struct {
	Count           int     `json:"count"`
	AvgDelayMinutes float64 `json:"avg_delay_minutes"`
	MaxDelayMinutes float64 `json:"max_delay_minutes"`
	MinDelayMinutes float64 `json:"min_delay_minutes"`
	DelayChart      string  `json:"delay_chart,omitempty"`
}

type VehicleStats struct {
	Count        int            `json:"count"`
	AvgSpeed     *float64       `json:"avg_speed"`
	MaxSpeed     *float64       `json:"max_speed"`
	MinSpeed     *float64       `json:"min_speed"`
	StatusCounts map[string]int `json:"status_counts"`
}

type AlertStats struct {
	Count int `json:"count"`
}

// FeedSnapshot is the complete replacement dataset for one feed as of one fetch.
type FeedSnapshot[R any, S any] struct {
	Header FeedHeader `json:"header"`
	Data   []R        `json:"data"`
	Stats  *S         `json:"stats"`
	Chart  string     `json:"chart,omitempty"`
	Count  int        `json:"count,omitempty"`
}

type TripUpdateSnapshot = FeedSnapshot[TripUpdateRecord, TripUpdateStats]
type VehiclePositionSnapshot = FeedSnapshot[VehiclePositionRecord, VehicleStats]
type AlertSnapshot = FeedSnapshot[AlertRecord, AlertStats]

type AllData struct {
	TripUpdates      TripUpdateSnapshot      `json:"trip_updates"`
	VehiclePositions VehiclePositionSnapshot `json:"vehicle_positions"`
	Alerts           AlertSnapshot           `json:"alerts"`
}

const FilterAll = "all"

type FilterSelection struct {
	Route  string `json:"route"`
	Status string `json:"status"`
}

func DefaultFilters() FilterSelection {
	return FilterSelection{Route: FilterAll, Status: FilterAll}
}
