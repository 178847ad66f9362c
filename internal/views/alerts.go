package views

import (
	"strconv"
	"strings"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

// AlertClass derives the severity class of an alert from its effect. Effects
// without a dedicated class fall back to "warning".
func AlertClass(effect string) string {
	switch effect {
	case "NO_SERVICE", "SIGNIFICANT_DELAYS":
		return "danger"
	case "DETOUR", "STOP_MOVED":
		return "warning"
	case "ADDITIONAL_SERVICE", "MODIFIED_SERVICE":
		return "info"
	default:
		return "warning"
	}
}

type AlertCard struct {
	Class       string
	Header      string
	Description string
	Cause       string
	Effect      string
	StartTime   string
	EndTime     string
	Entities    []string
}

type AlertPreview struct {
	Header      string
	Description string
	Others      string
}

type AlertsView struct {
	Count   int
	Cards   []AlertCard
	Preview *AlertPreview
	Empty   string
}

// EntityLine flattens one affected entity, e.g. "Agency: X, Route: Y".
func EntityLine(translator *Translator, entity model.AffectedEntity) string {
	parts := make([]string, 0, 4)
	if entity.AgencyID != "" {
		parts = append(parts, translator.Text(MsgAgency)+": "+entity.AgencyID)
	}
	if entity.RouteID != "" {
		parts = append(parts, translator.Text(MsgRoute)+": "+entity.RouteID)
	}
	if entity.TripID != "" {
		parts = append(parts, translator.Text(MsgTrip)+": "+entity.TripID)
	}
	if entity.StopID != "" {
		parts = append(parts, translator.Text(MsgStop)+": "+entity.StopID)
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}

func BuildAlerts(translator *Translator, alerts model.AlertSnapshot) AlertsView {
	view := AlertsView{
		Count: alerts.Count,
		Cards: make([]AlertCard, 0, len(alerts.Data)),
	}
	if view.Count == 0 {
		view.Count = len(alerts.Data)
	}

	for _, alert := range alerts.Data {
		card := AlertCard{
			Class:       AlertClass(alert.Effect),
			Header:      orDefault(alert.HeaderText, translator.Text(MsgUntitledAlert)),
			Description: orDefault(alert.DescriptionText, translator.Text(MsgNoDescription)),
			Cause:       alert.Cause,
			Effect:      alert.Effect,
		}
		if alert.StartTime != nil {
			card.StartTime = *alert.StartTime
		}
		if alert.EndTime != nil {
			card.EndTime = *alert.EndTime
		}
		for _, entity := range alert.AffectedEntities {
			card.Entities = append(card.Entities, EntityLine(translator, entity))
		}
		view.Cards = append(view.Cards, card)
	}

	if len(view.Cards) == 0 {
		view.Empty = translator.Text(MsgNoAlerts)
		return view
	}

	first := view.Cards[0]
	view.Preview = &AlertPreview{Header: first.Header, Description: first.Description}
	if others := len(view.Cards) - 1; others > 0 {
		view.Preview.Others = translator.Text(MsgOtherAlerts, strconv.Itoa(others))
	}
	return view
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
