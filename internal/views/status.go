package views

import "github.com/YoanAncelly/gtfs-viewer/internal/model"

// StatusClass maps a vehicle status to its style class. Anything outside the
// known statuses, including an empty value, is "unknown".
func StatusClass(status model.VehicleStatus) string {
	switch status {
	case model.StatusStoppedAt:
		return "stopped"
	case model.StatusInTransitTo:
		return "transit"
	case model.StatusIncomingAt:
		return "incoming"
	default:
		return "unknown"
	}
}

func MarkerClass(status model.VehicleStatus) string {
	return "marker-" + StatusClass(status)
}

func StatusText(translator *Translator, status model.VehicleStatus) string {
	switch status {
	case model.StatusStoppedAt:
		return translator.Text(MsgStatusStopped)
	case model.StatusInTransitTo:
		return translator.Text(MsgStatusTransit)
	case model.StatusIncomingAt:
		return translator.Text(MsgStatusIncoming)
	default:
		return translator.Text(MsgStatusUnknown)
	}
}
