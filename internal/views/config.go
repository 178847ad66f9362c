package views

import "github.com/YoanAncelly/gtfs-viewer/internal/model"

type SourceCard struct {
	ID                 string
	Name               string
	Current            bool
	UseLocalFiles      bool
	TypeLabel          string
	TripUpdateURL      string
	VehiclePositionURL string
	AlertURL           string

	// Raw values for the edit form.
	Source model.Source
}

// CanActivate hides the activate action on the source already in use.
func (card SourceCard) CanActivate() bool {
	return !card.Current
}

type ConfigView struct {
	Sources     []SourceCard
	CurrentName string
	Empty       string
}

func BuildConfig(translator *Translator, config model.SourceConfig) ConfigView {
	view := ConfigView{}

	for _, entry := range config.Entries() {
		card := SourceCard{
			ID:                 entry.ID,
			Name:               entry.Source.Name,
			Current:            entry.Current,
			UseLocalFiles:      entry.Source.UseLocalFiles,
			TypeLabel:          translator.Text(MsgURLs),
			TripUpdateURL:      orDash(entry.Source.TripUpdateURL),
			VehiclePositionURL: orDash(entry.Source.VehiclePositionURL),
			AlertURL:           orDash(entry.Source.AlertURL),
			Source:             entry.Source,
		}
		if entry.Source.UseLocalFiles {
			card.TypeLabel = translator.Text(MsgLocalFiles)
		}
		if entry.Current {
			view.CurrentName = entry.Source.Name
		}
		view.Sources = append(view.Sources, card)
	}

	if len(view.Sources) == 0 {
		view.Empty = translator.Text(MsgNoSources)
	}
	return view
}
