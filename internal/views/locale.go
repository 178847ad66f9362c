package views

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Message keys. The English catalog spells out every key; the key itself is
// the fallback when a translation is missing.
const (
	MsgAllRoutes       = "all_routes"
	MsgAllStatuses     = "all_statuses"
	MsgStatusStopped   = "status_stopped"
	MsgStatusTransit   = "status_transit"
	MsgStatusIncoming  = "status_incoming"
	MsgStatusUnknown   = "status_unknown"
	MsgVehicle         = "vehicle"
	MsgTrip            = "trip"
	MsgRoute           = "route"
	MsgStop            = "stop"
	MsgAgency          = "agency"
	MsgPosition        = "position"
	MsgSpeed           = "speed"
	MsgBearing         = "bearing"
	MsgStatus          = "status"
	MsgTimestamp       = "timestamp"
	MsgCause           = "cause"
	MsgEffect          = "effect"
	MsgUntitledAlert   = "untitled_alert"
	MsgNoDescription   = "no_description"
	MsgOtherAlerts     = "other_alerts"
	MsgNoAlerts        = "no_alerts"
	MsgNoSources       = "no_sources"
	MsgLocalFiles      = "local_files"
	MsgURLs            = "urls"
	MsgActive          = "active"
	MsgTableInfo       = "table_info"
	MsgTableEmpty      = "table_empty"
	MsgTestOK          = "test_ok"
	MsgTestStatusOK    = "test_status_ok"
	MsgTestStatusError = "test_status_error"
	MsgTestError       = "test_error"
	MsgTestFailed      = "test_failed"
	MsgTestUnknown     = "test_unknown"
	MsgNotAvailable    = "not_available"
	MsgVehicleID       = "vehicle_id"
	MsgDelay           = "delay_minutes"
	MsgArrival         = "arrival_time"
	MsgDeparture       = "departure_time"
	MsgLatitude        = "latitude"
	MsgLongitude       = "longitude"
	MsgNeverUpdated    = "never_updated"

	MsgRefreshed         = "refreshed"
	MsgRefreshFailed     = "refresh_failed"
	MsgLoadFailed        = "load_failed"
	MsgConfigLoadFailed  = "config_load_failed"
	MsgRefreshInProgress = "refresh_in_progress"
	MsgSourceAdded       = "source_added"
	MsgSourceAddFailed   = "source_add_failed"
	MsgSourceUpdated     = "source_updated"
	MsgSourceUpdateFail  = "source_update_failed"
	MsgSourceRemoved     = "source_removed"
	MsgSourceRemoveFail  = "source_remove_failed"
	MsgSourceActivated   = "source_activated"
	MsgSourceActivateErr = "source_activate_failed"
	MsgSourceNotFound    = "source_not_found"
	MsgTestFailedAll     = "test_request_failed"

	MsgTitle              = "title"
	MsgNavDashboard       = "nav_dashboard"
	MsgNavConfig          = "nav_config"
	MsgRefresh            = "refresh"
	MsgLastUpdate         = "last_update"
	MsgSummary            = "summary"
	MsgTripUpdates        = "trip_updates"
	MsgVehiclePositions   = "vehicle_positions"
	MsgAlerts             = "alerts"
	MsgMap                = "map"
	MsgDelayChart         = "delay_chart"
	MsgAverage            = "average"
	MsgMaximum            = "maximum"
	MsgMinimum            = "minimum"
	MsgCount              = "count"
	MsgFeedTimestamps     = "feed_timestamps"
	MsgFilters            = "filters"
	MsgApply              = "apply"
	MsgPrevious           = "previous"
	MsgNext               = "next"
	MsgPageSize           = "page_size"
	MsgSources            = "sources"
	MsgCurrentSource      = "current_source"
	MsgAddSource          = "add_source"
	MsgName               = "name"
	MsgUseLocalFiles      = "use_local_files"
	MsgTripUpdateURL      = "trip_update_url"
	MsgVehiclePositionURL = "vehicle_position_url"
	MsgAlertURL           = "alert_url"
	MsgTestSource         = "test_source"
	MsgTestResults        = "test_results"
	MsgSave               = "save"
	MsgRemove             = "remove"
	MsgActivate           = "activate"
	MsgDismiss            = "dismiss"
	MsgPeriod             = "period"
	MsgAffected           = "affected_entities"
)

var english = map[string]string{
	MsgAllRoutes:       "All routes",
	MsgAllStatuses:     "All statuses",
	MsgStatusStopped:   "Stopped",
	MsgStatusTransit:   "In transit",
	MsgStatusIncoming:  "Incoming",
	MsgStatusUnknown:   "Unknown",
	MsgVehicle:         "Vehicle %s",
	MsgTrip:            "Trip",
	MsgRoute:           "Route",
	MsgStop:            "Stop",
	MsgAgency:          "Agency",
	MsgPosition:        "Position",
	MsgSpeed:           "Speed",
	MsgBearing:         "Bearing",
	MsgStatus:          "Status",
	MsgTimestamp:       "Timestamp",
	MsgCause:           "Cause",
	MsgEffect:          "Effect",
	MsgUntitledAlert:   "Untitled alert",
	MsgNoDescription:   "No description",
	MsgOtherAlerts:     "%s other alert(s)...",
	MsgNoAlerts:        "No active alerts",
	MsgNoSources:       "No source configured.",
	MsgLocalFiles:      "Local files",
	MsgURLs:            "URLs",
	MsgActive:          "Active",
	MsgTableInfo:       "Showing %s to %s of %s entries",
	MsgTableEmpty:      "No entries to show",
	MsgTestOK:          "OK",
	MsgTestStatusOK:    "Code: %s (OK)",
	MsgTestStatusError: "Code: %s (Error)",
	MsgTestError:       "Error: %s",
	MsgTestFailed:      "Failed",
	MsgTestUnknown:     "Unknown status",
	MsgNotAvailable:    "N/A",
	MsgNeverUpdated:    "Never",
	MsgVehicleID:       "Vehicle ID",
	MsgDelay:           "Delay (min)",
	MsgArrival:         "Arrival",
	MsgDeparture:       "Departure",
	MsgLatitude:        "Latitude",
	MsgLongitude:       "Longitude",

	MsgRefreshed:         "Data refreshed successfully",
	MsgRefreshFailed:     "Error while refreshing data: %s",
	MsgLoadFailed:        "Error while loading data: %s",
	MsgConfigLoadFailed:  "Error while loading the configuration: %s",
	MsgRefreshInProgress: "A refresh is already in progress",
	MsgSourceAdded:       "Source added successfully.",
	MsgSourceAddFailed:   "Error while adding the source: %s",
	MsgSourceUpdated:     "Source updated successfully.",
	MsgSourceUpdateFail:  "Error while updating the source: %s",
	MsgSourceRemoved:     "Source removed successfully.",
	MsgSourceRemoveFail:  "Error while removing the source: %s",
	MsgSourceActivated:   "Active source updated successfully.",
	MsgSourceActivateErr: "Error while changing the active source: %s",
	MsgSourceNotFound:    "Source not found.",
	MsgTestFailedAll:     "Error during the test: %s",

	MsgTitle:              "GTFS-RT Dashboard",
	MsgNavDashboard:       "Dashboard",
	MsgNavConfig:          "Configuration",
	MsgRefresh:            "Refresh data",
	MsgLastUpdate:         "Last update",
	MsgSummary:            "Summary",
	MsgTripUpdates:        "Trip updates",
	MsgVehiclePositions:   "Vehicle positions",
	MsgAlerts:             "Alerts",
	MsgMap:                "Map",
	MsgDelayChart:         "Delay distribution",
	MsgAverage:            "Average",
	MsgMaximum:            "Maximum",
	MsgMinimum:            "Minimum",
	MsgCount:              "Count",
	MsgFeedTimestamps:     "Feed timestamps",
	MsgFilters:            "Filters",
	MsgApply:              "Apply",
	MsgPrevious:           "Previous",
	MsgNext:               "Next",
	MsgPageSize:           "Rows per page",
	MsgSources:            "Sources",
	MsgCurrentSource:      "Current source",
	MsgAddSource:          "Add a source",
	MsgName:               "Name",
	MsgUseLocalFiles:      "Use local files",
	MsgTripUpdateURL:      "TripUpdate URL",
	MsgVehiclePositionURL: "VehiclePosition URL",
	MsgAlertURL:           "Alert URL",
	MsgTestSource:         "Test",
	MsgTestResults:        "Test results",
	MsgSave:               "Save",
	MsgRemove:             "Remove",
	MsgActivate:           "Activate",
	MsgDismiss:            "Dismiss",
	MsgPeriod:             "Period",
	MsgAffected:           "Affected entities",
}

var french = map[string]string{
	MsgAllRoutes:       "Toutes les routes",
	MsgAllStatuses:     "Tous les statuts",
	MsgStatusStopped:   "Arrêté",
	MsgStatusTransit:   "En transit",
	MsgStatusIncoming:  "En approche",
	MsgStatusUnknown:   "Inconnu",
	MsgVehicle:         "Véhicule %s",
	MsgTrip:            "Trajet",
	MsgRoute:           "Route",
	MsgStop:            "Arrêt",
	MsgAgency:          "Agence",
	MsgPosition:        "Position",
	MsgSpeed:           "Vitesse",
	MsgBearing:         "Direction",
	MsgStatus:          "Statut",
	MsgTimestamp:       "Horodatage",
	MsgCause:           "Cause",
	MsgEffect:          "Effet",
	MsgUntitledAlert:   "Alerte sans titre",
	MsgNoDescription:   "Pas de description",
	MsgOtherAlerts:     "%s autre(s) alerte(s)...",
	MsgNoAlerts:        "Aucune alerte active",
	MsgNoSources:       "Aucune source configurée.",
	MsgLocalFiles:      "Fichiers locaux",
	MsgURLs:            "URLs",
	MsgActive:          "Active",
	MsgTableInfo:       "Affichage de %s à %s sur %s entrées",
	MsgTableEmpty:      "Aucune entrée à afficher",
	MsgTestOK:          "OK",
	MsgTestStatusOK:    "Code: %s (OK)",
	MsgTestStatusError: "Code: %s (Erreur)",
	MsgTestError:       "Erreur: %s",
	MsgTestFailed:      "Échec",
	MsgTestUnknown:     "Statut inconnu",
	MsgNotAvailable:    "N/A",
	MsgNeverUpdated:    "Jamais",
	MsgVehicleID:       "ID véhicule",
	MsgDelay:           "Retard (min)",
	MsgArrival:         "Arrivée",
	MsgDeparture:       "Départ",
	MsgLatitude:        "Latitude",
	MsgLongitude:       "Longitude",

	MsgRefreshed:         "Données rafraîchies avec succès",
	MsgRefreshFailed:     "Erreur lors du rafraîchissement des données: %s",
	MsgLoadFailed:        "Erreur lors du chargement des données: %s",
	MsgConfigLoadFailed:  "Erreur lors du chargement de la configuration: %s",
	MsgRefreshInProgress: "Un rafraîchissement est déjà en cours",
	MsgSourceAdded:       "Source ajoutée avec succès.",
	MsgSourceAddFailed:   "Erreur lors de l'ajout de la source: %s",
	MsgSourceUpdated:     "Source mise à jour avec succès.",
	MsgSourceUpdateFail:  "Erreur lors de la mise à jour de la source: %s",
	MsgSourceRemoved:     "Source supprimée avec succès.",
	MsgSourceRemoveFail:  "Erreur lors de la suppression de la source: %s",
	MsgSourceActivated:   "Source active mise à jour avec succès.",
	MsgSourceActivateErr: "Erreur lors de la mise à jour de la source active: %s",
	MsgSourceNotFound:    "Source introuvable.",
	MsgTestFailedAll:     "Erreur lors du test: %s",

	MsgTitle:              "Tableau de bord GTFS-RT",
	MsgNavDashboard:       "Tableau de bord",
	MsgNavConfig:          "Configuration",
	MsgRefresh:            "Rafraîchir les données",
	MsgLastUpdate:         "Dernière mise à jour",
	MsgSummary:            "Résumé",
	MsgTripUpdates:        "Mises à jour des trajets",
	MsgVehiclePositions:   "Positions des véhicules",
	MsgAlerts:             "Alertes",
	MsgMap:                "Carte",
	MsgDelayChart:         "Distribution des retards",
	MsgAverage:            "Moyenne",
	MsgMaximum:            "Maximum",
	MsgMinimum:            "Minimum",
	MsgCount:              "Nombre",
	MsgFeedTimestamps:     "Horodatage des flux",
	MsgFilters:            "Filtres",
	MsgApply:              "Appliquer",
	MsgPrevious:           "Précédent",
	MsgNext:               "Suivant",
	MsgPageSize:           "Lignes par page",
	MsgSources:            "Sources",
	MsgCurrentSource:      "Source actuelle",
	MsgAddSource:          "Ajouter une source",
	MsgName:               "Nom",
	MsgUseLocalFiles:      "Utiliser les fichiers locaux",
	MsgTripUpdateURL:      "URL TripUpdate",
	MsgVehiclePositionURL: "URL VehiclePosition",
	MsgAlertURL:           "URL Alert",
	MsgTestSource:         "Tester",
	MsgTestResults:        "Résultats du test",
	MsgSave:               "Enregistrer",
	MsgRemove:             "Supprimer",
	MsgActivate:           "Activer",
	MsgDismiss:            "Fermer",
	MsgPeriod:             "Période",
	MsgAffected:           "Entités concernées",
}

var (
	supported = []language.Tag{language.English, language.French}
	matcher   = language.NewMatcher(supported)
	messages  = buildCatalog()
)

func buildCatalog() catalog.Catalog {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	for key, text := range english {
		builder.SetString(language.English, key, text)
	}
	for key, text := range french {
		builder.SetString(language.French, key, text)
	}
	return builder
}

// Translator renders catalog messages for one language. Every argument is
// passed through %s, so numbers must be formatted before translation.
type Translator struct {
	tag     language.Tag
	printer *message.Printer
}

// NewTranslator picks the best supported language for the given preferences,
// such as a configured locale followed by an Accept-Language header.
func NewTranslator(preferences ...string) *Translator {
	tag, _ := language.MatchStrings(matcher, preferences...)
	base, _ := tag.Base()

	resolved := language.English
	if base.String() == "fr" {
		resolved = language.French
	}

	return &Translator{
		tag:     resolved,
		printer: message.NewPrinter(resolved, message.Catalog(messages)),
	}
}

func (translator *Translator) Lang() string {
	return translator.tag.String()
}

func (translator *Translator) Text(key string, args ...string) string {
	values := make([]any, len(args))
	for i, arg := range args {
		values[i] = arg
	}
	return translator.printer.Sprintf(key, values...)
}
