package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func NewVehiclesCmd(app *GtfsCtlApp) *cobra.Command {
	flags := &tableFlags{}
	selection := model.DefaultFilters()
	cmd := &cobra.Command{
		Use:   "vehicles",
		Short: "List vehicle positions, optionally filtered by route and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Client(cmd).GetAllData(cmd.Context())
			if err != nil {
				return err
			}

			rows := filter.SelectRows(data.VehiclePositions.Data, selection)
			vehicles := views.BuildVehicleTable(app.Translator(), rows, flags.query())
			table := newTable(cmd.OutOrStdout(), "VEHICLE", "TRIP", "ROUTE", "LAT", "LON", "SPEED", "BEARING", "STATUS", "TIMESTAMP")
			for _, vehicle := range vehicles.Rows {
				row(table, vehicle.VehicleID, vehicle.TripID, vehicle.RouteID, vehicle.Latitude, vehicle.Longitude,
					vehicle.Speed, vehicle.Bearing, vehicle.StatusText, vehicle.Timestamp)
			}
			if err := table.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), vehicles.Info)
			return nil
		},
	}
	flags.register(cmd, "vehicle_id, trip_id, route_id, latitude, longitude, speed, bearing, current_status, timestamp")
	cmd.Flags().StringVar(&selection.Route, "route", model.FilterAll, "Only show this route")
	cmd.Flags().StringVar(&selection.Status, "status", model.FilterAll, "Only show this status (STOPPED_AT, IN_TRANSIT_TO, INCOMING_AT)")
	return cmd
}
