package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

type tableFlags struct {
	sort  string
	desc  bool
	page  int
	limit int
}

func (flags *tableFlags) register(cmd *cobra.Command, columns string) {
	cmd.Flags().StringVar(&flags.sort, "sort", "", "Sort column ("+columns+")")
	cmd.Flags().BoolVar(&flags.desc, "desc", false, "Sort in descending order")
	cmd.Flags().IntVar(&flags.page, "page", 1, "Page to show")
	cmd.Flags().IntVar(&flags.limit, "limit", views.DefaultPageSize, "Rows per page (10, 25, 50 or 100)")
}

func (flags *tableFlags) query() views.TableQuery {
	return views.TableQuery{Sort: flags.sort, Desc: flags.desc, Page: flags.page, PageSize: flags.limit}
}

func NewTripsCmd(app *GtfsCtlApp) *cobra.Command {
	flags := &tableFlags{}
	cmd := &cobra.Command{
		Use:   "trips",
		Short: "List trip updates, largest delay first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Client(cmd).GetAllData(cmd.Context())
			if err != nil {
				return err
			}

			trips := views.BuildTripTable(app.Translator(), data.TripUpdates.Data, flags.query())
			table := newTable(cmd.OutOrStdout(), "TRIP", "ROUTE", "STOP", "DELAY (MIN)", "ARRIVAL", "DEPARTURE")
			for _, trip := range trips.Rows {
				row(table, trip.TripID, trip.RouteID, trip.StopID, trip.DelayMinutes, trip.ArrivalTime, trip.DepartureTime)
			}
			if err := table.Flush(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), trips.Info)
			return nil
		},
	}
	flags.register(cmd, "trip_id, route_id, stop_id, delay_minutes, arrival_time, departure_time")
	return cmd
}
