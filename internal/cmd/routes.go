package cmd

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/filter"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func NewRoutesCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "routes",
		Short: "Inspect vehicle activity per route",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Client(cmd).GetAllData(cmd.Context())
			if err != nil {
				return err
			}

			translator := app.Translator()
			vehicles := data.VehiclePositions.Data
			headers := []string{"ROUTE", "VEHICLES"}
			for _, status := range model.KnownStatuses {
				headers = append(headers, views.StatusText(translator, status))
			}

			table := newTable(cmd.OutOrStdout(), headers...)
			for _, route := range filter.RouteOptions(vehicles) {
				if route == model.FilterAll {
					continue
				}
				cells := []string{route, strconv.Itoa(len(filter.SelectRows(vehicles, model.FilterSelection{Route: route, Status: model.FilterAll})))}
				for _, status := range model.KnownStatuses {
					selection := model.FilterSelection{Route: route, Status: string(status)}
					cells = append(cells, strconv.Itoa(len(filter.SelectRows(vehicles, selection))))
				}
				row(table, cells...)
			}
			return table.Flush()
		},
	}

	return cmd
}
