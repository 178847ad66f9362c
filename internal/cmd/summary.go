package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func NewSummaryCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the statistics of every feed",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client(cmd)
			data, err := client.GetAllData(cmd.Context())
			if err != nil {
				return err
			}

			now := time.Now()
			translator := app.Translator()
			summary := views.BuildSummary(translator, data, now, func(chart string) string {
				return client.ChartURL(chart, now)
			})

			table := newTable(cmd.OutOrStdout(), "FEED", "COUNT", "AVERAGE", "MAXIMUM", "MINIMUM")
			row(table, translator.Text(views.MsgTripUpdates), summary.TripCount, summary.AvgDelay, summary.MaxDelay, summary.MinDelay)
			row(table, translator.Text(views.MsgVehiclePositions), summary.VehicleCount, summary.AvgSpeed, summary.MaxSpeed, summary.MinSpeed)
			row(table, translator.Text(views.MsgAlerts), summary.AlertCount, "", "", "")
			if err := table.Flush(); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out)
			for _, timestamp := range summary.Timestamps {
				fmt.Fprintf(out, "%s: %s\n", timestamp.Feed, timestamp.Value)
			}
			if summary.ChartURL != "" {
				fmt.Fprintf(out, "%s: %s\n", translator.Text(views.MsgDelayChart), summary.ChartURL)
			}
			return nil
		},
	}

	return cmd
}
