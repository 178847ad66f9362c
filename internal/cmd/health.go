package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
)

func NewHealthCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "health",
		Short: "Check that the data API answers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client(cmd)
			out := cmd.OutOrStdout()
			log := logger.New(cmd.ErrOrStderr())

			benchmarker := common.NewBenchmarker(log, "config")
			config, err := client.GetConfig(cmd.Context())
			benchmarker.Close()
			if err != nil {
				fmt.Fprintf(out, "config: FAILED (%v)\n", err)
				return err
			}
			current, _ := config.Current()
			fmt.Fprintf(out, "config: ok in %s, %d source(s), current %q\n",
				benchmarker.Elapsed().Round(time.Millisecond), len(config.Sources), current.Name)

			benchmarker = common.NewBenchmarker(log, "all-data")
			data, err := client.GetAllData(cmd.Context())
			benchmarker.Close()
			if err != nil {
				fmt.Fprintf(out, "all-data: FAILED (%v)\n", err)
				return err
			}
			fmt.Fprintf(out, "all-data: ok in %s, %d trip updates, %d vehicles, %d alerts\n",
				benchmarker.Elapsed().Round(time.Millisecond),
				len(data.TripUpdates.Data), len(data.VehiclePositions.Data), len(data.Alerts.Data))
			return nil
		},
	}

	return cmd
}
