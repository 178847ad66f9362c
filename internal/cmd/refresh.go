package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func printTestResults(out io.Writer, translator *views.Translator, results model.TestResults) {
	lines := views.BuildTestResults(translator, results)
	if len(lines) == 0 {
		fmt.Fprintln(out, "No feed was attempted")
		return
	}
	for _, line := range lines {
		fmt.Fprintf(out, "%s: %s\n", line.Feed, line.Message)
	}
}

func NewRefreshCmd(app *GtfsCtlApp) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Download the current source's feeds again",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.Client(cmd).RefreshData(cmd.Context())
			if err != nil {
				return err
			}
			printTestResults(cmd.OutOrStdout(), app.Translator(), results)
			return nil
		},
	}
}

func NewTestSourceCmd(app *GtfsCtlApp) *cobra.Command {
	var urls model.SourceURLs
	cmd := &cobra.Command{
		Use:   "test-source",
		Short: "Check that feed URLs answer, without saving them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := app.Client(cmd).TestSourceURLs(cmd.Context(), urls)
			if err != nil {
				return err
			}
			printTestResults(cmd.OutOrStdout(), app.Translator(), results)
			return nil
		},
	}

	cmd.Flags().StringVar(&urls.TripUpdateURL, "trip-update-url", "", "TripUpdate feed URL")
	cmd.Flags().StringVar(&urls.VehiclePositionURL, "vehicle-position-url", "", "VehiclePosition feed URL")
	cmd.Flags().StringVar(&urls.AlertURL, "alert-url", "", "Alert feed URL")
	return cmd
}
