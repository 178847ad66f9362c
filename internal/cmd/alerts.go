package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

func NewAlertsCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Show active service alerts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.Client(cmd).GetAllData(cmd.Context())
			if err != nil {
				return err
			}

			translator := app.Translator()
			alerts := views.BuildAlerts(translator, data.Alerts)
			out := cmd.OutOrStdout()
			if alerts.Empty != "" {
				fmt.Fprintln(out, alerts.Empty)
				return nil
			}

			for _, card := range alerts.Cards {
				fmt.Fprintf(out, "[%s] %s\n", card.Class, card.Header)
				fmt.Fprintf(out, "  %s\n", card.Description)
				fmt.Fprintf(out, "  %s: %s, %s: %s\n", translator.Text(views.MsgCause), card.Cause, translator.Text(views.MsgEffect), card.Effect)
				if card.StartTime != "" || card.EndTime != "" {
					fmt.Fprintf(out, "  %s: %s - %s\n", translator.Text(views.MsgPeriod), card.StartTime, card.EndTime)
				}
				for _, entity := range card.Entities {
					fmt.Fprintf(out, "  - %s\n", entity)
				}
			}
			return nil
		},
	}

	return cmd
}
