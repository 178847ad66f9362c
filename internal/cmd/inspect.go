package cmd

import (
	"strings"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/feed"
)

func NewInspectCmd(app *GtfsCtlApp) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file.pb|url>",
		Short: "Decode a GTFS-RT protobuf feed and print it as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]

			var message *gtfs.FeedMessage
			var err error
			if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
				message, err = feed.NewFetcher(app.Timeout).Sample(cmd.Context(), target)
			} else {
				message, err = feed.ReadFile(target)
			}
			if err != nil {
				return err
			}

			payload, err := feed.Marshal(message)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			out.Write(payload)
			out.Write([]byte("\n"))
			return nil
		},
	}
}
