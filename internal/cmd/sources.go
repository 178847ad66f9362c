package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/model"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const shortIDLength = 8

var (
	ErrNoSuchSource    = errors.New("no such source")
	ErrAmbiguousSource = errors.New("source reference matches several sources")
)

type sourceFlags struct {
	name               string
	local              bool
	tripUpdateURL      string
	vehiclePositionURL string
	alertURL           string
}

func (flags *sourceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flags.name, "name", "", "Display name of the source")
	cmd.Flags().BoolVar(&flags.local, "local", false, "Read the feeds from the backend's local files")
	cmd.Flags().StringVar(&flags.tripUpdateURL, "trip-update-url", "", "TripUpdate feed URL")
	cmd.Flags().StringVar(&flags.vehiclePositionURL, "vehicle-position-url", "", "VehiclePosition feed URL")
	cmd.Flags().StringVar(&flags.alertURL, "alert-url", "", "Alert feed URL")
}

// apply overrides the fields of source whose flag was set.
func (flags *sourceFlags) apply(cmd *cobra.Command, source model.Source) model.Source {
	changed := cmd.Flags().Changed
	if changed("name") {
		source.Name = flags.name
	}
	if changed("local") {
		source.UseLocalFiles = flags.local
	}
	if changed("trip-update-url") {
		source.TripUpdateURL = flags.tripUpdateURL
	}
	if changed("vehicle-position-url") {
		source.VehiclePositionURL = flags.vehiclePositionURL
	}
	if changed("alert-url") {
		source.AlertURL = flags.alertURL
	}
	return source
}

// resolveSource accepts a list index or a source ID. IDs may be shortened to
// any unique prefix.
func resolveSource(config model.SourceConfig, ref string) (model.SourceEntry, error) {
	entries := config.Entries()

	if index, err := strconv.Atoi(ref); err == nil {
		if index < 0 || index >= len(entries) {
			return model.SourceEntry{}, fmt.Errorf("%w: index %d", ErrNoSuchSource, index)
		}
		return entries[index], nil
	}

	var found []model.SourceEntry
	for _, entry := range entries {
		if strings.HasPrefix(entry.ID, ref) {
			found = append(found, entry)
		}
	}
	switch len(found) {
	case 0:
		return model.SourceEntry{}, fmt.Errorf("%w: %s", ErrNoSuchSource, ref)
	case 1:
		return found[0], nil
	default:
		return model.SourceEntry{}, fmt.Errorf("%w: %s", ErrAmbiguousSource, ref)
	}
}

func NewSourcesCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sources",
		Short: "List the configured feed sources",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := app.Client(cmd).GetConfig(cmd.Context())
			if err != nil {
				return err
			}

			view := views.BuildConfig(app.Translator(), config)
			if view.Empty != "" {
				fmt.Fprintln(cmd.OutOrStdout(), view.Empty)
				return nil
			}

			table := newTable(cmd.OutOrStdout(), "", "INDEX", "ID", "NAME", "TYPE", "TRIP UPDATE", "VEHICLE POSITION", "ALERT")
			for i, card := range view.Sources {
				marker := ""
				if card.Current {
					marker = "*"
				}
				row(table, marker, strconv.Itoa(i), card.ID[:shortIDLength], card.Name, card.TypeLabel,
					card.TripUpdateURL, card.VehiclePositionURL, card.AlertURL)
			}
			return table.Flush()
		},
	}

	cmd.AddCommand(newSourcesAddCmd(app))
	cmd.AddCommand(newSourcesUpdateCmd(app))
	cmd.AddCommand(newSourcesRemoveCmd(app))
	cmd.AddCommand(newSourcesUseCmd(app))

	return cmd
}

func newSourcesAddCmd(app *GtfsCtlApp) *cobra.Command {
	flags := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a feed source",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			source := flags.apply(cmd, model.Source{})
			if err := app.Client(cmd).AddSource(cmd.Context(), source); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added source %q\n", source.Normalized().Name)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSourcesUpdateCmd(app *GtfsCtlApp) *cobra.Command {
	flags := &sourceFlags{}
	cmd := &cobra.Command{
		Use:   "update <index|id>",
		Short: "Change the fields of a feed source given as flags",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client(cmd)
			config, err := client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := resolveSource(config, args[0])
			if err != nil {
				return err
			}

			source := flags.apply(cmd, entry.Source)
			if err := client.UpdateSource(cmd.Context(), entry.Index, source); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated source %d %q\n", entry.Index, source.Normalized().Name)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newSourcesRemoveCmd(app *GtfsCtlApp) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <index|id>",
		Short: "Remove a feed source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client(cmd)
			config, err := client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := resolveSource(config, args[0])
			if err != nil {
				return err
			}

			if err := client.RemoveSource(cmd.Context(), entry.Index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed source %q\n", entry.Source.Name)
			return nil
		},
	}
}

func newSourcesUseCmd(app *GtfsCtlApp) *cobra.Command {
	return &cobra.Command{
		Use:   "use <index|id>",
		Short: "Make a feed source the current one",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := app.Client(cmd)
			config, err := client.GetConfig(cmd.Context())
			if err != nil {
				return err
			}
			entry, err := resolveSource(config, args[0])
			if err != nil {
				return err
			}

			if err := client.SetCurrentSource(cmd.Context(), entry.Index); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Current source is now %q\n", entry.Source.Name)
			return nil
		},
	}
}
