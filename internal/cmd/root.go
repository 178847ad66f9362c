package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/logger"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const DefaultAPIBaseURL = "http://localhost:8000"

// GtfsCtlApp carries the persistent flags shared by every subcommand.
type GtfsCtlApp struct {
	ConfigPath string
	APIBaseURL string
	Timeout    time.Duration
	Locale     string
}

// ctlFile reads the keys gtfs-ctl shares with the dashboard configuration.
type ctlFile struct {
	APIBaseURL     string `toml:"api_base_url"`
	RequestTimeout string `toml:"request_timeout"`
	Locale         string `toml:"locale"`
}

func Execute() error {
	app := &GtfsCtlApp{}
	rootCmd := NewRootCmd(app)
	return rootCmd.Execute()
}

func NewRootCmd(app *GtfsCtlApp) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gtfs-ctl",
		Short:         "CLI tool used to inspect and drive the GTFS-RT data API",
		Version:       fmt.Sprintf("%s (%s)", common.Version, common.GitCommit),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.resolve(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(
		&app.ConfigPath,
		"toml",
		"",
		"Path to configuration file",
	)
	cmd.PersistentFlags().StringVar(
		&app.APIBaseURL,
		"api",
		"",
		"Base URL of the data API (default "+DefaultAPIBaseURL+")",
	)
	cmd.PersistentFlags().DurationVar(
		&app.Timeout,
		"timeout",
		api.DefaultTimeout,
		"Timeout of each API request",
	)
	cmd.PersistentFlags().StringVar(
		&app.Locale,
		"locale",
		"en",
		"Output language (en or fr)",
	)

	cmd.AddCommand(NewSourcesCmd(app))
	cmd.AddCommand(NewRefreshCmd(app))
	cmd.AddCommand(NewTestSourceCmd(app))
	cmd.AddCommand(NewSummaryCmd(app))
	cmd.AddCommand(NewTripsCmd(app))
	cmd.AddCommand(NewVehiclesCmd(app))
	cmd.AddCommand(NewRoutesCmd(app))
	cmd.AddCommand(NewAlertsCmd(app))
	cmd.AddCommand(NewHealthCmd(app))
	cmd.AddCommand(NewInspectCmd(app))

	return cmd
}

// resolve fills in the API settings: explicit flags win over the
// environment, which wins over the configuration file.
func (app *GtfsCtlApp) resolve(cmd *cobra.Command) error {
	base := DefaultAPIBaseURL

	if app.ConfigPath != "" {
		var file ctlFile
		if _, err := toml.DecodeFile(app.ConfigPath, &file); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("read %s: %w", app.ConfigPath, err)
			}
		}
		if file.APIBaseURL != "" {
			base = file.APIBaseURL
		}
		if file.RequestTimeout != "" && !cmd.Flags().Changed("timeout") {
			timeout, err := time.ParseDuration(file.RequestTimeout)
			if err != nil {
				return fmt.Errorf("request_timeout: %w", err)
			}
			app.Timeout = timeout
		}
		if file.Locale != "" && !cmd.Flags().Changed("locale") {
			app.Locale = file.Locale
		}
	}

	if env := os.Getenv("GTFS_API_BASE_URL"); env != "" {
		base = env
	}
	if app.APIBaseURL == "" {
		app.APIBaseURL = base
	}
	return nil
}

// Client logs to the command's error stream so stdout only carries results.
func (app *GtfsCtlApp) Client(cmd *cobra.Command) *api.Client {
	log := logger.New(cmd.ErrOrStderr()).With("gtfs-ctl")
	return api.NewClient(app.APIBaseURL, api.WithTimeout(app.Timeout), api.WithLogger(log))
}

func (app *GtfsCtlApp) Translator() *views.Translator {
	return views.NewTranslator(app.Locale)
}
