package dashboard

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/refresh"
	"github.com/YoanAncelly/gtfs-viewer/internal/views"
)

const (
	DefaultListenAddress = ":8080"
	DefaultAPIBaseURL    = "http://localhost:8000"
)

type ConfigFile struct {
	Listen          string `toml:"listen"`
	APIBaseURL      string `toml:"api_base_url"`
	RefreshInterval string `toml:"refresh_interval"`
	RequestTimeout  string `toml:"request_timeout"`
	TelemetryAddr   string `toml:"telemetry_addr"`
	PageSize        int    `toml:"page_size"`
	MapPadding      int    `toml:"map_padding"`
	Locale          string `toml:"locale"`
}

type Config struct {
	Version        bool
	TomlConfigPath string

	ListenAddress   string        `validate:"required,hostname_port"`
	APIBaseURL      string        `validate:"required,http_url"`
	RefreshInterval time.Duration `validate:"gte=1s"`
	RequestTimeout  time.Duration `validate:"gt=0"`
	TelemetryAddr   string        `validate:"omitempty,hostname_port"`
	PageSize        int           `validate:"oneof=10 25 50 100"`
	MapPadding      int           `validate:"gte=0"`
	Locale          string        `validate:"omitempty,oneof=en fr"`
}

func LoadConfigFromToml(path string) (ConfigFile, error) {
	var cfg ConfigFile
	_, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return ConfigFile{}, err
	}

	return cfg, nil
}

func defaultConfig() Config {
	return Config{
		ListenAddress:   DefaultListenAddress,
		APIBaseURL:      DefaultAPIBaseURL,
		RefreshInterval: refresh.DefaultInterval,
		RequestTimeout:  api.DefaultTimeout,
		PageSize:        views.DefaultPageSize,
		MapPadding:      views.DefaultMapPadding,
	}
}

func parseDuration(key, value string, target *time.Duration) error {
	if value == "" {
		return nil
	}
	duration, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = duration
	return nil
}

func parseInt(key, value string, target *int) error {
	if value == "" {
		return nil
	}
	number, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*target = number
	return nil
}

func setString(value string, target *string) {
	if value != "" {
		*target = value
	}
}

func (cfg *Config) applyFile(file ConfigFile) error {
	setString(file.Listen, &cfg.ListenAddress)
	setString(file.APIBaseURL, &cfg.APIBaseURL)
	setString(file.TelemetryAddr, &cfg.TelemetryAddr)
	setString(file.Locale, &cfg.Locale)
	if file.PageSize != 0 {
		cfg.PageSize = file.PageSize
	}
	if file.MapPadding != 0 {
		cfg.MapPadding = file.MapPadding
	}
	if err := parseDuration("refresh_interval", file.RefreshInterval, &cfg.RefreshInterval); err != nil {
		return err
	}
	return parseDuration("request_timeout", file.RequestTimeout, &cfg.RequestTimeout)
}

func (cfg *Config) applyEnv() error {
	setString(os.Getenv("GTFS_DASHBOARD_LISTEN"), &cfg.ListenAddress)
	setString(os.Getenv("GTFS_API_BASE_URL"), &cfg.APIBaseURL)
	setString(os.Getenv("GTFS_DASHBOARD_TELEMETRY_ADDR"), &cfg.TelemetryAddr)
	setString(os.Getenv("GTFS_DASHBOARD_LOCALE"), &cfg.Locale)
	if err := parseInt("GTFS_DASHBOARD_PAGE_SIZE", os.Getenv("GTFS_DASHBOARD_PAGE_SIZE"), &cfg.PageSize); err != nil {
		return err
	}
	if err := parseInt("GTFS_DASHBOARD_MAP_PADDING", os.Getenv("GTFS_DASHBOARD_MAP_PADDING"), &cfg.MapPadding); err != nil {
		return err
	}
	if err := parseDuration("GTFS_DASHBOARD_REFRESH_INTERVAL", os.Getenv("GTFS_DASHBOARD_REFRESH_INTERVAL"), &cfg.RefreshInterval); err != nil {
		return err
	}
	return parseDuration("GTFS_DASHBOARD_REQUEST_TIMEOUT", os.Getenv("GTFS_DASHBOARD_REQUEST_TIMEOUT"), &cfg.RequestTimeout)
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	cfg := defaultConfig()
	var flags Config

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.TomlConfigPath, "toml", "", "Configuration file")
	fs.StringVar(&flags.ListenAddress, "listen", "", "Listen address (default "+DefaultListenAddress+")")
	fs.StringVar(&flags.APIBaseURL, "api", "", "Base URL of the GTFS-RT REST API (default "+DefaultAPIBaseURL+")")
	fs.DurationVar(&flags.RefreshInterval, "refresh-interval", 0, "Time between automatic data loads")
	fs.DurationVar(&flags.RequestTimeout, "request-timeout", 0, "Timeout of each API request")
	fs.StringVar(&flags.TelemetryAddr, "telemetry", "", "Address serving /metrics and pprof, disabled when empty")
	fs.StringVar(&flags.Locale, "locale", "", "Interface language (en or fr), otherwise taken from the browser")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Version {
		fmt.Fprintf(errOut, "%s: version %s (%s)\n", programName, common.Version, common.GitCommit)
		return cfg, flag.ErrHelp
	}

	// A missing .env is fine.
	_ = godotenv.Load()

	if cfg.TomlConfigPath != "" {
		tomlCfg, err := LoadConfigFromToml(cfg.TomlConfigPath)
		if err != nil {
			return Config{}, fmt.Errorf("LoadConfigFromToml: %w", err)
		}
		if err := cfg.applyFile(tomlCfg); err != nil {
			return Config{}, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}

	setString(flags.ListenAddress, &cfg.ListenAddress)
	setString(flags.APIBaseURL, &cfg.APIBaseURL)
	setString(flags.TelemetryAddr, &cfg.TelemetryAddr)
	setString(flags.Locale, &cfg.Locale)
	if flags.RefreshInterval > 0 {
		cfg.RefreshInterval = flags.RefreshInterval
	}
	if flags.RequestTimeout > 0 {
		cfg.RequestTimeout = flags.RequestTimeout
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (cfg Config) Validate() error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func Main(programName string, args []string, out, errOut io.Writer) int {
	cfg, err := ParseArgs(programName, args, errOut)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintln(errOut, "Error:", err)
		return -1
	}

	return Run(cfg)
}
