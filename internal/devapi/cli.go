package devapi

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/YoanAncelly/gtfs-viewer/internal/api"
	"github.com/YoanAncelly/gtfs-viewer/internal/common"
	"github.com/YoanAncelly/gtfs-viewer/internal/model"
)

const (
	DefaultListenAddress = ":8000"
	DefaultDataDir       = "data/gtfs_rt"
)

type ConfigFile struct {
	Listen        string         `toml:"listen"`
	DataDir       string         `toml:"data_dir"`
	FetchTimeout  string         `toml:"fetch_timeout"`
	CurrentSource int            `toml:"current_source"`
	Sources       []model.Source `toml:"sources"`
}

type Config struct {
	Version        bool
	TomlConfigPath string

	ListenAddress string        `validate:"required,hostname_port"`
	DataDir       string        `validate:"required"`
	FetchTimeout  time.Duration `validate:"gt=0"`
	Sources       model.SourceConfig
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
		ListenAddress: DefaultListenAddress,
		DataDir:       DefaultDataDir,
		FetchTimeout:  30 * time.Second,
		Sources: model.SourceConfig{
			Sources: []model.Source{DefaultSource},
		},
	}
}

func (cfg *Config) applyFile(file ConfigFile) error {
	if file.Listen != "" {
		cfg.ListenAddress = file.Listen
	}
	if file.DataDir != "" {
		cfg.DataDir = file.DataDir
	}
	if file.FetchTimeout != "" {
		timeout, err := time.ParseDuration(file.FetchTimeout)
		if err != nil {
			return fmt.Errorf("fetch_timeout: %w", err)
		}
		cfg.FetchTimeout = timeout
	}
	if len(file.Sources) > 0 {
		cfg.Sources = model.SourceConfig{Sources: file.Sources, CurrentSource: file.CurrentSource}
	}
	return nil
}

func (cfg *Config) applyEnv() error {
	if value := os.Getenv("GTFS_DEVAPI_LISTEN"); value != "" {
		cfg.ListenAddress = value
	}
	if value := os.Getenv("GTFS_DEVAPI_DATA_DIR"); value != "" {
		cfg.DataDir = value
	}
	if value := os.Getenv("GTFS_DEVAPI_FETCH_TIMEOUT"); value != "" {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("GTFS_DEVAPI_FETCH_TIMEOUT: %w", err)
		}
		cfg.FetchTimeout = timeout
	}
	return nil
}

func ParseArgs(programName string, args []string, errOut io.Writer) (Config, error) {
	cfg := defaultConfig()

	var listen, dataDir string
	var fetchTimeout time.Duration

	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errOut)

	fs.Usage = func() {
		fmt.Fprintf(errOut, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errOut, "Options")
		fs.PrintDefaults()
	}

	fs.BoolVar(&cfg.Version, "version", false, "Prints CLI version")
	fs.StringVar(&cfg.TomlConfigPath, "toml", "", "Configuration file")
	fs.StringVar(&listen, "listen", "", "Listen address (default "+DefaultListenAddress+")")
	fs.StringVar(&dataDir, "data-dir", "", "Directory holding TripUpdate.pb, VehiclePosition.pb and Alert.pb")
	fs.DurationVar(&fetchTimeout, "fetch-timeout", 0, "Timeout of each feed download")

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

	if listen != "" {
		cfg.ListenAddress = listen
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}
	if fetchTimeout > 0 {
		cfg.FetchTimeout = fetchTimeout
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

	sources := cfg.Sources.Sources
	if len(sources) == 0 {
		return errors.New("Need at least one source")
	}
	for i, source := range sources {
		if err := api.ValidateSource(source); err != nil {
			return fmt.Errorf("source %d (%q): %w", i, source.Name, err)
		}
	}
	if _, ok := cfg.Sources.Current(); !ok {
		return fmt.Errorf("current_source %d is out of range", cfg.Sources.CurrentSource)
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
