// Package config holds the settings shared by the classifier, the help
// resolver and the destination refiner.
//
// Configuration is an explicit value passed to the components that read it.
// Load builds one from defaults, an optional YAML file and SVCERR_*
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Platform identifies the environment embedding the classifier.
type Platform string

const (
	// PlatformDesktop is a locally installed editor.
	PlatformDesktop Platform = "desktop"

	// PlatformCloudIDE is the hosted development environment.
	PlatformCloudIDE Platform = "cloud-ide"

	// PlatformCLI is the command line.
	PlatformCLI Platform = "cli"
)

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	switch p {
	case PlatformDesktop, PlatformCloudIDE, PlatformCLI:
		return true
	default:
		return false
	}
}

// Defaults.
const (
	DefaultHelpBaseURL  = "https://guidedanswers.example.com/viewer/index.html#"
	DefaultHelpTreeID   = 3046
	DefaultHelpTrigger  = "svcerr"
	DefaultLocale       = "en"
	DefaultNATSSubject  = "svcerr.events"
	DefaultTelemetryBuf = 256

	envPrefix = "SVCERR_"
)

// Config is the classifier configuration.
type Config struct {
	Platform   Platform   `yaml:"platform"`
	Locale     string     `yaml:"locale"`
	GuidedHelp GuidedHelp `yaml:"guided_help"`
	Telemetry  Telemetry  `yaml:"telemetry"`
}

// GuidedHelp configures help links.
type GuidedHelp struct {
	// Enabled attaches a launch command to help links so the host UI can
	// open the interactive help flow.
	Enabled bool `yaml:"enabled"`

	// Trigger tags the launch command with the feature that raised the error.
	Trigger string `yaml:"trigger"`

	BaseURL string `yaml:"base_url"`
	TreeID  int    `yaml:"tree_id"`
}

// Telemetry configures event delivery.
type Telemetry struct {
	Enabled    bool   `yaml:"enabled"`
	NATSURL    string `yaml:"nats_url"`
	Subject    string `yaml:"subject"`
	BufferSize int    `yaml:"buffer_size"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Platform: PlatformDesktop,
		Locale:   DefaultLocale,
		GuidedHelp: GuidedHelp{
			Trigger: DefaultHelpTrigger,
			BaseURL: DefaultHelpBaseURL,
			TreeID:  DefaultHelpTreeID,
		},
		Telemetry: Telemetry{
			Subject:    DefaultNATSSubject,
			BufferSize: DefaultTelemetryBuf,
		},
	}
}

// IsCloudIDE reports whether the classifier runs in the hosted environment.
func (c Config) IsCloudIDE() bool {
	return c.Platform == PlatformCloudIDE
}

// Validate checks the configuration for inconsistent values.
func (c Config) Validate() error {
	var errs []error
	if !c.Platform.Valid() {
		errs = append(errs, fmt.Errorf("unknown platform %q", c.Platform))
	}
	if c.GuidedHelp.TreeID <= 0 {
		errs = append(errs, fmt.Errorf("guided_help.tree_id must be positive, got %d", c.GuidedHelp.TreeID))
	}
	if _, err := url.Parse(c.GuidedHelp.BaseURL); err != nil || c.GuidedHelp.BaseURL == "" {
		errs = append(errs, fmt.Errorf("guided_help.base_url is invalid: %q", c.GuidedHelp.BaseURL))
	}
	if c.Telemetry.BufferSize < 0 {
		errs = append(errs, fmt.Errorf("telemetry.buffer_size must not be negative, got %d", c.Telemetry.BufferSize))
	}
	return errors.Join(errs...)
}

// Load returns the default configuration overlaid with the YAML file at path
// (skipped when path is empty) and SVCERR_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// LoadEnvFile loads KEY=VALUE pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are ignored.
func LoadEnvFile(paths ...string) error {
	var existing []string
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			existing = append(existing, p)
		}
	}
	if len(existing) == 0 {
		return nil
	}
	if err := godotenv.Load(existing...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

type lookupFunc func(string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(envPrefix + name); ok {
			*dst = v
		}
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = b
		return nil
	}
	integer := func(name string, dst *int) error {
		v, ok := lookup(envPrefix + name)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("invalid %s%s: %w", envPrefix, name, err)
		}
		*dst = n
		return nil
	}

	var platform string
	str("PLATFORM", &platform)
	if platform != "" {
		cfg.Platform = Platform(platform)
	}
	str("LOCALE", &cfg.Locale)
	str("HELP_TRIGGER", &cfg.GuidedHelp.Trigger)
	str("HELP_BASE_URL", &cfg.GuidedHelp.BaseURL)
	str("NATS_URL", &cfg.Telemetry.NATSURL)
	str("TELEMETRY_SUBJECT", &cfg.Telemetry.Subject)

	return errors.Join(
		boolean("GUIDED_HELP", &cfg.GuidedHelp.Enabled),
		boolean("TELEMETRY", &cfg.Telemetry.Enabled),
		integer("HELP_TREE_ID", &cfg.GuidedHelp.TreeID),
		integer("TELEMETRY_BUFFER", &cfg.Telemetry.BufferSize),
	)
}
