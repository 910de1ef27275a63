package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/l10n"
)

// Config represents the application configuration
type Config struct {
	Upstream        UpstreamConfig    `yaml:"upstream"`
	Output          OutputConfig      `yaml:"output"`
	ContributorsURL string            `yaml:"contributors_url,omitempty"`
	DefaultLocale   string            `yaml:"default_locale,omitempty"`
	LocaleAliases   map[string]string `yaml:"locale_aliases,omitempty"`
	Addons          []string          `yaml:"addons"`
	NewAddons       []string          `yaml:"new_addons,omitempty"`
	Metrics         MetricsConfig     `yaml:"metrics,omitempty"`
	Notify          NotifyConfig      `yaml:"notify,omitempty"`
	Schedule        ScheduleConfig    `yaml:"schedule,omitempty"`
}

// UpstreamConfig describes where the addon source tree comes from.
type UpstreamConfig struct {
	URL     string `yaml:"url"`
	Branch  string `yaml:"branch,omitempty"`
	Depth   int    `yaml:"depth,omitempty"`
	Retries int    `yaml:"retries,omitempty"` // extra attempts on transient clone failures
	Path    string `yaml:"path"`              // local checkout location

	RetryBackoff      RetryBackoffMode `yaml:"retry_backoff,omitempty"`       // fixed|linear|exponential (default linear)
	RetryInitialDelay string           `yaml:"retry_initial_delay,omitempty"` // duration string (default 2s)
	RetryMaxDelay     string           `yaml:"retry_max_delay,omitempty"`     // cap for growth (default 30s)
}

// OutputConfig represents output configuration
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// MetricsConfig controls optional Prometheus export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"` // written after every run when set
	Listen   string `yaml:"listen,omitempty"`   // /metrics address for schedule mode
}

// NotifyConfig controls the optional NATS completion event.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty"`
}

// ScheduleConfig controls schedule mode. Cron wins over Interval when both are set.
type ScheduleConfig struct {
	Cron     string `yaml:"cron,omitempty"`
	Interval string `yaml:"interval,omitempty"`
}

// Load loads configuration from the specified file
func Load(configPath string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		// Don't fail if .env doesn't exist
		fmt.Fprintf(os.Stderr, "Note: .env file not found or couldn't be loaded: %v\n", err)
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, derrors.ConfigNotFound(configPath)
	}

	// #nosec G304 - path is supplied by the operator on the command line
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML configuration, expanding environment variables first,
// then applies defaults and validates the result.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, derrors.Wrap(err, derrors.CategoryConfig, derrors.SeverityFatal, "failed to unmarshal config")
	}

	if err := applyDefaults(&cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init creates a new configuration file with example content
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}

	exampleConfig := Config{
		Upstream: UpstreamConfig{
			URL:    DefaultUpstreamURL,
			Branch: DefaultUpstreamBranch,
			Depth:  1,
			Path:   DefaultUpstreamPath,
		},
		Output:          OutputConfig{Directory: DefaultOutputDirectory},
		ContributorsURL: DefaultContributorsURL,
		DefaultLocale:   DefaultLocale,
		LocaleAliases:   l10n.DefaultAliases(),
		Addons: []string{
			"editor-devtools",
			"editor-theme3",
			"mediarecorder",
		},
		NewAddons: []string{"mediarecorder"},
		Notify:    NotifyConfig{Subject: DefaultNotifySubject},
		Schedule:  ScheduleConfig{Cron: "0 3 * * *"},
	}

	data, err := yaml.Marshal(&exampleConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
