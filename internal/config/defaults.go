package config

import (
	"path/filepath"

	"git.home.luguber.info/inful/addonbuilder/internal/l10n"
)

const (
	DefaultUpstreamURL     = "https://github.com/TurboWarp/addons"
	DefaultUpstreamBranch  = "tw"
	DefaultUpstreamPath    = "./ScratchAddons"
	DefaultOutputDirectory = "./src/addons"
	DefaultContributorsURL = "https://raw.githubusercontent.com/ScratchAddons/contributors/master/.all-contributorsrc"
	DefaultLocale          = "en"
	DefaultNotifySubject   = "addonbuilder.pull.completed"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// UpstreamDefaultApplier handles upstream checkout defaults.
type UpstreamDefaultApplier struct{}

func (u *UpstreamDefaultApplier) Domain() string { return "upstream" }

func (u *UpstreamDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Upstream.URL == "" {
		cfg.Upstream.URL = DefaultUpstreamURL
	}
	if cfg.Upstream.Branch == "" {
		cfg.Upstream.Branch = DefaultUpstreamBranch
	}
	if cfg.Upstream.Path == "" {
		cfg.Upstream.Path = DefaultUpstreamPath
	}
	// Depth:
	// - omitted (0): shallow clone of depth 1, only the tip is ever read.
	// - negative: full history.
	if cfg.Upstream.Depth == 0 {
		cfg.Upstream.Depth = 1
	}
	if cfg.Upstream.Depth < 0 {
		cfg.Upstream.Depth = 0
	}
	// Retries are opt-in.
	if cfg.Upstream.Retries < 0 {
		cfg.Upstream.Retries = 0
	}
	cfg.Upstream.RetryBackoff = NormalizeRetryBackoff(string(cfg.Upstream.RetryBackoff))
	if cfg.Upstream.RetryBackoff == "" { // fallback to default if unknown
		cfg.Upstream.RetryBackoff = RetryBackoffLinear
	}
	cfg.Upstream.Path = filepath.Clean(cfg.Upstream.Path)
	return nil
}

// OutputDefaultApplier handles Output configuration defaults.
type OutputDefaultApplier struct{}

func (o *OutputDefaultApplier) Domain() string { return "output" }

func (o *OutputDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Output.Directory == "" {
		cfg.Output.Directory = DefaultOutputDirectory
	}
	cfg.Output.Directory = filepath.Clean(cfg.Output.Directory)
	return nil
}

// LocaleDefaultApplier handles localisation defaults.
type LocaleDefaultApplier struct{}

func (l *LocaleDefaultApplier) Domain() string { return "locale" }

func (l *LocaleDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = DefaultLocale
	}
	if cfg.LocaleAliases == nil {
		cfg.LocaleAliases = l10n.DefaultAliases()
	}
	if cfg.ContributorsURL == "" {
		cfg.ContributorsURL = DefaultContributorsURL
	}
	return nil
}

// NotifyDefaultApplier handles completion notification defaults.
type NotifyDefaultApplier struct{}

func (n *NotifyDefaultApplier) Domain() string { return "notify" }

func (n *NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	return nil
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&UpstreamDefaultApplier{},
		&OutputDefaultApplier{},
		&LocaleDefaultApplier{},
		&NotifyDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers() {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
