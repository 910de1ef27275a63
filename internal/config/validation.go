package config

import (
	"fmt"
	"path/filepath"
	"time"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
)

// ValidateConfig validates the complete configuration structure.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validateAddons(); err != nil {
		return err
	}
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateRetry(); err != nil {
		return err
	}
	if err := cv.validateSchedule(); err != nil {
		return err
	}
	return nil
}

// validateAddons checks the externally supplied addon lists.
func (cv *configurationValidator) validateAddons() error {
	if len(cv.config.Addons) == 0 {
		return derrors.ValidationFailed("addons", "at least one addon must be listed")
	}
	seen := sets.New[string]()
	for _, id := range cv.config.Addons {
		if id == "" {
			return derrors.ValidationFailed("addons", "empty addon id")
		}
		if seen.Has(id) {
			return derrors.ValidationFailed("addons", fmt.Sprintf("duplicate addon id %q", id))
		}
		seen.Add(id)
	}
	for _, id := range cv.config.NewAddons {
		if !seen.Has(id) {
			return derrors.ValidationFailed("new_addons", fmt.Sprintf("%q is not in addons", id))
		}
	}
	return nil
}

// validatePaths makes sure the upstream checkout and the output tree never overlap,
// since the output tree is wiped on every run.
func (cv *configurationValidator) validatePaths() error {
	up, err := filepath.Abs(cv.config.Upstream.Path)
	if err != nil {
		return derrors.ValidationFailed("upstream.path", err.Error())
	}
	out, err := filepath.Abs(cv.config.Output.Directory)
	if err != nil {
		return derrors.ValidationFailed("output.directory", err.Error())
	}
	if up == out || isWithin(up, out) || isWithin(out, up) {
		return derrors.ValidationFailed("output.directory", "must not overlap upstream.path")
	}
	return nil
}

func (cv *configurationValidator) validateRetry() error {
	up := cv.config.Upstream
	for field, raw := range map[string]string{
		"upstream.retry_initial_delay": up.RetryInitialDelay,
		"upstream.retry_max_delay":     up.RetryMaxDelay,
	} {
		if raw == "" {
			continue
		}
		if d, err := time.ParseDuration(raw); err != nil || d <= 0 {
			return derrors.ValidationFailed(field, fmt.Sprintf("invalid duration %q", raw))
		}
	}
	return nil
}

func (cv *configurationValidator) validateSchedule() error {
	if cv.config.Schedule.Interval == "" {
		return nil
	}
	d, err := time.ParseDuration(cv.config.Schedule.Interval)
	if err != nil {
		return derrors.ValidationFailed("schedule.interval", err.Error())
	}
	if d < time.Minute {
		return derrors.ValidationFailed("schedule.interval", "must be at least 1m")
	}
	return nil
}

func isWithin(child, parent string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
