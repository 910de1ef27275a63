// Package l10n splits the upstream per-addon message catalogs of a locale into
// the runtime and settings bundles consumed by the downstream build.
package l10n

import (
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
)

// SettingsMarker marks message ids that belong to the settings bundle.
const SettingsMarker = "/@"

// SkipMessages are message ids never exported. They describe upstream-only UI.
var SkipMessages = sets.New(
	"debugger/feedback-log",
	"debugger/feedback-remove",
	"debugger/feedback-submit",
	"editor-devtools/help-by",
	"editor-devtools/extension-description-not-for-addon",
	"mediarecorder/added-by",
)

// Catalog is the partitioned message set of one locale.
type Catalog struct {
	Runtime  map[string]string
	Settings map[string]string
	// Collisions counts ids written more than once across addons. The later
	// addon wins.
	Collisions int
}

func newCatalog() *Catalog {
	return &Catalog{
		Runtime:  make(map[string]string),
		Settings: make(map[string]string),
	}
}

// add routes one message id into its group.
func (c *Catalog) add(id, value string) {
	if SkipMessages.Has(id) {
		return
	}
	target := c.Runtime
	if strings.Contains(id, SettingsMarker) {
		target = c.Settings
	}
	if _, exists := target[id]; exists {
		c.Collisions++
	}
	target[id] = value
}

// Partition reads <localeDir>/<addon>.json for every addon, in list order, and
// partitions the messages. A missing or unparsable file means the addon has no
// translation for this locale and is skipped.
func Partition(localeDir string, addons []string) *Catalog {
	c := newCatalog()
	for _, addon := range addons {
		messages, err := readMessages(filepath.Join(localeDir, addon+".json"))
		if err != nil {
			slog.Debug("Skipping missing translation", logfields.Addon(addon), logfields.Path(localeDir), logfields.Error(err))
			continue
		}
		ids := make([]string, 0, len(messages))
		for id := range messages {
			ids = append(ids, id)
		}
		slices.Sort(ids)
		for _, id := range ids {
			c.add(id, messages[id])
		}
	}
	return c
}

func readMessages(path string) (map[string]string, error) {
	// #nosec G304 - path is built from the upstream tree and the configured addon ids
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var messages map[string]string
	if err := json.Unmarshal(data, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}
