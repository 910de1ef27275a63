package l10n

import (
	"log/slog"
	"os"

	"golang.org/x/text/language"

	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
)

// Locale is one upstream locale folder and the name it is published under.
type Locale struct {
	Source string // folder name under addons-l10n/
	Name   string // output name after aliasing
}

// DefaultAliases is the rename table used when none is configured.
func DefaultAliases() map[string]string {
	return map[string]string{"pt-br": "pt"}
}

// NormalizeLocale applies the alias table to an upstream folder name.
func NormalizeLocale(folder string, aliases map[string]string) string {
	if alias, ok := aliases[folder]; ok {
		return alias
	}
	return folder
}

// ListLocales returns the locale folders under root in lexical order. Plain
// files (README and friends) are ignored. Folder names that are not valid
// BCP 47 tags are still returned but logged, since the downstream loader keys
// on them verbatim.
func ListLocales(root string, aliases map[string]string) ([]Locale, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var locales []Locale
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		name := NormalizeLocale(e.Name(), aliases)
		if _, err := language.Parse(name); err != nil {
			slog.Warn("Locale folder is not a valid language tag", logfields.Locale(name), logfields.Error(err))
		}
		locales = append(locales, Locale{Source: e.Name(), Name: name})
	}
	return locales, nil
}
