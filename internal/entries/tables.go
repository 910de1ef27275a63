package entries

import (
	"git.home.luguber.info/inful/addonbuilder/internal/manifest"
)

// Index file names under generated/.
const (
	LocaleRuntimeFile  = "l10n-entries.js"
	LocaleSettingsFile = "l10n-settings-entries.js"
	AddonRuntimeFile   = "addon-entries.js"
	AddonManifestsFile = "addon-manifests.js"
)

// DefaultAddonChunk groups every default-enabled, editor-only addon.
const DefaultAddonChunk = "addon-default-entry"

func withoutDefault(locales []string, defaultLocale string) []string {
	out := make([]string, 0, len(locales))
	for _, l := range locales {
		if l != defaultLocale {
			out = append(out, l)
		}
	}
	return out
}

// LocaleRuntime indexes the runtime message bundle of every non-default
// locale, one chunk per locale. The default locale is bundled directly.
func LocaleRuntime(locales []string, defaultLocale string) ([]byte, error) {
	return Generate(withoutDefault(locales, defaultLocale), func(l string) Entry {
		return Entry{
			Src:  "../addons-l10n/" + l + ".json",
			Name: "addon-l10n-" + l,
			Type: LazyImport,
		}
	})
}

// LocaleSettings indexes the settings message bundle of every non-default locale.
func LocaleSettings(locales []string, defaultLocale string) ([]byte, error) {
	return Generate(withoutDefault(locales, defaultLocale), func(l string) Entry {
		return Entry{
			Src:  "../addons-l10n-settings/" + l + ".json",
			Type: LazyRequire,
		}
	})
}

// AddonRuntimeEntry classifies one addon's runtime module. Addons bundled
// with the main payload need no request; the remaining default-enabled ones
// share a chunk and every other addon gets its own.
func AddonRuntimeEntry(m *manifest.Manifest) Entry {
	src := "../addons/" + m.ID + "/" + manifest.RuntimeEntryFile
	switch {
	case m.BundledWithMain():
		return Entry{Src: src, Type: LazyRequire}
	case m.EnabledByDefault:
		return Entry{Src: src, Name: DefaultAddonChunk, Type: LazyImport}
	default:
		return Entry{Src: src, Name: "addon-entry-" + m.ID, Type: LazyImport}
	}
}

// AddonRuntime indexes the runtime module of every addon, in list order.
// Each manifest is keyed by its addon id.
func AddonRuntime(addons []*manifest.Manifest) ([]byte, error) {
	return Generate(addons, AddonRuntimeEntry)
}

// Manifests indexes every addon manifest entry. Manifests are linked eagerly
// since enablement is decided as soon as the index loads.
func Manifests(addons []string) ([]byte, error) {
	return Generate(addons, func(id string) Entry {
		return Entry{
			Src:  "../addons/" + id + "/" + manifest.ManifestEntryFile,
			Type: EagerImport,
		}
	})
}
