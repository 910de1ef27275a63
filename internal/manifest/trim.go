package manifest

import (
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
)

// KeptTags is the allow-list of tags exposed in the public manifest.
var KeptTags = sets.New("recommended", "theme", "beta", "danger")

// NewTag marks addons listed as new.
const NewTag = "new"

// internalFields never reach the public manifest.
var internalFields = []string{
	"versionAdded",
	"libraries",
	"injectAsStyleElt",
	"enabledByDefaultMobile",
	"permissions",
}

// FilterTags keeps only allow-listed tags, in their original order, then
// appends NewTag when isNew is set. The result is never nil.
func FilterTags(tags []string, isNew bool) []string {
	out := make([]string, 0, len(tags)+1)
	for _, tag := range tags {
		if KeptTags.Has(tag) {
			out = append(out, tag)
		}
	}
	if isNew {
		out = append(out, NewTag)
	}
	return out
}

// Trim returns a deep copy of the manifest document with internal-only
// fields removed and the tag list filtered. The receiver is not modified.
func (m *Manifest) Trim(isNew bool) map[string]any {
	trimmed, _ := cloneJSON(m.raw).(map[string]any)
	if trimmed == nil {
		trimmed = map[string]any{}
	}
	for _, field := range internalFields {
		delete(trimmed, field)
	}
	stripEntries(trimmed["userscripts"], "matches", "runAtComplete")
	stripEntries(trimmed["userstyles"], "matches")
	trimmed["tags"] = FilterTags(m.Tags, isNew)
	return trimmed
}

func stripEntries(list any, fields ...string) {
	entries, ok := list.([]any)
	if !ok {
		return
	}
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		for _, f := range fields {
			delete(entry, f)
		}
	}
}
