// Package manifest reads addon manifests (addon.json) and derives the two
// generated documents written next to each mirrored addon: the trimmed public
// manifest entry and the runtime resource table.
package manifest

import (
	"bytes"
	"encoding/json"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
)

// FileName is the manifest file inside every addon directory.
const FileName = "addon.json"

// Userscript is a script the addon injects at runtime.
type Userscript struct {
	URL           string   `json:"url"`
	Matches       []string `json:"matches,omitempty"`
	RunAtComplete *bool    `json:"runAtComplete,omitempty"`
}

// Userstyle is a style sheet the addon injects at runtime.
type Userstyle struct {
	URL     string   `json:"url"`
	Matches []string `json:"matches,omitempty"`
}

// Manifest is the parsed addon.json of one addon. The typed fields are the
// ones the pipeline makes decisions on; the full document is kept so that
// fields unknown to this package survive trimming.
type Manifest struct {
	ID               string       `json:"-"`
	Name             string       `json:"name"`
	Tags             []string     `json:"tags"`
	EnabledByDefault bool         `json:"enabledByDefault"`
	EditorOnly       bool         `json:"editorOnly"`
	Permissions      []string     `json:"permissions"`
	Userscripts      []Userscript `json:"userscripts"`
	Userstyles       []Userstyle  `json:"userstyles"`
	VersionAdded     string       `json:"versionAdded"`

	raw map[string]any
}

// Parse decodes the manifest of addon id. Manifests are expected to be well
// formed; any decode failure is fatal for the run.
func Parse(id string, data []byte) (*Manifest, error) {
	m := &Manifest{ID: id}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, derrors.ManifestParse(id, err)
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m.raw); err != nil {
		return nil, derrors.ManifestParse(id, err)
	}
	return m, nil
}

// String returns the addon id, which is also the manifest's key in generated indexes.
func (m *Manifest) String() string { return m.ID }

// EnabledByDefaultMobile returns the mobile enablement override when the
// manifest declares one as a boolean.
func (m *Manifest) EnabledByDefaultMobile() (bool, bool) {
	v, ok := m.raw["enabledByDefaultMobile"].(bool)
	return v, ok
}

// HasPermission reports whether the manifest requests permission p.
func (m *Manifest) HasPermission(p string) bool {
	for _, have := range m.Permissions {
		if have == p {
			return true
		}
	}
	return false
}

// BundledWithMain reports whether the addon's runtime code ships in the main
// payload: enabled by default and useful outside the editor.
func (m *Manifest) BundledWithMain() bool {
	return m.EnabledByDefault && !m.EditorOnly
}

// cloneJSON deep-copies a decoded JSON value.
func cloneJSON(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = cloneJSON(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = cloneJSON(val)
		}
		return out
	default:
		return v
	}
}
