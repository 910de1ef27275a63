package manifest

import (
	"fmt"
	"strings"

	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

// Generated file names written into every mirrored addon directory.
const (
	ManifestEntryFile = "_manifest_entry.js"
	RuntimeEntryFile  = "_runtime_entry.js"
)

const (
	// environmentModule is resolved from addons/<id>/ in the output tree.
	environmentModule = "../../environment"

	// MediaRecorderAddon is the addon that needs MediaRecorder support.
	MediaRecorderAddon = "mediarecorder"
	// ClipboardPermission is the permission that needs async clipboard support.
	ClipboardPermission = "clipboardWrite"

	cssLoaderPrefix = "!css-loader!"
)

// override is a load-time adjustment appended after the manifest literal.
type override struct {
	capability string
	statement  string
}

func (m *Manifest) overrides() []override {
	var out []override
	if mobile, ok := m.EnabledByDefaultMobile(); ok {
		out = append(out, override{
			capability: "isMobile",
			statement:  fmt.Sprintf("if (isMobile) {\n  manifest.enabledByDefault = %t;\n}\n", mobile),
		})
	}
	if m.HasPermission(ClipboardPermission) {
		out = append(out, override{
			capability: "clipboardSupported",
			statement:  "if (!clipboardSupported) {\n  manifest.unsupported = true;\n}\n",
		})
	}
	if m.ID == MediaRecorderAddon {
		out = append(out, override{
			capability: "mediaRecorderSupported",
			statement:  "if (!mediaRecorderSupported) {\n  manifest.unsupported = true;\n}\n",
		})
	}
	return out
}

// GenerateManifestEntry renders the trimmed manifest as a module whose
// default export is the manifest object, including the environment-dependent
// overrides.
func GenerateManifestEntry(m *Manifest, isNew bool) ([]byte, error) {
	body, err := jsgen.JSON(m.Trim(isNew), "  ")
	if err != nil {
		return nil, fmt.Errorf("encode manifest %s: %w", m.ID, err)
	}

	overrides := m.overrides()

	var b strings.Builder
	b.WriteString(jsgen.GeneratedBanner)
	if len(overrides) > 0 {
		names := make([]string, 0, len(overrides))
		for _, o := range overrides {
			names = append(names, o.capability)
		}
		fmt.Fprintf(&b, "import {%s} from %s;\n", strings.Join(names, ", "), jsgen.String(environmentModule))
	}
	fmt.Fprintf(&b, "const manifest = %s;\n", body)
	for _, o := range overrides {
		b.WriteString(o.statement)
	}
	b.WriteString("export default manifest;\n")
	return []byte(b.String()), nil
}

// GenerateRuntimeEntry renders the table of lazily loaded userscripts and
// userstyles keyed by their manifest URL.
func GenerateRuntimeEntry(m *Manifest) []byte {
	var b strings.Builder
	b.WriteString(jsgen.GeneratedBanner)
	b.WriteString("export const resources = {\n")
	for _, s := range m.Userscripts {
		fmt.Fprintf(&b, "  %s: () => require(%s),\n", jsgen.String(s.URL), jsgen.String("./"+s.URL))
	}
	for _, s := range m.Userstyles {
		fmt.Fprintf(&b, "  %s: () => require(%s),\n", jsgen.String(s.URL), jsgen.String(cssLoaderPrefix+"./"+s.URL))
	}
	b.WriteString("};\n")
	return []byte(b.String())
}
