package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
)

func TestGenerateManifestEntry_WithOverrides(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)

	out, err := GenerateManifestEntry(m, true)
	require.NoError(t, err)
	src := string(out)

	require.True(t, strings.HasPrefix(src, jsgen.GeneratedBanner))
	require.Contains(t, src, `import {isMobile, clipboardSupported} from "../../environment";`)
	require.Contains(t, src, "if (isMobile) {\n  manifest.enabledByDefault = true;\n}\n")
	require.Contains(t, src, "if (!clipboardSupported) {\n  manifest.unsupported = true;\n}\n")
	require.NotContains(t, src, "mediaRecorderSupported")
	require.Contains(t, src, `"new"`)
	require.NotContains(t, src, "versionAdded")
	require.NotContains(t, src, "runAtComplete")
	require.True(t, strings.HasSuffix(src, "export default manifest;\n"))
}

func TestGenerateManifestEntry_MediaRecorder(t *testing.T) {
	m := mustParse(t, MediaRecorderAddon, `{"name": "Recorder", "enabledByDefault": false}`)

	out, err := GenerateManifestEntry(m, false)
	require.NoError(t, err)
	require.Contains(t, string(out), `import {mediaRecorderSupported} from "../../environment";`)
	require.Contains(t, string(out), "if (!mediaRecorderSupported) {\n  manifest.unsupported = true;\n}\n")
}

func TestGenerateManifestEntry_NoOverrides(t *testing.T) {
	m := mustParse(t, "plain", `{"name": "Plain", "enabledByDefaultMobile": "yes"}`)

	out, err := GenerateManifestEntry(m, false)
	require.NoError(t, err)
	require.Equal(t, jsgen.GeneratedBanner+"const manifest = {\n  \"name\": \"Plain\",\n  \"tags\": []\n};\nexport default manifest;\n", string(out))
}

func TestGenerateManifestEntry_Deterministic(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)
	a, err := GenerateManifestEntry(m, false)
	require.NoError(t, err)
	b, err := GenerateManifestEntry(m, false)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestGenerateRuntimeEntry(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)

	want := jsgen.GeneratedBanner +
		"export const resources = {\n" +
		"  \"userscript.js\": () => require(\"./userscript.js\"),\n" +
		"  \"style.css\": () => require(\"!css-loader!./style.css\"),\n" +
		"};\n"
	require.Equal(t, want, string(GenerateRuntimeEntry(m)))
}

func TestGenerateRuntimeEntry_Empty(t *testing.T) {
	m := mustParse(t, "empty", `{}`)
	require.Equal(t, jsgen.GeneratedBanner+"export const resources = {\n};\n", string(GenerateRuntimeEntry(m)))
}
