package manifest

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
)

const sampleManifest = `{
  "name": "Debugger",
  "versionAdded": "1.10.0",
  "tags": ["recommended", "experimental", "beta", "codeEditor"],
  "enabledByDefault": false,
  "enabledByDefaultMobile": true,
  "injectAsStyleElt": true,
  "libraries": ["thirdparty/cs/comlink"],
  "permissions": ["clipboardWrite", "notifications"],
  "credits": [{"name": "someone", "link": "https://example.com"}],
  "userscripts": [
    {"url": "userscript.js", "matches": ["projects"], "runAtComplete": false}
  ],
  "userstyles": [
    {"url": "style.css", "matches": ["projects"]}
  ],
  "settings": [{"id": "size", "type": "integer", "default": 12}]
}`

func mustParse(t *testing.T, id, doc string) *Manifest {
	t.Helper()
	m, err := Parse(id, []byte(doc))
	require.NoError(t, err)
	return m
}

func TestParse_TypedFields(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)

	require.Equal(t, "debugger", m.ID)
	require.Equal(t, "Debugger", m.Name)
	require.False(t, m.EnabledByDefault)
	require.True(t, m.HasPermission(ClipboardPermission))
	require.Len(t, m.Userscripts, 1)
	require.Equal(t, "userscript.js", m.Userscripts[0].URL)

	mobile, ok := m.EnabledByDefaultMobile()
	require.True(t, ok)
	require.True(t, mobile)
}

func TestParse_InvalidJSONIsFatal(t *testing.T) {
	_, err := Parse("broken", []byte(`{"name": `))
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryManifest))
}

func TestFilterTags(t *testing.T) {
	require.Equal(t, []string{"recommended", "beta"}, FilterTags([]string{"recommended", "experimental", "beta"}, false))

	once := FilterTags([]string{"danger", "x", "theme", "recommended"}, false)
	require.Equal(t, once, FilterTags(once, false), "filtering must be idempotent")

	require.Equal(t, []string{}, FilterTags(nil, false))
}

func TestFilterTags_NewAppendedOnce(t *testing.T) {
	tags := FilterTags([]string{"recommended", "theme", "beta", "danger"}, true)
	require.Equal(t, []string{"recommended", "theme", "beta", "danger", "new"}, tags)

	// "new" is not on the allow-list, so refiltering drops and re-appends it.
	require.Equal(t, tags, FilterTags(tags, true))
}

func TestTrim_RemovesInternalFields(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)
	trimmed := m.Trim(false)

	for _, key := range []string{"versionAdded", "libraries", "injectAsStyleElt", "enabledByDefaultMobile", "permissions"} {
		require.NotContains(t, trimmed, key)
	}
	scripts := trimmed["userscripts"].([]any)
	require.Equal(t, map[string]any{"url": "userscript.js"}, scripts[0])
	styles := trimmed["userstyles"].([]any)
	require.Equal(t, map[string]any{"url": "style.css"}, styles[0])

	require.Equal(t, []string{"recommended", "beta"}, trimmed["tags"])
	require.Contains(t, trimmed, "credits", "unknown fields survive")
	require.Contains(t, trimmed, "settings")
}

func TestTrim_DoesNotMutateSource(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)
	_ = m.Trim(true)

	again := m.Trim(false)
	scripts := again["userscripts"].([]any)
	require.Equal(t, map[string]any{"url": "userscript.js"}, scripts[0])
	_, ok := m.EnabledByDefaultMobile()
	require.True(t, ok, "source document must keep its fields")
}

func TestTrim_NoTagsStillEmitsEmptyList(t *testing.T) {
	m := mustParse(t, "plain", `{"name": "Plain"}`)
	require.Equal(t, []string{}, m.Trim(false)["tags"])
	require.Equal(t, []string{"new"}, m.Trim(true)["tags"])
}

func TestTrim_PreservesNumbers(t *testing.T) {
	m := mustParse(t, "debugger", sampleManifest)
	out, err := json.Marshal(m.Trim(false)["settings"])
	require.NoError(t, err)
	require.JSONEq(t, `[{"id":"size","type":"integer","default":12}]`, string(out))
}

func TestBundledWithMain(t *testing.T) {
	require.True(t, mustParse(t, "a", `{"enabledByDefault": true}`).BundledWithMain())
	require.False(t, mustParse(t, "b", `{"enabledByDefault": true, "editorOnly": true}`).BundledWithMain())
	require.False(t, mustParse(t, "c", `{"enabledByDefault": false}`).BundledWithMain())
}
