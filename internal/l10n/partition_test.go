package l10n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, dir, addon, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, addon+".json"), []byte(body), 0o600))
}

func TestPartition_RoutesAndSkips(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "foo", `{"foo/bar": "x", "foo/@settings-name": "y"}`)
	writeCatalog(t, dir, "debugger", `{"debugger/feedback-log": "z", "debugger/pause": "p"}`)

	c := Partition(dir, []string{"foo", "debugger"})

	require.Equal(t, map[string]string{"foo/bar": "x", "debugger/pause": "p"}, c.Runtime)
	require.Equal(t, map[string]string{"foo/@settings-name": "y"}, c.Settings)
	require.Zero(t, c.Collisions)
}

func TestPartition_MissingAndBrokenFilesAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "good", `{"good/a": "1"}`)
	writeCatalog(t, dir, "broken", `{"broken/a": `)
	writeCatalog(t, dir, "wrongtype", `{"wrongtype/a": 3}`)

	c := Partition(dir, []string{"absent", "broken", "good", "wrongtype"})
	require.Equal(t, map[string]string{"good/a": "1"}, c.Runtime)
	require.Empty(t, c.Settings)
}

func TestPartition_MissingLocaleDirectory(t *testing.T) {
	c := Partition(filepath.Join(t.TempDir(), "nope"), []string{"a"})
	require.Empty(t, c.Runtime)
	require.Empty(t, c.Settings)
}

func TestPartition_LastWriteWinsOnCollision(t *testing.T) {
	dir := t.TempDir()
	writeCatalog(t, dir, "first", `{"shared/id": "from first"}`)
	writeCatalog(t, dir, "second", `{"shared/id": "from second"}`)

	c := Partition(dir, []string{"first", "second"})
	require.Equal(t, "from second", c.Runtime["shared/id"])
	require.Equal(t, 1, c.Collisions)

	c = Partition(dir, []string{"second", "first"})
	require.Equal(t, "from first", c.Runtime["shared/id"])
}

func TestListLocales(t *testing.T) {
	root := t.TempDir()
	for _, d := range []string{"fr", "pt-br", "en", "de"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, d), 0o750))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("docs"), 0o600))

	locales, err := ListLocales(root, map[string]string{"pt-br": "pt"})
	require.NoError(t, err)
	require.Equal(t, []Locale{
		{Source: "de", Name: "de"},
		{Source: "en", Name: "en"},
		{Source: "fr", Name: "fr"},
		{Source: "pt-br", Name: "pt"},
	}, locales)
}

func TestListLocales_MissingRoot(t *testing.T) {
	_, err := ListLocales(filepath.Join(t.TempDir(), "missing"), nil)
	require.Error(t, err)
}

func TestNormalizeLocale(t *testing.T) {
	aliases := map[string]string{"pt-br": "pt"}
	require.Equal(t, "pt", NormalizeLocale("pt-br", aliases))
	require.Equal(t, "zh-cn", NormalizeLocale("zh-cn", aliases))
	require.Equal(t, "ja", NormalizeLocale("ja", nil))
}
