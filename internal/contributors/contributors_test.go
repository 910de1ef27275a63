package contributors

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
)

const allContributors = `{
  "projectName": "contributors",
  "contributors": [
    {"login": "alice", "name": "Alice", "contributions": ["code", "translation"]},
    {"login": "bob", "name": "Bob", "contributions": ["code"]},
    {"login": "carol", "name": "Carol <3", "contributions": ["translation"]}
  ]
}`

func TestTranslators_FiltersOnTranslation(t *testing.T) {
	got, err := Translators([]byte(allContributors))
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Contains(t, string(got[0]), `"alice"`)
	require.Contains(t, string(got[1]), `"carol"`)
}

func TestTranslators_Malformed(t *testing.T) {
	_, err := Translators([]byte(`{"contributors": [`))
	require.Error(t, err)

	_, err = Translators([]byte(`{"contributors": [{"contributions": "translation"}]}`))
	require.Error(t, err)
}

func TestTranslators_NoContributors(t *testing.T) {
	got, err := Translators([]byte(`{}`))
	require.NoError(t, err)
	require.Empty(t, got)
	require.NotNil(t, got)
}

func TestWriteTranslators(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/.all-contributorsrc" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(allContributors))
	}))
	t.Cleanup(server.Close)

	translators, err := FetchTranslators(t.Context(), server.URL+"/.all-contributorsrc", server.Client())
	require.NoError(t, err)
	require.Len(t, translators, 2)

	path := filepath.Join(t.TempDir(), "generated", TranslatorsFile)
	require.NoError(t, WriteTranslators(path, translators))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	require.True(t, strings.HasPrefix(out, "[\n    {\n        \"login\": \"alice\","), out)
	require.Contains(t, out, `"Carol <3"`)
	require.NotContains(t, out, "bob")
}

func TestFetchTranslators_HTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	_, err := FetchTranslators(t.Context(), server.URL, nil)
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))
}

func TestFetchTranslators_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>"))
	}))
	t.Cleanup(server.Close)

	_, err := FetchTranslators(t.Context(), server.URL, server.Client())
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryNetwork))
}

func TestWriteTranslators_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), TranslatorsFile)
	require.NoError(t, WriteTranslators(path, nil))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestFetch_TooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("x", maxResponseBytes+10)))
	}))
	t.Cleanup(server.Close)

	_, err := Fetch(t.Context(), server.URL, nil)
	require.Error(t, err)
}
