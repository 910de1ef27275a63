package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
)

func TestParse_AppliesDefaults(t *testing.T) {
	cfg, err := Parse([]byte("addons:\n  - editor-devtools\n  - mediarecorder\n"))
	require.NoError(t, err)

	require.Equal(t, DefaultUpstreamURL, cfg.Upstream.URL)
	require.Equal(t, DefaultUpstreamBranch, cfg.Upstream.Branch)
	require.Equal(t, 1, cfg.Upstream.Depth)
	require.Zero(t, cfg.Upstream.Retries)
	require.Equal(t, RetryBackoffLinear, cfg.Upstream.RetryBackoff)
	require.Equal(t, filepath.Clean(DefaultOutputDirectory), cfg.Output.Directory)
	require.Equal(t, "en", cfg.DefaultLocale)
	require.Equal(t, map[string]string{"pt-br": "pt"}, cfg.LocaleAliases)
	require.Equal(t, DefaultContributorsURL, cfg.ContributorsURL)
	require.Empty(t, cfg.Notify.Subject)
}

func TestParse_NegativeDepthMeansFullClone(t *testing.T) {
	cfg, err := Parse([]byte("upstream:\n  depth: -1\n  retries: -3\naddons: [a]\n"))
	require.NoError(t, err)
	require.Equal(t, 0, cfg.Upstream.Depth)
	require.Zero(t, cfg.Upstream.Retries)
}

func TestParse_NormalizesRetryBackoff(t *testing.T) {
	cfg, err := Parse([]byte("upstream:\n  retry_backoff: Exponential\naddons: [a]\n"))
	require.NoError(t, err)
	require.Equal(t, RetryBackoffExponential, cfg.Upstream.RetryBackoff)

	cfg, err = Parse([]byte("upstream:\n  retry_backoff: jittered\naddons: [a]\n"))
	require.NoError(t, err)
	require.Equal(t, RetryBackoffLinear, cfg.Upstream.RetryBackoff)
}

func TestParse_ExpandsEnvironment(t *testing.T) {
	t.Setenv("ADDONBUILDER_TEST_BRANCH", "feature")

	cfg, err := Parse([]byte("upstream:\n  branch: ${ADDONBUILDER_TEST_BRANCH}\naddons: [a]\n"))
	require.NoError(t, err)
	require.Equal(t, "feature", cfg.Upstream.Branch)
}

func TestParse_NotifySubjectDefaultsWhenURLSet(t *testing.T) {
	cfg, err := Parse([]byte("addons: [a]\nnotify:\n  nats_url: nats://localhost:4222\n"))
	require.NoError(t, err)
	require.Equal(t, DefaultNotifySubject, cfg.Notify.Subject)
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]string{
		"no addons":          "addons: []\n",
		"duplicate addon":    "addons: [a, a]\n",
		"unknown new addon":  "addons: [a]\nnew_addons: [b]\n",
		"overlapping output": "upstream:\n  path: ./tree\noutput:\n  directory: ./tree/out\naddons: [a]\n",
		"same directories":   "upstream:\n  path: ./tree\noutput:\n  directory: ./tree\naddons: [a]\n",
		"interval too short": "addons: [a]\nschedule:\n  interval: 10s\n",
		"interval garbage":   "addons: [a]\nschedule:\n  interval: soon\n",
		"retry delay":        "addons: [a]\nupstream:\n  retry_initial_delay: fast\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			require.Error(t, err)
			require.True(t, derrors.IsCategory(err, derrors.CategoryValidation))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	require.True(t, derrors.IsCategory(err, derrors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "addonbuilder.yaml")
	require.NoError(t, Init(path, false))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Contains(t, cfg.Addons, "mediarecorder")
	require.Equal(t, []string{"mediarecorder"}, cfg.NewAddons)

	require.Error(t, Init(path, false), "existing file must not be overwritten without force")
	require.NoError(t, Init(path, true))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.WriteFile(".env", []byte("ADDONBUILDER_A=file\nADDONBUILDER_B=file\n"), 0o600))
	t.Setenv("ADDONBUILDER_A", "process")
	t.Setenv("ADDONBUILDER_B", "")
	require.NoError(t, os.Unsetenv("ADDONBUILDER_B"))

	require.NoError(t, loadEnvFile())
	require.Equal(t, "process", os.Getenv("ADDONBUILDER_A"))
	require.Equal(t, "file", os.Getenv("ADDONBUILDER_B"))
}
