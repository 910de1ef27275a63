package pipeline

import (
	"context"

	"git.home.luguber.info/inful/addonbuilder/internal/entries"
	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/fsutil"
	"git.home.luguber.info/inful/addonbuilder/internal/manifest"
	"git.home.luguber.info/inful/addonbuilder/internal/workspace"
)

// stageIndexes writes the four entry tables consumed by the downstream build.
func stageIndexes(_ context.Context, rs *runState) error {
	ordered := make([]*manifest.Manifest, 0, len(rs.opts.Addons))
	for _, id := range rs.opts.Addons {
		ordered = append(ordered, rs.manifests[id])
	}

	tables := []struct {
		file     string
		generate func() ([]byte, error)
	}{
		{entries.LocaleRuntimeFile, func() ([]byte, error) {
			return entries.LocaleRuntime(rs.result.Locales, rs.opts.DefaultLocale)
		}},
		{entries.LocaleSettingsFile, func() ([]byte, error) {
			return entries.LocaleSettings(rs.result.Locales, rs.opts.DefaultLocale)
		}},
		{entries.AddonRuntimeFile, func() ([]byte, error) { return entries.AddonRuntime(ordered) }},
		{entries.AddonManifestsFile, func() ([]byte, error) { return entries.Manifests(rs.opts.Addons) }},
	}
	for _, table := range tables {
		data, err := table.generate()
		if err != nil {
			return err
		}
		path := rs.ws.Subdir(workspace.GeneratedDir, table.file)
		if err := fsutil.WriteFile(path, data); err != nil {
			return derrors.FileSystem("write", path, err)
		}
	}
	return nil
}

// stageMetadata records the upstream commit.
func stageMetadata(_ context.Context, rs *runState) error {
	return writeJSON(rs.ws.Subdir(workspace.GeneratedDir, UpstreamMetaFile), map[string]string{"commit": rs.opts.Commit})
}
