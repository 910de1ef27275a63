package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/fsutil"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/manifest"
	"git.home.luguber.info/inful/addonbuilder/internal/rewrite"
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
	"git.home.luguber.info/inful/addonbuilder/internal/workspace"
)

var errMissingManifest = errors.New("addon.json not found")

func stageResetOutput(_ context.Context, rs *runState) error {
	return rs.ws.Reset()
}

// stageAddons mirrors every addon in list order and collects the manifests
// and referenced libraries.
func stageAddons(ctx context.Context, rs *runState) error {
	for _, id := range rs.opts.Addons {
		if err := ctx.Err(); err != nil {
			return err
		}
		m, err := rs.mirrorAddon(id)
		if err != nil {
			return err
		}
		rs.manifests[id] = m
	}
	rs.result.Libraries = sets.Sorted(rs.libraries)
	return nil
}

// mirrorAddon copies one addon directory into the output tree. The manifest
// is replaced by its two generated entries and scripts are rewritten.
func (rs *runState) mirrorAddon(id string) (*manifest.Manifest, error) {
	src := rs.source(SourceAddonsDir, id)
	dst := rs.ws.Subdir(workspace.AddonsDir, id)
	libSrc := rs.source(SourceLibrariesDir)
	libDst := rs.ws.Subdir(workspace.LibrariesDir)

	files, err := fsutil.Walk(src)
	if err != nil {
		return nil, derrors.FileSystem("walk", src, err)
	}
	assets := rewrite.NewAssetTable(files)

	var m *manifest.Manifest
	for _, file := range files {
		in := filepath.Join(src, filepath.FromSlash(file))
		out := filepath.Join(dst, filepath.FromSlash(file))

		switch {
		case file == manifest.FileName:
			m, err = rs.writeManifestEntries(id, in, dst)
			if err != nil {
				return nil, err
			}
		case rewrite.IsScript(file):
			// #nosec G304 - path comes from walking the upstream tree
			data, err := os.ReadFile(in)
			if err != nil {
				return nil, derrors.FileSystem("read", in, err)
			}
			contents := string(data)
			libs, err := rewrite.CopyLibraries(contents, libSrc, libDst)
			if err != nil {
				return nil, derrors.FileSystem("copy", libSrc, err)
			}
			for _, lib := range libs {
				rs.libraries.Add(lib)
			}
			if err := fsutil.WriteFile(out, []byte(rewrite.Script(contents, file, assets))); err != nil {
				return nil, derrors.FileSystem("write", out, err)
			}
		default:
			if err := fsutil.CopyFile(in, out); err != nil {
				return nil, derrors.FileSystem("copy", in, err)
			}
		}
	}
	if m == nil {
		return nil, derrors.ManifestParse(id, errMissingManifest)
	}
	rs.log.Debug("Mirrored addon", logfields.Addon(id), logfields.Count(len(files)))
	return m, nil
}

func (rs *runState) writeManifestEntries(id, path, dst string) (*manifest.Manifest, error) {
	// #nosec G304 - path comes from walking the upstream tree
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, derrors.FileSystem("read", path, err)
	}
	m, err := manifest.Parse(id, data)
	if err != nil {
		return nil, err
	}
	entry, err := manifest.GenerateManifestEntry(m, rs.newAddons.Has(id))
	if err != nil {
		return nil, derrors.ManifestParse(id, err)
	}
	manifestEntry := filepath.Join(dst, manifest.ManifestEntryFile)
	if err := fsutil.WriteFile(manifestEntry, entry); err != nil {
		return nil, derrors.FileSystem("write", manifestEntry, err)
	}
	runtimeEntry := filepath.Join(dst, manifest.RuntimeEntryFile)
	if err := fsutil.WriteFile(runtimeEntry, manifest.GenerateRuntimeEntry(m)); err != nil {
		return nil, derrors.FileSystem("write", runtimeEntry, err)
	}
	return m, nil
}
