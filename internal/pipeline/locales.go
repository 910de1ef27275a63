package pipeline

import (
	"context"
	"path/filepath"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/fsutil"
	"git.home.luguber.info/inful/addonbuilder/internal/jsgen"
	"git.home.luguber.info/inful/addonbuilder/internal/l10n"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
	"git.home.luguber.info/inful/addonbuilder/internal/util/sets"
	"git.home.luguber.info/inful/addonbuilder/internal/workspace"
)

// stageLocales partitions every locale's catalogs and writes the runtime
// bundle for all locales plus the settings bundle for non-default ones.
// Two folders aliased to the same name write the same files; the later folder wins.
func stageLocales(ctx context.Context, rs *runState) error {
	root := rs.source(SourceLocalesDir)
	locales, err := l10n.ListLocales(root, rs.opts.LocaleAliases)
	if err != nil {
		return derrors.FileSystem("list", root, err)
	}

	seen := sets.New[string]()
	for _, loc := range locales {
		if err := ctx.Err(); err != nil {
			return err
		}
		catalog := l10n.Partition(filepath.Join(root, loc.Source), rs.opts.Addons)
		if catalog.Collisions > 0 {
			rs.log.Debug("Message ids overwritten across addons", logfields.Locale(loc.Name), logfields.Count(catalog.Collisions))
			rs.result.Collisions += catalog.Collisions
		}

		if err := writeJSON(rs.ws.Subdir(workspace.LocaleRuntimeDir, loc.Name+".json"), catalog.Runtime); err != nil {
			return err
		}
		if loc.Name != rs.opts.DefaultLocale {
			if err := writeJSON(rs.ws.Subdir(workspace.LocaleSettingsDir, loc.Name+".json"), catalog.Settings); err != nil {
				return err
			}
		}
		if !seen.Has(loc.Name) {
			seen.Add(loc.Name)
			rs.result.Locales = append(rs.result.Locales, loc.Name)
		}
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := jsgen.JSON(v, "")
	if err != nil {
		return derrors.InternalError("encode "+filepath.Base(path), err)
	}
	if err := fsutil.WriteFile(path, data); err != nil {
		return derrors.FileSystem("write", path, err)
	}
	return nil
}
