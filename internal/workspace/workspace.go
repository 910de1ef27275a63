package workspace

import (
	"log/slog"
	"os"
	"path/filepath"

	derrors "git.home.luguber.info/inful/addonbuilder/internal/errors"
	"git.home.luguber.info/inful/addonbuilder/internal/logfields"
)

// Generated subdirectories of the output directory.
const (
	AddonsDir         = "addons"
	LibrariesDir      = "libraries"
	LocaleRuntimeDir  = "addons-l10n"
	LocaleSettingsDir = "addons-l10n-settings"
	GeneratedDir      = "generated"
)

// Managed lists every subdirectory owned by a run, in creation order.
var Managed = []string{AddonsDir, LibrariesDir, LocaleRuntimeDir, LocaleSettingsDir, GeneratedDir}

// Manager handles the output tree of a run.
type Manager struct {
	baseDir string
}

// NewManager creates a manager rooted at the output directory.
func NewManager(baseDir string) *Manager {
	return &Manager{baseDir: baseDir}
}

// Subdir returns the path of a managed subdirectory joined with optional elements.
func (m *Manager) Subdir(name string, elem ...string) string {
	return filepath.Join(append([]string{m.baseDir, name}, elem...)...)
}

// Reset removes every managed subdirectory and recreates it empty.
// Anything else inside the output directory is left alone.
func (m *Manager) Reset() error {
	if m.baseDir == "" {
		return derrors.ValidationFailed("output.directory", "empty output directory")
	}
	if err := os.MkdirAll(m.baseDir, 0o750); err != nil {
		return derrors.FileSystem("mkdir", m.baseDir, err)
	}
	for _, name := range Managed {
		dir := filepath.Join(m.baseDir, name)
		if err := os.RemoveAll(dir); err != nil {
			return derrors.FileSystem("remove", dir, err)
		}
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return derrors.FileSystem("mkdir", dir, err)
		}
	}
	slog.Debug("Reset output tree", logfields.Path(m.baseDir), logfields.Count(len(Managed)))
	return nil
}
