package rewrite

import (
	"fmt"
	"path/filepath"
	"regexp"

	"git.home.luguber.info/inful/addonbuilder/internal/fsutil"
)

// libraryImportPattern matches ES module imports that reach the shared
// libraries directory through one or more "../" segments:
//
//	import { normalizeHex } from "../../libraries/common/normalize-color.js";
//	import RateLimiter from "../../libraries/rate-limiter.js";
//	import * as Comlink from "../../libraries/thirdparty/cs/comlink.esm.js";
//
// Binding lists may span lines. The captured group is the library path below
// the libraries directory.
var libraryImportPattern = regexp.MustCompile(`import\s+[^;'"]*?\s*from\s*["'](?:\.\./)+libraries/([\w/-]+(?:\.[\w-]+)?\.js)["']`)

// ReferencedLibraries returns the library paths imported by contents, in order
// of first appearance and without duplicates.
func ReferencedLibraries(contents string) []string {
	matches := libraryImportPattern.FindAllStringSubmatch(contents, -1)
	if len(matches) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(matches))
	libs := make([]string, 0, len(matches))
	for _, m := range matches {
		if seen[m[1]] {
			continue
		}
		seen[m[1]] = true
		libs = append(libs, m[1])
	}
	return libs
}

// CopyLibraries copies every library referenced by contents from srcDir into
// dstDir, keeping the sub-path. Copying the same library again overwrites it
// with identical bytes. The importing file is not modified.
func CopyLibraries(contents, srcDir, dstDir string) ([]string, error) {
	libs := ReferencedLibraries(contents)
	for _, lib := range libs {
		src := filepath.Join(srcDir, filepath.FromSlash(lib))
		dst := filepath.Join(dstDir, filepath.FromSlash(lib))
		if err := fsutil.CopyFile(src, dst); err != nil {
			return nil, fmt.Errorf("copy library %s: %w", lib, err)
		}
	}
	return libs, nil
}
