// Package fsutil provides the file system helpers shared by the pipeline stages.
package fsutil

import (
	"io/fs"
	"iter"
	"path/filepath"
)

// Files lazily yields every regular file below root as a slash-separated path
// relative to root. Directories themselves are never yielded. Entries are
// produced in lexical order. A walk error is yielded once and ends iteration.
func Files(root string) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if !yield(filepath.ToSlash(rel), nil) {
				return fs.SkipAll
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// Walk returns the complete list produced by Files.
func Walk(root string) ([]string, error) {
	var files []string
	for rel, err := range Files(root) {
		if err != nil {
			return nil, err
		}
		files = append(files, rel)
	}
	return files, nil
}
