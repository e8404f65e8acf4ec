// Package walk resolves input paths into the list of audio files to scan.
package walk

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/mqascan/internal/types"
)

// Skip records an input that could not be walked and why.
type Skip struct {
	Path   string
	Reason string
	Err    error
}

// AsError returns the skip as a *types.PathError.
func (s Skip) AsError() *types.PathError {
	return &types.PathError{Path: s.Path, Reason: s.Reason, Err: s.Err}
}

// Walk expands roots into files whose extension belongs to one of formats.
//
// Files named directly are accepted by extension like those found in
// directories. Directories are walked recursively in lexical order.
// Problems are returned as skip records instead of aborting the walk.
func Walk(roots []string, formats ...types.Format) (files []string, skips []Skip) {
	accept := func(name string) bool {
		f := types.FormatFromExtension(name)
		for _, want := range formats {
			if f == want {
				return true
			}
		}
		return false
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			reason := "Path does not exist"
			if !errors.Is(err, fs.ErrNotExist) {
				reason = "Access denied"
			}
			skips = append(skips, Skip{Path: root, Reason: reason, Err: err})
			continue
		}

		if !info.IsDir() {
			if info.Mode().IsRegular() && accept(root) {
				files = append(files, root)
			}
			continue
		}

		_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				skips = append(skips, Skip{Path: path, Reason: "Access denied", Err: err})
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			if d.Type().IsRegular() && accept(d.Name()) {
				files = append(files, path)
			}
			return nil
		})
	}

	return files, skips
}
