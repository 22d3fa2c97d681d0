// Package fsutil wraps afero with the few file operations the pipeline needs:
// convention-based discovery of input files and atomic output writes.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"inventory-recon/core/fault"

	"github.com/spf13/afero"
)

var numericSuffix = regexp.MustCompile(`(\d+)(\.[^.]*)?$`)

// Find returns the files in dir matching pattern, ordered by their numeric
// suffix (log_2.txt before log_10.txt) and then by name.
// A missing directory is an IOFailure.
func Find(fs afero.Fs, dir, pattern string) ([]string, error) {
	if err := RequireDir(fs, dir); err != nil {
		return nil, err
	}

	matches, err := afero.Glob(fs, filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	files := matches[:0]
	for _, m := range matches {
		if ok, _ := afero.IsDir(fs, m); !ok {
			files = append(files, m)
		}
	}

	SortNatural(files)
	return files, nil
}

// SortNatural orders paths by the trailing number of their base name, falling
// back to lexical order for ties and for names without a number.
func SortNatural(paths []string) {
	sort.SliceStable(paths, func(i, j int) bool {
		ni, okI := suffixNumber(paths[i])
		nj, okJ := suffixNumber(paths[j])
		if okI && okJ && ni != nj {
			return ni < nj
		}
		if okI != okJ {
			return okI
		}
		return paths[i] < paths[j]
	})
}

func suffixNumber(path string) (int, bool) {
	m := numericSuffix.FindStringSubmatch(filepath.Base(path))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// RequireDir fails with an IOFailure when path is not an existing directory.
func RequireDir(fs afero.Fs, path string) error {
	ok, err := afero.DirExists(fs, path)
	if err != nil {
		return fault.NewIOError("stat", path, err)
	}
	if !ok {
		return fault.NewIOError("open directory", path, os.ErrNotExist)
	}
	return nil
}

// RequireFile fails with an IOFailure when path is not an existing regular file.
func RequireFile(fs afero.Fs, path string) error {
	info, err := fs.Stat(path)
	if err != nil {
		return fault.NewIOError("open file", path, err)
	}
	if info.IsDir() {
		return fault.NewIOError("open file", path, fmt.Errorf("is a directory"))
	}
	return nil
}

// WriteFileAtomic writes data to a temporary sibling of path and renames it
// into place, so readers never observe a partially written file.
func WriteFileAtomic(fs afero.Fs, path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return fault.NewIOError("create directory", dir, err)
	}

	tmp := path + ".tmp"
	if err := afero.WriteFile(fs, tmp, data, 0o644); err != nil {
		return fault.NewIOError("write", tmp, err)
	}
	if err := fs.Rename(tmp, path); err != nil {
		_ = fs.Remove(tmp)
		return fault.NewIOError("rename", path, err)
	}
	return nil
}
