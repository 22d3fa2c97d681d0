package checks

import (
	"fmt"
	"path/filepath"

	"inventory-recon/core/fault"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Layout describes the convention-based input tree of a run.
type Layout struct {
	LogsDir       string
	LogsPattern   string
	CatalogFile   string
	PricesDir     string
	PricesPattern string
}

// MissingKind tells what kind of input is absent.
type MissingKind string

const (
	MissingDir   MissingKind = "dir"
	MissingFile  MissingKind = "file"
	MissingMatch MissingKind = "match"
)

// Missing is one absent input.
type Missing struct {
	Kind MissingKind `json:"kind"`
	// Path is the directory or file, or the glob for MissingMatch.
	Path string `json:"path"`
}

func (m Missing) String() string {
	switch m.Kind {
	case MissingMatch:
		return fmt.Sprintf("no file matches %s", m.Path)
	default:
		return fmt.Sprintf("missing %s %s", m.Kind, m.Path)
	}
}

// Err converts m into the fatal IO error of a run.
func (m Missing) Err() *fault.IOError {
	return fault.NewIOError("require "+string(m.Kind), m.Path, fmt.Errorf("%s", m))
}

// CheckStructure returns every missing input of layout, in the order the
// pipeline reads them.
func CheckStructure(fs afero.Fs, layout Layout) []Missing {
	var missing []Missing

	missing = append(missing, checkDir(fs, layout.LogsDir, layout.LogsPattern)...)

	if ok, _ := afero.Exists(fs, layout.CatalogFile); !ok {
		missing = append(missing, Missing{Kind: MissingFile, Path: layout.CatalogFile})
	} else if isDir, _ := afero.IsDir(fs, layout.CatalogFile); isDir {
		missing = append(missing, Missing{Kind: MissingFile, Path: layout.CatalogFile})
	}

	missing = append(missing, checkDir(fs, layout.PricesDir, layout.PricesPattern)...)
	return missing
}

func checkDir(fs afero.Fs, dir, pattern string) []Missing {
	if ok, _ := afero.DirExists(fs, dir); !ok {
		return []Missing{{Kind: MissingDir, Path: dir}}
	}

	glob := filepath.Join(dir, pattern)
	matches, err := afero.Glob(fs, glob)
	if err != nil || len(matches) == 0 {
		return []Missing{{Kind: MissingMatch, Path: glob}}
	}
	return nil
}

// FixStructure creates the missing directories. Missing files cannot be
// fixed and are left in place for the caller to report.
func FixStructure(fs afero.Fs, logger *zap.Logger, missing []Missing) error {
	for _, m := range missing {
		if m.Kind != MissingDir {
			continue
		}
		if err := fs.MkdirAll(m.Path, 0o755); err != nil {
			logger.Error("Failed to create directory", zap.String("dir", m.Path), zap.Error(err))
			return fault.NewIOError("create dir", m.Path, err)
		}
		logger.Info("Created missing directory", zap.String("dir", m.Path))
	}
	return nil
}
