// Package scaffold writes generated files into a project: template records,
// output directories and the .gitignore entry. It also removes generated
// files that belong to roles or workflows no longer enabled.
package scaffold

import (
	"path/filepath"
	"slices"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/templates"
)

// RoleFilter reports whether records of a role should be written.
type RoleFilter func(roleID string) bool

// EnabledFilter accepts exactly the given role ids.
func EnabledFilter(ids []string) RoleFilter {
	return func(id string) bool { return slices.Contains(ids, id) }
}

// WriteResult lists record paths, relative to the base directory.
type WriteResult struct {
	Written []string
	Skipped []string
}

// WriteRecords writes every record under baseDir, overwriting existing
// files. Records bound to a role the filter rejects are skipped; records
// without a role are always written. The first failure aborts with
// E_WRITE_FAILED; files written before it stay.
func WriteRecords(fsys fs.FS, baseDir string, records []templates.Record, enabled RoleFilter) (WriteResult, error) {
	var res WriteResult
	for _, rec := range records {
		if rec.RoleID != "" && enabled != nil && !enabled(rec.RoleID) {
			logging.Debug().Str("path", rec.Path).Str("role", rec.RoleID).Msg("scaffold: skipping record of disabled role")
			res.Skipped = append(res.Skipped, rec.Path)
			continue
		}

		path := filepath.Join(baseDir, filepath.FromSlash(rec.Path))
		if err := fs.EnsureDir(fsys, filepath.Dir(path)); err != nil {
			return res, writeFailed(path, err)
		}
		if err := fs.WriteFileAtomic(fsys, path, []byte(rec.Content), 0o644); err != nil {
			return res, writeFailed(path, err)
		}
		res.Written = append(res.Written, rec.Path)
	}
	return res, nil
}

// WriteFile writes one generated file, creating its parent directory.
func WriteFile(fsys fs.FS, path string, data []byte) error {
	if err := fs.EnsureDir(fsys, filepath.Dir(path)); err != nil {
		return writeFailed(path, err)
	}
	if err := fs.WriteFileAtomic(fsys, path, data, 0o644); err != nil {
		return writeFailed(path, err)
	}
	return nil
}

func writeFailed(path string, err error) error {
	return errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+path, err,
		map[string]string{"path": path})
}
