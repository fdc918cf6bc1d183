package scaffold

import (
	"path/filepath"
	"slices"

	"github.com/spf13/afero"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/templates"
	"github.com/tramy-dev/tramy/internal/workflows"
)

// PruneResult lists removed paths, relative to the project root.
type PruneResult struct {
	Removed []string
}

// Prune deletes generated files that the enabled role set no longer
// produces: the command files and agent file of every catalog role not in
// enabledIDs, and the runbook of every workflow with a disabled role. Only
// catalog-owned paths are removed. A role's command directory is removed
// once it is empty; other files in it are left alone.
func Prune(fsys fs.FS, layout paths.Layout, enabledIDs []string) (PruneResult, error) {
	var (
		stale    []string
		aliasDir []string
	)
	for _, r := range roles.All() {
		if slices.Contains(enabledIDs, r.ID) {
			continue
		}
		for _, c := range r.Commands {
			stale = append(stale, filepath.Join(layout.CommandsDir(), filepath.FromSlash(templates.CommandPath(r, c))))
		}
		stale = append(stale, filepath.Join(layout.AgentsDir(), r.ID+".md"))
		aliasDir = append(aliasDir, filepath.Join(layout.CommandsDir(), r.Alias))
	}
	for _, w := range workflows.All() {
		if !w.RolesEnabled(enabledIDs) {
			stale = append(stale, filepath.Join(layout.CommandsDir(), filepath.FromSlash(templates.WorkflowPath(w.ID))))
		}
	}

	var res PruneResult
	for _, path := range stale {
		exists, err := fs.Exists(fsys, path)
		if err != nil {
			return res, errors.WrapWithDetails(errors.EWriteFailed, "failed to inspect "+path, err,
				map[string]string{"path": path})
		}
		if !exists || fs.IsDir(fsys, path) {
			continue
		}
		if err := fsys.Remove(path); err != nil {
			return res, errors.WrapWithDetails(errors.EWriteFailed, "failed to remove "+path, err,
				map[string]string{"path": path})
		}
		logging.Debug().Str("path", path).Msg("scaffold: pruned stale file")
		res.Removed = append(res.Removed, layout.Rel(path))
	}

	for _, dir := range aliasDir {
		if !fs.IsDir(fsys, dir) {
			continue
		}
		empty, err := afero.IsEmpty(fsys, dir)
		if err != nil {
			return res, errors.WrapWithDetails(errors.EWriteFailed, "failed to inspect "+dir, err,
				map[string]string{"path": dir})
		}
		if !empty {
			continue
		}
		if err := fsys.Remove(dir); err != nil {
			return res, errors.WrapWithDetails(errors.EWriteFailed, "failed to remove "+dir, err,
				map[string]string{"path": dir})
		}
		logging.Debug().Str("path", dir).Msg("scaffold: pruned empty command directory")
		res.Removed = append(res.Removed, layout.Rel(dir))
	}
	return res, nil
}
