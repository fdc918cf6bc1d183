package scaffold

import (
	"os"
	"path/filepath"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
)

// KeepFile marks an otherwise empty output directory for version control.
const KeepFile = ".gitkeep"

// OutputDirsResult holds the result of output directory creation.
type OutputDirsResult struct {
	Created []string // output dirs whose .gitkeep was created
	Skipped []string // output dirs that already had one
}

// CreateOutputDirs creates each configured output directory under root with
// an empty .gitkeep. Existing .gitkeep files are never overwritten.
func CreateOutputDirs(fsys fs.FS, root string, out config.Output) (OutputDirsResult, error) {
	var res OutputDirsResult
	for _, dir := range out.Dirs() {
		abs := filepath.Join(root, filepath.FromSlash(dir))
		if err := fs.EnsureDir(fsys, abs); err != nil {
			return res, writeFailed(abs, err)
		}

		keep := filepath.Join(abs, KeepFile)
		created, err := fs.WriteFileIfMissing(fsys, keep, nil, os.FileMode(0o644))
		if err != nil {
			return res, errors.WrapWithDetails(errors.EWriteFailed, "failed to write "+keep, err,
				map[string]string{"path": keep})
		}
		if created {
			res.Created = append(res.Created, dir)
		} else {
			res.Skipped = append(res.Skipped, dir)
		}
	}
	return res, nil
}
