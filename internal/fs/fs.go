// Package fs provides the filesystem used by every tramy component.
//
// All reads and writes go through an afero.Fs so commands run unchanged
// against the real disk or an in-memory tree in tests.
package fs

import (
	"os"

	"github.com/spf13/afero"
)

// FS is the filesystem interface used across tramy.
type FS = afero.Fs

// NewRealFS returns the production filesystem backed by the os package.
func NewRealFS() FS {
	return afero.NewOsFs()
}

// NewMemFS returns an empty in-memory filesystem.
func NewMemFS() FS {
	return afero.NewMemMapFs()
}

// Exists reports whether path exists. Stat errors other than "not exist"
// are returned to the caller.
func Exists(fsys FS, path string) (bool, error) {
	_, err := fsys.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// IsDir reports whether path exists and is a directory.
func IsDir(fsys FS, path string) bool {
	ok, err := afero.DirExists(fsys, path)
	return err == nil && ok
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(fsys FS, dir string) error {
	return fsys.MkdirAll(dir, 0o755)
}

// ReadFile reads the whole file at path.
func ReadFile(fsys FS, path string) ([]byte, error) {
	return afero.ReadFile(fsys, path)
}

// WriteFileIfMissing writes data only when path does not exist yet.
// Returns true when the file was created.
func WriteFileIfMissing(fsys FS, path string, data []byte, perm os.FileMode) (bool, error) {
	exists, err := Exists(fsys, path)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}
	if err := afero.WriteFile(fsys, path, data, perm); err != nil {
		return false, err
	}
	return true, nil
}
