package fs

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// TempPattern is the name pattern of in-flight atomic writes.
const TempPattern = ".tramy-tmp-*"

// WriteFileAtomic writes data to path atomically using a temp file + rename.
// The temp file is created in the same directory as path so the rename stays
// on one filesystem. If the operation fails, the original file (if any) is
// left unchanged. The caller must ensure the parent directory exists.
func WriteFileAtomic(fsys FS, path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)

	f, err := afero.TempFile(fsys, dir, TempPattern)
	if err != nil {
		return err
	}
	tmpPath := f.Name()

	success := false
	defer func() {
		if !success {
			_ = fsys.Remove(tmpPath)
		}
	}()

	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return err
	}

	if err := fsys.Chmod(tmpPath, perm); err != nil {
		return err
	}

	if err := fsys.Rename(tmpPath, path); err != nil {
		return err
	}

	success = true
	return nil
}

// WriteJSONAtomic marshals v with two-space indentation and a trailing
// newline, then writes it with WriteFileAtomic.
func WriteJSONAtomic(fsys FS, path string, v any, perm os.FileMode) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return WriteFileAtomic(fsys, path, data, perm)
}
