package fs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
)

func TestWriteFileAtomic_Basic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	fsys := NewRealFS()

	data := []byte("version: \"2.0\"\n")
	if err := WriteFileAtomic(fsys, path, data, 0644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	got, err := ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("content = %q, want %q", string(got), string(data))
	}

	assertNoTempFiles(t, fsys, dir)
}

func TestWriteFileAtomic_Overwrite(t *testing.T) {
	fsys := NewMemFS()
	dir := "/project/.tramy"
	if err := EnsureDir(fsys, dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	path := filepath.Join(dir, "config.yaml")

	if err := WriteFileAtomic(fsys, path, []byte("old: true\n"), 0644); err != nil {
		t.Fatalf("initial write failed: %v", err)
	}
	updated := []byte("new: true\n")
	if err := WriteFileAtomic(fsys, path, updated, 0644); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}

	got, err := ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(updated) {
		t.Errorf("content = %q, want %q", string(got), string(updated))
	}

	assertNoTempFiles(t, fsys, dir)
}

func TestWriteFileAtomic_Permissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.json")
	fsys := NewRealFS()

	if err := WriteFileAtomic(fsys, path, []byte("{}"), 0600); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}

	info, err := fsys.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("permissions = %o, want %o", got, 0600)
	}
}

func TestWriteFileAtomic_RenameFailure(t *testing.T) {
	fsys := NewMemFS()
	dir := "/project"
	if err := EnsureDir(fsys, dir); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	path := filepath.Join(dir, "CLAUDE.md")

	initial := []byte("# original\n")
	if err := afero.WriteFile(fsys, path, initial, 0644); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	stub := &failingRenameFS{Fs: fsys}
	if err := WriteFileAtomic(stub, path, []byte("# new\n"), 0644); err == nil {
		t.Fatal("expected error on rename failure")
	}

	got, err := ReadFile(fsys, path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(got) != string(initial) {
		t.Errorf("original content changed: got %q, want %q", string(got), string(initial))
	}

	assertNoTempFiles(t, fsys, dir)
}

func TestWriteFileAtomic_ReadOnly(t *testing.T) {
	base := NewMemFS()
	if err := EnsureDir(base, "/project"); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	ro := afero.NewReadOnlyFs(base)

	if err := WriteFileAtomic(ro, "/project/a.md", []byte("x"), 0644); err == nil {
		t.Fatal("expected error writing to read-only filesystem")
	}
}

func TestWriteFileAtomic_ParentDirMustExist(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent", "test.json")

	if err := WriteFileAtomic(NewRealFS(), path, []byte("x"), 0o644); err == nil {
		t.Error("WriteFileAtomic should fail when parent dir doesn't exist")
	}
}

func TestWriteJSONAtomic_PrettyFormat(t *testing.T) {
	fsys := NewMemFS()
	if err := EnsureDir(fsys, "/p"); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}

	data := map[string]any{"hooks": map[string]any{"a": 1}}
	if err := WriteJSONAtomic(fsys, "/p/settings.json", data, 0o644); err != nil {
		t.Fatalf("WriteJSONAtomic failed: %v", err)
	}

	content, err := ReadFile(fsys, "/p/settings.json")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := "{\n  \"hooks\": {\n    \"a\": 1\n  }\n}\n"
	if string(content) != want {
		t.Errorf("content = %q, want %q", string(content), want)
	}

	var got map[string]any
	if err := json.Unmarshal(content, &got); err != nil {
		t.Fatalf("JSON invalid: %v", err)
	}
}

func TestWriteFileIfMissing(t *testing.T) {
	fsys := NewMemFS()
	if err := EnsureDir(fsys, "/p/analysis"); err != nil {
		t.Fatalf("EnsureDir failed: %v", err)
	}
	path := "/p/analysis/.gitkeep"

	created, err := WriteFileIfMissing(fsys, path, nil, 0o644)
	if err != nil || !created {
		t.Fatalf("first write: created=%v err=%v", created, err)
	}

	if err := afero.WriteFile(fsys, path, []byte("keep me"), 0o644); err != nil {
		t.Fatal(err)
	}
	created, err = WriteFileIfMissing(fsys, path, nil, 0o644)
	if err != nil || created {
		t.Fatalf("second write: created=%v err=%v", created, err)
	}
	got, _ := ReadFile(fsys, path)
	if string(got) != "keep me" {
		t.Errorf("existing file overwritten: %q", got)
	}
}

func TestExistsAndIsDir(t *testing.T) {
	fsys := NewMemFS()
	if err := EnsureDir(fsys, "/p/.claude"); err != nil {
		t.Fatal(err)
	}

	ok, err := Exists(fsys, "/p/.claude")
	if err != nil || !ok {
		t.Errorf("Exists(.claude) = %v, %v", ok, err)
	}
	ok, err = Exists(fsys, "/p/missing")
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v", ok, err)
	}
	if !IsDir(fsys, "/p/.claude") {
		t.Error("IsDir(.claude) = false")
	}
	if IsDir(fsys, "/p/missing") {
		t.Error("IsDir(missing) = true")
	}
}

// failingRenameFS wraps an FS and fails on Rename operations.
type failingRenameFS struct {
	afero.Fs
}

func (f *failingRenameFS) Rename(oldpath, newpath string) error {
	return os.ErrPermission
}

func assertNoTempFiles(t *testing.T, fsys FS, dir string) {
	t.Helper()
	entries, err := afero.ReadDir(fsys, dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".tramy-tmp-") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}
