package scaffold

import (
	"os"
	"strings"

	"github.com/spf13/afero"

	"github.com/tramy-dev/tramy/internal/fs"
)

// LocalSettingsEntry is the per-user settings file kept out of version control.
const LocalSettingsEntry = ".claude/settings.local.json"

// GitignoreResult indicates what happened to .gitignore.
type GitignoreResult string

const (
	GitignoreUpdated   GitignoreResult = "updated"
	GitignoreUnchanged GitignoreResult = "unchanged"
	GitignoreSkipped   GitignoreResult = "skipped"
)

// EnsureGitignore ensures the local settings file is in .gitignore.
// Creates the file if missing. Does not add duplicate entries.
// Ensures file ends with newline.
//
// Returns the result indicating what action was taken.
func EnsureGitignore(fsys fs.FS, gitignorePath string) (GitignoreResult, error) {
	content, err := afero.ReadFile(fsys, gitignorePath)
	if err != nil {
		if !os.IsNotExist(err) {
			return "", err
		}
		if err := fs.WriteFileAtomic(fsys, gitignorePath, []byte(LocalSettingsEntry+"\n"), 0o644); err != nil {
			return "", err
		}
		return GitignoreUpdated, nil
	}

	if hasLocalSettingsEntry(string(content)) {
		if len(content) > 0 && content[len(content)-1] != '\n' {
			if err := fs.WriteFileAtomic(fsys, gitignorePath, append(content, '\n'), 0o644); err != nil {
				return "", err
			}
			return GitignoreUpdated, nil
		}
		return GitignoreUnchanged, nil
	}

	newContent := string(content)
	if len(newContent) > 0 && !strings.HasSuffix(newContent, "\n") {
		newContent += "\n"
	}
	newContent += LocalSettingsEntry + "\n"

	if err := fs.WriteFileAtomic(fsys, gitignorePath, []byte(newContent), 0o644); err != nil {
		return "", err
	}
	return GitignoreUpdated, nil
}

// hasLocalSettingsEntry treats a leading slash and a bare
// "settings.local.json" pattern as equivalent entries.
func hasLocalSettingsEntry(content string) bool {
	for _, line := range strings.Split(content, "\n") {
		switch strings.TrimSpace(line) {
		case LocalSettingsEntry, "/" + LocalSettingsEntry, "settings.local.json":
			return true
		}
	}
	return false
}
