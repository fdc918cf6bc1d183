// Package paths resolves the conventional file layout inside a target project.
//
// Every function here is a pure function of the project root: no state, no I/O.
package paths

import (
	"path/filepath"
	"strings"
)

// Conventional names, relative to the project root.
const (
	ConfigDirName    = ".tramy"
	ConfigFileName   = "config.yaml"
	LockFileName     = "setup.lock"
	ClaudeDirName    = ".claude"
	CommandsDirName  = "commands"
	AgentsDirName    = "agents"
	SettingsFileName = "settings.json"
	ClaudeMDName     = "CLAUDE.md"
	GitignoreName    = ".gitignore"

	// WorkflowNamespace is the command subdirectory holding workflow runbooks,
	// invoked as /workflow:<id>.
	WorkflowNamespace = "workflow"
)

// Layout holds the project root and derives every conventional path from it.
type Layout struct {
	Root string
}

// New returns the layout for root.
func New(root string) Layout {
	return Layout{Root: filepath.Clean(root)}
}

// ConfigDir returns <root>/.tramy.
func (l Layout) ConfigDir() string {
	return filepath.Join(l.Root, ConfigDirName)
}

// ConfigFile returns <root>/.tramy/config.yaml.
func (l Layout) ConfigFile() string {
	return filepath.Join(l.ConfigDir(), ConfigFileName)
}

// LockFile returns <root>/.tramy/setup.lock.
func (l Layout) LockFile() string {
	return filepath.Join(l.ConfigDir(), LockFileName)
}

// ClaudeDir returns <root>/.claude.
func (l Layout) ClaudeDir() string {
	return filepath.Join(l.Root, ClaudeDirName)
}

// CommandsDir returns <root>/.claude/commands.
func (l Layout) CommandsDir() string {
	return filepath.Join(l.ClaudeDir(), CommandsDirName)
}

// AgentsDir returns <root>/.claude/agents.
func (l Layout) AgentsDir() string {
	return filepath.Join(l.ClaudeDir(), AgentsDirName)
}

// WorkflowsDir returns <root>/.claude/commands/workflow.
func (l Layout) WorkflowsDir() string {
	return filepath.Join(l.CommandsDir(), WorkflowNamespace)
}

// SettingsFile returns <root>/.claude/settings.json.
func (l Layout) SettingsFile() string {
	return filepath.Join(l.ClaudeDir(), SettingsFileName)
}

// ClaudeMD returns <root>/CLAUDE.md.
func (l Layout) ClaudeMD() string {
	return filepath.Join(l.Root, ClaudeMDName)
}

// Gitignore returns <root>/.gitignore.
func (l Layout) Gitignore() string {
	return filepath.Join(l.Root, GitignoreName)
}

// Join resolves a slash-separated project-relative path.
func (l Layout) Join(rel string) string {
	return filepath.Join(l.Root, filepath.FromSlash(rel))
}

// Rel returns path relative to the root with forward slashes, for display.
// Paths outside the root are returned unchanged.
func (l Layout) Rel(path string) string {
	rel, err := filepath.Rel(l.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
