// Package git provides the read-only repository queries used by doctor,
// run through a CommandRunner.
package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/tramy-dev/tramy/internal/exec"
)

// ErrNotRepository is returned when the directory is not inside a work tree.
var ErrNotRepository = errors.New("not inside a git repository")

// RepoRoot holds the absolute path to a git repository root.
type RepoRoot struct {
	Path string // absolute, clean, no trailing newline
}

// GetRepoRoot discovers the git repository root from the given working directory.
// Uses `git rev-parse --show-toplevel` via CommandRunner.
//
// Returns an error wrapping ErrNotRepository if:
//   - Not inside a git repository (exit code != 0)
//   - Git outputs empty or multi-line stdout
//   - cwd is empty
func GetRepoRoot(ctx context.Context, cr exec.CommandRunner, cwd string) (RepoRoot, error) {
	if cwd == "" {
		return RepoRoot{}, fmt.Errorf("%w: working directory is empty", ErrNotRepository)
	}

	result, err := cr.Run(ctx, "git", []string{"rev-parse", "--show-toplevel"}, exec.RunOpts{Dir: cwd})
	if err != nil {
		return RepoRoot{}, fmt.Errorf("failed to run git rev-parse: %w", err)
	}

	if result.ExitCode != 0 {
		return RepoRoot{}, ErrNotRepository
	}

	out := strings.TrimSpace(result.Stdout)
	if out == "" {
		return RepoRoot{}, fmt.Errorf("%w: git rev-parse returned empty output", ErrNotRepository)
	}
	if strings.Contains(out, "\n") {
		return RepoRoot{}, fmt.Errorf("%w: git rev-parse returned multi-line output", ErrNotRepository)
	}

	absPath := out
	if !filepath.IsAbs(absPath) {
		absPath = filepath.Join(cwd, out)
	}
	absPath, err = filepath.Abs(absPath)
	if err != nil {
		return RepoRoot{}, fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	return RepoRoot{Path: absPath}, nil
}

// IsIgnored reports whether rel, relative to repoRoot, is excluded by the
// repository's ignore rules. Uses `git check-ignore -q`.
func IsIgnored(ctx context.Context, cr exec.CommandRunner, repoRoot, rel string) (bool, error) {
	result, err := cr.Run(ctx, "git", []string{"check-ignore", "-q", "--", rel}, exec.RunOpts{Dir: repoRoot})
	if err != nil {
		return false, fmt.Errorf("failed to run git check-ignore: %w", err)
	}
	switch result.ExitCode {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, fmt.Errorf("git check-ignore exited %d: %s", result.ExitCode, strings.TrimSpace(result.Stderr))
	}
}
