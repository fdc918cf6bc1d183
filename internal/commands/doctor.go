package commands

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/afero"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/exec"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/git"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/render"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/scaffold"
	"github.com/tramy-dev/tramy/internal/settings"
	"github.com/tramy-dev/tramy/internal/templates"
)

// Doctor implements `tramy doctor`.
// Runs every check without modifying anything, prints the full report and
// returns E_DOCTOR_FAILED if any check failed.
func Doctor(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string, stdout io.Writer) error {
	checks := doctorChecks(ctx, cr, fsys, cwd)
	if err := render.WriteChecks(stdout, checks); err != nil {
		return err
	}
	if render.Failed(checks) {
		return errors.NewWithHint(errors.EDoctorFailed, "one or more checks failed", hintSetup)
	}
	return nil
}

func doctorChecks(ctx context.Context, cr exec.CommandRunner, fsys fs.FS, cwd string) []render.Check {
	layout := paths.New(cwd)
	var checks []render.Check
	add := func(name string, status render.Status, detail string) {
		checks = append(checks, render.Check{Name: name, Status: status, Detail: detail})
	}

	// Project files
	initialized := config.IsInitialized(fsys, cwd)
	var cfg config.Config
	cfgOK := false
	if initialized {
		add("initialized", render.StatusOK, layout.Rel(layout.ConfigFile()))
		var err error
		cfg, err = config.Load(fsys, cwd)
		if err != nil {
			add("config", render.StatusFail, config.FirstValidationError(err))
		} else {
			cfgOK = true
			add("config", render.StatusOK,
				fmt.Sprintf("%d roles enabled, default %s", len(cfg.EnabledRoles), cfg.DefaultRole))
		}
	} else {
		add("initialized", render.StatusFail, layout.Rel(layout.ConfigFile())+" not found")
	}

	if fs.IsDir(fsys, layout.ClaudeDir()) {
		add("claude dir", render.StatusOK, layout.Rel(layout.ClaudeDir()))
	} else {
		add("claude dir", render.StatusFail, layout.Rel(layout.ClaudeDir())+" not found")
	}

	checks = append(checks, countCheck(fsys, layout, "commands", layout.CommandsDir(), expectedCommands(cfg, cfgOK)))
	checks = append(checks, countCheck(fsys, layout, "agents", layout.AgentsDir(), expectedAgents(cfg, cfgOK)))
	checks = append(checks, settingsCheck(fsys, layout))

	// Tooling
	if v, ok := exec.ToolVersion(ctx, cr, "claude", "--version"); ok {
		add("claude cli", render.StatusOK, v)
	} else {
		add("claude cli", render.StatusWarn, "not found on PATH; generated commands need Claude Code")
	}

	if v, ok := exec.ToolVersion(ctx, cr, "git", "--version"); ok {
		add("git", render.StatusOK, v)
		checks = append(checks, repoChecks(ctx, cr, cwd)...)
	} else {
		add("git", render.StatusWarn, "not found on PATH")
	}

	add("go runtime", render.StatusInfo, runtime.Version())

	logging.Debug().Int("checks", len(checks)).Msg("doctor: checks complete")
	return checks
}

// expectedCommands is the command file count a setup with cfg writes, or -1
// when unknown.
func expectedCommands(cfg config.Config, ok bool) int {
	if !ok {
		return -1
	}
	n := 0
	for _, r := range roles.ByIDs(cfg.EnabledRoles) {
		n += len(r.Commands)
	}
	return n + len(templates.EnabledWorkflows(cfg.EnabledRoles))
}

func expectedAgents(cfg config.Config, ok bool) int {
	if !ok {
		return -1
	}
	return len(roles.ByIDs(cfg.EnabledRoles))
}

// countCheck fails when dir is missing and warns when its Markdown file
// count differs from expected (skipped for expected < 0).
func countCheck(fsys fs.FS, layout paths.Layout, name, dir string, expected int) render.Check {
	c := render.Check{Name: name}
	if !fs.IsDir(fsys, dir) {
		c.Status = render.StatusFail
		c.Detail = layout.Rel(dir) + " not found"
		return c
	}
	n, err := countMarkdown(fsys, dir)
	if err != nil {
		c.Status = render.StatusFail
		c.Detail = err.Error()
		return c
	}
	c.Status = render.StatusOK
	c.Detail = fmt.Sprintf("%d files", n)
	if expected >= 0 && n != expected {
		c.Status = render.StatusWarn
		c.Detail = fmt.Sprintf("%d files, expected %d; run 'tramy setup --yes'", n, expected)
	}
	return c
}

func countMarkdown(fsys fs.FS, dir string) (int, error) {
	n := 0
	err := afero.Walk(fsys, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && strings.HasSuffix(info.Name(), ".md") {
			n++
		}
		return nil
	})
	return n, err
}

func settingsCheck(fsys fs.FS, layout paths.Layout) render.Check {
	c := render.Check{Name: "settings hook"}
	path := layout.SettingsFile()
	data, err := fs.ReadFile(fsys, path)
	switch {
	case err != nil:
		c.Status = render.StatusFail
		c.Detail = layout.Rel(path) + " not found"
	case !settings.HasHook(data):
		c.Status = render.StatusFail
		c.Detail = settings.HookEvent + " hook missing from " + layout.Rel(path)
	default:
		c.Status = render.StatusOK
		c.Detail = settings.HookEvent
	}
	return c
}

// repoChecks reports the repository root and whether local assistant
// settings are kept out of version control. Both only warn.
func repoChecks(ctx context.Context, cr exec.CommandRunner, cwd string) []render.Check {
	root, err := git.GetRepoRoot(ctx, cr, cwd)
	if err != nil {
		detail := err.Error()
		if stderrors.Is(err, git.ErrNotRepository) {
			detail = "not inside a git repository"
		}
		return []render.Check{{Name: "repository", Status: render.StatusWarn, Detail: detail}}
	}

	checks := []render.Check{{Name: "repository", Status: render.StatusOK, Detail: root.Path}}

	rel := scaffold.LocalSettingsEntry
	if r, err := filepath.Rel(root.Path, filepath.Join(cwd, filepath.FromSlash(rel))); err == nil {
		rel = filepath.ToSlash(r)
	}
	ignored, err := git.IsIgnored(ctx, cr, root.Path, rel)
	switch {
	case err != nil:
		checks = append(checks, render.Check{Name: "local settings", Status: render.StatusWarn, Detail: err.Error()})
	case !ignored:
		checks = append(checks, render.Check{Name: "local settings", Status: render.StatusWarn,
			Detail: rel + " is not ignored by git; run 'tramy setup --yes'"})
	default:
		checks = append(checks, render.Check{Name: "local settings", Status: render.StatusOK, Detail: rel + " ignored"})
	}
	return checks
}
