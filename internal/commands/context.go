package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/render"
	"github.com/tramy-dev/tramy/internal/scaffold"
	"github.com/tramy-dev/tramy/internal/scanner"
	"github.com/tramy-dev/tramy/internal/templates"
)

// Context implements `tramy context`: the project snapshot stored in the
// config.
func Context(fsys fs.FS, cwd string, stdout io.Writer) error {
	cfg, err := requireInit(fsys, cwd)
	if err != nil {
		return err
	}
	layout := paths.New(cwd)
	present, _ := fs.Exists(fsys, layout.ClaudeMD())

	return render.WriteContext(stdout, render.ContextData{
		Name:         cfg.Project.Name,
		Description:  cfg.Project.Description,
		TechStack:    scanner.FormatTechStack(cfg.Project.TechStack),
		DefaultRole:  cfg.DefaultRole,
		EnabledRoles: cfg.EnabledRoles,
		ClaudeMD:     layout.Rel(layout.ClaudeMD()),
		ClaudeMDOK:   present,
	})
}

// ContextUpdate implements `tramy context update`: rescan and rewrite
// CLAUDE.md. The config file is left untouched.
func ContextUpdate(ctx context.Context, fsys fs.FS, cwd string, stdout io.Writer) error {
	cfg, err := requireInit(fsys, cwd)
	if err != nil {
		return err
	}
	var info scanner.ProjectInfo
	err = withProjectLock(fsys, cwd, "context update", func() error {
		var scanErr error
		info, scanErr = refreshClaudeMD(ctx, fsys, cwd, cfg)
		return scanErr
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "project: %s\n", info.Name)
	fmt.Fprintf(stdout, "tech_stack: %s\n", scanner.FormatTechStack(info.TechStack))
	fmt.Fprintln(stdout, "claude_md: updated")
	return nil
}

// refreshClaudeMD scans root and rewrites CLAUDE.md for cfg.
func refreshClaudeMD(ctx context.Context, fsys fs.FS, root string, cfg config.Config) (scanner.ProjectInfo, error) {
	info, err := scanner.Scan(ctx, fsys, root)
	if err != nil {
		return scanner.ProjectInfo{}, err
	}
	doc, err := templates.ClaudeMD(info, cfg)
	if err != nil {
		return scanner.ProjectInfo{}, errors.Wrap(errors.EInternal, "failed to render CLAUDE.md", err)
	}
	if err := scaffold.WriteFile(fsys, paths.New(root).ClaudeMD(), []byte(doc)); err != nil {
		return scanner.ProjectInfo{}, err
	}
	return info, nil
}
