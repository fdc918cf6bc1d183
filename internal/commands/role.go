package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/logging"
	"github.com/tramy-dev/tramy/internal/render"
	"github.com/tramy-dev/tramy/internal/roles"
)

// ListOpts holds the flags of the list subcommands.
type ListOpts struct {
	JSON bool
}

// loadOptional returns the config of an initialized project, or ok=false
// when there is none. Read-only catalog commands work either way.
func loadOptional(fsys fs.FS, root string) (cfg config.Config, ok bool, err error) {
	if !config.IsInitialized(fsys, root) {
		return config.Config{}, false, nil
	}
	cfg, err = config.Load(fsys, root)
	if err != nil {
		return config.Config{}, false, err
	}
	return cfg, true, nil
}

// RoleList implements `tramy role list`.
func RoleList(fsys fs.FS, cwd string, opts ListOpts, stdout io.Writer) error {
	cfg, _, err := loadOptional(fsys, cwd)
	if err != nil {
		return err
	}
	enabled := enabledSet(cfg.EnabledRoles)

	all := roles.All()
	if opts.JSON {
		summaries := make([]render.RoleSummary, len(all))
		for i, r := range all {
			cmds := make([]string, len(r.Commands))
			for j, c := range r.Commands {
				cmds[j] = c.Name
			}
			summaries[i] = render.RoleSummary{
				ID:          r.ID,
				Alias:       r.Alias,
				Name:        r.Name,
				Description: r.Description,
				Enabled:     enabled[r.ID],
				Default:     r.ID == cfg.DefaultRole,
				Commands:    cmds,
			}
		}
		return render.WriteJSON(stdout, summaries)
	}

	rows := make([]render.RoleRow, len(all))
	for i, r := range all {
		rows[i] = render.RoleRow{
			Alias:   r.Alias,
			ID:      r.ID,
			Name:    r.Name,
			Enabled: enabled[r.ID],
			Default: r.ID == cfg.DefaultRole,
		}
	}
	return render.WriteRoleTable(stdout, rows)
}

// RoleInfo implements `tramy role info <role>`.
func RoleInfo(fsys fs.FS, cwd, ref string, stdout io.Writer) error {
	r, err := resolveRole(ref)
	if err != nil {
		return err
	}
	cfg, _, err := loadOptional(fsys, cwd)
	if err != nil {
		return err
	}
	return render.WriteRoleInfo(stdout, r, enabledSet(cfg.EnabledRoles)[r.ID], r.ID == cfg.DefaultRole)
}

// RoleSwitch implements `tramy role switch <role>`.
// The role must be enabled. The config is loaded, modified and saved, then
// CLAUDE.md is rendered again from a fresh scan.
func RoleSwitch(ctx context.Context, fsys fs.FS, cwd, ref string, stdout io.Writer) error {
	cfg, err := requireInit(fsys, cwd)
	if err != nil {
		return err
	}
	r, err := resolveRole(ref)
	if err != nil {
		return err
	}
	if !enabledSet(cfg.EnabledRoles)[r.ID] {
		return errors.NewWithHint(errors.ERoleNotEnabled,
			fmt.Sprintf("role %s is not enabled", r.ID),
			fmt.Sprintf("run 'tramy setup --roles ...' including %s", r.Alias))
	}

	previous := cfg.DefaultRole
	cfg.DefaultRole = r.ID
	err = withProjectLock(fsys, cwd, "role switch", func() error {
		if err := config.Save(fsys, cwd, cfg); err != nil {
			return err
		}
		_, err := refreshClaudeMD(ctx, fsys, cwd, cfg)
		return err
	})
	if err != nil {
		return err
	}

	logging.Info().Str("from", previous).Str("to", r.ID).Msg("role: switched default")

	fmt.Fprintf(stdout, "default_role: %s\n", r.ID)
	fmt.Fprintf(stdout, "previous: %s\n", previous)
	fmt.Fprintln(stdout, "claude_md: updated")
	return nil
}
