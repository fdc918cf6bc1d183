package commands

import (
	"fmt"
	"io"

	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/templates"
)

// List implements `tramy list`: the enabled roles with their slash commands,
// then the workflows available to them.
func List(fsys fs.FS, cwd string, stdout io.Writer) error {
	cfg, err := requireInit(fsys, cwd)
	if err != nil {
		return err
	}

	for i, r := range roles.ByIDs(cfg.EnabledRoles) {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		marker := ""
		if r.ID == cfg.DefaultRole {
			marker = " [default]"
		}
		fmt.Fprintf(stdout, "%s (%s)%s\n", r.Name, r.Alias, marker)
		for _, c := range r.Commands {
			fmt.Fprintf(stdout, "  %-28s %s\n", c.Invocation(r.Alias), c.Description)
		}
	}

	ws := templates.EnabledWorkflows(cfg.EnabledRoles)
	if len(ws) == 0 {
		return nil
	}
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, "Workflows")
	for _, w := range ws {
		fmt.Fprintf(stdout, "  %-28s %s\n", "/workflow:"+w.ID, w.Description)
	}
	return nil
}
