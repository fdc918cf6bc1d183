package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/render"
	"github.com/tramy-dev/tramy/internal/workflows"
)

func lookupWorkflow(id string) (workflows.Workflow, error) {
	w, ok := workflows.ByID(strings.TrimSpace(id))
	if !ok {
		return workflows.Workflow{}, errors.NewWithHint(errors.EUnknownWorkflow,
			fmt.Sprintf("unknown workflow %q", id), hintWorkflowLs)
	}
	return w, nil
}

// WorkflowList implements `tramy workflow list`. The enabled column reflects
// the project config when the project is initialized.
func WorkflowList(fsys fs.FS, cwd string, opts ListOpts, stdout io.Writer) error {
	cfg, _, err := loadOptional(fsys, cwd)
	if err != nil {
		return err
	}

	all := workflows.All()
	if opts.JSON {
		summaries := make([]render.WorkflowSummary, len(all))
		for i, w := range all {
			summaries[i] = render.WorkflowSummary{
				ID:          w.ID,
				Name:        w.Name,
				Description: w.Description,
				Roles:       w.Roles(),
				Phases:      len(w.Phases),
				Enabled:     w.RolesEnabled(cfg.EnabledRoles),
			}
		}
		return render.WriteJSON(stdout, summaries)
	}

	rows := make([]render.WorkflowRow, len(all))
	for i, w := range all {
		rows[i] = render.WorkflowRow{
			ID:    w.ID,
			Name:  w.Name,
			Roles: w.Roles(),
		}
	}
	return render.WriteWorkflowTable(stdout, rows)
}

// WorkflowInfo implements `tramy workflow info <id>`.
func WorkflowInfo(fsys fs.FS, cwd, id string, stdout io.Writer) error {
	w, err := lookupWorkflow(id)
	if err != nil {
		return err
	}
	cfg, _, err := loadOptional(fsys, cwd)
	if err != nil {
		return err
	}
	return render.WriteWorkflowInfo(stdout, w, w.RolesEnabled(cfg.EnabledRoles))
}

// WorkflowRun implements `tramy workflow run <id> [args...]`: the rendered
// runbook with the arguments placeholder replaced by the joined args.
func WorkflowRun(id string, args []string, stdout io.Writer) error {
	w, err := lookupWorkflow(id)
	if err != nil {
		return err
	}
	_, err = io.WriteString(stdout, workflows.Substitute(workflows.Render(w), strings.Join(args, " ")))
	return err
}
