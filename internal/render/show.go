package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/workflows"
)

// yesNo renders a boolean for key: value output.
func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}

// WriteRoleInfo writes human-readable role info output.
func WriteRoleInfo(w io.Writer, r roles.Role, enabled, isDefault bool) error {
	fmt.Fprintln(w, "=== role ===")
	fmt.Fprintf(w, "id: %s\n", r.ID)
	fmt.Fprintf(w, "alias: %s\n", r.Alias)
	fmt.Fprintf(w, "name: %s\n", r.Name)
	fmt.Fprintf(w, "description: %s\n", r.Description)
	fmt.Fprintf(w, "tools: %s\n", strings.Join(r.Tools, ", "))
	fmt.Fprintf(w, "enabled: %s\n", yesNo(enabled))
	fmt.Fprintf(w, "default: %s\n", yesNo(isDefault))

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== capabilities ===")
	for _, c := range r.Capabilities {
		fmt.Fprintf(w, "- %s\n", c)
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== commands ===")
	rows := make([][]string, len(r.Commands))
	for i, c := range r.Commands {
		rows[i] = []string{c.Invocation(r.Alias), c.Description}
	}
	widths := columnWidths([]string{"", ""}, rows)
	for _, row := range rows {
		if _, err := fmt.Fprintln(w, formatRow(row, widths)); err != nil {
			return err
		}
	}
	return nil
}

// WriteWorkflowInfo writes human-readable workflow info output: one block
// per phase with its roles and the slash commands it runs. Actions no
// phase role defines are listed last as unowned.
func WriteWorkflowInfo(w io.Writer, wf workflows.Workflow, enabled bool) error {
	fmt.Fprintln(w, "=== workflow ===")
	fmt.Fprintf(w, "id: %s\n", wf.ID)
	fmt.Fprintf(w, "name: %s\n", wf.Name)
	fmt.Fprintf(w, "description: %s\n", wf.Description)
	fmt.Fprintf(w, "roles: %s\n", strings.Join(wf.Roles(), " → "))
	fmt.Fprintf(w, "enabled: %s\n", yesNo(enabled))
	fmt.Fprintf(w, "invoke: /workflow:%s\n", wf.ID)

	for i, p := range wf.Phases {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "=== phase %d: %s ===\n", i+1, p.Name)
		roleStr := strings.Join(p.Roles, " + ")
		if p.Parallel && len(p.Roles) > 1 {
			roleStr += " (parallel)"
		}
		fmt.Fprintf(w, "roles: %s\n", roleStr)
		var actions []string
		for _, a := range p.Actions {
			for _, alias := range workflows.Owners(p.Roles, a) {
				actions = append(actions, "/"+alias+":"+a)
			}
		}
		fmt.Fprintf(w, "actions: %s\n", strings.Join(actions, " "))
		if p.QualityGate != "" {
			fmt.Fprintf(w, "quality_gate: %s\n", p.QualityGate)
		}
		if p.Output != "" {
			fmt.Fprintf(w, "output: %s\n", p.Output)
		}
	}

	if unowned := workflows.Unowned(wf); len(unowned) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "=== warnings ===")
		for _, ref := range unowned {
			fmt.Fprintf(w, "warning: phase %s action %q has no command in roles %s\n",
				ref.Phase, ref.Action, strings.Join(ref.Roles, ", "))
		}
	}
	return nil
}

// ContextData holds the fields of context output.
type ContextData struct {
	Name         string
	Description  string
	TechStack    string
	DefaultRole  string
	EnabledRoles []string
	ClaudeMD     string
	ClaudeMDOK   bool
}

// WriteContext writes the stable key: value context summary.
func WriteContext(w io.Writer, data ContextData) error {
	lines := []struct {
		key   string
		value string
	}{
		{"project", data.Name},
		{"description", data.Description},
		{"tech_stack", data.TechStack},
		{"default_role", data.DefaultRole},
		{"enabled_roles", strings.Join(data.EnabledRoles, ", ")},
		{"claude_md", data.ClaudeMD},
		{"claude_md_present", yesNo(data.ClaudeMDOK)},
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "%s: %s\n", line.key, line.value); err != nil {
			return err
		}
	}
	return nil
}
