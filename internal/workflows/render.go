package workflows

import (
	"fmt"
	"strings"

	"github.com/tramy-dev/tramy/internal/roles"
)

// ArgumentsPlaceholder is substituted by the assistant with the user's input.
const ArgumentsPlaceholder = "$ARGUMENTS"

// ActionRef locates one action of one phase.
type ActionRef struct {
	Phase  string
	Action string
	Roles  []string
}

// Owners returns the aliases among roles whose command catalog contains
// action, in the given order. Unknown aliases are skipped.
func Owners(roleAliases []string, action string) []string {
	var out []string
	for _, alias := range roleAliases {
		r, ok := roles.ByAlias(alias)
		if ok && r.HasCommand(action) {
			out = append(out, alias)
		}
	}
	return out
}

// Unowned lists the actions of w that no role of their phase defines.
func Unowned(w Workflow) []ActionRef {
	var out []ActionRef
	for _, p := range w.Phases {
		for _, a := range p.Actions {
			if len(Owners(p.Roles, a)) == 0 {
				out = append(out, ActionRef{Phase: p.Name, Action: a, Roles: p.Roles})
			}
		}
	}
	return out
}

// RoleIDs maps the workflow's role aliases to role ids. Aliases missing from
// the role catalog are returned separately.
func (w Workflow) RoleIDs() (ids []string, unknown []string) {
	for _, alias := range w.Roles() {
		r, ok := roles.ByAlias(alias)
		if !ok {
			unknown = append(unknown, alias)
			continue
		}
		ids = append(ids, r.ID)
	}
	return ids, unknown
}

// RolesEnabled reports whether every role of w is in the enabled id set.
func (w Workflow) RolesEnabled(enabledIDs []string) bool {
	enabled := make(map[string]bool, len(enabledIDs))
	for _, id := range enabledIDs {
		enabled[id] = true
	}
	ids, unknown := w.RoleIDs()
	if len(unknown) > 0 {
		return false
	}
	for _, id := range ids {
		if !enabled[id] {
			return false
		}
	}
	return true
}

// Render assembles the Markdown runbook of w. The result depends only on w
// and the role catalog, so repeated calls are byte-identical.
//
// Each action is listed under every phase role that defines it. An action
// no phase role defines is listed as plain text with the phase roles.
func Render(w Workflow) string {
	var b strings.Builder
	banner := w.Roles()

	fmt.Fprintf(&b, "# %s Workflow\n\n", w.Name)
	fmt.Fprintf(&b, "%s: %s\n\n", w.Description, ArgumentsPlaceholder)
	b.WriteString("---\n\n## Workflow Overview\n\n```\n")
	b.WriteString(strings.Join(banner, " → "))
	b.WriteString("\n```\n\n---\n")

	sections := make([]string, len(w.Phases))
	for i, p := range w.Phases {
		sections[i] = renderPhase(i+1, p)
	}
	b.WriteString(strings.Join(sections, "\n---\n"))

	b.WriteString("\n---\n\n## Completion Checklist\n\n")
	b.WriteString("- [ ] All phases completed\n")
	b.WriteString("- [ ] All quality gates passed\n")
	b.WriteString("- [ ] Documentation updated\n")
	b.WriteString("- [ ] Changes deployed/merged\n")
	b.WriteString("\n---\n\n## Notes\n\n")
	fmt.Fprintf(&b, "This workflow coordinates the following roles: %s.\n\n", strings.Join(banner, ", "))
	b.WriteString("Execute each phase in order, ensuring quality gates are met before proceeding.\n")

	return b.String()
}

func renderPhase(n int, p Phase) string {
	var b strings.Builder

	roleStr := strings.Join(p.Roles, " + ")
	if len(p.Roles) > 1 && p.Parallel {
		roleStr += " (PARALLEL)"
	}

	fmt.Fprintf(&b, "\n## Phase %d: %s\n\n", n, p.Name)
	fmt.Fprintf(&b, "**Role**: %s\n\n", roleStr)
	b.WriteString("**Actions**:\n")
	for _, a := range p.Actions {
		owners := Owners(p.Roles, a)
		if len(owners) == 0 {
			fmt.Fprintf(&b, "- %s (%s)\n", a, strings.Join(p.Roles, " + "))
			continue
		}
		for _, alias := range owners {
			fmt.Fprintf(&b, "- /%s:%s\n", alias, a)
		}
	}

	if p.QualityGate != "" {
		fmt.Fprintf(&b, "\n**QUALITY GATE**: %s\n", p.QualityGate)
	}
	if p.Output != "" {
		fmt.Fprintf(&b, "\n**Output**: %s\n", p.Output)
	}
	return b.String()
}

// Substitute replaces the arguments placeholder in a rendered runbook.
func Substitute(doc, args string) string {
	return strings.ReplaceAll(doc, ArgumentsPlaceholder, args)
}
