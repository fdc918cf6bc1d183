// Package templates renders the generated Markdown files: one command file
// per role command, one agent file per role, one runbook per workflow and
// the project CLAUDE.md.
package templates

import (
	"embed"
	"path"
	"strings"
	"text/template"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/scanner"
	"github.com/tramy-dev/tramy/internal/version"
	"github.com/tramy-dev/tramy/internal/workflows"
)

//go:embed tmpl/*.tmpl
var files embed.FS

var tmpl = template.Must(template.New("").Funcs(template.FuncMap{
	"join": strings.Join,
	"invocation": func(alias string, c roles.Command) string {
		return c.Invocation(alias)
	},
}).ParseFS(files, "tmpl/*.tmpl"))

// Record is one file to write. Path is slash-separated and relative to the
// directory the record set targets. RoleID is empty for role-independent
// records.
type Record struct {
	Path    string
	Content string
	RoleID  string
}

// outputKind maps roles to the output directory their commands write to.
var outputKind = map[string]string{
	"product-manager":   "specs",
	"data-analyst":      "analysis",
	"data-engineer":     "docs",
	"architect":         "docs",
	"tester":            "reports",
	"security-engineer": "reports",
	"technical-writer":  "docs",
	"ux-designer":       "specs",
}

type commandData struct {
	Role       roles.Role
	Command    roles.Command
	OutputHint string
}

// CommandRecords renders <alias>/<command>.md for every command of rs.
func CommandRecords(rs []roles.Role) ([]Record, error) {
	var out []Record
	for _, r := range rs {
		hint := "Apply changes in place, following the existing project layout."
		if kind, ok := outputKind[r.ID]; ok {
			hint = "Save results under the configured `" + kind + "` output directory (default `" + kind + "/`)."
		}
		for _, c := range r.Commands {
			body, err := execute("command.md.tmpl", commandData{Role: r, Command: c, OutputHint: hint})
			if err != nil {
				return nil, err
			}
			out = append(out, Record{
				Path:    CommandPath(r, c),
				Content: body,
				RoleID:  r.ID,
			})
		}
	}
	return out, nil
}

// CommandPath is the record path of command c of role r.
func CommandPath(r roles.Role, c roles.Command) string {
	return path.Join(r.Alias, c.Name+".md")
}

// AgentRecords renders <role-id>.md for every role of rs.
func AgentRecords(rs []roles.Role) ([]Record, error) {
	out := make([]Record, 0, len(rs))
	for _, r := range rs {
		body, err := execute("agent.md.tmpl", r)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{Path: r.ID + ".md", Content: body, RoleID: r.ID})
	}
	return out, nil
}

// WorkflowRecords renders workflow/<id>.md for every workflow of ws.
func WorkflowRecords(ws []workflows.Workflow) []Record {
	out := make([]Record, 0, len(ws))
	for _, w := range ws {
		out = append(out, Record{
			Path:    WorkflowPath(w.ID),
			Content: workflows.Render(w),
		})
	}
	return out
}

// WorkflowPath is the record path of workflow id.
func WorkflowPath(id string) string {
	return path.Join(paths.WorkflowNamespace, id+".md")
}

// EnabledWorkflows returns the workflows all of whose roles are in enabled.
func EnabledWorkflows(enabled []string) []workflows.Workflow {
	var out []workflows.Workflow
	for _, w := range workflows.All() {
		if w.RolesEnabled(enabled) {
			out = append(out, w)
		}
	}
	return out
}

type claudeData struct {
	Name        string
	Description string
	Stack       string
	Structure   string
	DefaultRole roles.Role
	Roles       []roles.Role
	Workflows   []workflows.Workflow
	Output      config.Output
	Version     string
}

// ClaudeMD renders the project context file from a scan and the config.
func ClaudeMD(info scanner.ProjectInfo, cfg config.Config) (string, error) {
	def, _ := roles.ByID(cfg.DefaultRole)
	return execute("claude.md.tmpl", claudeData{
		Name:        info.Name,
		Description: info.Description,
		Stack:       scanner.FormatTechStack(info.TechStack),
		Structure:   info.Structure,
		DefaultRole: def,
		Roles:       roles.ByIDs(cfg.EnabledRoles),
		Workflows:   EnabledWorkflows(cfg.EnabledRoles),
		Output:      cfg.Output,
		Version:     version.Version,
	})
}

func execute(name string, data any) (string, error) {
	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, name, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
