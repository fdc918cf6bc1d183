package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/errors"
	"github.com/tramy-dev/tramy/internal/fs"
	"github.com/tramy-dev/tramy/internal/paths"
	"github.com/tramy-dev/tramy/internal/render"
	"github.com/tramy-dev/tramy/internal/setupservice"
)

const testRoot = "/proj"

func init() {
	color.NoColor = true
}

// stubPrompter answers every question with answer and counts the questions.
type stubPrompter struct {
	answer bool
	asked  int
}

func (p *stubPrompter) Confirm(string) (bool, error) {
	p.asked++
	return p.answer, nil
}

func newProject(t *testing.T) afero.Fs {
	t.Helper()
	fsys := afero.NewMemMapFs()
	require.NoError(t, fsys.MkdirAll(filepath.Join(testRoot, "src"), 0o755))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(testRoot, "package.json"),
		[]byte(`{"name":"shop","description":"A small shop","dependencies":{"react":"^18.0.0"}}`), 0o644))
	require.NoError(t, afero.WriteFile(fsys, filepath.Join(testRoot, "src", "index.js"), []byte("export {}\n"), 0o644))
	return fsys
}

func runSetup(t *testing.T, fsys afero.Fs, opts SetupOpts) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	opts.Yes = true
	err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, &stubPrompter{}, testRoot, opts, &stdout, &stderr)
	require.NoError(t, err)
	return stdout.String()
}

func countFiles(t *testing.T, fsys afero.Fs, dir string) int {
	t.Helper()
	n, err := countMarkdown(fsys, dir)
	require.NoError(t, err)
	return n
}

func assertCode(t *testing.T, err error, code errors.Code) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, errors.GetCode(err), "error: %v", err)
}

func TestSetup_DefaultWritesEverything(t *testing.T) {
	fsys := newProject(t)
	out := runSetup(t, fsys, SetupOpts{})

	assert.Contains(t, out, "project: shop\n")
	assert.Contains(t, out, "default_role: developer\n")
	assert.Contains(t, out, "commands_written: 84\n")
	assert.Contains(t, out, "agents_written: 12\n")
	assert.Contains(t, out, "workflows_written: 15\n")
	assert.Contains(t, out, "settings: created\n")
	assert.True(t, strings.HasSuffix(out, "setup complete\n"))

	layout := paths.New(testRoot)
	assert.Equal(t, 84+15, countFiles(t, fsys, layout.CommandsDir()))
	assert.Equal(t, 12, countFiles(t, fsys, layout.AgentsDir()))

	cfg, err := config.Load(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, config.Default().EnabledRoles, cfg.EnabledRoles)
	assert.Equal(t, "shop", cfg.Project.Name)
}

func TestSetup_SingleRole(t *testing.T) {
	fsys := newProject(t)
	out := runSetup(t, fsys, SetupOpts{Role: "da"})

	assert.Contains(t, out, "roles: data-analyst\n")
	assert.Contains(t, out, "commands_written: 7\n")
	assert.Contains(t, out, "workflows_written: 0\n")
	assert.Contains(t, out, "output_dirs_created: 5\n")

	layout := paths.New(testRoot)
	assert.Equal(t, 7, countFiles(t, fsys, layout.CommandsDir()))
	for _, alias := range []string{"pm", "dev", "docs"} {
		ok, _ := fs.Exists(fsys, filepath.Join(layout.CommandsDir(), alias))
		assert.False(t, ok, "commands for %s should not exist", alias)
	}
	ok, _ := fs.Exists(fsys, filepath.Join(testRoot, "analysis", ".gitkeep"))
	assert.True(t, ok)
}

func TestSetup_DeclinedReinitTouchesNothing(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{})

	claudeMD := paths.New(testRoot).ClaudeMD()
	require.NoError(t, afero.WriteFile(fsys, claudeMD, []byte("custom\n"), 0o644))
	before, err := afero.ReadFile(fsys, paths.New(testRoot).ConfigFile())
	require.NoError(t, err)

	prompter := &stubPrompter{answer: false}
	var stdout, stderr bytes.Buffer
	err = Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, prompter, testRoot,
		SetupOpts{Role: "pm"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 1, prompter.asked)
	assert.Equal(t, "setup cancelled\n", stdout.String())
	got, _ := afero.ReadFile(fsys, claudeMD)
	assert.Equal(t, "custom\n", string(got))
	after, _ := afero.ReadFile(fsys, paths.New(testRoot).ConfigFile())
	assert.Equal(t, before, after)
}

func TestSetup_ConfirmedReinitPrunes(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{})

	prompter := &stubPrompter{answer: true}
	var stdout, stderr bytes.Buffer
	err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, prompter, testRoot,
		SetupOpts{Roles: []string{"pm,da"}}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Equal(t, 1, prompter.asked)
	assert.Contains(t, stdout.String(), "roles: product-manager, data-analyst\n")
	assert.Contains(t, stdout.String(), "pruned: ")
	assert.Equal(t, 14, countFiles(t, fsys, paths.New(testRoot).CommandsDir()))
}

func TestSetup_RealDisk(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "go.mod"), []byte("module example.com/svc\n\ngo 1.22\n"), 0o644))

	fsys := fs.NewRealFS()
	var stdout, stderr bytes.Buffer
	err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, &stubPrompter{}, root,
		SetupOpts{Role: "dev"}, &stdout, &stderr)
	require.NoError(t, err)

	assert.Contains(t, stdout.String(), "project: svc\n")
	assert.Contains(t, stdout.String(), "tech_stack: go\n")
	_, err = os.Stat(filepath.Join(root, ".claude", "commands", "dev", "fix.md"))
	assert.NoError(t, err)
	gitignore, err := os.ReadFile(filepath.Join(root, ".gitignore"))
	require.NoError(t, err)
	assert.Contains(t, string(gitignore), ".claude/settings.local.json")
}

func TestSetup_RoleErrors(t *testing.T) {
	tests := []struct {
		name string
		opts SetupOpts
		code errors.Code
	}{
		{"unknown role", SetupOpts{Role: "wizard"}, errors.EUnknownRole},
		{"unknown in set", SetupOpts{Roles: []string{"pm", "ghost"}}, errors.EUnknownRole},
		{"unknown default", SetupOpts{DefaultRole: "ghost"}, errors.EUnknownRole},
		{"default outside set", SetupOpts{Roles: []string{"pm,da"}, DefaultRole: "dev"}, errors.ERoleNotEnabled},
		{"role and roles", SetupOpts{Role: "pm", Roles: []string{"da"}}, errors.EUsage},
		{"conflicting default", SetupOpts{Role: "pm", DefaultRole: "da"}, errors.EUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := newProject(t)
			var stdout, stderr bytes.Buffer
			err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, &stubPrompter{}, testRoot,
				tt.opts, &stdout, &stderr)
			assertCode(t, err, tt.code)

			ok, _ := fs.Exists(fsys, paths.New(testRoot).ConfigFile())
			assert.False(t, ok, "nothing is written on a role error")
		})
	}
}

func TestSetup_UnknownRoleHint(t *testing.T) {
	fsys := newProject(t)
	var stdout, stderr bytes.Buffer
	err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, &stubPrompter{}, testRoot,
		SetupOpts{Role: "wizard"}, &stdout, &stderr)
	te, ok := errors.AsTramyError(err)
	require.True(t, ok)
	assert.Equal(t, "run 'tramy role list'", te.Hint())
}

func TestStdinPrompter(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"n\n", false},
		{"\n", false},
		{"", false},
		{"yep\n", false},
	}
	for _, tt := range tests {
		var out bytes.Buffer
		got, err := NewStdinPrompter(strings.NewReader(tt.in), &out).Confirm("Continue? [y/N]")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
		assert.Equal(t, "Continue? [y/N] ", out.String())
	}
}

func TestList(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	assertCode(t, List(fsys, testRoot, &out), errors.ENotInitialized)

	runSetup(t, fsys, SetupOpts{Roles: []string{"da", "pm"}})
	out.Reset()
	require.NoError(t, List(fsys, testRoot, &out))

	s := out.String()
	assert.Contains(t, s, "Product Manager (pm) [default]\n")
	assert.Contains(t, s, "Data Analyst (da)\n")
	assert.Contains(t, s, "/da:explore <dataset>")
	assert.NotContains(t, s, "/dev:")
	assert.NotContains(t, s, "Workflows")
	assert.Less(t, strings.Index(s, "Product Manager"), strings.Index(s, "Data Analyst"))
}

func TestList_Workflows(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{Roles: []string{"test", "dev", "docs"}})

	var out bytes.Buffer
	require.NoError(t, List(fsys, testRoot, &out))
	assert.Contains(t, out.String(), "Workflows\n")
	assert.Contains(t, out.String(), "/workflow:fix")
	assert.NotContains(t, out.String(), "/workflow:feature")
}

func TestRoleList_Uninitialized(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	require.NoError(t, RoleList(fsys, testRoot, ListOpts{}, &out))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 13)
	assert.True(t, strings.HasPrefix(lines[0], "ALIAS"))
	assert.NotContains(t, out.String(), "yes")
}

func TestRoleList_JSON(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{})

	var out bytes.Buffer
	require.NoError(t, RoleList(fsys, testRoot, ListOpts{JSON: true}, &out))

	var env render.JSONEnvelope[render.RoleSummary]
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	assert.Equal(t, render.JSONSchemaVersion, env.SchemaVersion)
	require.Len(t, env.Data, 12)
	for _, r := range env.Data {
		assert.True(t, r.Enabled)
		assert.Equal(t, r.ID == "developer", r.Default, r.ID)
		assert.Len(t, r.Commands, 7)
	}
}

func TestRoleInfo(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	require.NoError(t, RoleInfo(fsys, testRoot, "da", &out))
	assert.Contains(t, out.String(), "id: data-analyst\n")
	assert.Contains(t, out.String(), "enabled: no\n")

	assertCode(t, RoleInfo(fsys, testRoot, "wizard", &out), errors.EUnknownRole)
}

func TestRoleSwitch(t *testing.T) {
	fsys := newProject(t)
	ctx := context.Background()
	var out bytes.Buffer
	assertCode(t, RoleSwitch(ctx, fsys, testRoot, "da", &out), errors.ENotInitialized)

	runSetup(t, fsys, SetupOpts{})
	out.Reset()
	require.NoError(t, RoleSwitch(ctx, fsys, testRoot, "da", &out))
	assert.Equal(t, "default_role: data-analyst\nprevious: developer\nclaude_md: updated\n", out.String())

	cfg, err := config.Load(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, "data-analyst", cfg.DefaultRole)
	assert.Len(t, cfg.EnabledRoles, 12)

	doc, err := afero.ReadFile(fsys, paths.New(testRoot).ClaudeMD())
	require.NoError(t, err)
	assert.Contains(t, string(doc), "**Default Role**: Data Analyst (`da`)")
}

func TestRoleSwitch_NotEnabled(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{Role: "pm"})

	var out bytes.Buffer
	assertCode(t, RoleSwitch(context.Background(), fsys, testRoot, "da", &out), errors.ERoleNotEnabled)
	assertCode(t, RoleSwitch(context.Background(), fsys, testRoot, "ghost", &out), errors.EUnknownRole)

	cfg, err := config.Load(fsys, testRoot)
	require.NoError(t, err)
	assert.Equal(t, "product-manager", cfg.DefaultRole)
}

func TestWorkflowList(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	require.NoError(t, WorkflowList(fsys, testRoot, ListOpts{}, &out))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 16)
	assert.True(t, strings.HasPrefix(lines[0], "ID"))
	assert.Contains(t, out.String(), "test, dev, docs")

	runSetup(t, fsys, SetupOpts{Roles: []string{"test,dev,docs"}})
	out.Reset()
	require.NoError(t, WorkflowList(fsys, testRoot, ListOpts{JSON: true}, &out))

	var env render.JSONEnvelope[render.WorkflowSummary]
	require.NoError(t, json.Unmarshal(out.Bytes(), &env))
	require.Len(t, env.Data, 15)
	enabled := map[string]bool{}
	for _, w := range env.Data {
		enabled[w.ID] = w.Enabled
	}
	assert.True(t, enabled["fix"])
	assert.False(t, enabled["feature"])
}

func TestWorkflowInfo(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	require.NoError(t, WorkflowInfo(fsys, testRoot, "security", &out))
	assert.Contains(t, out.String(), "invoke: /workflow:security\n")
	assert.Contains(t, out.String(), "=== warnings ===")

	assertCode(t, WorkflowInfo(fsys, testRoot, "nope", &out), errors.EUnknownWorkflow)
}

func TestWorkflowRun(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, WorkflowRun("fix", []string{"login", "times", "out"}, &out))
	assert.Contains(t, out.String(), "Investigate and fix bugs: login times out\n")
	assert.NotContains(t, out.String(), "$ARGUMENTS")

	err := WorkflowRun("nope", nil, &out)
	assertCode(t, err, errors.EUnknownWorkflow)
	te, _ := errors.AsTramyError(err)
	assert.Equal(t, "run 'tramy workflow list'", te.Hint())
}

func TestContext(t *testing.T) {
	fsys := newProject(t)
	var out bytes.Buffer
	assertCode(t, Context(fsys, testRoot, &out), errors.ENotInitialized)

	runSetup(t, fsys, SetupOpts{Role: "da"})
	out.Reset()
	require.NoError(t, Context(fsys, testRoot, &out))
	s := out.String()
	assert.Contains(t, s, "project: shop\n")
	assert.Contains(t, s, "description: A small shop\n")
	assert.Contains(t, s, "default_role: data-analyst\n")
	assert.Contains(t, s, "enabled_roles: data-analyst\n")
	assert.Contains(t, s, "claude_md: CLAUDE.md\n")
	assert.Contains(t, s, "claude_md_present: yes\n")
}

func TestContextUpdate_KeepsConfig(t *testing.T) {
	fsys := newProject(t)
	ctx := context.Background()
	var out bytes.Buffer
	assertCode(t, ContextUpdate(ctx, fsys, testRoot, &out), errors.ENotInitialized)

	runSetup(t, fsys, SetupOpts{})
	layout := paths.New(testRoot)
	before, err := afero.ReadFile(fsys, layout.ConfigFile())
	require.NoError(t, err)
	require.NoError(t, afero.WriteFile(fsys, layout.ClaudeMD(), []byte("stale\n"), 0o644))

	out.Reset()
	require.NoError(t, ContextUpdate(ctx, fsys, testRoot, &out))
	assert.Contains(t, out.String(), "project: shop\n")
	assert.Contains(t, out.String(), "claude_md: updated\n")

	doc, _ := afero.ReadFile(fsys, layout.ClaudeMD())
	assert.True(t, strings.HasPrefix(string(doc), "# shop\n"))
	after, _ := afero.ReadFile(fsys, layout.ConfigFile())
	assert.Equal(t, before, after)
}

func TestSetup_ProjectLocked(t *testing.T) {
	fsys := newProject(t)
	lockPath := paths.New(testRoot).LockFile()
	require.NoError(t, fsys.MkdirAll(filepath.Dir(lockPath), 0o755))
	holder := fmt.Sprintf(`{"pid":%d,"created_at":%q,"cmd":"setup"}`, os.Getpid(), time.Now().Format(time.RFC3339))
	require.NoError(t, afero.WriteFile(fsys, lockPath, []byte(holder), 0o600))

	var stdout, stderr bytes.Buffer
	err := Setup(context.Background(), setupservice.NewWithDeps(fsys), fsys, &stubPrompter{}, testRoot,
		SetupOpts{Yes: true}, &stdout, &stderr)
	assertCode(t, err, errors.EProjectLocked)

	ok, _ := fs.Exists(fsys, paths.New(testRoot).ConfigFile())
	assert.False(t, ok)
}

func TestSetup_ReleasesLock(t *testing.T) {
	fsys := newProject(t)
	runSetup(t, fsys, SetupOpts{})

	ok, _ := fs.Exists(fsys, paths.New(testRoot).LockFile())
	assert.False(t, ok)
}
