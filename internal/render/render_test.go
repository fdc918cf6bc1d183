package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/workflows"
)

func init() {
	color.NoColor = true
}

func TestWriteRoleTable(t *testing.T) {
	var buf bytes.Buffer
	err := WriteRoleTable(&buf, []RoleRow{
		{Alias: "pm", ID: "product-manager", Name: "Product Manager", Enabled: true, Default: true},
		{Alias: "da", ID: "data-analyst", Name: "Data Analyst"},
	})
	require.NoError(t, err)

	want := "ALIAS  ID               NAME             ENABLED\n" +
		"pm     product-manager  Product Manager  yes (default)\n" +
		"da     data-analyst     Data Analyst     no\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteTable_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkflowTable(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestWriteWorkflowTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteWorkflowTable(&buf, []WorkflowRow{
		{ID: "fix", Name: "Bug Fix", Roles: []string{"test", "dev", "docs"}},
	}))
	assert.Equal(t, "ID   NAME     ROLES\nfix  Bug Fix  test, dev, docs\n", buf.String())
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON[RoleSummary](&buf, nil))

	var env map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &env))
	assert.Equal(t, "1.0", env["schema_version"])
	assert.Equal(t, []any{}, env["data"])

	buf.Reset()
	require.NoError(t, WriteJSON(&buf, []WorkflowSummary{{ID: "fix", Roles: []string{"dev"}, Phases: 4}}))
	assert.Contains(t, buf.String(), "\"id\": \"fix\"")
	assert.Contains(t, buf.String(), "\"phases\": 4")
}

func TestWriteRoleInfo(t *testing.T) {
	r, _ := roles.ByAlias("da")
	var buf bytes.Buffer
	require.NoError(t, WriteRoleInfo(&buf, r, true, false))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "=== role ===\nid: data-analyst\nalias: da\n"))
	assert.Contains(t, out, "enabled: yes\ndefault: no\n")
	assert.Contains(t, out, "- A/B test analysis\n")
	assert.Contains(t, out, "/da:explore <dataset>    Exploratory analysis\n")
}

func TestWriteWorkflowInfo(t *testing.T) {
	wf, _ := workflows.ByID("security")
	var buf bytes.Buffer
	require.NoError(t, WriteWorkflowInfo(&buf, wf, false))

	out := buf.String()
	assert.Contains(t, out, "roles: sec → fe → be → ops → test → docs\n")
	assert.Contains(t, out, "=== phase 1: Assessment ===\nroles: sec\nactions: /sec:audit /sec:scan\noutput: reports/\n")
	assert.Contains(t, out, "roles: fe + be + ops (parallel)\nactions: \n")
	assert.Contains(t, out, "warning: phase Remediation action \"fix\" has no command in roles fe, be, ops\n")
}

func TestWriteChecks(t *testing.T) {
	checks := []Check{
		{Name: "initialized", Status: StatusOK, Detail: ".tramy/config.yaml"},
		{Name: "claude cli", Status: StatusWarn, Detail: "not found on PATH"},
		{Name: "go runtime", Status: StatusInfo},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteChecks(&buf, checks))
	assert.Equal(t,
		"ok   initialized: .tramy/config.yaml\nwarn claude cli: not found on PATH\ninfo go runtime\n",
		buf.String())
	assert.False(t, Failed(checks))
	assert.True(t, Failed(append(checks, Check{Name: "x", Status: StatusFail})))
}

func TestWriteContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteContext(&buf, ContextData{
		Name:         "shop",
		TechStack:    "go",
		DefaultRole:  "developer",
		EnabledRoles: []string{"developer", "tester"},
		ClaudeMD:     "CLAUDE.md",
		ClaudeMDOK:   true,
	}))
	assert.Equal(t, "project: shop\ndescription: \ntech_stack: go\ndefault_role: developer\n"+
		"enabled_roles: developer, tester\nclaude_md: CLAUDE.md\nclaude_md_present: yes\n", buf.String())
}
