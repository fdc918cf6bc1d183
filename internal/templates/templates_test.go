package templates

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramy-dev/tramy/internal/config"
	"github.com/tramy-dev/tramy/internal/roles"
	"github.com/tramy-dev/tramy/internal/scanner"
	"github.com/tramy-dev/tramy/internal/workflows"
)

func TestCommandRecords_AllRoles(t *testing.T) {
	recs, err := CommandRecords(roles.All())
	require.NoError(t, err)
	require.Len(t, recs, 84)

	seen := map[string]bool{}
	for _, r := range recs {
		assert.False(t, seen[r.Path], "duplicate path %s", r.Path)
		seen[r.Path] = true
		assert.NotEmpty(t, r.RoleID)
		assert.Contains(t, r.Content, "$ARGUMENTS")
		assert.True(t, strings.HasPrefix(r.Content, "---\ndescription: "), r.Path)
	}
	assert.True(t, seen["da/explore.md"])
	assert.True(t, seen["ops/k8s.md"])
}

func TestCommandRecords_Body(t *testing.T) {
	da, _ := roles.ByAlias("da")
	recs, err := CommandRecords([]roles.Role{da})
	require.NoError(t, err)
	require.Len(t, recs, 7)

	explore := recs[0]
	assert.Equal(t, "da/explore.md", explore.Path)
	assert.Equal(t, "data-analyst", explore.RoleID)
	assert.True(t, strings.HasPrefix(explore.Content,
		"---\ndescription: Exploratory analysis\nargument-hint: <dataset>\n---\n\n# Exploratory analysis\n\nExploratory analysis for: $ARGUMENTS\n"))
	assert.Contains(t, explore.Content, "You are acting as a **Data Analyst**.")
	assert.Contains(t, explore.Content, "- Statistical analysis\n")
	assert.Contains(t, explore.Content, "`analysis` output directory")

	pm, _ := roles.ByAlias("pm")
	recs, err = CommandRecords([]roles.Role{pm})
	require.NoError(t, err)
	var roadmap Record
	for _, r := range recs {
		if r.Path == "pm/roadmap.md" {
			roadmap = r
		}
	}
	assert.True(t, strings.HasPrefix(roadmap.Content, "---\ndescription: Create/update roadmap\n---\n"))
	assert.Contains(t, roadmap.Content, "Additional context: $ARGUMENTS")
}

func TestAgentRecords(t *testing.T) {
	recs, err := AgentRecords(roles.ByIDs([]string{"architect", "tester"}))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	arch := recs[0]
	assert.Equal(t, "architect.md", arch.Path)
	assert.Equal(t, "architect", arch.RoleID)
	assert.True(t, strings.HasPrefix(arch.Content,
		"---\nname: architect\ndescription: Designs system architecture and technical strategy\ntools: Read, Write, Glob, Grep, WebFetch\n---\n"))
	assert.Contains(t, arch.Content, "- `/arch:adr <decision>`: Create ADR\n")
	assert.True(t, strings.HasSuffix(arch.Content, "- `/arch:diagram <system>`: Create architecture diagram\n"))
}

func TestWorkflowRecords(t *testing.T) {
	recs := WorkflowRecords(workflows.All())
	require.Len(t, recs, 15)
	assert.Equal(t, "workflow/feature.md", recs[0].Path)
	assert.Empty(t, recs[0].RoleID)

	fix, _ := workflows.ByID("fix")
	assert.Equal(t, workflows.Render(fix), WorkflowRecords([]workflows.Workflow{fix})[0].Content)
}

func TestEnabledWorkflows(t *testing.T) {
	assert.Len(t, EnabledWorkflows(roles.IDs()), 15)
	assert.Empty(t, EnabledWorkflows([]string{"data-analyst"}))

	got := EnabledWorkflows([]string{"tester", "developer", "technical-writer", "architect"})
	var ids []string
	for _, w := range got {
		ids = append(ids, w.ID)
	}
	assert.Equal(t, []string{"fix", "tech-debt"}, ids)
}

func TestClaudeMD(t *testing.T) {
	info := scanner.ProjectInfo{
		Name:        "shop",
		Description: "An online shop",
		TechStack:   []string{"docker", "go", "gin"},
		Structure:   "shop/\n└── main.go",
	}
	cfg := config.ForRoles([]string{"tester", "developer", "technical-writer"}, "developer")

	doc, err := ClaudeMD(info, cfg)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(doc, "# shop\n\nAn online shop\n\n## Project Overview\n"))
	assert.Contains(t, doc, "- **Tech Stack**: go, gin, docker\n")
	assert.Contains(t, doc, "- **Default Role**: Developer (`dev`)\n")
	assert.Contains(t, doc, "```\nshop/\n└── main.go\n```\n")
	assert.Contains(t, doc, "### Tester (`test`)\n")
	assert.Contains(t, doc, "- `/dev:fix <bug>`: Fix bug\n")
	assert.NotContains(t, doc, "/pm:")
	assert.Contains(t, doc, "## Workflows\n\n- `/workflow:fix`: Investigate and fix bugs\n\n## Output Directories")
	assert.Contains(t, doc, "- Notebooks: `notebooks/`\n")

	again, err := ClaudeMD(info, cfg)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestClaudeMD_NoWorkflowsNoDescription(t *testing.T) {
	doc, err := ClaudeMD(scanner.ProjectInfo{Name: "empty", Structure: "empty/"}, config.ForRoles([]string{"ux-designer"}, ""))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(doc, "# empty\n\n## Project Overview\n"))
	assert.Contains(t, doc, "- **Tech Stack**: Unknown\n")
	assert.Contains(t, doc, "No workflow has all of its roles enabled.\n")
}
