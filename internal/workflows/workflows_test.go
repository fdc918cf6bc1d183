package workflows

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tramy-dev/tramy/internal/roles"
)

const fixRunbook = "# Bug Fix Workflow\n" +
	"\n" +
	"Investigate and fix bugs: $ARGUMENTS\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Workflow Overview\n" +
	"\n" +
	"```\n" +
	"test → dev → docs\n" +
	"```\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Phase 1: Investigation\n" +
	"\n" +
	"**Role**: test\n" +
	"\n" +
	"**Actions**:\n" +
	"- /test:report\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Phase 2: Fix\n" +
	"\n" +
	"**Role**: dev\n" +
	"\n" +
	"**Actions**:\n" +
	"- /dev:fix\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Phase 3: Verification\n" +
	"\n" +
	"**Role**: test\n" +
	"\n" +
	"**Actions**:\n" +
	"- /test:run\n" +
	"\n" +
	"**QUALITY GATE**: All tests pass\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Phase 4: Documentation\n" +
	"\n" +
	"**Role**: docs\n" +
	"\n" +
	"**Actions**:\n" +
	"- /docs:changelog\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Completion Checklist\n" +
	"\n" +
	"- [ ] All phases completed\n" +
	"- [ ] All quality gates passed\n" +
	"- [ ] Documentation updated\n" +
	"- [ ] Changes deployed/merged\n" +
	"\n" +
	"---\n" +
	"\n" +
	"## Notes\n" +
	"\n" +
	"This workflow coordinates the following roles: test, dev, docs.\n" +
	"\n" +
	"Execute each phase in order, ensuring quality gates are met before proceeding.\n"

func TestRender_Fix(t *testing.T) {
	w, ok := ByID("fix")
	require.True(t, ok)
	assert.Equal(t, fixRunbook, Render(w))
}

func TestRender_Deterministic(t *testing.T) {
	for _, w := range All() {
		t.Run(w.ID, func(t *testing.T) {
			assert.Equal(t, Render(w), Render(w))
		})
	}
}

func TestRender_ActionsUnderOwningRole(t *testing.T) {
	w, _ := ByID("feature")
	doc := Render(w)
	assert.Contains(t, doc, "**Role**: fe + be (PARALLEL)")
	assert.Contains(t, doc, "- /fe:component\n")
	assert.Contains(t, doc, "- /be:api\n")
	assert.NotContains(t, doc, "/fe:api")

	w, _ = ByID("release")
	doc = Render(w)
	assert.Contains(t, doc, "- /dev:review\n- /sec:review\n- /test:run\n- /sec:scan\n")

	w, _ = ByID("performance")
	doc = Render(w)
	assert.Contains(t, doc, "- /fe:optimize\n- /be:optimize\n- /de:optimize\n")
}

func TestRender_UnownedAction(t *testing.T) {
	w, _ := ByID("security")
	doc := Render(w)
	assert.Contains(t, doc, "- fix (fe + be + ops)\n")
	assert.NotContains(t, doc, "/fe:fix")
}

func TestRender_Banner(t *testing.T) {
	w, _ := ByID("abtest")
	assert.Equal(t, []string{"pm", "da", "dev", "docs"}, w.Roles())
	assert.True(t, strings.Contains(Render(w), "```\npm → da → dev → docs\n```"))
}

func TestUnowned(t *testing.T) {
	got := map[string][]string{}
	for _, w := range All() {
		for _, ref := range Unowned(w) {
			got[w.ID] = append(got[w.ID], ref.Phase+":"+ref.Action)
		}
	}
	assert.Equal(t, map[string][]string{
		"security": {"Remediation:fix"},
		"incident": {"Resolution:fix"},
	}, got)
}

func TestCatalog_RolesExist(t *testing.T) {
	require.Len(t, All(), 15)
	for _, w := range All() {
		ids, unknown := w.RoleIDs()
		assert.Empty(t, unknown, "workflow %s", w.ID)
		assert.NotEmpty(t, ids)
		for _, p := range w.Phases {
			assert.NotEmpty(t, p.Roles)
			assert.NotEmpty(t, p.Actions)
			for _, alias := range p.Roles {
				_, ok := roles.ByAlias(alias)
				assert.True(t, ok, "workflow %s phase %s: unknown role %s", w.ID, p.Name, alias)
			}
		}
	}
}

func TestRolesEnabled(t *testing.T) {
	w, _ := ByID("fix")
	assert.True(t, w.RolesEnabled([]string{"tester", "developer", "technical-writer"}))
	assert.True(t, w.RolesEnabled(roles.IDs()))
	assert.False(t, w.RolesEnabled([]string{"tester", "developer"}))
	assert.False(t, w.RolesEnabled(nil))
}

func TestByID_Unknown(t *testing.T) {
	_, ok := ByID("nope")
	assert.False(t, ok)
}

func TestSubstitute(t *testing.T) {
	w, _ := ByID("fix")
	doc := Substitute(Render(w), "login times out")
	assert.Contains(t, doc, "Investigate and fix bugs: login times out\n")
	assert.NotContains(t, doc, ArgumentsPlaceholder)
}

func TestByIDs_CatalogOrder(t *testing.T) {
	got := ByIDs([]string{"compliance", "nope", "fix"})
	require.Len(t, got, 2)
	assert.Equal(t, "fix", got[0].ID)
	assert.Equal(t, "compliance", got[1].ID)
}
