// Package workflows holds the multi-role workflow catalog and renders each
// workflow into a phase-by-phase Markdown runbook.
package workflows

import "slices"

// Phase is one step of a workflow. Roles holds role aliases; Actions are
// command names expected in those roles' catalogs.
type Phase struct {
	Name        string
	Roles       []string
	Actions     []string
	Parallel    bool
	QualityGate string
	Output      string
}

// Workflow is an ordered, multi-role runbook definition.
type Workflow struct {
	ID          string
	Name        string
	Description string
	Phases      []Phase
}

func phase(name, role string, actions ...string) Phase {
	return Phase{Name: name, Roles: []string{role}, Actions: actions}
}

func parallel(name string, roles []string, actions ...string) Phase {
	return Phase{Name: name, Roles: roles, Actions: actions, Parallel: true}
}

func gated(p Phase, gate string) Phase {
	p.QualityGate = gate
	return p
}

func output(p Phase, out string) Phase {
	p.Output = out
	return p
}

var catalog = []Workflow{
	{
		ID:          "feature",
		Name:        "Feature Development",
		Description: "End-to-end feature development",
		Phases: []Phase{
			gated(output(phase("Requirements", "pm", "story"), "specs/"), "Requirements approved"),
			gated(phase("Design", "arch", "design"), "Architecture approved"),
			parallel("Implementation", []string{"fe", "be"}, "component", "api"),
			gated(phase("Testing", "test", "unit", "integration"), ">80% coverage"),
			output(phase("Documentation", "docs", "guide", "changelog"), "docs/"),
			phase("Deployment", "ops", "deploy"),
		},
	},
	{
		ID:          "pipeline",
		Name:        "Data Pipeline",
		Description: "Create data pipeline from source to target",
		Phases: []Phase{
			phase("Requirements", "pm", "prd"),
			output(phase("Analysis", "da", "explore", "profile"), "analysis/"),
			gated(phase("Implementation", "de", "pipeline", "schema", "quality"), "Data quality checks pass"),
			phase("Validation", "test", "integration"),
			phase("Documentation", "docs", "runbook"),
		},
	},
	{
		ID:          "api",
		Name:        "API Development",
		Description: "Design and implement API",
		Phases: []Phase{
			phase("Requirements", "pm", "prd"),
			gated(phase("Design", "arch", "design"), "API contract reviewed"),
			phase("Implementation", "be", "api"),
			phase("Testing", "test", "unit", "integration", "performance"),
			gated(phase("Security", "sec", "review", "scan"), "No high severity findings"),
			phase("Documentation", "docs", "api"),
		},
	},
	{
		ID:          "fix",
		Name:        "Bug Fix",
		Description: "Investigate and fix bugs",
		Phases: []Phase{
			phase("Investigation", "test", "report"),
			phase("Fix", "dev", "fix"),
			gated(phase("Verification", "test", "run"), "All tests pass"),
			phase("Documentation", "docs", "changelog"),
		},
	},
	{
		ID:          "security",
		Name:        "Security Audit",
		Description: "Comprehensive security audit",
		Phases: []Phase{
			output(phase("Assessment", "sec", "audit", "scan"), "reports/"),
			parallel("Remediation", []string{"fe", "be", "ops"}, "fix"),
			phase("Verification", "test", "e2e"),
			phase("Documentation", "docs", "runbook"),
		},
	},
	{
		ID:          "release",
		Name:        "Release",
		Description: "Release workflow",
		Phases: []Phase{
			phase("Planning", "pm", "sprint"),
			parallel("Preparation", []string{"dev", "test", "sec"}, "review", "run", "scan"),
			gated(phase("Testing", "test", "e2e", "performance"), "No regressions"),
			phase("Deployment", "ops", "deploy"),
			phase("Documentation", "docs", "changelog"),
		},
	},
	{
		ID:          "analytics",
		Name:        "Analytics Report",
		Description: "Create analytics report",
		Phases: []Phase{
			phase("Requirements", "pm", "kpi"),
			output(phase("Analysis", "da", "explore", "visualize", "report"), "reports/"),
			phase("Documentation", "docs", "guide"),
		},
	},
	{
		ID:          "dashboard",
		Name:        "Dashboard Development",
		Description: "Create analytics dashboard",
		Phases: []Phase{
			phase("Requirements", "pm", "prd"),
			phase("Analysis", "da", "dashboard"),
			phase("Frontend", "fe", "component"),
			phase("Backend", "de", "pipeline"),
			phase("Testing", "test", "integration"),
		},
	},
	{
		ID:          "onboarding",
		Name:        "Onboarding Documentation",
		Description: "Create developer onboarding docs",
		Phases: []Phase{
			phase("Planning", "pm", "prd"),
			parallel("Content", []string{"arch", "ops"}, "design", "docker"),
			output(phase("Documentation", "docs", "readme", "guide", "tutorial"), "docs/"),
		},
	},
	{
		ID:          "tech-debt",
		Name:        "Tech Debt Cleanup",
		Description: "Address technical debt",
		Phases: []Phase{
			phase("Assessment", "arch", "review"),
			phase("Implementation", "dev", "refactor", "debt"),
			phase("Testing", "test", "unit", "integration"),
			phase("Documentation", "docs", "changelog"),
		},
	},
	{
		ID:          "performance",
		Name:        "Performance Optimization",
		Description: "Optimize system performance",
		Phases: []Phase{
			phase("Analysis", "da", "profile"),
			parallel("Optimization", []string{"fe", "be", "de"}, "optimize"),
			gated(phase("Verification", "test", "performance"), "Targets met"),
		},
	},
	{
		ID:          "migrate",
		Name:        "Migration",
		Description: "System/data migration",
		Phases: []Phase{
			phase("Planning", "arch", "design", "adr"),
			gated(phase("Data", "de", "migrate", "quality"), "Row counts reconcile"),
			phase("Code", "dev", "refactor"),
			phase("Testing", "test", "integration", "e2e"),
			phase("Deployment", "ops", "deploy"),
		},
	},
	{
		ID:          "abtest",
		Name:        "A/B Test",
		Description: "Run A/B test experiment",
		Phases: []Phase{
			phase("Design", "pm", "prd"),
			phase("Planning", "da", "abtest"),
			phase("Implementation", "dev", "feature"),
			output(phase("Analysis", "da", "report"), "reports/"),
			phase("Documentation", "docs", "guide"),
		},
	},
	{
		ID:          "incident",
		Name:        "Incident Response",
		Description: "Respond to production incident",
		Phases: []Phase{
			phase("Triage", "ops", "monitor"),
			parallel("Resolution", []string{"sec", "be"}, "incident", "fix"),
			phase("Verification", "test", "e2e"),
			phase("Documentation", "docs", "runbook"),
		},
	},
	{
		ID:          "compliance",
		Name:        "Compliance Audit",
		Description: "Audit for compliance standards",
		Phases: []Phase{
			output(phase("Assessment", "sec", "compliance", "audit"), "reports/"),
			parallel("Remediation", []string{"dev", "ops", "de"}, "fix"),
			phase("Documentation", "docs", "guide"),
		},
	},
}

// All returns every workflow in catalog order.
func All() []Workflow {
	out := make([]Workflow, len(catalog))
	for i, w := range catalog {
		out[i] = w.clone()
	}
	return out
}

// ByID returns the workflow with the given id.
func ByID(id string) (Workflow, bool) {
	for _, w := range catalog {
		if w.ID == id {
			return w.clone(), true
		}
	}
	return Workflow{}, false
}

// ByIDs returns the workflows with the given ids in catalog order. Unknown
// ids are dropped.
func ByIDs(ids []string) []Workflow {
	var out []Workflow
	for _, w := range catalog {
		if slices.Contains(ids, w.ID) {
			out = append(out, w.clone())
		}
	}
	return out
}

// IDs returns every workflow id in catalog order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, w := range catalog {
		out[i] = w.ID
	}
	return out
}

// Roles returns the distinct role aliases of all phases, in first-appearance order.
func (w Workflow) Roles() []string {
	var out []string
	for _, p := range w.Phases {
		for _, r := range p.Roles {
			if !slices.Contains(out, r) {
				out = append(out, r)
			}
		}
	}
	return out
}

func (w Workflow) clone() Workflow {
	phases := make([]Phase, len(w.Phases))
	for i, p := range w.Phases {
		p.Roles = slices.Clone(p.Roles)
		p.Actions = slices.Clone(p.Actions)
		phases[i] = p
	}
	w.Phases = phases
	return w
}
