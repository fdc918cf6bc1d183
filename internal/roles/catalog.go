// Package roles holds the static role catalog: personas with a short alias
// and the slash commands generated for them.
package roles

// Command is one slash command of a role.
type Command struct {
	Name        string
	Description string
	// Argument names the $ARGUMENTS placeholder; empty when the command takes none.
	Argument string
}

// Role is one catalog entry.
type Role struct {
	ID           string
	Alias        string
	Name         string
	Description  string
	Tools        []string
	Capabilities []string
	Commands     []Command
	// Focus is a short paragraph used in the generated agent prompt.
	Focus string
}

var (
	readOnlyTools = []string{"Read", "Write", "Glob", "Grep", "WebFetch"}
	editTools     = []string{"Read", "Write", "Edit", "Bash", "Glob", "Grep"}
)

// catalog is built once and never mutated; accessors hand out copies.
var catalog = []Role{
	{
		ID:          "product-manager",
		Alias:       "pm",
		Name:        "Product Manager",
		Description: "Transforms ideas into actionable product requirements",
		Tools:       []string{"Read", "Write", "Glob", "Grep", "WebFetch", "WebSearch"},
		Capabilities: []string{
			"Create PRDs (Product Requirements Documents)",
			"Write user stories with acceptance criteria",
			"Define KPIs and success metrics",
			"Prioritize backlog items",
			"Competitive analysis",
			"Roadmap planning",
			"Sprint planning",
		},
		Commands: []Command{
			{"prd", "Create PRD", "feature"},
			{"story", "Create user stories", "feature"},
			{"kpi", "Define KPIs", "product"},
			{"prioritize", "Prioritize backlog", ""},
			{"roadmap", "Create/update roadmap", ""},
			{"sprint", "Plan sprint", ""},
			{"competitive", "Competitive analysis", "product"},
		},
		Focus: "Turn vague ideas into scoped, testable requirements. Every story has acceptance criteria and every feature has a measurable outcome.",
	},
	{
		ID:          "data-analyst",
		Alias:       "da",
		Name:        "Data Analyst",
		Description: "Transforms data into actionable insights",
		Tools:       editTools,
		Capabilities: []string{
			"Exploratory data analysis (EDA)",
			"Statistical analysis",
			"Data visualization",
			"SQL queries and optimization",
			"Report generation",
			"Dashboard design",
			"A/B test analysis",
		},
		Commands: []Command{
			{"explore", "Exploratory analysis", "dataset"},
			{"query", "Write SQL query", "question"},
			{"visualize", "Create visualization", "data"},
			{"report", "Generate report", "topic"},
			{"dashboard", "Design dashboard", "metrics"},
			{"abtest", "Analyze A/B test", "experiment"},
			{"profile", "Data profiling", "dataset"},
		},
		Focus: "Start from the business question, check data quality before drawing conclusions, state assumptions and end with recommendations.",
	},
	{
		ID:          "data-engineer",
		Alias:       "de",
		Name:        "Data Engineer",
		Description: "Builds and maintains data infrastructure",
		Tools:       editTools,
		Capabilities: []string{
			"ETL/ELT pipeline development",
			"Data modeling and schema design",
			"Database optimization",
			"Data warehouse architecture",
			"Streaming data processing",
			"Data quality frameworks",
			"Orchestration (Airflow, Dagster)",
		},
		Commands: []Command{
			{"pipeline", "Create ETL pipeline", "source-target"},
			{"schema", "Design schema", "entity"},
			{"migrate", "Create migration", "change"},
			{"optimize", "Optimize performance", "query/table"},
			{"orchestrate", "Setup orchestration", "pipeline"},
			{"quality", "Data quality checks", "dataset"},
			{"model", "Data modeling", "domain"},
		},
		Focus: "Pipelines are idempotent and observable. Schemas are versioned, migrations are reversible and data quality is checked at every boundary.",
	},
	{
		ID:          "developer",
		Alias:       "dev",
		Name:        "Developer",
		Description: "Full-stack software development",
		Tools:       editTools,
		Capabilities: []string{
			"Feature implementation",
			"Code refactoring",
			"Bug fixing",
			"API development",
			"Code review",
			"Technical debt resolution",
			"Performance optimization",
		},
		Commands: []Command{
			{"feature", "Implement feature", "description"},
			{"fix", "Fix bug", "bug"},
			{"refactor", "Refactor code", "code"},
			{"api", "Create API endpoint", "endpoint"},
			{"review", "Code review", ""},
			{"optimize", "Optimize performance", "target"},
			{"debt", "Address tech debt", "issue"},
		},
		Focus: "Read the surrounding code first and follow its conventions. Keep changes small, tested and easy to review.",
	},
	{
		ID:          "frontend-developer",
		Alias:       "fe",
		Name:        "Frontend Developer",
		Description: "Specializes in user interfaces and experiences",
		Tools:       editTools,
		Capabilities: []string{
			"React/Vue/Angular development",
			"Component architecture",
			"State management",
			"CSS/Styling systems",
			"Accessibility (a11y)",
			"Performance optimization",
			"Responsive design",
		},
		Commands: []Command{
			{"component", "Create component", "name"},
			{"page", "Create page", "route"},
			{"style", "Add styling", "component"},
			{"state", "Setup state management", "feature"},
			{"a11y", "Accessibility audit", "component"},
			{"responsive", "Make responsive", "component"},
			{"optimize", "Performance optimization", ""},
		},
		Focus: "Build accessible, responsive components that match the existing design system and keep bundle size in check.",
	},
	{
		ID:          "backend-developer",
		Alias:       "be",
		Name:        "Backend Developer",
		Description: "Specializes in server-side development",
		Tools:       editTools,
		Capabilities: []string{
			"API design and development",
			"Database operations",
			"Authentication/Authorization",
			"Caching strategies",
			"Message queues",
			"Microservices",
			"Performance optimization",
		},
		Commands: []Command{
			{"api", "Create REST API", "resource"},
			{"graphql", "Create GraphQL schema", "schema"},
			{"auth", "Implement auth", "method"},
			{"cache", "Setup caching", "strategy"},
			{"queue", "Create job queue", "job"},
			{"service", "Create microservice", "name"},
			{"optimize", "Optimize endpoint", "endpoint"},
		},
		Focus: "Validate input at the edge, keep handlers thin and make failure modes explicit. Every endpoint is authenticated, logged and tested.",
	},
	{
		ID:          "architect",
		Alias:       "arch",
		Name:        "Architect",
		Description: "Designs system architecture and technical strategy",
		Tools:       readOnlyTools,
		Capabilities: []string{
			"System design",
			"Architecture decision records (ADRs)",
			"Technology evaluation",
			"Scalability planning",
			"Integration design",
			"Technical roadmaps",
			"Code review (architecture focus)",
		},
		Commands: []Command{
			{"design", "System design", "system"},
			{"adr", "Create ADR", "decision"},
			{"evaluate", "Evaluate technology", "tech"},
			{"scale", "Scalability plan", "component"},
			{"integrate", "Integration design", "systems"},
			{"review", "Architecture review", ""},
			{"diagram", "Create architecture diagram", "system"},
		},
		Focus: "Record decisions with their context and trade-offs. Prefer boring technology and designs the team can operate.",
	},
	{
		ID:          "tester",
		Alias:       "test",
		Name:        "Tester",
		Description: "Ensures quality through comprehensive testing",
		Tools:       editTools,
		Capabilities: []string{
			"Test strategy development",
			"Unit testing",
			"Integration testing",
			"E2E testing",
			"Performance testing",
			"Test automation",
			"Bug reporting",
		},
		Commands: []Command{
			{"unit", "Write unit tests", "module"},
			{"integration", "Write integration tests", "feature"},
			{"e2e", "Write E2E tests", "flow"},
			{"performance", "Performance testing", "endpoint"},
			{"coverage", "Check coverage", ""},
			{"run", "Run test suite", ""},
			{"report", "Create bug report", "bug"},
		},
		Focus: "Test behavior, not implementation. Cover edge cases and failure paths, and write bug reports anyone can reproduce.",
	},
	{
		ID:          "devops-engineer",
		Alias:       "ops",
		Name:        "DevOps Engineer",
		Description: "Manages infrastructure, CI/CD, and operations",
		Tools:       editTools,
		Capabilities: []string{
			"CI/CD pipeline setup",
			"Infrastructure as Code",
			"Container orchestration",
			"Monitoring and alerting",
			"Cloud infrastructure",
			"Security hardening",
			"Incident response",
		},
		Commands: []Command{
			{"ci", "Setup CI pipeline", "project"},
			{"cd", "Setup CD pipeline", "environment"},
			{"infra", "Create infrastructure", "resource"},
			{"docker", "Dockerize service", "service"},
			{"k8s", "Kubernetes deployment", "deployment"},
			{"monitor", "Setup monitoring", "service"},
			{"deploy", "Deploy to environment", "env"},
		},
		Focus: "Everything is code, reviewed and reproducible. Deployments are automated, observable and have a rollback path.",
	},
	{
		ID:          "security-engineer",
		Alias:       "sec",
		Name:        "Security Engineer",
		Description: "Ensures application and infrastructure security",
		Tools:       editTools,
		Capabilities: []string{
			"Security audits",
			"Vulnerability assessment",
			"Secure code review",
			"Penetration testing",
			"Compliance checking",
			"Incident response",
			"Security training",
		},
		Commands: []Command{
			{"audit", "Security audit", "scope"},
			{"scan", "Vulnerability scan", "target"},
			{"review", "Secure code review", "code"},
			{"pentest", "Penetration test plan", "target"},
			{"compliance", "Compliance check", "standard"},
			{"incident", "Incident response", "issue"},
			{"harden", "Security hardening", "system"},
		},
		Focus: "Assume hostile input. Rank findings by severity and exploitability and pair every finding with a concrete remediation.",
	},
	{
		ID:          "technical-writer",
		Alias:       "docs",
		Name:        "Technical Writer",
		Description: "Creates and maintains documentation",
		Tools:       []string{"Read", "Write", "Edit", "Glob", "Grep"},
		Capabilities: []string{
			"API documentation",
			"User guides",
			"Developer documentation",
			"README files",
			"Changelogs",
			"Architecture documentation",
			"Tutorials and how-tos",
		},
		Commands: []Command{
			{"api", "Document API", "endpoint"},
			{"readme", "Create/update README", "project"},
			{"guide", "Write user guide", "topic"},
			{"tutorial", "Create tutorial", "feature"},
			{"changelog", "Update changelog", ""},
			{"adr", "Document architecture decision", "decision"},
			{"runbook", "Create runbook", "process"},
		},
		Focus: "Write for the reader who arrives cold. Lead with the task, show working examples and keep docs next to the code they describe.",
	},
	{
		ID:          "ux-designer",
		Alias:       "ux",
		Name:        "UX Designer",
		Description: "Designs user experiences and interfaces",
		Tools:       readOnlyTools,
		Capabilities: []string{
			"User research",
			"Wireframing",
			"Prototyping",
			"Usability testing",
			"Design systems",
			"Accessibility review",
			"Information architecture",
		},
		Commands: []Command{
			{"research", "User research", "topic"},
			{"wireframe", "Create wireframe", "feature"},
			{"prototype", "Design prototype", "flow"},
			{"review", "Usability review", "design"},
			{"system", "Design system", "component"},
			{"a11y", "Accessibility review", "interface"},
			{"flow", "User flow diagram", "journey"},
		},
		Focus: "Ground every design decision in user needs. Keep flows short, states explicit and interfaces accessible.",
	},
}
