package scanner

// RuleKind tags a detection rule.
type RuleKind int

const (
	// RuleDep matches a name (or doublestar pattern) in the merged dependency map.
	RuleDep RuleKind = iota
	// RuleFile matches when the probe globs at least one file.
	RuleFile
)

// Rule is one detection rule of a technology.
type Rule struct {
	Kind    RuleKind
	Pattern string
}

// Dep returns a dependency rule.
func Dep(name string) Rule { return Rule{Kind: RuleDep, Pattern: name} }

// File returns a file-glob rule.
func File(pattern string) Rule { return Rule{Kind: RuleFile, Pattern: pattern} }

// Tech is a technology id with its ordered detection rules.
type Tech struct {
	ID    string
	Rules []Rule
}

// Techs is the detection table. Order is significant: it is the order in
// which technologies are evaluated and reported.
var Techs = []Tech{
	// Languages and frontend frameworks
	{"typescript", []Rule{Dep("typescript"), File("tsconfig.json"), File("**/*.ts"), File("**/*.tsx")}},
	{"javascript", []Rule{File("**/*.js"), File("**/*.jsx"), File("**/*.mjs")}},
	{"react", []Rule{Dep("react"), Dep("react-dom")}},
	{"vue", []Rule{Dep("vue"), File("vue.config.js")}},
	{"angular", []Rule{Dep("@angular/core"), File("angular.json")}},
	{"nextjs", []Rule{Dep("next"), File("next.config.js"), File("next.config.mjs")}},
	{"nuxt", []Rule{Dep("nuxt"), File("nuxt.config.js"), File("nuxt.config.ts")}},
	{"svelte", []Rule{Dep("svelte"), File("svelte.config.js")}},

	// Node.js
	{"node", []Rule{File("package.json")}},
	{"express", []Rule{Dep("express")}},
	{"fastify", []Rule{Dep("fastify")}},
	{"nestjs", []Rule{Dep("@nestjs/core"), File("nest-cli.json")}},

	// Python
	{"python", []Rule{File("requirements.txt"), File("pyproject.toml"), File("setup.py"), File("**/*.py")}},
	{"django", []Rule{Dep("django"), File("manage.py")}},
	{"flask", []Rule{Dep("flask")}},
	{"fastapi", []Rule{Dep("fastapi")}},
	{"pandas", []Rule{Dep("pandas")}},
	{"numpy", []Rule{Dep("numpy")}},

	// Go
	{"go", []Rule{File("go.mod"), File("**/*.go")}},
	{"gin", []Rule{Dep("github.com/gin-gonic/gin")}},
	{"fiber", []Rule{Dep("github.com/gofiber/fiber"), Dep("github.com/gofiber/fiber/**")}},

	// Rust
	{"rust", []Rule{File("Cargo.toml"), File("**/*.rs")}},

	// PHP
	{"php", []Rule{File("composer.json"), File("**/*.php")}},
	{"laravel", []Rule{Dep("laravel/framework"), File("artisan")}},
	{"symfony", []Rule{Dep("symfony/framework-bundle"), Dep("symfony/*")}},

	// JVM
	{"java", []Rule{File("pom.xml"), File("build.gradle"), File("**/*.java")}},
	{"kotlin", []Rule{File("build.gradle.kts"), File("**/*.kt")}},
	{"spring", []Rule{File("**/application.properties"), File("**/application.yml")}},

	// Datastores
	{"postgresql", []Rule{Dep("pg"), Dep("postgres"), Dep("psycopg2"), Dep("psycopg2-binary"), Dep("github.com/jackc/pgx/**"), Dep("github.com/lib/pq")}},
	{"mysql", []Rule{Dep("mysql"), Dep("mysql2"), Dep("pymysql"), Dep("github.com/go-sql-driver/mysql")}},
	{"mongodb", []Rule{Dep("mongoose"), Dep("mongodb"), Dep("pymongo"), Dep("go.mongodb.org/mongo-driver/**")}},
	{"redis", []Rule{Dep("redis"), Dep("ioredis"), Dep("github.com/redis/go-redis/**")}},
	{"sqlite", []Rule{Dep("sqlite3"), Dep("better-sqlite3"), Dep("modernc.org/sqlite"), Dep("github.com/mattn/go-sqlite3")}},

	// Infrastructure
	{"docker", []Rule{File("Dockerfile"), File("docker-compose.yml"), File("docker-compose.yaml"), File("compose.yaml")}},
	{"kubernetes", []Rule{File("k8s/**/*.yaml"), File("k8s/**/*.yml"), File("**/kustomization.yaml"), File("helm/**/Chart.yaml")}},
	{"terraform", []Rule{File("**/*.tf")}},

	// Testing
	{"jest", []Rule{Dep("jest"), File("jest.config.js"), File("jest.config.ts")}},
	{"vitest", []Rule{Dep("vitest"), File("vitest.config.ts")}},
	{"pytest", []Rule{Dep("pytest"), File("pytest.ini"), File("conftest.py")}},
	{"cypress", []Rule{Dep("cypress"), File("cypress.config.js"), File("cypress.config.ts")}},
	{"playwright", []Rule{Dep("@playwright/test"), Dep("playwright"), File("playwright.config.ts")}},
}

// TechIDs returns the ids of Techs in table order.
func TechIDs() []string {
	ids := make([]string, len(Techs))
	for i, t := range Techs {
		ids[i] = t.ID
	}
	return ids
}
