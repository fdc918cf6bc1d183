package scanner

import "strings"

// UnknownStack is displayed when nothing was detected.
const UnknownStack = "Unknown"

// Display tiers. Only the first detected primary language is shown.
var (
	primaryLanguages = []string{"typescript", "javascript", "python", "go", "rust", "java", "php"}
	frameworks       = []string{
		"react", "vue", "angular", "nextjs", "nuxt", "svelte",
		"django", "flask", "fastapi", "express", "fastify", "nestjs",
		"spring", "laravel", "symfony", "gin", "fiber",
	}
	datastores = []string{"postgresql", "mysql", "mongodb", "redis", "sqlite"}
	infra      = []string{"docker", "kubernetes", "terraform"}
)

// TechTiers buckets detected ids for display: one primary language (first
// match in fixed priority order), then frameworks, datastores and
// infrastructure. Within a tier, detection order is kept. Ids outside every
// tier are not shown.
func TechTiers(ids []string) []string {
	has := make(map[string]bool, len(ids))
	for _, id := range ids {
		has[id] = true
	}

	var out []string
	for _, lang := range primaryLanguages {
		if has[lang] {
			out = append(out, lang)
			break
		}
	}
	for _, tier := range [][]string{frameworks, datastores, infra} {
		out = append(out, inTier(ids, tier)...)
	}
	return out
}

// FormatTechStack renders TechTiers joined with ", ", or "Unknown".
func FormatTechStack(ids []string) string {
	tiers := TechTiers(ids)
	if len(tiers) == 0 {
		return UnknownStack
	}
	return strings.Join(tiers, ", ")
}

func inTier(ids, tier []string) []string {
	member := make(map[string]bool, len(tier))
	for _, t := range tier {
		member[t] = true
	}
	var out []string
	for _, id := range ids {
		if member[id] {
			out = append(out, id)
		}
	}
	return out
}
