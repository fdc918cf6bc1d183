package roles

import "strings"

// MatchKind records how a reference resolved.
type MatchKind int

const (
	NoMatch MatchKind = iota
	MatchAlias
	MatchID
)

// Resolution is the tagged result of Resolve. Role is only meaningful when
// Found is true.
type Resolution struct {
	Input     string
	Role      Role
	Found     bool
	MatchedBy MatchKind
}

// Resolve looks a user-supplied reference up as an alias first, then as an
// id. Input is trimmed and matched case-insensitively; empty input is not
// found. Resolve never fails: callers turn !Found into their own error.
func Resolve(ref string) Resolution {
	input := strings.ToLower(strings.TrimSpace(ref))
	res := Resolution{Input: input}
	if input == "" {
		return res
	}

	if r, ok := ByAlias(input); ok {
		res.Role, res.Found, res.MatchedBy = r, true, MatchAlias
		return res
	}
	if r, ok := ByID(input); ok {
		res.Role, res.Found, res.MatchedBy = r, true, MatchID
		return res
	}
	return res
}

// ResolveAll resolves a list of references. It returns the resolved role ids
// in catalog order (deduplicated) and the inputs that did not resolve, in
// input order.
func ResolveAll(refs []string) (ids []string, unknown []string) {
	var found []string
	for _, ref := range refs {
		res := Resolve(ref)
		if !res.Found {
			unknown = append(unknown, strings.TrimSpace(ref))
			continue
		}
		found = append(found, res.Role.ID)
	}
	return SortIDs(found), unknown
}
