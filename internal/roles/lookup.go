package roles

import "slices"

// All returns every role in catalog order.
func All() []Role {
	out := make([]Role, len(catalog))
	for i, r := range catalog {
		out[i] = r.clone()
	}
	return out
}

// IDs returns every role id in catalog order.
func IDs() []string {
	out := make([]string, len(catalog))
	for i, r := range catalog {
		out[i] = r.ID
	}
	return out
}

// ByID returns the role with the given id.
func ByID(id string) (Role, bool) {
	for _, r := range catalog {
		if r.ID == id {
			return r.clone(), true
		}
	}
	return Role{}, false
}

// ByAlias returns the role with the given alias.
func ByAlias(alias string) (Role, bool) {
	for _, r := range catalog {
		if r.Alias == alias {
			return r.clone(), true
		}
	}
	return Role{}, false
}

// ByIDs returns the roles whose id is in ids, in catalog order. Unknown ids
// are dropped and input order is not preserved.
func ByIDs(ids []string) []Role {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []Role
	for _, r := range catalog {
		if want[r.ID] {
			out = append(out, r.clone())
		}
	}
	return out
}

// SortIDs returns the known ids of ids in catalog order, deduplicated.
func SortIDs(ids []string) []string {
	rs := ByIDs(ids)
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

// Command returns the named command of the role.
func (r Role) Command(name string) (Command, bool) {
	for _, c := range r.Commands {
		if c.Name == name {
			return c, true
		}
	}
	return Command{}, false
}

// HasCommand reports whether the role defines the named command.
func (r Role) HasCommand(name string) bool {
	_, ok := r.Command(name)
	return ok
}

// Invocation renders the slash command as typed by a user, for example
// "/da:explore <dataset>".
func (c Command) Invocation(alias string) string {
	s := "/" + alias + ":" + c.Name
	if c.Argument != "" {
		s += " <" + c.Argument + ">"
	}
	return s
}

func (r Role) clone() Role {
	r.Tools = slices.Clone(r.Tools)
	r.Capabilities = slices.Clone(r.Capabilities)
	r.Commands = slices.Clone(r.Commands)
	return r
}
