package component

import "strings"

// Metadata describes one installed component as reported by a Provider. Name
// and Requires arrive in whatever convention the install tooling uses; both
// are normalized during the graph build.
type Metadata struct {
	Name     string
	Requires []string // raw requirement strings, e.g. "driftwood-core>=1.2"
}

// Provider supplies the snapshot of installed-component metadata the
// dependency graph is built from.
type Provider interface {
	Installed() []Metadata
}

// StaticProvider is a Provider over a fixed slice, used by hosts that declare
// their component list explicitly (and by tests).
type StaticProvider []Metadata

func (p StaticProvider) Installed() []Metadata {
	return p
}

// Component is a node in the dependency graph.
type Component struct {
	Name     string   // normalized
	Requires []string // normalized names of direct dependencies
}

// Normalize canonicalizes a component name: lowercased, with underscore and
// dot separators unified to dashes. Graph lookups are keyed by the normalized
// form so that "My_Plugin" and "my.plugin" resolve to the same node.
func Normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "_", "-")
	name = strings.ReplaceAll(name, ".", "-")
	return name
}

// ParseRequirementName extracts the bare component name from a requirement
// string by cutting at the first character that cannot appear in a name.
// Version constraints, extras and environment markers are all discarded:
// "foo>=1.2", "foo[extra]" and "foo ; os_name == 'posix'" yield "foo".
// Returns "" when no name can be determined.
func ParseRequirementName(requirement string) string {
	requirement = strings.TrimSpace(requirement)
	end := len(requirement)
	for i, r := range requirement {
		if !isNameRune(r) {
			end = i
			break
		}
	}
	return Normalize(requirement[:end])
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '-', r == '_', r == '.':
		return true
	default:
		return false
	}
}
