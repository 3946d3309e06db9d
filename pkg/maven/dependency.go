package maven

import "strings"

// Dependency is a declared dependency: a coordinate, whose version may be
// absent or a ${property} reference, plus scope, optional flag and exclusions.
//
// Exclusions are parsed but not applied by the resolver.
type Dependency struct {
	Coordinate
	Scope      string
	Optional   bool
	Exclusions []Coordinate
}

var includedScopes = []string{"", "compile", "runtime"}

// InScope reports whether the dependency contributes to the runtime class
// path: no scope, "compile" or "runtime", compared case-insensitively.
func (d Dependency) InScope() bool {
	for _, s := range includedScopes {
		if strings.EqualFold(strings.TrimSpace(d.Scope), s) {
			return true
		}
	}
	return false
}
