package maven

import (
	"context"
	"regexp"
	"strings"
)

// variablePattern matches a value that is exactly one ${name} reference.
var variablePattern = regexp.MustCompile(`\A\$\{(\S+)\}$`)

// Expand resolves value against owner when value is exactly "${name}".
//
// project.version, pom.version and version resolve to the owner's
// (possibly inherited) version; project.groupId and project.artifactId
// likewise, and project.parent.version / project.parent.groupId to the
// parent coordinate. Any other name is looked up in the owner's
// properties. Values that are not a single reference are returned
// unchanged. An unknown name logs a warning and reports false.
func (r *Resolver) Expand(value string, owner *POM) (string, bool) {
	m := variablePattern.FindStringSubmatch(value)
	if m == nil {
		return value, true
	}
	if v, ok := lookupVariable(m[1], owner); ok {
		r.logger.Debugf("expanded %s to %q in %s", value, v, owner)
		return v, true
	}
	switch strings.ToLower(m[1]) {
	case "project.version", "pom.version", "version", "project.parent.version", "parent.version":
		r.logger.Warnf("cannot expand %s in %s: version is absent", value, owner)
	default:
		r.logger.Warnf("unrecognized project variable %s in %s", value, owner)
	}
	return "", false
}

func lookupVariable(name string, owner *POM) (string, bool) {
	switch strings.ToLower(name) {
	case "project.version", "pom.version", "version":
		v := owner.effectiveVersion()
		return v, v != ""
	case "project.groupid", "pom.groupid", "groupid":
		v := owner.effectiveGroup()
		return v, v != ""
	case "project.artifactid", "pom.artifactid", "artifactid":
		return owner.ArtifactID, owner.ArtifactID != ""
	case "project.parent.version", "parent.version":
		if owner.Parent != nil && owner.Parent.HasVersion() {
			return owner.Parent.Version(), true
		}
		return "", false
	case "project.parent.groupid", "parent.groupid":
		if owner.Parent != nil && owner.Parent.Group() != "" {
			return owner.Parent.Group(), true
		}
		return "", false
	}
	v, ok := owner.Properties[name]
	return v, ok
}

// ResolveVersion computes the effective version of dep as declared in owner.
//
// In order: the explicit version, expanded; the owner's
// dependencyManagement entry for the same artifact, expanded; the same
// steps against the parent chain. It reports false when every step fails.
// The error is reserved for context cancellation and fetcher contract
// violations while loading parents.
func (r *Resolver) ResolveVersion(ctx context.Context, dep Dependency, owner *POM) (string, bool, error) {
	seen := map[Key]bool{owner.Coordinate().Key(): true}
	return r.resolveVersion(ctx, dep, owner, seen)
}

func (r *Resolver) resolveVersion(ctx context.Context, dep Dependency, owner *POM, seen map[Key]bool) (string, bool, error) {
	var (
		version string
		ok      bool
	)
	if dep.HasVersion() {
		version, ok = r.Expand(dep.Version(), owner)
	} else if managed, found := managedEntry(dep.Coordinate, owner); found && managed.HasVersion() {
		version, ok = r.Expand(managed.Version(), owner)
		if ok {
			r.logger.Debugf("resolved version %s of %s from dependencyManagement of %s", version, dep, owner)
		}
	}
	if ok && version != "" {
		return version, true, nil
	}

	if owner.Parent == nil {
		return "", false, nil
	}
	parentKey := owner.Parent.Key()
	if seen[parentKey] {
		r.logger.Warnf("parent cycle at %s while resolving version of %s", owner.Parent, dep)
		return "", false, nil
	}
	seen[parentKey] = true

	r.logger.Debugf("attempting to resolve version of %s from parent %s", dep, owner.Parent)
	parent, err := r.repo.POM(ctx, *owner.Parent)
	if err != nil || parent == nil {
		return "", false, err
	}
	version, ok, err = r.resolveVersion(ctx, dep, parent, seen)
	if ok {
		r.logger.Debugf("resolved version of %s in %s", dep, parent)
	}
	return version, ok, err
}

// managedEntry finds the dependencyManagement entry for the same artifact
// as c. Entries written with ${project.groupId} and similar references are
// matched after expansion.
func managedEntry(c Coordinate, owner *POM) (Dependency, bool) {
	for _, m := range owner.DependencyManagement {
		if m.SameArtifact(c) {
			return m, true
		}
		group, gok := expandQuiet(m.Group(), owner)
		artifact, aok := expandQuiet(m.Artifact(), owner)
		if gok && aok && NewCoordinate(group, artifact, "").SameArtifact(c) {
			return m, true
		}
	}
	return Dependency{}, false
}

func expandQuiet(value string, owner *POM) (string, bool) {
	m := variablePattern.FindStringSubmatch(value)
	if m == nil {
		return value, true
	}
	return lookupVariable(m[1], owner)
}
