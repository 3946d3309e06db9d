package maven

import (
	"strings"

	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
)

// Coordinate identifies a Maven artifact by group, artifact and version.
//
// Coordinates are immutable values. Equality is case-insensitive on all
// three parts and an absent version only equals another absent version.
// Use [Coordinate.Key] when a coordinate must index a map.
type Coordinate struct {
	group    string
	artifact string
	version  string
}

// NewCoordinate builds a coordinate from its parts. Surrounding whitespace
// is trimmed; an empty version means "absent".
func NewCoordinate(group, artifact, version string) Coordinate {
	return Coordinate{
		group:    strings.TrimSpace(group),
		artifact: strings.TrimSpace(artifact),
		version:  strings.TrimSpace(version),
	}
}

// ParseCoordinate parses "groupId:artifactId" or "groupId:artifactId:version".
// The filename-safe form "groupId_artifactId" is accepted as well, see
// [NormalizeCoordinate].
func ParseCoordinate(s string) (Coordinate, error) {
	parts := strings.Split(NormalizeCoordinate(strings.TrimSpace(s)), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return Coordinate{}, jwerrors.New(jwerrors.ErrCodeInvalidCoordinate,
			"invalid maven coordinate %q (expected groupId:artifactId[:version])", s)
	}
	c := NewCoordinate(parts[0], parts[1], "")
	if len(parts) == 3 {
		c.version = strings.TrimSpace(parts[2])
		if c.version == "" {
			return Coordinate{}, jwerrors.New(jwerrors.ErrCodeInvalidCoordinate, "invalid maven coordinate %q: empty version", s)
		}
	}
	if c.group == "" || c.artifact == "" {
		return Coordinate{}, jwerrors.New(jwerrors.ErrCodeInvalidCoordinate, "invalid maven coordinate %q: empty groupId or artifactId", s)
	}
	return c, nil
}

// NormalizeCoordinate converts filename-safe coordinates to Maven format.
// Since colons are not allowed in filenames (especially on Windows and in some
// build tools), underscores can be used as a substitute. This function converts
// "groupId_artifactId" to "groupId:artifactId" when no colon is present.
//
// Examples:
//   - "com.google.guava:guava" → "com.google.guava:guava" (unchanged)
//   - "com.google.guava_guava" → "com.google.guava:guava" (converted)
func NormalizeCoordinate(coord string) string {
	if strings.Contains(coord, ":") {
		return coord
	}
	// GroupIds follow reverse domain notation (no underscores typically)
	// while artifactIds may contain hyphens or underscores.
	if idx := strings.LastIndex(coord, "_"); idx != -1 {
		return coord[:idx] + ":" + coord[idx+1:]
	}
	return coord
}

func (c Coordinate) Group() string    { return c.group }
func (c Coordinate) Artifact() string { return c.artifact }
func (c Coordinate) Version() string  { return c.version }

// HasVersion reports whether the version is present.
func (c Coordinate) HasVersion() bool { return c.version != "" }

// IsZero reports whether c has neither group nor artifact.
func (c Coordinate) IsZero() bool { return c.group == "" && c.artifact == "" }

// WithVersion returns a copy of c with the given version.
func (c Coordinate) WithVersion(version string) Coordinate {
	c.version = strings.TrimSpace(version)
	return c
}

// Key is the comparable, case-folded form of a [Coordinate]. Parts are kept
// apart so no choice of separator can make two coordinates collide.
type Key struct {
	Group, Artifact, Version string
}

// Key returns the map key of c. Two keys are equal exactly when
// [Coordinate.Equal] reports true.
func (c Coordinate) Key() Key {
	return Key{fold(c.group), fold(c.artifact), fold(c.version)}
}

// Equal reports whether group, artifact and version all match, ignoring case.
func (c Coordinate) Equal(o Coordinate) bool {
	return c.Key() == o.Key()
}

// SameArtifact reports whether c and o name the same group and artifact,
// ignoring case and version.
func (c Coordinate) SameArtifact(o Coordinate) bool {
	return fold(c.group) == fold(o.group) && fold(c.artifact) == fold(o.artifact)
}

// fold is the single case-folding rule behind Key, Equal and SameArtifact.
func fold(s string) string { return strings.ToLower(s) }

// String returns "group:artifact:version", or "group:artifact" without a version.
func (c Coordinate) String() string {
	if c.version == "" {
		return c.group + ":" + c.artifact
	}
	return c.group + ":" + c.artifact + ":" + c.version
}

// Validate checks that every part is present and safe to use in a URL or a
// local file path.
func (c Coordinate) Validate() error {
	if err := jwerrors.ValidateCoordinatePart("groupId", c.group); err != nil {
		return err
	}
	if err := jwerrors.ValidateCoordinatePart("artifactId", c.artifact); err != nil {
		return err
	}
	return jwerrors.ValidateCoordinatePart("version", c.version)
}

// relPath returns the repository-relative, slash-separated path of the file
// with extension ext: group/as/dirs/artifact/version/artifact-version.ext.
func (c Coordinate) relPath(ext string) string {
	return strings.ReplaceAll(c.group, ".", "/") + "/" + c.artifact + "/" + c.version + "/" +
		c.artifact + "-" + c.version + "." + ext
}
