package maven

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/ianaindex"

	jwerrors "github.com/matzehuels/jarwalk/pkg/errors"
)

// POM is the part of a Maven project descriptor the resolver reads.
//
// GroupID and Version hold the values as written; either may be empty when
// inherited from Parent. Use [POM.Coordinate] for the effective identity.
// A POM is never mutated after parsing.
type POM struct {
	GroupID     string
	ArtifactID  string
	Version     string
	Packaging   string // as written; empty means "jar"
	Name        string
	Description string
	URL         string

	Parent               *Coordinate
	Dependencies         []Dependency
	DependencyManagement []Dependency
	Properties           map[string]string

	// Path is the file the POM was loaded from, empty if parsed from a reader.
	Path string
}

// Coordinate returns the effective coordinate, with group and version
// inherited from the parent when not declared.
func (p *POM) Coordinate() Coordinate {
	return NewCoordinate(p.effectiveGroup(), p.ArtifactID, p.effectiveVersion())
}

func (p *POM) effectiveGroup() string {
	if p.GroupID == "" && p.Parent != nil {
		return p.Parent.Group()
	}
	return p.GroupID
}

func (p *POM) effectiveVersion() string {
	if p.Version == "" && p.Parent != nil {
		return p.Parent.Version()
	}
	return p.Version
}

// IsJar reports whether the project produces a jar: packaging is "jar" or absent.
func (p *POM) IsJar() bool {
	return p.Packaging == "" || strings.EqualFold(p.Packaging, "jar")
}

// PackagingOrDefault returns the packaging, defaulting to "jar".
func (p *POM) PackagingOrDefault() string {
	if p.Packaging == "" {
		return "jar"
	}
	return p.Packaging
}

func (p *POM) String() string {
	const unspecified = "{null}"
	or := func(s string) string {
		if s == "" {
			return unspecified
		}
		return s
	}
	return or(p.effectiveGroup()) + ":" + or(p.ArtifactID) + ":" + or(p.Version)
}

// ParsePOM parses a POM document. Documents with and without the
// http://maven.apache.org/POM/4.0.0 default namespace are accepted.
// Malformed XML or a root element other than <project> yields a
// PARSE_ERROR.
func ParsePOM(r io.Reader) (*POM, error) {
	d := xml.NewDecoder(r)
	d.CharsetReader = charsetReader
	d.Entity = xml.HTMLEntity

	var doc pomXML
	if err := d.Decode(&doc); err != nil {
		return nil, jwerrors.Wrap(jwerrors.ErrCodeParse, err, "malformed POM")
	}
	return doc.toPOM(), nil
}

// LoadPOM reads and parses the POM file at path.
func LoadPOM(path string) (*POM, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pom, err := ParsePOM(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pom.Path = path
	return pom, nil
}

// charsetReader handles the non UTF-8 encodings declared by older POMs,
// ISO-8859-1 being by far the most common.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	enc, err := ianaindex.IANA.Encoding(label)
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", label)
	}
	return enc.NewDecoder().Reader(input), nil
}

type pomXML struct {
	XMLName              xml.Name        `xml:"project"`
	GroupID              string          `xml:"groupId"`
	ArtifactID           string          `xml:"artifactId"`
	Version              string          `xml:"version"`
	Packaging            string          `xml:"packaging"`
	Name                 string          `xml:"name"`
	Description          string          `xml:"description"`
	URL                  string          `xml:"url"`
	Parent               *coordinateXML  `xml:"parent"`
	Dependencies         []dependencyXML `xml:"dependencies>dependency"`
	DependencyManagement []dependencyXML `xml:"dependencyManagement>dependencies>dependency"`
	Properties           propertiesXML   `xml:"properties"`
}

type coordinateXML struct {
	GroupID    string `xml:"groupId"`
	ArtifactID string `xml:"artifactId"`
	Version    string `xml:"version"`
}

type dependencyXML struct {
	coordinateXML
	Scope      string          `xml:"scope"`
	Optional   string          `xml:"optional"`
	Exclusions []coordinateXML `xml:"exclusions>exclusion"`
}

// propertiesXML collects <properties> children as name → text.
type propertiesXML map[string]string

func (p *propertiesXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	props := propertiesXML{}
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			var value string
			if err := d.DecodeElement(&value, &t); err != nil {
				return err
			}
			props[t.Name.Local] = strings.TrimSpace(value)
		case xml.EndElement:
			*p = props
			return nil
		}
	}
}

func (x coordinateXML) toCoordinate() Coordinate {
	return NewCoordinate(x.GroupID, x.ArtifactID, x.Version)
}

func (x dependencyXML) toDependency() Dependency {
	d := Dependency{
		Coordinate: x.toCoordinate(),
		Scope:      strings.TrimSpace(x.Scope),
		Optional:   strings.EqualFold(strings.TrimSpace(x.Optional), "true"),
	}
	for _, e := range x.Exclusions {
		d.Exclusions = append(d.Exclusions, e.toCoordinate())
	}
	return d
}

func toDependencies(xs []dependencyXML) []Dependency {
	if len(xs) == 0 {
		return nil
	}
	out := make([]Dependency, 0, len(xs))
	for _, x := range xs {
		out = append(out, x.toDependency())
	}
	return out
}

func (x *pomXML) toPOM() *POM {
	p := &POM{
		GroupID:              strings.TrimSpace(x.GroupID),
		ArtifactID:           strings.TrimSpace(x.ArtifactID),
		Version:              strings.TrimSpace(x.Version),
		Packaging:            strings.TrimSpace(x.Packaging),
		Name:                 strings.TrimSpace(x.Name),
		Description:          strings.TrimSpace(x.Description),
		URL:                  strings.TrimSpace(x.URL),
		Dependencies:         toDependencies(x.Dependencies),
		DependencyManagement: toDependencies(x.DependencyManagement),
		Properties:           map[string]string(x.Properties),
	}
	if x.Parent != nil {
		parent := x.Parent.toCoordinate()
		if !parent.IsZero() {
			p.Parent = &parent
		}
	}
	if p.Properties == nil {
		p.Properties = map[string]string{}
	}
	return p
}
