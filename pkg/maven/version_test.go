package maven

import (
	"context"
	"strings"
	"testing"
)

func mustParse(t *testing.T, doc string) *POM {
	t.Helper()
	pom, err := ParsePOM(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ParsePOM() error: %v", err)
	}
	return pom
}

func TestExpand(t *testing.T) {
	f := newFixture(t)
	owner := mustParse(t, `<project>
  <parent><groupId>org.parent</groupId><artifactId>p</artifactId><version>9</version></parent>
  <artifactId>child</artifactId>
  <properties><lib.version>1.2.3</lib.version><empty></empty></properties>
</project>`)

	tests := []struct {
		value  string
		want   string
		wantOK bool
	}{
		{"4.0", "4.0", true},
		{"${lib.version}", "1.2.3", true},
		{"${project.version}", "9", true},
		{"${pom.version}", "9", true},
		{"${version}", "9", true},
		{"${project.groupId}", "org.parent", true},
		{"${project.artifactId}", "child", true},
		{"${project.parent.version}", "9", true},
		{"${project.parent.groupId}", "org.parent", true},
		{"${empty}", "", true},
		{"${missing}", "", false},
		{"prefix-${lib.version}", "prefix-${lib.version}", true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, ok := f.resolver.Expand(tt.value, owner)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("Expand(%q) = %q, %v; want %q, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
	if !f.logger.contains("warn", "unrecognized project variable ${missing}") {
		t.Error("unknown variable should log a warning")
	}
}

func TestExpandAbsentVersion(t *testing.T) {
	f := newFixture(t)
	owner := mustParse(t, `<project><groupId>g</groupId><artifactId>a</artifactId></project>`)

	if _, ok := f.resolver.Expand("${project.version}", owner); ok {
		t.Fatal("Expand() should fail without an own or inherited version")
	}
	if !f.logger.contains("warn", "version is absent") {
		t.Error("warning should say the version is absent")
	}
	if f.logger.contains("warn", "unrecognized project variable") {
		t.Error("project.version is a known variable")
	}
}

func TestResolveVersion(t *testing.T) {
	f := newFixture(t)
	f.remote.pom("org.parent", "parent", "1", project("org.parent", "parent", "1", `
  <packaging>pom</packaging>
  <properties><guava.version>33.0.0-jre</guava.version></properties>
  <dependencyManagement><dependencies>`+
		dep("com.google.guava", "guava", "${guava.version}", "")+
		dep("org.slf4j", "slf4j-api", "2.0.9", "")+
		dep("${project.groupId}", "sibling", "${project.version}", "")+
		`</dependencies></dependencyManagement>`))

	owner := mustParse(t, project("org.child", "child", "5", parent("org.parent", "parent", "1")+`
  <properties><slf4j.version>1.7.36</slf4j.version></properties>
  <dependencyManagement><dependencies>`+
		dep("org.slf4j", "slf4j-api", "${slf4j.version}", "")+
		`</dependencies></dependencyManagement>`))

	tests := []struct {
		name   string
		dep    Coordinate
		want   string
		wantOK bool
	}{
		{"explicit", NewCoordinate("x", "y", "1.0"), "1.0", true},
		{"explicit property", NewCoordinate("x", "y", "${slf4j.version}"), "1.7.36", true},
		{"own management wins over parent", NewCoordinate("org.slf4j", "slf4j-api", ""), "1.7.36", true},
		{"parent management", NewCoordinate("com.google.guava", "guava", ""), "33.0.0-jre", true},
		{"parent management case insensitive", NewCoordinate("COM.GOOGLE.GUAVA", "Guava", ""), "33.0.0-jre", true},
		{"management with project variables", NewCoordinate("org.parent", "sibling", ""), "1", true},
		{"explicit unknown property retried in parent", NewCoordinate("x", "y", "${guava.version}"), "33.0.0-jre", true},
		{"unresolvable", NewCoordinate("x", "unknown", ""), "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := f.resolver.ResolveVersion(context.Background(), Dependency{Coordinate: tt.dep}, owner)
			if err != nil {
				t.Fatalf("ResolveVersion() error: %v", err)
			}
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ResolveVersion(%s) = %q, %v; want %q, %v", tt.dep, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestResolveVersionParentCycle(t *testing.T) {
	f := newFixture(t)
	f.remote.pom("g", "p1", "1", project("g", "p1", "1", parent("g", "p2", "1")))
	f.remote.pom("g", "p2", "1", project("g", "p2", "1", parent("g", "p1", "1")))
	owner := mustParse(t, project("g", "child", "1", parent("g", "p1", "1")))

	_, ok, err := f.resolver.ResolveVersion(context.Background(), Dependency{Coordinate: NewCoordinate("x", "y", "")}, owner)
	if err != nil || ok {
		t.Fatalf("ResolveVersion() = %v, %v; want unresolved", ok, err)
	}
	if !f.logger.contains("warn", "parent cycle") {
		t.Error("parent cycle should log a warning")
	}
}

func TestResolveVersionMissingParent(t *testing.T) {
	f := newFixture(t)
	owner := mustParse(t, project("g", "child", "1", parent("g", "gone", "1")))

	_, ok, err := f.resolver.ResolveVersion(context.Background(), Dependency{Coordinate: NewCoordinate("x", "y", "")}, owner)
	if err != nil || ok {
		t.Fatalf("ResolveVersion() = %v, %v; want unresolved", ok, err)
	}
}
