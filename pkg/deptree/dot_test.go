package deptree

import (
	"strings"
	"testing"
)

func sampleGraph() *Graph {
	g := New("org.example:app:1.0")
	root, _ := g.AddNode("org.example:app:1.0")
	root.Packaging = "jar"
	root.Jar = "/repo/org/example/app/1.0/app-1.0.jar"
	lib, _ := g.AddNode("org.example:lib:2.0")
	lib.Packaging = "pom"
	gone, _ := g.AddNode("org.example:gone:3.0")
	gone.Status = StatusMissing

	g.AddEdge(Edge{From: root.ID, To: lib.ID, Scope: "compile"})
	g.AddEdge(Edge{From: lib.ID, To: gone.ID, Scope: "runtime"})
	return g
}

func TestToDOT(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{})

	for _, want := range []string{
		"digraph G {",
		`"org.example:app:1.0" [label="org.example:app:1.0", penwidth=2];`,
		`"org.example:lib:2.0" [label="org.example:lib:2.0", shape=note];`,
		`fillcolor=lightgrey`,
		`"org.example:app:1.0" -> "org.example:lib:2.0";`,
		`"org.example:lib:2.0" -> "org.example:gone:3.0" [label="runtime"];`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() missing %q\n%s", want, dot)
		}
	}
}

func TestToDOT_Detailed(t *testing.T) {
	dot := ToDOT(sampleGraph(), Options{Detailed: true})
	if !strings.Contains(dot, `jar: app-1.0.jar`) {
		t.Errorf("detailed label should include jar file name\n%s", dot)
	}
	if !strings.Contains(dot, `status: missing`) {
		t.Errorf("detailed label should include missing status\n%s", dot)
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="10pt" height="20pt" viewBox="0.00 0.00 100.40 200.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.HasPrefix(out, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 100.40 200.00" width="100" height="200">`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("svg without viewBox should be unchanged, got %s", got)
	}
}
