package deptree

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownSourceNode is returned by [Graph.AddEdge] when the From node
	// has not been added.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.AddEdge] when the To node
	// has not been added.
	ErrUnknownTargetNode = errors.New("unknown target node")
)

// Status records what the walker found for a coordinate.
type Status int

const (
	// StatusResolved means the descriptor was loaded.
	StatusResolved Status = iota
	// StatusMissing means no descriptor could be obtained.
	StatusMissing
)

func (s Status) String() string {
	if s == StatusMissing {
		return "missing"
	}
	return "resolved"
}

// Node is one visited coordinate.
type Node struct {
	ID        string // "group:artifact:version"
	Packaging string // empty until the descriptor is loaded
	Jar       string // local jar path, empty when none was contributed
	Status    Status
}

// Edge is a followed dependency from one coordinate to another.
type Edge struct {
	From  string
	To    string
	Scope string
}

// Graph is a directed dependency graph in visit order.
//
// Unlike a layered DAG, cycles are allowed: when A depends on B and B on A,
// both edges are recorded even though the walker visits each node once.
// The zero value is not usable; use [New]. Graph is not safe for concurrent use.
type Graph struct {
	root     string
	nodes    map[string]*Node
	order    []string
	edges    []Edge
	edgeSet  map[[2]string]bool
	outgoing map[string][]string
	incoming map[string][]string
}

// New creates an empty graph whose root node is rootID.
// The root node itself is added by the first [Graph.AddNode] call for it.
func New(rootID string) *Graph {
	return &Graph{
		root:     rootID,
		nodes:    make(map[string]*Node),
		edgeSet:  make(map[[2]string]bool),
		outgoing: make(map[string][]string),
		incoming: make(map[string][]string),
	}
}

// Root returns the root node ID.
func (g *Graph) Root() string { return g.root }

// AddNode adds a node with the given ID and returns it. Adding an existing
// ID returns the existing node unchanged.
func (g *Graph) AddNode(id string) (*Node, error) {
	if id == "" {
		return nil, ErrInvalidNodeID
	}
	if n, ok := g.nodes[id]; ok {
		return n, nil
	}
	n := &Node{ID: id}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n, nil
}

// AddEdge records a dependency edge between two existing nodes.
// A repeated From/To pair is ignored.
func (g *Graph) AddEdge(e Edge) error {
	if _, ok := g.nodes[e.From]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[e.To]; !ok {
		return ErrUnknownTargetNode
	}
	key := [2]string{e.From, e.To}
	if g.edgeSet[key] {
		return nil
	}
	g.edgeSet[key] = true
	g.edges = append(g.edges, e)
	g.outgoing[e.From] = append(g.outgoing[e.From], e.To)
	g.incoming[e.To] = append(g.incoming[e.To], e.From)
	return nil
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in the order they were first added.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.nodes[id])
	}
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// Children returns the IDs of nodes id depends on, in declaration order.
func (g *Graph) Children(id string) []string { return slices.Clone(g.outgoing[id]) }

// Parents returns the IDs of nodes that depend on id.
func (g *Graph) Parents(id string) []string { return slices.Clone(g.incoming[id]) }

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }
