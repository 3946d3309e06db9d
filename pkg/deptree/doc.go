// Package deptree records the dependency graph explored during a resolution
// run and renders it with Graphviz.
//
// The walker in package maven adds one [Node] per visited coordinate and one
// [Edge] per followed dependency. The graph keeps visit order, so iterating
// [Graph.Nodes] reproduces the depth-first pre-order of the walk.
//
//	dot := deptree.ToDOT(result.Graph, deptree.Options{Detailed: true})
//	svg, err := deptree.RenderSVG(ctx, dot)
package deptree
