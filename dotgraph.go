package iotaa

import (
	"fmt"
	"sort"
	"strings"
)

// Graph is a handle onto the deduplicated, pruned DAG built for one engine
// invocation (spec §4.3, §4.5). It is read-only: all mutation happened
// during Run.
type Graph struct {
	g *graph
}

// Nodes returns every canonical Node in the graph, in the order each task
// name was first observed while walking from the root (spec §4.3 "Canonical
// graph ordering for diagnostics is insertion order of the first
// observation of each name").
func (gr *Graph) Nodes() []*Node {
	out := make([]*Node, 0, len(gr.g.order))
	for _, name := range gr.g.order {
		out = append(out, gr.g.canon[name])
	}
	return out
}

// Requirements returns the canonical requirement Nodes of n, in
// first-occurrence declaration order, or nil if n's subtree was elided
// because its own assets were already ready at graph-build time.
func (gr *Graph) Requirements(n *Node) []*Node {
	return gr.g.requirementsOf(n.Name)
}

// DOT renders the graph as Graphviz-DOT-compatible text: one node per task,
// labeled by task name and filled by final readiness, with an edge from
// each Node to each of its requirements (spec §4.5, §6 "Graph output").
// DOT is purely a function of the final graph and readiness map — it is
// safe to call only after Run has completed.
func (gr *Graph) DOT() string {
	const readyColor = "palegreen"
	const notReadyColor = "lightgray"

	var b strings.Builder
	b.WriteString("digraph iotaa {\n")

	for _, name := range gr.g.order {
		n := gr.g.canon[name]
		color := notReadyColor
		if n.Ready() {
			color = readyColor
		}
		fmt.Fprintf(&b, "  %q [label=%q, style=filled, fillcolor=%q];\n", name, name, color)
	}

	for _, name := range gr.g.order {
		reqNames := append([]string(nil), gr.g.edges[name]...)
		sort.Strings(reqNames)
		for _, req := range reqNames {
			fmt.Fprintf(&b, "  %q -> %q;\n", name, req)
		}
	}

	b.WriteString("}\n")
	return b.String()
}
