package graph

import (
	"iter"
	"slices"
)

// CommonNeighbors returns the nodes adjacent to both u and v, in u's adjacency
// order. For two commodity codes these are the companies exporting both.
func CommonNeighbors(g *Graph, u, v string) []string {
	return slices.Collect(commonNeighbors(g, u, v))
}

func commonNeighbors(g *Graph, u, v string) iter.Seq[string] {
	return func(yield func(string) bool) {
		if _, ok := g.nodes[v]; !ok {
			return
		}
		for _, w := range g.adj[u] {
			if w == u || w == v || !g.HasEdge(w, v) {
				continue
			}
			if !yield(w) {
				return
			}
		}
	}
}

// FindCommonCodes lazily yields every company exporting both u and v, each
// followed by all the commodities that company exports. A commodity shared by
// several companies is yielded once per company. Feed the sequence to
// Subgraph to get the bridging neighborhood.
func FindCommonCodes(g *Graph, u, v string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for name := range commonNeighbors(g, u, v) {
			if !yield(name) {
				return
			}
			for _, code := range g.adj[name] {
				if !yield(code) {
					return
				}
			}
		}
	}
}

// Subgraph returns the subgraph of g induced by ids: every listed node that
// exists in g, plus all edges of g between them. Duplicate ids are ignored.
func Subgraph(g *Graph, ids iter.Seq[string]) (*Graph, error) {
	keep := make(map[string]bool)
	sub := New()
	for id := range ids {
		n, ok := g.nodes[id]
		if !ok || keep[id] {
			continue
		}
		keep[id] = true
		if err := sub.AddNode(id, n.Kind); err != nil {
			return nil, err
		}
	}
	for _, e := range g.Edges() {
		if !keep[e.Company] || !keep[e.Commodity] {
			continue
		}
		if err := sub.SetEdge(e.Company, e.Commodity, e.MonthCount); err != nil {
			return nil, err
		}
	}
	return sub, nil
}
