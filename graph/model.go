package graph

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	graphlib "github.com/dominikbraun/graph"
)

// NodeKind tags which side of the bipartite graph a node belongs to.
type NodeKind string

const (
	KindCompany   NodeKind = "Company"
	KindCommodity NodeKind = "Commodity"
)

// Edge attribute keys stored on the underlying graph.
const (
	attrKind       = "kind"
	attrCompany    = "company"
	attrCommodity  = "commodity"
	attrMonthCount = "monthcount"
)

// Node is a company or a commodity. Identity is the raw string from the source row.
type Node struct {
	ID   string   `json:"id"`
	Kind NodeKind `json:"kind"`
}

// Edge links one company to one commodity. MonthCount is kept exactly as read;
// Weight is its integer value, or 0 when the raw value is not a number.
type Edge struct {
	Company    string `json:"company"`
	Commodity  string `json:"commodity"`
	MonthCount string `json:"month_count"`
	Weight     int    `json:"weight"`
}

// Row is one trade record: a company exported a commodity in MonthCount months.
type Row struct {
	Company    string
	Code       string
	MonthCount string
}

// Graph is the bipartite company/commodity export graph. It is built once per
// query and only read afterwards, so it carries no lock.
type Graph struct {
	lib   graphlib.Graph[string, string]
	nodes map[string]*Node
	order []string
	// adjacency in first-insertion order; the underlying graph keeps maps only
	adj  map[string][]string
	size int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		lib:   graphlib.New(graphlib.StringHash, graphlib.Weighted()),
		nodes: make(map[string]*Node),
		adj:   make(map[string][]string),
	}
}

// AddNode inserts a node, or re-tags an existing one with kind.
func (g *Graph) AddNode(id string, kind NodeKind) error {
	if n, ok := g.nodes[id]; ok {
		n.Kind = kind
		return nil
	}
	err := g.lib.AddVertex(id,
		graphlib.VertexAttribute(attrKind, string(kind)),
		graphlib.VertexAttribute("style", "filled"),
		graphlib.VertexAttribute("fillcolor", kindColor(kind)),
	)
	if err != nil && !errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return fmt.Errorf("add node %q: %w", id, err)
	}
	g.nodes[id] = &Node{ID: id, Kind: kind}
	g.order = append(g.order, id)
	return nil
}

// SetEdge inserts the company and commodity nodes and the edge between them.
// A second call for the same pair overwrites the month count.
func (g *Graph) SetEdge(company, code, monthCount string) error {
	if err := g.AddNode(company, KindCompany); err != nil {
		return err
	}
	if err := g.AddNode(code, KindCommodity); err != nil {
		return err
	}

	opts := []func(*graphlib.EdgeProperties){
		graphlib.EdgeWeight(parseWeightOrZero(monthCount)),
		graphlib.EdgeAttribute(attrCompany, company),
		graphlib.EdgeAttribute(attrCommodity, code),
		graphlib.EdgeAttribute(attrMonthCount, monthCount),
	}

	err := g.lib.AddEdge(company, code, opts...)
	switch {
	case err == nil:
		g.adj[company] = append(g.adj[company], code)
		if company != code {
			g.adj[code] = append(g.adj[code], company)
		}
		g.size++
		return nil
	case errors.Is(err, graphlib.ErrEdgeAlreadyExists):
		if err := g.lib.UpdateEdge(company, code, opts...); err != nil {
			return fmt.Errorf("update edge %q-%q: %w", company, code, err)
		}
		return nil
	default:
		return fmt.Errorf("add edge %q-%q: %w", company, code, err)
	}
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	result := make([]*Node, 0, len(g.order))
	for _, id := range g.order {
		result = append(result, g.nodes[id])
	}
	return result
}

// Companies returns the ids of all company nodes in insertion order.
func (g *Graph) Companies() []string {
	return g.idsOfKind(KindCompany)
}

// Commodities returns the ids of all commodity nodes in insertion order.
func (g *Graph) Commodities() []string {
	return g.idsOfKind(KindCommodity)
}

func (g *Graph) idsOfKind(kind NodeKind) []string {
	ids := make([]string, 0)
	for _, id := range g.order {
		if g.nodes[id].Kind == kind {
			ids = append(ids, id)
		}
	}
	return ids
}

// Neighbors returns the nodes adjacent to id in the order their edges were first added.
func (g *Graph) Neighbors(id string) []string {
	list := g.adj[id]
	result := make([]string, len(list))
	copy(result, list)
	return result
}

// Degree returns the number of edges incident to id.
func (g *Graph) Degree(id string) int {
	return len(g.adj[id])
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	_, err := g.lib.Edge(a, b)
	return err == nil
}

// Edge returns the edge between a and b, in either orientation.
func (g *Graph) Edge(a, b string) (Edge, bool) {
	e, err := g.lib.Edge(a, b)
	if err != nil {
		return Edge{}, false
	}
	attrs := e.Properties.Attributes
	return Edge{
		Company:    attrs[attrCompany],
		Commodity:  attrs[attrCommodity],
		MonthCount: attrs[attrMonthCount],
		Weight:     e.Properties.Weight,
	}, true
}

// Edges returns every edge once, ordered by node insertion and then adjacency order.
func (g *Graph) Edges() []Edge {
	seen := make(map[[2]string]bool)
	result := make([]Edge, 0)
	for _, id := range g.order {
		for _, nb := range g.adj[id] {
			key := pairKey(id, nb)
			if seen[key] {
				continue
			}
			seen[key] = true
			if e, ok := g.Edge(id, nb); ok {
				result = append(result, e)
			}
		}
	}
	return result
}

// Order returns the number of nodes.
func (g *Graph) Order() int {
	return len(g.nodes)
}

// Size returns the number of edges.
func (g *Graph) Size() int {
	return g.size
}

// String returns a summary of the graph.
func (g *Graph) String() string {
	return fmt.Sprintf("Graph(Companies: %d, Commodities: %d, Edges: %d)",
		len(g.Companies()), len(g.Commodities()), g.Size())
}

// kindColor picks the DOT fill color for a node kind.
func kindColor(kind NodeKind) string {
	switch kind {
	case KindCompany:
		return "salmon"
	case KindCommodity:
		return "lightgreen"
	default:
		return "lightgrey"
	}
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func parseWeight(raw string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(raw))
}

func parseWeightOrZero(raw string) int {
	n, err := parseWeight(raw)
	if err != nil {
		return 0
	}
	return n
}
