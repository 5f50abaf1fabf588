package graph

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dominikbraun/graph/draw"
)

const gexfNamespace = "http://www.gexf.net/1.2draft"

// GEXF attribute ids for node kind and raw month count.
const (
	gexfAttrKind       = "0"
	gexfAttrMonthCount = "1"
)

type gexfDoc struct {
	XMLName xml.Name  `xml:"gexf"`
	Xmlns   string    `xml:"xmlns,attr"`
	Version string    `xml:"version,attr"`
	Meta    gexfMeta  `xml:"meta"`
	Graph   gexfGraph `xml:"graph"`
}

type gexfMeta struct {
	LastModified string `xml:"lastmodifieddate,attr,omitempty"`
	Creator      string `xml:"creator"`
	Description  string `xml:"description,omitempty"`
}

type gexfGraph struct {
	DefaultEdgeType string           `xml:"defaultedgetype,attr"`
	Mode            string           `xml:"mode,attr"`
	Attributes      []gexfAttributes `xml:"attributes"`
	Nodes           []gexfNode       `xml:"nodes>node"`
	Edges           []gexfEdge       `xml:"edges>edge"`
}

type gexfAttributes struct {
	Class      string          `xml:"class,attr"`
	Attributes []gexfAttribute `xml:"attribute"`
}

type gexfAttribute struct {
	ID    string `xml:"id,attr"`
	Title string `xml:"title,attr"`
	Type  string `xml:"type,attr"`
}

type gexfNode struct {
	ID     string      `xml:"id,attr"`
	Label  string      `xml:"label,attr"`
	Values []gexfValue `xml:"attvalues>attvalue"`
}

type gexfEdge struct {
	ID     string      `xml:"id,attr"`
	Source string      `xml:"source,attr"`
	Target string      `xml:"target,attr"`
	Weight int         `xml:"weight,attr"`
	Values []gexfValue `xml:"attvalues>attvalue"`
}

type gexfValue struct {
	For   string `xml:"for,attr"`
	Value string `xml:"value,attr"`
}

// WriteGEXF writes g as a GEXF 1.2 document, readable by Gephi and ReadGEXF.
// Edges go from company to commodity.
func WriteGEXF(w io.Writer, g *Graph) error {
	doc := gexfDoc{
		Xmlns:   gexfNamespace,
		Version: "1.2",
		Meta: gexfMeta{
			LastModified: time.Now().Format("2006-01-02"),
			Creator:      "competitors",
			Description:  "company/commodity export graph",
		},
		Graph: gexfGraph{
			DefaultEdgeType: "undirected",
			Mode:            "static",
			Attributes: []gexfAttributes{
				{Class: "node", Attributes: []gexfAttribute{{ID: gexfAttrKind, Title: "kind", Type: "string"}}},
				{Class: "edge", Attributes: []gexfAttribute{{ID: gexfAttrMonthCount, Title: "monthcount", Type: "string"}}},
			},
		},
	}

	for _, n := range g.Nodes() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, gexfNode{
			ID:     n.ID,
			Label:  n.ID,
			Values: []gexfValue{{For: gexfAttrKind, Value: string(n.Kind)}},
		})
	}
	for i, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, gexfEdge{
			ID:     strconv.Itoa(i),
			Source: e.Company,
			Target: e.Commodity,
			Weight: e.Weight,
			Values: []gexfValue{{For: gexfAttrMonthCount, Value: e.MonthCount}},
		})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode gexf: %w", err)
	}
	return enc.Close()
}

// ReadGEXF reads a document written by WriteGEXF back into a graph.
func ReadGEXF(r io.Reader) (*Graph, error) {
	var doc gexfDoc
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode gexf: %w", err)
	}

	titles := make(map[string]string)
	for _, set := range doc.Graph.Attributes {
		for _, a := range set.Attributes {
			titles[set.Class+"/"+a.ID] = a.Title
		}
	}
	value := func(class string, values []gexfValue, title string) (string, bool) {
		for _, v := range values {
			if titles[class+"/"+v.For] == title {
				return v.Value, true
			}
		}
		return "", false
	}

	g := New()
	for _, n := range doc.Graph.Nodes {
		kind := KindCompany
		if k, ok := value("node", n.Values, "kind"); ok {
			kind = NodeKind(k)
		}
		if err := g.AddNode(n.ID, kind); err != nil {
			return nil, err
		}
	}
	for _, e := range doc.Graph.Edges {
		company, code := e.Source, e.Target
		if n, ok := g.Node(company); ok && n.Kind == KindCommodity {
			company, code = code, company
		}
		monthCount, ok := value("edge", e.Values, "monthcount")
		if !ok {
			monthCount = strconv.Itoa(e.Weight)
		}
		if err := g.SetEdge(company, code, monthCount); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// WriteDOT renders g in Graphviz DOT format.
func WriteDOT(w io.Writer, g *Graph) error {
	return draw.DOT(g.lib, w)
}
