package graph

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// ErrMalformedWeight is returned when an edge's month count is not an integer.
var ErrMalformedWeight = errors.New("malformed month count")

// Link is an edge seen from one of its ends: From is the node that was ranked.
// It encodes as a [from, to, weight] triple.
type Link struct {
	From   string
	To     string
	Weight int
}

func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{l.From, l.To, l.Weight})
}

func (l *Link) UnmarshalJSON(data []byte) error {
	var triple []json.RawMessage
	if err := json.Unmarshal(data, &triple); err != nil {
		return err
	}
	if len(triple) != 3 {
		return fmt.Errorf("link: want 3 elements, got %d", len(triple))
	}
	if err := json.Unmarshal(triple[0], &l.From); err != nil {
		return err
	}
	if err := json.Unmarshal(triple[1], &l.To); err != nil {
		return err
	}
	return json.Unmarshal(triple[2], &l.Weight)
}

// TopNeighbors returns every edge incident to id, heaviest first. Equal
// weights keep the order in which the edges were added. An unknown or
// isolated node yields an empty slice.
func TopNeighbors(g *Graph, id string) ([]Link, error) {
	neighbors := g.adj[id]
	links := make([]Link, 0, len(neighbors))
	for _, nb := range neighbors {
		e, _ := g.Edge(id, nb)
		w, err := parseWeight(e.MonthCount)
		if err != nil {
			return nil, fmt.Errorf("rank %q: edge %q-%q has month count %q: %w: %w",
				id, e.Company, e.Commodity, e.MonthCount, ErrMalformedWeight, err)
		}
		links = append(links, Link{From: id, To: nb, Weight: w})
	}
	slices.SortStableFunc(links, func(a, b Link) int {
		return cmp.Compare(b.Weight, a.Weight)
	})
	return links, nil
}
