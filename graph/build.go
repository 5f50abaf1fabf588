package graph

import "iter"

// Build streams rows into a fresh graph. Rows are not validated: empty fields
// and non-numeric month counts go in as they are. Only an error produced by
// the stream itself stops the build.
func Build(rows iter.Seq2[Row, error]) (*Graph, error) {
	g := New()
	for row, err := range rows {
		if err != nil {
			return nil, err
		}
		if err := g.SetEdge(row.Company, row.Code, row.MonthCount); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Rows adapts an in-memory slice to the stream Build consumes.
func Rows(rows []Row) iter.Seq2[Row, error] {
	return func(yield func(Row, error) bool) {
		for _, r := range rows {
			if !yield(r, nil) {
				return
			}
		}
	}
}
