// Package datasources supplies trade rows to the graph builder and reference
// data to the commodity lookup.
package datasources

import (
	"context"
	"iter"

	"competitors/graph"
)

// RowSource streams the (company, code, month count) rows of one graph build.
// Each call to Rows starts a fresh pass over the underlying data.
type RowSource interface {
	Rows(ctx context.Context) iter.Seq2[graph.Row, error]
}

// Columns holds zero-based field positions of a row.
type Columns struct {
	Company    int `yaml:"company" toml:"company"`
	Code       int `yaml:"code" toml:"code"`
	MonthCount int `yaml:"month_count" toml:"month_count"`
}

// DefaultColumns matches the trade export file: co_name, HScode, MonthCount.
var DefaultColumns = Columns{Company: 4, Code: 3, MonthCount: 7}

func (c Columns) row(fields []string) graph.Row {
	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return fields[i]
	}
	return graph.Row{
		Company:    get(c.Company),
		Code:       get(c.Code),
		MonthCount: get(c.MonthCount),
	}
}
