package datasources

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	"competitors/graph"
	"competitors/logger"
)

// TSVSource reads rows from a tab separated export file. Rows are passed on
// without validation; short rows produce empty fields.
type TSVSource struct {
	Path       string
	Columns    Columns
	SkipHeader bool
}

// NewTSVSource returns a source over path with the default column layout.
func NewTSVSource(path string) *TSVSource {
	return &TSVSource{Path: path, Columns: DefaultColumns, SkipHeader: true}
}

// Rows opens the file and streams its rows. The file is closed when the
// sequence ends or the consumer stops early.
func (s *TSVSource) Rows(ctx context.Context) iter.Seq2[graph.Row, error] {
	return func(yield func(graph.Row, error) bool) {
		f, err := os.Open(s.Path)
		if err != nil {
			yield(graph.Row{}, fmt.Errorf("open trade file: %w", err))
			return
		}
		defer f.Close()

		logger.Info(logger.StatusData, "Reading trade rows from %s", s.Path)
		for row, err := range ReadTSV(ctx, f, s.Columns, s.SkipHeader) {
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}

// ReadTSV streams rows from r. Quoting is lazy and the number of fields may
// vary from line to line.
func ReadTSV(ctx context.Context, r io.Reader, cols Columns, skipHeader bool) iter.Seq2[graph.Row, error] {
	return func(yield func(graph.Row, error) bool) {
		cr := csv.NewReader(r)
		cr.Comma = '\t'
		cr.LazyQuotes = true
		cr.FieldsPerRecord = -1
		cr.ReuseRecord = true

		first := true
		for {
			if err := ctx.Err(); err != nil {
				yield(graph.Row{}, err)
				return
			}

			fields, err := cr.Read()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(graph.Row{}, fmt.Errorf("read trade row: %w", err))
				return
			}
			if first {
				first = false
				if skipHeader {
					continue
				}
			}
			if !yield(cols.row(fields), nil) {
				return
			}
		}
	}
}
