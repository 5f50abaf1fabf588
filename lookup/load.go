package lookup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Column headers of the published CN table.
const (
	HeaderCode        = "Commodity Code"
	HeaderUnit        = "Supplementary Unit"
	HeaderDescription = "Self-Explanatory text (English)"
)

type columnIndex struct {
	code, unit, desc int
}

func indexColumns(header []string) (columnIndex, error) {
	idx := columnIndex{code: -1, unit: -1, desc: -1}
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case HeaderCode:
			idx.code = i
		case HeaderUnit:
			idx.unit = i
		case HeaderDescription:
			idx.desc = i
		}
	}
	if idx.code < 0 || idx.desc < 0 {
		return idx, fmt.Errorf("missing %q or %q column in header %q", HeaderCode, HeaderDescription, header)
	}
	return idx, nil
}

func (c columnIndex) entry(fields []string) Entry {
	get := func(i int) string {
		if i < 0 || i >= len(fields) {
			return ""
		}
		return strings.TrimSpace(fields[i])
	}
	return Entry{Code: get(c.code), Unit: get(c.unit), Description: get(c.desc)}
}

// LoadTSV reads the tab separated CN table. UTF-16 input with a byte order
// mark (as the table is published) and plain UTF-8 are both accepted.
func LoadTSV(r io.Reader) (*Table, error) {
	decoded := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(decoded)
	cr.Comma = '\t'
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read CN header: %w", err)
	}
	idx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for {
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CN table: %w", err)
		}
		e := idx.entry(fields)
		if e.Code == "" {
			continue
		}
		entries = append(entries, e)
	}
	return FromEntries(entries), nil
}

// LoadHTML reads the CN table from the first HTML <table> whose header row
// carries the CN column names.
func LoadHTML(r io.Reader) (*Table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse CN html: %w", err)
	}

	var (
		entries []Entry
		found   bool
		lastErr error
	)
	doc.Find("table").EachWithBreak(func(_ int, table *goquery.Selection) bool {
		rows := table.Find("tr")
		if rows.Length() == 0 {
			return true
		}
		idx, err := indexColumns(cells(rows.First()))
		if err != nil {
			lastErr = err
			return true
		}
		found = true
		rows.Slice(1, goquery.ToEnd).Each(func(_ int, row *goquery.Selection) {
			e := idx.entry(cells(row))
			if e.Code != "" {
				entries = append(entries, e)
			}
		})
		return false
	})

	if !found {
		if lastErr == nil {
			lastErr = errors.New("no table found")
		}
		return nil, fmt.Errorf("load CN html: %w", lastErr)
	}
	return FromEntries(entries), nil
}

func cells(row *goquery.Selection) []string {
	var out []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		out = append(out, strings.TrimSpace(cell.Text()))
	})
	return out
}
