package query

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// WriteText prints a human readable report of res: the resolved pair, the
// highlighted companies, then every bridging company with its ranked
// commodities.
func (res *Result) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "Query %s (%s)\n", res.ID, res.Mode)
	for _, d := range res.Descriptions {
		fmt.Fprintf(tw, "  %s\t%s\n", d.Code, d.Description)
	}
	for i, cat := range res.Categories {
		if cat != "" {
			fmt.Fprintf(tw, "  %s\tcategory: %s\n", res.Codes[i], cat)
		}
	}
	fmt.Fprintf(tw, "\nYou have %d companies in your neighbourhood\n", len(res.Companies))
	for _, h := range res.Highlights {
		fmt.Fprintf(tw, "  %s has exported %d different commodities\n", h.Company, h.Commodities)
	}

	for _, name := range res.Companies {
		fmt.Fprintf(tw, "\n%s\n", name)
		for _, l := range res.Competitors[name] {
			fmt.Fprintf(tw, "  %s\t%d\n", l.To, l.Weight)
		}
	}
	if res.Export != "" {
		fmt.Fprintf(tw, "\nSubgraph written to %s\n", res.Export)
	}
	return tw.Flush()
}
