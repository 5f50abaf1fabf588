package tui

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"competitors/export"
	"competitors/graph"
	"competitors/logger"
	"competitors/lookup"
	"competitors/query"
)

// Lookup answers commodity metadata questions.
type Lookup interface {
	ByCode(code string) ([]lookup.Entry, bool)
	ByText(term string) ([]lookup.Entry, bool)
	ByChapter(chapter string) ([]lookup.Entry, bool)
}

// Console executes console commands against a query service. Output goes to
// out; diagnostics go through the logger.
type Console struct {
	svc     *query.Service
	lookup  Lookup
	out     io.Writer
	onStats func(Stats)

	g    *graph.Graph
	last *query.Result
}

// NewConsole returns a console. lookup and onStats may be nil.
func NewConsole(svc *query.Service, lookup Lookup, out io.Writer, onStats func(Stats)) *Console {
	return &Console{svc: svc, lookup: lookup, out: out, onStats: onStats}
}

// Handle runs one command line and reports whether the console should exit.
func (c *Console) Handle(ctx context.Context, input string) (quit bool) {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return false
	}

	switch parts[0] {
	case "bridge":
		if len(parts) != 3 {
			logger.Warn(logger.StatusQry, "Usage: bridge <code> <code>")
			return false
		}
		c.run(ctx, query.Request{Codes: parts[1:3]})
	case "company":
		if len(parts) < 2 {
			logger.Warn(logger.StatusQry, "Usage: company <name>")
			return false
		}
		c.run(ctx, query.Request{Company: strings.Join(parts[1:], " ")})
	case "default":
		c.run(ctx, query.Request{})
	case "lookup":
		c.lookupWith(parts, (Lookup).ByCode)
	case "search":
		c.lookupWith(parts, (Lookup).ByText)
	case "chapter":
		c.lookupWith(parts, (Lookup).ByChapter)
	case "stats":
		c.stats(ctx)
	case "export":
		if len(parts) != 2 {
			logger.Warn(logger.StatusSave, "Usage: export <file.gexf|file.dot>")
			return false
		}
		c.export(ctx, parts[1])
	case "exit", "quit", "q":
		logger.Info(logger.StatusOK, "Shutting down...")
		return true
	case "help", "?":
		c.help()
	default:
		logger.Warn(logger.StatusWarn, "Unknown command %q. Type 'help' for a list.", parts[0])
	}
	return false
}

func (c *Console) run(ctx context.Context, req query.Request) {
	g, err := c.svc.Load(ctx)
	if err != nil {
		logger.Error(logger.StatusErr, "%v", err)
		return
	}
	c.g = g

	res, err := c.svc.Evaluate(ctx, g, req)
	if err != nil {
		logger.Error(logger.StatusErr, "%v", err)
		return
	}
	c.last = res
	if err := res.WriteText(c.out); err != nil {
		logger.Error(logger.StatusErr, "%v", err)
	}
	c.publishStats(fmt.Sprintf("%s %s", res.Codes[0], res.Codes[1]))
}

func (c *Console) lookupWith(parts []string, fn func(Lookup, string) ([]lookup.Entry, bool)) {
	if c.lookup == nil {
		logger.Warn(logger.StatusChk, "Commodity lookup is not configured")
		return
	}
	if len(parts) != 2 {
		logger.Warn(logger.StatusChk, "Usage: %s <argument>", parts[0])
		return
	}
	entries, ok := fn(c.lookup, parts[1])
	if !ok {
		return
	}
	if len(entries) == 0 {
		fmt.Fprintf(c.out, "No entries for %s\n", parts[1])
		return
	}
	for _, e := range entries {
		fmt.Fprintf(c.out, "%s\t%s\n", e.Code, truncate(e.Description, 80))
	}
}

func (c *Console) stats(ctx context.Context) {
	if c.g == nil {
		g, err := c.svc.Load(ctx)
		if err != nil {
			logger.Error(logger.StatusErr, "%v", err)
			return
		}
		c.g = g
	}
	fmt.Fprintln(c.out, c.g.String())
	last := ""
	if c.last != nil {
		last = fmt.Sprintf("%s %s", c.last.Codes[0], c.last.Codes[1])
	}
	c.publishStats(last)
}

func (c *Console) export(ctx context.Context, path string) {
	if c.last == nil || c.g == nil {
		logger.Warn(logger.StatusSave, "Run a query before exporting")
		return
	}
	a, b := c.last.Codes[0], c.last.Codes[1]
	sub, err := graph.Subgraph(c.g, graph.FindCommonCodes(c.g, a, b))
	if err != nil {
		logger.Error(logger.StatusSave, "%v", err)
		return
	}

	format := export.FormatGEXF
	if strings.EqualFold(filepath.Ext(path), ".dot") {
		format = export.FormatDOT
	}
	data, err := export.Render(sub, format)
	if err != nil {
		logger.Error(logger.StatusSave, "%v", err)
		return
	}
	if err := (export.FileDestination{Path: path}).Write(ctx, data); err != nil {
		logger.Error(logger.StatusSave, "%v", err)
		return
	}
	logger.Success("Subgraph %s exported to %s", sub, path)
}

func (c *Console) publishStats(last string) {
	if c.onStats == nil || c.g == nil {
		return
	}
	c.onStats(Stats{
		Companies:   len(c.g.Companies()),
		Commodities: len(c.g.Commodities()),
		Edges:       c.g.Size(),
		LastQuery:   last,
	})
}

func (c *Console) help() {
	fmt.Fprintln(c.out, "Available Commands")
	fmt.Fprintln(c.out, "  bridge <a> <b>   - Companies exporting both commodity codes")
	fmt.Fprintln(c.out, "  company <name>   - Competitors over a company's two top commodities")
	fmt.Fprintln(c.out, "  default          - Run the default commodity pair")
	fmt.Fprintln(c.out, "  lookup <code>    - Describe a 7 or 8 digit CN code")
	fmt.Fprintln(c.out, "  search <word>    - Find codes whose description mentions a word")
	fmt.Fprintln(c.out, "  chapter <nn>     - List the codes of an HS chapter")
	fmt.Fprintln(c.out, "  stats            - Graph size")
	fmt.Fprintln(c.out, "  export <file>    - Write the last bridging subgraph (.gexf or .dot)")
	fmt.Fprintln(c.out, "  exit             - Quit")
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
