package tui

import (
	"bytes"
	"context"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"competitors/graph"
	"competitors/lookup"
	"competitors/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type rowsSource []graph.Row

func (s rowsSource) Rows(context.Context) iter.Seq2[graph.Row, error] {
	return graph.Rows(s)
}

func newTestConsole(t *testing.T) (*Console, *bytes.Buffer, *[]Stats) {
	t.Helper()
	svc := &query.Service{Source: rowsSource{
		{Company: "Acme", Code: "10000000", MonthCount: "5"},
		{Company: "Acme", Code: "20000000", MonthCount: "3"},
		{Company: "Beta", Code: "10000000", MonthCount: "7"},
		{Company: "Beta", Code: "30000000", MonthCount: "1"},
	}}
	table := lookup.FromEntries([]lookup.Entry{
		{Code: "10000000", Description: "Widgets"},
		{Code: "10000001", Description: "Wooden widgets"},
	})

	var out bytes.Buffer
	var stats []Stats
	c := NewConsole(svc, table, &out, func(s Stats) { stats = append(stats, s) })
	return c, &out, &stats
}

func TestConsoleBridge(t *testing.T) {
	c, out, stats := newTestConsole(t)

	assert.False(t, c.Handle(context.Background(), "bridge 10000000 20000000"))
	assert.Contains(t, out.String(), "You have 1 companies in your neighbourhood")
	assert.Contains(t, out.String(), "Acme")

	require.Len(t, *stats, 1)
	assert.Equal(t, Stats{Companies: 2, Commodities: 3, Edges: 4, LastQuery: "10000000 20000000"}, (*stats)[0])
}

func TestConsoleCompany(t *testing.T) {
	c, out, _ := newTestConsole(t)

	c.Handle(context.Background(), "company Beta")
	assert.Contains(t, out.String(), "(company)")

	out.Reset()
	c.Handle(context.Background(), "company Nobody")
	assert.Empty(t, out.String())
}

func TestConsoleLookup(t *testing.T) {
	c, out, _ := newTestConsole(t)

	c.Handle(context.Background(), "lookup 10000000")
	assert.Equal(t, "10000000\tWidgets\n", out.String())

	out.Reset()
	c.Handle(context.Background(), "search wooden")
	assert.Equal(t, "10000001\tWooden widgets\n", out.String())

	out.Reset()
	c.Handle(context.Background(), "chapter 99")
	assert.Equal(t, "No entries for 99\n", out.String())

	out.Reset()
	c.Handle(context.Background(), "lookup 12")
	assert.Empty(t, out.String())
}

func TestConsoleExport(t *testing.T) {
	c, _, _ := newTestConsole(t)
	dir := t.TempDir()

	c.Handle(context.Background(), "export "+filepath.Join(dir, "before.gexf"))
	_, err := os.Stat(filepath.Join(dir, "before.gexf"))
	assert.True(t, os.IsNotExist(err))

	c.Handle(context.Background(), "bridge 10000000 20000000")
	c.Handle(context.Background(), "export "+filepath.Join(dir, "sub.dot"))

	data, err := os.ReadFile(filepath.Join(dir, "sub.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Acme"`)
	assert.NotContains(t, string(data), "Beta")
}

func TestConsoleStatsHelpExit(t *testing.T) {
	c, out, stats := newTestConsole(t)

	c.Handle(context.Background(), "stats")
	assert.Equal(t, "Graph(Companies: 2, Commodities: 3, Edges: 4)\n", out.String())
	require.Len(t, *stats, 1)

	out.Reset()
	c.Handle(context.Background(), "help")
	assert.True(t, strings.HasPrefix(out.String(), "Available Commands"))

	assert.False(t, c.Handle(context.Background(), "   "))
	assert.False(t, c.Handle(context.Background(), "dance"))
	assert.True(t, c.Handle(context.Background(), "exit"))
}

func TestRenderStats(t *testing.T) {
	text := renderStats(Stats{Companies: 2, Commodities: 3, Edges: 4, LastQuery: "1 2"})
	assert.Contains(t, text, "Companies:[-:-:-] 2")
	assert.Contains(t, text, "Last query:[-] 1 2")
}
