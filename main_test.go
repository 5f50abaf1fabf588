package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"competitors/config"
	"competitors/lookup"
	"competitors/query"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tradeTSV = "CompanyNumber\tRegAddress.PostCode\tPostcode\tHScode\tco_name\tName\tSICCode.SicText_1\tMonthCount\n" +
	"01\tLS1\tLS1\t10000000\tAcme\tAcme Ltd\t31010\t5\n" +
	"01\tLS1\tLS1\t20000000\tAcme\tAcme Ltd\t31010\t3\n" +
	"02\tYO1\tYO1\t10000000\tBeta\tBeta plc\t31020\t7\n" +
	"02\tYO1\tYO1\t30000000\tBeta\tBeta plc\t31020\t1\n"

const cnTable = "Commodity Code\tSupplementary Unit\tSelf-Explanatory text (English)\n" +
	"10000000\tkg\tWheat and meslin\n" +
	"20000000\tkg\tPrepared vegetables\n"

func writeConfig(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()
	rows := filepath.Join(dir, "rows.tsv")
	table := filepath.Join(dir, "cn.txt")
	require.NoError(t, os.WriteFile(rows, []byte(tradeTSV), 0o644))
	require.NoError(t, os.WriteFile(table, []byte(cnTable), 0o644))

	cfg := "data:\n  path: " + rows + "\n" +
		"lookup:\n  source: tsv\n  path: " + table + "\n" +
		"export:\n  enabled: false\n" +
		"logging:\n  level: error\n  enable_colors: false\n"
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o644))
	return path, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	configPath, logLevel, jsonOutput = "", "", false
	exportPath, exportFormat = "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestQueryCommandJSON(t *testing.T) {
	path, _ := writeConfig(t)

	out, err := execute(t, "--config", path, "--json", "query", "10000000", "20000000")
	require.NoError(t, err)

	var res query.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, query.ModeCodes, res.Mode)
	assert.Equal(t, "Wheat and meslin", res.Descriptions[0].Description)
	assert.Equal(t, "Prepared vegetables", res.Descriptions[1].Description)
	require.Contains(t, res.Competitors, "Acme")
	assert.Len(t, res.Competitors["Acme"], 2)
	assert.NotContains(t, res.Competitors, "Beta")
}

func TestQueryCommandCompanyAndExport(t *testing.T) {
	path, dir := writeConfig(t)
	target := filepath.Join(dir, "beta.dot")

	out, err := execute(t, "--config", path, "query", "--export", target, "--format", "dot", "Beta")
	require.NoError(t, err)
	assert.Contains(t, out, "(company)")
	assert.Contains(t, out, "Subgraph written to "+target)

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Beta"`)
}

func TestQueryCommandUnresolvable(t *testing.T) {
	path, dir := writeConfig(t)
	rows := filepath.Join(dir, "solo.tsv")
	require.NoError(t, os.WriteFile(rows, []byte("h\th\th\th\th\th\th\th\n1\t\t\t10000000\tSolo\t\t\t4\n"), 0o644))
	t.Setenv("COMPETITORS_DATA_PATH", rows)

	_, err := execute(t, "--config", path, "query", "Solo")
	assert.ErrorIs(t, err, query.ErrNotImplemented)
}

func TestLookupCommand(t *testing.T) {
	path, _ := writeConfig(t)

	out, err := execute(t, "--config", path, "--json", "lookup", "code", "10000000")
	require.NoError(t, err)
	var entries []lookup.Entry
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Wheat and meslin", entries[0].Description)

	out, err = execute(t, "--config", path, "lookup", "search", "vegetables")
	require.NoError(t, err)
	assert.Contains(t, out, "20000000")

	_, err = execute(t, "--config", path, "lookup", "chapter", "123")
	assert.ErrorIs(t, err, errInvalidLookup)
}

func TestNewServiceWiring(t *testing.T) {
	path, dir := writeConfig(t)
	cfg, err := config.Read(path)
	require.NoError(t, err)

	cfg.Export.Enabled = true
	cfg.Export.Path = filepath.Join(dir, "out.gexf")
	svc, table, cleanup, err := newService(context.Background(), cfg, exportOverride{})
	require.NoError(t, err)
	defer cleanup.Close()

	require.NotNil(t, table)
	assert.NotNil(t, svc.Lookup)
	assert.NotNil(t, svc.Export)
	assert.Nil(t, svc.Publisher)

	res, err := svc.Run(context.Background(), query.Request{})
	require.NoError(t, err)
	assert.Equal(t, query.ModeDefault, res.Mode)
	assert.Equal(t, cfg.Export.Path, res.Export)

	cfg.Data.Source = "parquet"
	_, _, _, err = newService(context.Background(), cfg, exportOverride{})
	assert.Error(t, err)
}
