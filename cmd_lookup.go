package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"text/tabwriter"

	"competitors/config"
	"competitors/lookup"

	"github.com/spf13/cobra"
)

var errInvalidLookup = errors.New("invalid lookup input")

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Describe commodity codes from the CN table",
}

func newLookupSubcommand(use, short string, fn func(*lookup.Table, string) ([]lookup.Entry, bool)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := loadLookup(cmd.Context(), config.Global)
			if err != nil {
				return err
			}
			if table == nil {
				return errors.New("no commodity lookup configured (lookup.source)")
			}

			entries, ok := fn(table, args[0])
			if !ok {
				return fmt.Errorf("%w %q", errInvalidLookup, args[0])
			}
			return printEntries(cmd, entries)
		},
	}
}

func printEntries(cmd *cobra.Command, entries []lookup.Entry) error {
	out := cmd.OutOrStdout()
	if jsonOutput {
		if entries == nil {
			entries = []lookup.Entry{}
		}
		return json.NewEncoder(out).Encode(entries)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "No entries found")
		return nil
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Code, e.Unit, e.Description)
	}
	return tw.Flush()
}

func init() {
	lookupCmd.AddCommand(
		newLookupSubcommand("code <cn-code>", "Describe a 7 or 8 digit CN code", (*lookup.Table).ByCode),
		newLookupSubcommand("search <word>", "Find codes whose description contains a word", (*lookup.Table).ByText),
		newLookupSubcommand("chapter <nn>", "List the codes of an HS chapter", (*lookup.Table).ByChapter),
	)
}
