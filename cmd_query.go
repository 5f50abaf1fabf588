package main

import (
	"encoding/json"

	"competitors/config"
	"competitors/query"

	"github.com/spf13/cobra"
)

var (
	exportPath   string
	exportFormat string
)

var queryCmd = &cobra.Command{
	Use:   "query [codeA codeB | company]",
	Short: "Report the companies exporting both commodities of a pair",
	Long: `Two arguments are commodity codes, one argument is a company whose two
heaviest commodities form the pair, and no argument runs the default pair.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		svc, _, cleanup, err := newService(ctx, config.Global, exportOverride{Path: exportPath, Format: exportFormat})
		if err != nil {
			return err
		}
		defer cleanup.Close()

		res, err := svc.Run(ctx, query.RequestFromArgs(args))
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(res)
		}
		return res.WriteText(cmd.OutOrStdout())
	},
}

func init() {
	queryCmd.Flags().StringVar(&exportPath, "export", "", "write the bridging subgraph to this file")
	queryCmd.Flags().StringVar(&exportFormat, "format", "", "export format: gexf or dot")
}
