package main

import (
	"fmt"
	"os"

	"competitors/config"
	"competitors/logger"

	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "competitors <command>",
	Short: "Find companies exporting overlapping commodities",
	Long: `competitors builds a company/commodity graph from trade rows and reports
the companies that export both commodities of a pair, together with everything
else they export.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.LoadEnv(".env"); err != nil {
			return fmt.Errorf("loading .env: %w", err)
		}
		if err := config.Load(configPath); err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		if logLevel != "" {
			config.Global.Logging.Level = logLevel
		}
		logger.Init(config.Global.Logging.Level, config.Global.Logging.EnableColors)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.GetLogger().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (.yaml or .toml, default config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output as JSON")

	rootCmd.AddCommand(queryCmd, lookupCmd, serveCmd, consoleCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
