package main

import (
	"fmt"
	"time"

	"competitors/config"
	"competitors/logger"
	"competitors/tui"

	"github.com/spf13/cobra"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Interactive terminal console",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg := config.Global

		app := tui.New(fmt.Sprintf("%s v%s", cfg.App.Name, cfg.App.Version))
		errCh := make(chan error, 1)
		go func() {
			errCh <- app.Start()
		}()

		// Give the TUI a moment to initialize before routing logs into it.
		time.Sleep(100 * time.Millisecond)
		out := app.NewWriter()
		logger.SetOutput(out)

		svc, table, cleanup, err := newService(ctx, cfg, exportOverride{})
		if err != nil {
			app.Stop()
			<-errCh
			return err
		}
		defer cleanup.Close()

		var lk tui.Lookup
		if table != nil {
			lk = table
		}
		console := tui.NewConsole(svc, lk, out, app.UpdateStats)
		logger.Info(logger.StatusInit, "Type 'help' for commands")

		for input := range app.Commands() {
			if console.Handle(ctx, input) {
				app.Stop()
			}
		}
		return <-errCh
	},
}
