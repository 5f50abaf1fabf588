package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"competitors/config"
	"competitors/logger"
	"competitors/server"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve competitor queries over HTTP and websocket",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg := config.Global
		svc, table, cleanup, err := newService(ctx, cfg, exportOverride{})
		if err != nil {
			return err
		}
		defer cleanup.Close()

		opts := server.Options{
			Runner:      svc,
			Hub:         server.NewHub(),
			CacheTTL:    time.Duration(cfg.Redis.TTLSeconds) * time.Second,
			CORSOrigins: cfg.Server.CORSOrigins,
		}
		if table != nil {
			opts.Lookup = table
		}
		if cfg.Redis.URL != "" {
			cache, err := server.NewRedisCache(ctx, cfg.Redis.URL)
			if err != nil {
				logger.Warn(logger.StatusNet, "Response cache disabled: %v", err)
			} else {
				opts.Cache = cache
				defer cache.Close()
			}
		}

		logger.Info(logger.StatusInit, "%s v%s", cfg.App.Name, cfg.App.Version)
		srv := server.New(opts)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			opts.Hub.Run(gctx)
			return nil
		})
		g.Go(func() error {
			return srv.Start(gctx, cfg.Server.Port)
		})
		return g.Wait()
	},
}
