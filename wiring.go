package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"competitors/classify"
	"competitors/config"
	"competitors/datasources"
	"competitors/events"
	"competitors/export"
	"competitors/logger"
	"competitors/lookup"
	"competitors/query"
)

// closers run in reverse order when a command finishes.
type closers []func() error

func (c closers) Close() {
	for i := len(c) - 1; i >= 0; i-- {
		if err := c[i](); err != nil {
			logger.Warn(logger.StatusWarn, "Cleanup: %v", err)
		}
	}
}

// exportOverride replaces the configured export destination for one run.
type exportOverride struct {
	Path   string
	Format string
}

// newService wires a query service from cfg.
func newService(ctx context.Context, cfg config.Config, override exportOverride) (*query.Service, *lookup.Table, closers, error) {
	var cleanup closers

	source, closeSource, err := newSource(ctx, cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	if closeSource != nil {
		cleanup = append(cleanup, closeSource)
	}

	svc := &query.Service{
		Source:     source,
		Resolver:   query.NewResolver(cfg.Query.Default),
		Report:     cfg.Query.Report,
		Classifier: newClassifier(cfg),
		Format:     export.Format(cfg.Export.Format),
	}

	table, err := loadLookup(ctx, cfg)
	if err != nil {
		logger.Warn(logger.StatusChk, "Commodity lookup unavailable, descriptions will be placeholders: %v", err)
	}
	if table != nil {
		svc.Lookup = table
	}

	if override.Format != "" {
		svc.Format = export.Format(override.Format)
	}
	dest, err := newDestination(ctx, cfg, override.Path)
	if err != nil {
		logger.Warn(logger.StatusSave, "Export disabled: %v", err)
	}
	if dest != nil {
		svc.Export = dest
	}

	if cfg.NATS.URL != "" {
		pub, err := events.NewNATSPublisher(cfg.NATS.URL)
		if err != nil {
			logger.Warn(logger.StatusEvt, "Event publishing disabled: %v", err)
		} else {
			svc.Publisher = pub
			cleanup = append(cleanup, pub.Close)
		}
	}

	return svc, table, cleanup, nil
}

func newSource(ctx context.Context, cfg config.Config) (query.RowSource, func() error, error) {
	switch strings.ToLower(cfg.Data.Source) {
	case "", "tsv":
		return &datasources.TSVSource{
			Path:       cfg.Data.Path,
			Columns:    cfg.Data.Columns,
			SkipHeader: cfg.Data.SkipHeader,
		}, nil, nil
	case "postgres":
		if cfg.Data.Postgres.DSN == "" {
			return nil, nil, errors.New("data.postgres.dsn is required for the postgres source")
		}
		db, err := datasources.OpenPostgres(ctx, cfg.Data.Postgres.DSN)
		if err != nil {
			return nil, nil, err
		}
		pg := cfg.Data.Postgres
		return datasources.NewPostgresSource(db, pg.Table, pg.Columns), db.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown data source %q", cfg.Data.Source)
	}
}

// loadLookup returns nil without error when no lookup is configured.
func loadLookup(ctx context.Context, cfg config.Config) (*lookup.Table, error) {
	src := strings.ToLower(cfg.Lookup.Source)
	switch src {
	case "", "none":
		return nil, nil
	case "comtrade":
		client := datasources.NewComtradeClient()
		if cfg.Lookup.URL != "" {
			client.BaseURL = cfg.Lookup.URL
		}
		return client.LoadLookup(ctx)
	case "html":
		if strings.HasPrefix(cfg.Lookup.URL, "http") {
			return datasources.NewCNPageFetcher().Fetch(ctx, cfg.Lookup.URL)
		}
		fallthrough
	case "tsv":
		f, err := os.Open(cfg.Lookup.Path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		var table *lookup.Table
		if src == "html" {
			table, err = lookup.LoadHTML(f)
		} else {
			table, err = lookup.LoadTSV(f)
		}
		if err != nil {
			return nil, err
		}
		logger.Info(logger.StatusChk, "Loaded %d CN entries from %s", table.Len(), cfg.Lookup.Path)
		return table, nil
	default:
		return nil, fmt.Errorf("unknown lookup source %q", cfg.Lookup.Source)
	}
}

func newClassifier(cfg config.Config) classify.Classifier {
	if len(cfg.Classifier.Chapters) > 0 {
		return classify.ChapterTable(cfg.Classifier.Chapters)
	}
	return classify.DefaultChapters
}

// newDestination returns nil without error when export is off.
func newDestination(ctx context.Context, cfg config.Config, path string) (export.Destination, error) {
	if path != "" {
		return export.FileDestination{Path: path}, nil
	}
	if !cfg.Export.Enabled {
		return nil, nil
	}
	if cfg.Export.S3.Bucket != "" {
		dest, err := export.NewS3Destination(ctx, cfg.Export.S3)
		if err != nil {
			return nil, err
		}
		return dest, nil
	}
	return export.FileDestination{Path: cfg.Export.Path}, nil
}
