package query

import (
	"context"
	"fmt"
	"iter"
	"time"

	"competitors/classify"
	"competitors/events"
	"competitors/export"
	"competitors/graph"
	"competitors/logger"
	"competitors/lookup"

	"github.com/google/uuid"
)

// RowSource feeds the graph of one query.
type RowSource interface {
	Rows(ctx context.Context) iter.Seq2[graph.Row, error]
}

// Describer explains a commodity code. It never fails; unknown codes come
// back as placeholders.
type Describer interface {
	Describe(code string) lookup.Entry
}

// Result is the answer to one query.
type Result struct {
	ID           string                  `json:"id"`
	Mode         Mode                    `json:"mode"`
	Codes        [2]string               `json:"codes"`
	Descriptions [2]lookup.Entry         `json:"descriptions"`
	Categories   []string                `json:"categories,omitempty"`
	Competitors  map[string][]graph.Link `json:"competitors"`
	// Companies lists the keys of Competitors in bridging order.
	Companies  []string    `json:"-"`
	Highlights []Highlight `json:"-"`
	Export     string      `json:"export,omitempty"`
}

// Service runs queries. Only Source is required; the other collaborators are
// skipped when nil.
type Service struct {
	Source     RowSource
	Resolver   *Resolver
	Report     ReportConfig
	Lookup     Describer
	Classifier classify.Classifier
	Export     export.Destination
	Format     export.Format
	Publisher  events.Publisher
}

// Load builds a fresh graph from the source.
func (s *Service) Load(ctx context.Context) (*graph.Graph, error) {
	start := time.Now()
	g, err := graph.Build(s.Source.Rows(ctx))
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	logger.Info(logger.StatusData, "Loaded %s in %s", g, time.Since(start).Round(time.Millisecond))
	return g, nil
}

// Run builds the graph and answers req against it.
func (s *Service) Run(ctx context.Context, req Request) (*Result, error) {
	logger.Info(logger.StatusInit, "Loading main graph ...")
	g, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return s.Evaluate(ctx, g, req)
}

// Evaluate answers req against an already built graph.
func (s *Service) Evaluate(ctx context.Context, g *graph.Graph, req Request) (*Result, error) {
	resolver := s.Resolver
	if resolver == nil {
		resolver = NewResolver(DefaultPair)
	}
	pair, mode, err := resolver.Resolve(g, req)
	if err != nil {
		logger.Error(logger.StatusQry, "Resolving %s: %v", req, err)
		return nil, err
	}
	if mode == ModeDefault {
		logger.Warn(logger.StatusQry, "No valid search parameters given. Proceeding with default.")
	}
	logger.Info(logger.StatusQry, "Identified %s %s", pair.A, pair.B)

	res := &Result{
		ID:    uuid.NewString(),
		Mode:  mode,
		Codes: pair.Codes(),
	}
	res.Descriptions = [2]lookup.Entry{s.describe(pair.A), s.describe(pair.B)}
	logger.Info(logger.StatusMat, "Preparing subgraph for %s - %s and %s - %s",
		pair.A, res.Descriptions[0].Description, pair.B, res.Descriptions[1].Description)

	if s.Classifier != nil {
		res.Categories = []string{s.classify(pair.A), s.classify(pair.B)}
	}

	res.Companies = graph.CommonNeighbors(g, pair.A, pair.B)
	res.Competitors = make(map[string][]graph.Link, len(res.Companies))
	for _, name := range res.Companies {
		links, err := graph.TopNeighbors(g, name)
		if err != nil {
			logger.Error(logger.StatusCor, "Ranking %s: %v", name, err)
			return nil, err
		}
		res.Competitors[name] = links
	}

	report := s.Report
	if report == (ReportConfig{}) {
		report = DefaultReportConfig
	}
	res.Highlights = Highlights(report, pair, res.Companies, res.Competitors)
	logReport(res)

	if s.Export != nil {
		res.Export = s.export(ctx, g, pair)
	}
	s.publish(ctx, res)
	return res, nil
}

func (s *Service) describe(code string) lookup.Entry {
	if s.Lookup == nil {
		return lookup.Placeholder(code)
	}
	return s.Lookup.Describe(code)
}

func (s *Service) classify(code string) string {
	label, err := s.Classifier.Predict(code)
	if err != nil {
		logger.Warn(logger.StatusChk, "Classifying %s: %v", code, err)
		return ""
	}
	return label
}

func (s *Service) export(ctx context.Context, g *graph.Graph, pair Pair) string {
	sub, err := graph.Subgraph(g, graph.FindCommonCodes(g, pair.A, pair.B))
	if err != nil {
		logger.Warn(logger.StatusSave, "Building subgraph: %v", err)
		return ""
	}
	data, err := export.Render(sub, s.Format)
	if err != nil {
		logger.Warn(logger.StatusSave, "Rendering subgraph: %v", err)
		return ""
	}
	if err := s.Export.Write(ctx, data); err != nil {
		logger.Warn(logger.StatusSave, "Exporting subgraph: %v", err)
		return ""
	}
	logger.Success("Subgraph %s written to %s", sub, s.Export)
	return s.Export.String()
}

func (s *Service) publish(ctx context.Context, res *Result) {
	if s.Publisher == nil {
		return
	}
	names := make([]string, len(res.Highlights))
	for i, h := range res.Highlights {
		names[i] = h.Company
	}
	event := events.QueryCompleted{
		ID:          res.ID,
		Mode:        string(res.Mode),
		Codes:       res.Codes,
		Competitors: len(res.Companies),
		Highlights:  names,
		Export:      res.Export,
		At:          time.Now().UTC(),
	}
	if err := s.Publisher.Publish(ctx, events.TopicQueryCompleted, event); err != nil {
		logger.Warn(logger.StatusEvt, "Publishing %s: %v", events.TopicQueryCompleted, err)
	}
}

func logReport(res *Result) {
	logger.Info(logger.StatusLink, "You have %d companies in your neighbourhood", len(res.Companies))
	for _, h := range res.Highlights {
		logger.Plain("  %s has exported %d different commodities", h.Company, h.Commodities)
	}
}
