package query

import "competitors/graph"

// ReportConfig bounds the human readable competitor report.
type ReportConfig struct {
	// Threshold is the bridging set size above which only companies ranking a
	// query code in their top two are reported.
	Threshold int `yaml:"threshold" toml:"threshold"`
	// Limit caps the number of reported companies.
	Limit int `yaml:"limit" toml:"limit"`
	// MinCommodities is the least number of commodities a reported company
	// exports.
	MinCommodities int `yaml:"min_commodities" toml:"min_commodities"`
}

// DefaultReportConfig reports at most 20 companies with three or more
// commodities, filtering once there are more than 20 candidates.
var DefaultReportConfig = ReportConfig{Threshold: 20, Limit: 20, MinCommodities: 3}

// Highlight is one reported company.
type Highlight struct {
	Company     string `json:"company"`
	Commodities int    `json:"commodities"`
}

// Highlights selects the companies worth mentioning, in bridging order.
// ranked holds each company's commodities heaviest first.
func Highlights(cfg ReportConfig, pair Pair, companies []string, ranked map[string][]graph.Link) []Highlight {
	filter := len(companies) > cfg.Threshold

	var out []Highlight
	for _, name := range companies {
		if len(out) >= cfg.Limit {
			break
		}
		links := ranked[name]
		if len(links) < cfg.MinCommodities {
			continue
		}
		if filter && !ranksInTopTwo(links, pair) {
			continue
		}
		out = append(out, Highlight{Company: name, Commodities: len(links)})
	}
	return out
}

func ranksInTopTwo(links []graph.Link, pair Pair) bool {
	for _, l := range links[:min(2, len(links))] {
		if pair.Has(l.To) {
			return true
		}
	}
	return false
}
