package datasources

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"competitors/logger"
	"competitors/lookup"
)

// CNPageFetcher downloads a published CN table page and parses its HTML
// table into a lookup table.
type CNPageFetcher struct {
	Client    *http.Client
	UserAgent string
}

func NewCNPageFetcher() *CNPageFetcher {
	return &CNPageFetcher{
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
		UserAgent: "Mozilla/5.0 (compatible; Competitors/1.0)",
	}
}

// Fetch retrieves pageURL and loads the CN table found on it.
func (f *CNPageFetcher) Fetch(ctx context.Context, pageURL string) (*lookup.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching CN page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("CN page status code: %d", resp.StatusCode)
	}

	table, err := lookup.LoadHTML(resp.Body)
	if err != nil {
		return nil, err
	}
	logger.Info(logger.StatusNet, "Fetched %d CN entries from %s", table.Len(), pageURL)
	return table, nil
}
