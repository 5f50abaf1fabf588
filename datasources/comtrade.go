package datasources

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"competitors/logger"
	"competitors/lookup"
)

// ComtradeClient fetches classification reference files from the UN Comtrade
// API. Documentation: https://comtradeapi.un.org/
type ComtradeClient struct {
	BaseURL string
	Client  *http.Client
}

func NewComtradeClient() *ComtradeClient {
	return &ComtradeClient{
		BaseURL: "https://comtradeapi.un.org/files/v1/app/reference",
		Client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// HSItem is one node of the HS classification tree.
type HSItem struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Parent    string `json:"parent"`
	AggrLevel int    `json:"aggrLevel"`
}

type hsReference struct {
	Results []HSItem `json:"results"`
}

// GetHSReference downloads the HS classification (HS.json).
func (c *ComtradeClient) GetHSReference(ctx context.Context) ([]HSItem, error) {
	apiURL := fmt.Sprintf("%s/HS.json", strings.TrimRight(c.BaseURL, "/"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Competitors/1.0")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comtrade reference request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("comtrade API error %d: %s", resp.StatusCode, string(body))
	}

	var result hsReference
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to parse comtrade reference: %w", err)
	}
	logger.Info(logger.StatusNet, "Fetched %d HS reference items", len(result.Results))
	return result.Results, nil
}

// Entries converts reference items into lookup entries. Aggregates such as
// "TOTAL" are skipped and the "0101 - " prefix is stripped from the text.
func Entries(items []HSItem) []lookup.Entry {
	entries := make([]lookup.Entry, 0, len(items))
	for _, it := range items {
		if !isDigits(it.ID) {
			continue
		}
		desc := strings.TrimPrefix(it.Text, it.ID+" - ")
		entries = append(entries, lookup.Entry{Code: it.ID, Description: desc})
	}
	return entries
}

// LoadLookup fetches the HS reference and builds a lookup table from it.
func (c *ComtradeClient) LoadLookup(ctx context.Context) (*lookup.Table, error) {
	items, err := c.GetHSReference(ctx)
	if err != nil {
		return nil, err
	}
	return lookup.FromEntries(Entries(items)), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
