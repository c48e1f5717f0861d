// Package salesapi is the client for the real-estate analytics backend's
// NYC endpoints.
package salesapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/salescope/salescope/internal/market"
)

const DefaultBaseURL = "http://localhost:8000"

type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

func New(baseURL string, timeout time.Duration) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

type wireRow struct {
	Borough      string  `json:"borough"`
	Neighborhood string  `json:"neighborhood"`
	MedianValue  float64 `json:"median_value"`
	AvgValue     float64 `json:"avg_value"`
	Count        int     `json:"count"`
}

type salesResponse struct {
	Boroughs      []wireRow `json:"boroughs"`
	Neighborhoods []wireRow `json:"neighborhoods"`
	Total         int       `json:"total"`
	Error         string    `json:"error"`
}

// RecentSales fetches per-borough aggregates for the trailing window. pages
// bounds how many result pages the backend scans before aggregating. A
// response without a "boroughs" key yields an empty collection, not an error.
func (c *Client) RecentSales(ctx context.Context, months, pages int) ([]market.AggregateRow, error) {
	q := url.Values{}
	q.Set("months", strconv.Itoa(months))
	q.Set("pages", strconv.Itoa(pages))

	parsed, err := c.get(ctx, "/api/nyc/recent-sales", q)
	if err != nil {
		return nil, err
	}
	return mapRows(parsed.Boroughs, func(r wireRow) string { return r.Borough }), nil
}

// NeighborhoodSales fetches per-neighborhood aggregates for one borough.
func (c *Client) NeighborhoodSales(ctx context.Context, borough string, months int) ([]market.AggregateRow, error) {
	q := url.Values{}
	q.Set("borough", borough)
	q.Set("months", strconv.Itoa(months))

	parsed, err := c.get(ctx, "/api/nyc/neighborhoods", q)
	if err != nil {
		return nil, err
	}
	return mapRows(parsed.Neighborhoods, func(r wireRow) string { return r.Neighborhood }), nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values) (*salesResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", "salescope/1.0")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading body: %w", err)
	}

	var parsed salesResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("parsing response: %w", err)
	}
	// The backend reports its own failures inside a 200 payload.
	if parsed.Error != "" {
		return nil, fmt.Errorf("backend error: %s", parsed.Error)
	}
	return &parsed, nil
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	return http.DefaultClient
}

func mapRows(in []wireRow, label func(wireRow) string) []market.AggregateRow {
	return lo.Map(in, func(r wireRow, _ int) market.AggregateRow {
		return market.AggregateRow{
			Label:        label(r),
			Count:        r.Count,
			MedianValue:  r.MedianValue,
			AverageValue: r.AvgValue,
		}
	})
}
