// Package client provides the HTTP fetcher the browse controller uses to
// talk to the search gateway.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"equipment_search_backend/internal/browse"
	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/logger"
)

// Client calls the search gateway's HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logger.Logger
}

// New creates a gateway client for the given base URL (scheme://host[:port]).
func New(baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		log:        log,
	}
}

// Fetch implements browse.Fetcher.
func (c *Client) Fetch(ctx context.Context, q browse.Query) (*transport.SearchResponse, error) {
	params := url.Values{}
	params.Set("q", q.Text)
	params.Set("page", strconv.Itoa(q.Page))
	params.Set("pageSize", strconv.Itoa(q.PageSize))
	if q.SortKey != "" {
		params.Set("sortBy", q.SortKey)
		params.Set("sortDir", q.SortDir)
	}
	if q.Category != "" {
		params.Set("category", q.Category)
	}
	if q.Manufacturer != "" {
		params.Set("manufacturer", q.Manufacturer)
	}
	if q.ManufacturedFrom != "" {
		params.Set("manufacturedFrom", q.ManufacturedFrom)
	}
	if q.ManufacturedTo != "" {
		params.Set("manufacturedTo", q.ManufacturedTo)
	}

	reqURL := c.baseURL + "/api/v1/search?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error("gateway request failed", "error", err, "url", reqURL)
		return nil, fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr struct {
			Error string `json:"error"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("gateway returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return nil, fmt.Errorf("gateway returned %d", resp.StatusCode)
	}

	var result transport.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &result, nil
}

var _ browse.Fetcher = (*Client)(nil)
