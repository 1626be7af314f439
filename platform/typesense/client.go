// Package typesense provides a REST client for the Typesense search engine.
package typesense

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const apiKeyHeader = "X-TYPESENSE-API-KEY"

// Client is an HTTP client for Typesense.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	httpClient *http.Client
}

// Config configures the Typesense client.
type Config struct {
	BaseURL    string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

// NewClient creates a new Typesense client.
func NewClient(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Collection returns the collection name the client is bound to.
func (c *Client) Collection() string {
	return c.collection
}

// SearchParams are the query parameters for a document search.
type SearchParams struct {
	Q        string
	QueryBy  string
	SortBy   string
	FilterBy string
	Page     int
	PerPage  int
}

// Hit is a single search hit wrapping the matched document.
type Hit struct {
	Document json.RawMessage `json:"document"`
}

// SearchResult is the engine response for a document search.
type SearchResult struct {
	Hits  []Hit `json:"hits"`
	Found int   `json:"found"`
	OutOf int   `json:"out_of"`
	Page  int   `json:"page"`
}

// StatusError is returned when the engine answers with a non-2xx status.
// It indicates the engine rejected the request (bad field name, malformed
// query) as opposed to the engine being unreachable.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("typesense returned %d: %s", e.StatusCode, e.Message)
}

// Search runs a full-text search against the configured collection.
func (c *Client) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	q := url.Values{}
	q.Set("q", params.Q)
	q.Set("query_by", params.QueryBy)
	if params.SortBy != "" {
		q.Set("sort_by", params.SortBy)
	}
	if params.FilterBy != "" {
		q.Set("filter_by", params.FilterBy)
	}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(params.PerPage))
	}

	endpoint := fmt.Sprintf("%s/collections/%s/documents/search?%s",
		c.baseURL, url.PathEscape(c.collection), q.Encode())

	var result SearchResult
	if err := c.doJSON(ctx, http.MethodGet, endpoint, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Field describes one field of a collection schema.
type Field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Facet    bool   `json:"facet,omitempty"`
	Optional bool   `json:"optional,omitempty"`
	Sort     bool   `json:"sort,omitempty"`
}

// CollectionSchema is the schema payload for collection creation.
type CollectionSchema struct {
	Name               string  `json:"name"`
	Fields             []Field `json:"fields"`
	EnableNestedFields bool    `json:"enable_nested_fields,omitempty"`
}

// CreateCollection creates a collection with the given schema.
func (c *Client) CreateCollection(ctx context.Context, schema CollectionSchema) error {
	endpoint := c.baseURL + "/collections"
	return c.doJSON(ctx, http.MethodPost, endpoint, schema, nil)
}

// DeleteCollection drops a collection and all its documents.
func (c *Client) DeleteCollection(ctx context.Context, name string) error {
	endpoint := c.baseURL + "/collections/" + url.PathEscape(name)
	return c.doJSON(ctx, http.MethodDelete, endpoint, nil, nil)
}

// UpsertDocument creates or replaces a single document in the configured
// collection.
func (c *Client) UpsertDocument(ctx context.Context, document interface{}) error {
	endpoint := fmt.Sprintf("%s/collections/%s/documents?action=upsert",
		c.baseURL, url.PathEscape(c.collection))
	return c.doJSON(ctx, http.MethodPost, endpoint, document, nil)
}

// Health checks whether the engine is up.
func (c *Client) Health(ctx context.Context) error {
	var status struct {
		OK bool `json:"ok"`
	}
	if err := c.doJSON(ctx, http.MethodGet, c.baseURL+"/health", nil, &status); err != nil {
		return err
	}
	if !status.OK {
		return fmt.Errorf("typesense reported not ok")
	}
	return nil
}

func (c *Client) doJSON(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(apiKeyHeader, c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("typesense request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readErrorMessage extracts the engine's error message from a failed response
// body, falling back to the raw body when it is not the usual JSON shape.
func readErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, 4096))
	if err != nil || len(raw) == 0 {
		return "no error details"
	}

	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &parsed); err == nil && parsed.Message != "" {
		return parsed.Message
	}
	return string(raw)
}
