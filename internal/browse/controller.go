// Package browse implements the client-side interaction controller for the
// equipment search UI: it turns bursty user input (typing, paging, sort and
// filter changes) into a well-formed, de-duplicated sequence of gateway
// requests and keeps the derived view consistent while responses race.
package browse

import (
	"context"
	"sync"
	"time"

	"equipment_search_backend/internal/search/transport"
)

// DefaultDebounce is the text-edit debounce window.
const DefaultDebounce = 300 * time.Millisecond

// Query is the input of one fetch, built from the controller state.
type Query struct {
	Text             string
	Page             int
	PageSize         int
	SortKey          string
	SortDir          string
	Category         string
	Manufacturer     string
	ManufacturedFrom string
	ManufacturedTo   string
}

// Fetcher executes one search request against the gateway.
type Fetcher interface {
	Fetch(ctx context.Context, q Query) (*transport.SearchResponse, error)
}

// Capabilities declares which interactions a controller instance supports.
// The one controller is parameterized by this set instead of hardcoding a
// component per table variant.
type Capabilities struct {
	// SortKeys are the whitelisted sort keys (e.g. assignee, manufactured).
	SortKeys []string
	// Filters are the supported facet filters: category, manufacturer, dateRange.
	Filters []string
}

func (c Capabilities) canSort(key string) bool {
	for _, k := range c.SortKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (c Capabilities) canFilter(name string) bool {
	for _, f := range c.Filters {
		if f == name {
			return true
		}
	}
	return false
}

// Config configures a Controller.
type Config struct {
	PageSize     int
	Debounce     time.Duration
	Capabilities Capabilities
}

// State is the controller's full mutable state. It only changes inside the
// controller's own transitions, which makes the behavior deterministic and
// unit-testable without any rendering environment.
type State struct {
	QueryText        string
	Page             int
	SortKey          string
	SortDir          string
	Category         string
	Manufacturer     string
	ManufacturedFrom string
	ManufacturedTo   string
	Loading          bool
	Err              error
	Results          []transport.EquipmentRecord
	Total            int
}

// Controller coordinates user input with the asynchronous gateway calls.
// Sorting and filtering are pushed into the gateway query so they apply
// across the whole corpus, not just the fetched page.
type Controller struct {
	cfg   Config
	fetch Fetcher
	ctx   context.Context

	mu       sync.Mutex
	state    State
	debounce *time.Timer
	editGen  uint64 // latest text edit; stale debounce timers check against it
	reqID    uint64 // latest issued fetch; stale completions are discarded
}

// New creates a controller. ctx bounds the lifetime of every fetch the
// controller issues.
func New(ctx context.Context, cfg Config, fetch Fetcher) *Controller {
	if cfg.PageSize <= 0 {
		cfg.PageSize = 10
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	return &Controller{
		cfg:   cfg,
		fetch: fetch,
		ctx:   ctx,
		state: State{Page: 1},
	}
}

// Close cancels any pending debounce timer.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.debounce != nil {
		c.debounce.Stop()
		c.debounce = nil
	}
}

// SetQueryText records a text edit and (re)starts the debounce window.
// Only the newest edit's timer is allowed to fire; when it does, pagination
// context is invalidated and a fetch for page 1 is issued.
func (c *Controller) SetQueryText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.state.QueryText = text
	c.editGen++
	gen := c.editGen

	if c.debounce != nil {
		c.debounce.Stop()
	}
	c.debounce = time.AfterFunc(c.cfg.Debounce, func() {
		c.debounceFired(gen)
	})
}

func (c *Controller) debounceFired(gen uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.editGen {
		// A newer edit superseded this timer between fire and lock.
		return
	}
	c.state.Page = 1
	c.startFetchLocked()
}

// SetPage jumps to an explicit page. Out-of-range pages are ignored; the
// paging controls are disabled at the boundaries, so this only guards against
// misuse.
func (c *Controller) SetPage(page int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if page < 1 {
		return
	}
	// Page 1 stays reachable so a refresh or reset works before the first
	// results arrive; anything beyond needs that many pages to exist.
	if page > 1 && page > totalPages(c.state.Total, c.cfg.PageSize) {
		return
	}
	c.state.Page = page
	c.startFetchLocked()
}

// NextPage advances one page when not already at the last.
func (c *Controller) NextPage() {
	c.mu.Lock()
	page := c.state.Page + 1
	c.mu.Unlock()
	c.SetPage(page)
}

// PrevPage goes back one page when not already at the first.
func (c *Controller) PrevPage() {
	c.mu.Lock()
	page := c.state.Page - 1
	c.mu.Unlock()
	c.SetPage(page)
}

// ToggleSort flips the direction when the active key is re-selected and
// adopts a new key at ascending order. Sorting re-orders the whole corpus on
// the engine side, so the page resets to 1 and a fetch is issued.
func (c *Controller) ToggleSort(key string) {
	if !c.cfg.Capabilities.canSort(key) {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.SortKey == key {
		if c.state.SortDir == "asc" {
			c.state.SortDir = "desc"
		} else {
			c.state.SortDir = "asc"
		}
	} else {
		c.state.SortKey = key
		c.state.SortDir = "asc"
	}
	c.state.Page = 1
	c.startFetchLocked()
}

// SetCategory narrows results to one category; empty clears the filter.
func (c *Controller) SetCategory(value string) {
	if !c.cfg.Capabilities.canFilter("category") {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Category = value
	c.state.Page = 1
	c.startFetchLocked()
}

// SetManufacturer narrows results to one manufacturer; empty clears the filter.
func (c *Controller) SetManufacturer(value string) {
	if !c.cfg.Capabilities.canFilter("manufacturer") {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Manufacturer = value
	c.state.Page = 1
	c.startFetchLocked()
}

// SetDateRange narrows results to records manufactured inside [from, to].
// Empty bounds clear the respective side.
func (c *Controller) SetDateRange(from, to string) {
	if !c.cfg.Capabilities.canFilter("dateRange") {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.ManufacturedFrom = from
	c.state.ManufacturedTo = to
	c.state.Page = 1
	c.startFetchLocked()
}

// Refresh issues a fetch for the current state, e.g. the initial load.
func (c *Controller) Refresh() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startFetchLocked()
}

// Snapshot returns the derived view for rendering.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return deriveView(c.state, c.cfg.PageSize)
}

// startFetchLocked tags a new fetch with the next request id and launches it.
// The caller must hold the mutex.
func (c *Controller) startFetchLocked() {
	c.reqID++
	id := c.reqID
	c.state.Loading = true
	// A stale error banner must not linger next to a loading indicator.
	c.state.Err = nil

	q := Query{
		Text:             c.state.QueryText,
		Page:             c.state.Page,
		PageSize:         c.cfg.PageSize,
		SortKey:          c.state.SortKey,
		SortDir:          c.state.SortDir,
		Category:         c.state.Category,
		Manufacturer:     c.state.Manufacturer,
		ManufacturedFrom: c.state.ManufacturedFrom,
		ManufacturedTo:   c.state.ManufacturedTo,
	}

	go c.runFetch(id, q)
}

// runFetch performs the network call and applies the result unless a newer
// request has been issued in the meantime (last-request-wins). In-flight
// calls are not hard-canceled; their results are simply discarded when stale.
func (c *Controller) runFetch(id uint64, q Query) {
	resp, err := c.fetch.Fetch(c.ctx, q)

	c.mu.Lock()
	defer c.mu.Unlock()

	if id != c.reqID {
		return
	}

	c.state.Loading = false
	if err != nil {
		// Keep the last successfully rendered results visible; the user
		// retries by editing the query.
		c.state.Err = err
		return
	}

	c.state.Results = resp.Documents
	c.state.Total = resp.TotalResults
}
