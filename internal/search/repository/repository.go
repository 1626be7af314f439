package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/typesense"
)

// queryByFields is the fixed whitelist of searchable fields. It must stay a
// subset of the collection schema; a drift shows up as an engine-side query
// error, never as silently empty results.
const queryByFields = "serial,model,manufacturer,category,assignee.firstName,assignee.lastName,location.stationName"

// defaultSortBy ranks by relevance unless the caller overrides it.
const defaultSortBy = "_text_match:desc"

// sortFields maps the whitelisted sort keys to engine fields.
var sortFields = map[string]string{
	"assignee":     "assignee.lastName",
	"manufactured": "manufacturedAt",
	"serial":       "serial",
	"model":        "model",
}

// Engine is the slice of the Typesense client the repository needs.
type Engine interface {
	Search(ctx context.Context, params typesense.SearchParams) (*typesense.SearchResult, error)
}

// Repository adapts the search engine to the service layer.
type Repository struct {
	engine Engine
}

func New(engine Engine) *Repository {
	return &Repository{engine: engine}
}

// Query is a validated, normalized search input. Text has already been
// trimmed and Page/PageSize checked by the caller.
type Query struct {
	Text             string
	Page             int
	PageSize         int
	SortKey          string
	SortDir          string
	Category         string
	Manufacturer     string
	ManufacturedFrom int64
	ManufacturedTo   int64
	HasDateRange     bool
}

// Search runs the query against the engine and returns the raw result.
func (r *Repository) Search(ctx context.Context, q Query) (*typesense.SearchResult, error) {
	return r.engine.Search(ctx, BuildParams(q))
}

// BuildParams translates a Query into engine search parameters. Pure; no
// network, no state.
func BuildParams(q Query) typesense.SearchParams {
	text := strings.TrimSpace(q.Text)
	if text == "" {
		// The engine treats an empty q as "no results"; the match-all
		// token is the documented way to browse everything.
		text = "*"
	}

	return typesense.SearchParams{
		Q:        text,
		QueryBy:  queryByFields,
		SortBy:   buildSort(q),
		FilterBy: buildFilter(q),
		Page:     q.Page,
		PerPage:  q.PageSize,
	}
}

func buildSort(q Query) string {
	field, ok := sortFields[q.SortKey]
	if !ok {
		return defaultSortBy
	}
	dir := q.SortDir
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	return field + ":" + dir
}

func buildFilter(q Query) string {
	var clauses []string
	if q.Category != "" {
		clauses = append(clauses, "category:="+quoteFilterValue(q.Category))
	}
	if q.Manufacturer != "" {
		clauses = append(clauses, "manufacturer:="+quoteFilterValue(q.Manufacturer))
	}
	if q.HasDateRange {
		clauses = append(clauses, fmt.Sprintf("manufacturedAt:[%d..%d]", q.ManufacturedFrom, q.ManufacturedTo))
	}
	return strings.Join(clauses, " && ")
}

// quoteFilterValue backtick-quotes a facet value so spaces and commas survive
// the engine's filter grammar. Backticks cannot be escaped inside, so they
// are dropped from the value.
func quoteFilterValue(v string) string {
	return "`" + strings.ReplaceAll(v, "`", "") + "`"
}

// Normalize converts a raw engine result into an ordered record list and the
// authoritative total count. A missing or malformed hits list becomes an
// empty list, never nil propagation; the second return reports how many hits
// were dropped so the caller can log it. Pure; no defaulting of absent
// record fields happens here.
func Normalize(result *typesense.SearchResult) (records []transport.EquipmentRecord, total int, dropped int) {
	records = []transport.EquipmentRecord{}
	if result == nil {
		return records, 0, 0
	}

	for _, hit := range result.Hits {
		if len(hit.Document) == 0 {
			dropped++
			continue
		}
		var record transport.EquipmentRecord
		if err := json.Unmarshal(hit.Document, &record); err != nil {
			dropped++
			continue
		}
		records = append(records, record)
	}

	if result.Found > 0 {
		total = result.Found
	}
	return records, total, dropped
}
