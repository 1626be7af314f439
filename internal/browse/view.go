package browse

import (
	"sort"

	"equipment_search_backend/internal/search/transport"
)

// View is the render-ready projection of the controller state.
type View struct {
	Rows         []transport.EquipmentRecord
	TotalResults int
	TotalPages   int
	Page         int
	PageSize     int
	Loading      bool
	Err          error
	SortKey      string
	SortDir      string
	// Facet option values are computed from the currently visible page, not
	// the whole corpus. Known limitation: options narrow as the page does.
	Categories    []string
	Manufacturers []string
	CanPrev       bool
	CanNext       bool
}

func deriveView(s State, pageSize int) View {
	tp := totalPages(s.Total, pageSize)

	return View{
		Rows:          s.Results,
		TotalResults:  s.Total,
		TotalPages:    tp,
		Page:          s.Page,
		PageSize:      pageSize,
		Loading:       s.Loading,
		Err:           s.Err,
		SortKey:       s.SortKey,
		SortDir:       s.SortDir,
		Categories:    facetOptions(s.Results, func(r transport.EquipmentRecord) *string { return r.Category }),
		Manufacturers: facetOptions(s.Results, func(r transport.EquipmentRecord) *string { return r.Manufacturer }),
		CanPrev:       tp > 0 && s.Page > 1,
		CanNext:       tp > 0 && s.Page < tp,
	}
}

// totalPages is ceil(total/pageSize); zero results mean zero pages and both
// paging controls disabled.
func totalPages(total, pageSize int) int {
	if total <= 0 || pageSize <= 0 {
		return 0
	}
	return (total + pageSize - 1) / pageSize
}

func facetOptions(records []transport.EquipmentRecord, field func(transport.EquipmentRecord) *string) []string {
	seen := make(map[string]struct{})
	options := []string{}
	for _, r := range records {
		v := field(r)
		if v == nil || *v == "" {
			continue
		}
		if _, ok := seen[*v]; ok {
			continue
		}
		seen[*v] = struct{}{}
		options = append(options, *v)
	}
	sort.Strings(options)
	return options
}
