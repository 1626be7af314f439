package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"equipment_search_backend/internal/search/repository"
	"equipment_search_backend/internal/search/transport"
	"equipment_search_backend/platform/apperr"
	"equipment_search_backend/platform/config"
	"equipment_search_backend/platform/logger"
	"equipment_search_backend/platform/typesense"
)

type Service struct {
	repo *repository.Repository
	cfg  config.SearchConfig
	log  *logger.Logger
}

func New(repo *repository.Repository, cfg config.SearchConfig, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, log: log}
}

// Search validates the request, queries the engine and returns the
// normalized response. Stateless and side-effect free beyond the outbound
// read, so identical requests against an unchanged index yield identical
// responses and the call is safe to retry.
func (s *Service) Search(ctx context.Context, req transport.SearchRequest) (*transport.SearchResponse, error) {
	q, err := s.buildQuery(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	raw, err := s.repo.Search(ctx, q)
	if err != nil {
		s.log.EngineError("search", err)

		var statusErr *typesense.StatusError
		if errors.As(err, &statusErr) {
			// The engine rejected the query. This means the field
			// whitelist drifted from the collection schema and is a
			// bug, not a transient condition.
			appErr := apperr.Internal("search engine rejected query").
				WithOp("search.Search").
				WithDetails(statusErr.Message)
			appErr.Err = err
			return nil, appErr
		}

		appErr := apperr.Unavailable("search engine unavailable").WithOp("search.Search")
		appErr.Err = err
		return nil, appErr
	}

	records, total, dropped := repository.Normalize(raw)
	if dropped > 0 {
		s.log.MalformedResponse("search", fmt.Sprintf("%d hits dropped", dropped))
	}

	s.log.SearchEvent(q.Text, q.Page, q.PageSize, len(records), total,
		float64(time.Since(start).Milliseconds()))

	return &transport.SearchResponse{Documents: records, TotalResults: total}, nil
}

// buildQuery normalizes and bounds-checks the request. The HTTP handler
// already validates the struct tags; re-checking here keeps non-HTTP callers
// honest and guarantees the engine is never contacted with a bad page.
func (s *Service) buildQuery(req transport.SearchRequest) (repository.Query, error) {
	if req.Page < 1 {
		return repository.Query{}, apperr.BadRequest("page must be 1 or greater")
	}
	if req.PageSize < 1 {
		return repository.Query{}, apperr.BadRequest("pageSize must be positive")
	}
	if max := s.cfg.GetSearchMaxPageSize(); req.PageSize > max {
		return repository.Query{}, apperr.BadRequest(fmt.Sprintf("pageSize must not exceed %d", max))
	}

	q := repository.Query{
		Text:         strings.TrimSpace(req.Q),
		Page:         req.Page,
		PageSize:     req.PageSize,
		SortKey:      req.SortBy,
		SortDir:      req.SortDir,
		Category:     strings.TrimSpace(req.Category),
		Manufacturer: strings.TrimSpace(req.Manufacturer),
	}

	if req.ManufacturedFrom != "" || req.ManufacturedTo != "" {
		from, to, err := parseDateRange(req.ManufacturedFrom, req.ManufacturedTo)
		if err != nil {
			return repository.Query{}, err
		}
		q.ManufacturedFrom = from
		q.ManufacturedTo = to
		q.HasDateRange = true
	}

	return q, nil
}

// parseDateRange converts RFC 3339 bounds to the unix-seconds range the
// engine filters on. An open bound falls back to the epoch or the far
// future respectively.
func parseDateRange(fromStr, toStr string) (from, to int64, err error) {
	from = 0
	to = time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC).Unix()

	if fromStr != "" {
		t, parseErr := time.Parse(time.RFC3339, fromStr)
		if parseErr != nil {
			return 0, 0, apperr.BadRequest("manufacturedFrom must be an RFC 3339 timestamp")
		}
		from = t.Unix()
	}
	if toStr != "" {
		t, parseErr := time.Parse(time.RFC3339, toStr)
		if parseErr != nil {
			return 0, 0, apperr.BadRequest("manufacturedTo must be an RFC 3339 timestamp")
		}
		to = t.Unix()
	}
	if from > to {
		return 0, 0, apperr.BadRequest("manufacturedFrom must not be after manufacturedTo")
	}
	return from, to, nil
}
